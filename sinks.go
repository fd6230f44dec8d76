package planegen

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/planegen/game"
)

// Sinks are the output streams of a run.
type Sinks struct {
	Selector io.Writer
	Pieces   map[game.PieceType]io.Writer
}

func (s Sinks) validate() error {
	if s.Selector == nil {
		return errors.New("missing selector sink")
	}
	for _, t := range game.PieceTypes {
		if s.Pieces[t] == nil {
			return errors.Errorf("missing %v sink", t)
		}
	}
	return nil
}

// StreamFile is the file name of a stream inside the output directory.
func StreamFile(stream string) string { return stream + ".csv" }

// FileSinks are Sinks backed by buffered files.
type FileSinks struct {
	Sinks

	files []*os.File
	bufs  []*bufio.Writer
}

// OpenSinks creates, or truncates, one file per stream in dir.
func OpenSinks(dir string) (*FileSinks, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WithStack(err)
	}
	fs := &FileSinks{Sinks: Sinks{Pieces: make(map[game.PieceType]io.Writer, len(game.PieceTypes))}}
	open := func(stream string) (io.Writer, error) {
		f, err := os.OpenFile(filepath.Join(dir, StreamFile(stream)), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		w := bufio.NewWriterSize(f, 1<<20)
		fs.files = append(fs.files, f)
		fs.bufs = append(fs.bufs, w)
		return w, nil
	}

	var err error
	if fs.Selector, err = open(Selector); err != nil {
		fs.Close()
		return nil, err
	}
	for _, t := range game.PieceTypes {
		w, err := open(t.String())
		if err != nil {
			fs.Close()
			return nil, err
		}
		fs.Pieces[t] = w
	}
	return fs, nil
}

// Close flushes and closes every file, reporting all failures.
func (fs *FileSinks) Close() error {
	var errs error
	for i, f := range fs.files {
		if err := fs.bufs[i].Flush(); err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "flush %s", f.Name()))
		}
		if err := f.Close(); err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "close %s", f.Name()))
		}
	}
	fs.files, fs.bufs = nil, nil
	return errs
}
