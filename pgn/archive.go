package pgn

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/hashicorp/go-multierror"
	"github.com/inhies/go-bytesize"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Compression of an archive file, picked from its extension.
type Compression string

const (
	Plain Compression = "none"
	Zstd  Compression = "zstd"
	Bzip2 Compression = "bzip2"
)

// CompressionOf guesses the compression of path from its extension.
func CompressionOf(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return Zstd
	case ".bz2":
		return Bzip2
	}
	return Plain
}

// Archive is an opened game archive. Reads yield decompressed UTF-8 text
// with any byte order mark removed.
type Archive struct {
	Path        string
	Compression Compression
	Size        bytesize.ByteSize

	counter *countingReader
	closers []func() error
	r       io.Reader
}

// Open opens the archive at path.
func Open(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.WithStack(err)
	}
	a, err := NewArchive(f, CompressionOf(path))
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "open %s", path)
	}
	a.Path = path
	a.Size = bytesize.New(float64(fi.Size()))
	a.closers = append([]func() error{f.Close}, a.closers...)
	return a, nil
}

// NewArchive decodes r according to c. Closing the archive does not close r.
func NewArchive(r io.Reader, c Compression) (*Archive, error) {
	a := &Archive{Compression: c, counter: &countingReader{r: r}}
	var src io.Reader = a.counter
	switch c {
	case Zstd:
		dec, err := zstd.NewReader(src)
		if err != nil {
			return nil, errors.Wrap(err, "zstd reader")
		}
		a.closers = append(a.closers, func() error { dec.Close(); return nil })
		src = dec
	case Bzip2:
		dec, err := bzip2.NewReader(src, nil)
		if err != nil {
			return nil, errors.Wrap(err, "bzip2 reader")
		}
		a.closers = append(a.closers, dec.Close)
		src = dec
	case Plain:
	default:
		return nil, errors.Errorf("unknown compression %q", c)
	}
	a.r = transform.NewReader(src, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	return a, nil
}

func (a *Archive) Read(p []byte) (int, error) { return a.r.Read(p) }

// BytesRead is the number of raw, possibly compressed, bytes consumed.
func (a *Archive) BytesRead() int64 { return a.counter.n }

// Close releases the decoders and the underlying file.
func (a *Archive) Close() error {
	var errs error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	a.closers = nil
	return errs
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
