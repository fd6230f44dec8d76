package pgn

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// ErrEmptyLine is returned when an empty line is classified.
var ErrEmptyLine = errors.New("empty line has no first character")

// FormatError reports an archive line that breaks the expected layout.
// It is fatal: the archive is assumed to be well formed.
type FormatError struct {
	Line   int
	Text   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

type lineKind int

const (
	bodyLine lineKind = iota
	headerLine
)

func classify(line string) (lineKind, error) {
	if line == "" {
		return bodyLine, ErrEmptyLine
	}
	if line[0] == '[' {
		return headerLine, nil
	}
	return bodyLine, nil
}

var tagStripper = strings.NewReplacer("[", "", "]", "", `"`, "")

// splitTag returns the tag name and value of a header line.
func splitTag(line string) (name, value string, ok bool) {
	return strings.Cut(tagStripper.Replace(line), " ")
}

// Segmenter turns archive lines into game records.
//
// A record is closed on the first body line that follows a header line.
// That line is part of the closed record; later body lines of the same
// block belong to the next record. Archives are therefore expected to carry
// each game's whole movetext on the single line after its header block.
type Segmenter struct {
	minRating uint16

	cur      *Record
	prevKind lineKind
	line     int
	closed   int
}

// NewSegmenter returns a Segmenter that marks records as qualifying when
// both ratings are at least minRating.
func NewSegmenter(minRating uint16) *Segmenter {
	return &Segmenter{
		minRating: minRating,
		cur:       &Record{},
		prevKind:  bodyLine,
	}
}

// Feed consumes the next archive line. It returns the record closed by the
// line, or nil when the line does not end a record. Records that do not
// qualify are returned too, with Qualifying unset and no moves.
func (s *Segmenter) Feed(line string) (*Record, error) {
	s.line++
	if line == "" {
		return nil, nil
	}
	kind, err := classify(line)
	if err != nil {
		return nil, &FormatError{Line: s.line, Text: line, Reason: err.Error()}
	}

	switch kind {
	case headerLine:
		name, value, ok := splitTag(line)
		if !ok {
			return nil, &FormatError{Line: s.line, Text: line, Reason: "header has no tag separator"}
		}
		switch name {
		case "WhiteElo":
			s.cur.White = parseRating(value)
		case "BlackElo":
			s.cur.Black = parseRating(value)
		}
	case bodyLine:
		s.cur.appendMovetext(line)
	}

	var rec *Record
	if kind == bodyLine && s.prevKind == headerLine {
		rec = s.close()
	}
	s.prevKind = kind
	return rec, nil
}

// Lines returns the number of lines fed so far.
func (s *Segmenter) Lines() int { return s.line }

func (s *Segmenter) close() *Record {
	rec := s.cur
	s.closed++
	rec.Ordinal = s.closed
	rec.Line = s.line
	rec.Qualifying = rec.Qualifies(s.minRating)
	if rec.Qualifying {
		rec.Moves = ParseMoves(rec.Movetext)
	}
	s.cur = &Record{}
	return rec
}

// Reader reads records from an archive stream.
type Reader struct {
	sc  *bufio.Scanner
	seg *Segmenter
}

const maxLineSize = 16 << 20

// NewReader wraps r. Lines longer than 16MB are an error.
func NewReader(r io.Reader, minRating uint16) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), maxLineSize)
	return &Reader{sc: sc, seg: NewSegmenter(minRating)}
}

// Next returns the next record that reached a boundary, or io.EOF. A record
// still open when the stream ends is dropped.
func (r *Reader) Next() (*Record, error) {
	for r.sc.Scan() {
		rec, err := r.seg.Feed(r.sc.Text())
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return rec, nil
		}
	}
	if err := r.sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "read line %d", r.seg.Lines()+1)
	}
	return nil, io.EOF
}

// Lines returns the number of lines read so far.
func (r *Reader) Lines() int { return r.seg.Lines() }
