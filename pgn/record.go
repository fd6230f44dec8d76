package pgn

import (
	"strconv"
	"strings"
)

// Rating is an optional player rating.
type Rating struct {
	Value uint16
	Valid bool
}

// parseRating leaves the rating unset when value is not an unsigned integer.
func parseRating(value string) Rating {
	v, err := strconv.ParseUint(value, 10, 16)
	if err != nil {
		return Rating{}
	}
	return Rating{Value: uint16(v), Valid: true}
}

// Int returns the rating, or -1 when it is unset.
func (r Rating) Int() int {
	if !r.Valid {
		return -1
	}
	return int(r.Value)
}

// Record is one game as read from the archive.
type Record struct {
	Ordinal int // 1-based position among records that reached a boundary
	Line    int // archive line that closed the record

	White, Black Rating
	Movetext     string
	Moves        []string // play order, result marker removed

	Qualifying bool
}

// Qualifies reports whether both ratings are known and at least min.
func (r *Record) Qualifies(min uint16) bool {
	return r.White.Valid && r.Black.Valid &&
		r.White.Value >= min && r.Black.Value >= min
}

// appendMovetext joins body lines with a space rather than concatenating
// them, so the last token of one line never fuses with the first of the next.
func (r *Record) appendMovetext(line string) {
	if r.Movetext == "" {
		r.Movetext = line
		return
	}
	r.Movetext = strings.Join([]string{r.Movetext, line}, " ")
}
