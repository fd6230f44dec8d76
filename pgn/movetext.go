package pgn

import "strings"

var annotations = strings.NewReplacer("?", "", "!", "")

// ParseMoves extracts the move tokens of a movetext: brace comments,
// annotation marks and move numbers are removed, and the trailing result
// marker is dropped.
func ParseMoves(movetext string) []string {
	fields := strings.Fields(annotations.Replace(StripComments(movetext)))
	moves := make([]string, 0, len(fields))
	for _, f := range fields {
		if strings.Contains(f, ".") {
			continue
		}
		moves = append(moves, f)
	}
	if len(moves) == 0 {
		return moves
	}
	return moves[:len(moves)-1]
}

// StripComments removes text enclosed in braces, nested braces included.
// An unmatched closing brace can drive the depth negative, which suppresses
// output until the depth is back to zero.
func StripComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	depth := 0
	for _, r := range s {
		if r == '{' {
			depth++
		}
		if depth == 0 {
			b.WriteRune(r)
		}
		if r == '}' {
			depth--
		}
	}
	return b.String()
}
