package store

import "strconv"

// parseInt64 parses b as a base-10 signed 64-bit integer, the same
// strictness strconv.ParseInt applies (optional leading sign, no
// surrounding whitespace, no underscores or other separators).
func parseInt64(b []byte) (int64, error) {
	return strconv.ParseInt(string(b), 10, 64)
}
