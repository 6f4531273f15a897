package knowledge

import (
	"math"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Ratio scores the similarity of a and b from 0 to 100 using edit distance over runes.
func Ratio(a, b string) int {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(dist)/float64(longest))))
}

// PartialRatio is the best Ratio between the shorter string and every equally long
// window of the longer one. It tolerates OCR noise around a known phrase.
func PartialRatio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		if len(rb) == 0 {
			return 100
		}
		return 0
	}

	best := 0
	short := string(ra)
	for start := 0; start+len(ra) <= len(rb); start++ {
		score := Ratio(short, string(rb[start:start+len(ra)]))
		if score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

// Contains reports whether either string contains the other once spaces are removed,
// or whether they are at least threshold similar.
func Contains(a, b string, threshold int) bool {
	ca, cb := Squash(a), Squash(b)
	if ca == "" || cb == "" {
		return false
	}
	if strings.Contains(ca, cb) || strings.Contains(cb, ca) {
		return true
	}
	return Ratio(ca, cb) >= threshold
}

// Squash lowercases s and drops all whitespace.
func Squash(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}
