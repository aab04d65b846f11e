// Package codes implements the short share codes used to address relay
// blobs: 5 characters from a reduced alphabet, the last one a checksum.
// The alphabet omits glyphs that are easy to misread when typed over
// voice or chat. This is an integrity check, not a security measure;
// the relay TTL is the only thing limiting guessing.
package codes

import (
	"math/rand/v2"
	"strings"
)

const Alphabet = "367CDFGHJKLQMNPRTWX"

const codeLength = 5

// Generate returns a 5-character code: 4 random alphabet characters
// plus a checksum character chosen so the alphabet indices of all five
// sum to a multiple of len(Alphabet).
func Generate() string {
	n := len(Alphabet)
	var b strings.Builder
	b.Grow(codeLength)

	total := 0
	for i := 0; i < codeLength-1; i++ {
		idx := rand.IntN(n)
		b.WriteByte(Alphabet[idx])
		total += idx
	}

	checksumIdx := (n - (total % n)) % n
	b.WriteByte(Alphabet[checksumIdx])

	return b.String()
}

// Validate reports whether code is well-formed: exactly 5 characters,
// all from the alphabet, index sum congruent to 0 mod len(Alphabet).
func Validate(code string) bool {
	if len(code) != codeLength {
		return false
	}

	total := 0
	for i := 0; i < len(code); i++ {
		idx := strings.IndexByte(Alphabet, code[i])
		if idx == -1 {
			return false
		}
		total += idx
	}

	return total%len(Alphabet) == 0
}
