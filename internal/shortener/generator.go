package shortener

import "github.com/jaevor/go-nanoid"

// Alphabet is the 62-symbol code alphabet: digits, uppercase, lowercase.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// DefaultCodeLength is the length of generated short codes.
const DefaultCodeLength = 6

// Generate produces a single short code candidate.
type Generate func() string

// NewGenerator returns a Generate drawing codes of the given length uniformly
// from Alphabet. nanoid reads from crypto/rand, so codes are unpredictable.
func NewGenerator(length int) (Generate, error) {
	gen, err := nanoid.CustomASCII(Alphabet, length)
	if err != nil {
		return nil, err
	}

	return Generate(gen), nil
}
