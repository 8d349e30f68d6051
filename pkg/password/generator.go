package password

import (
	"crypto/rand"
	"errors"
	"fmt"
)

// Alphabet omits visually confusable characters (0/O, 1/I/l/o).
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"

const Length = 8

// Generate returns an 8-character temporary password drawn uniformly from
// Alphabet. The value is emailed as a real login credential, so the source
// must be crypto/rand; rejection sampling keeps the draw unbiased.
func Generate() (string, error) {
	if len(Alphabet) == 0 || len(Alphabet) > 256 {
		return "", errors.New("invalid alphabet")
	}

	// largest multiple of len(Alphabet) below 256
	limit := byte(256 / len(Alphabet) * len(Alphabet))

	out := make([]byte, 0, Length)
	buf := make([]byte, 1)
	for len(out) < Length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		if buf[0] >= limit {
			continue
		}
		out = append(out, Alphabet[int(buf[0])%len(Alphabet)])
	}
	return string(out), nil
}

// SixDigitCode returns a zero-padded one-time login code, 000000..999999.
func SixDigitCode() (string, error) {
	// 3 random bytes give 2^24 values; reject above the largest multiple
	// of 10^6 to keep each code equally likely.
	const span = 1 << 24
	const limit = span - span%1000000

	buf := make([]byte, 3)
	for {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		n := int(buf[0])<<16 | int(buf[1])<<8 | int(buf[2])
		if n >= limit {
			continue
		}
		return fmt.Sprintf("%06d", n%1000000), nil
	}
}
