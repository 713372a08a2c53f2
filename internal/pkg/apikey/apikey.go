// Package apikey issues user API keys. Only the SHA-256 hash of a key is
// stored (see models.HashAPIKey); the raw key is shown once.
package apikey

import (
	"crypto/rand"
	"fmt"
)

// Prefix marks LinkFox keys so they are recognizable in logs and secret scanners.
const Prefix = "lf_"

const keyLength = 40

// alphabet for the random part (62 characters: 0-9, a-z, A-Z)
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Generate returns a fresh key of the form lf_<40 base62 characters>.
func Generate() (string, error) {
	body, err := randomBase62(keyLength)
	if err != nil {
		return "", err
	}
	return Prefix + body, nil
}

func randomBase62(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid key length: %d", length)
	}

	// Rejection sampling to avoid modulo bias.
	// 248 is the largest multiple of 62 below 256.
	const maxRandomByte = 248

	out := make([]byte, length)
	buf := make([]byte, length*2)
	written := 0

	for written < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read secure random bytes: %w", err)
		}

		for _, b := range buf {
			if b >= maxRandomByte {
				continue
			}
			out[written] = alphabet[int(b)%len(alphabet)]
			written++
			if written == length {
				break
			}
		}
	}

	return string(out), nil
}
