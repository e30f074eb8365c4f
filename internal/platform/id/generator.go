package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const defaultSize = 8

// Generator creates opaque correlation IDs for log lines and spans.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct {
	size int
}

// NewRandomGenerator returns a generator of hex IDs built from size random
// bytes. A size below 1 uses 8 bytes.
func NewRandomGenerator(size int) *RandomGenerator {
	if size < 1 {
		size = defaultSize
	}
	return &RandomGenerator{size: size}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, g.size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
