package uri

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// DefaultSize keeps uris short enough to paste while leaving collision
	// probability negligible for this alphabet.
	DefaultSize     = 16
	DefaultAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Generator allocates opaque, URL-safe chat session uris.
type Generator struct {
	size     int
	alphabet string
}

// NewGenerator creates a Generator. size must be between 1 and 256 and the
// alphabet must have at least 2 characters.
func NewGenerator(size int, alphabet string) (*Generator, error) {
	if size < 1 || size > 256 {
		return nil, fmt.Errorf("uri size must be between 1 and 256, got %d", size)
	}
	if len(alphabet) < 2 {
		return nil, fmt.Errorf("uri alphabet must have at least 2 characters, got %d", len(alphabet))
	}
	return &Generator{size: size, alphabet: alphabet}, nil
}

// NewDefaultGenerator creates a Generator with the default size and alphabet.
func NewDefaultGenerator() *Generator {
	g, _ := NewGenerator(DefaultSize, DefaultAlphabet)
	return g
}

// Generate allocates a fresh uri.
func (g *Generator) Generate() (string, error) {
	id, err := gonanoid.Generate(g.alphabet, g.size)
	if err != nil {
		return "", fmt.Errorf("failed to generate uri: %w", err)
	}
	return id, nil
}

// Validate reports whether id could have been produced by this generator.
func (g *Generator) Validate(id string) bool {
	if len(id) != g.size {
		return false
	}
	for _, c := range id {
		if !strings.ContainsRune(g.alphabet, c) {
			return false
		}
	}
	return true
}
