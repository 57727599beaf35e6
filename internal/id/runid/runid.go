// Package runid provides run identifier generation helpers.
package runid

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates run identifiers.
type Generator struct{}

// NewGenerator creates a new Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// NewID returns a UUID7 for a capture run, falling back to a random UUID if
// the clock-based generator fails.
func (Generator) NewID() (uuid.UUID, error) {
	id, err := uuid.NewV7()
	if err == nil {
		return id, nil
	}
	id, err = uuid.NewRandom()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generate run id: %w", err)
	}
	return id, nil
}
