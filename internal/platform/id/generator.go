package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque IDs, e.g. pipeline run ids.
type Generator interface {
	NewID() (string, error)
}

// UUIDGenerator returns time-ordered UUIDv7 strings so run ids sort by start time.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	out, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return out.String(), nil
}
