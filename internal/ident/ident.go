// Package ident generates the opaque record identifiers used across
// collections. IDs carry a kind prefix ("idea_...", "user_...") so they
// stay recognizable in logs and API payloads, but the suffix is opaque
// and carries no wall-clock meaning.
package ident

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator mints unique identifiers for a record kind.
type Generator interface {
	NewID(kind string) string
}

// UUID generates IDs backed by random UUIDs.
type UUID struct{}

// NewUUID creates the production generator.
func NewUUID() UUID {
	return UUID{}
}

// NewID returns "<kind>_<32 hex chars>".
func (UUID) NewID(kind string) string {
	return fmt.Sprintf("%s_%s", kind, strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// Sequence is a deterministic generator for tests.
type Sequence struct {
	n atomic.Int64
}

// NewSequence creates a generator yielding "<kind>_1", "<kind>_2", ...
func NewSequence() *Sequence {
	return &Sequence{}
}

func (s *Sequence) NewID(kind string) string {
	return fmt.Sprintf("%s_%d", kind, s.n.Add(1))
}
