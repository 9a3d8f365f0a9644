package workout

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator creates ids for blocks and groups
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random UUIDs
type UUIDGenerator struct{}

// NewID returns a random version 4 UUID
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator issues Prefix1, Prefix2, ... and is meant for tests and
// reproducible fixtures
type SequenceGenerator struct {
	Prefix string
	next   int
}

func (g *SequenceGenerator) NewID() string {
	g.next++
	return fmt.Sprintf("%s%d", g.Prefix, g.next)
}
