package planner

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind tells an IDGenerator which collection the id is for.
type Kind string

const (
	KindTask          Kind = "task"
	KindNonNegotiable Kind = "non"
)

// IDGenerator hands out ids that are unique within the process.
type IDGenerator interface {
	NewID(kind Kind) string
}

// UUIDs generates "<kind>-<uuid>" ids.
type UUIDs struct{}

// NewID returns a random id.
func (UUIDs) NewID(kind Kind) string {
	return fmt.Sprintf("%s-%s", kind, uuid.NewString())
}

// SequentialIDs generates "<kind>-<n>" ids from a counter shared by all kinds.
// It is not safe for concurrent use.
type SequentialIDs struct {
	next int
}

// NewID returns the next id.
func (g *SequentialIDs) NewID(kind Kind) string {
	g.next++
	return fmt.Sprintf("%s-%d", kind, g.next)
}
