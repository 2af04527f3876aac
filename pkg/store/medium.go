package store

import (
	"context"
)

// DefaultSlot is the name of the text slot holding the conversation document.
const DefaultSlot = "my-team-chats"

// Medium is a single named text slot. The store keeps its whole document in it
// and rewrites it on every change.
type Medium interface {
	// Read returns the slot content. ok is false when the slot was never written
	// or has been removed.
	Read(ctx context.Context) (content string, ok bool, err error)
	// Write overwrites the slot.
	Write(ctx context.Context, content string) error
	// Remove deletes the slot. Removing an absent slot is not an error.
	Remove(ctx context.Context) error
	Close() error
}
