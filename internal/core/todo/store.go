package todo

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a todo item does not exist.
	ErrNotFound = errors.New("todo item not found")
	// ErrDuplicate is returned when creating an item whose ID already exists.
	ErrDuplicate = errors.New("todo item already exists")
	// ErrInvalidStatus is returned when a status string is not recognised.
	ErrInvalidStatus = errors.New("invalid todo status")
)

// Store defines persistence for todo items. It is both the index the board
// reads snapshots from and the collaborator commands write through.
type Store interface {
	// List returns every item, ordered by creation time.
	List(ctx context.Context) ([]Item, error)

	// Get returns a single item by ID.
	// Returns ErrNotFound if the item does not exist.
	Get(ctx context.Context, id string) (Item, error)

	// Create persists a new item.
	// The store populates ID, Status, CreatedAt and UpdatedAt if not already set.
	Create(ctx context.Context, item *Item) error

	// Delete removes an item and its attributes.
	// Returns ErrNotFound if the item does not exist.
	Delete(ctx context.Context, id string) error

	// UpdateAttribute sets a single attribute value.
	// Returns ErrNotFound if the item does not exist.
	UpdateAttribute(ctx context.Context, id, name, value string) error

	// RemoveAttribute deletes a single attribute. Removing an absent
	// attribute is not an error.
	RemoveAttribute(ctx context.Context, id, name string) error

	// UpdateStatus writes the status. Moving into a done state stamps
	// completedAttr with the current date, moving out of one clears it.
	UpdateStatus(ctx context.Context, id string, status Status, completedAttr string) error
}
