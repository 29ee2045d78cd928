package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Use UUID v7 for time-ordered, sortable IDs
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// SelectionID identifies a saved selection independently of its user-visible
// name, which can change via rename.
type SelectionID ID

func (id SelectionID) String() string { return ID(id).String() }

// ParseSelectionID parses a string into SelectionID
func ParseSelectionID(s string) (SelectionID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("selection ID cannot be empty")
	}
	return SelectionID(s), nil
}
