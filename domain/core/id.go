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
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
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

// PlanID identifies a single planning response handed back to a caller.
// Plans are never stored; the ID exists so logs and exported reports can be correlated.
type PlanID ID

func (id PlanID) String() string { return ID(id).String() }

// IsEmpty checks if the plan ID is empty
func (id PlanID) IsEmpty() bool { return ID(id).IsEmpty() }

// NewPlanID creates a time-ordered plan identifier
func NewPlanID() PlanID {
	return PlanID(NewID())
}

// ParsePlanID parses a string into PlanID
func ParsePlanID(s string) (PlanID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("plan ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("plan ID %q is not a UUID: %w", s, err)
	}
	return PlanID(s), nil
}
