package goal

import "fmt"

// NotFoundError reports that a referenced goal or sub-goal id does not exist.
// Mutations that return it leave the store unmodified.
type NotFoundError struct {
	Kind string // "goal" or "sub-goal"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("goal: %s not found: %s", e.Kind, e.ID)
}

// ValidationError reports malformed input to a mutation, such as a duplicate
// id on create or an out-of-range progress value.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "goal: " + e.Msg
}

func notFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
