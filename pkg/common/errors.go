package common

import "fmt"

// DuplicateKeyError is returned when an insert collides with an existing
// unique raw name in a correction table.
type DuplicateKeyError struct {
	Table string
	Key   string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("Duplicate Key: %q already exists in %s", e.Key, e.Table)
}

// ValidationError is returned for admin-facing data integrity violations,
// such as a location raw name longer than the IPTC truncation limit.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Validation Error: %s: %s", e.Field, e.Message)
}

// NotFoundError is returned when a post or correction row does not exist.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func NewDuplicateKeyError(table, key string) error {
	return &DuplicateKeyError{Table: table, Key: key}
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func NewNotFoundError(kind string, id int64) error {
	return &NotFoundError{Kind: kind, ID: id}
}
