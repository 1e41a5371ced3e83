package store

import "github.com/google/uuid"

// BlankLabelGenerator produces globally unique blank node labels.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type BlankLabelGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-ordered unique labels. UUIDv7 keeps
// labels sortable by creation time, which makes debug output stable to
// read.
type UUIDv7Generator struct{}

// Generate returns a fresh blank node label.
func (UUIDv7Generator) Generate() string {
	return "b" + uuid.Must(uuid.NewV7()).String()
}
