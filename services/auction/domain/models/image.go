package models

import "github.com/google/uuid"

// Image is a decoded auction picture. Position 0 is the front image.
type Image struct {
	ID          uuid.UUID
	Position    int
	IsFront     bool
	ContentType string
	Data        []byte
}
