package models

import (
	"errors"
	"time"
)

// ErrChildNotFound is returned when a child id does not exist
var ErrChildNotFound = errors.New("child not found")

// FaceColors is the palette a new child's avatar colour is drawn from
var FaceColors = []string{
	"#FEE2E2", "#FEF3C7", "#D1FAE5", "#DBEAFE",
	"#E0E7FF", "#F3E8FF", "#FAE8FF", "#FFEDD5",
}

// Child represents a child profile in the system
type Child struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	FaceColor string    `json:"faceColor,omitempty"`
}

// ChildProgress summarises durable mastery progress across all of a child's lists
type ChildProgress struct {
	MasteredWords int `json:"masteredWords"`
	TotalWords    int `json:"totalWords"`
}

// IsValidFaceColor reports whether color belongs to the palette
func IsValidFaceColor(color string) bool {
	for _, c := range FaceColors {
		if c == color {
			return true
		}
	}
	return false
}
