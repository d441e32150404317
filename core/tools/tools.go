package tools

import (
	"github.com/google/uuid"
)

// Id returns a random uuid string.
func Id() string {
	return uuid.New().String()
}
