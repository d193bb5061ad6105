package utils

import "github.com/google/uuid"

// GenerateID devuelve un identificador único nuevo.
func GenerateID() string {
	return uuid.New().String()
}
