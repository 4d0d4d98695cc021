package uid

import "github.com/google/uuid"

// GenerateGameID returns a random (version 4) UUID string.
func GenerateGameID() string {
	return uuid.NewString()
}

// IsGameID reports whether s parses as a UUID.
func IsGameID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
