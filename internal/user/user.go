package user

import (
	"os"
	"os/user"

	"github.com/thenoetrevino/paso-threads/internal/types"
)

// CurrentUser returns the current system username as a board user id.
// It tries multiple methods with fallbacks:
// 1. user.Current() - most reliable, gets username from OS
// 2. USER environment variable - fallback for restricted environments
// 3. "unknown" - final fallback to ensure a non-empty value
func CurrentUser() types.UserID {
	currentUser, err := user.Current()
	if err != nil || currentUser.Username == "" {
		username := os.Getenv("USER")
		if username == "" {
			return "unknown"
		}
		return types.UserID(username)
	}
	return types.UserID(currentUser.Username)
}
