package service

import (
	"errors"
	"fmt"
	"tarc-profile-bot/internal/domain"
)

var (
	ErrUnauthorized = errors.New("invalid secret")
	ErrInvalidKey   = errors.New("bad userId")
	ErrUserNotFound = errors.New("user not found")
	ErrNoGameData   = errors.New("no saved game data")
)

// NoGameDataError is returned when the player exists upstream but has never
// reported telemetry. It matches ErrNoGameData under errors.Is.
type NoGameDataError struct {
	PlayerID    domain.PlayerID
	DisplayName string
}

func (e *NoGameDataError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.DisplayName, e.PlayerID, ErrNoGameData)
}

func (e *NoGameDataError) Is(target error) bool {
	return target == ErrNoGameData
}
