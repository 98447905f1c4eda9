package models

import "errors"

// Errors returned by the booking store when a guarded write is refused.
var (
	ErrRoomFull      = errors.New("room is at full capacity")
	ErrAlreadyBooked = errors.New("user already has a booking")
)
