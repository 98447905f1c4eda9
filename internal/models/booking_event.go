package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	BookingEventCreated = "booking.created"
	BookingEventChanged = "booking.changed"
)

// BookingEvent is the payload published to Kafka whenever a booking is created or moved.
type BookingEvent struct {
	EventID        string    `json:"event_id"`
	Type           string    `json:"type"`
	BookingID      int64     `json:"booking_id"`
	UserID         int64     `json:"user_id"`
	RoomID         int64     `json:"room_id"`
	PreviousRoomID *int64    `json:"previous_room_id,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NewBookingEvent builds an event with a fresh id. previousRoomID is only set for changes.
func NewBookingEvent(eventType string, booking Booking, previousRoomID *int64) BookingEvent {
	return BookingEvent{
		EventID:        uuid.NewString(),
		Type:           eventType,
		BookingID:      booking.ID,
		UserID:         booking.UserID,
		RoomID:         booking.RoomID,
		PreviousRoomID: previousRoomID,
		OccurredAt:     time.Now().UTC(),
	}
}
