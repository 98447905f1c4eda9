package booking

import (
	"context"
	"errors"
	"fmt"

	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

type TicketLookup interface {
	FindTicketsByUserID(ctx context.Context, userID int64) ([]models.Ticket, error)
}

type PaymentLookup interface {
	FindPaymentByTicketID(ctx context.Context, ticketID int64) (*models.Payment, error)
}

type RoomLookup interface {
	FindRoomByID(ctx context.Context, roomID int64) (*models.Room, error)
}

type BookingStore interface {
	FindBookingByUserID(ctx context.Context, userID int64) (*models.Booking, error)
	CountBookingsByRoomID(ctx context.Context, roomID int64) (int, error)
	CreateBooking(ctx context.Context, booking *models.Booking, capacity int) error
	UpdateBookingRoom(ctx context.Context, bookingID, roomID int64, capacity int) error
}

type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, booking models.Booking) error
	PublishBookingChanged(ctx context.Context, booking models.Booking, previousRoomID int64) error
}

type BookingService struct {
	Tickets  TicketLookup
	Payments PaymentLookup
	Rooms    RoomLookup
	DB       BookingStore
	Events   EventPublisher
	Logger   *logger.Logger
}

func NewBookingService(tickets TicketLookup, payments PaymentLookup, rooms RoomLookup, db BookingStore, events EventPublisher, log *logger.Logger) *BookingService {
	return &BookingService{
		Tickets:  tickets,
		Payments: payments,
		Rooms:    rooms,
		DB:       db,
		Events:   events,
		Logger:   log,
	}
}

// GetBooking returns the user's booking with its room. An unpaid ticket is Forbidden here,
// not PaymentRequired.
func (s *BookingService) GetBooking(ctx context.Context, userID int64) (*models.Booking, error) {
	ticket, err := s.hotelTicket(ctx, userID)
	if err != nil {
		return nil, err
	}

	paid, err := s.isPaid(ctx, ticket)
	if err != nil {
		return nil, err
	}
	if !paid {
		return nil, fmt.Errorf("%w: ticket %d has no payment", ErrForbidden, ticket.ID)
	}

	booking, err := s.DB.FindBookingByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find booking of user %d: %w", userID, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: user %d has no booking", ErrNotFound, userID)
	}
	return booking, nil
}

func (s *BookingService) CreateBooking(ctx context.Context, userID int64, roomID *int64) (*models.Booking, error) {
	if roomID == nil {
		return nil, fmt.Errorf("%w: roomId is required", ErrBadRequest)
	}

	room, err := s.writableRoom(ctx, userID, *roomID)
	if err != nil {
		return nil, err
	}

	occupied, err := s.DB.CountBookingsByRoomID(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("count bookings of room %d: %w", room.ID, err)
	}
	if occupied >= room.Capacity {
		return nil, fmt.Errorf("%w: room %d is full", ErrForbidden, room.ID)
	}

	booking := &models.Booking{UserID: userID, RoomID: room.ID}
	if err := s.DB.CreateBooking(ctx, booking, room.Capacity); err != nil {
		return nil, s.storeError(err, room.ID)
	}
	booking.Room = room

	s.Logger.LogBooking("CREATE", booking.ID, fmt.Sprintf("user %d booked room %d", userID, room.ID))
	if s.Events != nil {
		if err := s.Events.PublishBookingCreated(ctx, *booking); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish booking created %d: %v", booking.ID, err))
		}
	}
	return booking, nil
}

// ChangeBooking moves the user's booking to roomID. bookingID must name the booking the user holds.
func (s *BookingService) ChangeBooking(ctx context.Context, userID int64, roomID, bookingID *int64) (*models.Booking, error) {
	if roomID == nil || bookingID == nil {
		return nil, fmt.Errorf("%w: roomId and bookingId are required", ErrBadRequest)
	}

	room, err := s.writableRoom(ctx, userID, *roomID)
	if err != nil {
		return nil, err
	}

	current, err := s.DB.FindBookingByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find booking of user %d: %w", userID, err)
	}

	occupied, err := s.DB.CountBookingsByRoomID(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("count bookings of room %d: %w", room.ID, err)
	}
	if current != nil && current.RoomID == room.ID {
		occupied--
	}
	if occupied >= room.Capacity {
		return nil, fmt.Errorf("%w: room %d is full", ErrForbidden, room.ID)
	}

	if current == nil {
		return nil, fmt.Errorf("%w: user %d has no booking to change", ErrForbidden, userID)
	}
	if current.ID != *bookingID {
		return nil, fmt.Errorf("%w: booking %d does not belong to user %d", ErrForbidden, *bookingID, userID)
	}

	previousRoomID := current.RoomID
	if err := s.DB.UpdateBookingRoom(ctx, current.ID, room.ID, room.Capacity); err != nil {
		return nil, s.storeError(err, room.ID)
	}
	current.RoomID = room.ID
	current.Room = room

	s.Logger.LogBooking("CHANGE", current.ID, fmt.Sprintf("user %d moved from room %d to room %d", userID, previousRoomID, room.ID))
	if s.Events != nil {
		if err := s.Events.PublishBookingChanged(ctx, *current, previousRoomID); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish booking changed %d: %v", current.ID, err))
		}
	}
	return current, nil
}

// writableRoom runs the checks shared by create and change: hotel ticket, payment, room existence.
func (s *BookingService) writableRoom(ctx context.Context, userID, roomID int64) (*models.Room, error) {
	ticket, err := s.hotelTicket(ctx, userID)
	if err != nil {
		return nil, err
	}

	paid, err := s.isPaid(ctx, ticket)
	if err != nil {
		return nil, err
	}
	if !paid {
		return nil, fmt.Errorf("%w: ticket %d has no payment", ErrPaymentRequired, ticket.ID)
	}

	room, err := s.Rooms.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("find room %d: %w", roomID, err)
	}
	if room == nil {
		return nil, fmt.Errorf("%w: room %d does not exist", ErrNotFound, roomID)
	}
	return room, nil
}

// hotelTicket returns the user's first ticket if its type includes hotel accommodation.
func (s *BookingService) hotelTicket(ctx context.Context, userID int64) (*models.Ticket, error) {
	tickets, err := s.Tickets.FindTicketsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find tickets of user %d: %w", userID, err)
	}
	if len(tickets) == 0 {
		return nil, fmt.Errorf("%w: user %d has no ticket", ErrForbidden, userID)
	}
	if !tickets[0].IncludesHotel() {
		return nil, fmt.Errorf("%w: ticket %d does not include hotel", ErrForbidden, tickets[0].ID)
	}
	return &tickets[0], nil
}

func (s *BookingService) isPaid(ctx context.Context, ticket *models.Ticket) (bool, error) {
	payment, err := s.Payments.FindPaymentByTicketID(ctx, ticket.ID)
	if err != nil {
		return false, fmt.Errorf("find payment of ticket %d: %w", ticket.ID, err)
	}
	return payment != nil, nil
}

// storeError maps the store's guarded-write refusals onto Forbidden.
func (s *BookingService) storeError(err error, roomID int64) error {
	switch {
	case errors.Is(err, models.ErrRoomFull):
		return fmt.Errorf("%w: room %d is full", ErrForbidden, roomID)
	case errors.Is(err, models.ErrAlreadyBooked):
		return fmt.Errorf("%w: user already has a booking", ErrForbidden)
	default:
		return fmt.Errorf("save booking: %w", err)
	}
}
