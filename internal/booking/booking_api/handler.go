package booking_api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"ms-booking/internal/auth"
	"ms-booking/internal/booking"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

type BookingService interface {
	GetBooking(ctx context.Context, userID int64) (*models.Booking, error)
	CreateBooking(ctx context.Context, userID int64, roomID *int64) (*models.Booking, error)
	ChangeBooking(ctx context.Context, userID int64, roomID, bookingID *int64) (*models.Booking, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	BookingService BookingService
	DB             Pinger
	Logger         *logger.Logger
}

func NewHandler(bookingService BookingService, db Pinger, log *logger.Logger) *Handler {
	return &Handler{
		BookingService: bookingService,
		DB:             db,
		Logger:         log,
	}
}

// Routes mounts the booking endpoints. authMiddleware runs before every one of them.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/", h.GetBooking)
	r.Post("/", h.CreateBooking)
	r.Put("/{bookingId}", h.ChangeBooking)
	return r
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	b, err := h.BookingService.GetBooking(r.Context(), userID)
	if err != nil {
		h.fail(w, "GetBooking", statusOf(err), err)
		return
	}

	h.writeJSON(w, "GetBooking", models.NewBookingView(b))
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	req := decodeBookingRequest(r)
	h.Logger.Debug("API", fmt.Sprintf("CreateBooking: userId=%d roomId=%s", userID, formatID(req.RoomID)))

	b, err := h.BookingService.CreateBooking(r.Context(), userID, req.RoomID)
	if err != nil {
		h.fail(w, "CreateBooking", statusOf(err), err)
		return
	}

	h.writeJSON(w, "CreateBooking", models.BookingIDResponse{BookingID: b.ID})
}

func (h *Handler) ChangeBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var bookingID *int64
	if id, err := strconv.ParseInt(chi.URLParam(r, "bookingId"), 10, 64); err == nil {
		bookingID = &id
	}

	req := decodeBookingRequest(r)
	h.Logger.Debug("API", fmt.Sprintf("ChangeBooking: userId=%d bookingId=%s roomId=%s", userID, formatID(bookingID), formatID(req.RoomID)))

	b, err := h.BookingService.ChangeBooking(r.Context(), userID, req.RoomID, bookingID)
	if err != nil {
		h.fail(w, "ChangeBooking", statusOf(err), err)
		return
	}

	h.writeJSON(w, "ChangeBooking", models.BookingIDResponse{BookingID: b.ID})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, body := http.StatusOK, map[string]string{"status": "ok"}
	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			h.Logger.Error("HEALTH", fmt.Sprintf("Database ping failed: %v", err))
			status, body = http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// statusOf maps service errors onto HTTP: NotFound is 404, infrastructure failures are 500 and
// every other kind is 403. PaymentRequired only comes from the write paths and is 403 there too.
func statusOf(err error) int {
	switch booking.KindOf(err) {
	case booking.KindNotFound:
		return http.StatusNotFound
	case booking.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusForbidden
	}
}

// decodeBookingRequest treats an empty or malformed body as a request without roomId.
func decodeBookingRequest(r *http.Request) models.BookingRequest {
	var req models.BookingRequest
	if r.Body == nil {
		return req
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return models.BookingRequest{}
	}
	return req
}

func (h *Handler) fail(w http.ResponseWriter, op string, status int, err error) {
	if status == http.StatusInternalServerError {
		h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))
	} else {
		h.Logger.Info("API", fmt.Sprintf("%s: %d %v", op, status, err))
	}
	http.Error(w, http.StatusText(status), status)
}

func (h *Handler) writeJSON(w http.ResponseWriter, op string, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("API", fmt.Sprintf("%s: failed to encode response: %v", op, err))
	}
}

func formatID(id *int64) string {
	if id == nil {
		return "<nil>"
	}
	return strconv.FormatInt(*id, 10)
}
