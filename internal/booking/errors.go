package booking

import "errors"

// Error kinds produced by BookingService. Callers match them with errors.Is; the reason
// is attached by wrapping, e.g. fmt.Errorf("%w: room is full", ErrForbidden).
var (
	ErrBadRequest      = errors.New("bad request")
	ErrForbidden       = errors.New("forbidden")
	ErrPaymentRequired = errors.New("payment required")
	ErrNotFound        = errors.New("not found")
)

type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindForbidden
	KindPaymentRequired
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "BadRequest"
	case KindForbidden:
		return "Forbidden"
	case KindPaymentRequired:
		return "PaymentRequired"
	case KindNotFound:
		return "NotFound"
	default:
		return "Internal"
	}
}

// KindOf classifies err. Anything that is not one of the service's kinds is KindInternal.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrBadRequest):
		return KindBadRequest
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrPaymentRequired):
		return KindPaymentRequired
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}
