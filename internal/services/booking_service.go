package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/roamly/api/internal/apperr"
	"github.com/roamly/api/internal/events"
	"github.com/roamly/api/internal/gateway"
	"github.com/roamly/api/internal/helpers"
	"github.com/roamly/api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PaymentGateway is the slice of the checkout provider the services need.
type PaymentGateway interface {
	InitPayment(ctx context.Context, p gateway.InitPayload) (*gateway.InitResponse, error)
	ValidatePayment(ctx context.Context, valID string) error
}

type CreateBookingPayload struct {
	TourID    string `json:"tourId" validate:"required"`
	Date      string `json:"date" validate:"required"`
	Time      string `json:"time" validate:"required"`
	GroupSize int    `json:"groupSize" validate:"omitempty,min=1"`
	Phone     string `json:"phone" validate:"required"`
	Address   string `json:"address" validate:"required"`
	Notes     string `json:"notes"`
}

// BookingCheckout is the create-booking result: the persisted booking and
// the gateway page the customer must be sent to.
type BookingCheckout struct {
	Booking     *models.Booking `json:"booking"`
	CheckoutURL string          `json:"checkoutUrl"`
}

type BookingService struct {
	bookings models.BookingRepo
	payments models.PaymentRepo
	tours    models.TourRepo
	users    models.UserRepo
	gateway  PaymentGateway
	events   *events.Publisher
	logger   *slog.Logger
}

func NewBookingService(
	bookings models.BookingRepo,
	payments models.PaymentRepo,
	tours models.TourRepo,
	users models.UserRepo,
	gw PaymentGateway,
	publisher *events.Publisher,
	logger *slog.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		payments: payments,
		tours:    tours,
		users:    users,
		gateway:  gw,
		events:   publisher,
		logger:   logger,
	}
}

// CreateBooking inserts the booking, its payment and the payment back-ref
// in one transaction, then opens a checkout session. The gateway call runs
// after commit; a gateway failure leaves the booking in place with the
// payment still UNPAID.
func (s *BookingService) CreateBooking(ctx context.Context, actor Actor, payload CreateBookingPayload) (*BookingCheckout, error) {
	if err := models.Validate.Struct(payload); err != nil {
		return nil, apperr.BadRequest(fmt.Sprintf("invalid booking payload: %v", err))
	}

	bookingDate, err := time.Parse("2006-01-02", payload.Date)
	if err != nil {
		return nil, apperr.BadRequest("date must be in YYYY-MM-DD format")
	}
	if _, err := time.Parse("15:04", payload.Time); err != nil {
		return nil, apperr.BadRequest("time must be in HH:mm format")
	}
	today := time.Now().Truncate(24 * time.Hour)
	if bookingDate.Before(today) {
		return nil, apperr.BadRequest("booking date cannot be in the past")
	}

	tourID, err := primitive.ObjectIDFromHex(payload.TourID)
	if err != nil {
		return nil, apperr.BadRequest("invalid tour id")
	}
	tour, err := s.tours.GetTourByID(ctx, tourID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("tour not found")
		}
		return nil, apperr.Internal("failed to load tour", err)
	}
	if !tour.IsActive || tour.Status != models.TourPublic {
		return nil, apperr.BadRequest("this tour is not open for booking")
	}
	if tour.Fee <= 0 || math.IsInf(tour.Fee, 0) || math.IsNaN(tour.Fee) {
		return nil, apperr.BadRequest("this tour does not have a valid fee")
	}

	// An absent group size means a single guest.
	groupSize := payload.GroupSize
	if groupSize < 1 {
		groupSize = 1
	}
	if tour.MaxGroupSize > 0 && groupSize > tour.MaxGroupSize {
		return nil, apperr.BadRequest(fmt.Sprintf("group size exceeds the tour limit of %d", tour.MaxGroupSize))
	}

	user, err := s.users.GetUserByID(ctx, actor.ID)
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}

	now := time.Now()
	booking := &models.Booking{
		Tour:          tour.ID,
		User:          actor.ID,
		Guide:         tour.Author,
		Date:          payload.Date,
		Time:          payload.Time,
		GroupSize:     groupSize,
		Phone:         payload.Phone,
		Address:       payload.Address,
		Notes:         payload.Notes,
		TotalPrice:    tour.Fee * float64(groupSize),
		PaymentStatus: models.PaymentUnpaid,
		Status:        models.BookingPending,
		StatusLogs: []models.StatusLog{
			{Status: models.BookingPending, UpdatedBy: actor.ID, Timestamp: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	transactionID := helpers.NewTransactionID()

	err = s.bookings.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := s.bookings.InsertBooking(sc, booking); err != nil {
			return err
		}

		payment := &models.Payment{
			Booking:       booking.ID,
			TransactionID: transactionID,
			Status:        models.PaymentUnpaid,
			Amount:        booking.TotalPrice,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if _, err := s.payments.InsertPayment(sc, payment); err != nil {
			return err
		}

		updated, err := s.bookings.SetPaymentRef(sc, booking.ID, payment.ID)
		if err != nil {
			return err
		}
		booking = updated
		return nil
	})
	if err != nil {
		return nil, apperr.Internal("failed to create booking", err)
	}

	s.events.Publish(ctx, events.BookingEvent{
		Type:      events.EventBookingCreated,
		BookingID: booking.ID.Hex(),
		TourID:    tour.ID.Hex(),
		UserID:    actor.ID.Hex(),
		Status:    string(booking.Status),
	})

	session, err := s.gateway.InitPayment(ctx, gateway.InitPayload{
		TransactionID:   transactionID,
		Amount:          booking.TotalPrice,
		ProductName:     tour.Title,
		CustomerName:    user.Name,
		CustomerEmail:   user.Email,
		CustomerPhone:   payload.Phone,
		CustomerAddress: payload.Address,
	})
	if err != nil {
		return nil, apperr.BadGateway("failed to initialize payment session", err)
	}

	return &BookingCheckout{Booking: booking, CheckoutURL: session.GatewayPageURL}, nil
}

// GetBooking returns the populated booking if the actor is allowed to
// see it.
func (s *BookingService) GetBooking(ctx context.Context, actor Actor, id string) (*models.BookingDetail, error) {
	bookingID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.BadRequest("invalid booking id")
	}

	detail, err := s.bookings.GetBookingDetail(ctx, bookingID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("booking not found")
		}
		return nil, apperr.Internal("failed to load booking", err)
	}
	if !CanViewBooking(actor, &detail.Booking) {
		return nil, apperr.Forbidden("you are not allowed to view this booking")
	}
	return detail, nil
}

// ListBookings scopes the list by role: tourists see their own bookings,
// guides the ones assigned to them, admins everything.
func (s *BookingService) ListBookings(ctx context.Context, actor Actor, params map[string]string) ([]*models.BookingDetail, *models.Meta, error) {
	base := bson.M{}
	switch {
	case actor.Role == models.RoleTourist:
		base["user"] = actor.ID
	case actor.Role == models.RoleGuide:
		base["guide"] = actor.ID
	case actor.Role.IsAdmin():
	default:
		return nil, nil, apperr.Forbidden("you are not allowed to list bookings")
	}

	bookings, meta, err := s.bookings.ListBookings(ctx, base, params)
	if err != nil {
		return nil, nil, apperr.Internal("failed to list bookings", err)
	}
	return bookings, meta, nil
}

// UpdateBookingStatus moves the booking through its lifecycle, appending
// to the status audit trail.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, actor Actor, id string, target models.BookingStatus) (*models.Booking, error) {
	bookingID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.BadRequest("invalid booking id")
	}

	booking, err := s.bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("booking not found")
		}
		return nil, apperr.Internal("failed to load booking", err)
	}

	if err := AuthorizeStatusChange(actor, booking, target); err != nil {
		return nil, err
	}

	updated, err := s.bookings.AppendStatus(ctx, bookingID, models.StatusLog{
		Status:    target,
		UpdatedBy: actor.ID,
		Timestamp: time.Now(),
	})
	if err != nil {
		return nil, apperr.Internal("failed to update booking status", err)
	}

	s.events.Publish(ctx, events.BookingEvent{
		Type:      events.EventBookingStatusChanged,
		BookingID: updated.ID.Hex(),
		TourID:    updated.Tour.Hex(),
		UserID:    updated.User.Hex(),
		Status:    string(target),
		UpdatedBy: actor.ID.Hex(),
	})

	return updated, nil
}

// CancelBooking is the tourist shortcut to cancel their own booking. The
// lookup matches on both id and owner, so someone else's booking reads as
// not found rather than forbidden.
func (s *BookingService) CancelBooking(ctx context.Context, actor Actor, id string) (*models.Booking, error) {
	bookingID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.BadRequest("invalid booking id")
	}

	if _, err := s.bookings.FindOwnBooking(ctx, bookingID, actor.ID); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("booking not found")
		}
		return nil, apperr.Internal("failed to load booking", err)
	}

	updated, err := s.bookings.AppendStatus(ctx, bookingID, models.StatusLog{
		Status:    models.BookingCancelled,
		UpdatedBy: actor.ID,
		Timestamp: time.Now(),
	})
	if err != nil {
		return nil, apperr.Internal("failed to cancel booking", err)
	}

	s.events.Publish(ctx, events.BookingEvent{
		Type:      events.EventBookingStatusChanged,
		BookingID: updated.ID.Hex(),
		TourID:    updated.Tour.Hex(),
		UserID:    updated.User.Hex(),
		Status:    string(models.BookingCancelled),
		UpdatedBy: actor.ID.Hex(),
	})

	return updated, nil
}

// GuideReservedDates returns the booked date strings for a guide, used by
// the frontend calendar to grey out taken days.
func (s *BookingService) GuideReservedDates(ctx context.Context, guideID string) ([]string, error) {
	id, err := primitive.ObjectIDFromHex(guideID)
	if err != nil {
		return nil, apperr.BadRequest("invalid guide id")
	}

	dates, err := s.bookings.GuideBookingDates(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to load reserved dates", err)
	}
	return dates, nil
}
