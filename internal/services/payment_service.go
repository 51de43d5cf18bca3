package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/roamly/api/internal/apperr"
	"github.com/roamly/api/internal/events"
	"github.com/roamly/api/internal/gateway"
	"github.com/roamly/api/internal/helpers"
	"github.com/roamly/api/internal/invoice"
	"github.com/roamly/api/internal/mailer"
	"github.com/roamly/api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type PaymentService struct {
	payments models.PaymentRepo
	bookings models.BookingRepo
	tours    models.TourRepo
	users    models.UserRepo
	gateway  PaymentGateway
	cld      *cloudinary.Cloudinary
	mail     *mailer.Mailer
	events   *events.Publisher
	logger   *slog.Logger
}

func NewPaymentService(
	payments models.PaymentRepo,
	bookings models.BookingRepo,
	tours models.TourRepo,
	users models.UserRepo,
	gw PaymentGateway,
	cld *cloudinary.Cloudinary,
	mail *mailer.Mailer,
	publisher *events.Publisher,
	logger *slog.Logger,
) *PaymentService {
	return &PaymentService{
		payments: payments,
		bookings: bookings,
		tours:    tours,
		users:    users,
		gateway:  gw,
		cld:      cld,
		mail:     mail,
		events:   publisher,
		logger:   logger,
	}
}

// InitPayment reopens a checkout session for a booking whose payment was
// never settled, the retry path after a failed or abandoned checkout. The
// contact details are re-derived from the stored booking.
func (s *PaymentService) InitPayment(ctx context.Context, bookingID string) (string, error) {
	id, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return "", apperr.BadRequest("invalid booking id")
	}

	payment, err := s.payments.GetPaymentByBooking(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", apperr.NotFound("payment not found, you have not booked this tour")
		}
		return "", apperr.Internal("failed to load payment", err)
	}

	booking, err := s.bookings.GetBookingByID(ctx, payment.Booking)
	if err != nil {
		return "", apperr.Internal("failed to load booking", err)
	}
	user, err := s.users.GetUserByID(ctx, booking.User)
	if err != nil {
		return "", apperr.Internal("failed to load user", err)
	}
	tour, err := s.tours.GetTourByID(ctx, booking.Tour)
	if err != nil {
		return "", apperr.Internal("failed to load tour", err)
	}

	session, err := s.gateway.InitPayment(ctx, gateway.InitPayload{
		TransactionID:   payment.TransactionID,
		Amount:          payment.Amount,
		ProductName:     tour.Title,
		CustomerName:    user.Name,
		CustomerEmail:   user.Email,
		CustomerPhone:   booking.Phone,
		CustomerAddress: booking.Address,
	})
	if err != nil {
		return "", apperr.BadGateway("failed to initialize payment session", err)
	}
	return session.GatewayPageURL, nil
}

// SuccessPayment settles a successful gateway callback: the payment goes
// to PAID, the booking to PAID/COMPLETED, the invoice is generated and
// archived and the customer is emailed. Everything runs in one
// transaction so a half-settled payment can never be observed.
func (s *PaymentService) SuccessPayment(ctx context.Context, transactionID string) (*models.Payment, error) {
	existing, err := s.payments.GetPaymentByTransactionID(ctx, transactionID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("payment not found")
		}
		return nil, apperr.Internal("failed to load payment", err)
	}
	// Gateways retry callbacks, a second success is a no-op.
	if existing.Status == models.PaymentPaid {
		return existing, nil
	}

	var payment *models.Payment
	err = s.payments.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		updated, err := s.payments.UpdateStatusByTransactionID(sc, transactionID, models.PaymentPaid)
		if err != nil {
			return err
		}
		payment = updated

		booking, err := s.bookings.GetBookingByID(sc, payment.Booking)
		if err != nil {
			return err
		}

		if _, err := s.bookings.UpdateBookingFields(sc, booking.ID, bson.M{
			"payment_status": models.PaymentPaid,
		}); err != nil {
			return err
		}
		if _, err := s.bookings.AppendStatus(sc, booking.ID, models.StatusLog{
			Status:    models.BookingCompleted,
			UpdatedBy: booking.User,
			Timestamp: time.Now(),
		}); err != nil {
			return err
		}

		user, err := s.users.GetUserByID(sc, booking.User)
		if err != nil {
			return err
		}
		tour, err := s.tours.GetTourByID(sc, booking.Tour)
		if err != nil {
			return err
		}

		pdf, err := invoice.Render(invoice.Data{
			TransactionID: payment.TransactionID,
			UserName:      user.Name,
			TourTitle:     tour.Title,
			BookingDate:   booking.Date,
			GuestCount:    booking.GroupSize,
			TotalAmount:   payment.Amount,
			PaidAt:        time.Now(),
		})
		if err != nil {
			return err
		}

		if s.cld != nil {
			url, err := helpers.UploadBuffer(sc, s.cld, pdf, helpers.InvoiceFolder, payment.TransactionID)
			if err != nil {
				return err
			}
			if err := s.payments.SetInvoiceURL(sc, payment.ID, url); err != nil {
				return err
			}
			payment.InvoiceURL = url
		}

		return s.mail.Send(mailer.Message{
			To:       user.Email,
			Subject:  "Your Roamly booking is confirmed",
			HTMLBody: mailer.PaymentConfirmationBody(user.Name, tour.Title, payment.TransactionID, payment.Amount),
			Attachments: []mailer.Attachment{
				{Filename: "invoice.pdf", ContentType: "application/pdf", Content: pdf},
			},
		})
	})
	if err != nil {
		return nil, apperr.Internal("failed to settle payment", err)
	}

	s.events.Publish(ctx, events.BookingEvent{
		Type:      events.EventPaymentSettled,
		BookingID: payment.Booking.Hex(),
		Status:    string(models.PaymentPaid),
	})

	return payment, nil
}

// FailPayment records a failed gateway callback. The booking status is
// untouched, only its payment flag moves to FAILED.
func (s *PaymentService) FailPayment(ctx context.Context, transactionID string) (*models.Payment, error) {
	return s.closePayment(ctx, transactionID, models.PaymentFailed)
}

// CancelPayment records a customer abandoning the checkout. The payment
// goes to CANCELLED while the booking keeps the FAILED payment flag, so
// a cancelled checkout and a declined card look the same on the booking.
func (s *PaymentService) CancelPayment(ctx context.Context, transactionID string) (*models.Payment, error) {
	return s.closePayment(ctx, transactionID, models.PaymentCancelled)
}

func (s *PaymentService) closePayment(ctx context.Context, transactionID string, status models.PaymentStatus) (*models.Payment, error) {
	var payment *models.Payment
	err := s.payments.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		updated, err := s.payments.UpdateStatusByTransactionID(sc, transactionID, status)
		if err != nil {
			return err
		}
		payment = updated

		_, err = s.bookings.UpdateBookingFields(sc, payment.Booking, bson.M{
			"payment_status": models.PaymentFailed,
		})
		return err
	})
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("payment not found")
		}
		return nil, apperr.Internal("failed to close payment", err)
	}
	return payment, nil
}

// ValidatePayment checks an IPN val_id against the gateway validation API.
func (s *PaymentService) ValidatePayment(ctx context.Context, valID string) error {
	if valID == "" {
		return apperr.BadRequest("val_id is required")
	}
	if err := s.gateway.ValidatePayment(ctx, valID); err != nil {
		return apperr.BadGateway("payment validation failed", err)
	}
	return nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	paymentID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.BadRequest("invalid payment id")
	}

	payment, err := s.payments.GetPaymentByID(ctx, paymentID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("payment not found")
		}
		return nil, apperr.Internal("failed to load payment", err)
	}
	return payment, nil
}

// GetInvoiceDownloadURL returns the archived invoice for a settled payment.
func (s *PaymentService) GetInvoiceDownloadURL(ctx context.Context, id string) (string, error) {
	paymentID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", apperr.BadRequest("invalid payment id")
	}

	payment, err := s.payments.GetPaymentByID(ctx, paymentID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", apperr.NotFound("payment not found")
		}
		return "", apperr.Internal("failed to load payment", err)
	}
	if payment.InvoiceURL == "" {
		return "", apperr.NotFound("no invoice found for this payment")
	}
	return payment.InvoiceURL, nil
}

// manually assignable statuses for the admin override
var paymentOverrideStatuses = map[models.PaymentStatus]bool{
	models.PaymentPaid:   true,
	models.PaymentUnpaid: true,
	models.PaymentFailed: true,
}

// UpdatePayment is the admin override for a payment stuck in the wrong
// state. Returns changed=false when the payment already has the requested
// status.
func (s *PaymentService) UpdatePayment(ctx context.Context, id string, status models.PaymentStatus) (*models.Payment, bool, error) {
	paymentID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false, apperr.BadRequest("invalid payment id")
	}
	if !paymentOverrideStatuses[status] {
		return nil, false, apperr.BadRequest("invalid payment status value")
	}

	payment, err := s.payments.GetPaymentByID(ctx, paymentID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, false, apperr.NotFound("payment not found")
		}
		return nil, false, apperr.Internal("failed to load payment", err)
	}
	if payment.Status == status {
		return payment, false, nil
	}

	updated, err := s.payments.UpdatePaymentStatus(ctx, paymentID, status)
	if err != nil {
		return nil, false, apperr.Internal("failed to update payment status", err)
	}
	return updated, true, nil
}

func (s *PaymentService) ListPayments(ctx context.Context, params map[string]string) ([]*models.Payment, *models.Meta, error) {
	payments, meta, err := s.payments.ListPayments(ctx, params)
	if err != nil {
		return nil, nil, apperr.Internal("failed to list payments", err)
	}
	return payments, meta, nil
}

func (s *PaymentService) DeletePayment(ctx context.Context, id string) error {
	paymentID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.BadRequest("invalid payment id")
	}

	if err := s.payments.DeletePayment(ctx, paymentID); err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.NotFound("payment not found")
		}
		return apperr.Internal(fmt.Sprintf("failed to delete payment %s", id), err)
	}
	return nil
}
