package services

import (
	"context"
	"testing"

	"github.com/roamly/api/internal/apperr"
	"github.com/roamly/api/internal/gateway"
	"github.com/roamly/api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type paymentFixture struct {
	payment *models.Payment
	booking *models.Booking
	user    *models.User
	tour    *models.Tour
}

func newPaymentFixture() paymentFixture {
	tourID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	bookingID := primitive.NewObjectID()
	return paymentFixture{
		payment: &models.Payment{
			ID:            primitive.NewObjectID(),
			Booking:       bookingID,
			TransactionID: "tran_abc123",
			Status:        models.PaymentUnpaid,
			Amount:        150,
		},
		booking: &models.Booking{
			ID:            bookingID,
			Tour:          tourID,
			User:          userID,
			Guide:         primitive.NewObjectID(),
			Date:          "2026-09-15",
			GroupSize:     3,
			TotalPrice:    150,
			PaymentStatus: models.PaymentUnpaid,
			Status:        models.BookingConfirmed,
		},
		user: &models.User{ID: userID, Name: "Ava", Email: "ava@example.com"},
		tour: &models.Tour{ID: tourID, Title: "Harbor Kayak Trip"},
	}
}

func (f paymentFixture) service(payments *mockPaymentRepo, bookings *mockBookingRepo) *PaymentService {
	tours := &mockTourRepo{
		getTourByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*models.Tour, error) {
			return f.tour, nil
		},
	}
	users := &mockUserRepo{
		getUserByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
			return f.user, nil
		},
	}
	return NewPaymentService(payments, bookings, tours, users, &mockGateway{}, nil, nil, nil, testLogger())
}

func TestInitPayment_Retry(t *testing.T) {
	f := newPaymentFixture()

	payments := &mockPaymentRepo{
		getPaymentByBookingFunc: func(ctx context.Context, bookingID primitive.ObjectID) (*models.Payment, error) {
			if bookingID != f.booking.ID {
				return nil, mongo.ErrNoDocuments
			}
			return f.payment, nil
		},
	}
	bookings := &mockBookingRepo{
		getBookingByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
			return f.booking, nil
		},
	}
	tours := &mockTourRepo{
		getTourByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*models.Tour, error) {
			return f.tour, nil
		},
	}
	users := &mockUserRepo{
		getUserByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
			return f.user, nil
		},
	}
	gw := &mockGateway{
		initPaymentFunc: func(ctx context.Context, p gateway.InitPayload) (*gateway.InitResponse, error) {
			if p.TransactionID != f.payment.TransactionID {
				t.Errorf("retry should reuse the stored transaction id, got %q", p.TransactionID)
			}
			if p.Amount != f.payment.Amount {
				t.Errorf("retry should reuse the stored amount, got %v", p.Amount)
			}
			return &gateway.InitResponse{Status: "SUCCESS", GatewayPageURL: "https://gateway.example.com/retry"}, nil
		},
	}
	svc := NewPaymentService(payments, bookings, tours, users, gw, nil, nil, nil, testLogger())

	url, err := svc.InitPayment(context.Background(), f.booking.ID.Hex())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://gateway.example.com/retry" {
		t.Errorf("unexpected checkout url %q", url)
	}

	_, err = svc.InitPayment(context.Background(), primitive.NewObjectID().Hex())
	appErr, ok := apperr.From(err)
	if !ok || appErr.HTTPStatus != 404 {
		t.Fatalf("expected 404 for unknown booking, got %v", err)
	}
}

func TestGetInvoiceDownloadURL(t *testing.T) {
	f := newPaymentFixture()
	f.payment.InvoiceURL = "https://res.cloudinary.com/demo/raw/upload/roamly/invoices/tran_abc123.pdf"

	payments := &mockPaymentRepo{
		getPaymentByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
			return f.payment, nil
		},
	}
	svc := f.service(payments, &mockBookingRepo{})

	url, err := svc.GetInvoiceDownloadURL(context.Background(), f.payment.ID.Hex())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != f.payment.InvoiceURL {
		t.Errorf("unexpected invoice url %q", url)
	}

	f.payment.InvoiceURL = ""
	_, err = svc.GetInvoiceDownloadURL(context.Background(), f.payment.ID.Hex())
	appErr, ok := apperr.From(err)
	if !ok || appErr.HTTPStatus != 404 {
		t.Fatalf("expected 404 when no invoice is stored, got %v", err)
	}
}

func TestUpdatePayment(t *testing.T) {
	f := newPaymentFixture()

	updateCalled := false
	payments := &mockPaymentRepo{
		getPaymentByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
			return f.payment, nil
		},
		updatePaymentStatusFunc: func(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus) (*models.Payment, error) {
			updateCalled = true
			updated := *f.payment
			updated.Status = status
			return &updated, nil
		},
	}
	svc := f.service(payments, &mockBookingRepo{})

	updated, changed, err := svc.UpdatePayment(context.Background(), f.payment.ID.Hex(), models.PaymentPaid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed || updated.Status != models.PaymentPaid {
		t.Errorf("expected a PAID payment with changed=true, got %s changed=%v", updated.Status, changed)
	}

	// Same status again is a no-op.
	f.payment.Status = models.PaymentPaid
	updateCalled = false
	_, changed, err = svc.UpdatePayment(context.Background(), f.payment.ID.Hex(), models.PaymentPaid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed || updateCalled {
		t.Error("repeating the current status should not write")
	}

	_, _, err = svc.UpdatePayment(context.Background(), f.payment.ID.Hex(), models.PaymentStatus("SETTLED"))
	appErr, ok := apperr.From(err)
	if !ok || appErr.HTTPStatus != 400 {
		t.Fatalf("expected 400 for unknown status, got %v", err)
	}
}

func TestSuccessPayment(t *testing.T) {
	f := newPaymentFixture()

	var bookingSet bson.M
	var appended models.StatusLog
	payments := &mockPaymentRepo{
		getPaymentByTransactionIDFunc: func(ctx context.Context, transactionID string) (*models.Payment, error) {
			return f.payment, nil
		},
		updateStatusByTransactionIDFunc: func(ctx context.Context, transactionID string, status models.PaymentStatus) (*models.Payment, error) {
			if status != models.PaymentPaid {
				t.Errorf("expected PAID, got %s", status)
			}
			updated := *f.payment
			updated.Status = status
			return &updated, nil
		},
	}
	bookings := &mockBookingRepo{
		getBookingByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
			return f.booking, nil
		},
		updateBookingFieldsFunc: func(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Booking, error) {
			bookingSet = set
			return f.booking, nil
		},
		appendStatusFunc: func(ctx context.Context, id primitive.ObjectID, log models.StatusLog) (*models.Booking, error) {
			appended = log
			return f.booking, nil
		},
	}

	payment, err := f.service(payments, bookings).SuccessPayment(context.Background(), "tran_abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.Status != models.PaymentPaid {
		t.Errorf("expected PAID payment, got %s", payment.Status)
	}
	if bookingSet["payment_status"] != models.PaymentPaid {
		t.Errorf("expected booking payment_status PAID, got %v", bookingSet)
	}
	if appended.Status != models.BookingCompleted {
		t.Errorf("expected COMPLETED status log, got %+v", appended)
	}
	if appended.UpdatedBy != f.booking.User {
		t.Error("the settlement log should be attributed to the paying tourist")
	}
}

func TestSuccessPayment_DuplicateCallback(t *testing.T) {
	f := newPaymentFixture()
	f.payment.Status = models.PaymentPaid

	updateCalled := false
	payments := &mockPaymentRepo{
		getPaymentByTransactionIDFunc: func(ctx context.Context, transactionID string) (*models.Payment, error) {
			return f.payment, nil
		},
		updateStatusByTransactionIDFunc: func(ctx context.Context, transactionID string, status models.PaymentStatus) (*models.Payment, error) {
			updateCalled = true
			return f.payment, nil
		},
	}

	payment, err := f.service(payments, &mockBookingRepo{}).SuccessPayment(context.Background(), "tran_abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updateCalled {
		t.Error("a repeated success callback should not rewrite the payment")
	}
	if payment.Status != models.PaymentPaid {
		t.Errorf("expected PAID, got %s", payment.Status)
	}
}

func TestSuccessPayment_UnknownTransaction(t *testing.T) {
	f := newPaymentFixture()
	_, err := f.service(&mockPaymentRepo{}, &mockBookingRepo{}).SuccessPayment(context.Background(), "tran_missing")
	appErr, ok := apperr.From(err)
	if !ok || appErr.HTTPStatus != 404 {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestFailAndCancelPayment(t *testing.T) {
	tests := []struct {
		name          string
		call          func(svc *PaymentService) (*models.Payment, error)
		wantPayment   models.PaymentStatus
	}{
		{
			name: "fail callback",
			call: func(svc *PaymentService) (*models.Payment, error) {
				return svc.FailPayment(context.Background(), "tran_abc123")
			},
			wantPayment: models.PaymentFailed,
		},
		{
			name: "cancel callback",
			call: func(svc *PaymentService) (*models.Payment, error) {
				return svc.CancelPayment(context.Background(), "tran_abc123")
			},
			wantPayment: models.PaymentCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPaymentFixture()

			var gotStatus models.PaymentStatus
			var bookingSet bson.M
			payments := &mockPaymentRepo{
				updateStatusByTransactionIDFunc: func(ctx context.Context, transactionID string, status models.PaymentStatus) (*models.Payment, error) {
					gotStatus = status
					updated := *f.payment
					updated.Status = status
					return &updated, nil
				},
			}
			bookings := &mockBookingRepo{
				updateBookingFieldsFunc: func(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Booking, error) {
					bookingSet = set
					return f.booking, nil
				},
			}

			payment, err := tt.call(f.service(payments, bookings))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotStatus != tt.wantPayment {
				t.Errorf("expected payment status %s, got %s", tt.wantPayment, gotStatus)
			}
			if payment.Status != tt.wantPayment {
				t.Errorf("expected returned status %s, got %s", tt.wantPayment, payment.Status)
			}
			// Both outcomes flag the booking's payment as FAILED, the booking
			// status itself stays put.
			if bookingSet["payment_status"] != models.PaymentFailed {
				t.Errorf("expected booking payment_status FAILED, got %v", bookingSet)
			}
		})
	}
}
