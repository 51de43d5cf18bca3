package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const PaymentColName = "payments"

type PaymentStatus string

const (
	PaymentUnpaid    PaymentStatus = "UNPAID"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPaid, PaymentFailed, PaymentCancelled:
		return true
	}
	return false
}

type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Booking       primitive.ObjectID `bson:"booking" json:"booking"`
	TransactionID string             `bson:"transaction_id" json:"transactionId"`
	Status        PaymentStatus      `bson:"status" json:"status"`
	Amount        float64            `bson:"amount" json:"amount"`
	InvoiceURL    string             `bson:"invoice_url,omitempty" json:"invoiceUrl,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}
