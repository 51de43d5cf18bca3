package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PaymentRepo interface {
	InsertPayment(ctx context.Context, payment *Payment) (*Payment, error)
	GetPaymentByID(ctx context.Context, id primitive.ObjectID) (*Payment, error)
	GetPaymentByBooking(ctx context.Context, bookingID primitive.ObjectID) (*Payment, error)
	GetPaymentByTransactionID(ctx context.Context, transactionID string) (*Payment, error)
	UpdateStatusByTransactionID(ctx context.Context, transactionID string, status PaymentStatus) (*Payment, error)
	UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status PaymentStatus) (*Payment, error)
	SetInvoiceURL(ctx context.Context, id primitive.ObjectID, url string) error
	ListPayments(ctx context.Context, params map[string]string) ([]*Payment, *Meta, error)
	DeletePayment(ctx context.Context, id primitive.ObjectID) error
	WithTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error
}

func (mdb *MongodbRepo) InsertPayment(ctx context.Context, payment *Payment) (*Payment, error) {
	col, err := mdb.GetCollection(ctx, DbName, PaymentColName)
	if err != nil {
		return nil, err
	}

	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	if _, err := col.InsertOne(ctx, payment); err != nil {
		// raw error so callers can detect a transaction_id index collision
		return nil, err
	}
	return payment, nil
}

func (mdb *MongodbRepo) GetPaymentByID(ctx context.Context, id primitive.ObjectID) (*Payment, error) {
	col, err := mdb.GetCollection(ctx, DbName, PaymentColName)
	if err != nil {
		return nil, err
	}

	var payment Payment
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (mdb *MongodbRepo) GetPaymentByBooking(ctx context.Context, bookingID primitive.ObjectID) (*Payment, error) {
	col, err := mdb.GetCollection(ctx, DbName, PaymentColName)
	if err != nil {
		return nil, err
	}

	var payment Payment
	if err := col.FindOne(ctx, bson.M{"booking": bookingID}).Decode(&payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (mdb *MongodbRepo) GetPaymentByTransactionID(ctx context.Context, transactionID string) (*Payment, error) {
	col, err := mdb.GetCollection(ctx, DbName, PaymentColName)
	if err != nil {
		return nil, err
	}

	var payment Payment
	if err := col.FindOne(ctx, bson.M{"transaction_id": transactionID}).Decode(&payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (mdb *MongodbRepo) UpdateStatusByTransactionID(ctx context.Context, transactionID string, status PaymentStatus) (*Payment, error) {
	col, err := mdb.GetCollection(ctx, DbName, PaymentColName)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Payment
	err = col.FindOneAndUpdate(ctx,
		bson.M{"transaction_id": transactionID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
		opts,
	).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (mdb *MongodbRepo) UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status PaymentStatus) (*Payment, error) {
	col, err := mdb.GetCollection(ctx, DbName, PaymentColName)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Payment
	err = col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
		opts,
	).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (mdb *MongodbRepo) SetInvoiceURL(ctx context.Context, id primitive.ObjectID, url string) error {
	col, err := mdb.GetCollection(ctx, DbName, PaymentColName)
	if err != nil {
		return err
	}

	res, err := col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"invoice_url": url, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("error setting invoice url: %v", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (mdb *MongodbRepo) ListPayments(ctx context.Context, params map[string]string) ([]*Payment, *Meta, error) {
	col, err := mdb.GetCollection(ctx, DbName, PaymentColName)
	if err != nil {
		return nil, nil, err
	}

	qb := NewQueryBuilder(col, bson.M{}, params).
		Search([]string{"transaction_id"}).
		Filter().
		Sort().
		Fields().
		Paginate()

	var payments []*Payment
	if err := qb.Build(ctx, &payments); err != nil {
		return nil, nil, err
	}
	meta, err := qb.Meta(ctx)
	if err != nil {
		return nil, nil, err
	}
	return payments, meta, nil
}

func (mdb *MongodbRepo) DeletePayment(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, DbName, PaymentColName)
	if err != nil {
		return err
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting payment: %v", err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// paymentsByIDs supports booking population.
func (mdb *MongodbRepo) paymentsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*Payment, error) {
	result := map[primitive.ObjectID]*Payment{}
	if len(ids) == 0 {
		return result, nil
	}
	col, err := mdb.GetCollection(ctx, DbName, PaymentColName)
	if err != nil {
		return nil, err
	}

	cursor, err := col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("error finding payments: %v", err)
	}
	defer cursor.Close(ctx)

	var payments []*Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("error decoding payments: %v", err)
	}
	for _, p := range payments {
		result[p.ID] = p
	}
	return result, nil
}
