package payments

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
)

// Repository is the storage surface the payments service needs. The mongo
// implementation below is the only production one; tests use an in-memory
// fake.
type Repository interface {
	FindOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, paidAt, cancelledAt *time.Time) error

	FindPendingPayment(ctx context.Context, orderID primitive.ObjectID) (*models.PaymentLedgerEntry, error)
	FindPayment(ctx context.Context, id primitive.ObjectID) (*models.PaymentLedgerEntry, error)
	FindPaymentByProviderRef(ctx context.Context, providerPaymentID string) (*models.PaymentLedgerEntry, error)
	InsertPayment(ctx context.Context, entry *models.PaymentLedgerEntry) (primitive.ObjectID, error)
	MarkPaymentPaid(ctx context.Context, id primitive.ObjectID, paidAt time.Time) error
	MarkPaymentFailed(ctx context.Context, id primitive.ObjectID, errorMessage string) error
}

type mongoRepository struct {
	db *mongo.Database
}

// NewMongoRepository wraps the given database handle. The handle is created
// once at startup and shared; the repository holds no other state.
func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{db: db}
}

func (r *mongoRepository) orders() *mongo.Collection   { return r.db.Collection("orders") }
func (r *mongoRepository) payments() *mongo.Collection { return r.db.Collection("payments") }

func (r *mongoRepository) FindOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.orders().FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *mongoRepository) UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, paidAt, cancelledAt *time.Time) error {
	set := bson.M{"status": status}
	if paidAt != nil {
		set["paidAt"] = *paidAt
	}
	if cancelledAt != nil {
		set["cancelledAt"] = *cancelledAt
	}

	res, err := r.orders().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *mongoRepository) FindPendingPayment(ctx context.Context, orderID primitive.ObjectID) (*models.PaymentLedgerEntry, error) {
	var entry models.PaymentLedgerEntry
	err := r.payments().FindOne(ctx, bson.M{
		"orderId": orderID,
		"status":  models.PaymentPending,
	}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *mongoRepository) FindPayment(ctx context.Context, id primitive.ObjectID) (*models.PaymentLedgerEntry, error) {
	var entry models.PaymentLedgerEntry
	err := r.payments().FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *mongoRepository) FindPaymentByProviderRef(ctx context.Context, providerPaymentID string) (*models.PaymentLedgerEntry, error) {
	var entry models.PaymentLedgerEntry
	err := r.payments().FindOne(ctx, bson.M{"providerPaymentId": providerPaymentID}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *mongoRepository) InsertPayment(ctx context.Context, entry *models.PaymentLedgerEntry) (primitive.ObjectID, error) {
	res, err := r.payments().InsertOne(ctx, entry)
	if mongo.IsDuplicateKeyError(err) {
		return primitive.NilObjectID, errDuplicatePending
	}
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (r *mongoRepository) MarkPaymentPaid(ctx context.Context, id primitive.ObjectID, paidAt time.Time) error {
	// Filter on pending so replayed webhooks cannot rewrite a terminal entry.
	res, err := r.payments().UpdateOne(ctx,
		bson.M{"_id": id, "status": models.PaymentPending},
		bson.M{"$set": bson.M{
			"status": models.PaymentPaid,
			"paidAt": paidAt,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (r *mongoRepository) MarkPaymentFailed(ctx context.Context, id primitive.ObjectID, errorMessage string) error {
	res, err := r.payments().UpdateOne(ctx,
		bson.M{"_id": id, "status": models.PaymentPending},
		bson.M{"$set": bson.M{
			"status":       models.PaymentFailed,
			"errorMessage": errorMessage,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPaymentNotFound
	}
	return nil
}
