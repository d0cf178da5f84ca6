package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	_, err := indexes.CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	return nil
}

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("products").Indexes()

	barcodeIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "barcode", Value: 1}},
		Options: options.Index().
			SetName("barcode_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"barcode": bson.M{
					"$exists": true,
				},
			}),
	}

	log.Println("EnsureProductIndexes: creating barcode_unique index")
	_, err := indexes.CreateOne(ctx, barcodeIndex)
	if err != nil {
		log.Println("EnsureProductIndexes: barcode index error:", err)
		return err
	}
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	userIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetName("userId_index"),
	}

	log.Println("EnsureOrderIndexes: creating userId_index index")
	_, err := indexes.CreateOne(ctx, userIDIndex)
	if err != nil {
		log.Println("EnsureOrderIndexes: userId index error:", err)
		return err
	}
	return nil
}

// EnsurePaymentIndexes creates the index that backs the invoice idempotency
// guarantee. The unique partial index on (orderId, status) with status fixed
// to "pending" makes the second of two concurrent inserts fail with a
// duplicate key error, which the payments service translates into returning
// the winner's invoice instead of creating a second one.
func EnsurePaymentIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("payments").Indexes()

	pendingIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "orderId", Value: 1},
			{Key: "status", Value: 1},
		},
		Options: options.Index().
			SetName("orderId_pending_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"status": "pending",
			}),
	}

	log.Println("EnsurePaymentIndexes: creating orderId_pending_unique index")
	if _, err := indexes.CreateOne(ctx, pendingIndex); err != nil {
		log.Println("EnsurePaymentIndexes: pending index error:", err)
		return err
	}

	providerRefIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "providerPaymentId", Value: 1}},
		Options: options.Index().SetName("providerPaymentId_index"),
	}

	log.Println("EnsurePaymentIndexes: creating providerPaymentId_index index")
	if _, err := indexes.CreateOne(ctx, providerRefIndex); err != nil {
		log.Println("EnsurePaymentIndexes: providerPaymentId index error:", err)
		return err
	}
	return nil
}
