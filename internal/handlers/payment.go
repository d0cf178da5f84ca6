package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/invoice"
	"storefront/internal/models"
	"storefront/internal/payments"
)

type createPaymentRequest struct {
	OrderID       string  `json:"orderId" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	CustomerName  string  `json:"customerName" binding:"required"`
	CustomerEmail string  `json:"customerEmail" binding:"required"`
	UserID        string  `json:"userId" binding:"required"`
	Method        string  `json:"method"`
}

// CreatePayment drives the idempotent invoice flow: authorize, then either
// reuse the order's pending invoice or create exactly one new one.
func CreatePayment(db *mongo.Database, svc *payments.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payments"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var req createPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		orderID, err := primitive.ObjectIDFromHex(req.OrderID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid orderId")
			return
		}
		userID, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid userId")
			return
		}

		actor, ok := actorFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}
		if err := payments.AuthorizePaymentInitiation(actor, userID); err != nil {
			respondWithError(c, http.StatusForbidden, route, "forbidden")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		result, err := svc.EnsureInvoice(ctx, payments.EnsureInvoiceInput{
			OrderID:       orderID,
			UserID:        userID,
			Amount:        req.Amount,
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			Method:        models.PaymentMethod(req.Method),
		})
		if err != nil {
			var verr payments.ValidationError
			var perr *invoice.ProviderError
			switch {
			case errors.As(err, &verr):
				respondWithError(c, http.StatusBadRequest, route, verr.Error())
			case errors.Is(err, payments.ErrOrderNotFound):
				respondWithError(c, http.StatusNotFound, route, "order not found")
			case errors.Is(err, payments.ErrOrderNotPayable):
				respondWithError(c, http.StatusConflict, route, "order is not payable")
			case errors.As(err, &perr):
				log.Printf("[%s] provider failure: %v", route, perr)
				respondWithError(c, http.StatusInternalServerError, route, "payment could not be created")
			default:
				log.Printf("[%s] unexpected error: %v", route, err)
				respondWithError(c, http.StatusInternalServerError, route, "db error")
			}
			return
		}

		log.Printf("[%s] order %s -> payment %s (reused=%v)", route, req.OrderID, result.PaymentID.Hex(), result.Reused)
		c.JSON(http.StatusOK, gin.H{
			"invoiceURL": result.CheckoutURL,
			"paymentId":  result.PaymentID.Hex(),
			"reused":     result.Reused,
		})
	}
}

// GetPayment returns one ledger entry to its owner or an admin.
func GetPayment(svc *payments.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /payments/:id"
		defer handlePanic(c, route)

		paymentID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		actor, ok := actorFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		entry, err := svc.GetPayment(ctx, actor, paymentID)
		switch {
		case errors.Is(err, payments.ErrPaymentNotFound):
			respondWithError(c, http.StatusNotFound, route, "payment not found")
			return
		case errors.Is(err, payments.ErrForbidden):
			respondWithError(c, http.StatusForbidden, route, "forbidden")
			return
		case err != nil:
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, entry)
	}
}
