package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/payments"
)

type invoiceCallbackRequest struct {
	ID            string `json:"id" binding:"required"`
	ExternalID    string `json:"external_id"`
	Status        string `json:"status" binding:"required"`
	FailureReason string `json:"failure_reason"`
}

// PaymentWebhook receives the provider's invoice callback and reconciles the
// ledger entry and order. The callback token header is the only
// authentication the provider offers; a mismatch is rejected before any
// lookup.
func PaymentWebhook(svc *payments.Service, callbackToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payments/webhook"
		defer handlePanic(c, route)

		if callbackToken == "" || c.GetHeader("x-callback-token") != callbackToken {
			log.Printf("[%s] rejected callback with bad token", route)
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req invoiceCallbackRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		succeeded := strings.EqualFold(req.Status, "PAID") || strings.EqualFold(req.Status, "SETTLED")
		failureReason := req.FailureReason
		if !succeeded && failureReason == "" {
			failureReason = strings.ToLower(req.Status)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		entry, err := svc.Reconcile(ctx, req.ID, succeeded, failureReason)
		if err != nil {
			if errors.Is(err, payments.ErrPaymentNotFound) {
				respondWithError(c, http.StatusNotFound, route, "unknown invoice")
				return
			}
			log.Printf("[%s] reconcile failed for %s: %v", route, req.ID, err)
			respondWithError(c, http.StatusInternalServerError, route, "reconcile failed")
			return
		}

		log.Printf("[%s] invoice %s reconciled to %s", route, req.ID, entry.Status)
		c.JSON(http.StatusOK, gin.H{
			"paymentId": entry.ID.Hex(),
			"status":    entry.Status,
		})
	}
}
