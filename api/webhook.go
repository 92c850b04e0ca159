package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	db "github.com/manokmart/manokmart-BE/internal/db"
	"github.com/manokmart/manokmart-BE/internal/delivery"
	"github.com/manokmart/manokmart-BE/internal/lalamove"
	"github.com/rs/zerolog/log"
)

// handleLalamoveWebhook receives provider callbacks for delivery state
// changes. The signature is checked over the raw body before any parsing.
// Responses drive the provider's redelivery: 401 for bad signatures, 404
// for orders we do not know, 500 when processing failed and the provider
// should retry, 200 once the event is applied.
func (server *Server) handleLalamoveWebhook(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("failed to read request body: %w", err)))
		return
	}

	signature := c.GetHeader(lalamove.WebhookSignatureHeader)
	if !lalamove.VerifyWebhookSignature(server.config.LalamoveWebhookSecret, signature, rawBody) {
		log.Warn().Str("remote_addr", c.ClientIP()).Msg("rejected webhook with invalid signature")
		c.JSON(http.StatusUnauthorized, errorResponse(errors.New("invalid webhook signature")))
		return
	}

	var payload lalamove.WebhookPayload
	if err = json.Unmarshal(rawBody, &payload); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("malformed webhook payload: %w", err)))
		return
	}
	if payload.Data.OrderID == "" || payload.Data.Status == "" {
		c.JSON(http.StatusBadRequest, errorResponse(errors.New("webhook payload missing orderId or status")))
		return
	}

	_, err = server.deliveryService.ApplyStatusUpdate(c.Request.Context(), delivery.StatusUpdate{
		ProviderOrderID: payload.Data.OrderID,
		Status:          payload.Data.Status,
		Driver:          payload.Data.Driver,
		Location:        payload.Data.Location,
		Reason:          payload.Data.Reason,
	})
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(errors.New("no delivery found for provider order")))
			return
		}
		// 5xx asks the provider to redeliver; applying the event again
		// later converges to the same state.
		log.Error().Err(err).Str("provider_order_id", payload.Data.OrderID).Msg("failed to process webhook event")
		c.JSON(http.StatusInternalServerError, errorResponse(errors.New("failed to process webhook event")))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
