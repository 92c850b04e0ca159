package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	db "github.com/manokmart/manokmart-BE/internal/db"
	"github.com/manokmart/manokmart-BE/internal/lalamove"
)

// createOrderDelivery dispatches a courier for an order. Used by the seller
// flow once the order is packed, and by support as the manual fallback when
// automatic dispatch was skipped or failed.
func (server *Server) createOrderDelivery(c *gin.Context) {
	order, ok := server.loadOrder(c)
	if !ok {
		return
	}

	switch order.Status {
	case db.OrderStatusCanceled, db.OrderStatusFailed, db.OrderStatusDelivered, db.OrderStatusCompleted:
		c.JSON(http.StatusConflict, errorResponse(fmt.Errorf("order is %s and cannot be dispatched", order.Status)))
		return
	}

	if existing, err := server.dbStore.GetOrderDeliveryByOrderID(c.Request.Context(), order.ID); err == nil {
		if existing.Status != nil && !lalamove.IsTerminalStatus(*existing.Status) {
			c.JSON(http.StatusConflict, errorResponse(errors.New("order already has an active delivery")))
			return
		}
	} else if !errors.Is(err, db.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	delivery, err := server.deliveryService.CreateDeliveryOrder(c.Request.Context(), order)
	if err != nil {
		server.renderProviderError(c, err)
		return
	}
	if delivery == nil {
		c.JSON(http.StatusBadGateway, errorResponse(ErrDeliveryNotCreated))
		return
	}

	c.JSON(http.StatusCreated, delivery)
}

func (server *Server) getOrderDelivery(c *gin.Context) {
	order, ok := server.loadOrder(c)
	if !ok {
		return
	}

	delivery, err := server.dbStore.GetOrderDeliveryByOrderID(c.Request.Context(), order.ID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(ErrOrderHasNoDelivery))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, delivery)
}

// cancelOrderDelivery cancels the provider order. A deferred re-dispatch is
// scheduled automatically; DELETE here does not cancel the marketplace order.
func (server *Server) cancelOrderDelivery(c *gin.Context) {
	order, ok := server.loadOrder(c)
	if !ok {
		return
	}

	if err := server.deliveryService.CancelDeliveryOrder(c.Request.Context(), order); err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(ErrOrderHasNoDelivery))
			return
		}
		server.renderProviderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "delivery canceled, one re-dispatch scheduled"})
}

func (server *Server) getDeliveryDriver(c *gin.Context) {
	delivery, ok := server.loadActiveDelivery(c)
	if !ok {
		return
	}

	driver, err := server.deliveryService.DriverInfo(c.Request.Context(), *delivery.ProviderOrderID)
	if err != nil {
		server.renderProviderError(c, err)
		return
	}

	c.JSON(http.StatusOK, driver)
}

func (server *Server) getDeliveryDriverLocation(c *gin.Context) {
	delivery, ok := server.loadActiveDelivery(c)
	if !ok {
		return
	}

	location, err := server.deliveryService.DriverLocation(c.Request.Context(), *delivery.ProviderOrderID)
	if err != nil {
		server.renderProviderError(c, err)
		return
	}

	c.JSON(http.StatusOK, location)
}

func (server *Server) checkHealth(c *gin.Context) {
	if err := server.dbStore.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (server *Server) loadOrder(c *gin.Context) (db.Order, bool) {
	orderID := c.Param("orderID")

	order, err := server.dbStore.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(fmt.Errorf("order %s not found", orderID)))
			return db.Order{}, false
		}
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return db.Order{}, false
	}

	return order, true
}

func (server *Server) loadActiveDelivery(c *gin.Context) (db.OrderDelivery, bool) {
	order, ok := server.loadOrder(c)
	if !ok {
		return db.OrderDelivery{}, false
	}

	delivery, err := server.dbStore.GetOrderDeliveryByOrderID(c.Request.Context(), order.ID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(ErrOrderHasNoDelivery))
			return db.OrderDelivery{}, false
		}
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return db.OrderDelivery{}, false
	}
	if delivery.ProviderOrderID == nil {
		c.JSON(http.StatusNotFound, errorResponse(ErrOrderHasNoDelivery))
		return db.OrderDelivery{}, false
	}

	return delivery, true
}

// renderProviderError maps delivery-layer failures onto HTTP statuses:
// caller mistakes to 400, provider rejections to 502 with the provider's
// message passed through.
func (server *Server) renderProviderError(c *gin.Context, err error) {
	var validationErr *lalamove.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, failedValidationError([]*FieldViolation{
			fieldViolation(validationErr.Field, errors.New(validationErr.Message)),
		}))
		return
	}

	var providerErr *lalamove.ProviderError
	if errors.As(err, &providerErr) {
		c.JSON(http.StatusBadGateway, errorResponse(providerErr))
		return
	}

	c.JSON(http.StatusInternalServerError, errorResponse(err))
}
