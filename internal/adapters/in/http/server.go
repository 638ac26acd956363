// Package http exposes the order lifecycle over a REST API. Caller identity
// arrives in the X-User-Id header, set by the platform's edge gateway after
// authentication; this service trusts it and only enforces ownership rules.
package http

import (
	"errors"
	"net/http"
	"time"

	"pharmacy/internal/core/application/usecases/commands"
	"pharmacy/internal/core/application/usecases/queries"
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// HeaderUserID carries the authenticated caller's user id.
const HeaderUserID = "X-User-Id"

// Error is the uniform error payload.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createOrderHandler          commands.CreateOrderCommandHandler
	reviewOrderHandler          commands.ReviewOrderCommandHandler
	processPaymentHandler       commands.ProcessPaymentCommandHandler
	validatePaymentHandler      commands.ValidatePaymentCommandHandler
	markOrderReadyHandler       commands.MarkOrderReadyCommandHandler
	acceptDeliveryHandler       commands.AcceptDeliveryCommandHandler
	completeDeliveryHandler     commands.CompleteDeliveryCommandHandler
	cancelOrderHandler          commands.CancelOrderCommandHandler
	updateDriverLocationHandler commands.UpdateDriverLocationCommandHandler

	availableDeliveriesHandler queries.GetAvailableDeliveriesQueryHandler
	orderTrackingHandler       queries.GetOrderTrackingQueryHandler
}

// NewServer creates an HTTP server over the given command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	reviewOrderHandler commands.ReviewOrderCommandHandler,
	processPaymentHandler commands.ProcessPaymentCommandHandler,
	validatePaymentHandler commands.ValidatePaymentCommandHandler,
	markOrderReadyHandler commands.MarkOrderReadyCommandHandler,
	acceptDeliveryHandler commands.AcceptDeliveryCommandHandler,
	completeDeliveryHandler commands.CompleteDeliveryCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	updateDriverLocationHandler commands.UpdateDriverLocationCommandHandler,
	availableDeliveriesHandler queries.GetAvailableDeliveriesQueryHandler,
	orderTrackingHandler queries.GetOrderTrackingQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:          createOrderHandler,
		reviewOrderHandler:          reviewOrderHandler,
		processPaymentHandler:       processPaymentHandler,
		validatePaymentHandler:      validatePaymentHandler,
		markOrderReadyHandler:       markOrderReadyHandler,
		acceptDeliveryHandler:       acceptDeliveryHandler,
		completeDeliveryHandler:     completeDeliveryHandler,
		cancelOrderHandler:          cancelOrderHandler,
		updateDriverLocationHandler: updateDriverLocationHandler,
		availableDeliveriesHandler:  availableDeliveriesHandler,
		orderTrackingHandler:        orderTrackingHandler,
	}
}

// RegisterRoutes mounts all endpoints under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.POST("/orders/:id/review", s.ReviewOrder)
	api.POST("/orders/:id/payment", s.ProcessPayment)
	api.POST("/orders/:id/validate-payment", s.ValidatePayment)
	api.POST("/orders/:id/ready", s.MarkOrderReady)
	api.POST("/orders/:id/accept", s.AcceptDelivery)
	api.POST("/orders/:id/complete", s.CompleteDelivery)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.GET("/orders/:id/tracking", s.GetOrderTracking)

	api.PUT("/drivers/location", s.UpdateDriverLocation)
	api.GET("/deliveries/available", s.GetAvailableDeliveries)
}

type createOrderRequest struct {
	PharmacyID string  `json:"pharmacy_id"`
	TotalCents int64   `json:"total_cents"`
	Currency   string  `json:"currency"`
	Street     string  `json:"street"`
	City       string  `json:"city"`
	PostalCode string  `json:"postal_code"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	patientID, err := callerID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	var req createOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, errors.New("invalid request body"))
	}

	pharmacyID, err := kernel.UUIDFromString(req.PharmacyID)
	if err != nil {
		return badRequest(ctx, err)
	}

	currency := req.Currency
	if currency == "" {
		currency = kernel.DefaultCurrency
	}
	total, err := kernel.NewMoney(req.TotalCents, currency)
	if err != nil {
		return badRequest(ctx, err)
	}

	point, err := kernel.NewGeoPoint(req.Latitude, req.Longitude)
	if err != nil {
		return badRequest(ctx, err)
	}
	address, err := kernel.NewAddress(req.Street, req.City, req.PostalCode, point)
	if err != nil {
		return badRequest(ctx, err)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, patientID, pharmacyID, total, address)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{
		"order_id": orderID.String(),
		"status":   "pending",
	})
}

type reviewOrderRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

// ReviewOrder handles POST /api/v1/orders/:id/review.
func (s *Server) ReviewOrder(ctx echo.Context) error {
	pharmacistID, orderID, err := callerAndOrder(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	var req reviewOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, errors.New("invalid request body"))
	}

	cmd, err := commands.NewReviewOrderCommand(orderID, pharmacistID, req.Approve, req.Reason)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.reviewOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	status := "validated"
	if !req.Approve {
		status = "rejected"
	}
	return ctx.JSON(http.StatusOK, map[string]string{
		"order_id": orderID.String(),
		"status":   status,
	})
}

type processPaymentRequest struct {
	Method string `json:"method"`
}

// ProcessPayment handles POST /api/v1/orders/:id/payment.
func (s *Server) ProcessPayment(ctx echo.Context) error {
	patientID, orderID, err := callerAndOrder(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	var req processPaymentRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, errors.New("invalid request body"))
	}

	cmd, err := commands.NewProcessPaymentCommand(orderID, patientID, req.Method)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.processPaymentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]string{
		"order_id":       orderID.String(),
		"payment_status": "paid",
	})
}

// ValidatePayment handles POST /api/v1/orders/:id/validate-payment.
func (s *Server) ValidatePayment(ctx echo.Context) error {
	pharmacistID, orderID, err := callerAndOrder(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewValidatePaymentCommand(orderID, pharmacistID)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.validatePaymentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]string{
		"order_id": orderID.String(),
		"status":   "preparing",
	})
}

// MarkOrderReady handles POST /api/v1/orders/:id/ready.
func (s *Server) MarkOrderReady(ctx echo.Context) error {
	pharmacistID, orderID, err := callerAndOrder(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewMarkOrderReadyCommand(orderID, pharmacistID)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.markOrderReadyHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]string{
		"order_id": orderID.String(),
		"status":   "ready",
	})
}

// AcceptDelivery handles POST /api/v1/orders/:id/accept.
func (s *Server) AcceptDelivery(ctx echo.Context) error {
	driverID, orderID, err := callerAndOrder(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewAcceptDeliveryCommand(orderID, driverID)
	if err != nil {
		return badRequest(ctx, err)
	}

	result, err := s.acceptDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"order_id":           result.OrderID,
		"status":             "in_transit",
		"estimated_delivery": result.EstimatedDelivery.Format(time.RFC3339),
	})
}

type completeDeliveryRequest struct {
	Notes string `json:"notes"`
}

// CompleteDelivery handles POST /api/v1/orders/:id/complete.
func (s *Server) CompleteDelivery(ctx echo.Context) error {
	driverID, orderID, err := callerAndOrder(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	var req completeDeliveryRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, errors.New("invalid request body"))
	}

	cmd, err := commands.NewCompleteDeliveryCommand(orderID, driverID, req.Notes)
	if err != nil {
		return badRequest(ctx, err)
	}

	result, err := s.completeDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"order_id":     result.OrderID,
		"status":       "delivered",
		"delivered_at": result.DeliveredAt.Format(time.RFC3339),
	})
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	patientID, orderID, err := callerAndOrder(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, patientID)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]string{
		"order_id": orderID.String(),
		"status":   "cancelled",
	})
}

type updateLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UpdateDriverLocation handles PUT /api/v1/drivers/location.
func (s *Server) UpdateDriverLocation(ctx echo.Context) error {
	driverID, err := callerID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	var req updateLocationRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, errors.New("invalid request body"))
	}

	point, err := kernel.NewGeoPoint(req.Latitude, req.Longitude)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewUpdateDriverLocationCommand(driverID, point)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.updateDriverLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type availableDeliveryResponse struct {
	OrderID    string   `json:"order_id"`
	Status     string   `json:"status"`
	Street     string   `json:"street"`
	City       string   `json:"city"`
	PostalCode string   `json:"postal_code"`
	TotalCents int64    `json:"total_cents"`
	Currency   string   `json:"currency"`
	CreatedAt  string   `json:"created_at"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// GetAvailableDeliveries handles GET /api/v1/deliveries/available.
func (s *Server) GetAvailableDeliveries(ctx echo.Context) error {
	driverID, err := callerID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	query, err := queries.NewGetAvailableDeliveriesQuery(driverID)
	if err != nil {
		return badRequest(ctx, err)
	}

	deliveries, err := s.availableDeliveriesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	response := make([]availableDeliveryResponse, 0, len(deliveries))
	for _, d := range deliveries {
		response = append(response, availableDeliveryResponse{
			OrderID:    d.OrderID.String(),
			Status:     d.Status,
			Street:     d.Street,
			City:       d.City,
			PostalCode: d.PostalCode,
			TotalCents: d.TotalCents,
			Currency:   d.Currency,
			CreatedAt:  d.CreatedAt.Format(time.RFC3339),
			DistanceKm: d.DistanceKm,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

type trackingEntryResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type trackingResponse struct {
	OrderID           string                  `json:"order_id"`
	Status            string                  `json:"status"`
	EstimatedDelivery *string                 `json:"estimated_delivery,omitempty"`
	DeliveredAt       *string                 `json:"delivered_at,omitempty"`
	History           []trackingEntryResponse `json:"history"`
}

// GetOrderTracking handles GET /api/v1/orders/:id/tracking.
func (s *Server) GetOrderTracking(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, err)
	}

	query, err := queries.NewGetOrderTrackingQuery(orderID)
	if err != nil {
		return badRequest(ctx, err)
	}

	tracking, err := s.orderTrackingHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	response := trackingResponse{
		OrderID: tracking.OrderID.String(),
		Status:  tracking.Status,
		History: make([]trackingEntryResponse, 0, len(tracking.History)),
	}
	if tracking.EstimatedDelivery != nil {
		eta := tracking.EstimatedDelivery.Format(time.RFC3339)
		response.EstimatedDelivery = &eta
	}
	if tracking.DeliveredAt != nil {
		deliveredAt := tracking.DeliveredAt.Format(time.RFC3339)
		response.DeliveredAt = &deliveredAt
	}
	for _, entry := range tracking.History {
		response.History = append(response.History, trackingEntryResponse{
			Status:    entry.Status,
			Message:   entry.Message,
			Timestamp: entry.Timestamp.Format(time.RFC3339),
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// callerID extracts the authenticated caller from the X-User-Id header.
func callerID(ctx echo.Context) (kernel.UUID, error) {
	raw := ctx.Request().Header.Get(HeaderUserID)
	if raw == "" {
		return kernel.UUID{}, errors.New("missing " + HeaderUserID + " header")
	}
	return kernel.UUIDFromString(raw)
}

func callerAndOrder(ctx echo.Context) (kernel.UUID, kernel.UUID, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	return caller, orderID, nil
}

func badRequest(ctx echo.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: err.Error(),
	})
}

// domainError maps application errors onto HTTP status codes.
func domainError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired), errors.Is(err, errs.ErrValueIsInvalid):
		status = http.StatusBadRequest
	}

	return ctx.JSON(status, Error{
		Code:    status,
		Message: err.Error(),
	})
}
