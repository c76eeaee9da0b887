package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cargoconnect/marketplace-api/internal/core/ports"
)

type PaymentHandler struct {
	payments      ports.PaymentService
	defaultOrigin string
}

// NewPaymentHandler wires the checkout endpoints. defaultOrigin is the
// frontend base URL used for redirect links when the request carries no
// Origin header.
func NewPaymentHandler(payments ports.PaymentService, defaultOrigin string) *PaymentHandler {
	return &PaymentHandler{payments: payments, defaultOrigin: defaultOrigin}
}

type commissionRequest struct {
	RequestID string `json:"request_id" validate:"required"`
}

// StartSubscription opens a checkout session for the transporter
// subscription plan.
//
// @Summary      Start a subscription checkout
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  ports.CheckoutSession
// @Failure      403  {object}  map[string]string
// @Router       /v1/payments/subscription [post]
func (h *PaymentHandler) StartSubscription(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	session, err := h.payments.StartSubscription(c.Request().Context(), actor, h.originURL(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, session)
}

// StartCommission opens a checkout session for the commission on a
// completed request.
//
// @Summary      Start a commission checkout
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      commissionRequest  true  "Target request"
// @Success      201   {object}  ports.CheckoutSession
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/payments/commission [post]
func (h *PaymentHandler) StartCommission(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req commissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	session, err := h.payments.StartCommission(c.Request().Context(), actor, req.RequestID, h.originURL(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, session)
}

// PollStatus refreshes and returns the state of one checkout session.
//
// @Summary      Poll a checkout session
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Session id"
// @Success      200  {object}  domain.PaymentTransaction
// @Failure      404  {object}  map[string]string
// @Router       /v1/payments/sessions/{id} [get]
func (h *PaymentHandler) PollStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	tx, err := h.payments.PollStatus(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tx)
}

// originURL prefers the Origin header so checkout redirects return to the
// caller's frontend.
func (h *PaymentHandler) originURL(c echo.Context) string {
	if origin := c.Request().Header.Get("Origin"); origin != "" {
		return origin
	}
	return h.defaultOrigin
}
