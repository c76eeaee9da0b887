package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
	"github.com/cargoconnect/marketplace-api/internal/core/ports"
)

type OfferHandler struct {
	offers ports.OfferService
}

func NewOfferHandler(offers ports.OfferService) *OfferHandler {
	return &OfferHandler{offers: offers}
}

type submitOfferRequest struct {
	RequestID string  `json:"request_id" validate:"required"`
	Price     float64 `json:"price" validate:"required,gt=0"`
	Message   string  `json:"message,omitempty"`
	Kind      string  `json:"kind,omitempty" validate:"omitempty,oneof=offer counteroffer"`
}

type acceptOfferResponse struct {
	Offer         *domain.Offer        `json:"offer"`
	RejectedIDs   []string             `json:"rejected_offer_ids"`
	RequestStatus domain.RequestStatus `json:"request_status"`
}

// Submit posts an offer or counteroffer against an open or negotiating
// request.
//
// @Summary      Submit an offer
// @Tags         offers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitOfferRequest  true  "Offer details"
// @Success      201   {object}  domain.Offer
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/offers [post]
func (h *OfferHandler) Submit(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req submitOfferRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	kind := domain.OfferKind(req.Kind)
	if kind == "" {
		kind = domain.OfferKindInitial
	}

	offer, err := h.offers.Submit(c.Request().Context(), actor, ports.SubmitOfferInput{
		RequestID: req.RequestID,
		Price:     req.Price,
		Message:   req.Message,
		Kind:      kind,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, offer)
}

// Accept atomically accepts one offer, rejecting every other pending offer
// on the same request.
//
// @Summary      Accept an offer
// @Tags         offers
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Offer id"
// @Success      200  {object}  acceptOfferResponse
// @Failure      403  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /v1/offers/{id}/accept [post]
func (h *OfferHandler) Accept(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	result, err := h.offers.Accept(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, acceptOfferResponse{
		Offer:         result.Offer,
		RejectedIDs:   result.RejectedIDs,
		RequestStatus: result.RequestStatus,
	})
}

// Reject declines one pending offer.
//
// @Summary      Reject an offer
// @Tags         offers
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Offer id"
// @Success      200  {object}  domain.Offer
// @Failure      403  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /v1/offers/{id}/reject [post]
func (h *OfferHandler) Reject(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	offer, err := h.offers.Reject(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, offer)
}

// ListByRequest returns every offer on a request.
//
// @Summary      List offers on a request
// @Tags         offers
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Request id"
// @Success      200  {array}  domain.Offer
// @Router       /v1/requests/{id}/offers [get]
func (h *OfferHandler) ListByRequest(c echo.Context) error {
	offers, err := h.offers.ListByRequest(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, offers)
}

// ListMine returns the caller's own offers.
//
// @Summary      List my offers
// @Tags         offers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Offer
// @Router       /v1/offers/mine [get]
func (h *OfferHandler) ListMine(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	offers, err := h.offers.ListMine(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, offers)
}
