package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cargoconnect/marketplace-api/internal/core/ports"
)

type RequestHandler struct {
	requests  ports.RequestService
	estimator ports.RouteEstimator
	logger    zerolog.Logger
}

// NewRequestHandler wires the request lifecycle endpoints. estimator may be
// nil when no geo services are configured.
func NewRequestHandler(requests ports.RequestService, estimator ports.RouteEstimator, logger zerolog.Logger) *RequestHandler {
	return &RequestHandler{requests: requests, estimator: estimator, logger: logger}
}

type createRequestRequest struct {
	Title        string  `json:"title" validate:"required"`
	Description  string  `json:"description,omitempty"`
	Origin       string  `json:"origin" validate:"required"`
	Destination  string  `json:"destination" validate:"required"`
	CargoType    string  `json:"cargo_type,omitempty"`
	OfferedPrice float64 `json:"offered_price" validate:"required,gt=0"`
}

// Create posts a new transport request.
//
// @Summary      Create a transport request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRequestRequest  true  "Request details"
// @Success      201   {object}  domain.TransportRequest
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/requests [post]
func (h *RequestHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.requests.Create(c.Request().Context(), actor, ports.CreateRequestInput{
		Title:        req.Title,
		Description:  req.Description,
		Origin:       req.Origin,
		Destination:  req.Destination,
		CargoType:    req.CargoType,
		OfferedPrice: req.OfferedPrice,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

// List returns requests for browsing, optionally filtered by status.
//
// @Summary      Browse transport requests
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Success      200     {array}   domain.TransportRequest
// @Router       /v1/requests [get]
func (h *RequestHandler) List(c echo.Context) error {
	requests, err := h.requests.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, requests)
}

// ListMine returns the caller's own requests.
//
// @Summary      List my requests
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.TransportRequest
// @Router       /v1/requests/mine [get]
func (h *RequestHandler) ListMine(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	requests, err := h.requests.ListMine(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, requests)
}

// Get returns one request by id.
//
// @Summary      Get a transport request
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Request id"
// @Success      200  {object}  domain.TransportRequest
// @Failure      404  {object}  map[string]string
// @Router       /v1/requests/{id} [get]
func (h *RequestHandler) Get(c echo.Context) error {
	req, err := h.requests.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, req)
}

// Route returns the estimated distance and duration for a request's route.
// Display-only enrichment; 404 when geo services are not configured.
//
// @Summary      Estimate a request's route
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Request id"
// @Success      200  {object}  ports.RouteEstimate
// @Failure      404  {object}  map[string]string
// @Router       /v1/requests/{id}/route [get]
func (h *RequestHandler) Route(c echo.Context) error {
	if h.estimator == nil {
		return echo.NewHTTPError(http.StatusNotFound, "route estimation not available")
	}

	req, err := h.requests.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	est, err := h.estimator.EstimateRoute(c.Request().Context(), req.Origin, req.Destination)
	if err != nil {
		// Enrichment only; degrade to 404 instead of surfacing geo outages.
		h.logger.Warn().Err(err).Str("request_id", req.ID).Msg("route estimation failed")
		return echo.NewHTTPError(http.StatusNotFound, "route could not be estimated")
	}
	return c.JSON(http.StatusOK, est)
}

// MarkInTransit moves an accepted request into transit.
//
// @Summary      Mark a request in transit
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Request id"
// @Success      200  {object}  domain.TransportRequest
// @Failure      403  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/requests/{id}/transit [patch]
func (h *RequestHandler) MarkInTransit(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	req, err := h.requests.MarkInTransit(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, req)
}

// MarkCompleted finishes an in-transit request.
//
// @Summary      Mark a request completed
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Request id"
// @Success      200  {object}  domain.TransportRequest
// @Failure      403  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/requests/{id}/complete [patch]
func (h *RequestHandler) MarkCompleted(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	req, err := h.requests.MarkCompleted(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, req)
}

// Cancel terminalizes an open or negotiating request.
//
// @Summary      Cancel a request
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Request id"
// @Success      200  {object}  domain.TransportRequest
// @Failure      403  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/requests/{id}/cancel [patch]
func (h *RequestHandler) Cancel(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	req, err := h.requests.Cancel(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, req)
}
