package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cargoconnect/marketplace-api/internal/core/ports"
)

type RatingHandler struct {
	ratings ports.RatingService
}

func NewRatingHandler(ratings ports.RatingService) *RatingHandler {
	return &RatingHandler{ratings: ratings}
}

type submitRatingRequest struct {
	RequestID string `json:"request_id" validate:"required"`
	ToUserID  string `json:"to_user_id" validate:"required"`
	Score     int    `json:"score" validate:"required,min=1,max=5"`
	Comment   string `json:"comment,omitempty" validate:"max=1000"`
}

// Submit posts a rating for the counterparty of a completed request.
//
// @Summary      Submit a rating
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitRatingRequest  true  "Rating"
// @Success      201   {object}  domain.Rating
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/ratings [post]
func (h *RatingHandler) Submit(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req submitRatingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rating, err := h.ratings.Submit(c.Request().Context(), actor, ports.SubmitRatingInput{
		RequestID: req.RequestID,
		ToUserID:  req.ToUserID,
		Score:     req.Score,
		Comment:   req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rating)
}

// ListForUser returns the ratings received by a user.
//
// @Summary      List a user's ratings
// @Tags         ratings
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "User id"
// @Success      200  {array}  domain.Rating
// @Router       /v1/users/{id}/ratings [get]
func (h *RatingHandler) ListForUser(c echo.Context) error {
	ratings, err := h.ratings.ListForUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ratings)
}
