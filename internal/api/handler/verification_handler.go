package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
	"github.com/cargoconnect/marketplace-api/internal/core/ports"
)

type VerificationHandler struct {
	verification ports.VerificationService
}

func NewVerificationHandler(verification ports.VerificationService) *VerificationHandler {
	return &VerificationHandler{verification: verification}
}

type submitIdentityRequest struct {
	DocumentType   string `json:"document_type" validate:"required,oneof=dni nie passport"`
	DocumentNumber string `json:"document_number" validate:"required"`
	DocumentImage  string `json:"document_image" validate:"required"`
	SelfieImage    string `json:"selfie_image,omitempty"`
}

type submitVehicleRequest struct {
	VehicleType string   `json:"vehicle_type" validate:"required"`
	Brand       string   `json:"brand" validate:"required"`
	Model       string   `json:"model" validate:"required"`
	Plate       string   `json:"plate" validate:"required"`
	Photos      []string `json:"photos" validate:"required,min=1,dive,required"`
}

type adjudicateRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	Notes    string `json:"notes,omitempty"`
}

// SubmitIdentity files a new identity verification. Any previous identity
// submission by the same user is superseded.
//
// @Summary      Submit identity verification
// @Tags         verification
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitIdentityRequest  true  "Identity documents"
// @Success      201   {object}  domain.VerificationRecord
// @Failure      400   {object}  map[string]string
// @Router       /v1/verification/identity [post]
func (h *VerificationHandler) SubmitIdentity(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req submitIdentityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record, err := h.verification.SubmitIdentity(c.Request().Context(), actor, ports.SubmitIdentityInput{
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
		DocumentImage:  req.DocumentImage,
		SelfieImage:    req.SelfieImage,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, record)
}

// SubmitVehicle files a vehicle verification. Transporters only.
//
// @Summary      Submit vehicle verification
// @Tags         verification
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitVehicleRequest  true  "Vehicle details"
// @Success      201   {object}  domain.VerificationRecord
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/verification/vehicle [post]
func (h *VerificationHandler) SubmitVehicle(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req submitVehicleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record, err := h.verification.SubmitVehicle(c.Request().Context(), actor, ports.SubmitVehicleInput{
		VehicleType: req.VehicleType,
		Brand:       req.Brand,
		Model:       req.Model,
		Plate:       req.Plate,
		Photos:      req.Photos,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, record)
}

// MyStatus returns the caller's verification state: current identity record
// and all vehicle records.
//
// @Summary      My verification status
// @Tags         verification
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.VerificationStatusView
// @Router       /v1/verification/status [get]
func (h *VerificationHandler) MyStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	view, err := h.verification.MyStatus(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// ListAll returns verification records for review, filterable by status
// and kind. Admin only.
//
// @Summary      List verification records
// @Tags         verification
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        kind    query     string  false  "Filter by kind"
// @Success      200     {array}   domain.VerificationRecord
// @Failure      403     {object}  map[string]string
// @Router       /v1/admin/verifications [get]
func (h *VerificationHandler) ListAll(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	records, err := h.verification.ListAll(c.Request().Context(), actor, c.QueryParam("status"), c.QueryParam("kind"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}

// Adjudicate decides one pending record. Admin only.
//
// @Summary      Adjudicate a verification record
// @Tags         verification
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Record id"
// @Param        body  body      adjudicateRequest  true  "Decision"
// @Success      200   {object}  domain.VerificationRecord
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/admin/verifications/{id} [patch]
func (h *VerificationHandler) Adjudicate(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req adjudicateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record, err := h.verification.Adjudicate(c.Request().Context(), actor, c.Param("id"), domain.VerificationStatus(req.Decision), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, record)
}
