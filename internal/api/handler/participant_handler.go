package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lottopool/lottopool/internal/core/domain"
	"github.com/lottopool/lottopool/internal/core/ports"
)

type ParticipantHandler struct {
	service ports.ParticipantService
}

func NewParticipantHandler(service ports.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{service: service}
}

type createParticipantRequest struct {
	Name   string `json:"name" validate:"required"`
	Phone  string `json:"phone"`
	Email  string `json:"email" validate:"omitempty,email"`
	CPF    string `json:"cpf"`
	PixKey string `json:"pixKey"`
}

// List handles GET /v1/participants.
//
// @Summary      List participants
// @Tags         participants
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Participant
// @Router       /v1/participants [get]
func (h *ParticipantHandler) List(c echo.Context) error {
	list, err := h.service.GetList(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Create handles POST /v1/participants.
//
// @Summary      Register a participant
// @Tags         participants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createParticipantRequest  true  "Participant"
// @Success      201   {object}  domain.Participant
// @Router       /v1/participants [post]
func (h *ParticipantHandler) Create(c echo.Context) error {
	var req createParticipantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	p, err := h.service.Create(c.Request().Context(), domain.Participant{
		Name:   req.Name,
		Phone:  req.Phone,
		Email:  req.Email,
		CPF:    req.CPF,
		PixKey: req.PixKey,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// Update handles PATCH /v1/participants/:id.
//
// @Summary      Patch a participant
// @Tags         participants
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string          true  "Participant id"
// @Param        body  body  map[string]any  true  "Fields to change"
// @Success      204
// @Router       /v1/participants/{id} [patch]
func (h *ParticipantHandler) Update(c echo.Context) error {
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	if err := h.service.Update(c.Request().Context(), c.Param("id"), patch); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
