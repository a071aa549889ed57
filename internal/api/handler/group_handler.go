package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lottopool/lottopool/internal/core/domain"
	"github.com/lottopool/lottopool/internal/core/ports"
)

type GroupHandler struct {
	service ports.GroupService
}

func NewGroupHandler(service ports.GroupService) *GroupHandler {
	return &GroupHandler{service: service}
}

type createGroupRequest struct {
	Name        string  `json:"name" validate:"required"`
	Balance     float64 `json:"balance"`
	PixKey      string  `json:"pixKey"`
	NotifActive bool    `json:"notifActive"`
}

type addMemberRequest struct {
	ParticipantID string `json:"participantId" validate:"required"`
	LuckyNumber   int    `json:"luckyNumber" validate:"gte=0,lte=60"`
}

// List handles GET /v1/groups.
//
// @Summary      List groups
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.PoolGroup
// @Router       /v1/groups [get]
func (h *GroupHandler) List(c echo.Context) error {
	groups, err := h.service.GetList(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, groups)
}

// Get handles GET /v1/groups/:id.
//
// @Summary      Get a group
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Group id, with or without its local prefix"
// @Success      200  {object}  domain.PoolGroup
// @Failure      404  {object}  errorResponse
// @Router       /v1/groups/{id} [get]
func (h *GroupHandler) Get(c echo.Context) error {
	group, err := h.service.GetOne(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, group)
}

// Create handles POST /v1/groups. The caller becomes the owner.
//
// @Summary      Create a group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createGroupRequest  true  "Group"
// @Success      201   {object}  domain.PoolGroup
// @Router       /v1/groups [post]
func (h *GroupHandler) Create(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req createGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	group, err := h.service.Create(c.Request().Context(), domain.PoolGroup{
		Name:         req.Name,
		Balance:      req.Balance,
		PixKey:       req.PixKey,
		NotifActive:  req.NotifActive,
		Participants: []domain.Membership{},
		OwnerID:      userID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, group)
}

// Update handles PATCH /v1/groups/:id.
//
// @Summary      Patch a group
// @Tags         groups
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string          true  "Group id"
// @Param        body  body  map[string]any  true  "Fields to change"
// @Success      204
// @Router       /v1/groups/{id} [patch]
func (h *GroupHandler) Update(c echo.Context) error {
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	if err := h.service.Update(c.Request().Context(), c.Param("id"), patch); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddParticipant handles POST /v1/groups/:id/participants.
//
// @Summary      Add a participant to a group
// @Description  Idempotent: a participant already in the group is left as is.
// @Tags         groups
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string            true  "Group id"
// @Param        body  body  addMemberRequest  true  "Member"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/groups/{id}/participants [post]
func (h *GroupHandler) AddParticipant(c echo.Context) error {
	var req addMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.service.AddParticipant(c.Request().Context(), c.Param("id"), req.ParticipantID, req.LuckyNumber); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
