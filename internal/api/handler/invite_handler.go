package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lottopool/lottopool/internal/core/domain"
	"github.com/lottopool/lottopool/internal/core/ports"
)

// InviteHandler serves the public invite flow. None of its routes need a token.
type InviteHandler struct {
	service ports.InviteService
}

func NewInviteHandler(service ports.InviteService) *InviteHandler {
	return &InviteHandler{service: service}
}

type resolveResponse struct {
	GroupID string `json:"groupId"`
}

type inviteResultResponse struct {
	Token       string             `json:"token"`
	User        domain.User        `json:"user"`
	Participant domain.Participant `json:"participant"`
}

// Resolve handles GET /v1/invites/resolve?link=.
//
// @Summary      Extract the group id of an invite link
// @Tags         invites
// @Produce      json
// @Param        link  query     string  true  "Full invite URL"
// @Success      200   {object}  resolveResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/invites/resolve [get]
func (h *InviteHandler) Resolve(c echo.Context) error {
	groupID, ok := domain.ParseInviteLink(c.QueryParam("link"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no invite in link")
	}
	return c.JSON(http.StatusOK, resolveResponse{GroupID: groupID})
}

// Start handles GET /v1/invites/:groupId.
//
// @Summary      Start or resume an invite
// @Tags         invites
// @Produce      json
// @Param        groupId  path      string  true  "Group id"
// @Success      200      {object}  ports.InviteSession
// @Failure      404      {object}  errorResponse
// @Router       /v1/invites/{groupId} [get]
func (h *InviteHandler) Start(c echo.Context) error {
	session, err := h.service.Start(c.Request().Context(), c.Param("groupId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session)
}

// SaveFields handles PUT /v1/invites/:groupId/fields.
//
// @Summary      Save invite form fields
// @Tags         invites
// @Accept       json
// @Produce      json
// @Param        groupId  path      string               true  "Group id"
// @Param        body     body      domain.InviteFields  true  "Field values"
// @Success      200      {object}  domain.InviteDraft
// @Router       /v1/invites/{groupId}/fields [put]
func (h *InviteHandler) SaveFields(c echo.Context) error {
	var fields domain.InviteFields
	if err := c.Bind(&fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	draft, err := h.service.SaveFields(c.Request().Context(), c.Param("groupId"), fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, draft)
}

// Next handles POST /v1/invites/:groupId/next.
//
// @Summary      Validate the current step and advance
// @Tags         invites
// @Produce      json
// @Param        groupId  path      string  true  "Group id"
// @Success      200      {object}  domain.InviteDraft
// @Failure      422      {object}  errorResponse
// @Router       /v1/invites/{groupId}/next [post]
func (h *InviteHandler) Next(c echo.Context) error {
	draft, err := h.service.Next(c.Request().Context(), c.Param("groupId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, draft)
}

// Back handles POST /v1/invites/:groupId/back.
//
// @Summary      Go back one step
// @Tags         invites
// @Produce      json
// @Param        groupId  path      string  true  "Group id"
// @Success      200      {object}  domain.InviteDraft
// @Router       /v1/invites/{groupId}/back [post]
func (h *InviteHandler) Back(c echo.Context) error {
	draft, err := h.service.Back(c.Request().Context(), c.Param("groupId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, draft)
}

// Submit handles POST /v1/invites/:groupId/submit.
//
// @Summary      Complete the invite
// @Tags         invites
// @Produce      json
// @Param        groupId  path      string  true  "Group id"
// @Success      201      {object}  inviteResultResponse
// @Failure      422      {object}  errorResponse
// @Router       /v1/invites/{groupId}/submit [post]
func (h *InviteHandler) Submit(c echo.Context) error {
	res, err := h.service.Submit(c.Request().Context(), c.Param("groupId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, inviteResultResponse{
		Token:       res.Token,
		User:        res.User,
		Participant: res.Participant,
	})
}
