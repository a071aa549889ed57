package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lottopool/lottopool/internal/core/domain"
	"github.com/lottopool/lottopool/internal/core/ports"
)

const heartbeatInterval = 25 * time.Second

// PoolFeed hands out live pool change listeners.
type PoolFeed interface {
	Subscribe() (<-chan domain.ChangeEvent[domain.Pool], func())
}

// PoolHandler handles HTTP requests for pool operations.
type PoolHandler struct {
	service ports.PoolService
	feed    PoolFeed
}

func NewPoolHandler(service ports.PoolService, feed PoolFeed) *PoolHandler {
	return &PoolHandler{service: service, feed: feed}
}

type poolParticipantRequest struct {
	ParticipantID string `json:"participantId" validate:"required"`
	Shares        int    `json:"shares"`
}

type ticketRequest struct {
	Numbers      []int `json:"numbers" validate:"required,min=1"`
	ExtraNumbers []int `json:"extraNumbers"`
}

type createPoolRequest struct {
	GroupID         string                   `json:"groupId" validate:"required"`
	Name            string                   `json:"name" validate:"required"`
	Type            string                   `json:"type" validate:"required"`
	DrawNumber      string                   `json:"drawNumber"`
	DrawDate        string                   `json:"drawDate"`
	PaymentDeadline string                   `json:"paymentDeadline"`
	Budget          float64                  `json:"budget" validate:"gte=0"`
	Participants    []poolParticipantRequest `json:"participants" validate:"dive"`
	Tickets         []ticketRequest          `json:"tickets" validate:"dive"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=OPEN CLOSED FINISHED"`
}

type receiptRequest struct {
	ReceiptURL string `json:"receiptUrl" validate:"required,url"`
}

// List handles GET /v1/pools.
//
// @Summary      List pools
// @Description  Remote pools newest first, followed by pools only stored on this device.
// @Tags         pools
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Pool
// @Router       /v1/pools [get]
func (h *PoolHandler) List(c echo.Context) error {
	pools, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pools)
}

// Create handles POST /v1/pools.
//
// @Summary      Open a pool
// @Tags         pools
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPoolRequest  true  "Pool"
// @Success      201   {object}  domain.Pool
// @Failure      422   {object}  errorResponse
// @Router       /v1/pools [post]
func (h *PoolHandler) Create(c echo.Context) error {
	var req createPoolRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := ports.CreatePoolInput{
		GroupID:         req.GroupID,
		Name:            req.Name,
		Type:            domain.LotteryType(req.Type),
		DrawNumber:      req.DrawNumber,
		DrawDate:        req.DrawDate,
		PaymentDeadline: req.PaymentDeadline,
		Budget:          req.Budget,
	}
	for _, p := range req.Participants {
		in.Participants = append(in.Participants, domain.PoolParticipant{ParticipantID: p.ParticipantID, Shares: p.Shares})
	}
	for _, t := range req.Tickets {
		in.Tickets = append(in.Tickets, ports.TicketInput{Numbers: t.Numbers, ExtraNumbers: t.ExtraNumbers})
	}

	pool, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, pool)
}

// Update handles PATCH /v1/pools/:id.
//
// @Summary      Patch a pool
// @Description  Shallow merge of the given fields. Unknown ids are accepted silently while the remote store is down.
// @Tags         pools
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string          true  "Pool id"
// @Param        body  body  map[string]any  true  "Fields to change"
// @Success      204
// @Router       /v1/pools/{id} [patch]
func (h *PoolHandler) Update(c echo.Context) error {
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}
	if err := h.service.Update(c.Request().Context(), c.Param("id"), patch); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetStatus handles PUT /v1/pools/:id/status.
//
// @Summary      Change pool status
// @Tags         pools
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string         true  "Pool id"
// @Param        body  body  statusRequest  true  "New status"
// @Success      204
// @Failure      422  {object}  errorResponse
// @Router       /v1/pools/{id}/status [put]
func (h *PoolHandler) SetStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.service.SetStatus(c.Request().Context(), c.Param("id"), domain.PoolStatus(req.Status)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// TogglePayment handles POST /v1/pools/:id/participants/:participantId/payment.
//
// @Summary      Toggle a participant's payment
// @Tags         pools
// @Produce      json
// @Security     BearerAuth
// @Param        id             path      string  true  "Pool id"
// @Param        participantId  path      string  true  "Participant id"
// @Success      200            {object}  domain.Pool
// @Failure      404            {object}  errorResponse
// @Router       /v1/pools/{id}/participants/{participantId}/payment [post]
func (h *PoolHandler) TogglePayment(c echo.Context) error {
	pool, err := h.service.TogglePayment(c.Request().Context(), c.Param("id"), c.Param("participantId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pool)
}

// AttachReceipt handles POST /v1/pools/:id/tickets/:ticketId/receipt.
//
// @Summary      Attach a ticket receipt
// @Tags         pools
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      string          true  "Pool id"
// @Param        ticketId  path      string          true  "Ticket id"
// @Param        body      body      receiptRequest  true  "Receipt"
// @Success      200       {object}  domain.Pool
// @Failure      404       {object}  errorResponse
// @Router       /v1/pools/{id}/tickets/{ticketId}/receipt [post]
func (h *PoolHandler) AttachReceipt(c echo.Context) error {
	var req receiptRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	pool, err := h.service.AttachReceipt(c.Request().Context(), c.Param("id"), c.Param("ticketId"), req.ReceiptURL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pool)
}

// Summary handles GET /v1/pools/:id/summary.
//
// @Summary      Cost and prize split of a pool
// @Tags         pools
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Pool id"
// @Success      200  {object}  domain.PoolSummary
// @Failure      404  {object}  errorResponse
// @Router       /v1/pools/{id}/summary [get]
func (h *PoolHandler) Summary(c echo.Context) error {
	summary, err := h.service.Summary(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// MyPools handles GET /v1/me/pools.
//
// @Summary      Pools the caller takes part in
// @Tags         pools
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "OPEN, CLOSED or FINISHED"
// @Success      200     {array}   domain.Pool
// @Router       /v1/me/pools [get]
func (h *PoolHandler) MyPools(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	status := domain.PoolStatus(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return domain.NewValidationError("status", "status must be one of: OPEN CLOSED FINISHED")
	}
	pools, err := h.service.ListForParticipant(c.Request().Context(), userID, status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pools)
}

// Events handles GET /v1/pools/events as a server-sent event stream of pool
// changes. The stream stays silent when the backend has no change feed.
//
// @Summary      Pool change feed
// @Tags         pools
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200
// @Router       /v1/pools/events [get]
func (h *PoolHandler) Events(c echo.Context) error {
	events, stop := h.feed.Subscribe()
	defer stop()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := fmt.Fprint(res, ": ping\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", ev.Action, data); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}

// bindPatch reads a JSON object body as a patch. Empty patches are rejected.
func bindPatch(c echo.Context) (domain.Patch, error) {
	var patch domain.Patch
	if err := json.NewDecoder(c.Request().Body).Decode(&patch); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(patch) == 0 {
		return nil, domain.NewValidationError("", "patch must change at least one field")
	}
	return patch, nil
}
