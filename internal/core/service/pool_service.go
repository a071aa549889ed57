package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lottopool/lottopool/internal/core/domain"
	"github.com/lottopool/lottopool/internal/core/ports"
)

// PoolService holds the pool use cases on top of the reconciled collection.
type PoolService struct {
	pools *Collection[domain.Pool]
	log   zerolog.Logger
	now   func() time.Time
}

func NewPoolService(pools *Collection[domain.Pool], log zerolog.Logger) *PoolService {
	return &PoolService{pools: pools, log: log, now: time.Now}
}

func (s *PoolService) List(ctx context.Context) ([]domain.Pool, error) {
	return s.pools.GetList(ctx)
}

func (s *PoolService) Update(ctx context.Context, id string, patch domain.Patch) error {
	return s.pools.Update(ctx, id, patch)
}

func (s *PoolService) Subscribe(ctx context.Context, fn func(domain.ChangeEvent[domain.Pool])) {
	s.pools.Subscribe(ctx, fn)
}

// Create opens a pool. Tickets are validated against the lottery rules and
// priced; exceeding the budget is only reported in the logs.
func (s *PoolService) Create(ctx context.Context, in ports.CreatePoolInput) (domain.Pool, error) {
	cfg, ok := domain.LotteryConfigFor(in.Type)
	if !ok {
		return domain.Pool{}, domain.NewValidationError("type", fmt.Sprintf("unknown lottery type %q", in.Type))
	}
	if in.GroupID == "" {
		return domain.Pool{}, domain.NewValidationError("groupId", "a pool belongs to a group")
	}

	tickets := make([]domain.Ticket, 0, len(in.Tickets))
	for i, t := range in.Tickets {
		if err := cfg.ValidateTicket(t.Numbers, t.ExtraNumbers); err != nil {
			return domain.Pool{}, fmt.Errorf("ticket %d: %w", i, err)
		}
		cost, err := cfg.Price(len(t.Numbers))
		if err != nil {
			return domain.Pool{}, fmt.Errorf("ticket %d: %w", i, err)
		}
		tickets = append(tickets, domain.Ticket{
			ID:           uuid.New().String(),
			Numbers:      domain.SortedPicks(t.Numbers),
			ExtraNumbers: domain.SortedPicks(t.ExtraNumbers),
			Cost:         cost,
			Status:       domain.TicketPending,
		})
	}

	participants := make([]domain.PoolParticipant, 0, len(in.Participants))
	seen := make(map[string]bool, len(in.Participants))
	for _, p := range in.Participants {
		if p.ParticipantID == "" || seen[p.ParticipantID] {
			continue
		}
		seen[p.ParticipantID] = true
		if p.Shares < 1 {
			p.Shares = 1
		}
		participants = append(participants, p)
	}

	drawDate := in.DrawDate
	if drawDate == "" {
		drawDate = s.now().Format("2006-01-02")
	}

	pool := domain.Pool{
		GroupID:         in.GroupID,
		Name:            in.Name,
		Type:            in.Type,
		DrawNumber:      in.DrawNumber,
		DrawDate:        drawDate,
		PaymentDeadline: in.PaymentDeadline,
		Participants:    participants,
		Tickets:         tickets,
		Status:          domain.PoolOpen,
	}
	pool.BudgetUsed = pool.TotalCost()

	if in.Budget > 0 && pool.BudgetUsed > in.Budget {
		s.log.Warn().
			Float64("budget", in.Budget).
			Float64("ticket_cost", pool.BudgetUsed).
			Str("pool", in.Name).
			Msg("ticket cost exceeds pool budget")
	}

	created, err := s.pools.Create(ctx, pool)
	if err != nil {
		return domain.Pool{}, err
	}
	s.log.Info().Str("pool_id", created.ID).Str("type", string(created.Type)).Int("tickets", len(created.Tickets)).Msg("pool created")
	return created, nil
}

// SetStatus overwrites the pool status. Backward moves are logged, not refused.
func (s *PoolService) SetStatus(ctx context.Context, id string, status domain.PoolStatus) error {
	if !status.Valid() {
		return domain.NewValidationError("status", fmt.Sprintf("unknown pool status %q", status))
	}
	if pool, err := s.find(ctx, id); err == nil && !pool.Status.Advances(status) {
		s.log.Warn().Str("pool_id", id).Str("from", string(pool.Status)).Str("to", string(status)).Msg("non-forward pool status change")
	}
	return s.pools.Update(ctx, id, domain.Patch{"status": status})
}

// TogglePayment flips a participant's paid flag, stamping or clearing the payment date.
func (s *PoolService) TogglePayment(ctx context.Context, poolID, participantID string) (domain.Pool, error) {
	pool, err := s.find(ctx, poolID)
	if err != nil {
		return domain.Pool{}, err
	}

	found := false
	updated := make([]domain.PoolParticipant, len(pool.Participants))
	for i, p := range pool.Participants {
		if p.ParticipantID == participantID {
			found = true
			p.Paid = !p.Paid
			p.PaymentDate = nil
			if p.Paid {
				ts := s.now().UTC()
				p.PaymentDate = &ts
			}
		}
		updated[i] = p
	}
	if !found {
		return domain.Pool{}, fmt.Errorf("toggle payment: %w", domain.ErrParticipantMissing)
	}

	if err := s.pools.Update(ctx, poolID, domain.Patch{"participants": updated}); err != nil {
		return domain.Pool{}, err
	}
	pool.Participants = updated
	return pool, nil
}

// AttachReceipt links a receipt to a ticket and marks it REGISTERED.
func (s *PoolService) AttachReceipt(ctx context.Context, poolID, ticketID, receiptURL string) (domain.Pool, error) {
	pool, err := s.find(ctx, poolID)
	if err != nil {
		return domain.Pool{}, err
	}

	found := false
	tickets := make([]domain.Ticket, len(pool.Tickets))
	for i, t := range pool.Tickets {
		if t.ID == ticketID {
			found = true
			t.ReceiptURL = receiptURL
			t.Status = domain.TicketRegistered
		}
		tickets[i] = t
	}
	if !found {
		return domain.Pool{}, fmt.Errorf("attach receipt: %w", domain.ErrTicketNotFound)
	}

	if err := s.pools.Update(ctx, poolID, domain.Patch{"tickets": tickets}); err != nil {
		return domain.Pool{}, err
	}
	pool.Tickets = tickets
	return pool, nil
}

// Summary returns the cost and prize split of a pool.
func (s *PoolService) Summary(ctx context.Context, poolID string) (domain.PoolSummary, error) {
	pool, err := s.find(ctx, poolID)
	if err != nil {
		return domain.PoolSummary{}, err
	}
	return pool.Summarize(), nil
}

// ListForParticipant returns the pools participantID holds shares in, optionally
// restricted to one status.
func (s *PoolService) ListForParticipant(ctx context.Context, participantID string, status domain.PoolStatus) ([]domain.Pool, error) {
	all, err := s.pools.GetList(ctx)
	if err != nil {
		return nil, err
	}
	mine := make([]domain.Pool, 0)
	for _, p := range all {
		if !p.HasParticipant(participantID) {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		mine = append(mine, p)
	}
	return mine, nil
}

func (s *PoolService) find(ctx context.Context, id string) (domain.Pool, error) {
	pools, err := s.pools.GetList(ctx)
	if err != nil {
		return domain.Pool{}, err
	}
	for _, p := range pools {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Pool{}, fmt.Errorf("pool %q: %w", id, domain.ErrPoolNotFound)
}
