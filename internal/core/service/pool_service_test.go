package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lottopool/lottopool/internal/core/domain"
	"github.com/lottopool/lottopool/internal/core/ports"
)

func applyPoolPatch(p domain.Pool, patch domain.Patch) domain.Pool {
	for k, v := range patch {
		switch k {
		case "participants":
			p.Participants = v.([]domain.PoolParticipant)
		case "tickets":
			p.Tickets = v.([]domain.Ticket)
		case "status":
			p.Status = v.(domain.PoolStatus)
		}
	}
	return p
}

func newPoolSvc(pools ...domain.Pool) (*PoolService, *stubRemote[domain.Pool]) {
	remote := newStubRemote(pools...)
	remote.apply = applyPoolPatch
	_, local := newLocal()
	svc := NewPoolService(NewPoolCollection(remote, local, testNamespace, nopLog()), nopLog())
	svc.now = func() time.Time { return fixedNow }
	return svc, remote
}

func TestPoolService_Create_PricesAndNormalizes(t *testing.T) {
	svc, _ := newPoolSvc()

	pool, err := svc.Create(context.Background(), ports.CreatePoolInput{
		GroupID: "g1",
		Name:    "Mega da Virada",
		Type:    domain.MegaSena,
		Participants: []domain.PoolParticipant{
			{ParticipantID: "a", Shares: 2},
			{ParticipantID: "b", Shares: 0},
			{ParticipantID: "a", Shares: 5},
		},
		Tickets: []ports.TicketInput{
			{Numbers: []int{60, 1, 2, 3, 4, 5}},
			{Numbers: []int{1, 2, 3, 4, 5, 6, 7}},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if pool.Status != domain.PoolOpen {
		t.Errorf("status = %s, want OPEN", pool.Status)
	}
	if pool.DrawDate != fixedNow.Format("2006-01-02") {
		t.Errorf("drawDate = %q", pool.DrawDate)
	}
	if len(pool.Participants) != 2 || pool.Participants[1].Shares != 1 {
		t.Fatalf("expected deduplicated participants with shares clamped, got %+v", pool.Participants)
	}
	if len(pool.Tickets) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(pool.Tickets))
	}
	first := pool.Tickets[0]
	if first.Numbers[0] != 1 || first.Numbers[5] != 60 {
		t.Errorf("numbers not sorted: %v", first.Numbers)
	}
	if first.ID == "" || first.Status != domain.TicketPending {
		t.Errorf("ticket not initialised: %+v", first)
	}
	cfg, _ := domain.LotteryConfigFor(domain.MegaSena)
	p6, _ := cfg.Price(6)
	p7, _ := cfg.Price(7)
	if pool.BudgetUsed != p6+p7 {
		t.Errorf("budgetUsed = %v, want %v", pool.BudgetUsed, p6+p7)
	}
}

func TestPoolService_Create_Rejects(t *testing.T) {
	svc, _ := newPoolSvc()
	ctx := context.Background()

	cases := map[string]ports.CreatePoolInput{
		"unknown type": {GroupID: "g", Type: "BINGO"},
		"no group":     {Type: domain.Quina},
		"bad ticket":   {GroupID: "g", Type: domain.Quina, Tickets: []ports.TicketInput{{Numbers: []int{1, 2, 3}}}},
		"out of range": {GroupID: "g", Type: domain.Quina, Tickets: []ports.TicketInput{{Numbers: []int{1, 2, 3, 4, 81}}}},
	}
	for name, in := range cases {
		if _, err := svc.Create(ctx, in); !domain.IsValidation(err) {
			t.Errorf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestPoolService_TogglePayment(t *testing.T) {
	svc, remote := newPoolSvc(domain.Pool{
		ID:           "p1",
		Participants: []domain.PoolParticipant{{ParticipantID: "a", Shares: 1}, {ParticipantID: "b", Shares: 1}},
	})
	ctx := context.Background()

	pool, err := svc.TogglePayment(ctx, "p1", "a")
	if err != nil {
		t.Fatalf("TogglePayment: %v", err)
	}
	if !pool.Participants[0].Paid || pool.Participants[0].PaymentDate == nil {
		t.Fatalf("expected a paid with date, got %+v", pool.Participants[0])
	}
	if pool.Participants[1].Paid {
		t.Fatal("b must be untouched")
	}
	if len(remote.patchesFor("p1")) != 1 {
		t.Fatal("expected one remote write")
	}

	pool, err = svc.TogglePayment(ctx, "p1", "a")
	if err != nil {
		t.Fatalf("second TogglePayment: %v", err)
	}
	if pool.Participants[0].Paid || pool.Participants[0].PaymentDate != nil {
		t.Fatalf("expected a unpaid without date, got %+v", pool.Participants[0])
	}

	if _, err := svc.TogglePayment(ctx, "p1", "zzz"); !errors.Is(err, domain.ErrParticipantMissing) {
		t.Fatalf("expected ErrParticipantMissing, got %v", err)
	}
	if _, err := svc.TogglePayment(ctx, "nope", "a"); !errors.Is(err, domain.ErrPoolNotFound) {
		t.Fatalf("expected ErrPoolNotFound, got %v", err)
	}
}

func TestPoolService_AttachReceipt(t *testing.T) {
	svc, _ := newPoolSvc(domain.Pool{
		ID:      "p1",
		Tickets: []domain.Ticket{{ID: "t1", Status: domain.TicketPending}},
	})
	ctx := context.Background()

	pool, err := svc.AttachReceipt(ctx, "p1", "t1", "https://example.com/r.png")
	if err != nil {
		t.Fatalf("AttachReceipt: %v", err)
	}
	if pool.Tickets[0].Status != domain.TicketRegistered || pool.Tickets[0].ReceiptURL == "" {
		t.Fatalf("ticket not registered: %+v", pool.Tickets[0])
	}

	if _, err := svc.AttachReceipt(ctx, "p1", "t9", "x"); !errors.Is(err, domain.ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestPoolService_SetStatus(t *testing.T) {
	svc, remote := newPoolSvc(domain.Pool{ID: "p1", Status: domain.PoolClosed})
	ctx := context.Background()

	if err := svc.SetStatus(ctx, "p1", "DRAWN"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	// Backward moves are allowed.
	if err := svc.SetStatus(ctx, "p1", domain.PoolOpen); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if got := remote.patchesFor("p1"); len(got) != 1 || got[0]["status"] != domain.PoolOpen {
		t.Fatalf("unexpected patches %+v", got)
	}
}

func TestPoolService_SummaryAndMyPools(t *testing.T) {
	svc, _ := newPoolSvc(
		domain.Pool{
			ID:     "p1",
			Status: domain.PoolOpen,
			Participants: []domain.PoolParticipant{
				{ParticipantID: "a", Shares: 2, Paid: true},
				{ParticipantID: "b", Shares: 3},
			},
			Tickets: []domain.Ticket{{ID: "t1", Cost: 25}},
		},
		domain.Pool{ID: "p2", Status: domain.PoolFinished, Participants: []domain.PoolParticipant{{ParticipantID: "a", Shares: 1}}},
		domain.Pool{ID: "p3", Status: domain.PoolOpen, Participants: []domain.PoolParticipant{{ParticipantID: "c", Shares: 1}}},
	)
	ctx := context.Background()

	sum, err := svc.Summary(ctx, "p1")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.TotalCost != 25 || sum.Collected != 10 || sum.Pending != 15 {
		t.Fatalf("unexpected summary %+v", sum)
	}

	mine, err := svc.ListForParticipant(ctx, "a", "")
	if err != nil || len(mine) != 2 {
		t.Fatalf("expected 2 pools for a, got %d (%v)", len(mine), err)
	}
	open, _ := svc.ListForParticipant(ctx, "a", domain.PoolOpen)
	if len(open) != 1 || open[0].ID != "p1" {
		t.Fatalf("expected only p1 open, got %+v", open)
	}
}
