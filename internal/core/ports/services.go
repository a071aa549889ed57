package ports

import (
	"context"

	"github.com/lottopool/lottopool/internal/core/domain"
)

// Repository is the uniform CRUD contract over a reconciled collection.
type Repository[T any] interface {
	GetList(ctx context.Context) ([]T, error)
	Create(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, id string, patch domain.Patch) error
}

// ParticipantService manages participants.
type ParticipantService interface {
	Repository[domain.Participant]
}

// GroupService manages groups and their membership.
type GroupService interface {
	Repository[domain.PoolGroup]
	GetOne(ctx context.Context, id string) (domain.PoolGroup, error)
	AddParticipant(ctx context.Context, groupID, participantID string, luckyNumber int) error
}

// CreatePoolInput carries what an admin provides to open a pool.
type CreatePoolInput struct {
	GroupID         string
	Name            string
	Type            domain.LotteryType
	DrawNumber      string
	DrawDate        string
	PaymentDeadline string
	Budget          float64
	Participants    []domain.PoolParticipant
	Tickets         []TicketInput
}

// TicketInput is a ticket before its cost and id are assigned.
type TicketInput struct {
	Numbers      []int
	ExtraNumbers []int
}

// PoolService manages pools and their money split.
type PoolService interface {
	List(ctx context.Context) ([]domain.Pool, error)
	Create(ctx context.Context, in CreatePoolInput) (domain.Pool, error)
	Update(ctx context.Context, id string, patch domain.Patch) error
	SetStatus(ctx context.Context, id string, status domain.PoolStatus) error
	TogglePayment(ctx context.Context, poolID, participantID string) (domain.Pool, error)
	AttachReceipt(ctx context.Context, poolID, ticketID, receiptURL string) (domain.Pool, error)
	Summary(ctx context.Context, poolID string) (domain.PoolSummary, error)
	ListForParticipant(ctx context.Context, participantID string, status domain.PoolStatus) ([]domain.Pool, error)
	Subscribe(ctx context.Context, fn func(domain.ChangeEvent[domain.Pool]))
}

// InviteSession is what the invite flow shows for a group.
type InviteSession struct {
	Group domain.PoolGroup   `json:"group"`
	Draft domain.InviteDraft `json:"draft"`
}

// InviteResult is returned once an invite is completed.
type InviteResult struct {
	Participant domain.Participant
	User        domain.User
	Token       string
}

// InviteService drives the multi-step onboarding of a group invite.
type InviteService interface {
	Start(ctx context.Context, groupID string) (*InviteSession, error)
	SaveFields(ctx context.Context, groupID string, fields domain.InviteFields) (domain.InviteDraft, error)
	Next(ctx context.Context, groupID string) (domain.InviteDraft, error)
	Back(ctx context.Context, groupID string) (domain.InviteDraft, error)
	Submit(ctx context.Context, groupID string) (*InviteResult, error)
}
