package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/lottopool/lottopool/internal/core/domain"
	"github.com/lottopool/lottopool/internal/core/ports"
	"github.com/lottopool/lottopool/internal/metrics"
)

// TokenIssuer signs API tokens for a user.
type TokenIssuer interface {
	IssueToken(user domain.User) (string, error)
}

// InviteService walks a guest through identification, payment key, lucky
// number and terms, persisting progress after every change.
type InviteService struct {
	groups       ports.GroupService
	participants ports.ParticipantService
	drafts       ports.DraftStore
	cpfs         ports.CPFRegistry
	sessions     ports.SessionStore
	tokens       TokenIssuer
	log          zerolog.Logger
}

func NewInviteService(
	groups ports.GroupService,
	participants ports.ParticipantService,
	drafts ports.DraftStore,
	cpfs ports.CPFRegistry,
	sessions ports.SessionStore,
	tokens TokenIssuer,
	log zerolog.Logger,
) *InviteService {
	return &InviteService{
		groups:       groups,
		participants: participants,
		drafts:       drafts,
		cpfs:         cpfs,
		sessions:     sessions,
		tokens:       tokens,
		log:          log,
	}
}

// Start loads the group and resumes the saved draft, if any. The claimed lucky
// numbers are snapshotted here and not checked again before submission.
func (s *InviteService) Start(ctx context.Context, groupID string) (*ports.InviteSession, error) {
	group, err := s.groups.GetOne(ctx, groupID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("invite %q: %w", groupID, domain.ErrGroupNotFound)
		}
		return nil, err
	}

	draft, ok, err := s.drafts.Load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !ok {
		draft = domain.NewInviteDraft()
	}
	draft = draft.Normalize()
	draft.TakenNumbers = takenNumbers(group)

	if err := s.drafts.Save(ctx, groupID, draft); err != nil {
		return nil, err
	}
	return &ports.InviteSession{Group: group, Draft: draft}, nil
}

// SaveFields replaces the draft's field values without validating them.
func (s *InviteService) SaveFields(ctx context.Context, groupID string, fields domain.InviteFields) (domain.InviteDraft, error) {
	draft, err := s.load(ctx, groupID)
	if err != nil {
		return domain.InviteDraft{}, err
	}
	draft.Fields = fields
	if err := s.drafts.Save(ctx, groupID, draft); err != nil {
		return domain.InviteDraft{}, err
	}
	return draft, nil
}

// Next validates the current step and advances. A rejected step leaves the
// draft where it was.
func (s *InviteService) Next(ctx context.Context, groupID string) (domain.InviteDraft, error) {
	draft, err := s.load(ctx, groupID)
	if err != nil {
		return domain.InviteDraft{}, err
	}

	if draft.Step == domain.StepIdentification && draft.Fields.CPF != "" {
		used, err := s.cpfs.IsUsed(ctx, draft.Fields.CPF)
		if err != nil {
			return draft, err
		}
		if used {
			s.reject(draft.Step)
			return draft, domain.NewValidationError("cpf", "this cpf is already registered")
		}
	}

	next, err := draft.Advance()
	if err != nil {
		s.reject(draft.Step)
		return draft, err
	}
	if err := s.drafts.Save(ctx, groupID, next); err != nil {
		return domain.InviteDraft{}, err
	}
	return next, nil
}

// Back returns to the previous step.
func (s *InviteService) Back(ctx context.Context, groupID string) (domain.InviteDraft, error) {
	draft, err := s.load(ctx, groupID)
	if err != nil {
		return domain.InviteDraft{}, err
	}
	draft = draft.Back()
	if err := s.drafts.Save(ctx, groupID, draft); err != nil {
		return domain.InviteDraft{}, err
	}
	return draft, nil
}

// Submit turns the draft into a participant and a group membership, opens a
// member session and discards the draft. On failure the draft is kept.
func (s *InviteService) Submit(ctx context.Context, groupID string) (*ports.InviteResult, error) {
	draft, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := draft.ReadyToSubmit(); err != nil {
		s.reject(draft.Step)
		return nil, err
	}

	f := draft.Fields
	if err := s.cpfs.MarkUsed(ctx, f.CPF); err != nil {
		return nil, fmt.Errorf("submit invite: %w", err)
	}

	participant, err := s.participants.Create(ctx, domain.Participant{
		Name:        f.Name,
		Phone:       f.Phone,
		Email:       f.Email,
		CPF:         f.CPF,
		PixKey:      f.PixKey,
		LuckyNumber: f.LuckyNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("submit invite: %w", err)
	}

	if err := s.groups.AddParticipant(ctx, groupID, participant.ID, f.LuckyNumber); err != nil {
		return nil, fmt.Errorf("submit invite: %w", err)
	}

	user := domain.User{
		ID:     participant.ID,
		Name:   participant.Name,
		Email:  participant.Email,
		Role:   domain.RolePoolMember,
		CPF:    f.CPF,
		PixKey: f.PixKey,
	}
	if err := s.sessions.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("submit invite: %w", err)
	}
	token, err := s.tokens.IssueToken(user)
	if err != nil {
		return nil, fmt.Errorf("submit invite: %w", err)
	}

	if err := s.drafts.Delete(ctx, groupID); err != nil {
		s.log.Warn().Err(err).Str("group_id", groupID).Msg("failed to discard invite draft")
	}

	metrics.InvitesCompletedTotal.Inc()
	s.log.Info().Str("group_id", groupID).Str("participant_id", participant.ID).Msg("invite completed")

	return &ports.InviteResult{Participant: participant, User: user, Token: token}, nil
}

func (s *InviteService) load(ctx context.Context, groupID string) (domain.InviteDraft, error) {
	draft, ok, err := s.drafts.Load(ctx, groupID)
	if err != nil {
		return domain.InviteDraft{}, err
	}
	if !ok {
		return domain.InviteDraft{}, domain.NewValidationError("invite", "invite flow not started for this group")
	}
	return draft.Normalize(), nil
}

func (s *InviteService) reject(step int) {
	metrics.InviteStepRejectionsTotal.WithLabelValues(strconv.Itoa(step)).Inc()
}

func takenNumbers(g domain.PoolGroup) []int {
	taken := g.TakenLuckyNumbers()
	out := make([]int, 0, len(taken))
	for n := range taken {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
