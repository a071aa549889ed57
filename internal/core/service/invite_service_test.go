package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lottopool/lottopool/internal/core/domain"
	"github.com/lottopool/lottopool/internal/infrastructure/localstore"
)

type stubTokens struct{}

func (stubTokens) IssueToken(u domain.User) (string, error) { return "token-" + u.ID, nil }

type inviteFixture struct {
	svc      *InviteService
	groups   *stubRemote[domain.PoolGroup]
	parts    *stubRemote[domain.Participant]
	kv       *localstore.Memory
	sessions *localstore.Session
}

func newInviteFixture(groups ...domain.PoolGroup) inviteFixture {
	groupRemote := newStubRemote(groups...)
	groupRemote.apply = applyGroupPatch
	partRemote := newStubRemote[domain.Participant]()
	kv, local := newLocal()
	sessions := localstore.NewSession(kv)

	svc := NewInviteService(
		NewGroupService(groupRemote, local, testNamespace, nopLog()),
		NewParticipantCollection(partRemote, local, testNamespace, nopLog()),
		localstore.NewDrafts(kv),
		localstore.NewCPFFlags(kv),
		sessions,
		stubTokens{},
		nopLog(),
	)
	return inviteFixture{svc: svc, groups: groupRemote, parts: partRemote, kv: kv, sessions: sessions}
}

func familyGroup() domain.PoolGroup {
	return domain.PoolGroup{
		ID:           "g1",
		Name:         "Família",
		Participants: []domain.Membership{{ParticipantID: "p0", LuckyNumber: 7}},
	}
}

func completeIdentity() domain.InviteFields {
	return domain.InviteFields{
		Name:   "Ana Souza",
		Phone:  "11999990000",
		Email:  "ana@example.com",
		CPF:    "123.456.789-00",
		PixKey: "ana@example.com",
	}
}

// walkTo drives a started flow up to the given step.
func walkTo(t *testing.T, f inviteFixture, step int, fields domain.InviteFields) {
	t.Helper()
	ctx := context.Background()
	if _, err := f.svc.SaveFields(ctx, "g1", fields); err != nil {
		t.Fatalf("SaveFields: %v", err)
	}
	for s := domain.StepIdentification; s < step; s++ {
		if _, err := f.svc.Next(ctx, "g1"); err != nil {
			t.Fatalf("Next from step %d: %v", s, err)
		}
	}
}

func TestInviteService_Start_UnknownGroup(t *testing.T) {
	f := newInviteFixture()
	_, err := f.svc.Start(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
}

func TestInviteService_Start_SnapshotsTakenNumbers(t *testing.T) {
	f := newInviteFixture(familyGroup())
	session, err := f.svc.Start(context.Background(), "g1")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if session.Draft.Step != domain.StepIdentification {
		t.Fatalf("expected step 1, got %d", session.Draft.Step)
	}
	if len(session.Draft.TakenNumbers) != 1 || session.Draft.TakenNumbers[0] != 7 {
		t.Fatalf("expected taken [7], got %v", session.Draft.TakenNumbers)
	}
	if session.Group.Name != "Família" {
		t.Fatalf("unexpected group %+v", session.Group)
	}
}

func TestInviteService_NextBeforeStart(t *testing.T) {
	f := newInviteFixture(familyGroup())
	if _, err := f.svc.Next(context.Background(), "g1"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestInviteService_ResumesAfterReload(t *testing.T) {
	f := newInviteFixture(familyGroup())
	ctx := context.Background()
	if _, err := f.svc.Start(ctx, "g1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	walkTo(t, f, domain.StepLuckyNumber, completeIdentity())

	session, err := f.svc.Start(ctx, "g1")
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if session.Draft.Step != domain.StepLuckyNumber {
		t.Fatalf("expected to resume on step 3, got %d", session.Draft.Step)
	}
	if session.Draft.Fields != completeIdentity() {
		t.Fatalf("fields not restored: %+v", session.Draft.Fields)
	}
}

func TestInviteService_LuckyNumberTaken(t *testing.T) {
	f := newInviteFixture(familyGroup())
	ctx := context.Background()
	if _, err := f.svc.Start(ctx, "g1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	fields := completeIdentity()
	walkTo(t, f, domain.StepLuckyNumber, fields)

	fields.LuckyNumber = 7
	if _, err := f.svc.SaveFields(ctx, "g1", fields); err != nil {
		t.Fatalf("SaveFields: %v", err)
	}
	draft, err := f.svc.Next(ctx, "g1")
	if !domain.IsValidation(err) {
		t.Fatalf("expected 7 to be rejected, got %v", err)
	}
	if draft.Step != domain.StepLuckyNumber {
		t.Fatalf("rejected step must not advance, got %d", draft.Step)
	}

	fields.LuckyNumber = 8
	if _, err := f.svc.SaveFields(ctx, "g1", fields); err != nil {
		t.Fatalf("SaveFields: %v", err)
	}
	draft, err = f.svc.Next(ctx, "g1")
	if err != nil {
		t.Fatalf("expected 8 to be accepted, got %v", err)
	}
	if draft.Step != domain.StepTerms {
		t.Fatalf("expected step 4, got %d", draft.Step)
	}
}

func TestInviteService_Back(t *testing.T) {
	f := newInviteFixture(familyGroup())
	ctx := context.Background()
	if _, err := f.svc.Start(ctx, "g1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	walkTo(t, f, domain.StepPaymentKey, completeIdentity())

	draft, err := f.svc.Back(ctx, "g1")
	if err != nil || draft.Step != domain.StepIdentification {
		t.Fatalf("expected step 1, got %d (%v)", draft.Step, err)
	}
	draft, _ = f.svc.Back(ctx, "g1")
	if draft.Step != domain.StepIdentification {
		t.Fatalf("back from step 1 must stay, got %d", draft.Step)
	}
}

func TestInviteService_Submit(t *testing.T) {
	f := newInviteFixture(familyGroup())
	ctx := context.Background()
	if _, err := f.svc.Start(ctx, "g1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	fields := completeIdentity()
	fields.LuckyNumber = 8
	walkTo(t, f, domain.StepTerms, fields)

	if _, err := f.svc.Submit(ctx, "g1"); !domain.IsValidation(err) {
		t.Fatalf("expected terms to be required, got %v", err)
	}

	fields.AcceptedTerms = true
	if _, err := f.svc.SaveFields(ctx, "g1", fields); err != nil {
		t.Fatalf("SaveFields: %v", err)
	}
	res, err := f.svc.Submit(ctx, "g1")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if res.Participant.ID == "" || res.Participant.CPF != fields.CPF || res.Participant.LuckyNumber != 8 {
		t.Fatalf("unexpected participant %+v", res.Participant)
	}
	if res.User.Role != domain.RolePoolMember || res.User.ID != res.Participant.ID {
		t.Fatalf("unexpected user %+v", res.User)
	}
	if res.Token != "token-"+res.Participant.ID {
		t.Fatalf("unexpected token %q", res.Token)
	}

	g, _ := f.groups.GetOne(ctx, "g1")
	if !g.HasMember(res.Participant.ID) || !g.TakenLuckyNumbers()[8] {
		t.Fatalf("participant not added to group: %+v", g.Participants)
	}

	current, err := f.sessions.Load(ctx)
	if err != nil || current == nil || current.ID != res.User.ID {
		t.Fatalf("session not saved: %+v %v", current, err)
	}

	if _, ok, _ := f.kv.GetItem(ctx, "lottopool_invite_progress_g1"); ok {
		t.Fatal("draft must be discarded after submit")
	}
}

func TestInviteService_CPFAlreadyUsed(t *testing.T) {
	f := newInviteFixture(familyGroup())
	ctx := context.Background()
	_ = f.kv.SetItem(ctx, "cpf_123.456.789-00", "true")

	if _, err := f.svc.Start(ctx, "g1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := f.svc.SaveFields(ctx, "g1", completeIdentity()); err != nil {
		t.Fatalf("SaveFields: %v", err)
	}
	draft, err := f.svc.Next(ctx, "g1")
	if !domain.IsValidation(err) {
		t.Fatalf("expected cpf rejection, got %v", err)
	}
	if draft.Step != domain.StepIdentification {
		t.Fatalf("expected to stay on step 1, got %d", draft.Step)
	}
}
