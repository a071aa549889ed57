package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lottopool/lottopool/internal/core/domain"
)

func applyGroupPatch(g domain.PoolGroup, p domain.Patch) domain.PoolGroup {
	if m, ok := p["participants"].([]domain.Membership); ok {
		g.Participants = m
	}
	return g
}

func TestLocalKey(t *testing.T) {
	if got := LocalKey("lottopool_master", "pools"); got != "lottopool_master_pools_v1" {
		t.Fatalf("LocalKey = %q", got)
	}
}

func TestGroupService_AddParticipant_AppendsOnce(t *testing.T) {
	ctx := context.Background()
	remote := newStubRemote(domain.PoolGroup{
		ID:           "g1",
		Participants: []domain.Membership{{ParticipantID: "p1", LuckyNumber: 7}},
	})
	remote.apply = applyGroupPatch
	_, local := newLocal()
	groups := NewGroupService(remote, local, testNamespace, nopLog())

	if err := groups.AddParticipant(ctx, "g1", "p2", 8); err != nil {
		t.Fatalf("AddParticipant: %v", err)
	}
	if err := groups.AddParticipant(ctx, "g1", "p2", 9); err != nil {
		t.Fatalf("second AddParticipant: %v", err)
	}

	g, err := groups.GetOne(ctx, "g1")
	if err != nil {
		t.Fatalf("GetOne: %v", err)
	}
	if len(g.Participants) != 2 {
		t.Fatalf("expected 2 members, got %+v", g.Participants)
	}
	if g.Participants[1] != (domain.Membership{ParticipantID: "p2", LuckyNumber: 8}) {
		t.Fatalf("unexpected membership %+v", g.Participants[1])
	}

	// The duplicate add still writes back the unchanged list.
	if n := len(remote.patchesFor("g1")); n != 2 {
		t.Fatalf("expected 2 writes, got %d", n)
	}
}

func TestGroupService_AddParticipant_UsesResolvedLocalID(t *testing.T) {
	ctx := context.Background()
	remote := newStubRemote[domain.PoolGroup]()
	remote.setDown(true)
	_, local := newLocal()
	seedLocal(t, local, LocalKey(testNamespace, "groups"), domain.PoolGroup{ID: "group_42", Participants: []domain.Membership{}})
	groups := NewGroupService(remote, local, testNamespace, nopLog())

	if err := groups.AddParticipant(ctx, "42", "p1", 3); err != nil {
		t.Fatalf("AddParticipant: %v", err)
	}

	g, err := groups.GetOne(ctx, "group_42")
	if err != nil {
		t.Fatalf("GetOne: %v", err)
	}
	if !g.HasMember("p1") || !g.TakenLuckyNumbers()[3] {
		t.Fatalf("expected p1 with lucky number 3, got %+v", g.Participants)
	}
}

func TestGroupService_AddParticipant_GroupNotFound(t *testing.T) {
	remote := newStubRemote[domain.PoolGroup]()
	_, local := newLocal()
	groups := NewGroupService(remote, local, testNamespace, nopLog())

	err := groups.AddParticipant(context.Background(), "nope", "p1", 0)
	if !errors.Is(err, domain.ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
}
