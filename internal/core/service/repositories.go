package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lottopool/lottopool/internal/core/domain"
	"github.com/lottopool/lottopool/internal/core/ports"
)

// LocalKey builds the local slot name of a collection, e.g. "lottopool_master_pools_v1".
func LocalKey(namespace, collection string) string {
	return namespace + "_" + collection + "_v1"
}

// NewPoolCollection reconciles the "pools" collection, newest first.
func NewPoolCollection(remote ports.RemoteCollection[domain.Pool], local ports.LocalStore, namespace string, log zerolog.Logger) *Collection[domain.Pool] {
	return NewCollection(remote, local, CollectionOptions[domain.Pool]{
		Name:     "pools",
		LocalKey: LocalKey(namespace, "pools"),
		IDPrefix: "pool",
		Sort:     ports.ParseSort("-created"),
		LocalDefaults: func(p domain.Pool, now time.Time) domain.Pool {
			if p.Participants == nil {
				p.Participants = []domain.PoolParticipant{}
			}
			if p.Tickets == nil {
				p.Tickets = []domain.Ticket{}
			}
			p.Created = now.UTC()
			return p
		},
	}, log)
}

// NewParticipantCollection reconciles the "participants" collection, ordered by name.
func NewParticipantCollection(remote ports.RemoteCollection[domain.Participant], local ports.LocalStore, namespace string, log zerolog.Logger) *Collection[domain.Participant] {
	return NewCollection(remote, local, CollectionOptions[domain.Participant]{
		Name:     "participants",
		LocalKey: LocalKey(namespace, "participants"),
		IDPrefix: "part",
		Sort:     ports.ParseSort("name"),
		LocalDefaults: func(p domain.Participant, now time.Time) domain.Participant {
			p.Created = now.UTC()
			return p
		},
	}, log)
}

// GroupService is the reconciled "groups" collection plus membership changes.
type GroupService struct {
	*Collection[domain.PoolGroup]
}

func NewGroupService(remote ports.RemoteCollection[domain.PoolGroup], local ports.LocalStore, namespace string, log zerolog.Logger) *GroupService {
	return &GroupService{Collection: NewCollection(remote, local, CollectionOptions[domain.PoolGroup]{
		Name:     "groups",
		LocalKey: LocalKey(namespace, "groups"),
		IDPrefix: "group",
		Sort:     ports.ParseSort("-created"),
		LocalDefaults: func(g domain.PoolGroup, now time.Time) domain.PoolGroup {
			if g.Participants == nil {
				g.Participants = []domain.Membership{}
			}
			g.Created = now.UTC()
			return g
		},
	}, log)}
}

// AddParticipant appends participantID to the group unless already present and
// writes back the whole membership list. This is read-modify-write without a
// version check: two concurrent adds to the same group can lose one of them.
func (s *GroupService) AddParticipant(ctx context.Context, groupID, participantID string, luckyNumber int) error {
	group, err := s.GetOne(ctx, groupID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("add participant to %q: %w", groupID, domain.ErrGroupNotFound)
		}
		return err
	}
	members, _ := group.WithMember(participantID, luckyNumber)
	return s.Update(ctx, group.ID, domain.Patch{"participants": members})
}
