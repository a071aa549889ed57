package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lottopool/lottopool/internal/core/domain"
	"github.com/lottopool/lottopool/internal/core/ports"
)

const (
	draftKeyPrefix = "lottopool_invite_progress_"
	sessionKey     = "lotto_user"
	cpfKeyPrefix   = "cpf_"
)

// Drafts persists invite progress under "lottopool_invite_progress_<groupId>".
type Drafts struct {
	kv ports.KeyValue
}

func NewDrafts(kv ports.KeyValue) *Drafts {
	return &Drafts{kv: kv}
}

// Load returns the saved draft. An unreadable draft is reported as absent so
// the flow restarts from the first step.
func (d *Drafts) Load(ctx context.Context, groupID string) (domain.InviteDraft, bool, error) {
	raw, ok, err := d.kv.GetItem(ctx, draftKeyPrefix+groupID)
	if err != nil {
		return domain.InviteDraft{}, false, fmt.Errorf("%w: load draft: %v", domain.ErrLocalStore, err)
	}
	if !ok {
		return domain.InviteDraft{}, false, nil
	}
	var draft domain.InviteDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return domain.InviteDraft{}, false, nil
	}
	return draft, true, nil
}

func (d *Drafts) Save(ctx context.Context, groupID string, draft domain.InviteDraft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("%w: encode draft: %v", domain.ErrLocalStore, err)
	}
	if err := d.kv.SetItem(ctx, draftKeyPrefix+groupID, string(raw)); err != nil {
		return fmt.Errorf("%w: save draft: %v", domain.ErrLocalStore, err)
	}
	return nil
}

func (d *Drafts) Delete(ctx context.Context, groupID string) error {
	if err := d.kv.RemoveItem(ctx, draftKeyPrefix+groupID); err != nil {
		return fmt.Errorf("%w: delete draft: %v", domain.ErrLocalStore, err)
	}
	return nil
}

// Session keeps the signed-in user snapshot in the "lotto_user" slot.
type Session struct {
	kv ports.KeyValue
}

func NewSession(kv ports.KeyValue) *Session {
	return &Session{kv: kv}
}

// Load returns nil without error when nobody is signed in.
func (s *Session) Load(ctx context.Context) (*domain.User, error) {
	raw, ok, err := s.kv.GetItem(ctx, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("%w: load session: %v", domain.ErrLocalStore, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, nil
	}
	return &user, nil
}

func (s *Session) Save(ctx context.Context, user domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("%w: encode session: %v", domain.ErrLocalStore, err)
	}
	if err := s.kv.SetItem(ctx, sessionKey, string(raw)); err != nil {
		return fmt.Errorf("%w: save session: %v", domain.ErrLocalStore, err)
	}
	return nil
}

func (s *Session) Clear(ctx context.Context) error {
	if err := s.kv.RemoveItem(ctx, sessionKey); err != nil {
		return fmt.Errorf("%w: clear session: %v", domain.ErrLocalStore, err)
	}
	return nil
}

// CPFFlags records which cpfs completed an invite on this device. It is not a
// uniqueness guarantee: another device knows nothing of these flags.
type CPFFlags struct {
	kv ports.KeyValue
}

func NewCPFFlags(kv ports.KeyValue) *CPFFlags {
	return &CPFFlags{kv: kv}
}

func (c *CPFFlags) IsUsed(ctx context.Context, cpf string) (bool, error) {
	_, ok, err := c.kv.GetItem(ctx, cpfKey(cpf))
	if err != nil {
		return false, fmt.Errorf("%w: check cpf: %v", domain.ErrLocalStore, err)
	}
	return ok, nil
}

func (c *CPFFlags) MarkUsed(ctx context.Context, cpf string) error {
	if err := c.kv.SetItem(ctx, cpfKey(cpf), "true"); err != nil {
		return fmt.Errorf("%w: mark cpf: %v", domain.ErrLocalStore, err)
	}
	return nil
}

func cpfKey(cpf string) string {
	return cpfKeyPrefix + strings.TrimSpace(cpf)
}
