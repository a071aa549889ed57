package domain

import (
	"net/url"
	"strings"
)

// Invite flow steps, in order.
const (
	StepIdentification = 1
	StepPaymentKey     = 2
	StepLuckyNumber    = 3
	StepTerms          = 4
)

const (
	LuckyNumberMin = 1
	LuckyNumberMax = 60
)

// InviteFields are the values collected across the invite steps.
type InviteFields struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	CPF           string `json:"cpf"`
	PixKey        string `json:"pixKey"`
	LuckyNumber   int    `json:"luckyNumber"`
	AcceptedTerms bool   `json:"acceptedTerms"`
}

// InviteDraft is the persisted progress of an invite flow for one group.
// TakenNumbers is the snapshot of claimed lucky numbers fetched when the
// flow started; it is not refreshed before submission.
type InviteDraft struct {
	Step         int          `json:"step"`
	Fields       InviteFields `json:"formData"`
	TakenNumbers []int        `json:"takenNumbers,omitempty"`
}

// NewInviteDraft returns a draft positioned on the first step.
func NewInviteDraft() InviteDraft {
	return InviteDraft{Step: StepIdentification}
}

// Normalize resets an out-of-range step to the first one.
func (d InviteDraft) Normalize() InviteDraft {
	if d.Step < StepIdentification || d.Step > StepTerms {
		d.Step = StepIdentification
	}
	return d
}

// IsTaken reports whether n was claimed when the flow started.
func (d InviteDraft) IsTaken(n int) bool {
	for _, t := range d.TakenNumbers {
		if t == n {
			return true
		}
	}
	return false
}

// ValidateStep checks the fields the current step requires.
func (d InviteDraft) ValidateStep() error {
	f := d.Fields
	switch d.Step {
	case StepIdentification:
		if blank(f.Name) || blank(f.Phone) || blank(f.Email) || blank(f.CPF) {
			return NewValidationError("identification", "name, phone, email and cpf are required")
		}
	case StepPaymentKey:
		if blank(f.PixKey) {
			return NewValidationError("pixKey", "a pix key is required to receive prizes")
		}
	case StepLuckyNumber:
		if f.LuckyNumber < LuckyNumberMin || f.LuckyNumber > LuckyNumberMax {
			return NewValidationError("luckyNumber", "choose a number between 1 and 60")
		}
		if d.IsTaken(f.LuckyNumber) {
			return NewValidationError("luckyNumber", "number already taken in this group")
		}
	}
	return nil
}

// Advance validates the current step and moves to the next one.
func (d InviteDraft) Advance() (InviteDraft, error) {
	if err := d.ValidateStep(); err != nil {
		return d, err
	}
	if d.Step < StepTerms {
		d.Step++
	}
	return d, nil
}

// Back moves to the previous step, never before the first.
func (d InviteDraft) Back() InviteDraft {
	if d.Step > StepIdentification {
		d.Step--
	}
	return d
}

// ReadyToSubmit reports whether the draft may be turned into a membership.
func (d InviteDraft) ReadyToSubmit() error {
	if d.Step != StepTerms {
		return NewValidationError("step", "complete the previous steps first")
	}
	if !d.Fields.AcceptedTerms {
		return NewValidationError("acceptedTerms", "the terms of use must be accepted")
	}
	return nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// ParseInviteLink extracts the group id carried by the "invite" parameter,
// looking at the query string first and then at the hash fragment
// ("#invite=..." or "#/?invite=...").
func ParseInviteLink(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if v := u.Query().Get("invite"); v != "" {
		return v, true
	}
	frag := strings.TrimPrefix(u.Fragment, "/")
	frag = strings.TrimPrefix(frag, "?")
	if frag == "" {
		return "", false
	}
	q, err := url.ParseQuery(frag)
	if err != nil {
		return "", false
	}
	if v := q.Get("invite"); v != "" {
		return v, true
	}
	return "", false
}
