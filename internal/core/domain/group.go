package domain

import "time"

// Membership links a participant to a group, optionally with a lucky number.
type Membership struct {
	ParticipantID string `json:"participantId" bson:"participantId"`
	LuckyNumber   int    `json:"luckyNumber,omitempty" bson:"luckyNumber,omitempty"`
}

// PoolGroup is a standing set of participants who join pools together.
type PoolGroup struct {
	ID           string       `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string       `json:"name" bson:"name"`
	Balance      float64      `json:"balance" bson:"balance"`
	PixKey       string       `json:"pixKey,omitempty" bson:"pixKey,omitempty"`
	NotifActive  bool         `json:"notifActive,omitempty" bson:"notifActive,omitempty"`
	Participants []Membership `json:"participants" bson:"participants"`
	OwnerID      string       `json:"ownerId,omitempty" bson:"ownerId,omitempty"`
	Created      time.Time    `json:"created,omitzero" bson:"created,omitempty"`
}

func (g PoolGroup) RecordID() string { return g.ID }

func (g PoolGroup) WithID(id string) PoolGroup {
	g.ID = id
	return g
}

// HasMember reports whether participantID already belongs to the group.
func (g PoolGroup) HasMember(participantID string) bool {
	for _, m := range g.Participants {
		if m.ParticipantID == participantID {
			return true
		}
	}
	return false
}

// TakenLuckyNumbers returns the lucky numbers already claimed in the group.
func (g PoolGroup) TakenLuckyNumbers() map[int]bool {
	taken := make(map[int]bool, len(g.Participants))
	for _, m := range g.Participants {
		if m.LuckyNumber > 0 {
			taken[m.LuckyNumber] = true
		}
	}
	return taken
}

// WithMember returns the membership list with participantID appended, unless
// it is already present. The second result is false when nothing changed.
func (g PoolGroup) WithMember(participantID string, luckyNumber int) ([]Membership, bool) {
	members := make([]Membership, len(g.Participants), len(g.Participants)+1)
	copy(members, g.Participants)
	if g.HasMember(participantID) {
		return members, false
	}
	return append(members, Membership{ParticipantID: participantID, LuckyNumber: luckyNumber}), true
}
