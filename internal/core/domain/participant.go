package domain

import "time"

// Participant is a person who can join groups and pools.
type Participant struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Phone       string    `json:"phone" bson:"phone"`
	Email       string    `json:"email" bson:"email"`
	CPF         string    `json:"cpf" bson:"cpf"`
	PixKey      string    `json:"pixKey" bson:"pixKey"`
	LuckyNumber int       `json:"luckyNumber,omitempty" bson:"luckyNumber,omitempty"`
	ProfileID   string    `json:"profileId,omitempty" bson:"profileId,omitempty"`
	Created     time.Time `json:"created,omitzero" bson:"created,omitempty"`
}

func (p Participant) RecordID() string { return p.ID }

func (p Participant) WithID(id string) Participant {
	p.ID = id
	return p
}
