package domain

import "time"

// PoolStatus is the lifecycle state of a pool.
type PoolStatus string

const (
	PoolOpen     PoolStatus = "OPEN"
	PoolClosed   PoolStatus = "CLOSED"
	PoolFinished PoolStatus = "FINISHED"
)

var poolStatusRank = map[PoolStatus]int{PoolOpen: 0, PoolClosed: 1, PoolFinished: 2}

// Valid reports whether s is a known status.
func (s PoolStatus) Valid() bool {
	_, ok := poolStatusRank[s]
	return ok
}

// Advances reports whether moving from s to next follows OPEN→CLOSED→FINISHED.
// It is advisory only: status updates are plain field overwrites.
func (s PoolStatus) Advances(next PoolStatus) bool {
	from, okFrom := poolStatusRank[s]
	to, okTo := poolStatusRank[next]
	return okFrom && okTo && to >= from
}

// TicketStatus is the lifecycle state of a ticket.
type TicketStatus string

const (
	TicketPending    TicketStatus = "PENDING"
	TicketRegistered TicketStatus = "REGISTERED"
	TicketChecked    TicketStatus = "CHECKED"
)

// Ticket is one lottery slip bought by a pool.
type Ticket struct {
	ID           string       `json:"id" bson:"id"`
	Numbers      []int        `json:"numbers" bson:"numbers"`
	ExtraNumbers []int        `json:"extraNumbers,omitempty" bson:"extraNumbers,omitempty"`
	Cost         float64      `json:"cost" bson:"cost"`
	Status       TicketStatus `json:"status" bson:"status"`
	ReceiptURL   string       `json:"receiptUrl,omitempty" bson:"receiptUrl,omitempty"`
}

// PoolParticipant is a participant's stake in a pool.
type PoolParticipant struct {
	ParticipantID string     `json:"participantId" bson:"participantId"`
	Shares        int        `json:"shares" bson:"shares"`
	Paid          bool       `json:"paid" bson:"paid"`
	PaymentDate   *time.Time `json:"paymentDate,omitempty" bson:"paymentDate,omitempty"`
}

// Pool is a single lottery campaign.
type Pool struct {
	ID              string            `json:"id,omitempty" bson:"_id,omitempty"`
	GroupID         string            `json:"groupId" bson:"groupId"`
	Name            string            `json:"name" bson:"name"`
	Type            LotteryType       `json:"type" bson:"type"`
	DrawNumber      string            `json:"drawNumber" bson:"drawNumber"`
	DrawDate        string            `json:"drawDate" bson:"drawDate"`
	PaymentDeadline string            `json:"paymentDeadline,omitempty" bson:"paymentDeadline,omitempty"`
	Participants    []PoolParticipant `json:"participants" bson:"participants"`
	Tickets         []Ticket          `json:"tickets" bson:"tickets"`
	TotalPrize      float64           `json:"totalPrize" bson:"totalPrize"`
	Status          PoolStatus        `json:"status" bson:"status"`
	BudgetUsed      float64           `json:"budgetUsed" bson:"budgetUsed"`
	Created         time.Time         `json:"created,omitzero" bson:"created,omitempty"`
}

func (p Pool) RecordID() string { return p.ID }

func (p Pool) WithID(id string) Pool {
	p.ID = id
	return p
}

// HasParticipant reports whether participantID holds shares in the pool.
func (p Pool) HasParticipant(participantID string) bool {
	_, ok := p.participant(participantID)
	return ok
}

func (p Pool) participant(participantID string) (PoolParticipant, bool) {
	for _, pp := range p.Participants {
		if pp.ParticipantID == participantID {
			return pp, true
		}
	}
	return PoolParticipant{}, false
}

// TotalCost is the sum of the pool's ticket costs.
func (p Pool) TotalCost() float64 {
	var total float64
	for _, t := range p.Tickets {
		total += t.Cost
	}
	return total
}

// TotalShares is the sum of all participants' shares.
func (p Pool) TotalShares() int {
	var total int
	for _, pp := range p.Participants {
		total += pp.Shares
	}
	return total
}

// CostPerShare divides the ticket cost over the shares. A pool without
// shares is treated as having one so the result stays finite.
func (p Pool) CostPerShare() float64 {
	shares := p.TotalShares()
	if shares == 0 {
		shares = 1
	}
	return p.TotalCost() / float64(shares)
}

// AmountDue is what participantID owes: shares × cost per share.
func (p Pool) AmountDue(participantID string) float64 {
	pp, ok := p.participant(participantID)
	if !ok {
		return 0
	}
	return float64(pp.Shares) * p.CostPerShare()
}

// PrizeShare is participantID's part of the prize once the pool is FINISHED.
func (p Pool) PrizeShare(participantID string) float64 {
	if p.Status != PoolFinished {
		return 0
	}
	total := p.TotalShares()
	pp, ok := p.participant(participantID)
	if !ok || total == 0 {
		return 0
	}
	return p.TotalPrize / float64(total) * float64(pp.Shares)
}

// ShareSummary is one participant's line in a PoolSummary.
type ShareSummary struct {
	ParticipantID string     `json:"participantId"`
	Shares        int        `json:"shares"`
	Due           float64    `json:"due"`
	Paid          bool       `json:"paid"`
	PaymentDate   *time.Time `json:"paymentDate,omitempty"`
	Prize         float64    `json:"prize"`
}

// PoolSummary is the derived money view of a pool.
type PoolSummary struct {
	PoolID       string         `json:"poolId"`
	Status       PoolStatus     `json:"status"`
	TotalCost    float64        `json:"totalCost"`
	TotalShares  int            `json:"totalShares"`
	CostPerShare float64        `json:"costPerShare"`
	Collected    float64        `json:"collected"`
	Pending      float64        `json:"pending"`
	TotalPrize   float64        `json:"totalPrize"`
	Participants []ShareSummary `json:"participants"`
}

// Summarize computes the pool's split of cost and prize per participant.
func (p Pool) Summarize() PoolSummary {
	s := PoolSummary{
		PoolID:       p.ID,
		Status:       p.Status,
		TotalCost:    p.TotalCost(),
		TotalShares:  p.TotalShares(),
		CostPerShare: p.CostPerShare(),
		TotalPrize:   p.TotalPrize,
		Participants: make([]ShareSummary, 0, len(p.Participants)),
	}
	for _, pp := range p.Participants {
		line := ShareSummary{
			ParticipantID: pp.ParticipantID,
			Shares:        pp.Shares,
			Due:           float64(pp.Shares) * s.CostPerShare,
			Paid:          pp.Paid,
			PaymentDate:   pp.PaymentDate,
			Prize:         p.PrizeShare(pp.ParticipantID),
		}
		if pp.Paid {
			s.Collected += line.Due
		} else {
			s.Pending += line.Due
		}
		s.Participants = append(s.Participants, line)
	}
	return s
}
