package domain

import (
	"fmt"
	"sort"
)

// LotteryType identifies a lottery variant.
type LotteryType string

const (
	MegaSena       LotteryType = "MEGA_SENA"
	Lotofacil      LotteryType = "LOTOFACIL"
	Quina          LotteryType = "QUINA"
	MaisMilionaria LotteryType = "MAIS_MILIONARIA"
)

// LotteryConfig is the static rule set of a variant: number range, how many
// numbers a ticket may carry and what a ticket costs.
type LotteryConfig struct {
	Type       LotteryType     `json:"type"`
	Name       string          `json:"name"`
	MinNumbers int             `json:"minNumbers"`
	MaxNumbers int             `json:"maxNumbers"`
	Range      int             `json:"range"`
	ExtraRange int             `json:"extraRange,omitempty"`
	MinExtra   int             `json:"minExtra,omitempty"`
	MaxExtra   int             `json:"maxExtra,omitempty"`
	PriceBase  float64         `json:"priceBase"`
	Prices     map[int]float64 `json:"prices"`
}

var lotteryOrder = []LotteryType{MegaSena, Lotofacil, Quina, MaisMilionaria}

var lotteryConfigs = map[LotteryType]LotteryConfig{
	MegaSena: {
		Type: MegaSena, Name: "Mega-Sena",
		MinNumbers: 6, MaxNumbers: 20, Range: 60, PriceBase: 5.00,
		Prices: map[int]float64{6: 5, 7: 35, 8: 140, 9: 420, 10: 1050, 15: 25025, 20: 193800},
	},
	Lotofacil: {
		Type: Lotofacil, Name: "Lotofácil",
		MinNumbers: 15, MaxNumbers: 20, Range: 25, PriceBase: 3.00,
		Prices: map[int]float64{15: 3, 16: 48, 17: 408, 18: 2448, 19: 11628, 20: 46512},
	},
	Quina: {
		Type: Quina, Name: "Quina",
		MinNumbers: 5, MaxNumbers: 15, Range: 80, PriceBase: 2.50,
		Prices: map[int]float64{5: 2.5, 6: 15, 7: 52.5, 10: 630, 15: 7507.5},
	},
	MaisMilionaria: {
		Type: MaisMilionaria, Name: "+Milionária",
		MinNumbers: 6, MaxNumbers: 12, Range: 50, PriceBase: 6.00,
		ExtraRange: 6, MinExtra: 2, MaxExtra: 6,
		Prices: map[int]float64{6: 6, 7: 42, 8: 168, 12: 5544},
	},
}

// LotteryConfigFor returns a copy of the rules of t.
func LotteryConfigFor(t LotteryType) (LotteryConfig, bool) {
	cfg, ok := lotteryConfigs[t]
	if !ok {
		return LotteryConfig{}, false
	}
	return cfg.clone(), true
}

// LotteryConfigs returns every variant in display order.
func LotteryConfigs() []LotteryConfig {
	out := make([]LotteryConfig, 0, len(lotteryOrder))
	for _, t := range lotteryOrder {
		out = append(out, lotteryConfigs[t].clone())
	}
	return out
}

func (c LotteryConfig) clone() LotteryConfig {
	prices := make(map[int]float64, len(c.Prices))
	for k, v := range c.Prices {
		prices[k] = v
	}
	c.Prices = prices
	return c
}

// Price returns the cost of a ticket with n numbers. Counts missing from the
// price table follow the same rule the table does: base price times the number
// of minimum-size combinations contained in the ticket.
func (c LotteryConfig) Price(n int) (float64, error) {
	if n < c.MinNumbers || n > c.MaxNumbers {
		return 0, NewValidationError("numbers", fmt.Sprintf("%s accepts %d to %d numbers", c.Name, c.MinNumbers, c.MaxNumbers))
	}
	if p, ok := c.Prices[n]; ok {
		return p, nil
	}
	return c.PriceBase * float64(binomial(n, c.MinNumbers)), nil
}

// ValidateTicket checks count, range and uniqueness of a ticket's numbers.
func (c LotteryConfig) ValidateTicket(numbers, extras []int) error {
	if len(numbers) < c.MinNumbers || len(numbers) > c.MaxNumbers {
		return NewValidationError("numbers", fmt.Sprintf("%s accepts %d to %d numbers, got %d", c.Name, c.MinNumbers, c.MaxNumbers, len(numbers)))
	}
	if err := checkPicks("numbers", numbers, c.Range); err != nil {
		return err
	}
	if c.ExtraRange == 0 {
		if len(extras) > 0 {
			return NewValidationError("extraNumbers", c.Name+" has no extra draw")
		}
		return nil
	}
	if len(extras) < c.MinExtra || len(extras) > c.MaxExtra {
		return NewValidationError("extraNumbers", fmt.Sprintf("%s accepts %d to %d extra numbers, got %d", c.Name, c.MinExtra, c.MaxExtra, len(extras)))
	}
	return checkPicks("extraNumbers", extras, c.ExtraRange)
}

func checkPicks(field string, picks []int, max int) error {
	seen := make(map[int]bool, len(picks))
	for _, n := range picks {
		if n < 1 || n > max {
			return NewValidationError(field, fmt.Sprintf("%d is outside 1..%d", n, max))
		}
		if seen[n] {
			return NewValidationError(field, fmt.Sprintf("%d picked twice", n))
		}
		seen[n] = true
	}
	return nil
}

// SortedPicks returns a sorted copy of picks.
func SortedPicks(picks []int) []int {
	out := append([]int(nil), picks...)
	sort.Ints(out)
	return out
}

func binomial(n, k int) int64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	res := int64(1)
	for i := 1; i <= k; i++ {
		res = res * int64(n-k+i) / int64(i)
	}
	return res
}
