package domain

import "testing"

func TestLotteryConfig_Price(t *testing.T) {
	mega, _ := LotteryConfigFor(MegaSena)

	cases := []struct {
		n    int
		want float64
	}{
		{6, 5},
		{7, 35},
		{11, 5 * 462}, // not in the table: 5.00 × C(11,6)
		{20, 193800},
	}
	for _, c := range cases {
		got, err := mega.Price(c.n)
		if err != nil {
			t.Fatalf("Price(%d): %v", c.n, err)
		}
		if got != c.want {
			t.Errorf("Price(%d) = %v, want %v", c.n, got, c.want)
		}
	}

	if _, err := mega.Price(5); !IsValidation(err) {
		t.Errorf("Price(5): expected validation error, got %v", err)
	}
	if _, err := mega.Price(21); !IsValidation(err) {
		t.Errorf("Price(21): expected validation error, got %v", err)
	}
}

func TestLotteryConfig_ValidateTicket(t *testing.T) {
	quina, _ := LotteryConfigFor(Quina)
	plus, _ := LotteryConfigFor(MaisMilionaria)

	if err := quina.ValidateTicket([]int{1, 20, 40, 60, 80}, nil); err != nil {
		t.Fatalf("valid quina ticket rejected: %v", err)
	}

	bad := map[string]error{
		"too few":        quina.ValidateTicket([]int{1, 2, 3, 4}, nil),
		"out of range":   quina.ValidateTicket([]int{0, 2, 3, 4, 5}, nil),
		"duplicate":      quina.ValidateTicket([]int{1, 1, 3, 4, 5}, nil),
		"unexpected ext": quina.ValidateTicket([]int{1, 2, 3, 4, 5}, []int{1}),
		"missing extras": plus.ValidateTicket([]int{1, 2, 3, 4, 5, 6}, []int{1}),
		"extra range":    plus.ValidateTicket([]int{1, 2, 3, 4, 5, 6}, []int{1, 7}),
	}
	for name, err := range bad {
		if !IsValidation(err) {
			t.Errorf("%s: expected validation error, got %v", name, err)
		}
	}

	if err := plus.ValidateTicket([]int{1, 2, 3, 4, 5, 6}, []int{1, 6}); err != nil {
		t.Fatalf("valid +milionária ticket rejected: %v", err)
	}
}

func TestLotteryConfigs_AreCopies(t *testing.T) {
	all := LotteryConfigs()
	if len(all) != 4 || all[0].Type != MegaSena {
		t.Fatalf("unexpected configs %+v", all)
	}
	all[0].Prices[6] = 999

	mega, _ := LotteryConfigFor(MegaSena)
	if mega.Prices[6] != 5 {
		t.Fatal("mutating a returned config changed the rule table")
	}
	if _, ok := LotteryConfigFor("BINGO"); ok {
		t.Fatal("unknown lottery must not resolve")
	}
}
