package core

import "testing"

func TestMoneySign(t *testing.T) {
	in := Money{Cents: 1500}
	out := Money{Cents: -2500}

	if !in.IsInflow() || in.IsOutflow() {
		t.Error("positive amount should be an inflow")
	}
	if !out.IsOutflow() || out.IsInflow() {
		t.Error("negative amount should be an outflow")
	}
	if out.Abs() != 2500 {
		t.Errorf("Abs() = %d, want 2500", out.Abs())
	}
	if in.Units() != 15.0 {
		t.Errorf("Units() = %v, want 15.0", in.Units())
	}
}

func TestTransactionValidate(t *testing.T) {
	tx := Transaction{
		Date:     NewDate(2025, 3, 14),
		Amount:   Money{Cents: -1299},
		Category: "Groceries",
	}
	if err := tx.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	tx.Amount = Money{}
	if err := tx.Validate(); err == nil {
		t.Error("zero amount should be rejected")
	}

	tx = Transaction{Amount: Money{Cents: 100}}
	if err := tx.Validate(); err == nil {
		t.Error("zero date should be rejected")
	}
}

func TestBudgetValidate(t *testing.T) {
	b := Budget{
		Year:       2025,
		TotalCents: 100000,
		Categories: map[string]int64{"Food": 20000},
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("valid budget rejected: %v", err)
	}

	b.Categories["Food"] = -1
	if err := b.Validate(); err == nil {
		t.Error("negative category budget should be rejected")
	}
}
