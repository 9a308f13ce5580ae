package types

import "testing"

func TestMoneyArithmetic(t *testing.T) {
	a := USD(1250)
	b := USD(750)

	sum := a.Add(b)
	if sum.Amount != 2000 || sum.Currency != "usd" {
		t.Errorf("Add = %v, want 2000 usd", sum)
	}

	diff := a.Subtract(b)
	if diff.Amount != 500 {
		t.Errorf("Subtract = %v, want 500", diff)
	}

	prod := a.Multiply(3)
	if prod.Amount != 3750 {
		t.Errorf("Multiply = %v, want 3750", prod)
	}
}

func TestMoneyCurrencyMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on currency mismatch")
		}
	}()
	_ = USD(100).Add(EUR(100))
}

func TestMoneyComparisons(t *testing.T) {
	if !USD(0).IsZero() {
		t.Error("USD(0).IsZero() = false")
	}
	if !USD(100).IsPositive() {
		t.Error("USD(100).IsPositive() = false")
	}
	if !USD(-100).IsNegative() {
		t.Error("USD(-100).IsNegative() = false")
	}
	if !USD(100).Equal(USD(100)) {
		t.Error("USD(100) != USD(100)")
	}
	if USD(100).Equal(EUR(100)) {
		t.Error("USD(100) == EUR(100)")
	}
	if !USD(50).LessThan(USD(100)) {
		t.Error("USD(50) not less than USD(100)")
	}
	if !USD(100).GreaterThan(USD(50)) {
		t.Error("USD(100) not greater than USD(50)")
	}
}

func TestMoneyFormatting(t *testing.T) {
	tests := []struct {
		money Money
		want  string
	}{
		{USD(1250), "$12.50"},
		{EUR(900), "€9.00"},
		{HNL(4500), "L45.00"},
		{USD(-350), "$-3.50"},
		{USD(5), "$0.05"},
	}
	for _, tt := range tests {
		if got := tt.money.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.money, got, tt.want)
		}
	}
}

func TestSumMoney(t *testing.T) {
	total := SumMoney(USD(100), USD(250), USD(50))
	if total.Amount != 400 {
		t.Errorf("SumMoney = %d, want 400", total.Amount)
	}

	empty := SumMoney()
	if !empty.IsZero() {
		t.Errorf("SumMoney() = %v, want zero", empty)
	}
}
