package types

import "testing"

func TestQuantityArithmetic(t *testing.T) {
	a := Kilograms(2500)
	b := Kilograms(1500)

	sum := a.Add(b)
	if sum.Amount != 4000 || sum.Unit != "kg" {
		t.Errorf("Add = %v, want 4000 kg", sum)
	}

	diff := a.Subtract(b)
	if diff.Amount != 1000 {
		t.Errorf("Subtract = %v, want 1000", diff)
	}

	scaled := b.Scale(3)
	if scaled.Amount != 4500 {
		t.Errorf("Scale = %v, want 4500", scaled)
	}
}

func TestQuantityUnitMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unit mismatch")
		}
	}()
	_ = Kilograms(1000).Add(Liters(1000))
}

func TestQuantityCovers(t *testing.T) {
	tests := []struct {
		name     string
		have     Quantity
		required Quantity
		covers   bool
	}{
		{"exact", Kilograms(5000), Kilograms(5000), true},
		{"surplus", Kilograms(10000), Kilograms(5000), true},
		{"short", Kilograms(4999), Kilograms(5000), false},
		{"zero required", Kilograms(0), Kilograms(0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.have.Covers(tt.required); got != tt.covers {
				t.Errorf("Covers = %v, want %v", got, tt.covers)
			}
		})
	}
}

func TestQuantityDeficit(t *testing.T) {
	d := Kilograms(5000).Deficit(Kilograms(10000))
	if d.Amount != 5000 {
		t.Errorf("Deficit = %v, want 5000", d)
	}

	none := Kilograms(10000).Deficit(Kilograms(5000))
	if !none.IsZero() {
		t.Errorf("Deficit with surplus = %v, want zero", none)
	}
}

func TestQuantityFormatting(t *testing.T) {
	tests := []struct {
		qty  Quantity
		want string
	}{
		{Kilograms(2500), "2.5 kg"},
		{Kilograms(5000), "5 kg"},
		{Liters(750), "0.75 l"},
		{Count(3), "3 unit"},
		{Kilograms(-1500), "-1.5 kg"},
	}
	for _, tt := range tests {
		if got := tt.qty.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.qty, got, tt.want)
		}
	}
}

func TestQuantityRoundTripExact(t *testing.T) {
	// Repeated deduct and restore must land back on the starting level.
	start := Kilograms(10000)
	step := Kilograms(333)

	level := start
	for i := 0; i < 7; i++ {
		level = level.Subtract(step)
	}
	for i := 0; i < 7; i++ {
		level = level.Add(step)
	}
	if !level.Equal(start) {
		t.Errorf("round trip ended at %v, want %v", level, start)
	}
}
