package id

import "testing"

func TestNewAndParseRoundTrip(t *testing.T) {
	prefixes := []Prefix{
		PrefixIngredient,
		PrefixMenuItem,
		PrefixOrder,
		PrefixInvoice,
		PrefixLineItem,
		PrefixTable,
		PrefixMovement,
	}

	for _, prefix := range prefixes {
		generated := New(prefix)
		if generated.IsNil() {
			t.Fatalf("New(%q) returned nil ID", prefix)
		}
		if generated.Prefix() != prefix {
			t.Errorf("Prefix() = %q, want %q", generated.Prefix(), prefix)
		}

		parsed, err := Parse(generated.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", generated.String(), err)
		}
		if parsed.String() != generated.String() {
			t.Errorf("round trip: got %q, want %q", parsed.String(), generated.String())
		}
	}
}

func TestParseWithPrefixRejectsMismatch(t *testing.T) {
	orderID := NewOrderID()

	if _, err := ParseIngredientID(orderID.String()); err == nil {
		t.Error("ParseIngredientID accepted an order ID")
	}
	if _, err := ParseOrderID(orderID.String()); err != nil {
		t.Errorf("ParseOrderID rejected its own prefix: %v", err)
	}
}

func TestParseInvalid(t *testing.T) {
	invalid := []string{"", "not a typeid", "ord_"}
	for _, s := range invalid {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", s)
		}
	}
}

func TestNilID(t *testing.T) {
	var zero ID
	if !zero.IsNil() {
		t.Error("zero ID is not nil")
	}
	if zero.String() != "" {
		t.Errorf("zero ID String() = %q, want empty", zero.String())
	}
	if zero.Prefix() != "" {
		t.Errorf("zero ID Prefix() = %q, want empty", zero.Prefix())
	}
}

func TestTextMarshalRoundTrip(t *testing.T) {
	original := NewMenuItemID()

	data, err := original.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}

	var decoded ID
	if err := decoded.UnmarshalText(data); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if decoded.String() != original.String() {
		t.Errorf("round trip: got %q, want %q", decoded.String(), original.String())
	}

	var nilDecoded ID
	if err := nilDecoded.UnmarshalText(nil); err != nil {
		t.Fatalf("UnmarshalText(nil): %v", err)
	}
	if !nilDecoded.IsNil() {
		t.Error("UnmarshalText(nil) produced non-nil ID")
	}
}

func TestSQLValueAndScan(t *testing.T) {
	original := NewTableID()

	v, err := original.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var scanned ID
	if err := scanned.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if scanned.String() != original.String() {
		t.Errorf("round trip: got %q, want %q", scanned.String(), original.String())
	}

	// Nil ID stores NULL.
	nv, err := Nil.Value()
	if err != nil {
		t.Fatalf("Nil.Value: %v", err)
	}
	if nv != nil {
		t.Errorf("Nil.Value() = %v, want nil", nv)
	}

	var fromNull ID
	if err := fromNull.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if !fromNull.IsNil() {
		t.Error("Scan(nil) produced non-nil ID")
	}
}
