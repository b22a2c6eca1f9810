package domain

import (
	"strings"
	"testing"
)

func TestBillID(t *testing.T) {
	t.Parallel()

	identity := BillIdentity{Congress: 118, Type: BillTypeHJRes, Number: 45}
	if got := identity.BillID(); got != "hjres45-118" {
		t.Fatalf("BillID = %s, want hjres45-118", got)
	}
}

func TestHouseOrigin(t *testing.T) {
	t.Parallel()

	houseTypes := []BillType{BillTypeHR, BillTypeHJRes, BillTypeHConRes, BillTypeHRes}
	for _, bt := range houseTypes {
		if !bt.HouseOrigin() {
			t.Fatalf("%s should be house-origin", bt)
		}
	}

	senateTypes := []BillType{BillTypeS, BillTypeSJRes, BillTypeSConRes, BillTypeSRes}
	for _, bt := range senateTypes {
		if bt.HouseOrigin() {
			t.Fatalf("%s should not be house-origin", bt)
		}
	}
}

func TestIdentityComplete(t *testing.T) {
	t.Parallel()

	complete := BillIdentity{Congress: 118, Type: BillTypeS, Number: 1}
	if !complete.Complete() {
		t.Fatal("identity should be complete")
	}

	for _, identity := range []BillIdentity{
		{Congress: 0, Type: BillTypeS, Number: 1},
		{Congress: 118, Type: "hb", Number: 1},
		{Congress: 118, Type: BillTypeS, Number: 0},
	} {
		if identity.Complete() {
			t.Fatalf("identity %+v should be incomplete", identity)
		}
	}
}

func TestNewAcquiredTextEnforcesMinimum(t *testing.T) {
	t.Parallel()

	short := NewAcquiredText("under one hundred characters", SourceAPIPDF)
	if short.Source != SourceNone || short.Content != "" {
		t.Fatalf("short text must be absent, got %+v", short)
	}

	long := NewAcquiredText(strings.Repeat("x", MinTextChars), SourceScraped)
	if long.Source != SourceScraped || long.Length != MinTextChars {
		t.Fatalf("unexpected acquired text: %+v", long)
	}
	if long.Absent() {
		t.Fatal("long text should not be absent")
	}
}
