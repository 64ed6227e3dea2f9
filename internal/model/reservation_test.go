package model

import "testing"

func TestParseStatusSpanish(t *testing.T) {
	cases := map[string]Status{
		"PENDIENTE":  StatusPending,
		"CONFIRMADA": StatusConfirmed,
		"FINALIZADA": StatusFinalized,
		"CANCELADA":  StatusCancelled,
		"confirmada": StatusConfirmed,
		" pendiente": StatusPending,
	}
	for in, want := range cases {
		got, err := ParseStatus(in)
		if err != nil {
			t.Errorf("ParseStatus(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseStatus(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestParseStatusEnglish(t *testing.T) {
	cases := map[string]Status{
		"pending":   StatusPending,
		"confirmed": StatusConfirmed,
		"completed": StatusFinalized,
		"finalized": StatusFinalized,
		"cancelled": StatusCancelled,
		"canceled":  StatusCancelled,
	}
	for in, want := range cases {
		got, err := ParseStatus(in)
		if err != nil {
			t.Errorf("ParseStatus(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseStatus(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestParseStatusEmptyDefaultsToPending(t *testing.T) {
	got, err := ParseStatus("")
	if err != nil {
		t.Fatalf("ParseStatus(\"\"): %v", err)
	}
	if got != StatusPending {
		t.Errorf("ParseStatus(\"\") = %s, want PENDIENTE", got)
	}
}

func TestParseStatusUnknown(t *testing.T) {
	if _, err := ParseStatus("archived"); err == nil {
		t.Error("ParseStatus accepted an unknown status")
	}
}

func TestBlocks(t *testing.T) {
	if !StatusConfirmed.Blocks() {
		t.Error("CONFIRMADA must block availability")
	}
	for _, st := range []Status{StatusPending, StatusFinalized, StatusCancelled} {
		if st.Blocks() {
			t.Errorf("%s must not block availability", st)
		}
	}
}
