package booking

import (
	"strings"
	"testing"
)

func TestNewConfirmationCode(t *testing.T) {
	code, err := NewConfirmationCode()
	if err != nil {
		t.Fatalf("NewConfirmationCode: %v", err)
	}
	if !strings.HasPrefix(code, "CR") {
		t.Errorf("code %q missing CR prefix", code)
	}
	if len(code) != 11 {
		t.Errorf("code %q has length %d, want 11", code, len(code))
	}
	for _, r := range code[2:] {
		if r < '0' || r > '9' {
			t.Errorf("code %q contains non-digit %q after prefix", code, r)
		}
	}
}
