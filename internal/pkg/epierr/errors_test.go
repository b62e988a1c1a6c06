package epierr

import (
	"testing"

	"github.com/pkg/errors"
)

func TestImmutable(t *testing.T) {
	e := New(400, "INVALID_REQUEST", "invalid request: some or all request parameters are invalid")
	changedE := e.Msg("%s", "changed")
	if e.Message == "changed" {
		t.Errorf("Expected immutable error with message not equal to 'changed', got '%s'", e.Message)
	}
	if changedE.Message != "changed" {
		t.Errorf("Expected immutable error with message equal to 'changed', got '%s'", changedE.Message)
	}
}

func TestIsMatchesByCode(t *testing.T) {
	wrapped := errors.Wrap(ErrZeroDenominator.Msg("total is zero for exposure %s", "current"), "comparing")
	if !errors.Is(wrapped, ErrZeroDenominator) {
		t.Error("expected wrapped customized error to match its template by code")
	}
	if errors.Is(wrapped, ErrInsufficientData) {
		t.Error("expected differing codes not to match")
	}
}
