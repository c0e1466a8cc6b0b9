package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	base := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain error", err: base, want: ""},
		{name: "direct", err: NotFound("video not found", nil), want: KindNotFound},
		{name: "wrapped", err: fmt.Errorf("get video: %w", Dependency("store unavailable", base)), want: KindDependency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_UnwrapAndMessage(t *testing.T) {
	base := errors.New("connection refused")
	err := Dependency("entity store unavailable", base)

	if !errors.Is(err, base) {
		t.Error("expected errors.Is to reach the wrapped cause")
	}
	if err.Error() != "entity store unavailable: connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
	if Forbidden("not the owner").Error() != "not the owner" {
		t.Error("expected message without cause")
	}
}

func TestError_WithDetails(t *testing.T) {
	err := Validation("invalid input", nil).WithDetails("title is required", "description is required")
	if len(err.Details) != 2 {
		t.Fatalf("expected 2 details, got %d", len(err.Details))
	}
	if !Is(err, KindValidation) {
		t.Error("expected validation kind")
	}
}
