package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"status", &Error{Op: "create", Kind: KindStatus, StatusCode: 500}, "create: status 500"},
		{"status with message", &Error{Op: "list", Kind: KindStatus, StatusCode: 401, Message: "Permission denied"}, "list: status 401: Permission denied"},
		{"transport", &Error{Op: "list", Kind: KindTransport, Err: errors.New("connection refused")}, "list: transport: connection refused"},
		{"decode", &Error{Op: "create", Kind: KindDecode}, "create: decode error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIsKind_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading: %w", &Error{Op: "list", Kind: KindDecode})

	if !IsKind(err, KindDecode) {
		t.Error("expected wrapped error to be KindDecode")
	}
	if IsKind(err, KindStatus) {
		t.Error("expected wrapped error not to be KindStatus")
	}
	if IsKind(errors.New("plain"), KindDecode) {
		t.Error("plain error should not match any kind")
	}
}

func TestUnwrap_ContextDeadline(t *testing.T) {
	err := &Error{Op: "list", Kind: KindTransport, Err: context.DeadlineExceeded}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected errors.Is to reach context.DeadlineExceeded")
	}
}

func TestStatusCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", &Error{Op: "create", Kind: KindStatus, StatusCode: 403})
	if got := StatusCode(err); got != 403 {
		t.Errorf("expected 403, got %d", got)
	}
	if got := StatusCode(errors.New("x")); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}
