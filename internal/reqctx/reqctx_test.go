package reqctx

import (
	"context"
	"errors"
	"testing"
)

func TestWithRequestContext(t *testing.T) {
	ctx := WithRequestContext(context.Background(), "abc")
	if got := GetRequestContext(ctx).RequestID; got != "abc" {
		t.Errorf("Expected abc, got %s", got)
	}

	generated := GetRequestContext(WithRequestContext(context.Background(), "")).RequestID
	if len(generated) != 16 {
		t.Errorf("Expected 16 hex chars, got %q", generated)
	}

	if got := GetRequestContext(context.Background()).RequestID; got != "unknown" {
		t.Errorf("Expected unknown, got %s", got)
	}
}

func TestNewRequestError(t *testing.T) {
	base := errors.New("boom")
	err := NewRequestError(WithRequestContext(context.Background(), "r1"), base)

	if err.Error() != "[r1] boom" {
		t.Errorf("Unexpected message %q", err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("RequestError should unwrap")
	}
}
