package errors

import (
	"errors"
	"testing"
)

func TestWrap_UnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(DetectorFailure, "checksum detector", cause)
	if !errors.Is(err, cause) {
		t.Error("expected Wrap to preserve the original cause for errors.Is")
	}
}

func TestWrap_MatchesKindSentinel(t *testing.T) {
	err := Wrap(DetectorTimeout, "ssn detector exceeded budget", errors.New("deadline exceeded"))
	if !errors.Is(err, ErrDetectorTimeout) {
		t.Error("expected errors.Is to match the DetectorTimeout sentinel")
	}
	if errors.Is(err, ErrQueueFull) {
		t.Error("expected errors.Is to not match an unrelated sentinel")
	}
}

func TestNew_NoCause(t *testing.T) {
	err := New(InvalidInput, "text exceeds max_text_size")
	if errors.Unwrap(err) != nil {
		t.Error("expected New to produce an error with no wrapped cause")
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("expected errors.Is to match the InvalidInput sentinel")
	}
}

func TestAs_ExtractsKind(t *testing.T) {
	err := Wrap(QueueFull, "detection slot unavailable", nil)
	kind, ok := As(err)
	if !ok || kind != QueueFull {
		t.Errorf("expected As to extract QueueFull, got %v, %v", kind, ok)
	}

	if _, ok := As(errors.New("plain error")); ok {
		t.Error("expected As to report false for a non-*Error value")
	}
}
