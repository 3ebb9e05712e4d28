package errors

import (
	stderrors "errors"
	"testing"
)

func TestNewAndError(t *testing.T) {
	err := New(ErrorTypeTimeout, "job did not complete")
	if err.Error() != "timeout: job did not complete" {
		t.Errorf("unexpected error string: %q", err.Error())
	}
	if len(err.Stack) == 0 {
		t.Error("expected captured stack")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := Wrap(cause, ErrorTypeConnection, "fetch failed")

	if !stderrors.Is(err, cause) {
		t.Error("expected wrapped error to match cause")
	}
	if err.Error() != "connection: fetch failed: connection reset" {
		t.Errorf("unexpected error string: %q", err.Error())
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, ErrorTypeInternal, "ignored") != nil {
		t.Error("wrapping nil must return nil")
	}
}

func TestIsType(t *testing.T) {
	err := New(ErrorTypeOperation, "remote operation failed")

	if !IsType(err, ErrorTypeOperation) {
		t.Error("expected operation type match")
	}
	if IsType(err, ErrorTypeTimeout) {
		t.Error("unexpected timeout type match")
	}
	if IsType(stderrors.New("plain"), ErrorTypeOperation) {
		t.Error("plain errors must not match any type")
	}

	// Type checks see through wrapping.
	wrapped := Wrap(err, ErrorTypeQuery, "outer")
	if !IsType(wrapped, ErrorTypeQuery) {
		t.Error("expected outermost type to match")
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(New(ErrorTypeTimeout, "t")) {
		t.Error("timeouts are retryable")
	}
	if !IsRetryable(New(ErrorTypeConnection, "c")) {
		t.Error("connection errors are retryable")
	}
	if IsRetryable(New(ErrorTypeOperation, "o")) {
		t.Error("operation failures are not retryable")
	}
}

func TestDetails(t *testing.T) {
	err := New(ErrorTypeOperation, "remote operation failed").
		WithDetail("operation_id", "op-1").
		WithDetail("state", "FAILED")

	v, ok := Detail(err, "operation_id")
	if !ok || v != "op-1" {
		t.Errorf("expected operation_id detail, got %v (%v)", v, ok)
	}
	if _, ok := Detail(err, "missing"); ok {
		t.Error("unexpected detail match")
	}
}
