package chart

import (
	"errors"
	"testing"
)

func TestCodedErrorFormatting(t *testing.T) {
	err := newError(CodeElementNotFound, "no button matching RSI", nil)
	want := "ELEMENT_NOT_FOUND: no button matching RSI"
	if err.Error() != want {
		t.Fatalf("Error() = %q; want %q", err.Error(), want)
	}
}

func TestCodedErrorWrapsCause(t *testing.T) {
	cause := errors.New("websocket closed")
	err := newError(CodeCDPUnavailable, "connect failed", cause)

	if !errors.Is(err, cause) {
		t.Fatal("errors.Is() did not find the wrapped cause")
	}

	var coded *CodedError
	if !errors.As(err, &coded) {
		t.Fatal("errors.As() did not find *CodedError")
	}
	if coded.Code != CodeCDPUnavailable {
		t.Fatalf("Code = %q; want %q", coded.Code, CodeCDPUnavailable)
	}
	want := "CDP_UNAVAILABLE: connect failed: websocket closed"
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q; want %q", got, want)
	}
}
