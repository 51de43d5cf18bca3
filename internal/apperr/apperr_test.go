package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructorStatusCodes(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		err    *AppError
		code   string
		status int
	}{
		{BadRequest("bad"), CodeBadRequest, http.StatusBadRequest},
		{Unauthorized("nope"), CodeUnauthorized, http.StatusUnauthorized},
		{Forbidden("denied"), CodeForbidden, http.StatusForbidden},
		{NotFound("gone"), CodeNotFound, http.StatusNotFound},
		{Conflict("dupe"), CodeConflict, http.StatusConflict},
		{BadGateway("upstream", cause), CodeBadGateway, http.StatusBadGateway},
		{Internal("oops", cause), CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if tt.err.Code != tt.code {
			t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
		}
		if tt.err.StatusCode() != tt.status {
			t.Errorf("%s: expected status %d, got %d", tt.code, tt.status, tt.err.StatusCode())
		}
	}
}

func TestFrom(t *testing.T) {
	base := NotFound("booking not found")
	wrapped := fmt.Errorf("list bookings: %w", base)

	appErr, ok := From(wrapped)
	if !ok {
		t.Fatal("expected From to find the AppError in the chain")
	}
	if appErr.Message != "booking not found" {
		t.Errorf("unexpected message %q", appErr.Message)
	}

	if _, ok := From(errors.New("plain")); ok {
		t.Error("plain errors must not match")
	}
	if _, ok := From(nil); ok {
		t.Error("nil must not match")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := Internal("gateway unreachable", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
	if msg := err.Error(); msg != "INTERNAL_ERROR: gateway unreachable (caused by: dial tcp: timeout)" {
		t.Errorf("unexpected error string %q", msg)
	}
	if msg := BadRequest("bad").Error(); msg != "BAD_REQUEST: bad" {
		t.Errorf("unexpected error string %q", msg)
	}
}
