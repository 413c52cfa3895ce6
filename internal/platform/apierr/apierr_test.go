package apierr

import (
	"errors"
	"net/http"
	"testing"
)

func TestError_MessageFallbacks(t *testing.T) {
	cause := errors.New("boom")
	cases := []struct {
		name string
		err  *Error
		want string
	}{
		{"wrapped cause wins", New(500, "internal_error", cause), "boom"},
		{"code without cause", New(404, "session_not_found", nil), "session_not_found"},
		{"status only", New(418, "", nil), "api error (418)"},
		{"empty", &Error{}, "api error"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestError_UnwrapExposesCause(t *testing.T) {
	cause := errors.New("db down")
	if !errors.Is(Internal(cause), cause) {
		t.Fatalf("expected errors.Is to reach the wrapped cause")
	}
}

func TestConstructors_SetStatuses(t *testing.T) {
	if e := BadRequest("missing_field", nil); e.Status != http.StatusBadRequest {
		t.Fatalf("bad request status: %d", e.Status)
	}
	if e := NotFound("session_not_found", nil); e.Status != http.StatusNotFound {
		t.Fatalf("not found status: %d", e.Status)
	}
	if e := Conflict("invalid_transition", nil); e.Status != http.StatusConflict {
		t.Fatalf("conflict status: %d", e.Status)
	}
	e := Internal(errors.New("boom"))
	if e.Status != http.StatusInternalServerError || e.Code != "internal_error" {
		t.Fatalf("internal mapping: %d %s", e.Status, e.Code)
	}
}
