package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestErrorMessageCarriesOpAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindUnavailable, "catalog unavailable", cause).WithOp("catalog.ListTree")

	if want := "catalog.ListTree: catalog unavailable: connection refused"; err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected the cause to be reachable through Unwrap")
	}
	if err.HTTPStatus() != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", err.HTTPStatus())
	}
}

func TestHTTPStatusByKind(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{NotFound("job not found"), http.StatusNotFound},
		{Validation("bad stage"), http.StatusBadRequest},
		{BadRequest("invalid id"), http.StatusBadRequest},
		{Conflict("superseded"), http.StatusConflict},
		{Forbidden("forbidden"), http.StatusForbidden},
		{Unauthorized("missing token"), http.StatusUnauthorized},
		{Internal("internal server error"), http.StatusInternalServerError},
		{Unavailable("catalog unavailable"), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		if got := tt.err.HTTPStatus(); got != tt.want {
			t.Fatalf("%s: expected %d, got %d", tt.err.Message, tt.want, got)
		}
	}
}

func TestGetKindFollowsWrapping(t *testing.T) {
	err := errors.Join(errors.New("context"), Conflict("superseded"))
	if !Is(err, KindConflict) {
		t.Fatalf("expected a conflict kind, got %v", GetKind(err))
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Fatalf("expected an untyped error to be unknown")
	}
}
