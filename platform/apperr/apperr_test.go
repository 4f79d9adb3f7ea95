package apperr

import (
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindNotFound:    http.StatusNotFound,
		KindValidation:  http.StatusBadRequest,
		KindInternal:    http.StatusInternalServerError,
		KindUnavailable: http.StatusServiceUnavailable,
		KindUnknown:     http.StatusBadRequest,
	}

	for kind, want := range cases {
		if got := New(kind, "x").HTTPStatus(); got != want {
			t.Fatalf("kind %d: expected %d, got %d", kind, want, got)
		}
	}
}

func TestGetKindUnwrapsChains(t *testing.T) {
	err := fmt.Errorf("load vcard: %w", NotFound("vcard not found"))

	if !Is(err, KindNotFound) {
		t.Fatalf("expected wrapped error to be KindNotFound, got %d", GetKind(err))
	}
	if GetKind(fmt.Errorf("plain")) != KindUnknown {
		t.Fatal("expected KindUnknown for untyped errors")
	}
}
