package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
)

func TestJSONResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewJSONResponse().
		Status(http.StatusCreated).
		Header("X-Custom", "value").
		Body(map[string]int{"count": 2}).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if w.Header().Get("X-Custom") != "value" {
		t.Error("custom header not set")
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"count":2}` {
		t.Errorf("Body = %s", got)
	}
}

func TestJSONResponseBuilder_NoBody(t *testing.T) {
	w := httptest.NewRecorder()
	NewJSONResponse().Status(http.StatusNoContent).Write(w)

	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Errorf("got %d with body %q", w.Code, w.Body.String())
	}
}

func TestJSONResponseBuilder_EncodeFailure(t *testing.T) {
	w := httptest.NewRecorder()
	NewJSONResponse().Body(map[string]any{"ch": make(chan int)}).Write(w)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status code = %d, want 500", w.Code)
	}
}

func TestUnauthorizedError(t *testing.T) {
	w := httptest.NewRecorder()
	UnauthorizedError().Write(w)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Status code = %d", w.Code)
	}
	if got := w.Header().Get("WWW-Authenticate"); got != `Basic realm="fintrack"` {
		t.Errorf("WWW-Authenticate = %q", got)
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrInvalidYearMonth, http.StatusBadRequest},
		{fmt.Errorf("%w: 2024-13", core.ErrInvalidYearMonth), http.StatusBadRequest},
		{core.ErrInvalidYear, http.StatusBadRequest},
		{core.ErrInvalidDate, http.StatusBadRequest},
		{core.ErrInvalidPeriod, http.StatusBadRequest},
		{fmt.Errorf("%w: eof", errMalformedBody), http.StatusBadRequest},
		{core.ErrInvalidAmount, http.StatusUnprocessableEntity},
		{core.ErrInvalidDay, http.StatusUnprocessableEntity},
		{core.ErrInvalidCategoryType, http.StatusUnprocessableEntity},
		{core.ErrEmptyName, http.StatusUnprocessableEntity},
		{core.ErrInvalidReference, http.StatusUnprocessableEntity},
		{core.ErrMissingReference, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: note", core.ErrTooLong), http.StatusUnprocessableEntity},
		{fmt.Errorf("category x: %w", core.ErrNotFound), http.StatusNotFound},
		{core.ErrDuplicateCategory, http.StatusConflict},
		{core.ErrCategoryInUse, http.StatusConflict},
		{fmt.Errorf("query failed"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := StatusForError(tt.err); got != tt.want {
			t.Errorf("StatusForError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
