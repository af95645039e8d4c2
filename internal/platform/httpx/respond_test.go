package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRespondErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: plate", ErrValidation), http.StatusBadRequest},
		{ErrNotFound, http.StatusNotFound},
		{ErrTooLarge, http.StatusRequestEntityTooLarge},
		{ErrUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		RespondError(rr, tc.err)
		require.Equal(t, tc.status, rr.Code, tc.err.Error())
		require.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, errors.New("secret dsn"))
	require.NotContains(t, rr.Body.String(), "secret")
}

func TestDecodeJSON(t *testing.T) {
	var target struct {
		Plate string `json:"plate"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"plate":"PCQ-8981"}`))
	require.NoError(t, DecodeJSON(httptest.NewRecorder(), req, &target))
	require.Equal(t, "PCQ-8981", target.Plate)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"plate":"x","extra":1}`))
	require.ErrorIs(t, DecodeJSON(httptest.NewRecorder(), req, &target), ErrValidation)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	require.ErrorIs(t, DecodeJSON(httptest.NewRecorder(), req, &target), ErrValidation)

	big := `{"plate":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	require.ErrorIs(t, DecodeJSON(httptest.NewRecorder(), req, &target), ErrTooLarge)
}
