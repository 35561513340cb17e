package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/onbd/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	decode := func(body string) error {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		var v map[string]any
		return httpx.DecodeJSON(httptest.NewRecorder(), req, &v)
	}

	require.NoError(t, decode(`{"email":"a@example.com"}`))
	require.Error(t, decode(`{"a":1} {"b":2}`), "trailing data")

	var maxErr *http.MaxBytesError
	oversized := `{"pad":"` + strings.Repeat("x", 1<<20) + `"}`
	require.ErrorAs(t, decode(oversized), &maxErr)
	require.EqualValues(t, 1<<20, maxErr.Limit)
}
