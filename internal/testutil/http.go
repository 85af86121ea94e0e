package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

// Envelope mirrors the response wrapper with data left raw for the caller to decode
type Envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Count     *int            `json:"count"`
	Data      json.RawMessage `json:"data"`
	WeekRange json.RawMessage `json:"weekRange"`
	Errors    []string        `json:"errors"`
}

// DecodeData unmarshals the data field into dst
func (e Envelope) DecodeData(t testing.TB, dst interface{}) {
	t.Helper()
	require.NotEmpty(t, e.Data, "response has no data")
	require.NoError(t, json.Unmarshal(e.Data, dst))
}

// Do sends a JSON request through h and decodes the envelope.
// body may be nil, a string sent verbatim, or any value to marshal.
func Do(t testing.TB, h http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	Bearer(req, token)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env Envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}
