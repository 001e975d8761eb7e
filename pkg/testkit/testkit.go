// Package testkit holds shared helpers for HTTP handler tests.
package testkit

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// Envelope is the decoded response body every endpoint returns. Extra
// top-level keys (pagination fields, diagnostics) land in Rest.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Rest    map[string]interface{}
}

// JSONRequest builds a request with a JSON body and content type.
func JSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// MultipartRequest builds a multipart/form-data request from string fields
// and named file parts. Files map part filename to raw content; all file
// parts use the given field name.
func MultipartRequest(t *testing.T, method, target, fileField string, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, data := range files {
		part, err := mw.CreateFormFile(fileField, name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// Do runs the request through the handler and returns the recorder.
func Do(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// DecodeEnvelope parses the response body into an Envelope.
func DecodeEnvelope(t *testing.T, body io.Reader) Envelope {
	t.Helper()

	raw, err := io.ReadAll(body)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(raw, &env), "body: %s", string(raw))

	var rest map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &rest))
	delete(rest, "success")
	delete(rest, "message")
	delete(rest, "data")
	env.Rest = rest

	return env
}

// DecodeData unmarshals the envelope's data field into dest.
func DecodeData(t *testing.T, env Envelope, dest interface{}) {
	t.Helper()
	require.NotEmpty(t, env.Data, "envelope has no data field")
	require.NoError(t, json.Unmarshal(env.Data, dest))
}
