package voice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestEngine(t *testing.T, handler http.HandlerFunc) *GoogleEngine {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	e := NewGoogleEngine("test-key", option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	require.NoError(t, e.Open(context.Background()))
	return e
}

func TestGoogleEngine_Synthesize(t *testing.T) {
	var body map[string]any
	e := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/text:synthesize", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"audioContent":"bXAzLWJ5dGVz"}`))
	})

	audio, err := e.Synthesize(context.Background(), "Hello there")
	require.NoError(t, err)
	assert.Equal(t, "bXAzLWJ5dGVz", audio)

	assert.Equal(t, map[string]any{"text": "Hello there"}, body["input"])
	assert.Equal(t, map[string]any{"languageCode": "en-US", "name": "en-US-Neural2-F", "ssmlGender": "FEMALE"}, body["voice"])
	assert.Equal(t, map[string]any{"audioEncoding": "MP3"}, body["audioConfig"])
}

func TestGoogleEngine_Transcribe(t *testing.T) {
	e := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/speech:recognize", r.URL.Path)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "YXVkaW8=", req["audio"].(map[string]any)["content"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"alternatives":[{"transcript":"I like technology"}]},{"alternatives":[{"transcript":" and design "}]}]}`))
	})

	text, err := e.Transcribe(context.Background(), Clip{Audio: []byte("audio"), Encoding: "WEBM_OPUS"})
	require.NoError(t, err)
	assert.Equal(t, "I like technology and design", text)
}

func TestGoogleEngine_UpstreamError(t *testing.T) {
	e := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"denied"}}`, http.StatusForbidden)
	})

	_, err := e.Synthesize(context.Background(), "Hello")
	var apiErr *APICallError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "synthesize", apiErr.Op)
}

func TestGoogleEngine_NotOpened(t *testing.T) {
	e := NewGoogleEngine("key")
	_, err := e.Synthesize(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotReady)

	err = NewGoogleEngine("").Open(context.Background())
	assert.Error(t, err)
}
