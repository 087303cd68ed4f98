package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"Shutter/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCaption(t *testing.T) {
	tests := []struct {
		name    string
		caption string
		want    []string
	}{
		{"words", "A dog running on the beach.", []string{"a", "dog", "running", "on", "the", "beach"}},
		{"duplicates", "Dog, dog and DOG!", []string{"dog", "and"}},
		{"hashtags", "#Sunset #beach #sunset", []string{"sunset", "beach"}},
		{"empty", "  ", []string{}},
		{"punctuation only", "... !!", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCaption(tt.caption))
		})
	}
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ParseTags("x #a y#b"))
	assert.Empty(t, ParseTags("none here"))
}

func fakeCompletions(t *testing.T, content string, status int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "vision-test", body["model"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"created": 0,
			"model":   "vision-test",
			"choices": []any{map[string]any{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
}

func TestCaption(t *testing.T) {
	srv := fakeCompletions(t, " Two cats on a sofa ", http.StatusOK)
	defer srv.Close()

	c := NewCaptioner(&config.Llm{BaseURL: srv.URL, APIKey: "test", Model: "vision-test", Timeout: 5})
	caption, err := c.Caption(context.Background(), "https://cdn.example.com/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "Two cats on a sofa", caption)
}

func TestCaptionErrors(t *testing.T) {
	srv := fakeCompletions(t, "", http.StatusOK)
	defer srv.Close()
	c := NewCaptioner(&config.Llm{BaseURL: srv.URL, APIKey: "test", Model: "vision-test"})
	_, err := c.Caption(context.Background(), "https://cdn.example.com/a.jpg")
	assert.ErrorIs(t, err, ErrEmptyCaption)

	failing := fakeCompletions(t, "", http.StatusInternalServerError)
	defer failing.Close()
	c = NewCaptioner(&config.Llm{BaseURL: failing.URL, APIKey: "test", Model: "vision-test"})
	_, err = c.Caption(context.Background(), "https://cdn.example.com/a.jpg")
	assert.Error(t, err)
}
