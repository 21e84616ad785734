package ai

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pollinationsAgainst(url string) *PollinationsProvider {
	p := NewPollinationsProvider()
	p.endpoint = url
	return p
}

func TestPollinationsGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"content":"\"A quiet nod, then a smile.\""}}]}`)
	}))
	defer srv.Close()

	reply, err := pollinationsAgainst(srv.URL).Generate([]Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "A quiet nod, then a smile.", reply, "wrapping quotes are stripped")
}

func TestPollinationsStripsThinkBlocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"content":"<think>internal musing</think>She tilts her head, considering."}}]}`)
	}))
	defer srv.Close()

	reply, err := pollinationsAgainst(srv.URL).Generate(nil)
	require.NoError(t, err)
	assert.Equal(t, "She tilts her head, considering.", reply)
}

func TestPollinationsErrorPaths(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			name: "http error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "overloaded", http.StatusServiceUnavailable)
			},
			wantErr: "pollinations http 503",
		},
		{
			name: "html instead of json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				fmt.Fprint(w, "<html><body>captcha</body></html>")
			},
			wantErr: "returned html",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, "{not json")
			},
			wantErr: "pollinations unmarshal",
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, `{"choices":[]}`)
			},
			wantErr: "empty choices",
		},
		{
			name: "garbage reply",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, `{"choices":[{"message":{"content":"ok"}}]}`)
			},
			wantErr: "garbage",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := pollinationsAgainst(srv.URL).Generate(nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestG4FGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"content":"The stars say otherwise."}}]}`)
	}))
	defer srv.Close()

	p := NewG4FProvider()
	p.baseURL = srv.URL

	reply, err := p.Generate([]Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "The stars say otherwise.", reply)
}
