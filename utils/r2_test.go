package utils

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"rps-game-system/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	method      string
	path        string
	contentType string
	body        string
}

// fakeBucket answers S3 requests with status and records what it received.
func fakeBucket(t *testing.T, status int, respBody string) (*httptest.Server, func() []capturedRequest) {
	t.Helper()

	var mu sync.Mutex
	var got []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		got = append(got, capturedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			body:        string(body),
		})
		mu.Unlock()

		if status == http.StatusOK {
			w.Header().Set("ETag", `"etag"`)
		} else {
			w.Header().Set("Content-Type", "application/xml")
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)

	return srv, func() []capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]capturedRequest(nil), got...)
	}
}

func testR2Config(endpoint string) config.R2Config {
	return config.R2Config{
		Endpoint:        endpoint,
		Bucket:          "stats-bucket",
		AccessKeyID:     "key",
		AccessKeySecret: "secret",
	}
}

func TestR2PutJSON(t *testing.T) {
	srv, requests := fakeBucket(t, http.StatusOK, "")

	client, err := NewR2Client(context.Background(), testR2Config(srv.URL))
	require.NoError(t, err)

	err = client.PutJSON(context.Background(), "stats/latest.json", []byte(`{"total_matches":3}`))
	require.NoError(t, err)

	got := requests()
	require.Len(t, got, 1)
	assert.Equal(t, http.MethodPut, got[0].method)
	assert.Equal(t, "/stats-bucket/stats/latest.json", got[0].path)
	assert.Equal(t, "application/json", got[0].contentType)
	assert.Contains(t, got[0].body, `{"total_matches":3}`)
}

func TestR2PutJSONWrapsUploadError(t *testing.T) {
	srv, requests := fakeBucket(t, http.StatusForbidden,
		`<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`)

	client, err := NewR2Client(context.Background(), testR2Config(srv.URL))
	require.NoError(t, err)

	err = client.PutJSON(context.Background(), "stats/latest.json", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload stats/latest.json to R2")
	assert.Contains(t, err.Error(), "AccessDenied")
	assert.Len(t, requests(), 1)
}
