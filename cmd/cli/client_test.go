package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_DownloadStatic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/download", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "audio", body["format"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"Use one of these free services to download:","downloadServices":[{"name":"Y2Mate","url":"https://y2mate.com","desc":"Free"}]}`))
	}))
	defer srv.Close()

	result, err := newClient(srv.URL+"/").Download("https://youtu.be/x", "audio")
	require.NoError(t, err)
	require.Len(t, result.DownloadServices, 1)
	assert.Equal(t, "Free", result.DownloadServices[0].Description)
}

func TestClient_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Invalid URL format detected"}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).Download("https://youtu.be/x;ls", "video")
	require.Error(t, err)
	assert.Equal(t, "server returned 400: Invalid URL format detected", err.Error())
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	var out map[string]any
	err := newClient(srv.URL).getJSON("/api/history/stats", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "bad gateway")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "日本語のフ...", truncate("日本語のファイル名です", 8))
}

func TestServerEnv(t *testing.T) {
	env := serverEnv("http://localhost:4123")
	assert.Equal(t, "PORT=4123", env[len(env)-1])

	assert.NotContains(t, serverEnv("http://localhost"), "PORT=")
}

func TestIsServerRunning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","version":"1.0.0","mode":"download"}`))
	}))
	defer srv.Close()

	old := serverURL
	t.Cleanup(func() { serverURL = old })

	serverURL = srv.URL
	assert.True(t, isServerRunning())

	serverURL = "http://127.0.0.1:1"
	assert.False(t, isServerRunning())
}
