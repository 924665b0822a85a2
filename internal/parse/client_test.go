package parse

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	return &Client{
		baseURL:      baseURL,
		apiKey:       "test-key",
		httpClient:   &http.Client{Timeout: 5 * time.Second},
		pollInterval: 5 * time.Millisecond,
	}
}

func writeTempPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644))
	return path
}

func TestParseJSON_PollsUntilSuccess(t *testing.T) {
	var statusCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/parsing/upload", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, fh, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "doc.pdf", fh.Filename)
		json.NewEncoder(w).Encode(uploadResponse{ID: "job-1", Status: "PENDING"})
	})
	mux.HandleFunc("GET /api/parsing/job/job-1", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&statusCalls, 1)
		status := "PENDING"
		if n >= 3 {
			status = "SUCCESS"
		}
		json.NewEncoder(w).Encode(jobStatusResponse{ID: "job-1", Status: status})
	})
	mux.HandleFunc("GET /api/parsing/job/job-1/result/json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(jsonResultResponse{Pages: []Page{
			{Page: 1, Text: "page one", Images: []ImageDescriptor{{Name: "img_p1_1.png", Width: 10, Height: 10}}},
			{Page: 2, Text: "page two"},
		}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	result, err := testClient(srv.URL).ParseJSON(context.Background(), writeTempPDF(t))
	require.NoError(t, err)
	assert.Equal(t, "job-1", result.JobID)
	require.Len(t, result.Pages, 2)
	assert.Equal(t, "page one", result.Pages[0].Text)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&statusCalls), int32(3))
}

func TestParseJSON_JobError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/parsing/upload", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(uploadResponse{ID: "job-2", Status: "PENDING"})
	})
	mux.HandleFunc("GET /api/parsing/job/job-2", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(jobStatusResponse{ID: "job-2", Status: "ERROR", Error: "broken pdf"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := testClient(srv.URL).ParseJSON(context.Background(), writeTempPDF(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pdf")
}

func TestParseJSON_ContextBoundsPolling(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/parsing/upload", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(uploadResponse{ID: "job-3", Status: "PENDING"})
	})
	mux.HandleFunc("GET /api/parsing/job/job-3", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(jobStatusResponse{ID: "job-3", Status: "PENDING"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := testClient(srv.URL).ParseJSON(ctx, writeTempPDF(t))
	require.Error(t, err)
}

func TestParseJSON_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ParseJSON(context.Background(), writeTempPDF(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestExtractImages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/parsing/job/job-9/result/image/", func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Base(r.URL.Path)
		w.Write([]byte("bytes-of-" + name))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	result := &Result{
		JobID: "job-9",
		Pages: []Page{
			{Page: 1, Images: []ImageDescriptor{{Name: "a.png"}, {Name: "b.png"}}},
			{Page: 3, Images: []ImageDescriptor{{Name: "c.png"}}},
		},
	}
	outDir := filepath.Join(t.TempDir(), "images")
	refs, err := testClient(srv.URL).ExtractImages(context.Background(), result, outDir)
	require.NoError(t, err)
	require.Len(t, refs, 3)

	assert.Equal(t, "a.png", refs[0].Name)
	assert.Equal(t, int32(1), refs[0].Page)
	assert.Equal(t, int32(3), refs[2].Page)

	data, err := os.ReadFile(refs[1].Path)
	require.NoError(t, err)
	assert.Equal(t, "bytes-of-b.png", string(data))
}

func TestExtractImages_RejectsTraversalNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("owned"))
	}))
	defer srv.Close()

	base := t.TempDir()
	outDir := filepath.Join(base, "images")
	for _, name := range []string{"../escaped.txt", "a/b.png", `..\up.png`, "..", ""} {
		result := &Result{
			JobID: "job-x",
			Pages: []Page{{Page: 1, Images: []ImageDescriptor{{Name: name}}}},
		}
		_, err := testClient(srv.URL).ExtractImages(context.Background(), result, outDir)
		require.Error(t, err, "name %q must be rejected", name)
	}
	_, statErr := os.Stat(filepath.Join(base, "escaped.txt"))
	assert.True(t, os.IsNotExist(statErr), "no file may land outside the output dir")
}

func TestExtractImages_NoResult(t *testing.T) {
	_, err := testClient("http://invalid").ExtractImages(context.Background(), nil, t.TempDir())
	require.Error(t, err)
}

func TestClientEnabled(t *testing.T) {
	c := &Client{}
	assert.False(t, c.Enabled())
	c.apiKey = "k"
	assert.True(t, c.Enabled())
}
