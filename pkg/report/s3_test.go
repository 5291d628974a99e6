package report

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves path-style PutObject and GetObject requests from memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		data, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.objects[r.URL.Path] = data
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		data, ok := f.objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+
				`<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3Archive(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	store := &fakeS3{objects: map[string][]byte{}}
	srv := httptest.NewServer(store)
	defer srv.Close()

	a, err := NewS3Archive(S3Options{Bucket: "ci", Prefix: "depreport/runs", Endpoint: srv.URL})
	require.NoError(t, err)
	defer a.Close()
	ctx := context.Background()

	rec := sampleRecord()
	require.NoError(t, a.Save(ctx, rec))

	store.mu.Lock()
	_, ok := store.objects["/ci/depreport/runs/"+rec.RunID+".json"]
	store.mu.Unlock()
	assert.True(t, ok, "record stored under bucket and prefix")

	got, err := a.Get(ctx, rec.RunID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	missing, err := a.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestNewS3ArchiveRequiresBucket(t *testing.T) {
	_, err := NewS3Archive(S3Options{})
	assert.Error(t, err)
}
