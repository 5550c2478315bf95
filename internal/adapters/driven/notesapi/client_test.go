package notesapi

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func weekZip(t *testing.T, names ...string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	for _, name := range names {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte("doc " + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// newTestClient points a client at srv and releases its connections on cleanup.
func newTestClient(t *testing.T, srv *httptest.Server, cfg Config) *Client {
	t.Helper()
	transport := &http.Transport{}
	t.Cleanup(transport.CloseIdleConnections)

	cfg.BaseURL = srv.URL
	cfg.HTTPClient = &http.Client{Transport: transport}
	return New(cfg)
}

func TestNew_Defaults(t *testing.T) {
	c := New(Config{})
	assert.Equal(t, "http://localhost:3002", c.baseURL)
	assert.Equal(t, 300*time.Second, c.client.Timeout)

	c = New(Config{BaseURL: "http://svc:8080/", Timeout: time.Second})
	assert.Equal(t, "http://svc:8080", c.baseURL)
	assert.Equal(t, time.Second, c.client.Timeout)
}

func TestGenerateGroupWeek_Success(t *testing.T) {
	archiveBody := weekZip(t, "Ann/1027.docx", "Ann/1028.docx", "summary.txt")

	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, GenerateGroupWeekPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/zip")
		w.Write(archiveBody)
	}))
	defer srv.Close()

	batch, err := newTestClient(t, srv, Config{}).GenerateGroupWeek(context.Background(), "group-1", "week-1")
	require.NoError(t, err)

	assert.Equal(t, generateRequest{GroupID: "group-1", WeekID: "week-1"}, got)
	assert.Equal(t, "group-1", batch.GroupID)
	assert.Equal(t, "week-1", batch.WeekID)
	assert.Equal(t, srv.URL+GenerateGroupWeekPath, batch.Source)
	require.Len(t, batch.Members, 3)
	assert.Equal(t, "Ann/1027.docx", batch.Members[0].Name)
}

func TestGenerateGroupWeek_BearerToken(t *testing.T) {
	archiveBody := weekZip(t, "1027.docx")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Write(archiveBody)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, Config{Token: "secret"}).GenerateGroupWeek(context.Background(), "g", "w")
	require.NoError(t, err)
}

func TestGenerateGroupWeek_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"weekId must be a UUID"}` + strings.Repeat(" ", 1000) + "tail"))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, Config{}).GenerateGroupWeek(context.Background(), "g", "w")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRetrieval)

	var re *domain.RetrievalError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusBadRequest, re.StatusCode)
	assert.Contains(t, err.Error(), "weekId must be a UUID")
	assert.NotContains(t, err.Error(), "tail")
}

func TestGenerateGroupWeek_EmptyErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, Config{}).GenerateGroupWeek(context.Background(), "g", "w")
	assert.EqualError(t, err, "retrieval request: status 502: Bad Gateway")
}

func TestGenerateGroupWeek_NonOKSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusAccepted, http.StatusNoContent, http.StatusPartialContent} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			body := weekZip(t, "1027.docx")
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(status)
				if status != http.StatusNoContent {
					w.Write(body)
				}
			}))
			defer srv.Close()

			batch, err := newTestClient(t, srv, Config{}).GenerateGroupWeek(context.Background(), "g", "w")
			assert.Nil(t, batch)
			assert.ErrorIs(t, err, domain.ErrRetrieval)

			var re *domain.RetrievalError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, status, re.StatusCode)
		})
	}
}

func TestGenerateGroupWeek_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, Config{Timeout: 50 * time.Millisecond}).
		GenerateGroupWeek(context.Background(), "g", "w")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRetrieval)
}

func TestGenerateGroupWeek_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(weekZip(t, "1027.docx"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, srv, Config{}).GenerateGroupWeek(ctx, "g", "w")
	assert.ErrorIs(t, err, domain.ErrRetrieval)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadBatch_SanityChecks(t *testing.T) {
	tests := []struct {
		name string
		body []byte
		is   error
		msg  string
	}{
		{"empty body", nil, domain.ErrInvalidInput, "empty response body"},
		{"json error page", []byte(`{"statusCode":500}`), domain.ErrInvalidInput, "not a zip archive"},
		{"no day codes", weekZip(t, "readme.txt", "Ann/notes.pdf"), domain.ErrNotFound, "no day-coded documents"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBatch(tt.body, "g", "w", "test")
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrRetrieval)
			assert.ErrorIs(t, err, tt.is)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
