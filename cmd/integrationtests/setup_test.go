package integrationtests

import (
	"auction-site/internal/repository"
	"auction-site/internal/server"
	"auction-site/internal/session"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testSessions = func() *session.Manager {
	m, err := session.NewManager([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	if err != nil {
		panic(err)
	}
	return m
}()

// SetupTestRouter initializes the router over a private, migrated in-memory store.
func SetupTestRouter(t *testing.T) (*gin.Engine, *repository.GormStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := repository.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), "silent")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	router, err := server.SetupRouter(server.Dependencies{Store: store, Sessions: testSessions, SendBuffer: 8, ReadLimit: 4096})
	require.NoError(t, err)
	return router, store
}

// ExecuteRequest executes an HTTP request and returns the response recorder.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the
// JSON envelope. On success it returns the envelope's data.
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (any, *httptest.ResponseRecorder) {
	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := ExecuteRequest(t, router, method, url, reqBody)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	if w.Code < 300 {
		return resp["data"], w
	}
	return resp, w
}

// CreateRecord posts body to the admin API and returns the new record's id.
func CreateRecord(t *testing.T, router *gin.Engine, entity string, body any) uint {
	t.Helper()
	data, w := ExecuteRequestAndParse(t, router, "POST", "/admin/"+entity, body)
	require.Equal(t, 201, w.Code, w.Body.String())
	id, ok := data.(map[string]any)["id"].(float64)
	require.True(t, ok)
	return uint(id)
}
