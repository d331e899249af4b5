// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/db"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/notify"
	"github.com/danielhkuo/livepoll/service"
)

// SetupTestDB creates a fresh sqlite database file with the full schema.
// It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := "file:" + filepath.Join(t.TempDir(), "livepoll.db")
	conn, err := db.Open(context.Background(), db.DialectSQLite, url, 0, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(context.Background(), conn, db.DialectSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		DatabaseURL:      "file::memory:",
		DatabaseType:     cliparse.DatabaseSQLite,
		OriginSalt:       "test-origin-salt",
		TrustProxy:       true,
		LogLevel:         "debug",
		CORSOrigin:       "*",
		SubscriberBuffer: 8,
		PollCacheSize:    16,
	}
}

// NewTestStore returns a store over a fresh test database
func NewTestStore(t *testing.T) *db.Store {
	t.Helper()

	store, err := db.NewStore(SetupTestDB(t), db.DialectSQLite, 16, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

// NewTestService returns a service publishing straight to its hub
func NewTestService(t *testing.T) (*service.PollService, *notify.Hub) {
	t.Helper()

	hub := notify.NewHub(GetTestConfig().SubscriberBuffer, nil, zap.NewNop())
	return service.New(NewTestStore(t), hub, hub, nil, zap.NewNop()), hub
}

// CreateTestPoll stores a poll with the given option texts
func CreateTestPoll(t *testing.T, store service.Store, question string, options ...string) models.PollWithOptions {
	t.Helper()

	poll, err := store.CreatePoll(context.Background(), question, options)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return poll
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
