package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type fakeDB struct {
	up     bool
	closed bool
}

func (f *fakeDB) Health(ctx context.Context) map[string]string {
	if f.up {
		return map[string]string{"status": "up"}
	}
	return map[string]string{"status": "down", "error": "db down: refused"}
}

func (f *fakeDB) DB() *sql.DB { return nil }

func (f *fakeDB) Close() error {
	f.closed = true
	return nil
}

func newTestServer(t *testing.T, db *fakeDB) *Server {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	v := viper.New()
	config.SetDefaults(v)
	cfg := config.FromViper(v)

	srv, err := NewServer(cfg, zap.NewNop(), db, redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return srv
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		up     bool
		status int
		body   string
	}{
		{name: "database up", up: true, status: http.StatusOK, body: "ok"},
		{name: "database down", up: false, status: http.StatusServiceUnavailable, body: "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeDB{up: tt.up})

			w := httptest.NewRecorder()
			srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}

			var body map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body["status"] != tt.body {
				t.Errorf("expected status %q, got %v", tt.body, body["status"])
			}
			if body["redis"] != "up" {
				t.Errorf("expected redis up, got %v", body["redis"])
			}
		})
	}
}

func TestRoutesAreGated(t *testing.T) {
	srv := newTestServer(t, &fakeDB{up: true})

	for _, path := range []string{"/admin_home/", "/customer/view_cart/", "/order/00000000-0000-0000-0000-000000000000/update_status/"} {
		w := httptest.NewRecorder()
		srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		if w.Code != http.StatusFound || w.Header().Get("Location") != "/login/" {
			t.Errorf("%s: expected redirect to login, got %d", path, w.Code)
		}
	}

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login/", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected the login page, got %d", w.Code)
	}
}

func TestBootstrapStaff_Disabled(t *testing.T) {
	srv := newTestServer(t, &fakeDB{up: true})
	srv.config.Staff.Username = ""

	if err := srv.BootstrapStaff(context.Background()); err != nil {
		t.Errorf("expected no-op, got %v", err)
	}
}

func TestClose(t *testing.T) {
	db := &fakeDB{up: true}
	srv := newTestServer(t, db)

	if err := srv.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !db.closed {
		t.Error("expected the database to be closed")
	}
}
