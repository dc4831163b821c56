package serve

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/kvapp/api/common"
)

func TestNewServer(t *testing.T) {
	for _, engine := range []string{"pebble", "bolt"} {
		t.Run(engine, func(t *testing.T) {
			conf := &common.ServerConfig{
				BindAddr: "127.0.0.1",
				BindPort: 0,
				Metrics:  true,
				LogLevel: "info",
				Store: &common.StoreConfig{
					Name:   "default",
					Path:   filepath.Join(t.TempDir(), "db.kv"),
					Engine: engine,
				},
			}

			srv, err := NewServer(conf)
			if err != nil {
				t.Fatalf("NewServer failed: %v", err)
			}

			put := httptest.NewRequest(http.MethodPut, "/api/1", strings.NewReader("helloworld"))
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, put)
			if rec.Code != http.StatusOK {
				t.Fatalf("put: expected 200, got %d", rec.Code)
			}

			rec = httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("stats: expected 200, got %d", rec.Code)
			}

			// shut the server down to release the store
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				t.Fatalf("listen failed: %v", err)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			if err := srv.ServeListener(ctx, ln); err != nil {
				t.Fatalf("ServeListener returned %v", err)
			}
		})
	}
}

func TestNewServerUnopenablePath(t *testing.T) {
	for _, engine := range []string{"pebble", "bolt"} {
		t.Run(engine, func(t *testing.T) {
			// a regular file where the store directory should be
			path := filepath.Join(t.TempDir(), "file")
			if err := os.WriteFile(path, []byte("not a store"), 0o644); err != nil {
				t.Fatalf("failed to write file: %v", err)
			}

			conf := &common.ServerConfig{
				Store: &common.StoreConfig{Name: "default", Path: path, Engine: engine},
			}
			if _, err := NewServer(conf); err == nil {
				t.Fatal("Expected an error for a store path that is a regular file")
			}
		})
	}
}

func TestNewServerRequiresStoreConfig(t *testing.T) {
	if _, err := NewServer(&common.ServerConfig{}); err == nil {
		t.Fatal("Expected an error without a store config")
	}
}

func TestNewServerUnknownEngine(t *testing.T) {
	conf := &common.ServerConfig{
		Store: &common.StoreConfig{Name: "x", Path: t.TempDir(), Engine: "sled"},
	}
	if _, err := NewServer(conf); err == nil {
		t.Fatal("Expected an error for an unknown engine")
	}
}
