package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	apiclient "github.com/Brigames121/ChatGPT-Beta/pkg/api/client"
)

func TestConfigRoundTrip(t *testing.T) {
	t.Setenv("TBX_CONFIG", filepath.Join(t.TempDir(), "config.json"))

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load missing config: %v", err)
	}
	if cfg.APIBaseURL != apiclient.DefaultBaseURL {
		t.Fatalf("unexpected default base url %q", cfg.APIBaseURL)
	}

	cfg.AccessToken = "tok"
	cfg.Role = "admin"
	cfg.ExpiresAt = time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	if err := saveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := loadConfig()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.AccessToken != "tok" || loaded.Role != "admin" || !loaded.ExpiresAt.Equal(cfg.ExpiresAt) {
		t.Fatalf("unexpected config %+v", loaded)
	}
}

func TestAuthedClientRequiresSession(t *testing.T) {
	t.Setenv("TBX_CONFIG", filepath.Join(t.TempDir(), "config.json"))
	if _, _, err := authedClient(); err == nil {
		t.Fatalf("expected login error")
	}

	if err := saveConfig(cliConfig{AccessToken: "tok", ExpiresAt: time.Now().Add(-time.Minute)}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, _, err := authedClient(); err == nil {
		t.Fatalf("expected expired session error")
	}
}

func TestApplyAPIBase(t *testing.T) {
	cfg := cliConfig{}
	applyAPIBase(&cfg, "")
	if cfg.APIBaseURL != apiclient.DefaultBaseURL {
		t.Fatalf("expected default, got %q", cfg.APIBaseURL)
	}
	applyAPIBase(&cfg, "http://example.com")
	if cfg.APIBaseURL != "http://example.com" {
		t.Fatalf("expected override, got %q", cfg.APIBaseURL)
	}
}

func TestSendChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"¡Hola!"}`))
	}))
	defer srv.Close()

	client, err := apiclient.New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	var out bytes.Buffer
	if err := sendChat(client, "tok", "hola", &out); err != nil {
		t.Fatalf("send chat: %v", err)
	}
	if out.String() != "¡Hola!\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}
