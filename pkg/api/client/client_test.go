package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cli, err := New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return cli
}

func TestNewNormalizesBaseURL(t *testing.T) {
	cli, err := New(" localhost:3000/ ")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if cli.baseURL != "http://localhost:3000" {
		t.Fatalf("unexpected base url %q", cli.baseURL)
	}
	cli, err = New("")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if cli.baseURL != DefaultBaseURL {
		t.Fatalf("unexpected default base url %q", cli.baseURL)
	}
}

func TestLogin(t *testing.T) {
	cli := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["email"] != "a@example.com" || body["password"] != "pw" {
			t.Errorf("unexpected credentials %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true, "token": "tok", "expiresIn": 3600, "role": "user", "username": "alice",
		})
	})

	resp, err := cli.Login(context.Background(), "a@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token != "tok" || resp.Expiry() != time.Hour || resp.Username != "alice" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestErrorResponse(t *testing.T) {
	cli := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"invalid email or password"}`))
	})

	_, err := cli.Login(context.Background(), "a@example.com", "bad")
	var apiErr APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "invalid email or password" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
}

func TestAuthenticatedCallsSendBearer(t *testing.T) {
	cli := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("unexpected authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/session":
			_, _ = w.Write([]byte(`{"success":true,"user":{"id":"u1","email":"a@example.com","username":"alice","role":"admin"}}`))
		case "/api/chat":
			_, _ = w.Write([]byte(`{"response":"hola"}`))
		case "/api/admin/settings":
			if r.Method == http.MethodPost {
				_, _ = w.Write([]byte(`{"success":true,"message":"Setting welcomeMessage saved successfully."}`))
				return
			}
			_, _ = w.Write([]byte(`{"success":true,"settings":[{"settingId":"welcomeMessage","value":"hi","updatedBy":"alice"}]}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	user, err := cli.Session(ctx, "tok")
	if err != nil || user.Role != "admin" || user.ID != "u1" {
		t.Fatalf("session: %+v %v", user, err)
	}
	reply, err := cli.Chat(ctx, "tok", "hola?")
	if err != nil || reply != "hola" {
		t.Fatalf("chat: %q %v", reply, err)
	}
	msg, err := cli.SaveSetting(ctx, "tok", "welcomeMessage", "hi")
	if err != nil || msg != "Setting welcomeMessage saved successfully." {
		t.Fatalf("save setting: %q %v", msg, err)
	}
	settings, err := cli.ListSettings(ctx, "tok")
	if err != nil || len(settings) != 1 || settings[0].Value != "hi" {
		t.Fatalf("list settings: %+v %v", settings, err)
	}
}

func TestChannelData(t *testing.T) {
	cli := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("channel data must not require a token")
		}
		_, _ = w.Write([]byte(`{"subscribers":15400,"channelName":"TechnoByteX","welcomeMessage":"hi","videos":[{"title":"a","thumbnail":"/img/a.jpg","id":"V1"}]}`))
	})
	data, err := cli.ChannelData(context.Background())
	if err != nil {
		t.Fatalf("channel data: %v", err)
	}
	if data.Subscribers != 15400 || len(data.Videos) != 1 || data.Videos[0].ID != "V1" {
		t.Fatalf("unexpected channel data %+v", data)
	}
}
