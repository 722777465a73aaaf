package httpx

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/Brigames121/ChatGPT-Beta/internal/apperr"
	"github.com/Brigames121/ChatGPT-Beta/internal/service/auth"
	"github.com/Brigames121/ChatGPT-Beta/internal/service/channel"
	"github.com/Brigames121/ChatGPT-Beta/internal/service/chat"
	"github.com/Brigames121/ChatGPT-Beta/internal/service/settings"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck reports the state of one backing component on /healthz.
type HealthCheck struct {
	Name  string
	Check func(context.Context) error
}

// Router wires HTTP endpoints to services.
type Router struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	auth     auth.Service
	settings settings.Service
	channel  channel.Service
	chat     chat.Service
	static   http.Handler
	checks   []HealthCheck
	metrics  *metrics
}

// NewRouter assembles routes with dependencies. Files under staticDir are
// served for every path outside the API; an empty staticDir disables them.
func NewRouter(logger *slog.Logger, authSvc auth.Service, settingsSvc settings.Service, channelSvc channel.Service, chatSvc chat.Service, staticDir string, checks ...HealthCheck) *Router {
	r := &Router{
		mux:      http.NewServeMux(),
		logger:   logger,
		auth:     authSvc,
		settings: settingsSvc,
		channel:  channelSvc,
		chat:     chatSvc,
		checks:   checks,
		metrics:  newMetrics(),
	}
	if dir := strings.TrimSpace(staticDir); dir != "" {
		r.static = http.FileServer(http.Dir(dir))
	}
	r.register()
	return r
}

// ServeHTTP delegates to underlying mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) register() {
	r.mux.HandleFunc("/healthz", r.audit("healthz", r.handleHealthz))
	r.mux.Handle("/metrics", r.metrics.handler())
	r.mux.HandleFunc("/api/register", r.audit("register", r.handleRegister))
	r.mux.HandleFunc("/api/login", r.audit("login", r.handleLogin))
	r.mux.HandleFunc("/api/session", r.audit("session", r.requireAuth(r.handleSession)))
	r.mux.HandleFunc("/api/chat", r.audit("chat", r.requireAuth(r.handleChat)))
	r.mux.HandleFunc("/api/channel-data", r.audit("channel_data", r.handleChannelData))
	r.mux.HandleFunc("/api/admin/settings", r.audit("admin_settings", r.requireAdmin(r.handleAdminSettings)))
	r.mux.HandleFunc("/api/", r.audit("api_unknown", func(w http.ResponseWriter, _ *http.Request) { r.notFound(w) }))
	r.mux.HandleFunc("/", r.audit("static", r.handleStatic))
}

func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Username string `json:"username"`
	}
	if err := decodeJSON(w, req, &payload); err != nil {
		r.fail(w, req, err)
		return
	}
	res, err := r.auth.Register(req.Context(), payload.Email, payload.Password, payload.Username)
	if err != nil {
		r.fail(w, req, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"message":    res.Message,
		"redirectTo": res.RedirectTo,
	})
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, req, &payload); err != nil {
		r.fail(w, req, err)
		return
	}
	res, err := r.auth.Login(req.Context(), payload.Email, payload.Password)
	if err != nil {
		r.fail(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    res.Message,
		"redirectTo": res.RedirectTo,
		"token":      res.Token,
		"expiresIn":  int64(res.ExpiresIn / time.Second),
		"role":       res.User.Role,
		"username":   res.User.Username,
	})
}

func (r *Router) handleSession(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	principal, ok := principalFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for session", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user": map[string]any{
			"id":       principal.UserID,
			"email":    principal.Email,
			"username": principal.Username,
			"role":     principal.Role,
		},
	})
}

func (r *Router) handleChat(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(w, req, &payload); err != nil {
		r.fail(w, req, err)
		return
	}
	reply, err := r.chat.Reply(req.Context(), payload.Message)
	if err != nil {
		r.fail(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": reply})
}

func (r *Router) handleChannelData(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, r.channel.Data(req.Context()))
}

func (r *Router) handleAdminSettings(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		list, err := r.settings.List(req.Context())
		if err != nil {
			r.fail(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "settings": list})
	case http.MethodPost:
		var payload struct {
			SettingID string `json:"settingId"`
			Value     string `json:"value"`
		}
		if err := decodeJSON(w, req, &payload); err != nil {
			r.fail(w, req, err)
			return
		}
		principal, _ := principalFromContext(req.Context())
		msg, err := r.settings.Save(req.Context(), principal.Email, payload.SettingID, payload.Value)
		if err != nil {
			r.fail(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": msg})
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleStatic(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		r.methodNotAllowed(w)
		return
	}
	if r.static == nil {
		r.notFound(w)
		return
	}
	r.static.ServeHTTP(w, req)
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	components := make(map[string]any)
	status := "ok"
	for _, check := range r.checks {
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		err := check.Check(ctx)
		cancel()
		if err != nil {
			status = "degraded"
			components[check.Name] = map[string]any{
				"status": "down",
				"error":  err.Error(),
			}
			continue
		}
		components[check.Name] = map[string]any{"status": "up"}
	}
	chatStatus := "disabled"
	if r.chat.Available() {
		chatStatus = "configured"
	}
	components["chat"] = map[string]any{"status": chatStatus}
	payload := map[string]any{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
	}
	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, payload)
}

// fail logs err and writes its classified status and public message.
func (r *Router) fail(w http.ResponseWriter, req *http.Request, err error) {
	status, msg := statusFor(err)
	code := apperr.CodeOf(err)
	fields := []any{"path", req.URL.Path, "code", code, "error", err}
	if status >= http.StatusInternalServerError {
		r.logger.Error("request failed", fields...)
	} else {
		r.logger.Warn("request rejected", fields...)
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		r.metrics.recordAuthFailure(req.URL.Path, code)
	}
	writeError(w, status, msg)
}

func (r *Router) audit(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next(recorder, req)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		ctx := recorder.ctx
		if ctx == nil {
			ctx = req.Context()
		}
		duration := time.Since(start)
		r.metrics.recordRequest(req.Method, route, status, duration)

		actor := "anonymous"
		fields := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"bytes", recorder.bytes,
			"duration_ms", duration.Milliseconds(),
		}
		if ip := clientIP(req); ip != "" {
			fields = append(fields, "ip", ip)
		}
		if reqID := strings.TrimSpace(req.Header.Get("X-Request-ID")); reqID != "" {
			fields = append(fields, "request_id", reqID)
		}
		if principal, ok := principalFromContext(ctx); ok {
			actor = "user"
			if principal.IsAdmin() {
				actor = "admin"
			}
			fields = append(fields, "user_id", principal.UserID, "role", principal.Role)
		}
		fields = append(fields, "actor", actor)

		switch {
		case status >= http.StatusInternalServerError:
			r.logger.Error("http_request", fields...)
		case status >= http.StatusBadRequest:
			r.logger.Warn("http_request", fields...)
		case route == "static":
			r.logger.Debug("http_request", fields...)
		default:
			r.logger.Info("http_request", fields...)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	ctx    context.Context
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func (sr *statusRecorder) SetContext(ctx context.Context) {
	sr.ctx = ctx
}

func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := sr.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, errors.New("hijacker not supported")
}

func clientIP(req *http.Request) string {
	if forwarded := strings.TrimSpace(req.Header.Get("X-Forwarded-For")); forwarded != "" {
		if ip := strings.TrimSpace(strings.Split(forwarded, ",")[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(req.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(req.RemoteAddr)
	}
	return host
}

func (r *Router) methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (r *Router) notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "not found")
}
