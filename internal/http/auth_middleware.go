package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Brigames121/ChatGPT-Beta/internal/apperr"
	"github.com/Brigames121/ChatGPT-Beta/internal/service/auth"
)

type authContextKey string

const contextKeyPrincipal authContextKey = "technobytex-principal"

type contextSetter interface {
	SetContext(context.Context)
}

// requireAuth ensures the request has a valid bearer token before invoking the handler.
func (r *Router) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx, _, ok := r.ensureAuth(w, req)
		if !ok {
			return
		}
		next(w, req.WithContext(ctx))
	}
}

// requireAdmin additionally requires the caller to hold the admin role.
func (r *Router) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx, principal, ok := r.ensureAuth(w, req)
		if !ok {
			return
		}
		if !principal.IsAdmin() {
			r.fail(w, req.WithContext(ctx), apperr.Forbidden("administrator access required"))
			return
		}
		next(w, req.WithContext(ctx))
	}
}

// ensureAuth validates the Authorization header and enriches the context.
func (r *Router) ensureAuth(w http.ResponseWriter, req *http.Request) (context.Context, auth.Principal, bool) {
	token, err := bearerToken(req.Header.Get("Authorization"))
	if err != nil {
		r.fail(w, req, apperr.Unauthorized("authentication required", err))
		return req.Context(), auth.Principal{}, false
	}
	principal, err := r.auth.Authorize(req.Context(), token)
	if err != nil {
		r.fail(w, req, err)
		return req.Context(), auth.Principal{}, false
	}
	ctx := context.WithValue(req.Context(), contextKeyPrincipal, principal)
	if setter, ok := w.(contextSetter); ok {
		setter.SetContext(ctx)
	}
	return ctx, principal, true
}

// principalFromContext extracts the authenticated caller from context.
func principalFromContext(ctx context.Context) (auth.Principal, bool) {
	principal, ok := ctx.Value(contextKeyPrincipal).(auth.Principal)
	return principal, ok
}

func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("empty bearer token")
	}
	return token, nil
}
