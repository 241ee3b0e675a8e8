// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielhkuo/quickly-vote/auth"
)

// Session cookie names, one per principal kind
const (
	VoterCookie = "voter_token"
	AdminCookie = "admin_token"
)

type sessionKey struct{}

// CookieName returns the cookie carrying sessions of kind
func CookieName(kind auth.Kind) string {
	if kind == auth.KindAdmin {
		return AdminCookie
	}
	return VoterCookie
}

// SetSessionCookie attaches a session token as an HTTP-only, same-site cookie
func SetSessionCookie(w http.ResponseWriter, kind auth.Kind, token string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName(kind),
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie of kind
func ClearSessionCookie(w http.ResponseWriter, kind auth.Kind, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName(kind),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireSession rejects requests without a valid session of kind and passes
// the session payload to next through the request context
func RequireSession(sessions *auth.Sessions, kind auth.Kind, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var token string
		if c, err := r.Cookie(CookieName(kind)); err == nil {
			token = c.Value
		}

		payload, err := sessions.Validate(kind, token)
		if errors.Is(err, auth.ErrMissingToken) {
			ErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if err != nil {
			ErrorResponse(w, http.StatusUnauthorized, "Invalid session")
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, payload)
		next(w, r.WithContext(ctx))
	}
}

// SessionFromContext returns the payload stored by RequireSession
func SessionFromContext(ctx context.Context) (auth.Payload, bool) {
	payload, ok := ctx.Value(sessionKey{}).(auth.Payload)
	return payload, ok
}
