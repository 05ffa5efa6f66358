// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/roster/internal/platform/apperr"
	"github.com/taibuivan/roster/internal/platform/constants"
	"github.com/taibuivan/roster/internal/platform/ctxutil"
	"github.com/taibuivan/roster/internal/platform/respond"
	"github.com/taibuivan/roster/internal/platform/sec"
)

// SessionVerifier defines the interface needed to verify board session tokens.
//
// Defining it here decouples the middleware from [sec.SessionService] so tests
// can inject a stub.
type SessionVerifier interface {
	VerifyToken(tokenStr string) (*sec.SessionClaims, error)
}

// Session extracts and verifies the board session token.
//
// # Flow
//  1. Read 'Authorization: Bearer <token>', falling back to the session cookie.
//  2. If neither is present, the request proceeds anonymously.
//  3. A malformed bearer header or a token that fails verification is rejected
//     with 401 for header tokens; a bad cookie is ignored so the HTML pages can
//     mount a fresh board.
//  4. Inject [*sec.SessionClaims] and a board-scoped logger into the context.
func Session(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Bearer Token ───────────────────────────────────────────────
			if authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) != 2 || strings.ToLower(parts[0]) != constants.AuthorizationBearer {
					respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
					return
				}

				claims, err := verifier.VerifyToken(parts[1])
				if err != nil {
					respond.Error(writer, request, apperr.Unauthorized("Invalid or expired board session"))
					return
				}

				next.ServeHTTP(writer, withSession(request, claims))
				return
			}

			// ── 2. Cookie ─────────────────────────────────────────────────────
			cookie, err := request.Cookie(constants.SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(writer, request)
				return
			}

			claims, err := verifier.VerifyToken(cookie.Value)
			if err != nil {
				ctxutil.GetLogger(request.Context()).Debug("session_cookie_rejected", slog.Any("error", err))
				next.ServeHTTP(writer, request)
				return
			}

			next.ServeHTTP(writer, withSession(request, claims))
		})
	}
}

// withSession stores the claims and tags the request logger with the board ID.
func withSession(request *http.Request, claims *sec.SessionClaims) *http.Request {
	ctx := ctxutil.WithSession(request.Context(), claims)
	ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("board_id", claims.BoardID)))
	return request.WithContext(ctx)
}

// RequireBoardOwner blocks requests whose session does not own the board that
// boardID extracts from the request.
//
// Must be registered in the router AFTER [Session]. A request without a
// session is rejected with 401.
func RequireBoardOwner(boardID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetSession(request.Context())

			// ── 1. Session Check ──────────────────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Board session required"))
				return
			}

			// ── 2. Ownership Check ────────────────────────────────────────────
			if claims.BoardID != boardID(request) {
				respond.Error(writer, request, apperr.Forbidden("Session does not own this board"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
