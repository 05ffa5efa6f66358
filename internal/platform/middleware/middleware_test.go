// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/roster/internal/platform/config"
	"github.com/taibuivan/roster/internal/platform/constants"
	"github.com/taibuivan/roster/internal/platform/ctxutil"
	"github.com/taibuivan/roster/internal/platform/middleware"
	"github.com/taibuivan/roster/internal/platform/sec"
)

// stubVerifier accepts exactly one token.
type stubVerifier struct {
	token   string
	boardID string
}

func (verifier stubVerifier) VerifyToken(token string) (*sec.SessionClaims, error) {
	if token != verifier.token {
		return nil, errors.New("bad token")
	}
	return &sec.SessionClaims{BoardID: verifier.boardID}, nil
}

// sessionEcho writes the board ID found in context, or "anonymous".
var sessionEcho = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	if claims := ctxutil.GetSession(request.Context()); claims != nil {
		_, _ = writer.Write([]byte(claims.BoardID))
		return
	}
	_, _ = writer.Write([]byte("anonymous"))
})

/*
TestRequestID verifies generation and propagation of correlation IDs.
*/
func TestRequestID(t *testing.T) {
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(ctxutil.GetRequestID(request.Context())))
	}))

	// 1. Generated when absent
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, recorder.Header().Get(constants.HeaderXRequestID))
	assert.Equal(t, recorder.Header().Get(constants.HeaderXRequestID), recorder.Body.String())

	// 2. Echoed when provided
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderXRequestID, "abc")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "abc", recorder.Body.String())
}

/*
TestSession covers bearer, cookie and anonymous requests.
*/
func TestSession(t *testing.T) {
	handler := middleware.Session(stubVerifier{token: "good", boardID: "board-1"})(sessionEcho)

	tests := []struct {
		name       string
		header     string
		cookie     string
		wantStatus int
		wantBody   string
	}{
		{"anonymous", "", "", http.StatusOK, "anonymous"},
		{"bearer_ok", "Bearer good", "", http.StatusOK, "board-1"},
		{"bearer_bad_token", "Bearer nope", "", http.StatusUnauthorized, ""},
		{"bearer_bad_format", "Token good", "", http.StatusUnauthorized, ""},
		{"cookie_ok", "", "good", http.StatusOK, "board-1"},
		{"cookie_bad_is_ignored", "", "nope", http.StatusOK, "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set(constants.HeaderAuthorization, tt.header)
			}
			if tt.cookie != "" {
				request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: tt.cookie})
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, recorder.Body.String())
			}
		})
	}
}

/*
TestRequireBoardOwner verifies 401 for anonymous and 403 for foreign boards.
*/
func TestRequireBoardOwner(t *testing.T) {
	owner := middleware.RequireBoardOwner(func(request *http.Request) string {
		return request.URL.Query().Get("board")
	})
	handler := middleware.Session(stubVerifier{token: "good", boardID: "board-1"})(owner(sessionEcho))

	send := func(target string, authorised bool) int {
		request := httptest.NewRequest(http.MethodGet, target, nil)
		if authorised {
			request.Header.Set(constants.HeaderAuthorization, "Bearer good")
		}
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder.Code
	}

	assert.Equal(t, http.StatusUnauthorized, send("/?board=board-1", false))
	assert.Equal(t, http.StatusForbidden, send("/?board=board-2", true))
	assert.Equal(t, http.StatusOK, send("/?board=board-1", true))
}

/*
TestRateLimit verifies that a client is cut off once its burst is spent.
*/
func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx, 1, 2)(sessionEcho)

	statuses := make([]int, 0, 3)
	for range 3 {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "10.0.0.1:1234"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		statuses = append(statuses, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)

	// A different client has its own bucket
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "10.0.0.2:1234"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestPanicRecovery verifies that a panicking handler yields a JSON 500.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INTERNAL_ERROR")
}

/*
TestCORS verifies origin handling outside development.
*/
func TestCORS(t *testing.T) {
	cfg := &config.Config{Environment: "production", ExtraOrigins: "https://roster.example"}
	handler := middleware.CORS(cfg)(sessionEcho)

	// Allowed origin receives headers
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderOrigin, "https://roster.example")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "https://roster.example", recorder.Header().Get("Access-Control-Allow-Origin"))

	// Unknown origin does not
	request = httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderOrigin, "https://evil.example")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))

	// Pre-flight short-circuits
	request = httptest.NewRequest(http.MethodOptions, "/", nil)
	request.Header.Set(constants.HeaderOrigin, "https://roster.example")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

/*
TestRealIP verifies proxy header precedence.
*/
func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.1:4000"
	assert.Equal(t, "192.0.2.1", middleware.RealIP(request))

	request.Header.Set(constants.HeaderXForwardedFor, "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", middleware.RealIP(request))

	request.Header.Set(constants.HeaderXRealIP, "198.51.100.7")
	assert.Equal(t, "198.51.100.7", middleware.RealIP(request))
}
