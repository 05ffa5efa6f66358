// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (JWT signing) from the board
// domain. It acts as an Infrastructure service injected into the transport
// layer via the [middleware.SessionVerifier] interface.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims represents the payload embedded inside a board session token.
//
// The token binds a visitor to the single board they mounted, so board routes
// can authorise a request without a server-side session lookup.
type SessionClaims struct {
	jwt.RegisteredClaims

	// BoardID is abbreviated to keep the token small; it also lives in Subject.
	BoardID string `json:"bid"`
}

// SessionService handles generation and verification of board session tokens using HS256.
type SessionService struct {
	secret []byte
	issuer string
}

// NewSessionService creates a new SessionService from a shared signing secret.
func NewSessionService(secret, issuer string) (*SessionService, error) {
	if secret == "" {
		return nil, errors.New("sec: session secret must not be empty")
	}

	return &SessionService{
		secret: []byte(secret),
		issuer: issuer,
	}, nil
}

// IssueToken creates a signed session token for a board.
func (service *SessionService) IssueToken(boardID string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   boardID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		BoardID: boardID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature, issuer and expiry of a session token.
func (service *SessionService) VerifyToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	}, jwt.WithIssuer(service.issuer))

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.BoardID == "" {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return claims, nil
}
