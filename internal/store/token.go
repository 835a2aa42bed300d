// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides durable key/value persistence for client state.
package store

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// =============================================================================
// TOKEN INSPECTION
// =============================================================================

// TokenExpired reports whether a stored bearer token has passed its expiry.
// The token is parsed without signature verification; the backend is the
// authority on validity, this only lets the UI route to the login view
// instead of issuing a call that will be rejected. Tokens that cannot be
// parsed or carry no expiry claim are treated as not expired and left for
// the backend to judge.
func TokenExpired(token string) bool {
	if token == "" {
		return true
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// HasToken reports whether a non-empty token is stored under key.
func HasToken(s Store, key string) bool {
	token, ok := s.Get(key)
	return ok && token != ""
}
