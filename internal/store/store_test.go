// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestMemStoreRoundTrip(t *testing.T) {
	s := NewMemStore()

	if _, ok := s.Get(KeyUserToken); ok {
		t.Error("Get on empty store should report absent")
	}

	if err := s.Set(KeyUserToken, "tok-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	value, ok := s.Get(KeyUserToken)
	if !ok || value != "tok-1" {
		t.Errorf("Get = %q, %v, want %q, true", value, ok, "tok-1")
	}

	// Overwrite replaces, not appends
	if err := s.Set(KeyUserToken, "tok-2"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value, _ = s.Get(KeyUserToken)
	if value != "tok-2" {
		t.Errorf("Get after overwrite = %q, want %q", value, "tok-2")
	}

	if err := s.Remove(KeyUserToken); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := s.Get(KeyUserToken); ok {
		t.Error("Get after Remove should report absent")
	}

	// Removing an absent key is not an error
	if err := s.Remove("no-such-key"); err != nil {
		t.Errorf("Remove of absent key should be nil, got %v", err)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.Set(KeyChatID, "chat-42"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value, ok := s.Get(KeyChatID)
	if !ok || value != "chat-42" {
		t.Errorf("Get = %q, %v, want %q, true", value, ok, "chat-42")
	}

	if err := s.Remove(KeyChatID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := s.Get(KeyChatID); ok {
		t.Error("Get after Remove should report absent")
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Set(KeyAdminToken, "admin-tok"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	s.Close()

	// Simulated restart: same path, fresh handle
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	value, ok := s2.Get(KeyAdminToken)
	if !ok || value != "admin-tok" {
		t.Errorf("Get after reopen = %q, %v, want %q, true", value, ok, "admin-tok")
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "tester",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestTokenExpired(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"empty token", "", true},
		{"expired", signedToken(t, time.Now().Add(-time.Hour)), true},
		{"valid", signedToken(t, time.Now().Add(time.Hour)), false},
		{"garbage left to backend", "not-a-jwt", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TokenExpired(tc.token); got != tc.want {
				t.Errorf("TokenExpired = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestHasToken(t *testing.T) {
	s := NewMemStore()
	if HasToken(s, KeyUserToken) {
		t.Error("HasToken on empty store should be false")
	}
	s.Set(KeyUserToken, "tok")
	if !HasToken(s, KeyUserToken) {
		t.Error("HasToken with stored token should be true")
	}
	s.Set(KeyUserToken, "")
	if HasToken(s, KeyUserToken) {
		t.Error("HasToken with empty stored token should be false")
	}
}
