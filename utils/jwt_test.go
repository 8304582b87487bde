package utils

import (
	"testing"
	"time"
)

func TestGenerateAndExtractToken(t *testing.T) {
	token, expiresAt, err := GenerateToken("user-1", "sid-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Errorf("expiry should be in the future, got %v", expiresAt)
	}

	userID, sessionID, err := ExtractIDsFromToken(token)
	if err != nil {
		t.Fatalf("ExtractIDsFromToken: %v", err)
	}
	if userID != "user-1" || sessionID != "sid-1" {
		t.Errorf("got (%q, %q)", userID, sessionID)
	}

	exp, err := TokenExpiry(token)
	if err != nil {
		t.Fatalf("TokenExpiry: %v", err)
	}
	if exp.Unix() != expiresAt.Unix() {
		t.Errorf("TokenExpiry = %v, want %v", exp, expiresAt)
	}
}

func TestExtractIDsFromToken_Rejects(t *testing.T) {
	expired, _, err := GenerateToken("user-1", "sid-1", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	noSession, _, err := GenerateToken("user-1", "", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	for name, token := range map[string]string{
		"expired":    expired,
		"no session": noSession,
		"garbage":    "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			if _, _, err := ExtractIDsFromToken(token); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
