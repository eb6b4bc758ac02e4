package utils

import (
	"testing"
	"time"
)

func TestCredentialsEncryptionRoundTrip(t *testing.T) {
	creds := RememberedCredentials{
		Username:  "alice",
		Role:      "DSA",
		UserID:    "64f000000000000000000001",
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour).Truncate(time.Second),
	}

	encrypted, err := EncryptCredentials(creds)
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if encrypted == "" {
		t.Fatal("encrypt produced empty output")
	}

	got, err := DecryptCredentials(encrypted)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if got.Username != creds.Username || got.Role != creds.Role || got.UserID != creds.UserID {
		t.Errorf("round trip mismatch: %+v != %+v", got, creds)
	}
	if !got.ExpiresAt.Equal(creds.ExpiresAt) {
		t.Errorf("ExpiresAt mismatch: %v != %v", got.ExpiresAt, creds.ExpiresAt)
	}

	// Two encryptions of the same payload must not share a nonce
	again, err := EncryptCredentials(creds)
	if err != nil {
		t.Fatalf("second encrypt failed: %v", err)
	}
	if again == encrypted {
		t.Error("ciphertexts are identical across calls")
	}
}

func TestDecryptCredentialsRejectsGarbage(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not base64", "@@@not-base64@@@"},
		{"too short", "YWJj"},
		{"tampered", "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecryptCredentials(tt.input); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestGenerateRememberMeToken(t *testing.T) {
	a, err := GenerateRememberMeToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := GenerateRememberMeToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Error("tokens are not unique")
	}
	if len(a) < 40 {
		t.Errorf("token too short: %d chars", len(a))
	}
}
