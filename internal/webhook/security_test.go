package webhook

import (
	"testing"
)

func TestValidateSignature(t *testing.T) {
	v := NewSecurityValidator(SecurityConfig{Secret: testSecret, RateLimitPerMin: 60})
	body := []byte(`{"type":"message.new"}`)

	if err := v.ValidateSignature(body, sign(body)); err != nil {
		t.Errorf("Expected valid signature accepted, got: %v", err)
	}

	if err := v.ValidateSignature(body, ""); err == nil {
		t.Error("Expected missing signature rejected")
	}

	if err := v.ValidateSignature(body, "not-hex!"); err == nil {
		t.Error("Expected non-hex signature rejected")
	}

	if err := v.ValidateSignature([]byte("other payload"), sign(body)); err == nil {
		t.Error("Expected mismatched payload rejected")
	}
}

func TestValidateSignature_NoSecretConfigured(t *testing.T) {
	v := NewSecurityValidator(SecurityConfig{RateLimitPerMin: 60})

	if err := v.ValidateSignature([]byte("x"), sign([]byte("x"))); err == nil {
		t.Error("Expected rejection when no secret is configured")
	}
}

func TestRateLimiter_DefaultWhenUnset(t *testing.T) {
	rl := newRateLimiter(0)

	// Default budget of 60/min gives a burst of 6.
	for i := 0; i < 6; i++ {
		if err := rl.Allow("messaging:x"); err != nil {
			t.Fatalf("Expected burst request %d allowed, got: %v", i, err)
		}
	}
	if err := rl.Allow("messaging:x"); err == nil {
		t.Error("Expected request beyond burst rejected")
	}
}
