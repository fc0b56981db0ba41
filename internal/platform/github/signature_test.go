package github

import "testing"

func TestVerifySignature(t *testing.T) {
	secret := "s3cr3t"
	body := []byte(`{"action":"opened","number":42}`)
	valid := ComputeSignature(secret, body)

	tests := []struct {
		name     string
		secret   string
		body     []byte
		provided string
		want     bool
	}{
		{"valid signature", secret, body, valid, true},
		{"wrong secret", "other", body, valid, false},
		{"mutated body", secret, []byte(`{"action":"opened","number":43}`), valid, false},
		{"missing prefix", secret, body, valid[len("sha256="):], false},
		{"empty header", secret, body, "", false},
		{"non-hex payload", secret, body, "sha256=zzzz", false},
		{"truncated signature", secret, body, valid[:20], false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifySignature(tt.secret, tt.body, tt.provided); got != tt.want {
				t.Errorf("VerifySignature() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifySignatureSingleByteMutation(t *testing.T) {
	secret := "webhook-secret"
	body := []byte(`{"ref":"refs/heads/main"}`)
	valid := ComputeSignature(secret, body)

	for i := range body {
		mutated := make([]byte, len(body))
		copy(mutated, body)
		mutated[i] ^= 0x01
		if VerifySignature(secret, mutated, valid) {
			t.Fatalf("signature verified after mutating byte %d", i)
		}
	}
}
