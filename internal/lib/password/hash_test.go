package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_Hash(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "regular password",
			password: "password123",
			wantErr:  false,
		},
		{
			name:     "password with special chars",
			password: "p@ssw0rd!@#$%^&*()",
			wantErr:  false,
		},
		{
			name:     "long password",
			password: "verylongpasswordwithmorethanfiftycharacters",
			wantErr:  false,
		},
		{
			name:     "short password",
			password: "short",
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotHash, err := hasher.Hash(tt.password)

			if (err != nil) != tt.wantErr {
				t.Errorf("Hash() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && gotHash == "" {
				t.Error("Hash() returned empty hash")
			}

			if !tt.wantErr {
				err = hasher.Compare(gotHash, tt.password)
				if err != nil {
					t.Errorf("Generated hash doesn't work with original password: %v", err)
				}
			}
		})
	}
}

func TestHasher_Compare(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	correctHash, err := hasher.Hash("correct_password")
	if err != nil {
		t.Fatalf("Failed to create test hash: %v", err)
	}

	anotherHash, err := hasher.Hash("another_password")
	if err != nil {
		t.Fatalf("Failed to create test hash: %v", err)
	}

	tests := []struct {
		name        string
		hash        string
		password    string
		shouldMatch bool
	}{
		{
			name:        "matching password",
			hash:        correctHash,
			password:    "correct_password",
			shouldMatch: true,
		},
		{
			name:        "wrong password",
			hash:        correctHash,
			password:    "wrong_password",
			shouldMatch: false,
		},
		{
			name:        "different hash same password",
			hash:        anotherHash,
			password:    "correct_password",
			shouldMatch: false,
		},
		{
			name:        "empty password",
			hash:        correctHash,
			password:    "",
			shouldMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := hasher.Compare(tt.hash, tt.password)

			if tt.shouldMatch && err != nil {
				t.Errorf("Compare() should succeed, got error: %v", err)
			}

			if !tt.shouldMatch && err == nil {
				t.Error("Compare() should fail, but got no error")
			}
		})
	}
}

func TestNewHasher_CostOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		cost int
	}{
		{name: "below minimum", cost: bcrypt.MinCost - 1},
		{name: "above maximum", cost: bcrypt.MaxCost + 1},
		{name: "negative", cost: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hasher := NewHasher(tt.cost)
			if hasher.cost != bcrypt.DefaultCost {
				t.Errorf("NewHasher(%d) cost = %d, want default %d", tt.cost, hasher.cost, bcrypt.DefaultCost)
			}
		})
	}
}

func TestHasher_DifferentPasswordsProduceDifferentHashes(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	hash1, err := hasher.Hash("password1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	hash2, err := hasher.Hash("password2")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	if hash1 == hash2 {
		t.Error("Different passwords produced identical hashes")
	}
}
