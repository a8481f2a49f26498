package crm_test

import (
	"testing"

	crm "github.com/goliatone/go-crm"
	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "Valid password",
			password: "securePassword123!",
			wantErr:  false,
		},
		{
			name:     "Empty password",
			password: "",
			wantErr:  true, // bcrypt can hash empty strings!
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := crm.HashPassword(tt.password)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, hash)

			err = crm.ComparePasswordAndHash(tt.password, hash)
			assert.NoError(t, err)
		})
	}
}

func TestHashPasswordIsSalted(t *testing.T) {
	password := "admin123"

	first, err := crm.HashPassword(password)
	assert.NoError(t, err)

	second, err := crm.HashPassword(password)
	assert.NoError(t, err)

	// salted transform: same input, different outputs, both verifiable
	assert.NotEqual(t, first, second)
	assert.NoError(t, crm.ComparePasswordAndHash(password, first))
	assert.NoError(t, crm.ComparePasswordAndHash(password, second))
}

func TestComparePasswordAndHash(t *testing.T) {
	password := "testPassword123!"
	hash, err := crm.HashPassword(password)
	assert.NoError(t, err)

	t.Run("Matching password", func(t *testing.T) {
		assert.NoError(t, crm.ComparePasswordAndHash(password, hash))
	})

	t.Run("Wrong password", func(t *testing.T) {
		err := crm.ComparePasswordAndHash("not-the-password", hash)
		assert.ErrorIs(t, err, crm.ErrMismatchedHashAndPassword)
	})

	t.Run("Malformed stored hash", func(t *testing.T) {
		// verification failure, never a panic
		err := crm.ComparePasswordAndHash(password, "not-a-bcrypt-hash")
		assert.Error(t, err)
	})
}
