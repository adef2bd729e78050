package auth

import (
	"testing"

	"github.com/dmitrijs2005/clicon/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("pw123")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", hash)

	require.NoError(t, h.Verify(hash, "pw123"))
	assert.ErrorIs(t, h.Verify(hash, "nope"), common.ErrInvalidPassword)

	err = h.Verify("not-a-bcrypt-hash", "pw123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrInvalidPassword)
}

func TestNewBcryptHasher_DefaultCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).Cost)
}
