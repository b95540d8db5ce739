package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPasswordHasher_RequiresSalt(t *testing.T) {
	_, err := NewPasswordHasher("")
	require.ErrorIs(t, err, ErrEmptySalt)
}

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	req := require.New(t)
	h, err := NewPasswordHasher("pepper-and-salt")
	req.NoError(err)

	hash, err := h.Hash("s3cr3t-password")
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))
	req.NotContains(hash, "s3cr3t-password")

	req.True(h.Verify(hash, "s3cr3t-password"))
	req.False(h.Verify(hash, "wrong"))
	req.False(h.Verify("garbage", "s3cr3t-password"))
	req.False(h.Verify("$argon2id$v=19$m=1,t=1,p=1$!!$!!", "s3cr3t-password"))

	_, err = h.Hash("")
	req.Error(err)
}

func TestPasswordHasher_Deterministic(t *testing.T) {
	req := require.New(t)
	h, err := NewPasswordHasher("salt-one")
	req.NoError(err)

	first, err := h.Hash("pw")
	req.NoError(err)
	second, err := h.Hash("pw")
	req.NoError(err)
	req.Equal(first, second)

	other, err := NewPasswordHasher("salt-two")
	req.NoError(err)
	third, err := other.Hash("pw")
	req.NoError(err)
	req.NotEqual(first, third)

	// the salt is read from the hash, not from the hasher
	req.True(other.Verify(first, "pw"))
}
