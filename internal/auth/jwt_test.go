package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestJWTManager_GenerateAndVerify(t *testing.T) {
	req := require.New(t)
	m := NewJWTManager("test-secret", 5*time.Minute)

	id := bson.NewObjectID()
	token, exp, err := m.GenerateToken(id, "alice")
	req.NoError(err)
	req.WithinDuration(time.Now().Add(5*time.Minute), exp, 5*time.Second)

	claims, err := m.VerifyToken(token)
	req.NoError(err)
	req.Equal("alice", claims.Username)

	got, err := claims.UserObjectID()
	req.NoError(err)
	req.Equal(id, got)
}

func TestJWTManager_RejectsForeignAndExpiredTokens(t *testing.T) {
	req := require.New(t)
	m := NewJWTManager("test-secret", 5*time.Minute)

	other := NewJWTManager("other-secret", 5*time.Minute)
	foreign, _, err := other.GenerateToken(bson.NewObjectID(), "mallory")
	req.NoError(err)
	_, err = m.VerifyToken(foreign)
	req.ErrorIs(err, ErrInvalidToken)

	expired := NewJWTManager("test-secret", -time.Minute)
	stale, _, err := expired.GenerateToken(bson.NewObjectID(), "alice")
	req.NoError(err)
	_, err = m.VerifyToken(stale)
	req.ErrorIs(err, ErrInvalidToken)

	_, err = m.VerifyToken("not-a-token")
	req.ErrorIs(err, ErrInvalidToken)
}

func TestJWTManager_RejectsNoneAlgorithm(t *testing.T) {
	m := NewJWTManager("test-secret", 5*time.Minute)

	claims := &Claims{UserID: bson.NewObjectID().Hex(), Username: "alice"}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.VerifyToken(unsigned)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_Rotation(t *testing.T) {
	req := require.New(t)
	keys := map[string]string{"k1": "secret-one", "k2": "secret-two"}
	m := NewJWTManagerFromKeys(keys, "k2", 5*time.Minute)
	id := bson.NewObjectID()

	tkn2, _, err := m.GenerateToken(id, "rot")
	req.NoError(err)
	_, err = m.VerifyToken(tkn2)
	req.NoError(err)

	// tokens issued while k1 was active stay valid
	mOld := NewJWTManagerFromKeys(keys, "k1", 5*time.Minute)
	tkn1, _, err := mOld.GenerateToken(id, "rot")
	req.NoError(err)
	_, err = m.VerifyToken(tkn1)
	req.NoError(err)

	// k1 retired
	mNew := NewJWTManagerFromKeys(map[string]string{"k2": "secret-two"}, "k2", 5*time.Minute)
	_, err = mNew.VerifyToken(tkn1)
	req.ErrorIs(err, ErrInvalidToken)
}

func TestJWTManager_UnknownActiveKid(t *testing.T) {
	m := NewJWTManagerFromKeys(map[string]string{"k1": "secret"}, "k9", time.Minute)
	_, _, err := m.GenerateToken(bson.NewObjectID(), "alice")
	require.Error(t, err)
}
