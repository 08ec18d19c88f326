package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateVerifyRoundTrip(t *testing.T) {
	req := require.New(t)
	mgr, err := NewManager("secret", time.Hour, "banter-test")
	req.NoError(err)

	token, err := mgr.Generate("u1", "alice")
	req.NoError(err)

	claims, err := mgr.Verify(token)
	req.NoError(err)
	req.Equal("u1", claims.UserID)
	req.Equal("alice", claims.Username)
	req.Equal("banter-test", claims.Issuer)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	req := require.New(t)
	issuer, err := NewManager("secret-a", time.Hour, "banter-test")
	req.NoError(err)
	verifier, err := NewManager("secret-b", time.Hour, "banter-test")
	req.NoError(err)

	token, err := issuer.Generate("u1", "alice")
	req.NoError(err)

	_, err = verifier.Verify(token)
	req.ErrorIs(err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	req := require.New(t)
	mgr, err := NewManager("secret", -time.Minute, "banter-test")
	req.NoError(err)

	token, err := mgr.Generate("u1", "alice")
	req.NoError(err)

	_, err = mgr.Verify(token)
	req.ErrorIs(err, ErrExpiredToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	mgr, err := NewManager("secret", time.Hour, "banter-test")
	require.NoError(t, err)

	_, err = mgr.Verify("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager("", time.Hour, "banter-test")
	require.Error(t, err)
}
