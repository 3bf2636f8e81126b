package keys

import (
	"encoding/pem"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProducesValidPEM(t *testing.T) {
	pair, err := Generate()
	require.NoError(t, err)

	pemPub, err := pair.PublicKeyPEM()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(pemPub, "-----BEGIN PUBLIC KEY-----"))

	block, rest := pem.Decode([]byte(pemPub))
	require.NotNil(t, block)
	assert.Equal(t, "PUBLIC KEY", block.Type)
	assert.Empty(t, rest)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	pair, err := Generate()
	require.NoError(t, err)
	pemPub, err := pair.PublicKeyPEM()
	require.NoError(t, err)

	sig, err := pair.Sign("token42")
	require.NoError(t, err)

	ok, err := Verify(pemPub, "token42", sig)
	require.NoError(t, err)
	assert.True(t, ok)

	// Different message must not verify
	ok, err = Verify(pemPub, "token43", sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	signer, err := Generate()
	require.NoError(t, err)
	other, err := Generate()
	require.NoError(t, err)

	sig, err := signer.Sign("msg")
	require.NoError(t, err)

	otherPEM, err := other.PublicKeyPEM()
	require.NoError(t, err)

	ok, err := Verify(otherPEM, "msg", sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	pair, err := Generate()
	require.NoError(t, err)
	pemPub, err := pair.PublicKeyPEM()
	require.NoError(t, err)

	_, err = Verify("not a pem", "msg", "00")
	assert.Error(t, err)

	_, err = Verify(pemPub, "msg", "zz-not-hex")
	assert.Error(t, err)
}

func TestSelfCheck(t *testing.T) {
	pair, err := Generate()
	require.NoError(t, err)
	assert.NoError(t, pair.SelfCheck())
}
