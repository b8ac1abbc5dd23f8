package signature

import (
	"crypto/rand"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamuelSchlesinger/discrete-log-nizkp/pkg/crypto/dlog"
	"github.com/SamuelSchlesinger/discrete-log-nizkp/pkg/crypto/group"
	"github.com/SamuelSchlesinger/discrete-log-nizkp/pkg/crypto/transcript"
)

const testPrime = 569873509

func newKey(t *testing.T) *PrivateKey {
	t.Helper()
	p := uint256.NewInt(testPrime)
	a, err := group.RandomBelow(rand.Reader, uint256.NewInt(testPrime-3))
	require.NoError(t, err)
	a.AddUint64(a, 2)

	k, err := GenerateKey(a, p, rand.Reader)
	require.NoError(t, err)
	return k
}

func TestSignatureScheme(t *testing.T) {
	p := uint256.NewInt(testPrime)
	a, err := group.RandomBelow(rand.Reader, p)
	require.NoError(t, err)
	if a.IsZero() {
		a.SetUint64(2)
	}
	x, err := group.RandomBelow(rand.Reader, p)
	require.NoError(t, err)

	key, err := NewPrivateKey(a, p, x)
	require.NoError(t, err)
	assert.True(t, key.Public().B.Eq(group.ModExp(a, x, p)))

	sig, err := key.Sign([]byte("uhh hello?"), 32)
	require.NoError(t, err)

	assert.True(t, sig.Verify([]byte("uhh hello?")))
	assert.False(t, sig.Verify([]byte("different content")))
	assert.Equal(t, 32, sig.Security())
}

func TestSignatureBinding(t *testing.T) {
	key := newKey(t)
	sig, err := key.Sign([]byte("transfer 10"), 32)
	require.NoError(t, err)

	t.Run("AlteredContent", func(t *testing.T) {
		assert.False(t, sig.Verify([]byte("transfer 1000")))
		assert.True(t, sig.Proof().Verify(), "the bare proof stays valid")
	})

	t.Run("RetargetedNonce", func(t *testing.T) {
		// Point the nonce at other content while keeping the commitments and
		// responses. The digest check passes but the challenges change.
		pf := sig.Proof()
		other := transcript.Default().Hash([]byte("transfer 1000"))
		forged := FromProof(dlog.FromParts(pf.A(), pf.B(), pf.P(), &other, pf.Commitments(), pf.Responses()))
		assert.False(t, forged.Verify([]byte("transfer 1000")))
	})

	t.Run("MissingNonce", func(t *testing.T) {
		pf := sig.Proof()
		bare := FromProof(dlog.FromParts(pf.A(), pf.B(), pf.P(), nil, pf.Commitments(), pf.Responses()))
		assert.False(t, bare.Verify([]byte("transfer 10")))
	})

	t.Run("EmptyContent", func(t *testing.T) {
		empty, err := key.Sign(nil, 16)
		require.NoError(t, err)
		assert.True(t, empty.Verify([]byte{}))
		assert.False(t, empty.Verify([]byte{0}))
	})
}

func TestSignatureSuites(t *testing.T) {
	key := newKey(t)
	msg := []byte("suite bound")
	for _, name := range transcript.SupportedSuites() {
		suite, err := transcript.FromName(name)
		require.NoError(t, err)

		sig, err := key.Sign(msg, 24, dlog.WithSuite(suite))
		require.NoError(t, err)
		assert.True(t, sig.Verify(msg), name)

		nonce, ok := sig.Proof().Nonce()
		require.True(t, ok)
		assert.Equal(t, suite.Hash(msg), nonce, name)
	}
}

func TestVerifyKey(t *testing.T) {
	key := newKey(t)
	other := newKey(t)
	msg := []byte("who signed this")

	sig, err := key.Sign(msg, 32)
	require.NoError(t, err)

	assert.True(t, sig.VerifyKey(key.Public(), msg))
	assert.False(t, sig.VerifyKey(other.Public(), msg))
	assert.False(t, sig.VerifyKey(key.Public(), []byte("something else")))
}

func TestKeys(t *testing.T) {
	t.Run("PublicIsCopy", func(t *testing.T) {
		key := newKey(t)
		pub := key.Public()
		pub.B.SetUint64(1)
		assert.False(t, key.Public().Equal(pub))
	})

	t.Run("Equal", func(t *testing.T) {
		key := newKey(t)
		assert.True(t, key.Public().Equal(key.Public()))
		assert.False(t, key.Public().Equal(PublicKey{}))
		assert.True(t, PublicKey{}.Equal(PublicKey{}))
	})

	t.Run("InvalidModulus", func(t *testing.T) {
		_, err := NewPrivateKey(uint256.NewInt(2), uint256.NewInt(2), uint256.NewInt(1))
		assert.ErrorIs(t, err, group.ErrInvalidModulus)
		_, err = GenerateKey(uint256.NewInt(2), uint256.NewInt(1), rand.Reader)
		assert.ErrorIs(t, err, group.ErrInvalidModulus)
	})

	t.Run("InvalidSecurity", func(t *testing.T) {
		_, err := newKey(t).Sign([]byte("x"), 0)
		assert.ErrorIs(t, err, dlog.ErrInvalidSecurity)
	})
}

func TestSecurityExposure(t *testing.T) {
	key := newKey(t)
	for _, level := range []int{1, 8, 40} {
		sig, err := key.Sign([]byte("level"), level)
		require.NoError(t, err)
		assert.Equal(t, level, sig.Security())
		assert.Equal(t, level, sig.Proof().Security())
	}
}

func TestIdentityProof(t *testing.T) {
	key := newKey(t)
	pf, err := key.Prove(32)
	require.NoError(t, err)

	assert.True(t, pf.Verify())
	_, hasNonce := pf.Nonce()
	assert.False(t, hasNonce)
	assert.False(t, FromProof(pf).Verify([]byte("anything")))
}

func TestNilSignature(t *testing.T) {
	var sig *Signature
	assert.False(t, sig.Verify([]byte("x")))
	assert.False(t, FromProof(nil).Verify([]byte("x")))
	assert.False(t, sig.VerifyKey(PublicKey{}, []byte("x")))
}
