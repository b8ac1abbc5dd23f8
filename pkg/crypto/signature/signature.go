// Package signature implements a signature scheme built directly on the
// discrete-log proof of package dlog.
//
// Signing proves knowledge of the private exponent x with the digest of the
// content as the proof nonce. The nonce is folded into the Fiat-Shamir
// transcript, so the challenges, and with them the whole proof, are bound to
// the exact content signed. Verification checks the digest against the
// content and then verifies the proof.
package signature

import (
	"crypto/subtle"
	"io"

	"github.com/holiman/uint256"

	"github.com/SamuelSchlesinger/discrete-log-nizkp/pkg/crypto/dlog"
	"github.com/SamuelSchlesinger/discrete-log-nizkp/pkg/crypto/group"
)

// PublicKey is a signer's public identity, B = A^x mod P. It is safe to share.
type PublicKey struct {
	A *uint256.Int
	B *uint256.Int
	P *uint256.Int
}

// Equal reports whether two public keys have the same components.
func (pk PublicKey) Equal(other PublicKey) bool {
	return eq(pk.A, other.A) && eq(pk.B, other.B) && eq(pk.P, other.P)
}

func eq(x, y *uint256.Int) bool {
	if x == nil || y == nil {
		return x == y
	}
	return x.Eq(y)
}

// PrivateKey holds the secret exponent x for a PublicKey. The exponent is
// never exposed, and signatures carry only public values.
type PrivateKey struct {
	pub PublicKey
	x   uint256.Int
}

// NewPrivateKey returns the key pair for exponent x in Z_p* with base a.
func NewPrivateKey(a, p, x *uint256.Int) (*PrivateKey, error) {
	g, err := group.New(p)
	if err != nil {
		return nil, err
	}
	k := &PrivateKey{
		pub: PublicKey{
			A: new(uint256.Int).Set(a),
			B: g.Exp(a, x),
			P: g.Modulus(),
		},
	}
	k.x.Set(x)
	return k, nil
}

// GenerateKey draws x uniformly from [0, p-2) using rand and returns the key
// pair for base a.
func GenerateKey(a, p *uint256.Int, rand io.Reader) (*PrivateKey, error) {
	g, err := group.New(p)
	if err != nil {
		return nil, err
	}
	x, err := g.RandomExponent(rand)
	if err != nil {
		return nil, err
	}
	return NewPrivateKey(a, p, x)
}

// Public returns a copy of the public key.
func (k *PrivateKey) Public() PublicKey {
	return PublicKey{
		A: new(uint256.Int).Set(k.pub.A),
		B: new(uint256.Int).Set(k.pub.B),
		P: new(uint256.Int).Set(k.pub.P),
	}
}

// Prove returns a proof of knowledge of the private exponent that is not tied
// to any content.
func (k *PrivateKey) Prove(securityLevel int, opts ...dlog.Option) (*dlog.Proof, error) {
	return dlog.Prove(k.pub.A, k.pub.B, k.pub.P, &k.x, nil, securityLevel, opts...)
}

// Sign produces a signature over content whose forgery probability is
// 2^-securityLevel. opts are passed to dlog.Prove; the suite selected there
// also digests the content.
func (k *PrivateKey) Sign(content []byte, securityLevel int, opts ...dlog.Option) (*Signature, error) {
	nonce := dlog.ResolveSuite(opts...).Hash(content)

	pf, err := dlog.Prove(k.pub.A, k.pub.B, k.pub.P, &k.x, &nonce, securityLevel, opts...)
	if err != nil {
		return nil, err
	}
	return &Signature{pf: pf}, nil
}

// Signature is a discrete-log proof bound to signed content.
type Signature struct {
	pf *dlog.Proof
}

// FromProof wraps a proof received from a signer.
func FromProof(pf *dlog.Proof) *Signature {
	return &Signature{pf: pf}
}

// Verify reports whether the signature is valid for content. Both the content
// digest and the proof must check out.
func (s *Signature) Verify(content []byte) bool {
	if s == nil || s.pf == nil {
		return false
	}
	nonce, ok := s.pf.Nonce()
	if !ok {
		return false
	}
	digest := s.pf.Suite().Hash(content)
	if subtle.ConstantTimeCompare(digest[:], nonce[:]) != 1 {
		return false
	}
	return s.pf.Verify()
}

// VerifyKey is Verify with the additional requirement that the signature was
// made for pub.
func (s *Signature) VerifyKey(pub PublicKey, content []byte) bool {
	if s == nil || s.pf == nil {
		return false
	}
	signer := PublicKey{A: s.pf.A(), B: s.pf.B(), P: s.pf.P()}
	return signer.Equal(pub) && s.Verify(content)
}

// Security returns the soundness exponent of the underlying proof.
func (s *Signature) Security() int {
	return s.pf.Security()
}

// Proof returns the underlying proof.
func (s *Signature) Proof() *dlog.Proof {
	return s.pf
}
