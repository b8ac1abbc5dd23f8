// Package dlog implements a non-interactive zero-knowledge proof of knowledge
// of a discrete logarithm.
//
// # Protocol Overview
//
// The prover knows x such that b = a^x (mod p) and wants to convince a
// verifier of that without revealing x. One repetition of the Sigma protocol
// works as follows:
//
//  1. COMMITMENT (Prover):
//     - Draw a fresh random exponent r
//     - Publish h = a^r mod p
//
//  2. CHALLENGE:
//     - A single bit c in {0, 1}
//
//  3. RESPONSE (Prover):
//     - Publish s = r + c*x mod (p-1)
//
//  4. VERIFICATION:
//     - Check a^s == h * b^c (mod p)
//
// # Why This Works
//
//	a^s = a^(r + c*x)
//	    = a^r * (a^x)^c
//	    = h * b^c
//
// A prover who does not know x can prepare h so that it answers exactly one
// of the two challenge values. Each repetition therefore catches a cheater
// with probability 1/2, and m independent repetitions leave a cheating
// probability of 2^-m. Security returns that m.
//
// # Fiat-Shamir
//
// Challenges are not chosen by a live verifier. They are derived by package
// transcript from (a, b, p, hs, nonce) after all m commitments are fixed, so
// the prover cannot pick commitments that match challenges it already knows.
// Verify recomputes the challenges from the stored transcript; a proof never
// carries challenge bits.
//
// # Zero-Knowledge
//
// With c = 0 the response is the uniformly random r. With c = 1 it is r + x,
// which is uniformly distributed because r is. Either way the verifier sees a
// value it could have sampled itself.
//
// # Parameters
//
// p must be prime and a should generate Z_p*. Neither is checked here; see
// package group.
package dlog

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/holiman/uint256"

	"github.com/SamuelSchlesinger/discrete-log-nizkp/pkg/crypto/group"
	"github.com/SamuelSchlesinger/discrete-log-nizkp/pkg/crypto/transcript"
)

// NonceSize is the size in bytes of the optional proof nonce.
const NonceSize = transcript.NonceSize

// ErrInvalidSecurity indicates a repetition count below one.
var ErrInvalidSecurity = errors.New("security parameter must be at least 1")

// Option configures Prove and FromParts.
type Option func(*options)

type options struct {
	suite   transcript.Suite
	entropy io.Reader
}

// WithSuite selects the challenge derivation suite. Prover and verifier must
// use the same one. The default is transcript.Default().
func WithSuite(s transcript.Suite) Option {
	return func(o *options) {
		if s != nil {
			o.suite = s
		}
	}
}

// WithEntropy sets the source of commitment randomness. It must be
// cryptographically secure and safe for concurrent use if shared between
// goroutines. The default is crypto/rand.Reader.
func WithEntropy(r io.Reader) Option {
	return func(o *options) {
		if r != nil {
			o.entropy = r
		}
	}
}

// ResolveSuite returns the suite that opts select.
func ResolveSuite(opts ...Option) transcript.Suite {
	return newOptions(opts).suite
}

func newOptions(opts []Option) options {
	o := options{
		suite:   transcript.Default(),
		entropy: rand.Reader,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Proof is a non-interactive proof that its prover knows log_a(b) mod p.
//
// A Proof is immutable: accessors return copies, and nothing in it refers to
// the witness. It is safe to verify from multiple goroutines.
type Proof struct {
	a, b, p uint256.Int
	nonce   *[NonceSize]byte
	hs      []uint256.Int
	ss      []uint256.Int
	suite   transcript.Suite

	// malformed marks a proof rebuilt from parts with missing values.
	malformed bool
}

// Prove builds a proof with m repetitions that x is the discrete logarithm of
// b to base a modulo p. nonce, when non-nil, is bound into the challenges.
//
// a, b, p and x must be non-nil. The caller is responsible for a^x = b (mod p);
// Prove does not check it, and a proof for a wrong witness fails verification.
// Errors other than parameter errors come from the entropy source and mean the
// environment cannot produce secure randomness.
func Prove(a, b, p, x *uint256.Int, nonce *[NonceSize]byte, m int, opts ...Option) (*Proof, error) {
	if m < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSecurity, m)
	}
	g, err := group.New(p)
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)

	pf := &Proof{
		nonce: copyNonce(nonce),
		hs:    make([]uint256.Int, m),
		ss:    make([]uint256.Int, m),
		suite: o.suite,
	}
	pf.a.Set(a)
	pf.b.Set(b)
	pf.p.Set(p)

	// Commit to every repetition before any challenge exists.
	rs := make([]*uint256.Int, m)
	for i := range rs {
		r, err := g.RandomExponent(o.entropy)
		if err != nil {
			return nil, fmt.Errorf("failed to draw commitment nonce %d: %w", i, err)
		}
		rs[i] = r
		pf.hs[i].Set(g.Exp(a, r))
	}

	cs := transcript.DeriveChallenges(o.suite, pf.publicTranscript(), m)

	xr := g.ReduceExponent(x)
	for i, r := range rs {
		if cs[i] {
			pf.ss[i].Set(g.AddExponents(r, xr))
		} else {
			pf.ss[i].Set(r)
		}
	}
	return pf, nil
}

// FromParts rebuilds a proof from its public components, for example after
// receiving them from a prover. All values are copied.
//
// FromParts never fails: a nil element or mismatched lengths produce a proof
// whose Verify returns false.
func FromParts(a, b, p *uint256.Int, nonce *[NonceSize]byte, hs, ss []*uint256.Int, opts ...Option) *Proof {
	o := newOptions(opts)
	pf := &Proof{
		nonce: copyNonce(nonce),
		hs:    make([]uint256.Int, len(hs)),
		ss:    make([]uint256.Int, len(ss)),
		suite: o.suite,
	}
	if a == nil || b == nil || p == nil {
		pf.malformed = true
	} else {
		pf.a.Set(a)
		pf.b.Set(b)
		pf.p.Set(p)
	}
	for i, h := range hs {
		if h == nil {
			pf.malformed = true
			continue
		}
		pf.hs[i].Set(h)
	}
	for i, s := range ss {
		if s == nil {
			pf.malformed = true
			continue
		}
		pf.ss[i].Set(s)
	}
	return pf
}

// Verify reports whether the proof is valid.
//
// It returns false for malformed proofs (length mismatch, no repetitions,
// values outside [0, p) for commitments or [0, p-1) for responses) as well as
// for proofs that fail the verification equation; callers cannot tell these
// cases apart.
func (pf *Proof) Verify() bool {
	if pf == nil || pf.malformed || len(pf.hs) != len(pf.ss) || len(pf.hs) == 0 {
		return false
	}
	g, err := group.New(&pf.p)
	if err != nil {
		return false
	}
	for i := range pf.hs {
		if !g.Contains(&pf.hs[i]) || !g.ContainsExponent(&pf.ss[i]) {
			return false
		}
	}

	// Challenges come from the stored transcript, never from the prover.
	cs := transcript.DeriveChallenges(pf.suite, pf.publicTranscript(), len(pf.hs))

	for i := range pf.hs {
		left := g.Exp(&pf.a, &pf.ss[i])
		right := &pf.hs[i]
		if cs[i] {
			right = g.Mul(&pf.hs[i], &pf.b)
		}
		if !left.Eq(right) {
			return false
		}
	}
	return true
}

// Security returns the number of repetitions m. A prover without the witness
// produces a verifying proof with probability at most 2^-m per attempt.
func (pf *Proof) Security() int {
	return len(pf.hs)
}

// A returns a copy of the base.
func (pf *Proof) A() *uint256.Int { return new(uint256.Int).Set(&pf.a) }

// B returns a copy of the public value.
func (pf *Proof) B() *uint256.Int { return new(uint256.Int).Set(&pf.b) }

// P returns a copy of the modulus.
func (pf *Proof) P() *uint256.Int { return new(uint256.Int).Set(&pf.p) }

// Nonce returns the bound nonce and whether one is present.
func (pf *Proof) Nonce() ([NonceSize]byte, bool) {
	if pf.nonce == nil {
		return [NonceSize]byte{}, false
	}
	return *pf.nonce, true
}

// Commitments returns copies of h_0..h_{m-1}.
func (pf *Proof) Commitments() []*uint256.Int {
	return copyInts(pf.hs)
}

// Responses returns copies of s_0..s_{m-1}.
func (pf *Proof) Responses() []*uint256.Int {
	return copyInts(pf.ss)
}

// Suite returns the challenge derivation suite the proof is checked against.
func (pf *Proof) Suite() transcript.Suite {
	return pf.suite
}

func (pf *Proof) String() string {
	_, hasNonce := pf.Nonce()
	return fmt.Sprintf("dlog.Proof{p=%s a=%s b=%s m=%d nonce=%t suite=%s}",
		group.Decimal(&pf.p), group.Decimal(&pf.a), group.Decimal(&pf.b),
		len(pf.hs), hasNonce, pf.suite.Name())
}

func (pf *Proof) publicTranscript() *transcript.Transcript {
	hs := make([]*uint256.Int, len(pf.hs))
	for i := range pf.hs {
		hs[i] = &pf.hs[i]
	}
	return &transcript.Transcript{
		A:           &pf.a,
		B:           &pf.b,
		P:           &pf.p,
		Commitments: hs,
		Nonce:       pf.nonce,
	}
}

func copyNonce(n *[NonceSize]byte) *[NonceSize]byte {
	if n == nil {
		return nil
	}
	c := *n
	return &c
}

func copyInts(in []uint256.Int) []*uint256.Int {
	out := make([]*uint256.Int, len(in))
	for i := range in {
		out[i] = new(uint256.Int).Set(&in[i])
	}
	return out
}
