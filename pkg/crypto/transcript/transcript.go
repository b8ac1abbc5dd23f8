// Package transcript turns the public transcript of a discrete-log proof into
// Fiat-Shamir challenge bits.
//
// # Challenge Derivation
//
// In the interactive protocol the verifier flips one coin per repetition after
// seeing the prover's commitments. The non-interactive variant replaces the
// verifier with a deterministic function of everything the prover has
// committed to:
//
//	seed = H(Encode(a, b, p, hs, nonce))
//	bits = first m bits of PRG(seed)
//
// Because the bits depend on the commitments, a prover cannot choose the
// commitments after learning the challenges. Because the function is
// deterministic, the verifier recomputes the bits instead of trusting any the
// prover supplies.
//
// # Interoperability
//
// The encoding, the hash H and the generator PRG are part of the protocol. A
// prover and a verifier agree on a proof only if they use the same Suite.
package transcript

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/holiman/uint256"
)

// Domain is the separator prefixed to every encoded transcript.
const Domain = "dlogpf/1/transcript"

// NonceSize is the size in bytes of the optional transcript nonce.
const NonceSize = 32

// Transcript is the public part of a proof: everything the challenges are
// bound to.
type Transcript struct {
	A           *uint256.Int
	B           *uint256.Int
	P           *uint256.Int
	Commitments []*uint256.Int
	Nonce       *[NonceSize]byte
}

// Bytes returns the canonical encoding of the transcript:
//
//	Domain || a || b || p || uint64(len(hs)) || h_0 || ... || h_{m-1} || flag [|| nonce]
//
// Integers are 32-byte big-endian, the length is 8-byte big-endian and flag is
// 0 without a nonce and 1 with one. A nil integer encodes as zero.
func (t *Transcript) Bytes() []byte {
	size := len(Domain) + 3*32 + 8 + 32*len(t.Commitments) + 1
	if t.Nonce != nil {
		size += NonceSize
	}

	out := make([]byte, 0, size)
	out = append(out, Domain...)
	out = appendUint(out, t.A)
	out = appendUint(out, t.B)
	out = appendUint(out, t.P)
	out = binary.BigEndian.AppendUint64(out, uint64(len(t.Commitments)))
	for _, h := range t.Commitments {
		out = appendUint(out, h)
	}
	if t.Nonce == nil {
		return append(out, 0)
	}
	out = append(out, 1)
	return append(out, t.Nonce[:]...)
}

func appendUint(dst []byte, x *uint256.Int) []byte {
	if x == nil {
		var zero [32]byte
		return append(dst, zero[:]...)
	}
	b := x.Bytes32()
	return append(dst, b[:]...)
}

// Seed hashes the encoded transcript into the 32-byte generator seed.
func Seed(s Suite, t *Transcript) [32]byte {
	return s.Hash(t.Bytes())
}

// DeriveChallenges returns m challenge bits for the transcript. Bit i is bit
// i%8, least significant first, of byte i/8 of the suite's output stream.
//
// The result depends only on the suite, the transcript and m.
func DeriveChallenges(s Suite, t *Transcript, m int) []bool {
	if m <= 0 {
		return nil
	}

	stream := s.Stream(Seed(s, t))
	buf := make([]byte, (m+7)/8)
	if _, err := io.ReadFull(stream, buf); err != nil {
		// Suite streams are unbounded; a short read means a broken suite.
		panic(fmt.Sprintf("transcript: %s stream failed: %v", s.Name(), err))
	}

	bits := make([]bool, m)
	for i := range bits {
		bits[i] = buf[i/8]>>(uint(i)%8)&1 == 1
	}
	return bits
}
