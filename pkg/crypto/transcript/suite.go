package transcript

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"
)

// Suite pins the hash function and the seeded generator used for challenge
// derivation. Implementations must be deterministic and safe for concurrent
// use.
type Suite interface {
	// Name returns the suite identifier accepted by FromName.
	Name() string

	// Hash returns the 32-byte digest of data. It seeds the challenge
	// generator and, for signatures, digests the signed content.
	Hash(data []byte) [32]byte

	// Stream returns an unbounded deterministic byte stream seeded with
	// exactly seed.
	Stream(seed [32]byte) io.Reader
}

// Suite identifiers.
const (
	Blake3ChaCha20  = "blake3-chacha20"
	Blake2bChaCha20 = "blake2b-chacha20"
	SHA3Shake256    = "sha3-shake256"
)

// ErrUnsupportedSuite indicates an unknown suite name.
var ErrUnsupportedSuite = fmt.Errorf("unsupported suite")

// Default returns the suite used when none is configured: BLAKE3 digests
// feeding a ChaCha20 keystream.
func Default() Suite {
	return blake3Suite{}
}

// FromName returns the Suite registered under name.
func FromName(name string) (Suite, error) {
	switch strings.ToLower(name) {
	case Blake3ChaCha20:
		return blake3Suite{}, nil
	case Blake2bChaCha20:
		return blake2bSuite{}, nil
	case SHA3Shake256:
		return shakeSuite{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSuite, name)
	}
}

// SupportedSuites lists the suite identifiers understood by FromName.
func SupportedSuites() []string {
	return []string{Blake3ChaCha20, Blake2bChaCha20, SHA3Shake256}
}

type blake3Suite struct{}

func (blake3Suite) Name() string                   { return Blake3ChaCha20 }
func (blake3Suite) Hash(data []byte) [32]byte      { return blake3.Sum256(data) }
func (blake3Suite) Stream(seed [32]byte) io.Reader { return newKeystream(seed) }

type blake2bSuite struct{}

func (blake2bSuite) Name() string                   { return Blake2bChaCha20 }
func (blake2bSuite) Hash(data []byte) [32]byte      { return blake2b.Sum256(data) }
func (blake2bSuite) Stream(seed [32]byte) io.Reader { return newKeystream(seed) }

type shakeSuite struct{}

func (shakeSuite) Name() string              { return SHA3Shake256 }
func (shakeSuite) Hash(data []byte) [32]byte { return sha3.Sum256(data) }

func (shakeSuite) Stream(seed [32]byte) io.Reader {
	h := sha3.NewShake256()
	h.Write(seed[:])
	return h
}

// keystream reads the raw ChaCha20 keystream for key seed and an all-zero
// nonce, starting at block counter 0.
type keystream struct {
	c *chacha20.Cipher
}

func newKeystream(seed [32]byte) *keystream {
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce[:])
	if err != nil {
		// Key and nonce sizes are fixed above.
		panic(fmt.Sprintf("transcript: chacha20 setup: %v", err))
	}
	return &keystream{c: c}
}

func (k *keystream) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	k.c.XORKeyStream(p, p)
	return len(p), nil
}
