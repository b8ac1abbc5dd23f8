// Package group provides the multiplicative group of integers modulo a prime,
// Z_p*, over fixed-width unsigned integers.
//
// # Representation
//
// Elements and exponents are github.com/holiman/uint256 values, so the width
// of every quantity is fixed at Width bits. A modulus p defines two rings:
//
//   - Elements live in [0, p). Group operations are reduced mod p.
//   - Exponents live in [0, p-1). Exponent arithmetic is reduced mod p-1,
//     which is the group order when p is prime.
//
// # Parameters
//
// The package does not test p for primality and does not check the order of
// any generator. Callers are responsible for choosing p prime and a generator
// of the full group; with other parameters the arithmetic stays well defined
// but the proofs built on top of it lose their security guarantees.
package group

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// Width is the bit width of every element, exponent and modulus.
const Width = 256

var (
	// ErrInvalidModulus indicates a modulus too small to define Z_p*.
	ErrInvalidModulus = errors.New("modulus must be greater than 2")

	// ErrEmptyRange indicates sampling was requested from an empty range.
	ErrEmptyRange = errors.New("cannot sample from an empty range")

	// ErrInvalidNumber indicates a value that could not be parsed.
	ErrInvalidNumber = errors.New("invalid number")
)

// ZP is the group Z_p* for a fixed modulus p.
//
// A ZP is immutable after construction and safe for concurrent use.
type ZP struct {
	p     uint256.Int
	order uint256.Int
}

// New returns the group of integers modulo p. Only p > 2 is checked.
func New(p *uint256.Int) (*ZP, error) {
	if p == nil || p.Lt(uint256.NewInt(3)) {
		return nil, ErrInvalidModulus
	}
	g := &ZP{}
	g.p.Set(p)
	g.order.SubUint64(p, 1)
	return g, nil
}

// Modulus returns a copy of p.
func (g *ZP) Modulus() *uint256.Int {
	return new(uint256.Int).Set(&g.p)
}

// Order returns a copy of p-1, the modulus of exponent arithmetic.
func (g *ZP) Order() *uint256.Int {
	return new(uint256.Int).Set(&g.order)
}

// Contains reports whether x is a canonical element, i.e. x < p.
func (g *ZP) Contains(x *uint256.Int) bool {
	return x != nil && x.Lt(&g.p)
}

// ContainsExponent reports whether e is a canonical exponent, i.e. e < p-1.
func (g *ZP) ContainsExponent(e *uint256.Int) bool {
	return e != nil && e.Lt(&g.order)
}

// Exp computes base^e mod p.
func (g *ZP) Exp(base, e *uint256.Int) *uint256.Int {
	return ModExp(base, e, &g.p)
}

// Mul computes x*y mod p.
func (g *ZP) Mul(x, y *uint256.Int) *uint256.Int {
	return new(uint256.Int).MulMod(x, y, &g.p)
}

// ReduceExponent computes e mod (p-1).
func (g *ZP) ReduceExponent(e *uint256.Int) *uint256.Int {
	return new(uint256.Int).Mod(e, &g.order)
}

// AddExponents computes (x + y) mod (p-1) without intermediate overflow.
func (g *ZP) AddExponents(x, y *uint256.Int) *uint256.Int {
	return new(uint256.Int).AddMod(x, y, &g.order)
}

// RandomExponent draws a uniformly random exponent from [0, p-2) using rand.
//
// rand must be a cryptographically secure source such as crypto/rand.Reader.
// Commitment nonces drawn here must never be reused or derived from public
// data: two responses computed with the same nonce reveal the witness.
func (g *ZP) RandomExponent(rand io.Reader) (*uint256.Int, error) {
	bound := new(uint256.Int).SubUint64(&g.p, 2)
	return RandomBelow(rand, bound)
}

// ModExp computes base^e mod m by left-to-right square-and-multiply.
// A zero modulus yields zero.
func ModExp(base, e, m *uint256.Int) *uint256.Int {
	result := new(uint256.Int)
	if m.IsZero() {
		return result
	}
	result.Mod(uint256.NewInt(1), m)

	b := new(uint256.Int).Mod(base, m)
	for i := e.BitLen() - 1; i >= 0; i-- {
		result.MulMod(result, result, m)
		if bit(e, i) {
			result.MulMod(result, b, m)
		}
	}
	return result
}

// bit returns bit i of x, counting from the least significant bit.
func bit(x *uint256.Int, i int) bool {
	return (x[i/64]>>(uint(i)%64))&1 == 1
}

// RandomBelow draws a uniformly random value from [0, n) by rejection
// sampling over the smallest power of two that covers n.
func RandomBelow(rand io.Reader, n *uint256.Int) (*uint256.Int, error) {
	if n == nil || n.IsZero() {
		return nil, ErrEmptyRange
	}

	k := n.BitLen()
	nb := (k + 7) / 8
	mask := byte(0xff >> uint(8*nb-k))

	var buf [32]byte
	v := new(uint256.Int)
	for {
		if _, err := io.ReadFull(rand, buf[32-nb:]); err != nil {
			return nil, fmt.Errorf("failed to read entropy: %w", err)
		}
		buf[32-nb] &= mask
		v.SetBytes32(buf[:])
		if v.Lt(n) {
			return v, nil
		}
	}
}

// ParseUint parses a decimal or 0x-prefixed hexadecimal value that fits in
// Width bits.
func ParseUint(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	n, ok := new(big.Int).SetString(s, 0)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	v, overflow := uint256.FromBig(n)
	if overflow {
		return nil, fmt.Errorf("%w: %q exceeds %d bits", ErrInvalidNumber, s, Width)
	}
	return v, nil
}

// Decimal formats x in base 10.
func Decimal(x *uint256.Int) string {
	return x.ToBig().String()
}
