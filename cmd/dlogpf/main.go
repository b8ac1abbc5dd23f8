package main

import (
	"crypto/rand"
	"flag"
	"log"
	"os"

	"github.com/holiman/uint256"

	"github.com/SamuelSchlesinger/discrete-log-nizkp/pkg/crypto/dlog"
	"github.com/SamuelSchlesinger/discrete-log-nizkp/pkg/crypto/group"
	"github.com/SamuelSchlesinger/discrete-log-nizkp/pkg/crypto/signature"
	"github.com/SamuelSchlesinger/discrete-log-nizkp/pkg/crypto/transcript"
)

func main() {
	// Command line flags
	var (
		modulus   = flag.String("p", "569873509", "Prime modulus (decimal or 0x hex)")
		base      = flag.String("a", "", "Generator (default: random in [2, p-1))")
		witness   = flag.String("x", "", "Secret exponent (default: random)")
		security  = flag.Int("security", 32, "Number of repetitions m; soundness error is 2^-m")
		message   = flag.String("message", "uhh hello?", "Content to sign")
		tampered  = flag.String("tampered", "different content", "Content that must not verify")
		suiteName = flag.String("suite", transcript.Blake3ChaCha20, "Challenge suite (blake3-chacha20|blake2b-chacha20|sha3-shake256)")
	)
	flag.Parse()

	suite, err := transcript.FromName(*suiteName)
	if err != nil {
		log.Fatalf("Unsupported suite %q: %v", *suiteName, err)
	}
	log.Printf("Using suite: %s", suite.Name())

	p, err := group.ParseUint(*modulus)
	if err != nil {
		log.Fatalf("Invalid modulus: %v", err)
	}
	g, err := group.New(p)
	if err != nil {
		log.Fatalf("Invalid modulus: %v", err)
	}

	a := parseOrRandom(*base, "generator", func() (*uint256.Int, error) {
		v, err := group.RandomBelow(rand.Reader, new(uint256.Int).SubUint64(p, 3))
		if err != nil {
			return nil, err
		}
		return v.AddUint64(v, 2), nil
	})
	if !g.Contains(a) {
		log.Fatalf("Generator %s is not below p", group.Decimal(a))
	}

	var key *signature.PrivateKey
	if *witness == "" {
		key, err = signature.GenerateKey(a, p, rand.Reader)
	} else {
		key, err = signature.NewPrivateKey(a, p, parseOrRandom(*witness, "witness", nil))
	}
	if err != nil {
		log.Fatalf("Failed to create key pair: %v", err)
	}
	pub := key.Public()
	log.Printf("Public key: p=%s a=%s b=%s", group.Decimal(pub.P), group.Decimal(pub.A), group.Decimal(pub.B))

	ok := true

	// Bare proof of knowledge
	pf, err := key.Prove(*security, dlog.WithSuite(suite))
	if err != nil {
		log.Fatalf("Failed to prove: %v", err)
	}
	if pf.Verify() {
		log.Printf("✅ Proof of knowledge verifies (m=%d)", pf.Security())
	} else {
		log.Printf("❌ Proof of knowledge rejected")
		ok = false
	}

	// Signature over the message
	sig, err := key.Sign([]byte(*message), *security, dlog.WithSuite(suite))
	if err != nil {
		log.Fatalf("Failed to sign: %v", err)
	}
	log.Printf("Signed %q with security 2^-%d", *message, sig.Security())
	log.Printf("Proof: %s", sig.Proof())

	if sig.VerifyKey(pub, []byte(*message)) {
		log.Printf("✅ Signature verifies for %q", *message)
	} else {
		log.Printf("❌ Signature rejected for %q", *message)
		ok = false
	}

	if sig.Verify([]byte(*tampered)) {
		log.Printf("❌ Signature unexpectedly verifies for %q", *tampered)
		ok = false
	} else {
		log.Printf("✅ Signature rejected for %q", *tampered)
	}

	if !ok {
		os.Exit(1)
	}
	log.Println("Done")
}

// parseOrRandom parses s, or calls random when s is empty.
func parseOrRandom(s, what string, random func() (*uint256.Int, error)) *uint256.Int {
	if s == "" && random != nil {
		v, err := random()
		if err != nil {
			log.Fatalf("Failed to draw random %s: %v", what, err)
		}
		return v
	}
	v, err := group.ParseUint(s)
	if err != nil {
		log.Fatalf("Invalid %s: %v", what, err)
	}
	return v
}
