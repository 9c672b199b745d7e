package ecc

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"testing"

	"golang.org/x/crypto/curve25519"
)

// Function vectors from RFC 7748, section 5.2.
func TestX25519KnownAnswers(t *testing.T) {
	vectors := []struct {
		scalar string
		u      string
		out    string
	}{
		{
			scalar: "a546e36bf0527c9d3b16154b82465edd62144c0ac1fc5a18506a2244ba449ac4",
			u:      "e6db6867583030db3594c1a424b15f7c726624ec26b3353b10a903a6d0ab1c4c",
			out:    "c3da55379de9c6908e94ea4df28d084f32eccf03491c71f754b4075577a28552",
		},
		{
			scalar: "4b66e9d4d1b4673c5ad22691957d6af5c11b6421e0ea01d42ca4169e7918ba0d",
			u:      "e5210f12786811d3f4b7959d0538ae2c31dbe7106fc03c3efc4cd549c715a493",
			out:    "95cbde9476e8907d7aade45cb4b873f88b595a68799fa152e6f8f7647aac7957",
		},
	}

	curve := NewX25519Curve()
	for i, vec := range vectors {
		scalar, err := curve.ScalarFromBytes(mustHex(t, vec.scalar))
		if err != nil {
			t.Fatalf("vector %d: ScalarFromBytes failed: %v", i, err)
		}
		point, err := curve.PointFromBytes(mustHex(t, vec.u))
		if err != nil {
			t.Fatalf("vector %d: PointFromBytes failed: %v", i, err)
		}
		result, err := point.Mul(scalar)
		if err != nil {
			t.Fatalf("vector %d: Mul failed: %v", i, err)
		}
		out, err := result.BytesX()
		if err != nil {
			t.Fatalf("vector %d: BytesX failed: %v", i, err)
		}
		if got := hex.EncodeToString(out); got != vec.out {
			t.Fatalf("vector %d: got %s, want %s", i, got, vec.out)
		}
	}
}

// Iterated ladder from RFC 7748, section 5.2: start with k = u = 9 and
// feed each output back as the next scalar, keeping the previous scalar
// as the next u-coordinate.
func TestX25519Iterated(t *testing.T) {
	curve := NewX25519Curve()
	k := make([]byte, x25519Size)
	u := make([]byte, x25519Size)
	k[0], u[0] = 9, 9

	step := func() {
		scalar, err := curve.ScalarFromBytes(k)
		if err != nil {
			t.Fatalf("ScalarFromBytes failed: %v", err)
		}
		point, err := curve.PointFromBytes(u)
		if err != nil {
			t.Fatalf("PointFromBytes failed: %v", err)
		}
		result, err := point.Mul(scalar)
		if err != nil {
			t.Fatalf("Mul failed: %v", err)
		}
		out, err := result.BytesX()
		if err != nil {
			t.Fatalf("BytesX failed: %v", err)
		}
		copy(u, k)
		copy(k, out)
	}

	step()
	if got := hex.EncodeToString(k); got != "422c8e7a6227d7bca1350b3e2bb7279f7897b87bb6854b783c60e80311ae3079" {
		t.Fatalf("after 1 iteration: got %s", got)
	}
	if testing.Short() {
		t.Skip("skipping 1000-iteration ladder in short mode")
	}
	for i := 1; i < 1000; i++ {
		step()
	}
	if got := hex.EncodeToString(k); got != "684cf59ba83309552800ef566f2f4d3c1c3887c49360e3875f2eb94d99532c51" {
		t.Fatalf("after 1000 iterations: got %s", got)
	}
}

// Diffie-Hellman vector from RFC 7748, section 6.1.
func TestX25519DiffieHellman(t *testing.T) {
	curve := NewX25519Curve()

	alice, err := NewKeyPairFromPrivateBytes(curve, mustHex(t, "77076d0a7318a57d3c16c17251b26645df4c2f87ebc0992ab177fba51db92c2a"))
	if err != nil {
		t.Fatalf("alice key pair failed: %v", err)
	}
	bob, err := NewKeyPairFromPrivateBytes(curve, mustHex(t, "5dab087e624a8a4b79e17f8b83800ee66f3bb1292618b6fd1c2f8b27ff88e0eb"))
	if err != nil {
		t.Fatalf("bob key pair failed: %v", err)
	}

	if got := hex.EncodeToString(alice.PublicKey().Bytes()); got != "8520f0098930a754748b7ddcb43ef75a0dbf3a0d26381af4eba4a98eaa9b4e6a" {
		t.Fatalf("alice public key: got %s", got)
	}
	if got := hex.EncodeToString(bob.PublicKey().Bytes()); got != "de9edb7d7b7dc1b4d35b61c2ece435373f8343c85b78674dadfc7e146f882b4f" {
		t.Fatalf("bob public key: got %s", got)
	}

	s1, err := alice.DeriveSharedSecret(bob.PublicKey())
	if err != nil {
		t.Fatalf("alice DH failed: %v", err)
	}
	s2, err := bob.DeriveSharedSecret(alice.PublicKey())
	if err != nil {
		t.Fatalf("bob DH failed: %v", err)
	}
	want := "4a5d9d5ba4ce2de1728e3bf480350f25e07e21c947d19e3376f09b3c1e161742"
	if got := hex.EncodeToString(s1.Bytes()); got != want {
		t.Fatalf("shared secret: got %s, want %s", got, want)
	}
	if !s1.Equal(s2) {
		t.Fatal("shared secrets differ")
	}
}

func TestX25519MatchesXCrypto(t *testing.T) {
	curve := NewX25519Curve()
	for i := 0; i < 16; i++ {
		scalar, err := curve.ScalarRandom(rand.Reader)
		if err != nil {
			t.Fatalf("ScalarRandom failed: %v", err)
		}
		var u [x25519Size]byte
		if _, err := rand.Read(u[:]); err != nil {
			t.Fatalf("rand failed: %v", err)
		}
		// Clear the high bit so both sides see the same u-coordinate.
		u[31] &= 0x7f

		point, err := curve.PointFromBytes(u[:])
		if err != nil {
			t.Fatalf("PointFromBytes failed: %v", err)
		}
		result, err := point.Mul(scalar)
		if err != nil {
			t.Fatalf("Mul failed: %v", err)
		}
		ours, err := result.BytesX()
		if err != nil {
			t.Fatalf("BytesX failed: %v", err)
		}

		theirs, err := curve25519.X25519(scalar.Bytes(), u[:])
		if err != nil {
			t.Fatalf("curve25519.X25519 failed: %v", err)
		}
		if !bytes.Equal(ours, theirs) {
			t.Fatalf("iteration %d: ladder disagrees with x/crypto", i)
		}
	}
}

func TestX25519ScalarBaseMult(t *testing.T) {
	curve := NewX25519Curve()
	scalar, err := curve.ScalarRandom(rand.Reader)
	if err != nil {
		t.Fatalf("ScalarRandom failed: %v", err)
	}
	pub, err := curve.ScalarBaseMult(scalar)
	if err != nil {
		t.Fatalf("ScalarBaseMult failed: %v", err)
	}

	var want [x25519Size]byte
	curve25519.ScalarBaseMult(&want, (*[x25519Size]byte)(scalar.Bytes()))
	if !bytes.Equal(pub.Bytes(), want[:]) {
		t.Fatal("base-point multiplication disagrees with x/crypto")
	}
}

// Multiplying a low-order point yields the identity, which must surface
// as an error rather than an all-zero secret.
func TestX25519LowOrderPoint(t *testing.T) {
	curve := NewX25519Curve()
	scalar, err := curve.ScalarRandom(rand.Reader)
	if err != nil {
		t.Fatalf("ScalarRandom failed: %v", err)
	}
	zeroU, err := curve.PointFromBytes(make([]byte, x25519Size))
	if err != nil {
		t.Fatalf("PointFromBytes failed: %v", err)
	}
	result, err := zeroU.Mul(scalar)
	if err != nil {
		t.Fatalf("Mul failed: %v", err)
	}
	if !result.IsIdentity() {
		t.Fatal("k * (u=0) is not the identity")
	}
	if _, err := result.BytesX(); err == nil {
		t.Fatal("BytesX on the identity succeeded")
	}
}

func TestX25519UnsupportedOperations(t *testing.T) {
	curve := NewX25519Curve()

	if _, err := curve.BasePoint(); !isUnsupported(err) {
		t.Fatalf("BasePoint: got %v", err)
	}
	if _, err := curve.PointIdentity(); !isUnsupported(err) {
		t.Fatalf("PointIdentity: got %v", err)
	}
	if _, err := curve.Order(); !isUnsupported(err) {
		t.Fatalf("Order: got %v", err)
	}

	scalar, err := curve.ScalarRandom(rand.Reader)
	if err != nil {
		t.Fatalf("ScalarRandom failed: %v", err)
	}
	other, err := curve.ScalarRandom(rand.Reader)
	if err != nil {
		t.Fatalf("ScalarRandom failed: %v", err)
	}
	if _, err := scalar.Add(other); !isUnsupported(err) {
		t.Fatalf("scalar Add: got %v", err)
	}
	if _, err := scalar.Mul(other); !isUnsupported(err) {
		t.Fatalf("scalar Mul: got %v", err)
	}
	if _, err := scalar.Invert(); !isUnsupported(err) {
		t.Fatalf("scalar Invert: got %v", err)
	}

	p, err := curve.ScalarBaseMult(scalar)
	if err != nil {
		t.Fatalf("ScalarBaseMult failed: %v", err)
	}
	if _, err := p.Add(p); !isUnsupported(err) {
		t.Fatalf("point Add: got %v", err)
	}
	if _, err := p.Double(); !isUnsupported(err) {
		t.Fatalf("point Double: got %v", err)
	}
	if _, err := p.Negate(); !isUnsupported(err) {
		t.Fatalf("point Negate: got %v", err)
	}
}

func isUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupportedOperation)
}
