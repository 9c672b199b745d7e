package ecc

import (
	"crypto/subtle"
	"io"
	"runtime"
)

// KeyPair owns a private scalar and the matching public point
// (public = private · base point).
type KeyPair struct {
	curve Curve
	priv  Scalar
	pub   Point
}

// GenerateKeyPair draws a private scalar from the caller-supplied random
// source, following the curve family's generation policy (rejection
// sampling for the NIST curves, RFC 7748 clamping for X25519), and computes
// the matching public point.
func GenerateKeyPair(curve Curve, rand io.Reader) (*KeyPair, error) {
	if curve == nil {
		return nil, ErrInvalidCurveType.WithDetails("nil curve")
	}
	priv, err := curve.ScalarRandom(rand)
	if err != nil {
		return nil, err
	}
	pub, err := curve.ScalarBaseMult(priv)
	if err != nil {
		priv.Zeroize()
		return nil, ErrKeyGenerationFailed.WithCause(err)
	}
	return newKeyPair(curve, priv, pub), nil
}

// NewKeyPairFromPrivateBytes rebuilds a key pair from stored private-key
// bytes. Zero private keys are rejected.
func NewKeyPairFromPrivateBytes(curve Curve, data []byte) (*KeyPair, error) {
	if curve == nil {
		return nil, ErrInvalidCurveType.WithDetails("nil curve")
	}
	priv, err := curve.ScalarFromBytes(data)
	if err != nil {
		return nil, err
	}
	if priv.IsZero() {
		priv.Zeroize()
		return nil, ErrScalarZero
	}
	pub, err := curve.ScalarBaseMult(priv)
	if err != nil {
		priv.Zeroize()
		return nil, ErrKeyGenerationFailed.WithCause(err)
	}
	return newKeyPair(curve, priv, pub), nil
}

// newKeyPair attaches a finalizer that scrubs the private scalar if the
// caller never calls Zeroize.
func newKeyPair(curve Curve, priv Scalar, pub Point) *KeyPair {
	kp := &KeyPair{curve: curve, priv: priv, pub: pub}
	runtime.SetFinalizer(kp, (*KeyPair).finalize)
	return kp
}

func (kp *KeyPair) finalize() {
	kp.Zeroize()
}

// Curve returns the curve this key pair belongs to.
func (kp *KeyPair) Curve() Curve { return kp.curve }

// PublicKey returns the public point.
func (kp *KeyPair) PublicKey() Point { return kp.pub }

// PrivateScalar returns the private scalar. The scalar remains owned by
// the key pair; Zeroize on either clears it.
func (kp *KeyPair) PrivateScalar() Scalar { return kp.priv }

// DeriveSharedSecret runs ECDH between this key pair's private scalar and
// the peer's public point.
func (kp *KeyPair) DeriveSharedSecret(peer Point) (*SharedSecret, error) {
	return ECDH(kp.priv, peer)
}

// Zeroize scrubs the private scalar.
func (kp *KeyPair) Zeroize() {
	if kp.priv != nil {
		kp.priv.Zeroize()
	}
	runtime.SetFinalizer(kp, nil)
}

// ECDH computes the Diffie-Hellman shared secret priv · peer with the
// constant-time ladder and extracts the affine x-coordinate (u-coordinate
// for X25519) as fixed-width bytes of length ceil(fieldBitLength/8).
//
// The output is not hashed; key-derivation hashing is the caller's
// responsibility. When the computation lands on the identity element
// (possible with maliciously chosen peer input) the result is
// ErrDegenerateResult, never an all-zero secret.
func ECDH(priv Scalar, peer Point) (*SharedSecret, error) {
	if priv == nil || peer == nil {
		return nil, ErrCurveMismatch.WithDetails("nil operand")
	}
	r, err := peer.Mul(priv)
	if err != nil {
		return nil, err
	}
	secret, err := r.BytesX()
	if err != nil {
		return nil, err
	}
	return newSharedSecret(secret), nil
}

// SharedSecret is an opaque fixed-length secret byte string produced by
// ECDH. It is scrubbed on Zeroize and, as a backup, by a finalizer.
type SharedSecret struct {
	secret []byte
}

func newSharedSecret(b []byte) *SharedSecret {
	s := &SharedSecret{secret: b}
	runtime.SetFinalizer(s, (*SharedSecret).finalize)
	return s
}

func (s *SharedSecret) finalize() {
	s.Zeroize()
}

// Size returns the secret length in bytes.
func (s *SharedSecret) Size() int { return len(s.secret) }

// Bytes returns a copy of the secret bytes.
func (s *SharedSecret) Bytes() []byte {
	out := make([]byte, len(s.secret))
	copy(out, s.secret)
	return out
}

// Equal compares two shared secrets in constant time.
func (s *SharedSecret) Equal(other *SharedSecret) bool {
	if other == nil {
		return false
	}
	return subtle.ConstantTimeCompare(s.secret, other.secret) == 1
}

// Zeroize scrubs the secret bytes.
func (s *SharedSecret) Zeroize() {
	zeroBytes(s.secret)
	runtime.SetFinalizer(s, nil)
}
