// Package ecc implements a uniform abstraction over a fixed family of named
// elliptic curves (NIST P-256, P-384, P-521 and X25519), exposing key-pair
// generation, scalar and point arithmetic, and Diffie-Hellman shared-secret
// derivation.
//
// Scalar multiplication runs a fixed-iteration Montgomery ladder per curve,
// points decoded from untrusted bytes are validated against the curve
// equation, and randomness is always supplied by the caller.
package ecc

import (
	"io"
)

// Curve defines the interface for elliptic curve operations
type Curve interface {
	// Metadata
	Name() string
	Type() CurveType
	ScalarSize() int
	PointSize() int
	// FieldBytes is the shared-secret length, ceil(fieldBitLength/8).
	FieldBytes() int

	// Scalar operations
	ScalarFromBytes([]byte) (Scalar, error)
	ScalarRandom(rand io.Reader) (Scalar, error)
	ScalarZero() Scalar
	ScalarOne() Scalar

	// Point operations
	PointFromBytes([]byte) (Point, error)
	BasePoint() (Point, error)
	PointIdentity() (Point, error)
	ScalarBaseMult(Scalar) (Point, error)

	// Order returns the group order as fixed-width big-endian bytes.
	// X25519 does not expose its order; see ErrUnsupportedOperation.
	Order() ([]byte, error)

	// Validation
	ValidateScalar([]byte) error
	ValidatePoint([]byte) error
}

// Scalar represents a scalar value modulo the curve order
type Scalar interface {
	// Serialization
	Curve() CurveType
	Bytes() []byte
	String() string

	// Arithmetic operations. For X25519 the scalar ring is not exposed
	// and these return ErrUnsupportedOperation.
	Add(Scalar) (Scalar, error)
	Sub(Scalar) (Scalar, error)
	Mul(Scalar) (Scalar, error)
	Negate() (Scalar, error)
	Invert() (Scalar, error)

	// Comparison, constant-time over the scalar value
	Equal(Scalar) bool
	IsZero() bool

	// Security
	Zeroize()
}

// Point represents a point on the elliptic curve
type Point interface {
	// Serialization
	Curve() CurveType
	Bytes() []byte
	CompressedBytes() []byte
	String() string

	// Arithmetic operations. Generic group arithmetic is not defined for
	// X25519 u-coordinates and returns ErrUnsupportedOperation there.
	Add(Point) (Point, error)
	Sub(Point) (Point, error)
	Double() (Point, error)
	Negate() (Point, error)
	Mul(Scalar) (Point, error)

	// BytesX returns the affine x-coordinate (u-coordinate for X25519) as
	// fixed-width bytes, failing with ErrDegenerateResult on the identity.
	BytesX() ([]byte, error)

	// Comparison
	Equal(Point) bool
	IsIdentity() bool

	// Validation
	IsOnCurve() bool
}

// CurveType represents supported curve types
type CurveType string

const (
	P256        CurveType = "P-256"
	P384        CurveType = "P-384"
	P521        CurveType = "P-521"
	CurveX25519 CurveType = "X25519"
)

// NewCurve creates a new curve instance
func NewCurve(curveType CurveType) (Curve, error) {
	switch curveType {
	case P256:
		return NewP256Curve(), nil
	case P384:
		return NewP384Curve(), nil
	case P521:
		return NewP521Curve(), nil
	case CurveX25519:
		return NewX25519Curve(), nil
	default:
		return nil, ErrInvalidCurveType.WithDetails("%s", curveType)
	}
}

// SupportedCurves lists every curve type NewCurve accepts
func SupportedCurves() []CurveType {
	return []CurveType{P256, P384, P521, CurveX25519}
}

// readRandom fills size bytes from the caller-supplied random source.
// The engine never falls back to an ambient source.
func readRandom(rand io.Reader, size int) ([]byte, error) {
	if rand == nil {
		return nil, ErrRandomnessSource.WithDetails("nil reader")
	}
	bytes := make([]byte, size)
	if _, err := io.ReadFull(rand, bytes); err != nil {
		return nil, ErrRandomnessSource.WithCause(err)
	}
	return bytes, nil
}
