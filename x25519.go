package ecc

import (
	"crypto/subtle"
	"encoding/hex"
	"io"
	"runtime"

	"filippo.io/edwards25519/field"
)

const x25519Size = 32

// x25519BasePointU is the canonical generator u = 9 (RFC 7748 section 4.1).
var x25519BasePointU = [x25519Size]byte{9}

// X25519Curve implements the Curve interface for X25519. Points carry only
// the Montgomery u-coordinate and scalar multiplication is the dedicated
// RFC 7748 ladder, so generic group arithmetic, the base point accessor
// and the order accessor are deliberately unsupported: callers get
// ErrUnsupportedOperation instead of undefined numeric behavior.
type X25519Curve struct{}

// NewX25519Curve creates a new X25519 curve instance
func NewX25519Curve() *X25519Curve {
	return &X25519Curve{}
}

func (c *X25519Curve) Name() string    { return "X25519" }
func (c *X25519Curve) Type() CurveType { return CurveX25519 }
func (c *X25519Curve) ScalarSize() int { return x25519Size }
func (c *X25519Curve) PointSize() int  { return x25519Size }
func (c *X25519Curve) FieldBytes() int { return x25519Size }

func (c *X25519Curve) ScalarFromBytes(data []byte) (Scalar, error) {
	if len(data) != x25519Size {
		return nil, ErrInvalidScalarLength.WithDetails("want %d bytes, got %d", x25519Size, len(data))
	}
	s := newX25519Scalar()
	copy(s.k[:], data)
	return s, nil
}

// ScalarRandom draws 32 random bytes and applies RFC 7748 clamping. Unlike
// the Weierstrass curves there is no rejection sampling: clamping maps
// every draw into the cofactor-safe range.
func (c *X25519Curve) ScalarRandom(rand io.Reader) (Scalar, error) {
	buf, err := readRandom(rand, x25519Size)
	if err != nil {
		return nil, err
	}
	clampX25519(buf)
	s := newX25519Scalar()
	copy(s.k[:], buf)
	zeroBytes(buf)
	return s, nil
}

func (c *X25519Curve) ScalarZero() Scalar {
	return newX25519Scalar()
}

func (c *X25519Curve) ScalarOne() Scalar {
	s := newX25519Scalar()
	s.k[0] = 1
	return s
}

// PointFromBytes accepts any 32-byte string as a u-coordinate, per
// RFC 7748: low-order points are not rejected here, the ladder is defined
// for every input and degenerate outputs are caught at derivation time.
func (c *X25519Curve) PointFromBytes(data []byte) (Point, error) {
	if len(data) != x25519Size {
		return nil, ErrInvalidPointLength.WithDetails("want %d bytes, got %d", x25519Size, len(data))
	}
	p := &X25519Point{}
	copy(p.u[:], data)
	return p, nil
}

func (c *X25519Curve) BasePoint() (Point, error) {
	return nil, ErrUnsupportedOperation.WithDetails("X25519 does not expose a base point value")
}

func (c *X25519Curve) PointIdentity() (Point, error) {
	return nil, ErrUnsupportedOperation.WithDetails("X25519 does not expose an identity value")
}

func (c *X25519Curve) ScalarBaseMult(scalar Scalar) (Point, error) {
	s, ok := scalar.(*X25519Scalar)
	if !ok {
		return nil, ErrCurveMismatch.WithDetails("scalar is not on X25519")
	}
	p := &X25519Point{}
	x25519ScalarMult(&p.u, &s.k, &x25519BasePointU)
	return p, nil
}

func (c *X25519Curve) Order() ([]byte, error) {
	return nil, ErrUnsupportedOperation.WithDetails("X25519 does not expose a group order")
}

func (c *X25519Curve) ValidateScalar(data []byte) error {
	if len(data) != x25519Size {
		return ErrInvalidScalarLength.WithDetails("want %d bytes, got %d", x25519Size, len(data))
	}
	return nil
}

func (c *X25519Curve) ValidatePoint(data []byte) error {
	if len(data) != x25519Size {
		return ErrInvalidPointLength.WithDetails("want %d bytes, got %d", x25519Size, len(data))
	}
	return nil
}

// clampX25519 applies the RFC 7748 section 5 bit masking: clear the three
// low bits and the top bit, set bit 254.
func clampX25519(k []byte) {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
}

// X25519Scalar implements the Scalar interface. The value is an opaque
// 32-byte string; the scalar ring modulo the group order is not exposed.
type X25519Scalar struct {
	k [x25519Size]byte
}

func newX25519Scalar() *X25519Scalar {
	s := &X25519Scalar{}
	runtime.SetFinalizer(s, (*X25519Scalar).finalize)
	return s
}

func (s *X25519Scalar) finalize() {
	s.Zeroize()
}

func (s *X25519Scalar) Curve() CurveType { return CurveX25519 }

func (s *X25519Scalar) Bytes() []byte {
	out := make([]byte, x25519Size)
	copy(out, s.k[:])
	return out
}

func (s *X25519Scalar) String() string {
	return hex.EncodeToString(s.k[:])
}

func (s *X25519Scalar) Add(Scalar) (Scalar, error) {
	return nil, ErrUnsupportedOperation.WithDetails("X25519 scalars are opaque")
}

func (s *X25519Scalar) Sub(Scalar) (Scalar, error) {
	return nil, ErrUnsupportedOperation.WithDetails("X25519 scalars are opaque")
}

func (s *X25519Scalar) Mul(Scalar) (Scalar, error) {
	return nil, ErrUnsupportedOperation.WithDetails("X25519 scalars are opaque")
}

func (s *X25519Scalar) Negate() (Scalar, error) {
	return nil, ErrUnsupportedOperation.WithDetails("X25519 scalars are opaque")
}

func (s *X25519Scalar) Invert() (Scalar, error) {
	return nil, ErrUnsupportedOperation.WithDetails("X25519 scalars are opaque")
}

func (s *X25519Scalar) Equal(other Scalar) bool {
	o, ok := other.(*X25519Scalar)
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare(s.k[:], o.k[:]) == 1
}

func (s *X25519Scalar) IsZero() bool {
	var zero [x25519Size]byte
	return subtle.ConstantTimeCompare(s.k[:], zero[:]) == 1
}

func (s *X25519Scalar) Zeroize() {
	zeroBytes(s.k[:])
	runtime.SetFinalizer(s, nil)
}

// X25519Point implements the Point interface as a bare u-coordinate.
type X25519Point struct {
	u [x25519Size]byte
}

func (p *X25519Point) Curve() CurveType { return CurveX25519 }

func (p *X25519Point) Bytes() []byte {
	out := make([]byte, x25519Size)
	copy(out, p.u[:])
	return out
}

// CompressedBytes is the same as Bytes: a u-coordinate is already the
// smallest encoding X25519 has.
func (p *X25519Point) CompressedBytes() []byte {
	return p.Bytes()
}

func (p *X25519Point) String() string {
	return hex.EncodeToString(p.u[:])
}

func (p *X25519Point) Add(Point) (Point, error) {
	return nil, ErrUnsupportedOperation.WithDetails("point addition is not defined on X25519 u-coordinates")
}

func (p *X25519Point) Sub(Point) (Point, error) {
	return nil, ErrUnsupportedOperation.WithDetails("point subtraction is not defined on X25519 u-coordinates")
}

func (p *X25519Point) Double() (Point, error) {
	return nil, ErrUnsupportedOperation.WithDetails("point doubling is not defined on X25519 u-coordinates")
}

func (p *X25519Point) Negate() (Point, error) {
	return nil, ErrUnsupportedOperation.WithDetails("point negation is not defined on X25519 u-coordinates")
}

func (p *X25519Point) Mul(scalar Scalar) (Point, error) {
	s, ok := scalar.(*X25519Scalar)
	if !ok {
		return nil, ErrCurveMismatch.WithDetails("scalar is not on X25519")
	}
	q := &X25519Point{}
	x25519ScalarMult(&q.u, &s.k, &p.u)
	return q, nil
}

func (p *X25519Point) BytesX() ([]byte, error) {
	if p.IsIdentity() {
		return nil, ErrDegenerateResult.WithDetails("all-zero u-coordinate")
	}
	return p.Bytes(), nil
}

func (p *X25519Point) Equal(other Point) bool {
	o, ok := other.(*X25519Point)
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare(p.u[:], o.u[:]) == 1
}

// IsIdentity reports whether the u-coordinate is all zero, the value the
// ladder produces for low-order inputs.
func (p *X25519Point) IsIdentity() bool {
	var zero [x25519Size]byte
	return subtle.ConstantTimeCompare(p.u[:], zero[:]) == 1
}

// IsOnCurve is always true: RFC 7748 defines the function for every
// 32-byte u-coordinate.
func (p *X25519Point) IsOnCurve() bool {
	return true
}

// x25519ScalarMult computes the X25519 function of RFC 7748 section 5:
// a Montgomery ladder over the u-coordinate with 255 fixed iterations and
// constant-time conditional swaps. The scalar is clamped on a copy.
func x25519ScalarMult(dst, scalar, point *[x25519Size]byte) {
	var e [x25519Size]byte
	copy(e[:], scalar[:])
	clampX25519(e[:])

	var x1, x2, z2, x3, z3, tmp0, tmp1 field.Element
	x1.SetBytes(point[:]) // the unused high bit is ignored, per RFC 7748
	x2.One()
	x3.Set(&x1)
	z3.One()

	swap := 0
	for pos := 254; pos >= 0; pos-- {
		b := int(e[pos/8]>>uint(pos&7)) & 1
		swap ^= b
		x2.Swap(&x3, swap)
		z2.Swap(&z3, swap)
		swap = b

		tmp0.Subtract(&x3, &z3)
		tmp1.Subtract(&x2, &z2)
		x2.Add(&x2, &z2)
		z2.Add(&x3, &z3)
		z3.Multiply(&tmp0, &x2)
		z2.Multiply(&z2, &tmp1)
		tmp0.Square(&tmp1)
		tmp1.Square(&x2)
		x3.Add(&z3, &z2)
		z2.Subtract(&z3, &z2)
		x2.Multiply(&tmp1, &tmp0)
		tmp1.Subtract(&tmp1, &tmp0)
		z2.Square(&z2)
		z3.Mult32(&tmp1, 121666)
		x3.Square(&x3)
		tmp0.Add(&tmp0, &z3)
		z3.Multiply(&x1, &z2)
		z2.Multiply(&tmp1, &tmp0)
	}
	x2.Swap(&x3, swap)
	z2.Swap(&z3, swap)

	z2.Invert(&z2)
	x2.Multiply(&x2, &z2)
	copy(dst[:], x2.Bytes())
	zeroBytes(e[:])
}
