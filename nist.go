package ecc

import (
	"encoding/hex"
	"io"
	"runtime"
)

// nistCurve implements the Curve interface for the NIST short-Weierstrass
// curves. All three instances share this wrapper; only the parameters
// differ, so the curve choice is resolved before any arithmetic runs.
type nistCurve struct {
	kind   CurveType
	params *weierstrassParams
}

func (c *nistCurve) Name() string    { return c.params.name }
func (c *nistCurve) Type() CurveType { return c.kind }
func (c *nistCurve) ScalarSize() int { return c.params.fn.size }
func (c *nistCurve) PointSize() int  { return 1 + 2*c.params.fp.size }
func (c *nistCurve) FieldBytes() int { return c.params.fp.size }

func (c *nistCurve) ScalarFromBytes(data []byte) (Scalar, error) {
	fn := c.params.fn
	if len(data) != fn.size {
		return nil, ErrInvalidScalarLength.WithDetails("want %d bytes, got %d", fn.size, len(data))
	}
	v, err := fn.setBytes(data)
	if err != nil {
		return nil, ErrInvalidScalar.WithDetails("value is not below the group order")
	}
	return newNISTScalar(c, v), nil
}

// ScalarRandom draws uniformly from [1, n) by rejection sampling: raw draws
// with the excess high bits masked off are rejected and redrawn when they
// fall outside the order, so no modulo bias is introduced.
func (c *nistCurve) ScalarRandom(rand io.Reader) (Scalar, error) {
	fn := c.params.fn
	for {
		buf, err := readRandom(rand, fn.size)
		if err != nil {
			return nil, err
		}
		buf[0] &= c.params.orderMask
		v, err := fn.setBytes(buf)
		zeroBytes(buf)
		if err != nil {
			continue // >= n, redraw
		}
		if fn.isZero(v) == 1 {
			continue
		}
		return newNISTScalar(c, v), nil
	}
}

func (c *nistCurve) ScalarZero() Scalar {
	return newNISTScalar(c, c.params.fn.newElement())
}

func (c *nistCurve) ScalarOne() Scalar {
	v := c.params.fn.newElement()
	copy(v, c.params.fn.one)
	return newNISTScalar(c, v)
}

func (c *nistCurve) PointFromBytes(data []byte) (Point, error) {
	p := newProjIdentity(c.params)
	if err := p.setBytes(data); err != nil {
		return nil, err
	}
	return &nistPoint{curve: c, p: p}, nil
}

func (c *nistCurve) BasePoint() (Point, error) {
	return &nistPoint{curve: c, p: newProjGenerator(c.params)}, nil
}

func (c *nistCurve) PointIdentity() (Point, error) {
	return &nistPoint{curve: c, p: newProjIdentity(c.params)}, nil
}

func (c *nistCurve) ScalarBaseMult(scalar Scalar) (Point, error) {
	base, _ := c.BasePoint()
	return base.Mul(scalar)
}

func (c *nistCurve) Order() ([]byte, error) {
	return c.params.fn.modulusBytes(), nil
}

func (c *nistCurve) ValidateScalar(data []byte) error {
	_, err := c.ScalarFromBytes(data)
	return err
}

func (c *nistCurve) ValidatePoint(data []byte) error {
	_, err := c.PointFromBytes(data)
	return err
}

// nistScalar implements the Scalar interface, holding the value in
// Montgomery form modulo the group order.
type nistScalar struct {
	curve *nistCurve
	v     element
}

// newNISTScalar attaches a finalizer that scrubs the limbs if the caller
// never calls Zeroize.
func newNISTScalar(curve *nistCurve, v element) *nistScalar {
	s := &nistScalar{curve: curve, v: v}
	runtime.SetFinalizer(s, (*nistScalar).finalize)
	return s
}

func (s *nistScalar) finalize() {
	if s.v != nil {
		s.Zeroize()
	}
}

func (s *nistScalar) Curve() CurveType { return s.curve.kind }

func (s *nistScalar) Bytes() []byte {
	return s.curve.params.fn.bytes(s.v)
}

func (s *nistScalar) String() string {
	return hex.EncodeToString(s.Bytes())
}

// sameRing rejects scalars from a different curve before any arithmetic.
func (s *nistScalar) sameRing(other Scalar) (*nistScalar, error) {
	o, ok := other.(*nistScalar)
	if !ok || o.curve.kind != s.curve.kind {
		return nil, ErrCurveMismatch.WithDetails("scalar is not on %s", s.curve.kind)
	}
	return o, nil
}

func (s *nistScalar) Add(other Scalar) (Scalar, error) {
	o, err := s.sameRing(other)
	if err != nil {
		return nil, err
	}
	fn := s.curve.params.fn
	z := fn.newElement()
	fn.add(z, s.v, o.v)
	return newNISTScalar(s.curve, z), nil
}

func (s *nistScalar) Sub(other Scalar) (Scalar, error) {
	o, err := s.sameRing(other)
	if err != nil {
		return nil, err
	}
	fn := s.curve.params.fn
	z := fn.newElement()
	fn.sub(z, s.v, o.v)
	return newNISTScalar(s.curve, z), nil
}

func (s *nistScalar) Mul(other Scalar) (Scalar, error) {
	o, err := s.sameRing(other)
	if err != nil {
		return nil, err
	}
	fn := s.curve.params.fn
	z := fn.newElement()
	fn.mul(z, s.v, o.v)
	return newNISTScalar(s.curve, z), nil
}

func (s *nistScalar) Negate() (Scalar, error) {
	fn := s.curve.params.fn
	z := fn.newElement()
	fn.neg(z, s.v)
	return newNISTScalar(s.curve, z), nil
}

func (s *nistScalar) Invert() (Scalar, error) {
	if s.IsZero() {
		return nil, ErrScalarZero
	}
	fn := s.curve.params.fn
	z := fn.newElement()
	fn.inv(z, s.v)
	return newNISTScalar(s.curve, z), nil
}

func (s *nistScalar) Equal(other Scalar) bool {
	o, err := s.sameRing(other)
	if err != nil {
		return false
	}
	return s.curve.params.fn.equal(s.v, o.v) == 1
}

func (s *nistScalar) IsZero() bool {
	return s.curve.params.fn.isZero(s.v) == 1
}

func (s *nistScalar) Zeroize() {
	zeroLimbs(s.v)
	runtime.SetFinalizer(s, nil)
}

// nistPoint implements the Point interface over the projective engine.
// Points built here are either validated on decode or produced by the
// arithmetic, so they always satisfy the curve equation.
type nistPoint struct {
	curve *nistCurve
	p     *projPoint
}

func (p *nistPoint) Curve() CurveType { return p.curve.kind }

func (p *nistPoint) Bytes() []byte {
	return p.p.bytes()
}

func (p *nistPoint) CompressedBytes() []byte {
	return p.p.compressedBytes()
}

func (p *nistPoint) String() string {
	return hex.EncodeToString(p.Bytes())
}

func (p *nistPoint) sameGroup(other Point) (*nistPoint, error) {
	o, ok := other.(*nistPoint)
	if !ok || o.curve.kind != p.curve.kind {
		return nil, ErrCurveMismatch.WithDetails("point is not on %s", p.curve.kind)
	}
	return o, nil
}

func (p *nistPoint) Add(other Point) (Point, error) {
	o, err := p.sameGroup(other)
	if err != nil {
		return nil, err
	}
	q := newProjIdentity(p.curve.params)
	q.add(p.p, o.p)
	return &nistPoint{curve: p.curve, p: q}, nil
}

func (p *nistPoint) Sub(other Point) (Point, error) {
	o, err := p.sameGroup(other)
	if err != nil {
		return nil, err
	}
	q := newProjIdentity(p.curve.params)
	q.negate(o.p)
	q.add(p.p, q)
	return &nistPoint{curve: p.curve, p: q}, nil
}

func (p *nistPoint) Double() (Point, error) {
	q := newProjIdentity(p.curve.params)
	q.double(p.p)
	return &nistPoint{curve: p.curve, p: q}, nil
}

func (p *nistPoint) Negate() (Point, error) {
	q := newProjIdentity(p.curve.params)
	q.negate(p.p)
	return &nistPoint{curve: p.curve, p: q}, nil
}

func (p *nistPoint) Mul(scalar Scalar) (Point, error) {
	s, ok := scalar.(*nistScalar)
	if !ok || s.curve.kind != p.curve.kind {
		return nil, ErrCurveMismatch.WithDetails("scalar is not on %s", p.curve.kind)
	}
	k := s.curve.params.fn.bytes(s.v)
	defer zeroBytes(k)
	q := newProjIdentity(p.curve.params)
	q.scalarMult(p.p, k)
	return &nistPoint{curve: p.curve, p: q}, nil
}

func (p *nistPoint) BytesX() ([]byte, error) {
	return p.p.bytesX()
}

func (p *nistPoint) Equal(other Point) bool {
	o, err := p.sameGroup(other)
	if err != nil {
		return false
	}
	return p.p.equal(o.p)
}

func (p *nistPoint) IsIdentity() bool {
	return p.p.isIdentity() == 1
}

func (p *nistPoint) IsOnCurve() bool {
	if p.IsIdentity() {
		return true
	}
	x, y, _ := p.p.affine()
	return p.curve.params.isOnCurve(x, y)
}
