package ecc

import (
	"encoding/hex"
	"sync"
)

// weierstrassParams describes a short-Weierstrass curve y² = x³ - 3x + b
// over a prime field, together with the scalar field modulo the group order.
type weierstrassParams struct {
	name      string
	fp        *modulus // prime field
	fn        *modulus // scalar field, modulo the group order
	b         element  // curve constant, Montgomery form
	gx, gy    element  // base point, affine Montgomery form
	orderBits int
	orderMask byte // high-byte mask for rejection sampling
}

func newWeierstrassParams(name string, bitLen int, pHex, nHex, bHex, gxHex, gyHex string) *weierstrassParams {
	fp := newModulus(pHex, bitLen)
	fn := newModulus(nHex, bitLen)
	c := &weierstrassParams{
		name:      name,
		fp:        fp,
		fn:        fn,
		orderBits: bitLen,
		orderMask: byte(0xff >> uint(8*fn.size-bitLen)),
	}
	c.b = mustElement(fp, bHex)
	c.gx = mustElement(fp, gxHex)
	c.gy = mustElement(fp, gyHex)
	if !c.isOnCurve(c.gx, c.gy) {
		panic("ecc: base point constant is not on the curve")
	}
	return c
}

// mustElement decodes a public hex constant into Montgomery form.
func mustElement(m *modulus, s string) element {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) > m.size {
		panic("ecc: invalid curve constant")
	}
	padded := make([]byte, m.size)
	copy(padded[m.size-len(raw):], raw)
	e, err := m.setBytes(padded)
	if err != nil {
		panic("ecc: curve constant out of range")
	}
	return e
}

// isOnCurve checks y² == x³ - 3x + b for affine Montgomery-form coordinates.
func (c *weierstrassParams) isOnCurve(x, y element) bool {
	fp := c.fp
	lhs := fp.newElement()
	fp.mul(lhs, y, y)
	return fp.equal(lhs, c.rhs(x)) == 1
}

// rhs computes x³ - 3x + b.
func (c *weierstrassParams) rhs(x element) element {
	fp := c.fp
	x2 := fp.newElement()
	fp.mul(x2, x, x)
	x3 := fp.newElement()
	fp.mul(x3, x2, x)
	tx := fp.newElement()
	fp.add(tx, x, x)
	fp.add(tx, tx, x)
	fp.sub(x3, x3, tx)
	fp.add(x3, x3, c.b)
	return x3
}

// projPoint is a point in projective (X:Y:Z) coordinates, Montgomery form,
// with the identity at (0:1:0). Addition and doubling use the complete
// formulas from "Complete addition formulas for prime order elliptic
// curves" (Renes, Costello, Batina 2016, Algorithms 4 and 6, a = -3), so
// identity and equal operands take the same code path as the generic case.
type projPoint struct {
	c       *weierstrassParams
	x, y, z element
}

func newProjIdentity(c *weierstrassParams) *projPoint {
	p := &projPoint{c: c, x: c.fp.newElement(), y: c.fp.newElement(), z: c.fp.newElement()}
	copy(p.y, c.fp.one)
	return p
}

func newProjGenerator(c *weierstrassParams) *projPoint {
	p := newProjIdentity(c)
	copy(p.x, c.gx)
	copy(p.y, c.gy)
	copy(p.z, c.fp.one)
	return p
}

func (p *projPoint) set(q *projPoint) *projPoint {
	copy(p.x, q.x)
	copy(p.y, q.y)
	copy(p.z, q.z)
	return p
}

func (p *projPoint) clone() *projPoint {
	return newProjIdentity(p.c).set(p)
}

func (p *projPoint) setIdentity() *projPoint {
	zeroLimbs(p.x)
	zeroLimbs(p.z)
	copy(p.y, p.c.fp.one)
	return p
}

func (p *projPoint) isIdentity() int {
	return p.c.fp.isZero(p.z)
}

// add sets q = p1 + p2 (RCB 2016, Algorithm 4). q may alias p1 or p2.
func (q *projPoint) add(p1, p2 *projPoint) *projPoint {
	fp := q.c.fp
	b := q.c.b

	t0 := fp.newElement()
	t1 := fp.newElement()
	t2 := fp.newElement()
	t3 := fp.newElement()
	t4 := fp.newElement()
	x3 := fp.newElement()
	y3 := fp.newElement()
	z3 := fp.newElement()

	fp.mul(t0, p1.x, p2.x) // t0 := X1 * X2
	fp.mul(t1, p1.y, p2.y) // t1 := Y1 * Y2
	fp.mul(t2, p1.z, p2.z) // t2 := Z1 * Z2
	fp.add(t3, p1.x, p1.y) // t3 := X1 + Y1
	fp.add(t4, p2.x, p2.y) // t4 := X2 + Y2
	fp.mul(t3, t3, t4)     // t3 := t3 * t4
	fp.add(t4, t0, t1)     // t4 := t0 + t1
	fp.sub(t3, t3, t4)     // t3 := t3 - t4
	fp.add(t4, p1.y, p1.z) // t4 := Y1 + Z1
	fp.add(x3, p2.y, p2.z) // x3 := Y2 + Z2
	fp.mul(t4, t4, x3)     // t4 := t4 * x3
	fp.add(x3, t1, t2)     // x3 := t1 + t2
	fp.sub(t4, t4, x3)     // t4 := t4 - x3
	fp.add(x3, p1.x, p1.z) // x3 := X1 + Z1
	fp.add(y3, p2.x, p2.z) // y3 := X2 + Z2
	fp.mul(x3, x3, y3)     // x3 := x3 * y3
	fp.add(y3, t0, t2)     // y3 := t0 + t2
	fp.sub(y3, x3, y3)     // y3 := x3 - y3
	fp.mul(z3, b, t2)      // z3 := b * t2
	fp.sub(x3, y3, z3)     // x3 := y3 - z3
	fp.add(z3, x3, x3)     // z3 := x3 + x3
	fp.add(x3, x3, z3)     // x3 := x3 + z3
	fp.sub(z3, t1, x3)     // z3 := t1 - x3
	fp.add(x3, t1, x3)     // x3 := t1 + x3
	fp.mul(y3, b, y3)      // y3 := b * y3
	fp.add(t1, t2, t2)     // t1 := t2 + t2
	fp.add(t2, t1, t2)     // t2 := t1 + t2
	fp.sub(y3, y3, t2)     // y3 := y3 - t2
	fp.sub(y3, y3, t0)     // y3 := y3 - t0
	fp.add(t1, y3, y3)     // t1 := y3 + y3
	fp.add(y3, t1, y3)     // y3 := t1 + y3
	fp.add(t1, t0, t0)     // t1 := t0 + t0
	fp.add(t0, t1, t0)     // t0 := t1 + t0
	fp.sub(t0, t0, t2)     // t0 := t0 - t2
	fp.mul(t1, t4, y3)     // t1 := t4 * y3
	fp.mul(t2, t0, y3)     // t2 := t0 * y3
	fp.mul(y3, x3, z3)     // y3 := x3 * z3
	fp.add(y3, y3, t2)     // y3 := y3 + t2
	fp.mul(x3, t3, x3)     // x3 := t3 * x3
	fp.sub(x3, x3, t1)     // x3 := x3 - t1
	fp.mul(z3, t4, z3)     // z3 := t4 * z3
	fp.mul(t1, t3, t0)     // t1 := t3 * t0
	fp.add(z3, z3, t1)     // z3 := z3 + t1

	copy(q.x, x3)
	copy(q.y, y3)
	copy(q.z, z3)
	return q
}

// double sets q = 2*p (RCB 2016, Algorithm 6). q may alias p.
func (q *projPoint) double(p *projPoint) *projPoint {
	fp := q.c.fp
	b := q.c.b

	t0 := fp.newElement()
	t1 := fp.newElement()
	t2 := fp.newElement()
	t3 := fp.newElement()
	x3 := fp.newElement()
	y3 := fp.newElement()
	z3 := fp.newElement()

	fp.mul(t0, p.x, p.x) // t0 := X ^ 2
	fp.mul(t1, p.y, p.y) // t1 := Y ^ 2
	fp.mul(t2, p.z, p.z) // t2 := Z ^ 2
	fp.mul(t3, p.x, p.y) // t3 := X * Y
	fp.add(t3, t3, t3)   // t3 := t3 + t3
	fp.mul(z3, p.x, p.z) // z3 := X * Z
	fp.add(z3, z3, z3)   // z3 := z3 + z3
	fp.mul(y3, b, t2)    // y3 := b * t2
	fp.sub(y3, y3, z3)   // y3 := y3 - z3
	fp.add(x3, y3, y3)   // x3 := y3 + y3
	fp.add(y3, x3, y3)   // y3 := x3 + y3
	fp.sub(x3, t1, y3)   // x3 := t1 - y3
	fp.add(y3, t1, y3)   // y3 := t1 + y3
	fp.mul(y3, x3, y3)   // y3 := x3 * y3
	fp.mul(x3, x3, t3)   // x3 := x3 * t3
	fp.add(t3, t2, t2)   // t3 := t2 + t2
	fp.add(t2, t2, t3)   // t2 := t2 + t3
	fp.mul(z3, b, z3)    // z3 := b * z3
	fp.sub(z3, z3, t2)   // z3 := z3 - t2
	fp.sub(z3, z3, t0)   // z3 := z3 - t0
	fp.add(t3, z3, z3)   // t3 := z3 + z3
	fp.add(z3, z3, t3)   // z3 := z3 + t3
	fp.add(t3, t0, t0)   // t3 := t0 + t0
	fp.add(t0, t3, t0)   // t0 := t3 + t0
	fp.sub(t0, t0, t2)   // t0 := t0 - t2
	fp.mul(t0, t0, z3)   // t0 := t0 * z3
	fp.add(y3, y3, t0)   // y3 := y3 + t0
	fp.mul(t0, p.y, p.z) // t0 := Y * Z
	fp.add(t0, t0, t0)   // t0 := t0 + t0
	fp.mul(z3, t0, z3)   // z3 := t0 * z3
	fp.sub(x3, x3, z3)   // x3 := x3 - z3
	fp.mul(z3, t0, t1)   // z3 := t0 * t1
	fp.add(z3, z3, z3)   // z3 := z3 + z3
	fp.add(z3, z3, z3)   // z3 := z3 + z3

	copy(q.x, x3)
	copy(q.y, y3)
	copy(q.z, z3)
	return q
}

// negate sets q = -p.
func (q *projPoint) negate(p *projPoint) *projPoint {
	fp := q.c.fp
	copy(q.x, p.x)
	fp.neg(q.y, p.y)
	copy(q.z, p.z)
	return q
}

func projSwap(a, b *projPoint, v uint64) {
	ctSwap(a.x, b.x, v)
	ctSwap(a.y, b.y, v)
	ctSwap(a.z, b.z, v)
}

// scalarMult sets q = k*p with a Montgomery ladder over exactly orderBits
// bits of the fixed-width big-endian scalar encoding. Every iteration
// performs one addition, one doubling and two conditional swaps, so the
// work done is independent of the scalar value.
func (q *projPoint) scalarMult(p *projPoint, k []byte) *projPoint {
	c := q.c
	r0 := newProjIdentity(c)
	r1 := p.clone()

	total := c.fn.size * 8
	for i := total - c.orderBits; i < total; i++ {
		bit := uint64(k[i/8]>>(7-uint(i%8))) & 1
		projSwap(r0, r1, bit)
		r1.add(r0, r1)
		r0.double(r0)
		projSwap(r0, r1, bit)
	}
	return q.set(r0)
}

// affine returns the affine coordinates in Montgomery form, plus whether
// the point is the identity. Conversion happens only at encode boundaries.
func (p *projPoint) affine() (x, y element, infinity int) {
	fp := p.c.fp
	zinv := fp.newElement()
	fp.inv(zinv, p.z)
	x = fp.newElement()
	y = fp.newElement()
	fp.mul(x, p.x, zinv)
	fp.mul(y, p.y, zinv)
	return x, y, fp.isZero(p.z)
}

// equal compares two points without converting to affine coordinates:
// (X1:Y1:Z1) == (X2:Y2:Z2) iff X1*Z2 == X2*Z1 and Y1*Z2 == Y2*Z1.
func (p *projPoint) equal(q *projPoint) bool {
	fp := p.c.fp
	a := fp.newElement()
	b := fp.newElement()
	fp.mul(a, p.x, q.z)
	fp.mul(b, q.x, p.z)
	eq := fp.equal(a, b)
	fp.mul(a, p.y, q.z)
	fp.mul(b, q.y, p.z)
	return eq&fp.equal(a, b) == 1
}

// bytes encodes the point as SEC1 uncompressed 04||X||Y, or the single
// byte 00 for the identity.
func (p *projPoint) bytes() []byte {
	x, y, inf := p.affine()
	if inf == 1 {
		return []byte{0}
	}
	size := p.c.fp.size
	out := make([]byte, 1+2*size)
	out[0] = 4
	copy(out[1:], p.c.fp.bytes(x))
	copy(out[1+size:], p.c.fp.bytes(y))
	return out
}

// compressedBytes encodes the point as SEC1 compressed 02/03||X.
func (p *projPoint) compressedBytes() []byte {
	x, y, inf := p.affine()
	if inf == 1 {
		return []byte{0}
	}
	yb := p.c.fp.bytes(y)
	out := make([]byte, 1+p.c.fp.size)
	out[0] = 2 | (yb[len(yb)-1] & 1)
	copy(out[1:], p.c.fp.bytes(x))
	return out
}

// bytesX returns the fixed-width big-endian affine x-coordinate, the
// Diffie-Hellman shared value for Weierstrass curves.
func (p *projPoint) bytesX() ([]byte, error) {
	x, _, inf := p.affine()
	if inf == 1 {
		return nil, ErrDegenerateResult
	}
	return p.c.fp.bytes(x), nil
}

// setBytes decodes and validates an encoded point. Coordinates outside
// [0, p) and points not satisfying the curve equation are rejected, which
// is the invalid-curve-attack defense: no unvalidated point ever reaches
// the arithmetic.
func (p *projPoint) setBytes(data []byte) error {
	c := p.c
	size := c.fp.size
	if len(data) == 0 {
		return ErrInvalidPointLength.WithDetails("empty encoding")
	}
	switch data[0] {
	case 0: // identity
		if len(data) != 1 {
			return ErrInvalidPointLength.WithDetails("identity must be a single zero byte")
		}
		p.setIdentity()
		return nil

	case 4: // uncompressed
		if len(data) != 1+2*size {
			return ErrInvalidPointLength.WithDetails("want %d bytes, got %d", 1+2*size, len(data))
		}
		x, err := c.fp.setBytes(data[1 : 1+size])
		if err != nil {
			return ErrInvalidPoint.WithDetails("x coordinate out of field range")
		}
		y, err := c.fp.setBytes(data[1+size:])
		if err != nil {
			return ErrInvalidPoint.WithDetails("y coordinate out of field range")
		}
		if !c.isOnCurve(x, y) {
			return ErrInvalidPoint.WithDetails("point does not satisfy the curve equation")
		}
		copy(p.x, x)
		copy(p.y, y)
		copy(p.z, c.fp.one)
		return nil

	case 2, 3: // compressed
		if len(data) != 1+size {
			return ErrInvalidPointLength.WithDetails("want %d bytes, got %d", 1+size, len(data))
		}
		x, err := c.fp.setBytes(data[1:])
		if err != nil {
			return ErrInvalidPoint.WithDetails("x coordinate out of field range")
		}
		y := c.fp.newElement()
		if !c.fp.sqrt(y, c.rhs(x)) {
			return ErrInvalidPoint.WithDetails("x has no point on the curve")
		}
		yb := c.fp.bytes(y)
		if yb[len(yb)-1]&1 != data[0]&1 {
			c.fp.neg(y, y)
		}
		copy(p.x, x)
		copy(p.y, y)
		copy(p.z, c.fp.one)
		return nil

	default:
		return ErrInvalidPoint.WithDetails("unknown encoding prefix 0x%02x", data[0])
	}
}

// Curve parameter singletons, built on first use from the standardized
// constants (SEC 2 / FIPS 186).
var (
	p256Once sync.Once
	p256p    *weierstrassParams

	p384Once sync.Once
	p384p    *weierstrassParams

	p521Once sync.Once
	p521p    *weierstrassParams
)
