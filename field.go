package ecc

import (
	"errors"
	"math/big"
	"math/bits"
)

// This file implements generic constant-time arithmetic modulo an odd prime,
// used for both the NIST prime fields and the scalar fields modulo the group
// orders. Values are held in Montgomery form as little-endian saturated
// uint64 limbs, always fully reduced below the modulus. No operation
// branches on limb values; reductions select results through borrow masks.
//
// Modulus precomputation runs once at startup from public curve constants,
// which is the only place math/big is allowed.

var (
	errElementLength = errors.New("element encoding has the wrong length")
	errElementRange  = errors.New("element is not below the modulus")
)

// element is a residue in Montgomery form: the value v is stored as
// v*R mod m where R = 2^(64*len(limbs)).
type element []uint64

// modulus is an odd prime modulus together with its Montgomery constants.
type modulus struct {
	limbs []uint64 // the modulus itself, little-endian
	size  int      // canonical encoding length in bytes
	bits  int
	m0inv uint64 // -m^-1 mod 2^64
	rr    element
	one   element // R mod m, the Montgomery form of 1

	expInv  []byte // m-2, for Fermat inversion
	expSqrt []byte // (m+1)/4 when m ≡ 3 mod 4, nil otherwise

	ops *uint64 // multiplication counter, set only by tests
}

func newModulus(hexStr string, bitLen int) *modulus {
	n, ok := new(big.Int).SetString(hexStr, 16)
	if !ok || n.Bit(0) != 1 {
		panic("ecc: invalid modulus constant")
	}
	nLimbs := (bitLen + 63) / 64
	m := &modulus{
		limbs: bigToLimbs(n, nLimbs),
		size:  (bitLen + 7) / 8,
		bits:  bitLen,
	}

	// Newton iteration doubles the number of correct low bits each round.
	inv := m.limbs[0]
	for i := 0; i < 5; i++ {
		inv *= 2 - m.limbs[0]*inv
	}
	m.m0inv = -inv

	r := new(big.Int).Lsh(big.NewInt(1), uint(64*nLimbs))
	m.one = bigToLimbs(new(big.Int).Mod(r, n), nLimbs)
	m.rr = bigToLimbs(new(big.Int).Mod(new(big.Int).Mul(r, r), n), nLimbs)

	m.expInv = new(big.Int).Sub(n, big.NewInt(2)).Bytes()
	if n.Bit(1) == 1 { // m ≡ 3 mod 4, sqrt is a single exponentiation
		m.expSqrt = new(big.Int).Rsh(new(big.Int).Add(n, big.NewInt(1)), 2).Bytes()
	}
	return m
}

func bigToLimbs(v *big.Int, n int) element {
	out := make(element, n)
	b := v.Bytes()
	for i := 0; i < len(b); i++ {
		out[i/8] |= uint64(b[len(b)-1-i]) << (8 * uint(i%8))
	}
	return out
}

func (m *modulus) newElement() element {
	return make(element, len(m.limbs))
}

// modulusBytes encodes the modulus itself as fixed-width big-endian bytes.
func (m *modulus) modulusBytes() []byte {
	out := make([]byte, m.size)
	for i := 0; i < m.size; i++ {
		out[m.size-1-i] = byte(m.limbs[i/8] >> (8 * uint(i%8)))
	}
	return out
}

// setBytes decodes fixed-width big-endian bytes into Montgomery form,
// rejecting values outside [0, m).
func (m *modulus) setBytes(b []byte) (element, error) {
	if len(b) != m.size {
		return nil, errElementLength
	}
	raw := make(element, len(m.limbs))
	for i := 0; i < len(b); i++ {
		raw[i/8] |= uint64(b[len(b)-1-i]) << (8 * uint(i%8))
	}
	var borrow uint64
	for i := range raw {
		_, borrow = bits.Sub64(raw[i], m.limbs[i], borrow)
	}
	if borrow == 0 {
		zeroLimbs(raw)
		return nil, errElementRange
	}
	z := m.newElement()
	m.mul(z, raw, m.rr)
	zeroLimbs(raw)
	return z, nil
}

// bytes encodes the canonical value as fixed-width big-endian bytes.
func (m *modulus) bytes(x element) []byte {
	t := m.newElement()
	m.fromMont(t, x)
	out := make([]byte, m.size)
	for i := 0; i < m.size; i++ {
		out[m.size-1-i] = byte(t[i/8] >> (8 * uint(i%8)))
	}
	zeroLimbs(t)
	return out
}

// add sets z = x + y mod m. z may alias x or y.
func (m *modulus) add(z, x, y element) {
	var carry uint64
	for i := range z {
		z[i], carry = bits.Add64(x[i], y[i], carry)
	}
	m.reduceOnce(z, carry)
}

// sub sets z = x - y mod m. z may alias x or y.
func (m *modulus) sub(z, x, y element) {
	var borrow uint64
	for i := range z {
		z[i], borrow = bits.Sub64(x[i], y[i], borrow)
	}
	// Add the modulus back when the subtraction underflowed.
	mask := -borrow
	var carry uint64
	for i := range z {
		z[i], carry = bits.Add64(z[i], mask&m.limbs[i], carry)
	}
}

// neg sets z = -x mod m.
func (m *modulus) neg(z, x element) {
	t := m.newElement()
	m.sub(z, t, x)
}

// reduceOnce conditionally subtracts m when the value, together with the
// incoming carry word, is not below m.
func (m *modulus) reduceOnce(z element, carry uint64) {
	t := make(element, len(z))
	var borrow uint64
	for i := range z {
		t[i], borrow = bits.Sub64(z[i], m.limbs[i], borrow)
	}
	// Keep the subtracted value when the carry is set or no borrow occurred.
	mask := -(carry | (borrow ^ 1))
	for i := range z {
		z[i] ^= mask & (z[i] ^ t[i])
	}
}

// mul sets z = x*y*R^-1 mod m (CIOS Montgomery multiplication).
// z may alias x or y.
func (m *modulus) mul(z, x, y element) {
	if m.ops != nil {
		*m.ops++
	}
	n := len(m.limbs)
	t := make([]uint64, n+2)
	for i := 0; i < n; i++ {
		// t += x[i] * y
		var c uint64
		for j := 0; j < n; j++ {
			hi, lo := bits.Mul64(x[i], y[j])
			s, c1 := bits.Add64(t[j], c, 0)
			s, c2 := bits.Add64(s, lo, 0)
			t[j] = s
			c = hi + c1 + c2
		}
		var c1 uint64
		t[n], c1 = bits.Add64(t[n], c, 0)
		t[n+1] = c1

		// Fold in q*m so the lowest word becomes zero and shift down.
		q := t[0] * m.m0inv
		hi, lo := bits.Mul64(q, m.limbs[0])
		_, c2 := bits.Add64(t[0], lo, 0)
		c = hi + c2
		for j := 1; j < n; j++ {
			hi, lo = bits.Mul64(q, m.limbs[j])
			s, c3 := bits.Add64(t[j], c, 0)
			s, c4 := bits.Add64(s, lo, 0)
			t[j-1] = s
			c = hi + c3 + c4
		}
		t[n-1], c1 = bits.Add64(t[n], c, 0)
		t[n], _ = bits.Add64(t[n+1], c1, 0)
	}
	copy(z, t[:n])
	m.reduceOnce(z, t[n])
	zeroLimbs(t) // scratch can hold secret intermediates
}

// toMont converts a canonical value into Montgomery form.
func (m *modulus) toMont(z, x element) {
	m.mul(z, x, m.rr)
}

// fromMont strips one factor of R by multiplying with plain 1.
func (m *modulus) fromMont(z, x element) {
	t := m.newElement()
	t[0] = 1
	m.mul(z, x, t)
}

// exp sets z = x^e mod m for a public exponent, big-endian bytes.
// Branching on exponent bits is fine: exponents here are curve constants.
func (m *modulus) exp(z, x element, e []byte) {
	base := append(element(nil), x...)
	acc := append(element(nil), m.one...)
	t := m.newElement()
	for _, b := range e {
		for s := 7; s >= 0; s-- {
			m.mul(t, acc, acc)
			copy(acc, t)
			if (b>>uint(s))&1 == 1 {
				m.mul(t, acc, base)
				copy(acc, t)
			}
		}
	}
	copy(z, acc)
	zeroLimbs(base)
	zeroLimbs(acc)
	zeroLimbs(t)
}

// inv sets z = x^-1 mod m via Fermat's little theorem. The inverse of zero
// is a contract violation; upstream validation keeps zero out, and the
// result for zero is simply zero.
func (m *modulus) inv(z, x element) {
	m.exp(z, x, m.expInv)
}

// sqrt sets z to a square root of x and reports whether one exists.
// Only defined for moduli ≡ 3 mod 4, which covers all three NIST primes.
func (m *modulus) sqrt(z, x element) bool {
	if m.expSqrt == nil {
		return false
	}
	cand := m.newElement()
	m.exp(cand, x, m.expSqrt)
	check := m.newElement()
	m.mul(check, cand, cand)
	if m.equal(check, x) != 1 {
		zeroLimbs(cand)
		return false
	}
	copy(z, cand)
	zeroLimbs(cand)
	return true
}

// equal returns 1 when x == y, in constant time.
func (m *modulus) equal(x, y element) int {
	var acc uint64
	for i := range x {
		acc |= x[i] ^ y[i]
	}
	return int(1 - ((acc | -acc) >> 63))
}

// isZero returns 1 when x == 0, in constant time.
func (m *modulus) isZero(x element) int {
	var acc uint64
	for i := range x {
		acc |= x[i]
	}
	return int(1 - ((acc | -acc) >> 63))
}

// ctSelect sets z to x when v == 1 and to y when v == 0.
func ctSelect(z, x, y element, v uint64) {
	mask := -v
	for i := range z {
		z[i] = y[i] ^ (mask & (x[i] ^ y[i]))
	}
}

// ctSwap exchanges x and y when v == 1 and leaves them alone when v == 0.
func ctSwap(x, y element, v uint64) {
	mask := -v
	for i := range x {
		d := mask & (x[i] ^ y[i])
		x[i] ^= d
		y[i] ^= d
	}
}

func zeroLimbs(x []uint64) {
	for i := range x {
		x[i] = 0
	}
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
