package ecc

// NIST P-521 (secp521r1, FIPS 186-4 / SEC 2 section 2.6.1).
// The field prime is the Mersenne prime 2^521 - 1.
func p521Params() *weierstrassParams {
	p521Once.Do(func() {
		p521p = newWeierstrassParams(
			"P-521", 521,
			"01ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
			"01fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffa51868783bf2f966b7fcc0148f709a5d03bb5c9b8899c47aebb6fb71e91386409",
			"0051953eb9618e1c9a1f929a21a0b68540eea2da725b99b315f3b8b489918ef109e156193951ec7e937b1652c0bd3bb1bf073573df883d2c34f1ef451fd46b503f00",
			"00c6858e06b70404e9cd9e3ecb662395b4429c648139053fb521f828af606b4d3dbaa14b5e77efe75928fe1dc127a2ffa8de3348b3c1856a429bf97e7e31c2e5bd66",
			"011839296a789a3bc0045c8a5fb42c7d1bd998f54449579b446817afbd17273e662c97ee72995ef42640c550b9013fad0761353c7086a272c24088be94769fd16650",
		)
	})
	return p521p
}

// NewP521Curve creates a new P-521 curve instance
func NewP521Curve() Curve {
	return &nistCurve{kind: P521, params: p521Params()}
}
