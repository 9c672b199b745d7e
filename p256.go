package ecc

// NIST P-256 (secp256r1, FIPS 186-4 / SEC 2 section 2.4.2).
func p256Params() *weierstrassParams {
	p256Once.Do(func() {
		p256p = newWeierstrassParams(
			"P-256", 256,
			"ffffffff00000001000000000000000000000000ffffffffffffffffffffffff",
			"ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551",
			"5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b",
			"6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296",
			"4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5",
		)
	})
	return p256p
}

// NewP256Curve creates a new P-256 curve instance
func NewP256Curve() Curve {
	return &nistCurve{kind: P256, params: p256Params()}
}
