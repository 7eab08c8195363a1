// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package mta

import (
	"crypto/elliptic"
	"io"
	"math/big"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/binance-chain/tss-core/common"
	"github.com/binance-chain/tss-core/crypto"
	"github.com/binance-chain/tss-core/crypto/paillier"
	"github.com/binance-chain/tss-core/tss"
)

const (
	ProofBobBytesParts   = 10
	ProofBobWCBytesParts = 12
)

var (
	ErrMalformedProof = errors.New("mta: malformed proof bytes")
	ErrNilArgument    = errors.New("mta: received a nil argument")
)

type (
	ProofBob struct {
		Z, ZPrm, T, V, W, S, S1, S2, T1, T2 *big.Int
	}

	// ProofBobWC is ProofBob bound to the public point X = x·G through u = alpha·G.
	ProofBobWC struct {
		*ProofBob
		U *crypto.ECPoint
	}
)

// ProveBobWC implements Bob's proof both with or without check "ProveMtawc_Bob" and "ProveMta_Bob" used in the MtA protocol from GG18Spec (9) Figs. 10 & 11.
// an absent `X` generates the proof without the X consistency check X = g^x
func ProveBobWC(Session []byte, ec elliptic.Curve, pk *paillier.PublicKey, NTilde, h1, h2, c1, c2, x, y, r *big.Int, X *crypto.ECPoint, rand io.Reader) (*ProofBobWC, error) {
	if ec == nil || pk == nil || NTilde == nil || h1 == nil || h2 == nil || c1 == nil || c2 == nil || x == nil || y == nil || r == nil {
		return nil, ErrNilArgument
	}

	NSquared := pk.NSquare()

	q := ec.Params().N
	q3 := new(big.Int).Mul(q, q)
	q3 = new(big.Int).Mul(q, q3)
	q7 := new(big.Int).Mul(q3, q3)
	q7 = new(big.Int).Mul(q7, q)
	qNTilde := new(big.Int).Mul(q, NTilde)
	q3NTilde := new(big.Int).Mul(q3, NTilde)

	smp := &sampler{rand: rand}

	// steps are numbered as shown in Fig. 10, but diverge slightly for Fig. 11
	// 1.
	alpha := smp.below(q3)

	// 2.
	rho := smp.below(qNTilde)
	sigma := smp.below(qNTilde)
	tau := smp.below(q3NTilde)

	// 3.
	rhoPrm := smp.below(q3NTilde)

	// 4.
	beta := smp.unit(pk.N)
	gamma := smp.below(q7)
	if smp.err != nil {
		return nil, errors.Wrap(smp.err, "ProveBob")
	}

	// 5.
	var u *crypto.ECPoint
	if X != nil {
		u = crypto.ScalarBaseMult(ec, alpha)
	}

	// 6.
	modNTilde := common.ModInt(NTilde)
	z := modNTilde.Exp(h1, x)
	z = modNTilde.Mul(z, modNTilde.Exp(h2, rho))

	// 7.
	zPrm := modNTilde.Exp(h1, alpha)
	zPrm = modNTilde.Mul(zPrm, modNTilde.Exp(h2, rhoPrm))

	// 8.
	t := modNTilde.Exp(h1, y)
	t = modNTilde.Mul(t, modNTilde.Exp(h2, sigma))

	// 9.
	modNSquared := common.ModInt(NSquared)
	v := modNSquared.Exp(c1, alpha)
	v = modNSquared.Mul(v, modNSquared.Exp(pk.Gamma(), gamma))
	v = modNSquared.Mul(v, modNSquared.Exp(beta, pk.N))

	// 10.
	w := modNTilde.Exp(h1, gamma)
	w = modNTilde.Mul(w, modNTilde.Exp(h2, tau))

	// 11-12. e'
	e := bobChallenge(Session, q, pk, X, u, c1, c2, z, zPrm, t, v, w)

	// 13.
	modN := common.ModInt(pk.N)
	s := modN.Exp(r, e)
	s = modN.Mul(s, beta)

	// 14.
	s1 := new(big.Int).Mul(e, x)
	s1 = s1.Add(s1, alpha)

	// 15.
	s2 := new(big.Int).Mul(e, rho)
	s2 = s2.Add(s2, rhoPrm)

	// 16.
	t1 := new(big.Int).Mul(e, y)
	t1 = t1.Add(t1, gamma)

	// 17.
	t2 := new(big.Int).Mul(e, sigma)
	t2 = t2.Add(t2, tau)

	pf := &ProofBob{Z: z, ZPrm: zPrm, T: t, V: v, W: w, S: s, S1: s1, S2: s2, T1: t1, T2: t2}
	return &ProofBobWC{ProofBob: pf, U: u}, nil
}

// ProveBob implements Bob's proof "ProveMta_Bob" used in the MtA protocol from GG18Spec (9) Fig. 11.
func ProveBob(Session []byte, ec elliptic.Curve, pk *paillier.PublicKey, NTilde, h1, h2, c1, c2, x, y, r *big.Int, rand io.Reader) (*ProofBob, error) {
	// X is supplied as nil to exclude it from the proof hash
	pf, err := ProveBobWC(Session, ec, pk, NTilde, h1, h2, c1, c2, x, y, r, nil, rand)
	if err != nil {
		return nil, err
	}
	return pf.ProofBob, nil
}

func bobChallenge(Session []byte, q *big.Int, pk *paillier.PublicKey, X, u *crypto.ECPoint, c1, c2, z, zPrm, t, v, w *big.Int) *big.Int {
	var eHash *big.Int
	// X is nil for the proof without check
	if X == nil {
		eHash = common.SHA512_256i_TAGGED(Session, append(pk.AsInts(), c1, c2, z, zPrm, t, v, w)...)
	} else {
		eHash = common.SHA512_256i_TAGGED(Session, append(pk.AsInts(), X.X(), X.Y(), c1, c2, u.X(), u.Y(), z, zPrm, t, v, w)...)
	}
	return common.RejectionSample(q, eHash)
}

func ProofBobFromBytes(bzs [][]byte) (*ProofBob, error) {
	if !common.NonEmptyMultiBytes(bzs, ProofBobBytesParts) &&
		!common.NonEmptyMultiBytes(bzs, ProofBobWCBytesParts) {
		return nil, errors.Wrapf(ErrMalformedProof,
			"expected %d non-empty byte parts for ProofBob, or %d for ProofBobWC",
			ProofBobBytesParts, ProofBobWCBytesParts)
	}
	return &ProofBob{
		Z:    new(big.Int).SetBytes(bzs[0]),
		ZPrm: new(big.Int).SetBytes(bzs[1]),
		T:    new(big.Int).SetBytes(bzs[2]),
		V:    new(big.Int).SetBytes(bzs[3]),
		W:    new(big.Int).SetBytes(bzs[4]),
		S:    new(big.Int).SetBytes(bzs[5]),
		S1:   new(big.Int).SetBytes(bzs[6]),
		S2:   new(big.Int).SetBytes(bzs[7]),
		T1:   new(big.Int).SetBytes(bzs[8]),
		T2:   new(big.Int).SetBytes(bzs[9]),
	}, nil
}

func ProofBobWCFromBytes(ec elliptic.Curve, bzs [][]byte) (*ProofBobWC, error) {
	if !common.NonEmptyMultiBytes(bzs, ProofBobWCBytesParts) {
		return nil, errors.Wrapf(ErrMalformedProof, "expected %d non-empty byte parts for ProofBobWC", ProofBobWCBytesParts)
	}
	proofBob, err := ProofBobFromBytes(bzs)
	if err != nil {
		return nil, err
	}
	point, err := crypto.NewECPoint(ec,
		new(big.Int).SetBytes(bzs[10]),
		new(big.Int).SetBytes(bzs[11]))
	if err != nil {
		return nil, errors.Wrap(ErrMalformedProof, err.Error())
	}
	return &ProofBobWC{
		ProofBob: proofBob,
		U:        point,
	}, nil
}

// Verify implements verification of Bob's proof with check "VerifyMtawc_Bob" used in the MtA protocol from GG18Spec (9) Fig. 10.
// an absent `X` verifies a proof generated without the X consistency check X = g^x
func (pf *ProofBobWC) Verify(Session []byte, ec elliptic.Curve, pk *paillier.PublicKey, NTilde, h1, h2, c1, c2 *big.Int, X *crypto.ECPoint) bool {
	if err := pf.verify(Session, ec, pk, NTilde, h1, h2, c1, c2, X); err != nil {
		common.Logger.Debugf("mta: ProofBob rejected: %v", err)
		return false
	}
	return true
}

func (pf *ProofBobWC) verify(Session []byte, ec elliptic.Curve, pk *paillier.PublicKey, NTilde, h1, h2, c1, c2 *big.Int, X *crypto.ECPoint) error {
	if pf == nil || pf.ProofBob == nil || !pf.ProofBob.ValidateBasic() {
		return ErrMalformedProof
	}
	if ec == nil || pk == nil || pk.N == nil || NTilde == nil || h1 == nil || h2 == nil || c1 == nil || c2 == nil {
		return ErrNilArgument
	}
	if pk.N.Sign() != 1 || NTilde.Sign() != 1 {
		return errors.New("non-positive modulus")
	}
	if X != nil {
		if pf.U == nil || !pf.U.ValidateBasic() || !X.ValidateBasic() {
			return errors.New("missing or invalid point")
		}
		if !tss.SameCurve(ec, X.Curve()) || !tss.SameCurve(ec, pf.U.Curve()) {
			return errors.New("point is on another curve")
		}
	}

	q := ec.Params().N
	q3 := new(big.Int).Mul(q, q)   // q^2
	q3 = new(big.Int).Mul(q, q3)   // q^3
	q7 := new(big.Int).Mul(q3, q3) // q^6
	q7 = new(big.Int).Mul(q7, q)   // q^7
	NSquared := pk.NSquare()

	var result *multierror.Error
	check := func(ok bool, what string) {
		if !ok {
			result = multierror.Append(result, errors.New(what))
		}
	}

	check(common.IsInInterval(pf.Z, NTilde), "z out of range")
	check(common.IsInInterval(pf.ZPrm, NTilde), "z' out of range")
	check(common.IsInInterval(pf.T, NTilde), "t out of range")
	check(common.IsInInterval(pf.V, NSquared), "v out of range")
	check(common.IsInInterval(pf.W, NTilde), "w out of range")
	check(common.IsInInterval(pf.S, pk.N), "s out of range")

	check(coprime(pf.Z, NTilde), "z not coprime to NTilde")
	check(coprime(pf.ZPrm, NTilde), "z' not coprime to NTilde")
	check(coprime(pf.T, NTilde), "t not coprime to NTilde")
	check(coprime(pf.V, NSquared), "v not coprime to N^2")
	check(coprime(pf.W, NTilde), "w not coprime to NTilde")
	check(coprime(pf.S, pk.N), "s not coprime to N")
	check(coprime(pf.V, pk.N), "v not coprime to N")

	check(pf.S1.Cmp(q) != -1, "s1 < q")
	check(pf.S2.Cmp(q) != -1, "s2 < q")
	check(pf.T1.Cmp(q) != -1, "t1 < q")
	check(pf.T2.Cmp(q) != -1, "t2 < q")

	// 3.
	check(pf.S1.Cmp(q3) <= 0, "s1 > q^3")
	check(pf.T1.Cmp(q7) <= 0, "t1 > q^7")

	if err := result.ErrorOrNil(); err != nil {
		return err
	}

	// 1-2. e'
	e := bobChallenge(Session, q, pk, X, pf.U, c1, c2, pf.Z, pf.ZPrm, pf.T, pf.V, pf.W)

	// 4. runs only in the "with check" mode from Fig. 10
	if X != nil {
		gS1 := crypto.ScalarBaseMult(ec, pf.S1)
		xEU, err := X.ScalarMult(e).Add(pf.U)
		check(err == nil && gS1.Equals(xEU), "s1·G != e·X + u")
	}

	modNTilde := common.ModInt(NTilde)
	{ // 5.
		left := modNTilde.Mul(modNTilde.Exp(h1, pf.S1), modNTilde.Exp(h2, pf.S2))
		right := modNTilde.Mul(modNTilde.Exp(pf.Z, e), pf.ZPrm)
		check(left.Cmp(right) == 0, "h1^s1·h2^s2 != z^e·z'")
	}

	{ // 6.
		left := modNTilde.Mul(modNTilde.Exp(h1, pf.T1), modNTilde.Exp(h2, pf.T2))
		right := modNTilde.Mul(modNTilde.Exp(pf.T, e), pf.W)
		check(left.Cmp(right) == 0, "h1^t1·h2^t2 != t^e·w")
	}

	{ // 7.
		modNSquared := common.ModInt(NSquared)
		left := modNSquared.Mul(modNSquared.Exp(c1, pf.S1), modNSquared.Exp(pf.S, pk.N))
		left = modNSquared.Mul(left, modNSquared.Exp(pk.Gamma(), pf.T1))
		right := modNSquared.Mul(modNSquared.Exp(c2, e), pf.V)
		check(left.Cmp(right) == 0, "c1^s1·s^N·gamma^t1 != c2^e·v")
	}
	return result.ErrorOrNil()
}

// Verify implements verification of Bob's proof without check "VerifyMta_Bob" used in the MtA protocol from GG18Spec (9) Fig. 11.
func (pf *ProofBob) Verify(Session []byte, ec elliptic.Curve, pk *paillier.PublicKey, NTilde, h1, h2, c1, c2 *big.Int) bool {
	if pf == nil {
		return false
	}
	pfWC := &ProofBobWC{ProofBob: pf, U: nil}
	return pfWC.Verify(Session, ec, pk, NTilde, h1, h2, c1, c2, nil)
}

func (pf *ProofBob) ValidateBasic() bool {
	return pf.Z != nil &&
		pf.ZPrm != nil &&
		pf.T != nil &&
		pf.V != nil &&
		pf.W != nil &&
		pf.S != nil &&
		pf.S1 != nil &&
		pf.S2 != nil &&
		pf.T1 != nil &&
		pf.T2 != nil
}

func (pf *ProofBobWC) ValidateBasic() bool {
	return pf.ProofBob != nil && pf.ProofBob.ValidateBasic() && pf.U != nil
}

func (pf *ProofBob) Bytes() [ProofBobBytesParts][]byte {
	return [...][]byte{
		pf.Z.Bytes(),
		pf.ZPrm.Bytes(),
		pf.T.Bytes(),
		pf.V.Bytes(),
		pf.W.Bytes(),
		pf.S.Bytes(),
		pf.S1.Bytes(),
		pf.S2.Bytes(),
		pf.T1.Bytes(),
		pf.T2.Bytes(),
	}
}

func (pf *ProofBobWC) Bytes() [ProofBobWCBytesParts][]byte {
	var out [ProofBobWCBytesParts][]byte
	bobBzs := pf.ProofBob.Bytes()
	copy(out[:], bobBzs[:])
	out[ProofBobBytesParts] = pf.U.X().Bytes()
	out[ProofBobBytesParts+1] = pf.U.Y().Bytes()
	return out
}

// ----- //

func coprime(a, b *big.Int) bool {
	return a.Sign() != 0 && new(big.Int).GCD(nil, nil, a, b).Cmp(one) == 0
}

// sampler keeps the first entropy error so a run of draws can be checked once.
type sampler struct {
	rand io.Reader
	err  error
}

func (smp *sampler) below(lessThan *big.Int) *big.Int {
	if smp.err != nil {
		return nil
	}
	v, err := common.GetRandomPositiveInt(smp.rand, lessThan)
	smp.err = err
	return v
}

func (smp *sampler) unit(n *big.Int) *big.Int {
	if smp.err != nil {
		return nil
	}
	v, err := common.GetRandomPositiveRelativelyPrimeInt(smp.rand, n)
	smp.err = err
	return v
}
