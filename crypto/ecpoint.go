// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package crypto

import (
	"crypto/elliptic"
	"encoding/json"
	"math/big"

	"github.com/btcsuite/btcd/btcec"
	"github.com/decred/dcrd/dcrec/edwards/v2"
	"github.com/pkg/errors"

	"github.com/binance-chain/tss-core/common"
	"github.com/binance-chain/tss-core/tss"
)

var ErrPointNotOnCurve = errors.New("the point is not on the elliptic curve")

// ECPoint represents a point on an elliptic curve in affine form. It is designed to be immutable.
// The point at infinity is held with coordinates (0, 0), which is how the Go curve
// implementations report it.
type ECPoint struct {
	curve  elliptic.Curve
	coords [2]*big.Int
}

// NewECPoint checks that the coordinates are on the curve. (0, 0) is accepted as infinity.
func NewECPoint(curve elliptic.Curve, X, Y *big.Int) (*ECPoint, error) {
	if curve == nil || X == nil || Y == nil {
		return nil, errors.New("NewECPoint() received one or more nil args")
	}
	if !isInfinity(X, Y) && !curve.IsOnCurve(X, Y) {
		return nil, ErrPointNotOnCurve
	}
	return &ECPoint{curve, [2]*big.Int{new(big.Int).Set(X), new(big.Int).Set(Y)}}, nil
}

// Creates a new ECPoint without checking that the coordinates are on the elliptic curve.
// Only use this function when you are completely sure that the point is already on the curve.
func NewECPointNoCurveCheck(curve elliptic.Curve, X, Y *big.Int) *ECPoint {
	return &ECPoint{curve, [2]*big.Int{X, Y}}
}

// Infinity returns the identity of the curve group.
func Infinity(curve elliptic.Curve) *ECPoint {
	return &ECPoint{curve, [2]*big.Int{new(big.Int), new(big.Int)}}
}

func (p *ECPoint) X() *big.Int {
	return new(big.Int).Set(p.coords[0])
}

func (p *ECPoint) Y() *big.Int {
	return new(big.Int).Set(p.coords[1])
}

// XY returns both affine coordinates; infinity yields (0, 0).
func (p *ECPoint) XY() (*big.Int, *big.Int) {
	return p.X(), p.Y()
}

func (p *ECPoint) Curve() elliptic.Curve {
	return p.curve
}

func (p *ECPoint) IsInfinity() bool {
	return isInfinity(p.coords[0], p.coords[1])
}

func (p *ECPoint) Add(b *ECPoint) (*ECPoint, error) {
	if p.IsInfinity() {
		return NewECPoint(p.curve, b.coords[0], b.coords[1])
	}
	if b.IsInfinity() {
		return NewECPoint(p.curve, p.coords[0], p.coords[1])
	}
	if isTwistedEdwards(p.curve) {
		// the Edwards addition law is complete; (0, 1) is the identity
		x, y := p.curve.Add(p.X(), p.Y(), b.X(), b.Y())
		x, y = normalizeIdentity(p.curve, x, y)
		return NewECPoint(p.curve, x, y)
	}
	// P + (-P) is infinity; not every Weierstrass implementation handles it in Add
	if p.coords[0].Cmp(b.coords[0]) == 0 && p.coords[1].Cmp(b.coords[1]) != 0 {
		return Infinity(p.curve), nil
	}
	x, y := p.curve.Add(p.X(), p.Y(), b.X(), b.Y())
	return NewECPoint(p.curve, x, y)
}

func (p *ECPoint) Sub(b *ECPoint) (*ECPoint, error) {
	return p.Add(b.Neg())
}

// Neg is (x, -y) on Weierstrass curves and (-x, y) on twisted Edwards curves.
func (p *ECPoint) Neg() *ECPoint {
	if p.IsInfinity() {
		return Infinity(p.curve)
	}
	i := 1
	if isTwistedEdwards(p.curve) {
		i = 0
	}
	coords := [2]*big.Int{p.X(), p.Y()}
	coords[i].Neg(coords[i])
	coords[i].Mod(coords[i], p.curve.Params().P)
	return NewECPointNoCurveCheck(p.curve, coords[0], coords[1])
}

// ScalarMult computes k·p with k reduced modulo the curve order.
func (p *ECPoint) ScalarMult(k *big.Int) *ECPoint {
	kr := reduceScalar(p.curve, k)
	if p.IsInfinity() || kr.Sign() == 0 {
		return Infinity(p.curve)
	}
	x, y := p.curve.ScalarMult(p.X(), p.Y(), kr.Bytes())
	x, y = normalizeIdentity(p.curve, x, y)
	return NewECPointNoCurveCheck(p.curve, x, y)
}

func (p *ECPoint) IsOnCurve() bool {
	if p == nil || p.coords[0] == nil || p.coords[1] == nil {
		return false
	}
	return p.IsInfinity() || p.curve.IsOnCurve(p.coords[0], p.coords[1])
}

func (p *ECPoint) ValidateBasic() bool {
	return p != nil && p.curve != nil && p.IsOnCurve()
}

func (p *ECPoint) Equals(b *ECPoint) bool {
	if p == nil || b == nil {
		return false
	}
	return p.coords[0].Cmp(b.coords[0]) == 0 && p.coords[1].Cmp(b.coords[1]) == 0
}

// Bytes is the fixed-width concatenation of the coordinates.
func (p *ECPoint) Bytes() []byte {
	byteSize := (p.curve.Params().BitSize + 7) / 8
	bzX := common.PadToLengthBytesInPlace(p.coords[0].Bytes(), byteSize)
	bzY := common.PadToLengthBytesInPlace(p.coords[1].Bytes(), byteSize)
	return append(bzX, bzY...)
}

// ----- //

// ScalarBaseMult computes k·G with k reduced modulo the curve order. A zero result is infinity.
func ScalarBaseMult(curve elliptic.Curve, k *big.Int) *ECPoint {
	kr := reduceScalar(curve, k)
	if kr.Sign() == 0 {
		return Infinity(curve)
	}
	x, y := curve.ScalarBaseMult(kr.Bytes())
	x, y = normalizeIdentity(curve, x, y)
	return NewECPointNoCurveCheck(curve, x, y)
}

// CurveOrder is the order of the base point.
func CurveOrder(curve elliptic.Curve) *big.Int {
	return new(big.Int).Set(curve.Params().N)
}

func reduceScalar(curve elliptic.Curve, k *big.Int) *big.Int {
	return new(big.Int).Mod(k, curve.Params().N)
}

func isInfinity(x, y *big.Int) bool {
	return x.Sign() == 0 && y.Sign() == 0
}

func isTwistedEdwards(curve elliptic.Curve) bool {
	_, ok := curve.(*edwards.TwistedEdwardsCurve)
	return ok
}

// normalizeIdentity maps the Edwards identity (0, 1) to the (0, 0) used for infinity everywhere else.
func normalizeIdentity(curve elliptic.Curve, x, y *big.Int) (*big.Int, *big.Int) {
	if isTwistedEdwards(curve) && x.Sign() == 0 && y.Cmp(big.NewInt(1)) == 0 {
		return new(big.Int), new(big.Int)
	}
	return x, y
}

func DecompressPoint(curve elliptic.Curve, x *big.Int, sign byte) (*ECPoint, error) {
	if curve == nil || x == nil {
		return nil, errors.New("DecompressPoint() received one or more nil args")
	}
	params := curve.Params()
	modP := common.ModInt(params.P)
	var y2 *big.Int
	switch curve {
	case btcec.S256():
		// y^2 = x^3 + 7
		y2 = modP.Add(modP.Exp(x, big.NewInt(3)), big.NewInt(7))
	case elliptic.P256():
		// y^2 = x^3 - 3x + b
		three := big.NewInt(3)
		y2 = modP.Sub(modP.Exp(x, three), modP.Mul(x, three))
		y2 = modP.Add(y2, params.B)
	default:
		return nil, errors.Errorf("DecompressPoint() unsupported curve %s", params.Name)
	}
	y := modP.Sqrt(y2)
	if y == nil {
		return nil, errors.New("DecompressPoint() invalid point")
	}
	if y.Bit(0) != uint(sign)&1 {
		y = modP.Neg(y)
	}
	return NewECPoint(curve, x, y)
}

// ----- //

func FlattenECPoints(in []*ECPoint) ([]*big.Int, error) {
	if in == nil {
		return nil, errors.New("FlattenECPoints encountered a nil in slice")
	}
	flat := make([]*big.Int, 0, len(in)*2)
	for _, point := range in {
		if point == nil || point.coords[0] == nil || point.coords[1] == nil {
			return nil, errors.New("FlattenECPoints found nil point/coordinate")
		}
		flat = append(flat, point.coords[0], point.coords[1])
	}
	return flat, nil
}

func UnFlattenECPoints(curve elliptic.Curve, in []*big.Int) ([]*ECPoint, error) {
	if in == nil || len(in)%2 != 0 {
		return nil, errors.New("UnFlattenECPoints expected an in len divisible by 2")
	}
	var err error
	unFlat := make([]*ECPoint, len(in)/2)
	for i, j := 0, 0; i < len(in); i, j = i+2, j+1 {
		if unFlat[j], err = NewECPoint(curve, in[i], in[i+1]); err != nil {
			return nil, errors.Wrapf(err, "UnFlattenECPoints point %d", j)
		}
	}
	return unFlat, nil
}

// ----- //

type ecPointJSON struct {
	Curve  tss.CurveName `json:"curve,omitempty"`
	Coords [2]*big.Int   `json:"coords"`
}

// MarshalJSON records the curve by its registry name so the point can be restored later.
func (p *ECPoint) MarshalJSON() ([]byte, error) {
	name, _ := tss.GetCurveName(p.curve)
	return json.Marshal(&ecPointJSON{Curve: name, Coords: p.coords})
}

func (p *ECPoint) UnmarshalJSON(payload []byte) error {
	aux := &ecPointJSON{}
	if err := json.Unmarshal(payload, aux); err != nil {
		return err
	}
	curve := tss.EC()
	if aux.Curve != "" {
		var ok bool
		if curve, ok = tss.GetCurveByName(aux.Curve); !ok {
			return errors.Errorf("ECPoint.UnmarshalJSON: unknown curve %q", aux.Curve)
		}
	}
	pt, err := NewECPoint(curve, aux.Coords[0], aux.Coords[1])
	if err != nil {
		return errors.Wrap(err, "ECPoint.UnmarshalJSON")
	}
	*p = *pt
	return nil
}
