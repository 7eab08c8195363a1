// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	"math/big"

	"github.com/pkg/errors"
)

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrZeroModulus    = errors.New("modulus must be positive")
)

// modInt is a *big.Int that performs all of its arithmetic with modular reduction.
// Every result is the canonical representative in [0, m).
type modInt big.Int

// ModInt wraps a positive modulus. It panics on a modulus <= 0; use NewModInt for untrusted input.
func ModInt(mod *big.Int) *modInt {
	mi, err := NewModInt(mod)
	if err != nil {
		panic(err)
	}
	return mi
}

func NewModInt(mod *big.Int) (*modInt, error) {
	if mod == nil || mod.Sign() != 1 {
		return nil, ErrZeroModulus
	}
	return (*modInt)(new(big.Int).Set(mod)), nil
}

func (mi *modInt) Add(x, y *big.Int) *big.Int {
	i := new(big.Int).Add(x, y)
	return i.Mod(i, mi.i())
}

func (mi *modInt) Sub(x, y *big.Int) *big.Int {
	i := new(big.Int).Sub(x, y)
	return i.Mod(i, mi.i())
}

func (mi *modInt) Mul(x, y *big.Int) *big.Int {
	i := new(big.Int).Mul(x, y)
	return i.Mod(i, mi.i())
}

// Div is the integer quotient x / y reduced mod m, not a multiplication by the inverse of y.
func (mi *modInt) Div(x, y *big.Int) (*big.Int, error) {
	if y.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	i := new(big.Int).Div(x, y)
	return i.Mod(i, mi.i()), nil
}

// Exp computes x^y mod m for y >= 0.
func (mi *modInt) Exp(x, y *big.Int) *big.Int {
	return new(big.Int).Exp(x, y, mi.i())
}

// ExpSigned accepts a negative exponent, in which case the result is (x^|y|)^-1 mod m.
func (mi *modInt) ExpSigned(x, y *big.Int) (*big.Int, error) {
	if y.Sign() >= 0 {
		return mi.Exp(x, y), nil
	}
	pos := mi.Exp(x, new(big.Int).Neg(y))
	return mi.ModInverse(pos)
}

func (mi *modInt) ModInverse(g *big.Int) (*big.Int, error) {
	gm := new(big.Int).Mod(g, mi.i())
	inv := new(big.Int).ModInverse(gm, mi.i())
	if inv == nil {
		return nil, ErrDivisionByZero
	}
	return inv, nil
}

// Sqrt returns a square root of x mod m when m is prime, or nil when none exists.
func (mi *modInt) Sqrt(x *big.Int) *big.Int {
	return new(big.Int).ModSqrt(x, mi.i())
}

func (mi *modInt) Neg(x *big.Int) *big.Int {
	i := new(big.Int).Neg(x)
	return i.Mod(i, mi.i())
}

func (mi *modInt) Modulus() *big.Int {
	return new(big.Int).Set(mi.i())
}

func (mi *modInt) i() *big.Int {
	return (*big.Int)(mi)
}

// IsInInterval reports whether 0 <= b < bound.
func IsInInterval(b *big.Int, bound *big.Int) bool {
	return b != nil && bound != nil && b.Sign() >= 0 && b.Cmp(bound) == -1
}
