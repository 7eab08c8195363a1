// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package tss

import (
	"crypto/elliptic"
	"sync"

	s256k1 "github.com/btcsuite/btcd/btcec"
	"github.com/decred/dcrd/dcrec/edwards/v2"
	"github.com/pkg/errors"
)

type CurveName string

const (
	Secp256k1 CurveName = "secp256k1"
	Nist256p1 CurveName = "nist256p1" // a.k.a. P-256
	Ed25519   CurveName = "ed25519"
)

var (
	ec  elliptic.Curve
	ecM sync.RWMutex

	registry map[CurveName]elliptic.Curve
)

// Init default curve (secp256k1)
func init() {
	ec = s256k1.S256()

	registry = map[CurveName]elliptic.Curve{
		Secp256k1: s256k1.S256(),
		Nist256p1: elliptic.P256(),
		Ed25519:   edwards.Edwards(),
	}
}

// RegisterCurve adds or replaces a named curve in the registry.
func RegisterCurve(name CurveName, curve elliptic.Curve) {
	if curve == nil {
		panic(errors.New("RegisterCurve received a nil curve"))
	}
	ecM.Lock()
	defer ecM.Unlock()
	registry[name] = curve
}

// GetCurveByName returns the registered curve and whether it exists.
func GetCurveByName(name CurveName) (elliptic.Curve, bool) {
	ecM.RLock()
	defer ecM.RUnlock()
	curve, ok := registry[name]
	return curve, ok
}

// GetCurveName is the reverse lookup of GetCurveByName.
func GetCurveName(curve elliptic.Curve) (CurveName, bool) {
	ecM.RLock()
	defer ecM.RUnlock()
	for name, c := range registry {
		if c == curve {
			return name, true
		}
	}
	return "", false
}

// EC returns the current elliptic curve in use. The default is secp256k1
func EC() elliptic.Curve {
	ecM.RLock()
	defer ecM.RUnlock()
	return ec
}

// SetCurve sets the default curve returned by EC. The default is secp256k1
func SetCurve(curve elliptic.Curve) {
	if curve == nil {
		panic(errors.New("SetCurve received a nil curve"))
	}
	ecM.Lock()
	defer ecM.Unlock()
	ec = curve
}

// secp256k1
func S256() elliptic.Curve {
	return s256k1.S256()
}

func P256() elliptic.Curve {
	return elliptic.P256()
}

func Edwards() elliptic.Curve {
	return edwards.Edwards()
}

// SameCurve reports whether both curves have the same domain parameters.
func SameCurve(lhs, rhs elliptic.Curve) bool {
	if lhs == nil || rhs == nil {
		return false
	}
	if lhs == rhs {
		return true
	}
	lp, rp := lhs.Params(), rhs.Params()
	return lp.Name == rp.Name &&
		lp.P.Cmp(rp.P) == 0 &&
		lp.N.Cmp(rp.N) == 0 &&
		lp.Gx.Cmp(rp.Gx) == 0 &&
		lp.Gy.Cmp(rp.Gy) == 0
}
