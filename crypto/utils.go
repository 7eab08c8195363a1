// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package crypto

import (
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/binance-chain/tss-core/common"
	"github.com/binance-chain/tss-core/common/cbor"
)

const ntildePrimeTestReps = 30

var ErrNeedPrimes = errors.New("GenerateNTildei: expected two primes")

// NTildei holds the Ring-Pedersen parameters of one party: N = p·q and two generators of QR_N.
type NTildei struct {
	N, H1, H2 *big.Int
}

func GenerateNTildei(rand io.Reader, safePrimes [2]*big.Int) (*NTildei, error) {
	if safePrimes[0] == nil || safePrimes[1] == nil {
		return nil, errors.Wrap(ErrNeedPrimes, "got a nil prime")
	}
	tester := common.DefaultPrimeTester().WithRand(rand)
	if !tester.IsPrimeWithReps(safePrimes[0], ntildePrimeTestReps) ||
		!tester.IsPrimeWithReps(safePrimes[1], ntildePrimeTestReps) {
		return nil, ErrNeedPrimes
	}
	N := new(big.Int).Mul(safePrimes[0], safePrimes[1])
	h1, err := common.GetRandomGeneratorOfTheQuadraticResidue(rand, N)
	if err != nil {
		return nil, errors.Wrap(err, "GenerateNTildei: h1")
	}
	h2, err := common.GetRandomGeneratorOfTheQuadraticResidue(rand, N)
	if err != nil {
		return nil, errors.Wrap(err, "GenerateNTildei: h2")
	}
	return &NTildei{N: N, H1: h1, H2: h2}, nil
}

// Validate checks that the parameters are well formed: h1 and h2 are distinct units of Z_N other than 1.
func (nt *NTildei) Validate() bool {
	if nt == nil || nt.N == nil || nt.H1 == nil || nt.H2 == nil {
		return false
	}
	if nt.N.Sign() != 1 || nt.N.Bit(0) == 0 {
		return false
	}
	one := big.NewInt(1)
	return common.IsNumberInMultiplicativeGroup(nt.N, nt.H1) &&
		common.IsNumberInMultiplicativeGroup(nt.N, nt.H2) &&
		nt.H1.Cmp(one) != 0 && nt.H2.Cmp(one) != 0 &&
		nt.H1.Cmp(nt.H2) != 0
}

type nTildeiCBOR struct {
	N  []byte `cbor:"1,keyasint"`
	H1 []byte `cbor:"2,keyasint"`
	H2 []byte `cbor:"3,keyasint"`
}

func (nt *NTildei) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&nTildeiCBOR{N: nt.N.Bytes(), H1: nt.H1.Bytes(), H2: nt.H2.Bytes()})
}

func (nt *NTildei) UnmarshalBinary(data []byte) error {
	var aux nTildeiCBOR
	if err := cbor.Unmarshal(data, &aux); err != nil {
		return err
	}
	nt.N = new(big.Int).SetBytes(aux.N)
	nt.H1 = new(big.Int).SetBytes(aux.H1)
	nt.H2 = new(big.Int).SetBytes(aux.H2)
	if !nt.Validate() {
		return errors.New("NTildei.UnmarshalBinary: invalid parameters")
	}
	return nil
}
