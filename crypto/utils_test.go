// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package crypto

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binance-chain/tss-core/common"
)

func TestGenerateNTildei(t *testing.T) {
	p, err := common.GetRandomPrimeInt(nil, 256)
	require.NoError(t, err)
	q, err := common.GetRandomPrimeInt(nil, 256)
	require.NoError(t, err)

	nt, err := GenerateNTildei(nil, [2]*big.Int{p, q})
	require.NoError(t, err)
	assert.Equal(t, 0, nt.N.Cmp(new(big.Int).Mul(p, q)))
	assert.True(t, nt.Validate())
	// squares have Jacobi symbol 1
	assert.Equal(t, 1, big.Jacobi(nt.H1, nt.N))
	assert.Equal(t, 1, big.Jacobi(nt.H2, nt.N))

	bz, err := nt.MarshalBinary()
	require.NoError(t, err)
	var nt2 NTildei
	require.NoError(t, nt2.UnmarshalBinary(bz))
	assert.Equal(t, nt, &nt2)
}

func TestGenerateNTildeiNeedsPrimes(t *testing.T) {
	p, err := common.GetRandomPrimeInt(nil, 256)
	require.NoError(t, err)

	_, err = GenerateNTildei(nil, [2]*big.Int{p, nil})
	assert.ErrorIs(t, err, ErrNeedPrimes)
	_, err = GenerateNTildei(nil, [2]*big.Int{p, big.NewInt(1000001)})
	assert.ErrorIs(t, err, ErrNeedPrimes)
}

func TestNTildeiValidate(t *testing.T) {
	assert.False(t, (&NTildei{N: big.NewInt(15), H1: big.NewInt(4), H2: big.NewInt(4)}).Validate())
	assert.False(t, (&NTildei{N: big.NewInt(15), H1: big.NewInt(1), H2: big.NewInt(4)}).Validate())
	assert.False(t, (&NTildei{N: big.NewInt(15), H1: big.NewInt(5), H2: big.NewInt(4)}).Validate())
	assert.True(t, (&NTildei{N: big.NewInt(15), H1: big.NewInt(4), H2: big.NewInt(7)}).Validate())
	assert.False(t, (*NTildei)(nil).Validate())
}
