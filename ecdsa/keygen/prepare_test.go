// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package keygen

import (
	"bytes"
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binance-chain/tss-core/common"
)

// Production pre-params use 1024-bit safe primes; these keep the suite fast.
const testSafePrimeBitLen = 256

var (
	fixtureOnce      sync.Once
	fixturePreParams *LocalPreParams
	fixtureErr       error
)

func setUp(level string) {
	if err := common.SetLogLevel(level); err != nil {
		panic(err)
	}
}

func testPreParams(t testing.TB) *LocalPreParams {
	fixtureOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		fixturePreParams, fixtureErr = GeneratePreParamsWithConfig(ctx, PreParamsConfig{
			SafePrimeBitLen: testSafePrimeBitLen,
		})
	})
	require.NoError(t, fixtureErr)
	return fixturePreParams
}

func TestGeneratePreParamsTimeout(t *testing.T) {
	start := time.Now()
	preParams, err := GeneratePreParams(5*time.Millisecond, 1)

	assert.Nil(t, preParams)
	assert.NotNil(t, err)
	assert.WithinDuration(t, start, time.Now(), time.Second)
}

func TestGeneratePreParamsWithContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	start := time.Now()
	preParams, err := GeneratePreParamsWithContext(ctx, 1)

	assert.Nil(t, preParams)
	assert.ErrorIs(t, err, common.ErrGeneratorCancelled)
	assert.WithinDuration(t, start, time.Now(), time.Second)
}

func TestGeneratePreParamsTooManyConcurrencyArgs(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = GeneratePreParamsWithContext(context.Background(), 1, 2)
	})
}

func TestGeneratePreParamsWithConfig(t *testing.T) {
	setUp("info")
	preParams := testPreParams(t)

	assert.True(t, preParams.Validate())
	assert.True(t, preParams.ValidateWithProof())
	assert.Equal(t, 2*testSafePrimeBitLen, preParams.PaillierSK.N.BitLen())
	assert.True(t, preParams.NTilde().Validate())

	// alpha and beta are inverses in the exponent group of order p·q
	pq := new(big.Int).Mul(preParams.P, preParams.Q)
	ab := new(big.Int).Mul(preParams.Alpha, preParams.Beta)
	assert.Equal(t, 0, ab.Mod(ab, pq).Cmp(one))
}

func TestValidateWithProofRejects(t *testing.T) {
	preParams := testPreParams(t)

	missing := *preParams
	missing.Alpha = nil
	assert.True(t, missing.Validate())
	assert.False(t, missing.ValidateWithProof())

	wrongH2 := *preParams
	wrongH2.H2i = new(big.Int).Add(preParams.H2i, one)
	assert.False(t, wrongH2.ValidateWithProof())

	wrongP := *preParams
	wrongP.P = new(big.Int).Add(preParams.P, big.NewInt(2))
	assert.False(t, wrongP.ValidateWithProof())

	assert.False(t, LocalPreParams{}.Validate())
}

func TestPreParamsCBORRoundTrip(t *testing.T) {
	preParams := testPreParams(t)

	bz, err := preParams.MarshalBinary()
	require.NoError(t, err)
	bz2, err := preParams.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, bz, bz2, "encoding must be deterministic")

	decoded := new(LocalPreParams)
	require.NoError(t, decoded.UnmarshalBinary(bz))
	assert.True(t, decoded.ValidateWithProof())
	assert.Equal(t, 0, preParams.PaillierSK.N.Cmp(decoded.PaillierSK.N))
	assert.Equal(t, 0, preParams.PaillierSK.LambdaN.Cmp(decoded.PaillierSK.LambdaN))
	assert.Equal(t, 0, preParams.H2i.Cmp(decoded.H2i))
}

func TestPreParamsSaveLoad(t *testing.T) {
	preParams := testPreParams(t)

	var buf bytes.Buffer
	require.NoError(t, preParams.Save(&buf))
	loaded, err := LoadLocalPreParams(&buf)
	require.NoError(t, err)
	assert.True(t, loaded.ValidateWithProof())
	assert.Equal(t, 0, preParams.NTildei.Cmp(loaded.NTildei))
}

func TestPreParamsPublicOnly(t *testing.T) {
	preParams := testPreParams(t)
	public := LocalPreParams{
		PaillierSK: preParams.PaillierSK,
		NTildei:    preParams.NTildei,
		H1i:        preParams.H1i,
		H2i:        preParams.H2i,
	}
	bz, err := public.MarshalBinary()
	require.NoError(t, err)

	decoded := new(LocalPreParams)
	require.NoError(t, decoded.UnmarshalBinary(bz))
	assert.True(t, decoded.Validate())
	assert.Nil(t, decoded.Alpha)
	assert.Nil(t, decoded.P)
}

func TestPreParamsUnmarshalErrors(t *testing.T) {
	_, err := (&LocalPreParams{}).MarshalBinary()
	assert.ErrorIs(t, err, ErrInvalidPreParams)

	assert.Error(t, new(LocalPreParams).UnmarshalBinary([]byte{0xff, 0x00}))

	_, err = LoadLocalPreParams(bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestGenerateWithContext(t *testing.T) {
	if testing.Short() {
		t.Skip("full-size pre-params take minutes")
	}
	setUp("debug")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Minute)
	defer cancel()

	preParams, err := GeneratePreParamsWithContext(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, preParams.PaillierSK)
	assert.NotNil(t, preParams.NTildei)
	assert.NotNil(t, preParams.H1i)
	assert.NotNil(t, preParams.H2i)
	assert.NotNil(t, preParams.Alpha)
	assert.NotNil(t, preParams.Beta)
	assert.NotNil(t, preParams.P)
	assert.NotNil(t, preParams.Q)
	assert.True(t, preParams.ValidateWithProof())
}
