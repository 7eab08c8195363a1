// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_getSafePrime(t *testing.T) {
	prime := new(big.Int).SetInt64(5)
	sPrime := getSafePrime(prime)
	assert.True(t, sPrime.ProbablyPrime(50))
}

func Test_getSafePrime_Bad(t *testing.T) {
	prime := new(big.Int).SetInt64(12)
	sPrime := getSafePrime(prime)
	assert.False(t, sPrime.ProbablyPrime(50))
}

func Test_Validate(t *testing.T) {
	prime := new(big.Int).SetInt64(5)
	sPrime := getSafePrime(prime)
	sgp := &GermainSafePrime{q: prime, p: sPrime}
	assert.True(t, sgp.Validate())

	sgp, err := NewGermainSafePrime(big.NewInt(11))
	require.NoError(t, err)
	assert.Equal(t, int64(23), sgp.SafePrime().Int64())
	assert.Equal(t, int64(11), sgp.Prime().Int64())
}

func Test_Validate_Bad(t *testing.T) {
	prime := new(big.Int).SetInt64(12)
	sPrime := getSafePrime(prime)
	sgp := &GermainSafePrime{q: prime, p: sPrime}
	assert.False(t, sgp.Validate())

	// 7 is prime but 15 is not
	_, err := NewGermainSafePrime(big.NewInt(7))
	assert.Error(t, err)
	_, err = NewGermainSafePrime(nil)
	assert.Error(t, err)
}

func TestPocklingtonCriterion(t *testing.T) {
	assert.True(t, isPocklingtonCriterionSatisfied(big.NewInt(23)))
	assert.True(t, isPocklingtonCriterionSatisfied(big.NewInt(47)))
	assert.False(t, isPocklingtonCriterionSatisfied(big.NewInt(15)))
	assert.False(t, isPocklingtonCriterionSatisfied(big.NewInt(35)))
}

func TestGetRandomSafePrimesConcurrent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	sgps, err := GetRandomSafePrimesConcurrent(ctx, 256, 2, 4)
	require.NoError(t, err)
	require.Len(t, sgps, 2)
	for _, sgp := range sgps {
		assert.Equal(t, 256, sgp.SafePrime().BitLen())
		assert.Equal(t, 255, sgp.Prime().BitLen())
		assert.True(t, sgp.Validate())
		assert.True(t, isPocklingtonCriterionSatisfied(sgp.SafePrime()))
		assert.NotEqual(t, int64(1), new(big.Int).Mod(sgp.Prime(), big.NewInt(3)).Int64())
	}
}

func TestGetRandomSafePrimes1024(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 1024-bit safe prime search in short mode")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	sgps, err := GetRandomSafePrimesConcurrent(ctx, 1024, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1023, sgps[0].Prime().BitLen())
	assert.True(t, sgps[0].Validate())
}

func TestGetRandomSafePrimesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := GetRandomSafePrimesConcurrent(ctx, 2048, 1, 2)
	assert.ErrorIs(t, err, ErrGeneratorCancelled)
}

func TestGetRandomSafePrimesTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := GetRandomSafePrimesConcurrent(ctx, 4096, 1, 1)
	assert.ErrorIs(t, err, ErrGeneratorCancelled)
}

func TestGetRandomSafePrimesBadParams(t *testing.T) {
	_, err := GetRandomSafePrimesConcurrent(context.Background(), 5, 1, 1)
	assert.Error(t, err)
	_, err = GetRandomSafePrimesConcurrent(context.Background(), 64, 0, 1)
	assert.Error(t, err)
}
