// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// partly ported from:
// https://github.com/KZen-networks/curv/blob/78a70f43f5eda376e5888ce33aec18962f572bbe/src/cryptographic_primitives/commitments/hash_commitment.rs

package commitments

import (
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/binance-chain/tss-core/common"
)

const (
	HashLength = 256
)

type (
	HashCommitment   = *big.Int
	HashDeCommitment = []*big.Int

	// HashCommitDecommit holds C = H(salt, secrets...) and D = [salt, secrets...].
	HashCommitDecommit struct {
		C HashCommitment
		D HashDeCommitment
	}
)

func NewHashCommitmentWithRandomness(r *big.Int, secrets ...*big.Int) *HashCommitDecommit {
	parts := make([]*big.Int, len(secrets)+1)
	parts[0] = r
	copy(parts[1:], secrets)
	return &HashCommitDecommit{
		C: common.SHA512_256i(parts...),
		D: parts,
	}
}

func NewHashCommitment(rand io.Reader, secrets ...*big.Int) (*HashCommitDecommit, error) {
	r, err := common.GetRandomInt(rand, HashLength)
	if err != nil {
		return nil, errors.Wrap(err, "NewHashCommitment")
	}
	return NewHashCommitmentWithRandomness(r, secrets...), nil
}

// NewHashCommitmentFromParts commits to a packed Secrets list built from the given parts.
func NewHashCommitmentFromParts(rand io.Reader, parts ...[]*big.Int) (*HashCommitDecommit, error) {
	b := NewBuilder()
	for _, p := range parts {
		b.AddPart(p)
	}
	secrets, err := b.Secrets()
	if err != nil {
		return nil, err
	}
	return NewHashCommitment(rand, secrets...)
}

func NewHashDeCommitmentFromBytes(marshalled [][]byte) HashDeCommitment {
	return common.MultiBytesToBigInts(marshalled)
}

func (cmt *HashCommitDecommit) Verify() bool {
	C, D := cmt.C, cmt.D
	if C == nil || len(D) == 0 {
		return false
	}
	return common.SHA512_256i(D...).Cmp(C) == 0
}

func (cmt *HashCommitDecommit) DeCommit() (bool, HashDeCommitment) {
	if !cmt.Verify() {
		return false, nil
	}
	// [1:] skips random element r in D
	return true, cmt.D[1:]
}

// DeCommitParts opens the commitment and unpacks the Secrets list into its parts.
func (cmt *HashCommitDecommit) DeCommitParts() ([][]*big.Int, error) {
	ok, secrets := cmt.DeCommit()
	if !ok {
		return nil, errors.New("DeCommitParts: commitment does not verify")
	}
	return ParseSecrets(secrets)
}
