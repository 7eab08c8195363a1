// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package keygen

import (
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/binance-chain/tss-core/common"
	"github.com/binance-chain/tss-core/common/cbor"
	"github.com/binance-chain/tss-core/crypto"
	"github.com/binance-chain/tss-core/crypto/dlnproof"
	"github.com/binance-chain/tss-core/crypto/paillier"
)

var ErrInvalidPreParams = errors.New("keygen: invalid pre-params")

type (
	LocalPreParams struct {
		PaillierSK *paillier.PrivateKey // ski
		NTildei,
		H1i, H2i,
		Alpha, Beta,
		P, Q *big.Int
	}

	localPreParamsCBOR struct {
		PaillierSK []byte `cbor:"1,keyasint"`
		NTildei    []byte `cbor:"2,keyasint"`
		H1i        []byte `cbor:"3,keyasint"`
		H2i        []byte `cbor:"4,keyasint"`
		Alpha      []byte `cbor:"5,keyasint,omitempty"`
		Beta       []byte `cbor:"6,keyasint,omitempty"`
		P          []byte `cbor:"7,keyasint,omitempty"`
		Q          []byte `cbor:"8,keyasint,omitempty"`
	}
)

func (preParams LocalPreParams) Validate() bool {
	return preParams.PaillierSK != nil &&
		preParams.NTildei != nil &&
		preParams.H1i != nil &&
		preParams.H2i != nil
}

// ValidateWithProof also checks the secrets behind NTilde: NTilde = (2P+1)(2Q+1), h2 = h1^alpha and h1 = h2^beta.
func (preParams LocalPreParams) ValidateWithProof() bool {
	if !preParams.Validate() ||
		preParams.P == nil ||
		preParams.Q == nil ||
		preParams.Alpha == nil ||
		preParams.Beta == nil {
		return false
	}
	if preParams.H1i.Cmp(one) == 0 || preParams.H2i.Cmp(one) == 0 {
		return false
	}
	P := new(big.Int).Lsh(preParams.P, 1)
	P.Add(P, one)
	Q := new(big.Int).Lsh(preParams.Q, 1)
	Q.Add(Q, one)
	if new(big.Int).Mul(P, Q).Cmp(preParams.NTildei) != 0 {
		return false
	}
	modNTilde := common.ModInt(preParams.NTildei)
	return modNTilde.Exp(preParams.H1i, preParams.Alpha).Cmp(preParams.H2i) == 0 &&
		modNTilde.Exp(preParams.H2i, preParams.Beta).Cmp(preParams.H1i) == 0
}

// NTilde returns the public Ring-Pedersen parameters shared with the other parties.
func (preParams LocalPreParams) NTilde() *crypto.NTildei {
	return &crypto.NTildei{N: preParams.NTildei, H1: preParams.H1i, H2: preParams.H2i}
}

// DLNProofs proves log_h1(h2) and log_h2(h1) exist, which is what the other parties check on receipt.
func (preParams LocalPreParams) DLNProofs(rand io.Reader) (*DLNProofPair, error) {
	if !preParams.ValidateWithProof() {
		return nil, ErrInvalidPreParams
	}
	h1, h2, N := preParams.H1i, preParams.H2i, preParams.NTildei
	dlnProof1, err := dlnproof.NewDLNProof(h1, h2, preParams.Alpha, preParams.P, preParams.Q, N, rand)
	if err != nil {
		return nil, errors.Wrap(err, "dln proof 1")
	}
	dlnProof2, err := dlnproof.NewDLNProof(h2, h1, preParams.Beta, preParams.P, preParams.Q, N, rand)
	if err != nil {
		return nil, errors.Wrap(err, "dln proof 2")
	}
	bzs1, err := dlnProof1.Serialize()
	if err != nil {
		return nil, err
	}
	bzs2, err := dlnProof2.Serialize()
	if err != nil {
		return nil, err
	}
	return &DLNProofPair{Dlnproof_1: bzs1, Dlnproof_2: bzs2}, nil
}

// ----- //

func (preParams *LocalPreParams) MarshalBinary() ([]byte, error) {
	if !preParams.Validate() {
		return nil, ErrInvalidPreParams
	}
	skBz, err := preParams.PaillierSK.MarshalBinary()
	if err != nil {
		return nil, err
	}
	aux := localPreParamsCBOR{
		PaillierSK: skBz,
		NTildei:    preParams.NTildei.Bytes(),
		H1i:        preParams.H1i.Bytes(),
		H2i:        preParams.H2i.Bytes(),
		Alpha:      optionalBytes(preParams.Alpha),
		Beta:       optionalBytes(preParams.Beta),
		P:          optionalBytes(preParams.P),
		Q:          optionalBytes(preParams.Q),
	}
	return cbor.Marshal(&aux)
}

func (preParams *LocalPreParams) UnmarshalBinary(data []byte) error {
	var aux localPreParamsCBOR
	if err := cbor.Unmarshal(data, &aux); err != nil {
		return err
	}
	return preParams.fromCBOR(&aux)
}

func (preParams *LocalPreParams) fromCBOR(aux *localPreParamsCBOR) error {
	if !common.NonEmptyMultiBytes([][]byte{aux.PaillierSK, aux.NTildei, aux.H1i, aux.H2i}) {
		return errors.Wrap(ErrInvalidPreParams, "missing required fields")
	}
	sk := new(paillier.PrivateKey)
	if err := sk.UnmarshalBinary(aux.PaillierSK); err != nil {
		return errors.Wrap(err, "paillier key")
	}
	*preParams = LocalPreParams{
		PaillierSK: sk,
		NTildei:    new(big.Int).SetBytes(aux.NTildei),
		H1i:        new(big.Int).SetBytes(aux.H1i),
		H2i:        new(big.Int).SetBytes(aux.H2i),
		Alpha:      optionalInt(aux.Alpha),
		Beta:       optionalInt(aux.Beta),
		P:          optionalInt(aux.P),
		Q:          optionalInt(aux.Q),
	}
	return nil
}

// Save writes the pre-params to w as a single CBOR byte string.
func (preParams *LocalPreParams) Save(w io.Writer) error {
	bz, err := preParams.MarshalBinary()
	if err != nil {
		return err
	}
	return errors.Wrap(cbor.NewEncoder(w).Encode(bz), "save pre-params")
}

// LoadLocalPreParams reads the next item written by Save.
func LoadLocalPreParams(r io.Reader) (*LocalPreParams, error) {
	var bz []byte
	if err := cbor.NewDecoder(r).Decode(&bz); err != nil {
		return nil, errors.Wrap(err, "load pre-params")
	}
	preParams := new(LocalPreParams)
	if err := preParams.UnmarshalBinary(bz); err != nil {
		return nil, err
	}
	return preParams, nil
}

func optionalBytes(x *big.Int) []byte {
	if x == nil {
		return nil
	}
	return x.Bytes()
}

func optionalInt(bz []byte) *big.Int {
	if len(bz) == 0 {
		return nil
	}
	return new(big.Int).SetBytes(bz)
}
