// Copyright © 2019-2023 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package keygen

import (
	"crypto/elliptic"
	"io"
	"math/big"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/binance-chain/tss-core/common"
	"github.com/binance-chain/tss-core/crypto"
	"github.com/binance-chain/tss-core/crypto/facproof"
	"github.com/binance-chain/tss-core/crypto/hash"
	"github.com/binance-chain/tss-core/crypto/modproof"
)

const sessionDomain = "tss-core/keygen"

// PartyKey is the integer a party is ordered and addressed by.
func PartyKey(id string) *big.Int {
	return hash.StrHash(id)
}

// SSID binds a session to the curve, the party set, the round number and a caller nonce.
// Party order does not matter.
func SSID(ec elliptic.Curve, partyIDs []string, round int, nonce *big.Int) ([]byte, error) {
	if ec == nil || len(partyIDs) == 0 || nonce == nil {
		return nil, errors.New("SSID: curve, parties and nonce are required")
	}
	keys := make([]*big.Int, 0, len(partyIDs))
	for _, id := range partyIDs {
		keys = append(keys, PartyKey(id))
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Cmp(keys[j]) < 0 })

	params := ec.Params()
	ssidList := []*big.Int{params.P, params.N, params.B, params.Gx, params.Gy} // ec curve
	ssidList = append(ssidList, keys...)                                        // parties
	ssidList = append(ssidList, big.NewInt(int64(round)))                       // round number
	ssidList = append(ssidList, nonce)
	return common.SHA512_256i(ssidList...).Bytes(), nil
}

// ProofSession is the tag every proof made by party i within ssid is bound to.
func ProofSession(ssid []byte, i int) []byte {
	return hash.SessionTag(sessionDomain, string(ssid), strconv.Itoa(i))
}

// ModProof proves that the Paillier modulus is a product of two Blum primes. The Paillier
// primes of GeneratePreParams are safe primes, which always qualify.
func (preParams *LocalPreParams) ModProof(session []byte, rand io.Reader) (*modproof.ProofMod, error) {
	if preParams.PaillierSK == nil || preParams.PaillierSK.P == nil || preParams.PaillierSK.Q == nil {
		return nil, ErrInvalidPreParams
	}
	sk := preParams.PaillierSK
	return modproof.NewProof(session, sk.N, sk.P, sk.Q, rand)
}

// FacProof proves to a peer, under the peer's NTilde, that the Paillier modulus has no small factors.
func (preParams *LocalPreParams) FacProof(session []byte, ec elliptic.Curve, peer *crypto.NTildei, rand io.Reader) (*facproof.ProofFac, error) {
	if preParams.PaillierSK == nil || preParams.PaillierSK.P == nil || preParams.PaillierSK.Q == nil {
		return nil, ErrInvalidPreParams
	}
	if peer == nil || !peer.Validate() {
		return nil, errors.New("FacProof: invalid peer parameters")
	}
	sk := preParams.PaillierSK
	return facproof.NewProof(session, ec, sk.N, peer.N, peer.H1, peer.H2, sk.P, sk.Q, rand)
}

// VerifyFacProof checks a peer's proof about its Paillier modulus against our own NTilde.
func (preParams *LocalPreParams) VerifyFacProof(pf *facproof.ProofFac, session []byte, ec elliptic.Curve, peerPaillierN *big.Int) bool {
	if !preParams.Validate() {
		return false
	}
	return pf.Verify(session, ec, peerPaillierN, preParams.NTildei, preParams.H1i, preParams.H2i)
}
