// Copyright © 2019-2023 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package keygen

import (
	"math/big"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/binance-chain/tss-core/crypto"
	"github.com/binance-chain/tss-core/crypto/dlnproof"
	"github.com/binance-chain/tss-core/tss/wire"
)

var (
	ErrDLNProof1 = errors.New("keygen: dln proof 1 failed to verify")
	ErrDLNProof2 = errors.New("keygen: dln proof 2 failed to verify")
)

// DLNProofPair is what a party broadcasts next to its NTilde, h1 and h2.
type DLNProofPair struct {
	Dlnproof_1 [][]byte
	Dlnproof_2 [][]byte
}

type message interface {
	UnmarshalDLNProof1() (*dlnproof.Proof, error)
	UnmarshalDLNProof2() (*dlnproof.Proof, error)
}

func (m *DLNProofPair) UnmarshalDLNProof1() (*dlnproof.Proof, error) {
	return dlnproof.UnmarshalDLNProof(m.Dlnproof_1)
}

func (m *DLNProofPair) UnmarshalDLNProof2() (*dlnproof.Proof, error) {
	return dlnproof.UnmarshalDLNProof(m.Dlnproof_2)
}

// Bytes frames both proofs as nested repeated-bytes messages.
func (m *DLNProofPair) Bytes() []byte {
	return wire.MarshalParts([][]byte{
		wire.MarshalParts(m.Dlnproof_1),
		wire.MarshalParts(m.Dlnproof_2),
	})
}

func DLNProofPairFromBytes(bz []byte) (*DLNProofPair, error) {
	outer, err := wire.UnmarshalParts(bz, 2)
	if err != nil {
		return nil, errors.Wrap(err, "dln proof pair")
	}
	bzs1, err := wire.UnmarshalParts(outer[0], 0)
	if err != nil {
		return nil, errors.Wrap(err, "dln proof 1")
	}
	bzs2, err := wire.UnmarshalParts(outer[1], 0)
	if err != nil {
		return nil, errors.Wrap(err, "dln proof 2")
	}
	return &DLNProofPair{Dlnproof_1: bzs1, Dlnproof_2: bzs2}, nil
}

type DlnProofVerifier struct {
	semaphore chan interface{}
}

func NewDlnProofVerifier(concurrency int) *DlnProofVerifier {
	if concurrency <= 0 {
		panic(errors.New("NewDlnProofverifier: concurrency level must be positive"))
	}

	semaphore := make(chan interface{}, concurrency)

	return &DlnProofVerifier{
		semaphore: semaphore,
	}
}

func (dpv *DlnProofVerifier) VerifyDLNProof1(
	m message,
	h1, h2, n *big.Int,
	onDone func(bool),
) {
	dpv.semaphore <- struct{}{}
	go func() {
		defer func() { <-dpv.semaphore }()

		dlnProof, err := m.UnmarshalDLNProof1()
		if err != nil {
			onDone(false)
			return
		}

		onDone(dlnProof.Verify(h1, h2, n))
	}()
}

func (dpv *DlnProofVerifier) VerifyDLNProof2(
	m message,
	h1, h2, n *big.Int,
	onDone func(bool),
) {
	dpv.semaphore <- struct{}{}
	go func() {
		defer func() { <-dpv.semaphore }()

		dlnProof, err := m.UnmarshalDLNProof2()
		if err != nil {
			onDone(false)
			return
		}

		onDone(dlnProof.Verify(h1, h2, n))
	}()
}

// VerifyAll checks every party's pair against its published parameters. Proof 2 is checked
// with the generators swapped. The error lists each failing party by index.
func (dpv *DlnProofVerifier) VerifyAll(pairs []*DLNProofPair, params []*crypto.NTildei) error {
	if len(pairs) != len(params) {
		return errors.Errorf("VerifyAll: got %d proof pairs for %d parties", len(pairs), len(params))
	}
	var (
		mtx    sync.Mutex
		wg     sync.WaitGroup
		result *multierror.Error
	)
	record := func(i int, cause error) func(bool) {
		return func(ok bool) {
			defer wg.Done()
			if ok {
				return
			}
			mtx.Lock()
			result = multierror.Append(result, errors.Wrapf(cause, "party %d", i))
			mtx.Unlock()
		}
	}
	for i, pair := range pairs {
		nt := params[i]
		if pair == nil || !nt.Validate() {
			mtx.Lock()
			result = multierror.Append(result, errors.Errorf("party %d: missing proofs or invalid parameters", i))
			mtx.Unlock()
			continue
		}
		wg.Add(2)
		dpv.VerifyDLNProof1(pair, nt.H1, nt.H2, nt.N, record(i, ErrDLNProof1))
		dpv.VerifyDLNProof2(pair, nt.H2, nt.H1, nt.N, record(i, ErrDLNProof2))
	}
	wg.Wait()
	return result.ErrorOrNil()
}
