// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package auth verifies the caller-bound, time-limited, one-time-use tokens
// that authorize every mutating request.
package auth

import (
	"crypto/ecdsa"
	"encoding/binary"
	"io"

	"github.com/ethereum/go-ethereum/crypto"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/tierlock/tierlock/slot"
	"github.com/tierlock/tierlock/staking/errs"
	"github.com/tierlock/tierlock/tierlock"
)

const signerCacheSize = 1024

var slotUsed = slot.NameToSlot("used-authorizations")

// Token is an off-ledger-issued permission for one specific mutating
// request. The signature covers the system identity, the caller, the
// operation's semantic parameters and the expiry.
type Token struct {
	Expiry    uint64
	Signature []byte // 65-byte [R || S || V]
}

// Verifier checks tokens and consumes them exactly once.
type Verifier struct {
	systemID tierlock.Bytes32
	signer   tierlock.Address

	used  *slot.Mapping[tierlock.Bytes32, uint64]
	cache *lru.Cache
}

// New creates a verifier. The systemID is mixed into every signing hash to
// prevent cross-deployment replay.
func New(sctx *slot.Context, systemID tierlock.Bytes32, signer tierlock.Address) *Verifier {
	cache, _ := lru.New(signerCacheSize)
	return &Verifier{
		systemID: systemID,
		signer:   signer,
		used:     slot.NewMapping[tierlock.Bytes32, uint64](sctx, slotUsed),
		cache:    cache,
	}
}

// Signer returns the configured token signer.
func (v *Verifier) Signer() tierlock.Address {
	return v.signer
}

// SetSigner rotates the configured token signer.
func (v *Verifier) SetSigner(signer tierlock.Address) {
	v.signer = signer
}

// SigningHash computes the canonical hash a token must sign: the bound
// operation, caller, semantic parameters and expiry, masked with the
// system identity.
func (v *Verifier) SigningHash(account tierlock.Address, op string, params []byte, expiry uint64) tierlock.Bytes32 {
	expiryBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(expiryBytes, expiry)

	hash := tierlock.Blake2bFn(func(w io.Writer) {
		w.Write([]byte(op))
		w.Write(account.Bytes())
		w.Write(params)
		w.Write(expiryBytes)
	})
	v.maskHash(&hash)
	return hash
}

// xor signing hash with system identity
func (v *Verifier) maskHash(hash *tierlock.Bytes32) {
	for i := range hash {
		hash[i] ^= v.systemID[i]
	}
}

// Consume verifies the token for the given request and marks it used.
// Checks run in fixed order: expiry, replay, signer. Consumption happens
// before any state mutation of the request, so a retried token is rejected
// even when a later step of the original request failed.
func (v *Verifier) Consume(account tierlock.Address, op string, params []byte, token *Token, now uint64) error {
	if token == nil {
		return errs.Authorization("missing authorization")
	}

	hash := v.SigningHash(account, op, params, token.Expiry)

	if token.Expiry < now {
		return errs.Authorization("authorization expired")
	}

	consumed, err := v.used.Has(hash)
	if err != nil {
		return errors.Wrap(err, "failed to read used authorization set")
	}
	if consumed {
		return errs.Authorization("authorization replayed")
	}

	signer, err := v.recover(hash, token.Signature)
	if err != nil || signer != v.signer {
		return errs.Authorization("unauthorized signer")
	}

	if err := v.used.Set(hash, now); err != nil {
		return errors.Wrap(err, "failed to mark authorization used")
	}
	return nil
}

func (v *Verifier) recover(hash tierlock.Bytes32, sig []byte) (tierlock.Address, error) {
	cacheKey := tierlock.Blake2b(hash.Bytes(), sig)
	if addr, ok := v.cache.Get(cacheKey); ok {
		return addr.(tierlock.Address), nil
	}

	pub, err := crypto.SigToPub(hash.Bytes(), sig)
	if err != nil {
		return tierlock.Address{}, err
	}
	addr := tierlock.PubkeyToAddress(pub)
	v.cache.Add(cacheKey, addr)
	return addr, nil
}

// Sign produces a token signature over the canonical hash. Used by the
// off-ledger issuer and by tests.
func (v *Verifier) Sign(account tierlock.Address, op string, params []byte, expiry uint64, key *ecdsa.PrivateKey) (*Token, error) {
	hash := v.SigningHash(account, op, params, expiry)
	sig, err := crypto.Sign(hash.Bytes(), key)
	if err != nil {
		return nil, err
	}
	return &Token{Expiry: expiry, Signature: sig}, nil
}
