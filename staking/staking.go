// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements the tiered staking and reward-accounting
// ledger: the position lifecycle state machine together with its tier
// classification, period catalog, authorization layer and pool metrics.
package staking

import (
	"math/big"
	"sync"

	"github.com/tierlock/tierlock/log"
	"github.com/tierlock/tierlock/params"
	"github.com/tierlock/tierlock/slot"
	"github.com/tierlock/tierlock/staking/accounts"
	"github.com/tierlock/tierlock/staking/auth"
	"github.com/tierlock/tierlock/staking/errs"
	"github.com/tierlock/tierlock/staking/periods"
	"github.com/tierlock/tierlock/staking/poolstats"
	"github.com/tierlock/tierlock/staking/positions"
	"github.com/tierlock/tierlock/staking/tiers"
	"github.com/tierlock/tierlock/state"
	"github.com/tierlock/tierlock/tierlock"
)

var logger = log.WithContext("pkg", "staking")

// SetLogger overrides the package logger.
func SetLogger(l log.Logger) {
	logger = l
}

// Config is the deploy-time wiring of the engine.
type Config struct {
	Address  tierlock.Address // storage namespace of the engine
	Pool     tierlock.Address // account holding staked principal
	SystemID tierlock.Bytes32 // mixed into token signing hashes
	Signer   tierlock.Address // expected token signer
	Admin    tierlock.Address // privileged caller
}

// Staking is the lifecycle engine facade. Every request runs to completion
// as one serialized transaction under a single writer lock; there is no
// intra-operation suspension.
type Staking struct {
	mu  sync.Mutex
	cfg Config

	params *params.Params

	tierService     *tiers.Service
	periodService   *periods.Service
	accountService  *accounts.Service
	positionService *positions.Service
	statsService    *poolstats.Service
	verifier        *auth.Verifier

	stakeAsset AssetTransfer
	lockAsset  AssetTransfer
	lockAcct   LockAccounting

	recorder EventRecorder
}

// New creates an engine instance over the given state.
func New(
	cfg Config,
	st *state.State,
	param *params.Params,
	stakeAsset AssetTransfer,
	lockAsset AssetTransfer,
	lockAcct LockAccounting,
) *Staking {
	sctx := slot.NewContext(cfg.Address, st)

	return &Staking{
		cfg:    cfg,
		params: param,

		tierService:     tiers.New(sctx),
		periodService:   periods.New(sctx),
		accountService:  accounts.New(sctx),
		positionService: positions.New(sctx),
		statsService:    poolstats.New(sctx),
		verifier:        auth.New(sctx, cfg.SystemID, cfg.Signer),

		stakeAsset: stakeAsset,
		lockAsset:  lockAsset,
		lockAcct:   lockAcct,
	}
}

// SetRecorder attaches an observer of committed transitions.
func (s *Staking) SetRecorder(r EventRecorder) {
	s.recorder = r
}

// Verifier exposes the token verifier, mainly for issuers and tests.
func (s *Staking) Verifier() *auth.Verifier {
	return s.verifier
}

// guard rejects public mutating requests while the ledger is paused.
func (s *Staking) guard() error {
	paused, err := s.params.GetBool(tierlock.KeyPaused)
	if err != nil {
		return err
	}
	if paused {
		return errs.Validation("ledger is paused")
	}
	return nil
}

// guardAdmin rejects privileged requests from anyone but the admin.
func (s *Staking) guardAdmin(caller tierlock.Address) error {
	if caller != s.cfg.Admin {
		return errs.Validation("caller is not admin")
	}
	return nil
}

func (s *Staking) record(op string, account tierlock.Address, position positions.ID, amount *big.Int, ts uint64) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordStakeEvent(op, account, uint64(position), amount, ts); err != nil {
		logger.Warn("failed to record event", "op", op, "error", err)
	}
}

//
// Getters - no state change
//

// UserSummary is the per-account view of queryUserSummary.
type UserSummary struct {
	UserType        accounts.UserType
	Tier            tiers.Tier
	LockedBalance   *big.Int
	TotalStaked     *big.Int
	TotalLocked     *big.Int
	ActivePositions uint32
}

// GetUserSummary returns the account's aggregates and current tier. The
// userType argument is used for classification when the account was never
// created.
func (s *Staking) GetUserSummary(account tierlock.Address, userType accounts.UserType) (*UserSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.accountService.Get(account)
	if err != nil {
		return nil, err
	}
	if !acc.IsEmpty() {
		userType = acc.UserType
	}

	locked, err := s.lockAcct.LockedBalance(account)
	if err != nil {
		return nil, err
	}
	tier, err := s.tierService.Classify(locked, userType == accounts.Personal)
	if err != nil {
		return nil, err
	}

	return &UserSummary{
		UserType:        userType,
		Tier:            tier,
		LockedBalance:   locked,
		TotalStaked:     acc.TotalStaked,
		TotalLocked:     acc.TotalLocked,
		ActivePositions: acc.ActivePositions,
	}, nil
}

// GetPeriods lists the registered staking terms with live aggregates.
func (s *Staking) GetPeriods() ([]*periods.Period, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.periodService.List()
}

// GetPoolMetrics returns the pool-wide totals.
func (s *Staking) GetPoolMetrics() (*poolstats.Metrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statsService.Get()
}

// GetPosition returns a position record.
func (s *Staking) GetPosition(id positions.ID) (*positions.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, err := s.positionService.Get(id)
	if err != nil {
		return nil, err
	}
	if pos.IsEmpty() {
		return nil, errs.State("position not found")
	}
	return pos, nil
}

// GetTierConfig returns the tier's thresholds, cap and bonus.
func (s *Staking) GetTierConfig(tier tiers.Tier) (*tiers.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tierService.Get(tier)
}

// getOwned loads a position and checks ownership; positions are reported
// as missing to anyone but their owner, matching per-account keying.
func (s *Staking) getOwned(owner tierlock.Address, id positions.ID) (*positions.Position, error) {
	pos, err := s.positionService.Get(id)
	if err != nil {
		return nil, err
	}
	if pos.IsEmpty() || pos.Owner != owner {
		return nil, errs.State("position not found")
	}
	return pos, nil
}
