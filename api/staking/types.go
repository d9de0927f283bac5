// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/tierlock/tierlock/staking"
	"github.com/tierlock/tierlock/staking/auth"
	"github.com/tierlock/tierlock/staking/periods"
	"github.com/tierlock/tierlock/staking/poolstats"
	"github.com/tierlock/tierlock/staking/positions"
	"github.com/tierlock/tierlock/staking/tiers"
)

// Token is the wire form of an authorization token.
type Token struct {
	Expiry    uint64 `json:"expiry"`
	Signature string `json:"signature"`
}

func (t *Token) toAuth() (*auth.Token, error) {
	if t == nil {
		return nil, nil
	}
	sig, err := hexutil.Decode(t.Signature)
	if err != nil {
		return nil, errors.WithMessage(err, "signature")
	}
	return &auth.Token{Expiry: t.Expiry, Signature: sig}, nil
}

func parseAmount(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.New("bad decimal amount")
	}
	return amount, nil
}

// OpenRequest is the payload of POST /staking/positions.
type OpenRequest struct {
	UserType   string `json:"userType"`
	Duration   uint32 `json:"duration"`
	Amount     string `json:"amount"`
	UseLocking bool   `json:"useLocking"`
	Now        uint64 `json:"now"`
	Token      *Token `json:"token"`
}

// CloseRequest is the payload of POST /staking/positions/{id}/close.
type CloseRequest struct {
	Now   uint64 `json:"now"`
	Token *Token `json:"token"`
}

// SettlePrincipalRequest is the payload of POST /staking/positions/{id}/settle.
type SettlePrincipalRequest struct {
	Now   uint64 `json:"now"`
	Token *Token `json:"token"`
}

// SettleInterestRequest is the payload of POST /staking/positions/{id}/interest.
type SettleInterestRequest struct {
	Months  []uint32 `json:"months"`
	Amounts []string `json:"amounts"`
	Now     uint64   `json:"now"`
	Token   *Token   `json:"token"`
}

// UserSummary is the JSON view of an account.
type UserSummary struct {
	UserType        string `json:"userType"`
	Tier            string `json:"tier"`
	LockedBalance   string `json:"lockedBalance"`
	TotalStaked     string `json:"totalStaked"`
	TotalLocked     string `json:"totalLocked"`
	ActivePositions uint32 `json:"activePositions"`
}

func convertUserSummary(s *staking.UserSummary) *UserSummary {
	return &UserSummary{
		UserType:        s.UserType.String(),
		Tier:            s.Tier.String(),
		LockedBalance:   s.LockedBalance.String(),
		TotalStaked:     s.TotalStaked.String(),
		TotalLocked:     s.TotalLocked.String(),
		ActivePositions: s.ActivePositions,
	}
}

// Period is the JSON view of a staking term.
type Period struct {
	DurationMonths uint32 `json:"durationMonths"`
	BaseRatePPM    uint32 `json:"baseRatePPM"`
	Active         bool   `json:"active"`
	ActiveCount    uint32 `json:"activeCount"`
	ActiveAmount   string `json:"activeAmount"`
	LockedAmount   string `json:"lockedAmount"`
}

func convertPeriods(list []*periods.Period) []*Period {
	out := make([]*Period, 0, len(list))
	for _, p := range list {
		out = append(out, &Period{
			DurationMonths: p.DurationMonths,
			BaseRatePPM:    p.BaseRatePPM,
			Active:         p.Active,
			ActiveCount:    p.ActiveCount,
			ActiveAmount:   p.ActiveAmount.String(),
			LockedAmount:   p.LockedAmount.String(),
		})
	}
	return out
}

// PoolMetrics is the JSON view of the pool-wide totals.
type PoolMetrics struct {
	TotalStaked              string `json:"totalStaked"`
	TotalLocked              string `json:"totalLocked"`
	TotalActivePositions     string `json:"totalActivePositions"`
	TotalWithdrawnPrincipal  string `json:"totalWithdrawnPrincipal"`
	TotalDistributedInterest string `json:"totalDistributedInterest"`
}

func convertPoolMetrics(m *poolstats.Metrics) *PoolMetrics {
	return &PoolMetrics{
		TotalStaked:              m.TotalStaked.String(),
		TotalLocked:              m.TotalLocked.String(),
		TotalActivePositions:     m.TotalActivePositions.String(),
		TotalWithdrawnPrincipal:  m.TotalWithdrawnPrincipal.String(),
		TotalDistributedInterest: m.TotalDistributedInterest.String(),
	}
}

// Position is the JSON view of a stake position.
type Position struct {
	ID              uint64 `json:"id"`
	Owner           string `json:"owner"`
	Principal       string `json:"principal"`
	LockedAmount    string `json:"lockedAmount"`
	StartTs         uint64 `json:"startTs"`
	EndTs           uint64 `json:"endTs"`
	CloseRequestTs  uint64 `json:"closeRequestTs"`
	SettleTs        uint64 `json:"settleTs"`
	PeriodDuration  uint32 `json:"periodDuration"`
	BaseRatePPM     uint32 `json:"baseRatePPM"`
	BonusRatePPM    uint32 `json:"bonusRatePPM"`
	MonthlyInterest string `json:"monthlyInterest"`
	TierAtOpen      string `json:"tierAtOpen"`
	Locked          bool   `json:"locked"`
	Closed          bool   `json:"closed"`
	Settled         bool   `json:"settled"`
}

func convertPosition(id positions.ID, p *positions.Position) *Position {
	return &Position{
		ID:              uint64(id),
		Owner:           p.Owner.String(),
		Principal:       p.Principal.String(),
		LockedAmount:    p.LockedAmount.String(),
		StartTs:         p.StartTs,
		EndTs:           p.EndTs,
		CloseRequestTs:  p.CloseRequestTs,
		SettleTs:        p.SettleTs,
		PeriodDuration:  p.PeriodDuration,
		BaseRatePPM:     p.BaseRatePPM,
		BonusRatePPM:    p.BonusRatePPM,
		MonthlyInterest: p.MonthlyInterest.String(),
		TierAtOpen:      tiers.Tier(p.TierAtOpen).String(),
		Locked:          p.Locked,
		Closed:          p.Closed,
		Settled:         p.Settled,
	}
}
