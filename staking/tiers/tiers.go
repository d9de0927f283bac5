// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package tiers classifies accounts into reward brackets by their locked
// governance-asset balance.
package tiers

import "math/big"

// Tier is a discrete reward bracket. The ordering is fixed; thresholds,
// caps and bonuses are governance parameters.
type Tier uint8

const (
	NoTier Tier = iota
	Bronze
	Silver
	Gold
	VIP
)

// String implements the stringer interface.
func (t Tier) String() string {
	switch t {
	case NoTier:
		return "none"
	case Bronze:
		return "bronze"
	case Silver:
		return "silver"
	case Gold:
		return "gold"
	case VIP:
		return "vip"
	}
	return "unknown"
}

// Bytes returns the storage key form of the tier.
func (t Tier) Bytes() []byte {
	return []byte{byte(t)}
}

// Valid reports whether t names a configured bracket (NoTier has no config).
func (t Tier) Valid() bool {
	return t >= Bronze && t <= VIP
}

// descending is the classification evaluation order.
var descending = [4]Tier{VIP, Gold, Silver, Bronze}

// Config is the mutable parameter set of one tier.
type Config struct {
	MinLocked    *big.Int // lowest locked balance qualifying for the tier
	MaxStake     *big.Int // cap on an account's running staked total
	BonusRatePPM uint32   // additional yearly rate on top of the period base rate
}

// IsEmpty returns true when no config has been stored for the tier.
func (c *Config) IsEmpty() bool {
	return c == nil || c.MinLocked == nil
}

// defaultConfigs seed the tier table until governance overrides them.
// Amounts are in wei-scale units of the governance asset.
var defaultConfigs = map[Tier]Config{
	Bronze: {
		MinLocked:    new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18)),
		MaxStake:     new(big.Int).Mul(big.NewInt(50_000), big.NewInt(1e18)),
		BonusRatePPM: 5_000,
	},
	Silver: {
		MinLocked:    new(big.Int).Mul(big.NewInt(500), big.NewInt(1e18)),
		MaxStake:     new(big.Int).Mul(big.NewInt(200_000), big.NewInt(1e18)),
		BonusRatePPM: 10_000,
	},
	Gold: {
		MinLocked:    new(big.Int).Mul(big.NewInt(2_500), big.NewInt(1e18)),
		MaxStake:     new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(1e18)),
		BonusRatePPM: 20_000,
	},
	VIP: {
		MinLocked:    new(big.Int).Mul(big.NewInt(10_000), big.NewInt(1e18)),
		MaxStake:     new(big.Int).Mul(big.NewInt(5_000_000), big.NewInt(1e18)),
		BonusRatePPM: 30_000,
	},
}
