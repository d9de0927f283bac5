// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tierlock

import "math/big"

// Constants of the staking ledger.
const (
	// RatePPMDenominator full scale of a parts-per-million fixed-point rate.
	RatePPMDenominator uint64 = 1_000_000

	// MinBaseRatePPM lowest acceptable base rate for a staking period (1%).
	MinBaseRatePPM uint64 = 10_000

	// MonthsPerYear months of interest a yearly rate is split into.
	MonthsPerYear uint64 = 12

	// MinInstitutionalMonths shortest staking term an institutional account may take.
	MinInstitutionalMonths uint32 = 12
)

// Keys of governance params.
var (
	KeyGlobalStakeCap     = BytesToBytes32([]byte("global-stake-cap"))
	KeyMaxActivePositions = BytesToBytes32([]byte("max-active-positions"))
	KeyMinStakePersonal   = BytesToBytes32([]byte("min-stake-personal"))
	KeyMinStakeInstitut   = BytesToBytes32([]byte("min-stake-institutional"))
	KeyLockingEnabled     = BytesToBytes32([]byte("locking-enabled"))
	KeyPaused             = BytesToBytes32([]byte("paused"))

	InitialGlobalStakeCap     = new(big.Int).Mul(big.NewInt(100e6), big.NewInt(1e18))
	InitialMaxActivePositions = big.NewInt(50)
	InitialMinStakePersonal   = new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18))
	InitialMinStakeInstitut   = new(big.Int).Mul(big.NewInt(10_000), big.NewInt(1e18))
)
