// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tierlock/tierlock/calendar"
	"github.com/tierlock/tierlock/kv"
	"github.com/tierlock/tierlock/locking"
	"github.com/tierlock/tierlock/params"
	"github.com/tierlock/tierlock/staking/accounts"
	"github.com/tierlock/tierlock/staking/auth"
	"github.com/tierlock/tierlock/staking/errs"
	"github.com/tierlock/tierlock/staking/positions"
	"github.com/tierlock/tierlock/state"
	"github.com/tierlock/tierlock/tierlock"
	"github.com/tierlock/tierlock/token"
)

func M(a ...any) []any {
	return a
}

func units(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func ts(year, month, day uint32) uint64 {
	sec, err := calendar.DateTime{Year: year, Month: month, Day: day}.Unix()
	if err != nil {
		panic(err)
	}
	return sec
}

type env struct {
	engine     *Staking
	param      *params.Params
	stakeCoin  *token.Token
	lockCoin   *token.Token
	lockLedger *locking.Ledger

	admin     tierlock.Address
	pool      tierlock.Address
	signerKey *ecdsa.PrivateKey
}

func newEnv(t *testing.T) *env {
	db, err := kv.NewMem()
	require.NoError(t, err)
	st := state.New(db)

	signerKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	e := &env{
		param:      params.New(tierlock.BytesToAddress([]byte("params")), st),
		stakeCoin:  token.New(tierlock.BytesToAddress([]byte("stake-coin")), st),
		lockCoin:   token.New(tierlock.BytesToAddress([]byte("lock-coin")), st),
		lockLedger: locking.New(tierlock.BytesToAddress([]byte("locking")), st),
		admin:      tierlock.BytesToAddress([]byte("admin")),
		pool:       tierlock.BytesToAddress([]byte("pool")),
		signerKey:  signerKey,
	}

	require.NoError(t, e.param.Set(tierlock.KeyGlobalStakeCap, tierlock.InitialGlobalStakeCap))
	require.NoError(t, e.param.Set(tierlock.KeyMaxActivePositions, tierlock.InitialMaxActivePositions))
	require.NoError(t, e.param.Set(tierlock.KeyMinStakePersonal, units(100)))
	require.NoError(t, e.param.Set(tierlock.KeyMinStakeInstitut, units(10_000)))

	e.engine = New(
		Config{
			Address:  tierlock.BytesToAddress([]byte("staking")),
			Pool:     e.pool,
			SystemID: tierlock.Blake2b([]byte("test-system")),
			Signer:   tierlock.PubkeyToAddress(&signerKey.PublicKey),
			Admin:    e.admin,
		},
		st, e.param, e.stakeCoin, e.lockCoin, e.lockLedger,
	)
	require.NoError(t, e.engine.AddPeriod(e.admin, 6, 70_000))
	require.NoError(t, e.engine.AddPeriod(e.admin, 12, 90_000))
	return e
}

func (e *env) fund(t *testing.T, addr tierlock.Address, amount *big.Int) {
	require.NoError(t, e.stakeCoin.Mint(addr, amount))
}

func (e *env) openToken(t *testing.T, caller tierlock.Address, userType accounts.UserType, duration uint32, amount *big.Int, useLocking bool, expiry uint64) *auth.Token {
	token, err := e.engine.Verifier().Sign(caller, OpOpenPosition, OpenParams(userType, duration, amount, useLocking), expiry, e.signerKey)
	require.NoError(t, err)
	return token
}

func (e *env) closeToken(t *testing.T, caller tierlock.Address, id positions.ID, expiry uint64) *auth.Token {
	token, err := e.engine.Verifier().Sign(caller, OpRequestClose, PositionParams(id), expiry, e.signerKey)
	require.NoError(t, err)
	return token
}

func (e *env) settleToken(t *testing.T, caller tierlock.Address, id positions.ID, expiry uint64) *auth.Token {
	token, err := e.engine.Verifier().Sign(caller, OpSettlePrincipal, PositionParams(id), expiry, e.signerKey)
	require.NoError(t, err)
	return token
}

func (e *env) interestToken(t *testing.T, caller tierlock.Address, id positions.ID, months []uint32, amounts []*big.Int, expiry uint64) *auth.Token {
	token, err := e.engine.Verifier().Sign(caller, OpSettleInterest, InterestParams(id, months, amounts), expiry, e.signerKey)
	require.NoError(t, err)
	return token
}

// open opens a position with a fresh token, funding the caller first.
func (e *env) open(t *testing.T, caller tierlock.Address, userType accounts.UserType, duration uint32, amount *big.Int, now uint64) positions.ID {
	e.fund(t, caller, amount)
	token := e.openToken(t, caller, userType, duration, amount, false, now+3600)
	id, err := e.engine.OpenPosition(caller, userType, duration, amount, false, token, now)
	require.NoError(t, err)
	return id
}

func TestOpenPosition(t *testing.T) {
	e := newEnv(t)
	alice := tierlock.BytesToAddress([]byte("alice"))
	now := ts(2026, 1, 15)

	id := e.open(t, alice, accounts.Personal, 6, units(1000), now)
	assert.Equal(t, positions.ID(1), id)

	pos, err := e.engine.GetPosition(id)
	require.NoError(t, err)
	assert.Equal(t, alice, pos.Owner)
	assert.Equal(t, units(1000), pos.Principal)
	assert.Equal(t, now, pos.StartTs)
	assert.Equal(t, ts(2026, 7, 15), pos.EndTs)
	assert.Equal(t, uint32(6), pos.PeriodDuration)
	assert.Equal(t, uint32(70_000), pos.BaseRatePPM)
	assert.Equal(t, uint32(0), pos.BonusRatePPM)
	assert.False(t, pos.Locked)
	assert.False(t, pos.Closed)
	assert.False(t, pos.Settled)

	// monthly interest: floor(floor(P * rate / 1e6) / 12)
	yearly := new(big.Int).Div(new(big.Int).Mul(units(1000), big.NewInt(70_000)), big.NewInt(1_000_000))
	expected := new(big.Int).Div(yearly, big.NewInt(12))
	assert.Equal(t, expected, pos.MonthlyInterest)

	// principal moved caller -> pool
	assert.Equal(t, M(new(big.Int), nil), M(e.stakeCoin.BalanceOf(alice)))
	assert.Equal(t, M(units(1000), nil), M(e.stakeCoin.BalanceOf(e.pool)))

	// aggregates
	summary, err := e.engine.GetUserSummary(alice, accounts.Personal)
	require.NoError(t, err)
	assert.Equal(t, units(1000), summary.TotalStaked)
	assert.Equal(t, uint32(1), summary.ActivePositions)

	metrics, err := e.engine.GetPoolMetrics()
	require.NoError(t, err)
	assert.Equal(t, units(1000), metrics.TotalStaked)
	assert.Equal(t, big.NewInt(1), metrics.TotalActivePositions)

	list, err := e.engine.GetPeriods()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), list[0].ActiveCount)
	assert.Equal(t, units(1000), list[0].ActiveAmount)
}

func TestOpenPositionIDsAreGlobal(t *testing.T) {
	e := newEnv(t)
	now := ts(2026, 1, 15)

	alice := tierlock.BytesToAddress([]byte("alice"))
	bob := tierlock.BytesToAddress([]byte("bob"))

	assert.Equal(t, positions.ID(1), e.open(t, alice, accounts.Personal, 6, units(500), now))
	assert.Equal(t, positions.ID(2), e.open(t, bob, accounts.Personal, 6, units(500), now))
	assert.Equal(t, positions.ID(3), e.open(t, alice, accounts.Personal, 12, units(500), now))
}

func TestOpenValidations(t *testing.T) {
	e := newEnv(t)
	alice := tierlock.BytesToAddress([]byte("alice"))
	now := ts(2026, 1, 15)
	e.fund(t, alice, units(1_000_000))

	openWith := func(userType accounts.UserType, duration uint32, amount *big.Int) error {
		token := e.openToken(t, alice, userType, duration, amount, false, now+3600)
		_, err := e.engine.OpenPosition(alice, userType, duration, amount, false, token, now)
		return err
	}

	// unregistered period
	err := openWith(accounts.Personal, 9, units(1000))
	assert.True(t, errs.IsValidation(err))
	assert.EqualError(t, err, "validation: period not registered")

	// disabled period
	require.NoError(t, e.engine.DisablePeriod(6))
	err = openWith(accounts.Personal, 6, units(1000))
	assert.EqualError(t, err, "validation: period disabled")
	require.NoError(t, e.engine.EnablePeriod(6))

	// below per-class minimum
	err = openWith(accounts.Personal, 6, units(99))
	assert.EqualError(t, err, "validation: amount below minimum stake")
	err = openWith(accounts.Institutional, 12, units(9_999))
	assert.EqualError(t, err, "validation: amount below minimum stake")

	// institutional term floor
	err = openWith(accounts.Institutional, 6, units(10_000))
	assert.EqualError(t, err, "validation: institutional term too short")

	// non-positive amount
	token := e.openToken(t, alice, accounts.Personal, 6, big.NewInt(0), false, now+3600)
	_, err = e.engine.OpenPosition(alice, accounts.Personal, 6, big.NewInt(0), false, token, now)
	assert.EqualError(t, err, "validation: amount must be positive")
}

func TestOpenGlobalCap(t *testing.T) {
	e := newEnv(t)
	alice := tierlock.BytesToAddress([]byte("alice"))
	now := ts(2026, 1, 15)

	require.NoError(t, e.engine.SetGlobalStakeCap(e.admin, units(1500)))

	e.open(t, alice, accounts.Personal, 6, units(1000), now)

	e.fund(t, alice, units(501))
	token := e.openToken(t, alice, accounts.Personal, 6, units(501), false, now+3600)
	_, err := e.engine.OpenPosition(alice, accounts.Personal, 6, units(501), false, token, now)
	assert.EqualError(t, err, "validation: pool stake cap exceeded")

	// exactly at the cap is fine
	e.open(t, alice, accounts.Personal, 6, units(500), now)
}

func TestOpenMaxActivePositions(t *testing.T) {
	e := newEnv(t)
	alice := tierlock.BytesToAddress([]byte("alice"))
	now := ts(2026, 1, 15)

	require.NoError(t, e.engine.SetMaxActivePositions(e.admin, 2))

	e.open(t, alice, accounts.Personal, 6, units(100), now)
	id := e.open(t, alice, accounts.Personal, 6, units(100), now)

	e.fund(t, alice, units(100))
	token := e.openToken(t, alice, accounts.Personal, 6, units(100), false, now+3600)
	_, err := e.engine.OpenPosition(alice, accounts.Personal, 6, units(100), false, token, now)
	assert.EqualError(t, err, "validation: too many active positions")

	// closing frees a slot
	require.NoError(t, e.engine.RequestClose(alice, id, e.closeToken(t, alice, id, now+3600), now))
	e.open(t, alice, accounts.Personal, 6, units(100), now)
}

func TestOpenTierCapWithLockingDisabled(t *testing.T) {
	e := newEnv(t)
	alice := tierlock.BytesToAddress([]byte("alice"))
	now := ts(2026, 1, 15)

	// with locking globally disabled, the top-tier cap applies to everyone
	require.NoError(t, e.engine.SetGlobalStakeCap(e.admin, big.NewInt(0)))
	amount := units(5_000_001)
	e.fund(t, alice, amount)
	token := e.openToken(t, alice, accounts.Personal, 6, amount, false, now+3600)
	_, err := e.engine.OpenPosition(alice, accounts.Personal, 6, amount, false, token, now)
	assert.EqualError(t, err, "validation: tier stake cap exceeded")
}

func TestOpenTokenReplayed(t *testing.T) {
	e := newEnv(t)
	alice := tierlock.BytesToAddress([]byte("alice"))
	now := ts(2026, 1, 15)

	e.fund(t, alice, units(2000))
	token := e.openToken(t, alice, accounts.Personal, 6, units(1000), false, now+3600)

	_, err := e.engine.OpenPosition(alice, accounts.Personal, 6, units(1000), false, token, now)
	require.NoError(t, err)

	_, err = e.engine.OpenPosition(alice, accounts.Personal, 6, units(1000), false, token, now)
	assert.True(t, errs.IsAuthorization(err))
	assert.EqualError(t, err, "authorization: authorization replayed")
}

func TestTokenBurnedOnFailedRequest(t *testing.T) {
	e := newEnv(t)
	alice := tierlock.BytesToAddress([]byte("alice"))
	now := ts(2026, 1, 15)

	// business validation fails after the token is consumed
	e.fund(t, alice, units(50))
	token := e.openToken(t, alice, accounts.Personal, 6, units(50), false, now+3600)
	_, err := e.engine.OpenPosition(alice, accounts.Personal, 6, units(50), false, token, now)
	assert.EqualError(t, err, "validation: amount below minimum stake")

	// the same token cannot be retried
	_, err = e.engine.OpenPosition(alice, accounts.Personal, 6, units(50), false, token, now)
	assert.EqualError(t, err, "authorization: authorization replayed")
}

func TestCloseAndSettleOrdering(t *testing.T) {
	e := newEnv(t)
	alice := tierlock.BytesToAddress([]byte("alice"))
	now := ts(2026, 1, 15)

	id := e.open(t, alice, accounts.Personal, 6, units(1000), now)

	// settle before close fails
	err := e.engine.SettlePrincipal(alice, id, e.settleToken(t, alice, id, now+3600), now)
	assert.True(t, errs.IsState(err))
	assert.EqualError(t, err, "state: position not closed")

	// close
	closeTs := ts(2026, 7, 16)
	require.NoError(t, e.engine.RequestClose(alice, id, e.closeToken(t, alice, id, closeTs+3600), closeTs))

	pos, err := e.engine.GetPosition(id)
	require.NoError(t, err)
	assert.True(t, pos.Closed)
	assert.Equal(t, closeTs, pos.CloseRequestTs)

	// double close fails
	err = e.engine.RequestClose(alice, id, e.closeToken(t, alice, id, closeTs+7200), closeTs)
	assert.EqualError(t, err, "state: position already closed")

	// settle succeeds exactly once and returns exactly the principal
	settleTs := ts(2026, 7, 17)
	require.NoError(t, e.engine.SettlePrincipal(alice, id, e.settleToken(t, alice, id, settleTs+3600), settleTs))
	assert.Equal(t, M(units(1000), nil), M(e.stakeCoin.BalanceOf(alice)))

	pos, err = e.engine.GetPosition(id)
	require.NoError(t, err)
	assert.True(t, pos.Settled)
	assert.Equal(t, settleTs, pos.SettleTs)

	err = e.engine.SettlePrincipal(alice, id, e.settleToken(t, alice, id, settleTs+7200), settleTs)
	assert.EqualError(t, err, "state: position already settled")

	metrics, err := e.engine.GetPoolMetrics()
	require.NoError(t, err)
	assert.Equal(t, new(big.Int), metrics.TotalStaked)
	assert.Equal(t, new(big.Int), metrics.TotalActivePositions)
	assert.Equal(t, units(1000), metrics.TotalWithdrawnPrincipal)
}

func TestCloseUnknownPosition(t *testing.T) {
	e := newEnv(t)
	alice := tierlock.BytesToAddress([]byte("alice"))
	now := ts(2026, 1, 15)

	err := e.engine.RequestClose(alice, 42, e.closeToken(t, alice, 42, now+3600), now)
	assert.True(t, errs.IsState(err))
	assert.EqualError(t, err, "state: position not found")
}

func TestCloseSomeoneElsesPosition(t *testing.T) {
	e := newEnv(t)
	alice := tierlock.BytesToAddress([]byte("alice"))
	bob := tierlock.BytesToAddress([]byte("bob"))
	now := ts(2026, 1, 15)

	id := e.open(t, alice, accounts.Personal, 6, units(1000), now)

	// bob holds a valid token for alice's position id, but it is not his
	err := e.engine.RequestClose(bob, id, e.closeToken(t, bob, id, now+3600), now)
	assert.EqualError(t, err, "state: position not found")
}

func TestForceClose(t *testing.T) {
	e := newEnv(t)
	alice := tierlock.BytesToAddress([]byte("alice"))
	now := ts(2026, 1, 15)

	id := e.open(t, alice, accounts.Personal, 6, units(1000), now)

	// only the admin may force close
	err := e.engine.ForceClose(alice, alice, id, now)
	assert.EqualError(t, err, "validation: caller is not admin")

	require.NoError(t, e.engine.ForceClose(e.admin, alice, id, now))

	pos, err := e.engine.GetPosition(id)
	require.NoError(t, err)
	assert.True(t, pos.Closed)

	// settlement still belongs to the owner
	require.NoError(t, e.engine.SettlePrincipal(alice, id, e.settleToken(t, alice, id, now+3600), now))
	assert.Equal(t, M(units(1000), nil), M(e.stakeCoin.BalanceOf(alice)))
}

func TestSettleInterest(t *testing.T) {
	e := newEnv(t)
	alice := tierlock.BytesToAddress([]byte("alice"))
	now := ts(2026, 1, 15)

	id := e.open(t, alice, accounts.Personal, 6, units(1200), now)
	pos, err := e.engine.GetPosition(id)
	require.NoError(t, err)
	monthly := pos.MonthlyInterest

	// pool must be able to pay
	e.fund(t, e.pool, units(1000))

	months := []uint32{1, 2}
	amounts := []*big.Int{monthly, monthly}
	require.NoError(t, e.engine.SettleInterest(alice, id, months, amounts, e.interestToken(t, alice, id, months, amounts, now+3600), now))

	expected := new(big.Int).Mul(monthly, big.NewInt(2))
	assert.Equal(t, M(expected, nil), M(e.stakeCoin.BalanceOf(alice)))

	metrics, err := e.engine.GetPoolMetrics()
	require.NoError(t, err)
	assert.Equal(t, expected, metrics.TotalDistributedInterest)

	// claiming month 2 again fails regardless of amount
	months = []uint32{2}
	amounts = []*big.Int{big.NewInt(1)}
	err = e.engine.SettleInterest(alice, id, months, amounts, e.interestToken(t, alice, id, months, amounts, now+3600), now)
	assert.True(t, errs.IsState(err))
	assert.EqualError(t, err, "state: interest already claimed for month")

	// one bad entry aborts the whole batch
	months = []uint32{3, 2}
	amounts = []*big.Int{monthly, monthly}
	err = e.engine.SettleInterest(alice, id, months, amounts, e.interestToken(t, alice, id, months, amounts, now+3600), now)
	assert.True(t, errs.IsState(err))

	// month 3 was not recorded by the aborted batch
	months = []uint32{3}
	amounts = []*big.Int{monthly}
	require.NoError(t, e.engine.SettleInterest(alice, id, months, amounts, e.interestToken(t, alice, id, months, amounts, now+3600), now))
}

func TestSettleInterestValidations(t *testing.T) {
	e := newEnv(t)
	alice := tierlock.BytesToAddress([]byte("alice"))
	now := ts(2026, 1, 15)

	id := e.open(t, alice, accounts.Personal, 6, units(1200), now)
	pos, err := e.engine.GetPosition(id)
	require.NoError(t, err)
	e.fund(t, e.pool, units(1000))

	settle := func(months []uint32, amounts []*big.Int) error {
		return e.engine.SettleInterest(alice, id, months, amounts, e.interestToken(t, alice, id, months, amounts, now+3600), now)
	}

	assert.EqualError(t, settle(nil, nil), "validation: no months given")
	assert.EqualError(t, settle([]uint32{1, 2}, []*big.Int{big.NewInt(1)}), "validation: months and amounts length mismatch")
	assert.EqualError(t, settle([]uint32{1}, []*big.Int{big.NewInt(0)}), "validation: claim amount must be positive")
	assert.EqualError(t, settle([]uint32{1, 1}, []*big.Int{big.NewInt(1), big.NewInt(1)}), "validation: duplicate month in request")

	over := new(big.Int).Add(pos.MonthlyInterest, big.NewInt(1))
	assert.EqualError(t, settle([]uint32{1}, []*big.Int{over}), "validation: claim exceeds monthly interest")

	// interest remains claimable on a closed position
	require.NoError(t, e.engine.RequestClose(alice, id, e.closeToken(t, alice, id, now+3600), now))
	assert.NoError(t, settle([]uint32{1}, []*big.Int{pos.MonthlyInterest}))
}

func TestPause(t *testing.T) {
	e := newEnv(t)
	alice := tierlock.BytesToAddress([]byte("alice"))
	now := ts(2026, 1, 15)

	id := e.open(t, alice, accounts.Personal, 6, units(1000), now)

	require.NoError(t, e.engine.SetPaused(e.admin, true))

	e.fund(t, alice, units(1000))
	token := e.openToken(t, alice, accounts.Personal, 6, units(1000), false, now+3600)
	_, err := e.engine.OpenPosition(alice, accounts.Personal, 6, units(1000), false, token, now)
	assert.EqualError(t, err, "validation: ledger is paused")

	err = e.engine.RequestClose(alice, id, e.closeToken(t, alice, id, now+3600), now)
	assert.EqualError(t, err, "validation: ledger is paused")

	require.NoError(t, e.engine.SetPaused(e.admin, false))
	require.NoError(t, e.engine.RequestClose(alice, id, e.closeToken(t, alice, id, now+7200), now))
}

func TestPoolInvariant(t *testing.T) {
	e := newEnv(t)
	now := ts(2026, 1, 15)

	alice := tierlock.BytesToAddress([]byte("alice"))
	bob := tierlock.BytesToAddress([]byte("bob"))

	id1 := e.open(t, alice, accounts.Personal, 6, units(1000), now)
	e.open(t, alice, accounts.Personal, 12, units(250), now)
	id3 := e.open(t, bob, accounts.Personal, 6, units(500), now)

	require.NoError(t, e.engine.RequestClose(alice, id1, e.closeToken(t, alice, id1, now+3600), now))

	// totalStaked == sum of principal over non-closed positions
	metrics, err := e.engine.GetPoolMetrics()
	require.NoError(t, err)
	assert.Equal(t, units(750), metrics.TotalStaked)
	assert.Equal(t, big.NewInt(2), metrics.TotalActivePositions)

	require.NoError(t, e.engine.RequestClose(bob, id3, e.closeToken(t, bob, id3, now+3600), now))
	metrics, err = e.engine.GetPoolMetrics()
	require.NoError(t, err)
	assert.Equal(t, units(250), metrics.TotalStaked)
	assert.Equal(t, big.NewInt(1), metrics.TotalActivePositions)
}

func TestEndToEndPersonalSixMonths(t *testing.T) {
	e := newEnv(t)
	alice := tierlock.BytesToAddress([]byte("alice"))
	now := ts(2026, 1, 31)
	principal := units(777)

	e.fund(t, alice, principal)
	token := e.openToken(t, alice, accounts.Personal, 6, principal, true, now+3600)

	// locking is globally disabled: useLocking is ignored, bonus is zero
	id, err := e.engine.OpenPosition(alice, accounts.Personal, 6, principal, true, token, now)
	require.NoError(t, err)

	pos, err := e.engine.GetPosition(id)
	require.NoError(t, err)
	assert.False(t, pos.Locked)
	assert.Equal(t, uint32(0), pos.BonusRatePPM)
	// Jan 31 + 6 months lands on Jul 31
	assert.Equal(t, ts(2026, 7, 31), pos.EndTs)

	yearly := new(big.Int).Div(new(big.Int).Mul(principal, big.NewInt(70_000)), big.NewInt(1_000_000))
	assert.Equal(t, new(big.Int).Div(yearly, big.NewInt(12)), pos.MonthlyInterest)

	closeTs := ts(2026, 8, 1)
	require.NoError(t, e.engine.RequestClose(alice, id, e.closeToken(t, alice, id, closeTs+3600), closeTs))
	require.NoError(t, e.engine.SettlePrincipal(alice, id, e.settleToken(t, alice, id, closeTs+3600), closeTs))

	// exactly the principal comes back, with zero locked amount
	assert.Equal(t, M(principal, nil), M(e.stakeCoin.BalanceOf(alice)))
	assert.Equal(t, M(new(big.Int), nil), M(e.lockCoin.BalanceOf(alice)))

	summary, err := e.engine.GetUserSummary(alice, accounts.Personal)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int), summary.TotalStaked)
	assert.Equal(t, new(big.Int), summary.TotalLocked)
	assert.Equal(t, uint32(0), summary.ActivePositions)
}

func TestLockingLifecycle(t *testing.T) {
	e := newEnv(t)
	alice := tierlock.BytesToAddress([]byte("alice"))
	now := ts(2026, 1, 15)

	require.NoError(t, e.engine.SetLockingEnabled(e.admin, true))
	require.NoError(t, e.lockLedger.Lock(alice, units(500))) // silver
	require.NoError(t, e.lockCoin.Mint(e.pool, units(500)))

	e.fund(t, alice, units(2000))

	openLocked := func(duration uint32, amount *big.Int) positions.ID {
		token := e.openToken(t, alice, accounts.Personal, duration, amount, true, now+3600)
		id, err := e.engine.OpenPosition(alice, accounts.Personal, duration, amount, true, token, now)
		require.NoError(t, err)
		return id
	}

	id1 := openLocked(6, units(1000))
	pos, err := e.engine.GetPosition(id1)
	require.NoError(t, err)
	assert.True(t, pos.Locked)
	assert.Equal(t, uint8(2), pos.TierAtOpen) // silver
	assert.Equal(t, uint32(10_000), pos.BonusRatePPM)
	assert.Equal(t, units(500), pos.LockedAmount)

	// bonus raises the monthly interest
	yearly := new(big.Int).Div(new(big.Int).Mul(units(1000), big.NewInt(80_000)), big.NewInt(1_000_000))
	assert.Equal(t, new(big.Int).Div(yearly, big.NewInt(12)), pos.MonthlyInterest)

	summary, err := e.engine.GetUserSummary(alice, accounts.Personal)
	require.NoError(t, err)
	assert.Equal(t, units(500), summary.TotalLocked)

	metrics, err := e.engine.GetPoolMetrics()
	require.NoError(t, err)
	assert.Equal(t, units(500), metrics.TotalLocked)

	// the external ledger is told about the committed contribution
	assert.Equal(t, M(units(500), nil), M(e.lockLedger.CommittedBalance(alice)))

	// a longer position takes the pointer over
	id2 := openLocked(12, units(1000))

	// a shorter one does not
	e.fund(t, alice, units(100))
	openLocked(6, units(100))

	// closing the pointer owner removes its locked total from the pool
	require.NoError(t, e.engine.RequestClose(alice, id2, e.closeToken(t, alice, id2, now+3600), now))
	metrics, err = e.engine.GetPoolMetrics()
	require.NoError(t, err)
	assert.Equal(t, new(big.Int), metrics.TotalLocked)

	// the account's locked total stays until the pointer owner settles
	summary, err = e.engine.GetUserSummary(alice, accounts.Personal)
	require.NoError(t, err)
	assert.Equal(t, units(500), summary.TotalLocked)

	require.NoError(t, e.engine.SettlePrincipal(alice, id2, e.settleToken(t, alice, id2, now+3600), now))

	// the locked amount is paid out, the commitment released, and the
	// account's locked total zeroed; the deposit itself is untouched
	assert.Equal(t, M(units(500), nil), M(e.lockCoin.BalanceOf(alice)))
	summary, err = e.engine.GetUserSummary(alice, accounts.Personal)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int), summary.TotalLocked)
	assert.Equal(t, M(new(big.Int), nil), M(e.lockLedger.CommittedBalance(alice)))
	assert.Equal(t, M(units(500), nil), M(e.lockLedger.LockedBalance(alice)))
}

func TestLockingPointerAdvanceAfterClose(t *testing.T) {
	e := newEnv(t)
	alice := tierlock.BytesToAddress([]byte("alice"))
	now := ts(2026, 1, 15)

	require.NoError(t, e.engine.SetLockingEnabled(e.admin, true))
	require.NoError(t, e.lockLedger.Lock(alice, units(500)))
	e.fund(t, alice, units(1000))

	openLocked := func(duration uint32, amount *big.Int) positions.ID {
		token := e.openToken(t, alice, accounts.Personal, duration, amount, true, now+3600)
		id, err := e.engine.OpenPosition(alice, accounts.Personal, duration, amount, true, token, now)
		require.NoError(t, err)
		return id
	}

	id1 := openLocked(6, units(500))
	require.NoError(t, e.engine.RequestClose(alice, id1, e.closeToken(t, alice, id1, now+3600), now))

	// the closed owner's contribution already left the locked totals
	metrics, err := e.engine.GetPoolMetrics()
	require.NoError(t, err)
	assert.Equal(t, new(big.Int), metrics.TotalLocked)
	assert.Equal(t, new(big.Int), metrics.TotalStaked)

	// a later-ending position still takes the pointer over cleanly
	id2 := openLocked(12, units(500))

	metrics, err = e.engine.GetPoolMetrics()
	require.NoError(t, err)
	assert.Equal(t, units(500), metrics.TotalLocked)
	assert.Equal(t, units(500), metrics.TotalStaked)
	assert.Equal(t, big.NewInt(1), metrics.TotalActivePositions)

	// settling the closed position pays no locked asset; the pointer and
	// the commitment moved on with the new position
	require.NoError(t, e.engine.SettlePrincipal(alice, id1, e.settleToken(t, alice, id1, now+3600), now))
	assert.Equal(t, M(new(big.Int), nil), M(e.lockCoin.BalanceOf(alice)))
	assert.Equal(t, M(units(500), nil), M(e.lockLedger.CommittedBalance(alice)))

	pos, err := e.engine.GetPosition(id2)
	require.NoError(t, err)
	assert.Equal(t, units(500), pos.LockedAmount)

	summary, err := e.engine.GetUserSummary(alice, accounts.Personal)
	require.NoError(t, err)
	assert.Equal(t, units(500), summary.TotalLocked)
}

func TestOpenUseLockingRequiresTier(t *testing.T) {
	e := newEnv(t)
	alice := tierlock.BytesToAddress([]byte("alice"))
	now := ts(2026, 1, 15)

	require.NoError(t, e.engine.SetLockingEnabled(e.admin, true))

	e.fund(t, alice, units(1000))
	token := e.openToken(t, alice, accounts.Personal, 6, units(1000), true, now+3600)
	_, err := e.engine.OpenPosition(alice, accounts.Personal, 6, units(1000), true, token, now)
	assert.EqualError(t, err, "validation: locked balance below tier minimum")
}
