// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package poolstats

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tierlock/tierlock/kv"
	"github.com/tierlock/tierlock/slot"
	"github.com/tierlock/tierlock/state"
	"github.com/tierlock/tierlock/tierlock"
)

func newService(t *testing.T) *Service {
	db, err := kv.NewMem()
	require.NoError(t, err)
	st := state.New(db)
	return New(slot.NewContext(tierlock.BytesToAddress([]byte("stats")), st))
}

func TestTotals(t *testing.T) {
	svc := newService(t)

	m, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, new(big.Int), m.TotalStaked)
	assert.Equal(t, new(big.Int), m.TotalActivePositions)

	require.NoError(t, svc.AddStaked(big.NewInt(1000)))
	require.NoError(t, svc.AddStaked(big.NewInt(500)))
	require.NoError(t, svc.AddLocked(big.NewInt(200)))
	require.NoError(t, svc.AddWithdrawn(big.NewInt(10)))
	require.NoError(t, svc.AddDistributed(big.NewInt(5)))

	m, err = svc.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1500), m.TotalStaked)
	assert.Equal(t, big.NewInt(2), m.TotalActivePositions)
	assert.Equal(t, big.NewInt(200), m.TotalLocked)
	assert.Equal(t, big.NewInt(10), m.TotalWithdrawnPrincipal)
	assert.Equal(t, big.NewInt(5), m.TotalDistributedInterest)

	require.NoError(t, svc.RemoveStaked(big.NewInt(500)))
	require.NoError(t, svc.SubLocked(big.NewInt(200)))

	m, err = svc.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), m.TotalStaked)
	assert.Equal(t, big.NewInt(1), m.TotalActivePositions)
	assert.Equal(t, new(big.Int), m.TotalLocked)

	staked, err := svc.TotalStaked()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), staked)
}

func TestUnderflows(t *testing.T) {
	svc := newService(t)

	assert.Error(t, svc.RemoveStaked(big.NewInt(1)))
	assert.Error(t, svc.SubLocked(big.NewInt(1)))

	require.NoError(t, svc.AddStaked(big.NewInt(10)))
	assert.Error(t, svc.RemoveStaked(big.NewInt(11)))
}
