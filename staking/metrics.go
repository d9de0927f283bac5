// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"time"

	"github.com/tierlock/tierlock/metrics"
	"github.com/tierlock/tierlock/staking/errs"
)

var (
	metricPositionsOpened    = metrics.LazyLoadCounter("staking_positions_opened_count")
	metricPositionsClosed    = metrics.LazyLoadCounter("staking_positions_closed_count")
	metricPrincipalSettled   = metrics.LazyLoadCounter("staking_principal_settled_count")
	metricInterestSettled    = metrics.LazyLoadCounter("staking_interest_settled_count")
	metricAuthFailures       = metrics.LazyLoadCounterVec("staking_auth_failure_count", []string{"op"})
	metricActivePositions    = metrics.LazyLoadGauge("staking_active_positions_gauge")
	metricOperationDuration  = metrics.LazyLoadHistogram("staking_operation_duration_ms", metrics.Bucket10s)
)

func metricDuration(start time.Time) {
	metricOperationDuration().Observe(time.Since(start).Milliseconds())
}

func countFailure(op string, err error) {
	if errs.IsAuthorization(err) {
		metricAuthFailures().AddWithLabel(1, map[string]string{"op": op})
	}
}
