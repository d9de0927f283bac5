// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking exposes the lifecycle engine over HTTP.
package staking

import (
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/tierlock/tierlock/api/restutil"
	"github.com/tierlock/tierlock/staking"
	"github.com/tierlock/tierlock/staking/accounts"
	"github.com/tierlock/tierlock/staking/errs"
	"github.com/tierlock/tierlock/staking/positions"
	"github.com/tierlock/tierlock/tierlock"
)

type Staking struct {
	engine *staking.Staking
}

func New(engine *staking.Staking) *Staking {
	return &Staking{engine}
}

// convertError maps the ledger failure taxonomy onto http statuses.
func convertError(err error) error {
	kind, ok := errs.KindOf(err)
	if !ok {
		return err
	}
	switch kind {
	case errs.KindValidation:
		return restutil.BadRequest(err)
	case errs.KindAuthorization:
		return restutil.HTTPError(err, http.StatusUnauthorized)
	case errs.KindState:
		return restutil.Conflict(err)
	case errs.KindArithmetic:
		return restutil.HTTPError(err, http.StatusUnprocessableEntity)
	}
	return err
}

// requestTime falls back to wall-clock time when the request carries
// no explicit timestamp.
func requestTime(now uint64) uint64 {
	if now == 0 {
		return uint64(time.Now().Unix())
	}
	return now
}

func parseUserType(s string) (accounts.UserType, error) {
	switch s {
	case "personal":
		return accounts.Personal, nil
	case "institutional":
		return accounts.Institutional, nil
	}
	return 0, errors.New("bad user type")
}

func parsePositionID(req *http.Request) (positions.ID, error) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		return 0, errors.WithMessage(err, "id")
	}
	return positions.ID(id), nil
}

func parseAccount(req *http.Request) (tierlock.Address, error) {
	addr, err := tierlock.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return tierlock.Address{}, errors.WithMessage(err, "address")
	}
	return *addr, nil
}

func (s *Staking) handleGetUserSummary(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAccount(req)
	if err != nil {
		return restutil.BadRequest(err)
	}
	userType := accounts.Personal
	if q := req.URL.Query().Get("userType"); q != "" {
		if userType, err = parseUserType(q); err != nil {
			return restutil.BadRequest(err)
		}
	}
	summary, err := s.engine.GetUserSummary(addr, userType)
	if err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, convertUserSummary(summary))
}

func (s *Staking) handleGetPeriods(w http.ResponseWriter, _ *http.Request) error {
	list, err := s.engine.GetPeriods()
	if err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, convertPeriods(list))
}

func (s *Staking) handleGetPoolMetrics(w http.ResponseWriter, _ *http.Request) error {
	m, err := s.engine.GetPoolMetrics()
	if err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, convertPoolMetrics(m))
}

func (s *Staking) handleGetPosition(w http.ResponseWriter, req *http.Request) error {
	id, err := parsePositionID(req)
	if err != nil {
		return restutil.BadRequest(err)
	}
	pos, err := s.engine.GetPosition(id)
	if err != nil {
		if errs.IsState(err) {
			return restutil.HTTPError(err, http.StatusNotFound)
		}
		return convertError(err)
	}
	return restutil.WriteJSON(w, convertPosition(id, pos))
}

func (s *Staking) handleOpenPosition(w http.ResponseWriter, req *http.Request) error {
	caller, err := parseAccount(req)
	if err != nil {
		return restutil.BadRequest(err)
	}
	var body OpenRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	userType, err := parseUserType(body.UserType)
	if err != nil {
		return restutil.BadRequest(err)
	}
	amount, err := parseAmount(body.Amount)
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "amount"))
	}
	token, err := body.Token.toAuth()
	if err != nil {
		return restutil.BadRequest(err)
	}
	id, err := s.engine.OpenPosition(caller, userType, body.Duration, amount, body.UseLocking, token, requestTime(body.Now))
	if err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"id": uint64(id)})
}

func (s *Staking) handleRequestClose(w http.ResponseWriter, req *http.Request) error {
	caller, err := parseAccount(req)
	if err != nil {
		return restutil.BadRequest(err)
	}
	id, err := parsePositionID(req)
	if err != nil {
		return restutil.BadRequest(err)
	}
	var body CloseRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	token, err := body.Token.toAuth()
	if err != nil {
		return restutil.BadRequest(err)
	}
	if err := s.engine.RequestClose(caller, id, token, requestTime(body.Now)); err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"closed": true})
}

func (s *Staking) handleSettlePrincipal(w http.ResponseWriter, req *http.Request) error {
	caller, err := parseAccount(req)
	if err != nil {
		return restutil.BadRequest(err)
	}
	id, err := parsePositionID(req)
	if err != nil {
		return restutil.BadRequest(err)
	}
	var body SettlePrincipalRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	token, err := body.Token.toAuth()
	if err != nil {
		return restutil.BadRequest(err)
	}
	if err := s.engine.SettlePrincipal(caller, id, token, requestTime(body.Now)); err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"settled": true})
}

func (s *Staking) handleSettleInterest(w http.ResponseWriter, req *http.Request) error {
	caller, err := parseAccount(req)
	if err != nil {
		return restutil.BadRequest(err)
	}
	id, err := parsePositionID(req)
	if err != nil {
		return restutil.BadRequest(err)
	}
	var body SettleInterestRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	amounts := make([]*big.Int, len(body.Amounts))
	for i, a := range body.Amounts {
		if amounts[i], err = parseAmount(a); err != nil {
			return restutil.BadRequest(errors.WithMessage(err, "amounts"))
		}
	}
	token, err := body.Token.toAuth()
	if err != nil {
		return restutil.BadRequest(err)
	}
	if err := s.engine.SettleInterest(caller, id, body.Months, amounts, token, requestTime(body.Now)); err != nil {
		return convertError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"settled": true})
}

// Mount attaches the staking endpoints under the given path prefix.
func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/accounts/{address}/summary").
		Methods(http.MethodGet).
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetUserSummary))
	sub.Path("/periods").
		Methods(http.MethodGet).
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetPeriods))
	sub.Path("/pool").
		Methods(http.MethodGet).
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetPoolMetrics))
	sub.Path("/positions/{id}").
		Methods(http.MethodGet).
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetPosition))
	sub.Path("/accounts/{address}/positions").
		Methods(http.MethodPost).
		HandlerFunc(restutil.WrapHandlerFunc(s.handleOpenPosition))
	sub.Path("/accounts/{address}/positions/{id}/close").
		Methods(http.MethodPost).
		HandlerFunc(restutil.WrapHandlerFunc(s.handleRequestClose))
	sub.Path("/accounts/{address}/positions/{id}/settle").
		Methods(http.MethodPost).
		HandlerFunc(restutil.WrapHandlerFunc(s.handleSettlePrincipal))
	sub.Path("/accounts/{address}/positions/{id}/interest").
		Methods(http.MethodPost).
		HandlerFunc(restutil.WrapHandlerFunc(s.handleSettleInterest))
}
