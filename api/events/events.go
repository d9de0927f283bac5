// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events exposes the recorded lifecycle transitions over HTTP.
package events

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/tierlock/tierlock/api/restutil"
	"github.com/tierlock/tierlock/eventdb"
	"github.com/tierlock/tierlock/tierlock"
)

const defaultLimit = 1000

type Events struct {
	db *eventdb.EventDB
}

func New(db *eventdb.EventDB) *Events {
	return &Events{db}
}

// Event is the JSON view of one recorded transition.
type Event struct {
	Seq      uint64 `json:"seq"`
	Op       string `json:"op"`
	Account  string `json:"account"`
	Position uint64 `json:"position"`
	Amount   string `json:"amount"`
	Ts       uint64 `json:"ts"`
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter := eventdb.Filter{Limit: defaultLimit}
	query := req.URL.Query()

	if s := query.Get("account"); s != "" {
		addr, err := tierlock.ParseAddress(s)
		if err != nil {
			return restutil.BadRequest(errors.WithMessage(err, "account"))
		}
		filter.Account = addr
	}
	if s := query.Get("position"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return restutil.BadRequest(errors.WithMessage(err, "position"))
		}
		filter.Position = id
	}
	filter.Op = query.Get("op")
	if s := query.Get("limit"); s != "" {
		limit, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return restutil.BadRequest(errors.WithMessage(err, "limit"))
		}
		filter.Limit = limit
	}

	list, err := e.db.Filter(req.Context(), &filter)
	if err != nil {
		return err
	}
	out := make([]*Event, 0, len(list))
	for _, ev := range list {
		out = append(out, &Event{
			Seq:      ev.Seq,
			Op:       ev.Op,
			Account:  ev.Account.String(),
			Position: ev.Position,
			Amount:   ev.Amount.String(),
			Ts:       ev.Ts,
		})
	}
	return restutil.WriteJSON(w, out)
}

// Mount attaches the event endpoints under the given path prefix.
func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		HandlerFunc(restutil.WrapHandlerFunc(e.handleFilter))
}
