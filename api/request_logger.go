// Copyright (c) 2026 The Tierlock developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"

	"github.com/tierlock/tierlock/log"
)

// bodies longer than this are trimmed in the log
const maxLoggedBody = 4096

// RequestLoggerHandler logs every request, with its body, before passing
// it on. The body is replayed so downstream handlers can still read it.
func RequestLoggerHandler(handler http.Handler, logger log.Logger) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			var err error
			if body, err = io.ReadAll(r.Body); err != nil {
				logger.Warn("failed to read request body", "err", err)
				http.Error(w, "bad request body", http.StatusBadRequest)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		logged := body
		if len(logged) > maxLoggedBody {
			logged = logged[:maxLoggedBody]
		}
		logger.Info("api request",
			"method", r.Method,
			"uri", r.URL.String(),
			"remote", r.RemoteAddr,
			"body", string(logged),
		)

		handler.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}
