// Copyright (C) 2025 The go-poolvote Authors
// This file is part of go-poolvote
//
// go-poolvote is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-poolvote is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-poolvote.  If not, see <https://www.gnu.org/licenses/>.

package bridge

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/poolvote/go-poolvote/logging"
)

// loggerMiddleware provides some extra state to the logger middleware
type loggerMiddleware struct {
	log logging.Logger
}

// makeLogger initializes the logger middleware function
func makeLogger(log logging.Logger) echo.MiddlewareFunc {
	logger := loggerMiddleware{
		log: log,
	}
	return logger.handler
}

func (logger *loggerMiddleware) handler(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) (err error) {
		start := time.Now()

		res := ctx.Response()
		req := ctx.Request()

		// Propagate the error if the next middleware has a problem
		if err = next(ctx); err != nil {
			ctx.Error(err)
		}

		logger.log.Infof("%s \"%s %s %s\" %d %s \"%s\" %s",
			req.RemoteAddr,
			req.Method,
			req.URL.Path,
			req.Proto,
			res.Status,
			strconv.FormatInt(res.Size, 10),
			req.UserAgent(),
			time.Since(start),
		)
		return
	}
}

// makeAuth checks the bridge token in constant time. Routes named in
// noAuthRoutes are served without a token.
func makeAuth(apiToken string, noAuthRoutes ...string) echo.MiddlewareFunc {
	apiTokenBytes := []byte(apiToken)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			for _, path := range noAuthRoutes {
				if ctx.Path() == path {
					return next(ctx)
				}
			}

			providedToken := []byte(req.Header.Get(TokenHeader))
			if len(providedToken) == 0 {
				// Accept tokens provided in a bearer token format.
				authentication := strings.SplitN(req.Header.Get("Authorization"), " ", 2)
				if len(authentication) == 2 && strings.EqualFold("Bearer", authentication[0]) {
					providedToken = []byte(authentication[1])
				}
			}

			if subtle.ConstantTimeCompare(providedToken, apiTokenBytes) == 1 {
				return next(ctx)
			}
			return writeError(ctx, http.StatusUnauthorized, "invalid api token")
		}
	}
}
