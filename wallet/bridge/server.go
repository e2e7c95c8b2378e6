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

// Package bridge carries browser wallets over HTTP. The Client side turns a
// remote bridge into a wallet.Registry for sessions that run outside a browser.
// Server is the reference implementation of that bridge for embedders that host
// the wallets themselves (a browser extension host or a desktop shell): they
// supply a wallet.Registry and mount Handler or call Start. The poolvote command
// only ever talks to a bridge as a Client.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/algorand/go-deadlock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/poolvote/go-poolvote/logging"
	"github.com/poolvote/go-poolvote/protocol"
	"github.com/poolvote/go-poolvote/wallet"
)

const (
	healthPath      = "/health"
	maxRequestBytes = 64 * 1024
)

// Route describes one bridge endpoint
type Route struct {
	Name        string
	Method      string
	Path        string
	HandlerFunc func(s *Server, ctx echo.Context) error
}

// Routes is the table of bridge endpoints
var Routes = []Route{
	{Name: "healthcheck", Method: http.MethodGet, Path: healthPath, HandlerFunc: (*Server).health},
	{Name: "wallets", Method: http.MethodGet, Path: "/v1/wallets", HandlerFunc: (*Server).listWallets},
	{Name: "wallet-enabled", Method: http.MethodGet, Path: "/v1/wallet/:name/enabled", HandlerFunc: (*Server).walletEnabled},
	{Name: "wallet-enable", Method: http.MethodPost, Path: "/v1/wallet/:name/enable", HandlerFunc: (*Server).enableWallet},
	{Name: "network-id", Method: http.MethodGet, Path: "/v1/session/:handle/network-id", HandlerFunc: (*Server).networkID},
	{Name: "used-addresses", Method: http.MethodGet, Path: "/v1/session/:handle/used-addresses", HandlerFunc: (*Server).usedAddresses},
	{Name: "sign-data", Method: http.MethodPost, Path: "/v1/session/:handle/sign-data", HandlerFunc: (*Server).signData},
}

// Server exposes a wallet.Registry over http. Each successful enable call
// opens a session addressed by an opaque handle.
type Server struct {
	registry wallet.Registry
	log      logging.Logger
	e        *echo.Echo

	mu       deadlock.Mutex
	sessions map[string]wallet.API
}

// MakeServer builds a bridge server for registry guarded by apiToken
func MakeServer(registry wallet.Registry, apiToken string, log logging.Logger) (*Server, error) {
	if registry == nil {
		return nil, errors.New("nil wallet registry")
	}
	if apiToken == "" {
		return nil, errors.New("empty bridge api token")
	}
	if log == nil {
		log = logging.Base()
	}
	s := &Server{
		registry: registry,
		log:      log,
		sessions: make(map[string]wallet.API),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(makeLogger(log))
	e.Use(makeAuth(apiToken, healthPath))
	for _, route := range Routes {
		route := route
		r := e.Add(route.Method, route.Path, func(ctx echo.Context) error {
			return route.HandlerFunc(s, ctx)
		})
		r.Name = route.Name
	}
	s.e = e
	return s, nil
}

// Handler returns the http handler serving the bridge api
func (s *Server) Handler() http.Handler {
	return s.e
}

// Start listens on address until Shutdown is called
func (s *Server) Start(address string) error {
	err := s.e.Start(address)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the listener and drops every open session
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.sessions = make(map[string]wallet.API)
	s.mu.Unlock()
	return s.e.Shutdown(ctx)
}

// SessionCount returns the number of open sessions
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) openSession(api wallet.API) string {
	handle := uuid.NewString()
	s.mu.Lock()
	s.sessions[handle] = api
	s.mu.Unlock()
	return handle
}

func (s *Server) session(ctx echo.Context) (wallet.API, error) {
	handle := ctx.Param("handle")
	s.mu.Lock()
	api, ok := s.sessions[handle]
	s.mu.Unlock()
	if !ok {
		return nil, writeError(ctx, http.StatusNotFound, fmt.Sprintf("unknown session %q", handle))
	}
	return api, nil
}

func (s *Server) extension(ctx echo.Context) (wallet.Extension, error) {
	name := ctx.Param("name")
	ext, ok := s.registry.Lookup(name)
	if !ok {
		return nil, writeError(ctx, http.StatusNotFound, fmt.Sprintf("unknown wallet %q", name))
	}
	return ext, nil
}

func writeResponse(ctx echo.Context, status int, resp Response) error {
	return ctx.Blob(status, echo.MIMEApplicationJSONCharsetUTF8, protocol.EncodeJSON(resp))
}

func writeError(ctx echo.Context, status int, message string) error {
	return writeResponse(ctx, status, ResponseEnvelope{Error: true, Message: message})
}

func (s *Server) health(ctx echo.Context) error {
	return writeResponse(ctx, http.StatusOK, ResponseEnvelope{})
}

func (s *Server) listWallets(ctx echo.Context) error {
	names := s.registry.Wallets()
	resp := ListWalletsResponse{Wallets: make([]WalletInfo, 0, len(names))}
	for _, name := range names {
		ext, ok := s.registry.Lookup(name)
		if !ok {
			continue
		}
		resp.Wallets = append(resp.Wallets, WalletInfo{Name: name, Icon: ext.Icon()})
	}
	return writeResponse(ctx, http.StatusOK, resp)
}

func (s *Server) walletEnabled(ctx echo.Context) error {
	ext, err := s.extension(ctx)
	if ext == nil {
		return err
	}
	enabled, err := ext.IsEnabled(ctx.Request().Context())
	if err != nil {
		return writeError(ctx, http.StatusBadGateway, err.Error())
	}
	return writeResponse(ctx, http.StatusOK, WalletEnabledResponse{Enabled: enabled})
}

func (s *Server) enableWallet(ctx echo.Context) error {
	ext, err := s.extension(ctx)
	if ext == nil {
		return err
	}
	api, err := ext.Enable(ctx.Request().Context())
	if err != nil {
		s.log.Warnf("enable %s failed: %v", ext.Name(), err)
		return writeError(ctx, http.StatusBadGateway, err.Error())
	}
	handle := s.openSession(api)
	s.log.Debugf("opened session for %s", ext.Name())
	return writeResponse(ctx, http.StatusOK, EnableWalletResponse{SessionHandle: handle})
}

func (s *Server) networkID(ctx echo.Context) error {
	api, err := s.session(ctx)
	if api == nil {
		return err
	}
	id, err := api.GetNetworkID(ctx.Request().Context())
	if err != nil {
		return writeError(ctx, http.StatusBadGateway, err.Error())
	}
	return writeResponse(ctx, http.StatusOK, NetworkIDResponse{NetworkID: id})
}

func (s *Server) usedAddresses(ctx echo.Context) error {
	api, err := s.session(ctx)
	if api == nil {
		return err
	}
	addresses, err := api.GetUsedAddresses(ctx.Request().Context())
	if err != nil {
		return writeError(ctx, http.StatusBadGateway, err.Error())
	}
	if addresses == nil {
		addresses = []string{}
	}
	return writeResponse(ctx, http.StatusOK, UsedAddressesResponse{Addresses: addresses})
}

func (s *Server) signData(ctx echo.Context) error {
	api, err := s.session(ctx)
	if api == nil {
		return err
	}
	body, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxRequestBytes))
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}
	var req SignDataRequest
	err = protocol.DecodeJSON(body, &req)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, fmt.Sprintf("malformed sign-data request: %v", err))
	}
	res, err := api.SignData(ctx.Request().Context(), req.Address, req.Payload)
	if err != nil {
		return writeError(ctx, http.StatusBadGateway, err.Error())
	}
	return writeResponse(ctx, http.StatusOK, SignDataResponse{Result: res})
}
