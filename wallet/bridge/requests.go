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
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/poolvote/go-poolvote/wallet"
)

// TokenHeader carries the bridge api token
const TokenHeader = "X-Wallet-Bridge-Token"

// Request is implemented by every bridge request type
type Request interface {
	bridgeRequest()
}

// Response is implemented by every bridge response type
type Response interface {
	GetError() error
}

// ResponseEnvelope is a common envelope that all bridge responses must embed
type ResponseEnvelope struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// GetError allows responses that embed a ResponseEnvelope to satisfy the Response interface
func (r ResponseEnvelope) GetError() error {
	if r.Error {
		return errors.New(r.Message)
	}
	return nil
}

// WalletInfo describes one installed wallet
type WalletInfo struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// ListWalletsRequest is the request for `GET /v1/wallets`
type ListWalletsRequest struct{}

// ListWalletsResponse is the response to `GET /v1/wallets`
type ListWalletsResponse struct {
	ResponseEnvelope
	Wallets []WalletInfo `json:"wallets"`
}

// WalletEnabledRequest is the request for `GET /v1/wallet/{name}/enabled`
type WalletEnabledRequest struct {
	Wallet string `json:"-"`
}

// WalletEnabledResponse is the response to `GET /v1/wallet/{name}/enabled`
type WalletEnabledResponse struct {
	ResponseEnvelope
	Enabled bool `json:"enabled"`
}

// EnableWalletRequest is the request for `POST /v1/wallet/{name}/enable`
type EnableWalletRequest struct {
	Wallet string `json:"-"`
}

// EnableWalletResponse is the response to `POST /v1/wallet/{name}/enable`
type EnableWalletResponse struct {
	ResponseEnvelope
	SessionHandle string `json:"session_handle"`
}

// NetworkIDRequest is the request for `GET /v1/session/{handle}/network-id`
type NetworkIDRequest struct {
	SessionHandle string `json:"-"`
}

// NetworkIDResponse is the response to `GET /v1/session/{handle}/network-id`
type NetworkIDResponse struct {
	ResponseEnvelope
	NetworkID int `json:"network_id"`
}

// UsedAddressesRequest is the request for `GET /v1/session/{handle}/used-addresses`
type UsedAddressesRequest struct {
	SessionHandle string `json:"-"`
}

// UsedAddressesResponse is the response to `GET /v1/session/{handle}/used-addresses`
type UsedAddressesResponse struct {
	ResponseEnvelope
	Addresses []string `json:"addresses"`
}

// SignDataRequest is the request for `POST /v1/session/{handle}/sign-data`
type SignDataRequest struct {
	SessionHandle string `json:"-"`
	Address       string `json:"address"`
	Payload       string `json:"payload"`
}

// SignDataResponse is the response to `POST /v1/session/{handle}/sign-data`
type SignDataResponse struct {
	ResponseEnvelope
	Result wallet.SignResult `json:"result"`
}

func (ListWalletsRequest) bridgeRequest()   {}
func (WalletEnabledRequest) bridgeRequest() {}
func (EnableWalletRequest) bridgeRequest()  {}
func (NetworkIDRequest) bridgeRequest()     {}
func (UsedAddressesRequest) bridgeRequest() {}
func (SignDataRequest) bridgeRequest()      {}

// getPathAndMethod infers the request path and method from the request type
func getPathAndMethod(req Request) (reqPath string, reqMethod string, err error) {
	switch r := req.(type) {
	default:
		err = fmt.Errorf("unknown request type %T", req)
	case ListWalletsRequest:
		reqPath = "v1/wallets"
		reqMethod = http.MethodGet
	case WalletEnabledRequest:
		reqPath = fmt.Sprintf("v1/wallet/%s/enabled", url.PathEscape(r.Wallet))
		reqMethod = http.MethodGet
	case EnableWalletRequest:
		reqPath = fmt.Sprintf("v1/wallet/%s/enable", url.PathEscape(r.Wallet))
		reqMethod = http.MethodPost
	case NetworkIDRequest:
		reqPath = fmt.Sprintf("v1/session/%s/network-id", url.PathEscape(r.SessionHandle))
		reqMethod = http.MethodGet
	case UsedAddressesRequest:
		reqPath = fmt.Sprintf("v1/session/%s/used-addresses", url.PathEscape(r.SessionHandle))
		reqMethod = http.MethodGet
	case SignDataRequest:
		reqPath = fmt.Sprintf("v1/session/%s/sign-data", url.PathEscape(r.SessionHandle))
		reqMethod = http.MethodPost
	}
	return
}
