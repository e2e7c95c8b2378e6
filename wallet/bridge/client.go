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
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/poolvote/go-poolvote/protocol"
	"github.com/poolvote/go-poolvote/wallet"
)

const (
	timeoutSecs = 60

	maxResponseBytes = 1 << 20
)

// Client talks to a wallet bridge over http
type Client struct {
	httpClient http.Client
	apiToken   string
	address    string
}

func makeHTTPClient() http.Client {
	return http.Client{
		Timeout: timeoutSecs * time.Second,
	}
}

// MakeClient instantiates a Client for the given bridge address and apiToken.
// The address may be given as host:port or as a full http(s) url.
func MakeClient(address string, apiToken string) (Client, error) {
	if address == "" {
		return Client{}, fmt.Errorf("empty bridge address")
	}
	if !strings.HasPrefix(address, "http://") && !strings.HasPrefix(address, "https://") {
		address = "http://" + address
	}
	return Client{
		httpClient: makeHTTPClient(),
		apiToken:   apiToken,
		address:    strings.TrimRight(address, "/"),
	}, nil
}

// SetTimeout overrides the per-request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// DoV1Request sends req to the bridge and decodes the reply into resp
func (c Client) DoV1Request(ctx context.Context, req Request, resp Response) error {
	reqPath, reqMethod, err := getPathAndMethod(req)
	if err != nil {
		return err
	}

	var body io.Reader
	if reqMethod != http.MethodGet {
		body = bytes.NewReader(protocol.EncodeJSON(req))
	}
	fullPath := fmt.Sprintf("%s/%s", c.address, reqPath)
	hreq, err := http.NewRequestWithContext(ctx, reqMethod, fullPath, body)
	if err != nil {
		return err
	}
	hreq.Header.Add(TokenHeader, c.apiToken)
	if body != nil {
		hreq.Header.Set("Content-Type", "application/json")
	}

	hresp, err := c.httpClient.Do(hreq)
	if err != nil {
		return err
	}
	defer hresp.Body.Close()

	// Error replies carry the envelope too, so decode first and only fall
	// back to the status line when the body is not an envelope.
	decoder := protocol.NewJSONRowsDecoder(io.LimitReader(hresp.Body, maxResponseBytes))
	err = decoder.Decode(resp)
	if err != nil {
		if hresp.StatusCode >= 400 {
			return fmt.Errorf("bridge %s %s: %s", reqMethod, reqPath, hresp.Status)
		}
		return fmt.Errorf("bridge %s %s: %w", reqMethod, reqPath, err)
	}
	return resp.GetError()
}

// ListWallets returns the wallets installed behind the bridge
func (c Client) ListWallets(ctx context.Context) ([]WalletInfo, error) {
	var resp ListWalletsResponse
	err := c.DoV1Request(ctx, ListWalletsRequest{}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Wallets, nil
}

// LoadRegistry fetches the wallet list once and returns a registry whose
// extensions forward every call to the bridge.
func (c Client) LoadRegistry(ctx context.Context) (wallet.MapRegistry, error) {
	infos, err := c.ListWallets(ctx)
	if err != nil {
		return nil, err
	}
	exts := make([]wallet.Extension, 0, len(infos))
	for _, info := range infos {
		exts = append(exts, &remoteExtension{client: c, info: info})
	}
	return wallet.MakeMapRegistry(exts...), nil
}

type remoteExtension struct {
	client Client
	info   WalletInfo
}

func (e *remoteExtension) Name() string {
	return e.info.Name
}

func (e *remoteExtension) Icon() string {
	return e.info.Icon
}

func (e *remoteExtension) IsEnabled(ctx context.Context) (bool, error) {
	var resp WalletEnabledResponse
	err := e.client.DoV1Request(ctx, WalletEnabledRequest{Wallet: e.info.Name}, &resp)
	if err != nil {
		return false, err
	}
	return resp.Enabled, nil
}

func (e *remoteExtension) Enable(ctx context.Context) (wallet.API, error) {
	var resp EnableWalletResponse
	err := e.client.DoV1Request(ctx, EnableWalletRequest{Wallet: e.info.Name}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.SessionHandle == "" {
		return nil, fmt.Errorf("bridge returned an empty session handle for %s", e.info.Name)
	}
	return &remoteAPI{client: e.client, handle: resp.SessionHandle}, nil
}

type remoteAPI struct {
	client Client
	handle string
}

func (a *remoteAPI) GetNetworkID(ctx context.Context) (int, error) {
	var resp NetworkIDResponse
	err := a.client.DoV1Request(ctx, NetworkIDRequest{SessionHandle: a.handle}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.NetworkID, nil
}

func (a *remoteAPI) GetUsedAddresses(ctx context.Context) ([]string, error) {
	var resp UsedAddressesResponse
	err := a.client.DoV1Request(ctx, UsedAddressesRequest{SessionHandle: a.handle}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Addresses == nil {
		return []string{}, nil
	}
	return resp.Addresses, nil
}

func (a *remoteAPI) SignData(ctx context.Context, address string, hexPayload string) (wallet.SignResult, error) {
	var resp SignDataResponse
	req := SignDataRequest{SessionHandle: a.handle, Address: address, Payload: hexPayload}
	err := a.client.DoV1Request(ctx, req, &resp)
	if err != nil {
		return wallet.SignResult{}, err
	}
	return resp.Result, nil
}
