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

// Package wallet adapts a single CIP-30 style wallet extension. The session with the
// extension is established lazily on first use and reused afterwards.
package wallet

import (
	"context"

	"github.com/poolvote/go-poolvote/logging"
)

// Wallet wraps one named wallet of a Registry
type Wallet struct {
	name     string
	registry Registry
	api      API
	log      logging.Logger
}

// MakeWallet returns an adapter for the named wallet. No session is established until the
// first privileged operation.
func MakeWallet(name string, registry Registry, log logging.Logger) *Wallet {
	if log == nil {
		log = logging.Base()
	}
	return &Wallet{
		name:     name,
		registry: registry,
		log:      log.With("wallet", name),
	}
}

// Name returns the wallet's registry name
func (w *Wallet) Name() string {
	return w.name
}

// Connected reports whether a session has been established
func (w *Wallet) Connected() bool {
	return w.api != nil
}

func (w *Wallet) extension() (Extension, error) {
	if w.registry == nil {
		return nil, UnavailableWalletError(w.name)
	}
	ext, ok := w.registry.Lookup(w.name)
	if !ok || ext == nil {
		return nil, UnavailableWalletError(w.name)
	}
	return ext, nil
}

// Icon returns the wallet's icon (usually a data url)
func (w *Wallet) Icon() (string, error) {
	ext, err := w.extension()
	if err != nil {
		return "", err
	}
	return ext.Icon(), nil
}

// ensureConnected establishes the session on first use and returns the cached one afterwards.
func (w *Wallet) ensureConnected(ctx context.Context) (API, error) {
	if w.api != nil {
		return w.api, nil
	}
	ext, err := w.extension()
	if err != nil {
		return nil, err
	}
	api, err := ext.Enable(ctx)
	if err != nil {
		w.log.Infof("enable failed: %v", err)
		return nil, ConnectionError(err, w.name)
	}
	if api == nil {
		return nil, ConnectionError(nil, w.name)
	}
	w.log.Debug("wallet session established")
	w.api = api
	return api, nil
}

// NetworkID returns the network the wallet is connected to
func (w *Wallet) NetworkID(ctx context.Context) (int, error) {
	api, err := w.ensureConnected(ctx)
	if err != nil {
		return 0, err
	}
	return api.GetNetworkID(ctx)
}

// UsedAddresses returns the wallet's used addresses in its native encoding
func (w *Wallet) UsedAddresses(ctx context.Context) ([]string, error) {
	api, err := w.ensureConnected(ctx)
	if err != nil {
		return nil, err
	}
	return api.GetUsedAddresses(ctx)
}

// SignData asks the wallet to sign hexPayload with the key of addressCbor
func (w *Wallet) SignData(ctx context.Context, addressCbor, hexPayload string) (SignResult, error) {
	api, err := w.ensureConnected(ctx)
	if err != nil {
		return SignResult{}, err
	}
	res, err := api.SignData(ctx, addressCbor, hexPayload)
	if err != nil {
		return SignResult{}, DataSignFailedError(err)
	}
	return res, nil
}
