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

// Package wallettest provides in-memory wallet extensions for tests.
package wallettest

import (
	"context"
	"errors"

	"github.com/poolvote/go-poolvote/wallet"
)

// ErrUserDeclined is what a fake extension returns when told to reject a request
var ErrUserDeclined = errors.New("user declined")

// FakeExtension is a scriptable wallet extension. Its fields may be changed between calls
// to simulate a user switching accounts or networks.
type FakeExtension struct {
	WalletName string
	IconData   string
	Enabled    bool

	NetworkID int
	Addresses []string

	// EnableErr, AddressesErr and SignErr are returned by the corresponding operations when set
	EnableErr    error
	AddressesErr error
	SignErr      error

	// SignFunc computes the signature; by default the payload is echoed back
	SignFunc func(addressCbor, hexPayload string) wallet.SignResult

	EnableCalls int
	SignCalls   []SignCall
}

// SignCall records one SignData invocation
type SignCall struct {
	Address    string
	HexPayload string
}

// NewFakeExtension returns an enabled extension reporting a single used address
func NewFakeExtension(name string, networkID int, addresses ...string) *FakeExtension {
	return &FakeExtension{
		WalletName: name,
		IconData:   "data:image/svg+xml;base64,PHN2Zy8+",
		Enabled:    true,
		NetworkID:  networkID,
		Addresses:  addresses,
	}
}

// Name implements wallet.Extension
func (f *FakeExtension) Name() string {
	return f.WalletName
}

// Icon implements wallet.Extension
func (f *FakeExtension) Icon() string {
	return f.IconData
}

// IsEnabled implements wallet.Extension
func (f *FakeExtension) IsEnabled(ctx context.Context) (bool, error) {
	return f.Enabled, nil
}

// Enable implements wallet.Extension
func (f *FakeExtension) Enable(ctx context.Context) (wallet.API, error) {
	f.EnableCalls++
	if f.EnableErr != nil {
		return nil, f.EnableErr
	}
	f.Enabled = true
	return fakeAPI{f}, nil
}

type fakeAPI struct {
	ext *FakeExtension
}

func (a fakeAPI) GetNetworkID(ctx context.Context) (int, error) {
	return a.ext.NetworkID, nil
}

func (a fakeAPI) GetUsedAddresses(ctx context.Context) ([]string, error) {
	if a.ext.AddressesErr != nil {
		return nil, a.ext.AddressesErr
	}
	out := make([]string, len(a.ext.Addresses))
	copy(out, a.ext.Addresses)
	return out, nil
}

func (a fakeAPI) SignData(ctx context.Context, addressCbor, hexPayload string) (wallet.SignResult, error) {
	a.ext.SignCalls = append(a.ext.SignCalls, SignCall{Address: addressCbor, HexPayload: hexPayload})
	if a.ext.SignErr != nil {
		return wallet.SignResult{}, a.ext.SignErr
	}
	if a.ext.SignFunc != nil {
		return a.ext.SignFunc(addressCbor, hexPayload), nil
	}
	return wallet.SignResult{Success: true, SignedData: hexPayload}, nil
}
