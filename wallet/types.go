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

package wallet

import (
	"context"
	"sort"
)

// SignResult is what a wallet returns for a data signing request
type SignResult struct {
	Success    bool   `json:"success"`
	SignedData string `json:"signedData"`
}

// API is an authorized session with a wallet extension (the CIP-30 "enabled" api)
type API interface {
	GetNetworkID(ctx context.Context) (int, error)
	// GetUsedAddresses returns addresses in the wallet's native (CBOR hex) encoding
	GetUsedAddresses(ctx context.Context) ([]string, error)
	SignData(ctx context.Context, addressCbor, hexPayload string) (SignResult, error)
}

// Extension is a single installed wallet as exposed by the host environment
type Extension interface {
	Name() string
	Icon() string
	IsEnabled(ctx context.Context) (bool, error)
	// Enable runs the wallet's authorization flow and returns a session
	Enable(ctx context.Context) (API, error)
}

// Registry is the host environment's table of installed wallets
type Registry interface {
	// Wallets lists the names of the installed wallets
	Wallets() []string
	Lookup(name string) (Extension, bool)
}

// MapRegistry is an in-process Registry keyed by wallet name
type MapRegistry map[string]Extension

// Wallets implements Registry; names are returned sorted.
func (r MapRegistry) Wallets() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup implements Registry
func (r MapRegistry) Lookup(name string) (Extension, bool) {
	ext, ok := r[name]
	return ext, ok
}

// MakeMapRegistry builds a registry from extensions, keyed by their names
func MakeMapRegistry(extensions ...Extension) MapRegistry {
	r := make(MapRegistry, len(extensions))
	for _, ext := range extensions {
		r[ext.Name()] = ext
	}
	return r
}
