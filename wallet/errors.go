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
	"github.com/poolvote/go-poolvote/serr"
)

// Error kinds reported by the wallet adapter
const (
	KindUnavailableWallet     serr.Kind = "UnavailableWallet"
	KindWalletConnectionError serr.Kind = "WalletConnectionError"
	KindDataSignFailed        serr.Kind = "DataSignFailed"
)

var (
	// ErrUnavailableWallet matches errors for wallets missing from the registry
	ErrUnavailableWallet = serr.New(KindUnavailableWallet, serr.Environment, "wallet is unavailable")

	// ErrWalletConnection matches failures of the wallet authorization flow
	ErrWalletConnection = serr.New(KindWalletConnectionError, serr.Environment, "wallet connection failed")

	// ErrDataSignFailed matches failures of the wallet's data signing
	ErrDataSignFailed = serr.New(KindDataSignFailed, serr.Environment, "data sign failed")
)

// UnavailableWalletError reports that the named wallet is not installed
func UnavailableWalletError(name string) error {
	return ErrUnavailableWallet.Errorf("wallet %q is unavailable", name).With("wallet", name)
}

// ConnectionError reports that enabling the named wallet failed
func ConnectionError(cause error, name string) error {
	return ErrWalletConnection.
		Errorf("wallet %q connection failed: %s", name, reason(cause)).
		With("wallet", name, "reason", reason(cause)).
		Wrap(cause)
}

// DataSignFailedError reports that the wallet refused or failed to sign
func DataSignFailedError(cause error) error {
	return ErrDataSignFailed.
		Errorf("data sign failed: %s", reason(cause)).
		With("reason", reason(cause)).
		Wrap(cause)
}

func reason(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
