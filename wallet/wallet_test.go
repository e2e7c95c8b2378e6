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

package wallet_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/poolvote/go-poolvote/logging"
	"github.com/poolvote/go-poolvote/serr"
	"github.com/poolvote/go-poolvote/test/partitiontest"
	"github.com/poolvote/go-poolvote/wallet"
	"github.com/poolvote/go-poolvote/wallet/wallettest"
)

func TestUnavailableWallet(t *testing.T) {
	partitiontest.PartitionTest(t)

	ctx := context.Background()
	w := wallet.MakeWallet("nami", wallet.MakeMapRegistry(wallettest.NewFakeExtension("eternl", 1, "a")), logging.TestingLog(t))
	_, err := w.NetworkID(ctx)
	require.ErrorIs(t, err, wallet.ErrUnavailableWallet)
	require.Equal(t, `wallet "nami" is unavailable`, err.Error())
	require.Equal(t, serr.Environment, serr.CategoryOf(err))
	require.False(t, w.Connected())

	_, err = w.Icon()
	require.ErrorIs(t, err, wallet.ErrUnavailableWallet)

	// no registry at all
	w = wallet.MakeWallet("nami", nil, nil)
	_, err = w.UsedAddresses(ctx)
	require.ErrorIs(t, err, wallet.ErrUnavailableWallet)
}

func TestLazyConnectionIsReused(t *testing.T) {
	partitiontest.PartitionTest(t)

	ctx := context.Background()
	ext := wallettest.NewFakeExtension("nami", 1, "addr-cbor-1")
	w := wallet.MakeWallet("nami", wallet.MakeMapRegistry(ext), logging.TestingLog(t))
	require.Equal(t, "nami", w.Name())
	require.False(t, w.Connected())
	require.Equal(t, 0, ext.EnableCalls)

	id, err := w.NetworkID(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, id)
	require.True(t, w.Connected())

	addrs, err := w.UsedAddresses(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"addr-cbor-1"}, addrs)
	require.Equal(t, 1, ext.EnableCalls)

	icon, err := w.Icon()
	require.NoError(t, err)
	require.Equal(t, ext.IconData, icon)
}

func TestConnectionError(t *testing.T) {
	partitiontest.PartitionTest(t)

	ctx := context.Background()
	ext := wallettest.NewFakeExtension("nami", 1, "addr-cbor-1")
	ext.EnableErr = wallettest.ErrUserDeclined
	w := wallet.MakeWallet("nami", wallet.MakeMapRegistry(ext), logging.TestingLog(t))

	_, err := w.NetworkID(ctx)
	require.ErrorIs(t, err, wallet.ErrWalletConnection)
	require.ErrorIs(t, err, wallettest.ErrUserDeclined)
	require.Equal(t, "nami", serr.Attributes(err)["wallet"])
	require.Equal(t, "user declined", serr.Attributes(err)["reason"])
	require.False(t, w.Connected())

	// a later attempt retries the authorization flow
	ext.EnableErr = nil
	_, err = w.NetworkID(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, ext.EnableCalls)
}

func TestSignData(t *testing.T) {
	partitiontest.PartitionTest(t)

	ctx := context.Background()
	ext := wallettest.NewFakeExtension("nami", 1, "addr-cbor-1")
	w := wallet.MakeWallet("nami", wallet.MakeMapRegistry(ext), logging.TestingLog(t))

	res, err := w.SignData(ctx, "addr-cbor-1", "766f7465")
	require.NoError(t, err)
	require.Equal(t, wallet.SignResult{Success: true, SignedData: "766f7465"}, res)
	require.Equal(t, []wallettest.SignCall{{Address: "addr-cbor-1", HexPayload: "766f7465"}}, ext.SignCalls)

	ext.SignErr = errors.New("proof generation failed")
	_, err = w.SignData(ctx, "addr-cbor-1", "766f7465")
	require.ErrorIs(t, err, wallet.ErrDataSignFailed)
	require.Equal(t, "data sign failed: proof generation failed", err.Error())
}

func TestMapRegistry(t *testing.T) {
	partitiontest.PartitionTest(t)

	reg := wallet.MakeMapRegistry(
		wallettest.NewFakeExtension("nami", 1),
		wallettest.NewFakeExtension("eternl", 1),
	)
	require.Equal(t, []string{"eternl", "nami"}, reg.Wallets())
	_, ok := reg.Lookup("flint")
	require.False(t, ok)
}
