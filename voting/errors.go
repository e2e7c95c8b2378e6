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

package voting

import (
	"github.com/poolvote/go-poolvote/serr"
)

// Error kinds reported by a voting session
const (
	KindNoCardanoWallets       serr.Kind = "NoCardanoWallets"
	KindNoCompatibleWallets    serr.Kind = "NoCompatibleWallets"
	KindNoConnectedWallet      serr.Kind = "NoConnectedWallet"
	KindMissingStakeAddress    serr.Kind = "MissingStakeAddress"
	KindMissingPoolID          serr.Kind = "MissingPoolId"
	KindNoUsedAddresses        serr.Kind = "NoUsedAddresses"
	KindStakeAddressMismatch   serr.Kind = "StakeAddressMismatch"
	KindPoolAddressMismatch    serr.Kind = "PoolAddressMismatch"
	KindCurrentEpochHasChanged serr.Kind = "CurrentEpochHasChanged"
	KindNoVotesGiven           serr.Kind = "NoVotesGiven"
	KindVotingPowerExcess      serr.Kind = "VotingPowerExcess"
)

var (
	// ErrNoCardanoWallets is returned when the session has no wallet registry at all
	ErrNoCardanoWallets = serr.New(KindNoCardanoWallets, serr.Environment, "no cardano wallets found in the wallet registry")

	// ErrNoCompatibleWallets is returned when none of the installed wallets is supported
	ErrNoCompatibleWallets = serr.New(KindNoCompatibleWallets, serr.Environment, "no compatible wallets found")

	// ErrNoConnectedWallet is returned by wallet operations invoked before EnableWallet
	ErrNoConnectedWallet = serr.New(KindNoConnectedWallet, serr.StatePrecondition, "the wallet was not connected")

	// ErrMissingStakeAddress is returned when the stake address has not been resolved yet
	ErrMissingStakeAddress = serr.New(KindMissingStakeAddress, serr.StatePrecondition, "missed stake address")

	// ErrMissingPoolID is returned when the pool id has not been resolved yet
	ErrMissingPoolID = serr.New(KindMissingPoolID, serr.StatePrecondition, "missed pool id")

	ErrNoUsedAddresses        = serr.New(KindNoUsedAddresses, serr.ValidationOutcome, "no used addresses in wallet")
	ErrStakeAddressMismatch   = serr.New(KindStakeAddressMismatch, serr.ValidationOutcome, "stake address mismatch")
	ErrPoolAddressMismatch    = serr.New(KindPoolAddressMismatch, serr.ValidationOutcome, "pool address mismatch")
	ErrCurrentEpochHasChanged = serr.New(KindCurrentEpochHasChanged, serr.ValidationOutcome, "current epoch has changed")
	ErrNoVotesGiven           = serr.New(KindNoVotesGiven, serr.ValidationOutcome, "no votes given")
	ErrVotingPowerExcess      = serr.New(KindVotingPowerExcess, serr.ValidationOutcome, "voting power excess")
)
