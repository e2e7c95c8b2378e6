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

package chaindb

import (
	"github.com/poolvote/go-poolvote/serr"
)

// Error kinds reported by the chain index client
const (
	KindMissingNetworkID          serr.Kind = "MissingNetworkId"
	KindUnknownNetworkID          serr.Kind = "UnknownNetworkId"
	KindStakeAddressEmptyResponse serr.Kind = "StakeAddressEmptyResponse"
	KindCurrentEpochEmptyResponse serr.Kind = "CurrentEpochEmptyResponse"
	KindPoolIDEmptyResponse       serr.Kind = "PoolIdEmptyResponse"
)

var (
	// ErrMissingNetworkID is returned when neither an override nor a recorded network id is available
	ErrMissingNetworkID = serr.New(KindMissingNetworkID, serr.Configuration, "missed network id")

	// ErrUnknownNetworkID is returned for a network id that has no api url. Use UnknownNetworkIDError
	// to build one carrying the offending id.
	ErrUnknownNetworkID = serr.New(KindUnknownNetworkID, serr.Configuration, "unknown network id")

	// ErrStakeAddressEmptyResponse is returned when no stake address owns the queried address
	ErrStakeAddressEmptyResponse = serr.New(KindStakeAddressEmptyResponse, serr.ValidationOutcome, "getting stake address returned empty response")

	// ErrCurrentEpochEmptyResponse is returned when the index has no epochs
	ErrCurrentEpochEmptyResponse = serr.New(KindCurrentEpochEmptyResponse, serr.ValidationOutcome, "getting current epoch returned empty response")

	// ErrPoolIDEmptyResponse is returned when the pool bech32 id is not known to the index
	ErrPoolIDEmptyResponse = serr.New(KindPoolIDEmptyResponse, serr.ValidationOutcome, "getting pool id returned empty response")
)

// UnknownNetworkIDError reports a network id that has no configured api url
func UnknownNetworkIDError(networkID int) error {
	return ErrUnknownNetworkID.Errorf("unknown network id \"%d\"", networkID).With("network", networkID)
}
