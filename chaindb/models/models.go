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

// Package models holds the row shapes returned by the PostgREST chain index.
package models

// StakeAddress identifies a voter's delegation identity
type StakeAddress struct {
	ID   int64  `json:"id"`
	View string `json:"view"`
}

// PoolDelegation is the amount (in lovelace) delegated by a stake address to a pool
// during one epoch
type PoolDelegation struct {
	Amount  float64 `json:"amount"`
	EpochNo int64   `json:"epoch_no"`
}

// StakeAddressRow is a tx_out row joined to its stake address
type StakeAddressRow struct {
	StakeAddress *StakeAddress `json:"stake_address"`
}

// EpochRow is a single row of the epoch table
type EpochRow struct {
	No int64 `json:"no"`
}

// PoolHashRow is a single row of the pool_hash table
type PoolHashRow struct {
	ID int64 `json:"id"`
}
