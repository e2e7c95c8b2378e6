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
	"github.com/poolvote/go-poolvote/chaindb/models"
)

// LovelacePerAda converts on-chain amounts into whole ada
const LovelacePerAda = 1_000_000

// EpochDelegation is one entry of a gap-filled delegation series. Amount is nil
// for an epoch with no delegation record, which is not the same as a recorded zero.
type EpochDelegation struct {
	Epoch  int64
	Amount *float64
}

// BuildEpochSeries lays records out over the takenEpochsQuantity epochs ending at
// lastTakenEpoch, in ascending order. The first record matching an epoch supplies its
// amount.
func BuildEpochSeries(records []models.PoolDelegation, lastTakenEpoch int64, takenEpochsQuantity int) []EpochDelegation {
	if takenEpochsQuantity <= 0 {
		return []EpochDelegation{}
	}
	series := make([]EpochDelegation, 0, takenEpochsQuantity)
	first := lastTakenEpoch - int64(takenEpochsQuantity) + 1
	for epoch := first; epoch <= lastTakenEpoch; epoch++ {
		entry := EpochDelegation{Epoch: epoch}
		for i := range records {
			if records[i].EpochNo == epoch {
				amount := records[i].Amount
				entry.Amount = &amount
				break
			}
		}
		series = append(series, entry)
	}
	return series
}

// VotingPower is the total delegated amount in whole ada
func VotingPower(records []models.PoolDelegation) float64 {
	var total float64
	for _, r := range records {
		total += r.Amount
	}
	return total / LovelacePerAda
}
