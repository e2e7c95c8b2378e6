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
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/poolvote/go-poolvote/chaindb/models"
	"github.com/poolvote/go-poolvote/test/partitiontest"
)

func amount(v float64) *float64 {
	return &v
}

func TestBuildEpochSeriesFillsGaps(t *testing.T) {
	partitiontest.PartitionTest(t)

	records := []models.PoolDelegation{
		{EpochNo: 298, Amount: 100},
		{EpochNo: 300, Amount: 50},
	}
	want := []EpochDelegation{
		{Epoch: 298, Amount: amount(100)},
		{Epoch: 299},
		{Epoch: 300, Amount: amount(50)},
	}
	got := BuildEpochSeries(records, 300, 3)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected series (-want +got):\n%s", diff)
	}
	require.Equal(t, 0.00015, VotingPower(records))
}

func TestBuildEpochSeriesEdges(t *testing.T) {
	partitiontest.PartitionTest(t)

	require.Empty(t, BuildEpochSeries(nil, 300, 0))
	require.NotNil(t, BuildEpochSeries(nil, 300, -2))
	require.Empty(t, BuildEpochSeries(nil, 300, -2))

	// a present zero is not a missing epoch
	got := BuildEpochSeries([]models.PoolDelegation{{EpochNo: 5, Amount: 0}}, 5, 2)
	want := []EpochDelegation{{Epoch: 4}, {Epoch: 5, Amount: amount(0)}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected series (-want +got):\n%s", diff)
	}

	// the first matching record wins
	got = BuildEpochSeries([]models.PoolDelegation{{EpochNo: 7, Amount: 1}, {EpochNo: 7, Amount: 2}}, 7, 1)
	require.Len(t, got, 1)
	require.Equal(t, 1.0, *got[0].Amount)

	// records outside the window are ignored
	got = BuildEpochSeries([]models.PoolDelegation{{EpochNo: 1, Amount: 1}, {EpochNo: 9, Amount: 2}}, 8, 3)
	for _, entry := range got {
		require.Nil(t, entry.Amount)
	}
}

func TestVotingPower(t *testing.T) {
	partitiontest.PartitionTest(t)

	require.Zero(t, VotingPower(nil))
	require.Zero(t, VotingPower([]models.PoolDelegation{}))
	require.Equal(t, 1.5, VotingPower([]models.PoolDelegation{{Amount: 1_000_000}, {Amount: 500_000}}))
}

func genRecords(t *rapid.T, last int64, qty int) []models.PoolDelegation {
	lo := last - int64(qty) - 3
	return rapid.SliceOfN(rapid.Custom(func(t *rapid.T) models.PoolDelegation {
		return models.PoolDelegation{
			EpochNo: rapid.Int64Range(lo, last+3).Draw(t, "epoch"),
			Amount:  float64(rapid.Int64Range(0, 45_000_000_000_000_000).Draw(t, "amount")),
		}
	}), 0, 20).Draw(t, "records")
}

func TestBuildEpochSeriesProperties(t *testing.T) {
	partitiontest.PartitionTest(t)

	rapid.Check(t, func(t1 *rapid.T) {
		last := rapid.Int64Range(0, 1_000_000).Draw(t1, "last")
		qty := rapid.IntRange(1, 40).Draw(t1, "qty")
		records := genRecords(t1, last, qty)

		series := BuildEpochSeries(records, last, qty)
		require.Len(t1, series, qty)
		require.Equal(t1, last, series[len(series)-1].Epoch)
		for i, entry := range series {
			if i > 0 {
				require.Equal(t1, series[i-1].Epoch+1, entry.Epoch)
			}
			var match *float64
			for _, r := range records {
				if r.EpochNo == entry.Epoch {
					match = amount(r.Amount)
					break
				}
			}
			if match == nil {
				require.Nil(t1, entry.Amount)
			} else {
				require.NotNil(t1, entry.Amount)
				require.Equal(t1, *match, *entry.Amount)
			}
		}
	})
}

func TestVotingPowerProperties(t *testing.T) {
	partitiontest.PartitionTest(t)

	rapid.Check(t, func(t1 *rapid.T) {
		records := genRecords(t1, 100, 10)
		var sum float64
		for _, r := range records {
			sum += r.Amount
		}
		power := VotingPower(records)
		require.Equal(t1, sum/1_000_000, power)
		require.False(t1, math.IsNaN(power))
		require.GreaterOrEqual(t1, power, 0.0)
	})
}
