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

package main

import (
	"github.com/spf13/cobra"

	"github.com/poolvote/go-poolvote/voting"
)

var (
	poolBech32ID      string
	stakeAddressID    int64
	lastTakenEpoch    int64
	takenEpochsNumber int
)

func init() {
	delegationsCmd.Flags().StringVarP(&poolBech32ID, "pool", "p", "", "Pool bech32 id (defaults to the configured pool)")
	delegationsCmd.Flags().Int64VarP(&stakeAddressID, "stake-id", "s", 0, "Stake address id as returned by stake-address")
	delegationsCmd.Flags().Int64VarP(&lastTakenEpoch, "last", "l", 0, "Last epoch to take into account (defaults to the current epoch)")
	delegationsCmd.Flags().IntVarP(&takenEpochsNumber, "quantity", "q", 10, "Number of epochs to take into account")
	delegationsCmd.MarkFlagRequired("stake-id")
}

var epochCmd = &cobra.Command{
	Use:   "epoch",
	Short: "Print the current epoch of the chain index",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, log := loadConfig()
		ctx, cancel := commandContext()
		defer cancel()

		epoch, err := makeChainClient(cfg, log).CurrentEpoch(ctx)
		if err != nil {
			reportErrorf("Cannot get current epoch: %s", describeError(err))
		}
		reportInfof("%d", epoch)
	},
}

var poolIDCmd = &cobra.Command{
	Use:   "pool-id [bech32]",
	Short: "Resolve a pool bech32 id (or the configured pool) to its numeric id",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, log := loadConfig()
		ctx, cancel := commandContext()
		defer cancel()

		pool := cfg.PoolBech32ID
		if len(args) == 1 {
			pool = args[0]
		}
		if pool == "" {
			reportErrorf("No pool given and none configured")
		}
		id, err := makeChainClient(cfg, log).PoolID(ctx, pool)
		if err != nil {
			reportErrorf("Cannot resolve pool %s: %s", pool, describeError(err))
		}
		reportInfof("%d", id)
	},
}

var stakeAddressCmd = &cobra.Command{
	Use:   "stake-address [address]",
	Short: "Look up the stake address owning a bech32 payment address",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, log := loadConfig()
		ctx, cancel := commandContext()
		defer cancel()

		sa, err := makeChainClient(cfg, log).StakeAddress(ctx, args[0])
		if err != nil {
			reportErrorf("Cannot resolve stake address: %s", describeError(err))
		}
		reportInfof("%d\t%s", sa.ID, sa.View)
	},
}

var delegationsCmd = &cobra.Command{
	Use:   "delegations",
	Short: "Print a stake address's per-epoch delegation to a pool and the resulting voting power",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, log := loadConfig()
		ctx, cancel := commandContext()
		defer cancel()

		client := makeChainClient(cfg, log)
		pool := poolBech32ID
		if pool == "" {
			pool = cfg.PoolBech32ID
		}
		poolID, err := client.PoolID(ctx, pool)
		if err != nil {
			reportErrorf("Cannot resolve pool %s: %s", pool, describeError(err))
		}
		last := lastTakenEpoch
		if last == 0 {
			last, err = client.CurrentEpoch(ctx)
			if err != nil {
				reportErrorf("Cannot get current epoch: %s", describeError(err))
			}
		}

		records, err := client.PoolDelegations(ctx, poolID, stakeAddressID, last, takenEpochsNumber)
		if err != nil {
			reportErrorf("Cannot get delegations: %s", describeError(err))
		}
		for _, entry := range voting.BuildEpochSeries(records, last, takenEpochsNumber) {
			if entry.Amount == nil {
				yellow.Printf("%d\t-\n", entry.Epoch)
				continue
			}
			reportInfof("%d\t%.0f", entry.Epoch, *entry.Amount)
		}
		reportInfof("voting power: %g", voting.VotingPower(records))
	},
}
