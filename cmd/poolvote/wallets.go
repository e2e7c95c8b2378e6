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
	walletName  string
	voteAmounts []float64
)

func init() {
	validateCmd.Flags().StringVarP(&walletName, "wallet", "w", "", "Name of the bridge wallet to enable")
	validateCmd.Flags().Int64VarP(&lastTakenEpoch, "last", "l", 0, "Last epoch to take into account (defaults to the current epoch)")
	validateCmd.Flags().IntVarP(&takenEpochsNumber, "quantity", "q", 10, "Number of epochs to take into account")
	validateCmd.Flags().Float64SliceVarP(&voteAmounts, "amount", "a", nil, "Vote amount, repeat once per proposal")
	validateCmd.MarkFlagRequired("wallet")
}

// bridgeAddress passes addresses through untouched: the bridge reports bech32
// addresses rather than the wallets' native encoding.
func bridgeAddress(address string) (string, error) {
	return address, nil
}

func makeSession(cfg voting.Options) *voting.Session {
	session, err := voting.NewSession(cfg)
	if err != nil {
		reportErrorf("Cannot create voting session: %v", err)
	}
	return session
}

var walletsCmd = &cobra.Command{
	Use:   "wallets",
	Short: "List the compatible wallets behind the wallet bridge",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, log := loadConfig()
		ctx, cancel := commandContext()
		defer cancel()

		session := makeSession(voting.Options{
			PoolBech32ID:      cfg.PoolBech32ID,
			AddressToBech32:   bridgeAddress,
			CompatibleWallets: cfg.CompatibleWallets,
			Registry:          loadBridgeRegistry(ctx, cfg),
			APIURLs:           cfg.APIURLs,
			Log:               log,
		})
		available, err := session.AvailableWallets()
		if err != nil {
			reportErrorf("%s", describeError(err))
		}
		enabled, err := session.DetectEnabledWallets(ctx)
		if err != nil {
			reportErrorf("%s", describeError(err))
		}
		isEnabled := make(map[string]bool, len(enabled))
		for _, name := range enabled {
			isEnabled[name] = true
		}
		for _, name := range available {
			if isEnabled[name] {
				green.Printf("%s\tenabled\n", name)
			} else {
				reportInfof("%s", name)
			}
		}
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Enable a bridge wallet and check a ballot against its current voting power",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, log := loadConfig()
		if err := cfg.ValidateForVoting(); err != nil {
			reportErrorf("%s", describeError(err))
		}
		ctx, cancel := commandContext()
		defer cancel()

		client := makeChainClient(cfg, log)
		session := makeSession(voting.Options{
			PoolBech32ID:      cfg.PoolBech32ID,
			AddressToBech32:   bridgeAddress,
			CompatibleWallets: cfg.CompatibleWallets,
			Registry:          loadBridgeRegistry(ctx, cfg),
			Client:            &client,
			Log:               log,
		})
		err := session.EnableWallet(ctx, walletName)
		if err != nil {
			reportErrorf("Cannot enable wallet %s: %s", walletName, describeError(err))
		}
		stakeAddress, _ := session.StakeAddress()

		last := lastTakenEpoch
		if last == 0 {
			last, _ = session.CurrentEpoch()
		}
		series, err := session.EpochSeries(ctx, last, takenEpochsNumber)
		if err != nil {
			reportErrorf("Cannot get delegations: %s", describeError(err))
		}
		for _, entry := range series {
			if entry.Amount == nil {
				yellow.Printf("%d\t-\n", entry.Epoch)
				continue
			}
			reportInfof("%d\t%.0f", entry.Epoch, *entry.Amount)
		}

		votes := make([]voting.Vote, len(voteAmounts))
		for i, amount := range voteAmounts {
			votes[i] = voting.Vote{ProposalID: i, Amount: amount}
		}
		_, err = session.ValidateVotes(ctx, stakeAddress.ID, session.PoolBech32ID(), last, takenEpochsNumber, votes)
		if err != nil {
			red.Printf("rejected: %s\n", describeError(err))
			return
		}
		green.Println("accepted")
	},
}
