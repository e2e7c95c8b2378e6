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
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/poolvote/go-poolvote/config"
	"github.com/poolvote/go-poolvote/util/metrics"
)

var (
	versionCheck bool
	dataDir      string
	networkID    int
	printMetrics bool
)

var rootCmd = &cobra.Command{
	Use:   "poolvote",
	Short: "Inspect pool delegations and check stake pool votes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if versionCheck {
			fmt.Println(config.FormatVersionAndLicense())
			return
		}
		// If no arguments passed, we should fallback to help
		cmd.HelpFunc()(cmd, args)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if !printMetrics {
			return
		}
		var buf strings.Builder
		metrics.DefaultRegistry().WriteMetrics(&buf, "")
		fmt.Fprint(os.Stderr, buf.String())
	},
}

func init() {
	rootCmd.AddCommand(epochCmd)
	rootCmd.AddCommand(poolIDCmd)
	rootCmd.AddCommand(stakeAddressCmd)
	rootCmd.AddCommand(delegationsCmd)
	rootCmd.AddCommand(walletsCmd)
	rootCmd.AddCommand(validateCmd)

	rootCmd.Flags().BoolVarP(&versionCheck, "version", "v", false, "Display and write current build version and exit")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "datadir", "d", defaultDataDir(), "Data directory holding "+config.ConfigFilename)
	rootCmd.PersistentFlags().IntVarP(&networkID, "network", "n", config.MainnetID, "Network id to query (0 testnet, 1 mainnet)")
	rootCmd.PersistentFlags().BoolVar(&printMetrics, "metrics", false, "Print collected metrics to stderr on exit")
}

func defaultDataDir() string {
	if dir := os.Getenv("POOLVOTE_DATA"); dir != "" {
		return dir
	}
	return "."
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
