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
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/poolvote/go-poolvote/chaindb"
	"github.com/poolvote/go-poolvote/config"
	"github.com/poolvote/go-poolvote/logging"
	"github.com/poolvote/go-poolvote/serr"
	"github.com/poolvote/go-poolvote/wallet"
	"github.com/poolvote/go-poolvote/wallet/bridge"
)

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
)

func reportInfof(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

func reportErrorf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// describeError renders an error with its kind and attributes when it has them
func describeError(err error) string {
	kind := serr.KindOf(err)
	if kind == "" {
		return err.Error()
	}
	return fmt.Sprintf("%s: %s", kind, err.Error())
}

// commandContext is cancelled on interrupt
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func loadConfig() (config.Local, logging.Logger) {
	cfg, err := config.LoadLocal(dataDir)
	if err != nil {
		reportErrorf("Cannot load config from %s: %v", dataDir, err)
	}
	log := logging.NewLogger()
	log.SetLevel(cfg.Level())
	log.SetOutput(os.Stderr)
	if cfg.LogFileSizeLimit > 0 {
		writer, err := logging.MakeCyclicFileWriter(
			filepath.Join(dataDir, config.LogFilename),
			filepath.Join(dataDir, config.LogArchiveFilename),
			cfg.LogFileSizeLimit)
		if err != nil {
			reportErrorf("Cannot open log file: %v", err)
		}
		log.SetOutput(writer)
	}
	return cfg, log
}

func makeChainClient(cfg config.Local, log logging.Logger) chaindb.RestClient {
	client := chaindb.MakeRestClient(cfg.APIURLs)
	client.SetHTTPClient(&http.Client{Timeout: cfg.RequestTimeout()})
	client.SetLogger(log)
	client.SetNetworkID(networkID)
	return client
}

func loadBridgeRegistry(ctx context.Context, cfg config.Local) wallet.Registry {
	if cfg.BridgeAddress == "" {
		reportErrorf("No wallet bridge configured; set bridge_address in %s", config.ConfigFilename)
	}
	client, err := bridge.MakeClient(cfg.BridgeAddress, cfg.BridgeToken)
	if err != nil {
		reportErrorf("Cannot reach wallet bridge: %v", err)
	}
	if timeout := cfg.RequestTimeout(); timeout > 0 {
		client.SetTimeout(timeout)
	}
	registry, err := client.LoadRegistry(ctx)
	if err != nil {
		reportErrorf("Cannot list bridge wallets: %v", err)
	}
	return registry
}
