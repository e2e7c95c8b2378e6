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

package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/poolvote/go-poolvote/logging"
	"github.com/poolvote/go-poolvote/serr"
	"github.com/poolvote/go-poolvote/util/codecs"
)

const (
	// ConfigFilename is the name of the config file inside a data directory
	ConfigFilename        = "poolvote_config.json"
	configExampleFilename = ConfigFilename + ".example"

	// LogFilename and LogArchiveFilename live in the data directory
	LogFilename        = "poolvote.log"
	LogArchiveFilename = "poolvote.archive.log"
	defaultLogLevel    = "warn"
)

// Network ids as reported by CIP-30 wallets
const (
	TestnetID = 0
	MainnetID = 1
)

// KindInvalidConfig is reported for configuration files that fail validation
const KindInvalidConfig serr.Kind = "InvalidConfig"

// ErrInvalidConfig is the sentinel for every validation failure of Local
var ErrInvalidConfig = serr.New(KindInvalidConfig, serr.Configuration, "invalid configuration")

// Local holds the per-installation configuration of a voting client
type Local struct {
	DataDir string `json:"-"`

	// PoolBech32ID is the bech32 id of the pool whose delegators vote
	PoolBech32ID string `json:"pool_bech32_id"`

	// APIURLs maps a wallet network id to the base URL of a PostgREST chain index
	APIURLs map[int]string `json:"api_urls"`

	// CompatibleWallets lists wallet names the client is willing to talk to
	CompatibleWallets []string `json:"compatible_wallets"`

	// BridgeAddress is the base URL of a wallet bridge, e.g. http://127.0.0.1:7833
	BridgeAddress string `json:"bridge_address"`
	BridgeToken   string `json:"bridge_token"`

	// RequestTimeoutSecs bounds each chain index request; 0 means no timeout
	RequestTimeoutSecs uint64 `json:"request_timeout_secs"`

	LogLevel string `json:"log_level"`

	// LogFileSizeLimit caps the live log file in the data directory; once full it is moved
	// to the archive file. 0 keeps logging on stderr.
	LogFileSizeLimit uint64 `json:"log_file_size_limit"`
}

// DefaultAPIURLs returns the public dandelion PostgREST endpoints
func DefaultAPIURLs() map[int]string {
	return map[int]string{
		TestnetID: "https://postgrest-api.testnet.dandelion.link",
		MainnetID: "https://postgrest-api.mainnet.dandelion.link",
	}
}

// DefaultCompatibleWallets returns the wallets known to implement the data signing
// extension we rely on
func DefaultCompatibleWallets() []string {
	return []string{"eternl", "flint", "gerowallet", "nami", "nufi"}
}

// GetDefaultLocal returns the default configuration rooted at dataDir
func GetDefaultLocal(dataDir string) Local {
	return Local{
		DataDir:           dataDir,
		APIURLs:           DefaultAPIURLs(),
		CompatibleWallets: DefaultCompatibleWallets(),
		LogLevel:          defaultLogLevel,
	}
}

// Validate ensures that the current configuration is valid, returning an error
// if it's not
func (cfg Local) Validate() error {
	if len(cfg.APIURLs) == 0 {
		return ErrInvalidConfig.Errorf("no chain index api urls configured")
	}
	for networkID, raw := range cfg.APIURLs {
		if err := validateHTTPURL(raw); err != nil {
			return ErrInvalidConfig.Errorf("api url for network %d: %v", networkID, err).With("network", networkID)
		}
	}
	if cfg.BridgeAddress != "" {
		if err := validateHTTPURL(cfg.BridgeAddress); err != nil {
			return ErrInvalidConfig.Errorf("bridge address: %v", err)
		}
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return ErrInvalidConfig.Errorf("%v", err)
	}
	return nil
}

// ValidateForVoting extends Validate with the settings needed to enable a
// wallet and check ballots: those commands act on behalf of one pool.
func (cfg Local) ValidateForVoting() error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.PoolBech32ID == "" {
		return ErrInvalidConfig.Errorf("pool_bech32_id is required to validate votes")
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an absolute http(s) url", raw)
	}
	return nil
}

// RequestTimeout returns the configured per-request timeout, zero meaning none
func (cfg Local) RequestTimeout() time.Duration {
	return time.Duration(cfg.RequestTimeoutSecs) * time.Second
}

// Level returns the parsed log level, falling back to the default one
func (cfg Local) Level() logging.Level {
	lvl, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return logging.Warn
	}
	return lvl
}

// LoadLocal tries to read the configuration from dataDir, merging the
// default configuration with what it finds
func LoadLocal(dataDir string) (cfg Local, err error) {
	cfg = GetDefaultLocal(dataDir)
	configFilename := filepath.Join(dataDir, ConfigFilename)
	dat, err := os.ReadFile(configFilename)
	// If there is no config file, then return the default configuration, and dump an example to disk
	if err != nil {
		if !os.IsNotExist(err) {
			return
		}
		exampleFilename := filepath.Join(dataDir, configExampleFilename)
		// SaveObjectToFile may return an unhandled error because
		// there is nothing to do if an error occurs
		codecs.SaveObjectToFile(exampleFilename, cfg, true)
		return cfg, nil
	}
	// Fill in the non-default values
	err = json.Unmarshal(dat, &cfg)
	if err != nil {
		return
	}
	err = cfg.Validate()
	return
}

// SaveToDisk writes the configuration into dataDir
func (cfg Local) SaveToDisk(dataDir string) error {
	return codecs.SaveObjectToFile(filepath.Join(dataDir, ConfigFilename), cfg, true)
}
