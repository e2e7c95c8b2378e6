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

// Package voting runs a pool member's vote through the checks that make it
// acceptable: the wallet, stake address, pool and epoch it was prepared under are
// re-verified against the chain index at the moment of voting.
package voting

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/poolvote/go-poolvote/chaindb"
	"github.com/poolvote/go-poolvote/chaindb/models"
	"github.com/poolvote/go-poolvote/config"
	"github.com/poolvote/go-poolvote/logging"
	"github.com/poolvote/go-poolvote/serr"
	"github.com/poolvote/go-poolvote/util/codecs"
	"github.com/poolvote/go-poolvote/wallet"
)

// State is the lifecycle stage of a Session
type State int

const (
	// Disconnected is the initial state, and the state after a failed EnableWallet
	Disconnected State = iota
	// Connecting is held while EnableWallet runs
	Connecting
	// Ready means a wallet is bound and stake address, pool id and current epoch are cached
	Ready
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "Disconnected"
	case Connecting:
		return "Connecting"
	case Ready:
		return "Ready"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Vote is one line of a ballot
type Vote struct {
	ProposalID any
	Amount     float64
}

// Options configures a Session
type Options struct {
	PoolBech32ID string

	// AddressToBech32 converts a wallet-native address into its bech32 form. Required.
	AddressToBech32 func(addressCbor string) (string, error)

	// StrToHex encodes vote payloads before signing; defaults to codecs.StrToHex
	StrToHex func(string) string

	// CompatibleWallets defaults to config.DefaultCompatibleWallets()
	CompatibleWallets []string

	Registry wallet.Registry

	// Client is used as given when set; otherwise one is built from APIURLs, which
	// defaults to config.DefaultAPIURLs().
	Client  *chaindb.RestClient
	APIURLs map[int]string

	Log logging.Logger
}

// Session holds the state of one voter. Calls on a Session must not overlap.
type Session struct {
	id string

	poolBech32ID string
	poolID       *int64
	stakeAddress *models.StakeAddress
	currentEpoch *int64
	wallet       *wallet.Wallet
	state        State

	client            chaindb.RestClient
	registry          wallet.Registry
	addressToBech32   func(string) (string, error)
	strToHex          func(string) string
	compatibleWallets []string
	log               logging.Logger
}

// NewSession builds a disconnected session
func NewSession(opts Options) (*Session, error) {
	if opts.AddressToBech32 == nil {
		return nil, errors.New("voting: an address converter is required")
	}

	s := &Session{
		id:                uuid.NewString(),
		poolBech32ID:      opts.PoolBech32ID,
		registry:          opts.Registry,
		addressToBech32:   opts.AddressToBech32,
		strToHex:          opts.StrToHex,
		compatibleWallets: opts.CompatibleWallets,
	}
	if s.strToHex == nil {
		s.strToHex = codecs.StrToHex
	}
	if s.compatibleWallets == nil {
		s.compatibleWallets = config.DefaultCompatibleWallets()
	}

	log := opts.Log
	if log == nil {
		log = logging.Base()
	}
	s.log = log.With("session", s.id)

	if opts.Client != nil {
		s.client = *opts.Client
	} else {
		apiURLs := opts.APIURLs
		if apiURLs == nil {
			apiURLs = config.DefaultAPIURLs()
		}
		s.client = chaindb.MakeRestClient(apiURLs)
		s.client.SetLogger(log)
	}
	return s, nil
}

// ID identifies the session in logs
func (s *Session) ID() string {
	return s.id
}

// State reports the session's lifecycle stage
func (s *Session) State() State {
	return s.state
}

// PoolBech32ID returns the tracked pool identifier
func (s *Session) PoolBech32ID() string {
	return s.poolBech32ID
}

// PoolID returns the resolved pool id, if any
func (s *Session) PoolID() (int64, bool) {
	if s.poolID == nil {
		return 0, false
	}
	return *s.poolID, true
}

// StakeAddress returns the cached stake address, if any
func (s *Session) StakeAddress() (models.StakeAddress, bool) {
	if s.stakeAddress == nil {
		return models.StakeAddress{}, false
	}
	return *s.stakeAddress, true
}

// CurrentEpoch returns the epoch cached by EnableWallet, if any
func (s *Session) CurrentEpoch() (int64, bool) {
	if s.currentEpoch == nil {
		return 0, false
	}
	return *s.currentEpoch, true
}

func (s *Session) connectedWallet() (*wallet.Wallet, error) {
	if s.wallet == nil {
		return nil, ErrNoConnectedWallet
	}
	return s.wallet, nil
}

func (s *Session) isCompatible(name string) bool {
	for _, compatible := range s.compatibleWallets {
		if compatible == name {
			return true
		}
	}
	return false
}

// AvailableWallets lists the installed wallets this session can work with
func (s *Session) AvailableWallets() ([]string, error) {
	if s.registry == nil {
		return nil, ErrNoCardanoWallets
	}
	var available []string
	for _, name := range s.registry.Wallets() {
		if s.isCompatible(name) {
			available = append(available, name)
		}
	}
	if len(available) == 0 {
		return nil, ErrNoCompatibleWallets
	}
	return available, nil
}

// DetectEnabledWallets lists the available wallets that have already authorized us
func (s *Session) DetectEnabledWallets(ctx context.Context) ([]string, error) {
	available, err := s.AvailableWallets()
	if err != nil {
		return nil, err
	}
	enabled := []string{}
	for _, name := range available {
		ext, ok := s.registry.Lookup(name)
		if !ok {
			continue
		}
		isEnabled, err := ext.IsEnabled(ctx)
		if err != nil {
			return nil, err
		}
		if isEnabled {
			enabled = append(enabled, name)
		}
	}
	return enabled, nil
}

// WalletIcon returns the bound wallet's icon
func (s *Session) WalletIcon() (string, error) {
	w, err := s.connectedWallet()
	if err != nil {
		return "", err
	}
	return w.Icon()
}

// UsedAddresses returns the bound wallet's used addresses. An empty list is an error.
func (s *Session) UsedAddresses(ctx context.Context) ([]string, error) {
	w, err := s.connectedWallet()
	if err != nil {
		return nil, err
	}
	addresses, err := w.UsedAddresses(ctx)
	if err != nil {
		return nil, err
	}
	if len(addresses) == 0 {
		return nil, ErrNoUsedAddresses.With("wallet", w.Name())
	}
	return addresses, nil
}

// stakeAddressOf resolves the stake address owning a wallet-native address
func (s *Session) stakeAddressOf(ctx context.Context, addressCbor string) (models.StakeAddress, error) {
	bech32, err := s.addressToBech32(addressCbor)
	if err != nil {
		return models.StakeAddress{}, fmt.Errorf("converting used address: %w", err)
	}
	return s.client.StakeAddress(ctx, bech32)
}

// StakeAddressFromWallet resolves the stake address of the bound wallet's first used address
func (s *Session) StakeAddressFromWallet(ctx context.Context) (models.StakeAddress, error) {
	addresses, err := s.UsedAddresses(ctx)
	if err != nil {
		return models.StakeAddress{}, err
	}
	return s.stakeAddressOf(ctx, addresses[0])
}

// EnableWallet binds the named wallet and caches the voter's stake address, the pool id
// and the current epoch. Each field is cached as soon as its lookup succeeds; after a
// failure the session should be discarded.
func (s *Session) EnableWallet(ctx context.Context, walletName string) error {
	s.state = Connecting
	err := s.enableWallet(ctx, walletName)
	if err != nil {
		s.state = Disconnected
		s.log.Warnf("enabling wallet %s failed: %v", walletName, err)
		return err
	}
	s.state = Ready
	s.log.Infof("wallet %s enabled, stake address %d, pool %d, epoch %d",
		walletName, s.stakeAddress.ID, *s.poolID, *s.currentEpoch)
	return nil
}

func (s *Session) enableWallet(ctx context.Context, walletName string) error {
	s.wallet = wallet.MakeWallet(walletName, s.registry, s.log)

	networkID, err := s.wallet.NetworkID(ctx)
	if err != nil {
		return err
	}
	s.client.SetNetworkID(networkID)

	stakeAddress, err := s.StakeAddressFromWallet(ctx)
	if err != nil {
		return err
	}
	s.stakeAddress = &stakeAddress

	poolID, err := s.client.PoolID(ctx, s.poolBech32ID)
	if err != nil {
		return err
	}
	s.poolID = &poolID

	currentEpoch, err := s.client.CurrentEpoch(ctx)
	if err != nil {
		return err
	}
	s.currentEpoch = &currentEpoch
	return nil
}

// SetPoolBech32ID switches the tracked pool and re-resolves its id. The cached stake
// address and current epoch are kept as they are.
func (s *Session) SetPoolBech32ID(ctx context.Context, poolBech32ID string) error {
	// TODO: decide whether a pool switch should invalidate the cached stake address and epoch
	s.poolBech32ID = poolBech32ID
	poolID, err := s.client.PoolID(ctx, poolBech32ID)
	if err != nil {
		return err
	}
	s.poolID = &poolID
	return nil
}

// PoolDelegations fetches the voter's delegation records to the pool for the
// takenEpochsQuantity epochs ending at lastTakenEpoch.
func (s *Session) PoolDelegations(ctx context.Context, lastTakenEpoch int64, takenEpochsQuantity int) ([]models.PoolDelegation, error) {
	if s.stakeAddress == nil {
		return nil, ErrMissingStakeAddress
	}
	if s.poolID == nil {
		return nil, ErrMissingPoolID
	}
	return s.client.PoolDelegations(ctx, *s.poolID, s.stakeAddress.ID, lastTakenEpoch, takenEpochsQuantity)
}

// EpochSeries fetches the delegation records and lays them out with BuildEpochSeries
func (s *Session) EpochSeries(ctx context.Context, lastTakenEpoch int64, takenEpochsQuantity int) ([]EpochDelegation, error) {
	records, err := s.PoolDelegations(ctx, lastTakenEpoch, takenEpochsQuantity)
	if err != nil {
		return nil, err
	}
	return BuildEpochSeries(records, lastTakenEpoch, takenEpochsQuantity), nil
}

// ValidateVotes re-verifies everything a ballot depends on and reports whether it may be
// submitted. The checks run in a fixed order and the first failing one is returned:
// an empty ballot, the wallet's used addresses, the stake address (as given, as resolved
// now, and as cached), the pool, the current epoch, and finally the voting power against
// each vote and against their sum.
func (s *Session) ValidateVotes(ctx context.Context, stakeAddressID int64, poolBech32ID string, lastTakenEpoch int64, takenEpochsQuantity int, votes []Vote) (bool, error) {
	err := s.validateVotes(ctx, stakeAddressID, poolBech32ID, lastTakenEpoch, takenEpochsQuantity, votes)
	if err != nil {
		kind := serr.KindOf(err)
		if kind == "" {
			kind = "Unclassified"
		}
		validationRejections.Add(string(kind), 1)
		s.log.WithFields(logging.Fields{"kind": string(kind), "votes": len(votes)}).Infof("votes rejected: %v", err)
		return false, err
	}
	validationsAccepted.Inc()
	s.log.Infof("%d votes accepted", len(votes))
	return true, nil
}

func (s *Session) validateVotes(ctx context.Context, stakeAddressID int64, poolBech32ID string, lastTakenEpoch int64, takenEpochsQuantity int, votes []Vote) error {
	var votesAmountSum float64
	for _, vote := range votes {
		votesAmountSum += vote.Amount
	}
	// only an exactly empty ballot is refused here; amounts carry no sign check
	if votesAmountSum == 0 {
		return ErrNoVotesGiven
	}

	addresses, err := s.UsedAddresses(ctx)
	if err != nil {
		return err
	}

	stakeAddress, err := s.stakeAddressOf(ctx, addresses[0])
	if err != nil {
		return err
	}
	if stakeAddressID != stakeAddress.ID || s.stakeAddress == nil || stakeAddressID != s.stakeAddress.ID {
		return ErrStakeAddressMismatch.With("given", stakeAddressID, "wallet", stakeAddress.ID)
	}

	if poolBech32ID != s.poolBech32ID {
		return ErrPoolAddressMismatch.With("given", poolBech32ID, "tracked", s.poolBech32ID)
	}

	currentEpoch, err := s.client.CurrentEpoch(ctx)
	if err != nil {
		return err
	}
	if s.currentEpoch == nil || currentEpoch != *s.currentEpoch {
		return ErrCurrentEpochHasChanged.With("current", currentEpoch)
	}

	records, err := s.PoolDelegations(ctx, lastTakenEpoch, takenEpochsQuantity)
	if err != nil {
		return err
	}
	votingPower := VotingPower(records)

	for _, vote := range votes {
		if vote.Amount > votingPower {
			return ErrVotingPowerExcess.With("amount", vote.Amount, "power", votingPower)
		}
	}
	if votesAmountSum > votingPower {
		return ErrVotingPowerExcess.With("amount", votesAmountSum, "power", votingPower)
	}
	return nil
}

// SignVotes hex-encodes payload and has the bound wallet sign it with its first used
// address. The wallet's result is returned as is.
func (s *Session) SignVotes(ctx context.Context, payload string) (wallet.SignResult, error) {
	addresses, err := s.UsedAddresses(ctx)
	if err != nil {
		return wallet.SignResult{}, err
	}
	return s.wallet.SignData(ctx, addresses[0], s.strToHex(payload))
}
