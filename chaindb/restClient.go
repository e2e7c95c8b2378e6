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

// Package chaindb is a read-only client for a PostgREST view of a cardano-db-sync
// database. Every query performs exactly one request-response round trip; there is no
// caching and no retrying.
package chaindb

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"

	"github.com/poolvote/go-poolvote/chaindb/models"
	"github.com/poolvote/go-poolvote/logging"
	"github.com/poolvote/go-poolvote/protocol"
	"github.com/poolvote/go-poolvote/util/metrics"
)

const maxRawResponseBytes = 50e6

// resources queried on the chain index
const (
	txOutResource      = "tx_out"
	epochResource      = "epoch"
	poolHashResource   = "pool_hash"
	epochStakeResource = "epoch_stake"
)

var chainRequests = metrics.NewTagCounter(
	"poolvote_chaindb_requests_{TAG}",
	"Number of chain index requests issued per resource",
	txOutResource, epochResource, poolHashResource, epochStakeResource,
)

var chainRequestErrors = metrics.NewTagCounter(
	"poolvote_chaindb_request_errors_{TAG}",
	"Number of chain index requests per resource that failed before a response was decoded",
)

// HTTPError is generated when we receive an unhandled error from the server. This error contains the error string.
type HTTPError struct {
	StatusCode  int
	Status      string
	ErrorString string
}

// Error formats an error string.
func (e HTTPError) Error() string {
	return fmt.Sprintf("HTTP %s: %s", e.Status, e.ErrorString)
}

// postgrestError is the body PostgREST returns alongside non-2xx statuses
type postgrestError struct {
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
	Code    string `json:"code"`
}

// RestClient manages the REST interface for a calling user.
type RestClient struct {
	apiURLs    map[int]string
	networkID  *int
	httpClient *http.Client
	log        logging.Logger
}

// MakeRestClient is the factory for constructing a RestClient for a given network id to
// api url mapping.
func MakeRestClient(apiURLs map[int]string) RestClient {
	urls := make(map[int]string, len(apiURLs))
	for id, u := range apiURLs {
		urls[id] = strings.TrimRight(u, "/")
	}
	return RestClient{
		apiURLs:    urls,
		httpClient: &http.Client{},
		log:        logging.Base(),
	}
}

// SetHTTPClient replaces the http client used to issue requests
func (client *RestClient) SetHTTPClient(httpClient *http.Client) {
	client.httpClient = httpClient
}

// SetLogger replaces the logger
func (client *RestClient) SetLogger(log logging.Logger) {
	client.log = log
}

// SetNetworkID records the network id used by queries that do not override it
func (client *RestClient) SetNetworkID(networkID int) {
	client.networkID = &networkID
}

// NetworkID returns the recorded network id, if any
func (client RestClient) NetworkID() (int, bool) {
	if client.networkID == nil {
		return 0, false
	}
	return *client.networkID, true
}

// WithNetwork returns a copy of the client whose queries target networkID, leaving the
// receiver's recorded network id untouched.
func (client RestClient) WithNetwork(networkID int) RestClient {
	client.networkID = &networkID
	return client
}

// endpointURL resolves the base url of the current network and appends the resource
func (client RestClient) endpointURL(resource string) (*url.URL, error) {
	if client.networkID == nil {
		return nil, ErrMissingNetworkID
	}
	base, ok := client.apiURLs[*client.networkID]
	if !ok || base == "" {
		return nil, UnknownNetworkIDError(*client.networkID)
	}
	return url.Parse(base + "/" + resource)
}

// filterASCII filter out the non-ascii printable characters out of the given input string.
// It's used as a security qualifier before adding network provided data into an error message.
func filterASCII(unfilteredString string) (filteredString string) {
	for i, r := range unfilteredString {
		if int(r) >= 0x20 && int(r) <= 0x7e {
			filteredString += string(unfilteredString[i])
		}
	}
	return
}

// extractError checks if the response signifies an error.
// If so, it returns the error.
// Otherwise, it returns nil.
func extractError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	errorBuf, _ := io.ReadAll(resp.Body) // ignore returned error
	var errorJSON postgrestError
	var errorString string
	decodeErr := protocol.NewJSONRowsDecoder(bytes.NewReader(errorBuf)).Decode(&errorJSON)
	if decodeErr == nil && errorJSON.Message != "" {
		errorString = errorJSON.Message
		if errorJSON.Details != "" {
			errorString += ": " + errorJSON.Details
		}
	} else {
		errorString = string(errorBuf)
	}
	return HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, ErrorString: filterASCII(errorString)}
}

// get performs a GET request for the given resource, encoding params as the query string
// and decoding the JSON rows of the response into response.
func (client RestClient) get(ctx context.Context, response interface{}, resource string, params interface{}) error {
	queryURL, err := client.endpointURL(resource)
	if err != nil {
		return err
	}

	if params != nil {
		v, err := query.Values(params)
		if err != nil {
			return err
		}
		queryURL.RawQuery = v.Encode()
	}

	chainRequests.Add(resource, 1)
	client.log.Debugf("chaindb: GET %s", queryURL.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL.String(), nil)
	if err != nil {
		chainRequestErrors.Add(resource, 1)
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.httpClient.Do(req)
	if err != nil {
		chainRequestErrors.Add(resource, 1)
		return err
	}

	// Ensure response isn't too large
	resp.Body = http.MaxBytesReader(nil, resp.Body, maxRawResponseBytes)
	defer resp.Body.Close()

	err = extractError(resp)
	if err != nil {
		chainRequestErrors.Add(resource, 1)
		return err
	}

	dec := protocol.NewJSONRowsDecoder(resp.Body)
	err = dec.Decode(response)
	if err != nil {
		chainRequestErrors.Add(resource, 1)
		return fmt.Errorf("decoding %s response: %w", resource, err)
	}
	return nil
}

type stakeAddressParams struct {
	Address string `url:"address"`
	Select  string `url:"select"`
}

// StakeAddress looks up the stake address owning the given payment address
func (client RestClient) StakeAddress(ctx context.Context, usedAddressBech32 string) (models.StakeAddress, error) {
	params := stakeAddressParams{
		Address: eq(usedAddressBech32),
		Select:  "stake_address(id,view)",
	}
	var rows []models.StakeAddressRow
	err := client.get(ctx, &rows, txOutResource, params)
	if err != nil {
		return models.StakeAddress{}, err
	}
	if len(rows) == 0 || rows[0].StakeAddress == nil {
		return models.StakeAddress{}, ErrStakeAddressEmptyResponse
	}
	return *rows[0].StakeAddress, nil
}

type currentEpochParams struct {
	Select string `url:"select"`
	Order  string `url:"order"`
	Limit  uint64 `url:"limit"`
}

// CurrentEpoch returns the highest epoch number known to the index
func (client RestClient) CurrentEpoch(ctx context.Context) (int64, error) {
	params := currentEpochParams{
		Select: "no",
		Order:  orderDesc("no"),
		Limit:  1,
	}
	var rows []models.EpochRow
	err := client.get(ctx, &rows, epochResource, params)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, ErrCurrentEpochEmptyResponse
	}
	return rows[0].No, nil
}

type poolIDParams struct {
	View   string `url:"view"`
	Select string `url:"select"`
}

// PoolID maps a pool's bech32 identifier to its numeric id
func (client RestClient) PoolID(ctx context.Context, poolBech32ID string) (int64, error) {
	params := poolIDParams{
		View:   eq(poolBech32ID),
		Select: "id",
	}
	var rows []models.PoolHashRow
	err := client.get(ctx, &rows, poolHashResource, params)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, ErrPoolIDEmptyResponse
	}
	return rows[0].ID, nil
}

type poolDelegationsParams struct {
	PoolID string `url:"pool_id"`
	AddrID string `url:"addr_id"`
	And    string `url:"and"`
	Select string `url:"select"`
	Order  string `url:"order"`
}

// PoolDelegations returns the per-epoch delegation rows of stakeAddressID to poolID for the
// takenEpochsQuantity epochs ending at lastTakenEpoch, ascending by epoch. An empty result
// is not an error.
func (client RestClient) PoolDelegations(ctx context.Context, poolID, stakeAddressID, lastTakenEpoch int64, takenEpochsQuantity int) ([]models.PoolDelegation, error) {
	params := poolDelegationsParams{
		PoolID: eq(poolID),
		AddrID: eq(stakeAddressID),
		And: and(
			condition("epoch_no", "gt", lastTakenEpoch-int64(takenEpochsQuantity)),
			condition("epoch_no", "lte", lastTakenEpoch),
		),
		Select: "amount,epoch_no",
		Order:  orderAsc("epoch_no"),
	}
	rows := make([]models.PoolDelegation, 0)
	err := client.get(ctx, &rows, epochStakeResource, params)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
