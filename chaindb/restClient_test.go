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

package chaindb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/poolvote/go-poolvote/chaindb/models"
	"github.com/poolvote/go-poolvote/logging"
	"github.com/poolvote/go-poolvote/serr"
	"github.com/poolvote/go-poolvote/test/partitiontest"
)

type recordedRequest struct {
	path  string
	query url.Values
}

// mockPostgREST answers every request with the body registered for its path and records
// what it was asked.
type mockPostgREST struct {
	t        *testing.T
	bodies   map[string]string
	status   int
	requests []recordedRequest
}

func (m *mockPostgREST) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.requests = append(m.requests, recordedRequest{path: r.URL.Path, query: r.URL.Query()})
	require.Equal(m.t, http.MethodGet, r.Method)
	w.Header().Set("Content-Type", "application/json")
	if m.status != 0 {
		w.WriteHeader(m.status)
	}
	body, ok := m.bodies[r.URL.Path]
	if !ok {
		body = "[]"
	}
	w.Write([]byte(body))
}

func makeTestClient(t *testing.T, bodies map[string]string) (RestClient, *mockPostgREST) {
	mock := &mockPostgREST{t: t, bodies: bodies}
	srv := httptest.NewServer(mock)
	t.Cleanup(srv.Close)

	client := MakeRestClient(map[int]string{0: srv.URL + "/", 1: srv.URL + "/mainnet"})
	client.SetLogger(logging.TestingLog(t))
	client.SetNetworkID(0)
	return client, mock
}

func TestNetworkResolution(t *testing.T) {
	partitiontest.PartitionTest(t)

	client := MakeRestClient(map[int]string{1: "http://localhost:1"})
	_, err := client.CurrentEpoch(context.Background())
	require.ErrorIs(t, err, ErrMissingNetworkID)
	require.Equal(t, serr.Configuration, serr.CategoryOf(err))

	_, err = client.WithNetwork(5).CurrentEpoch(context.Background())
	require.ErrorIs(t, err, ErrUnknownNetworkID)
	require.Equal(t, `unknown network id "5"`, err.Error())
	require.Equal(t, 5, serr.Attributes(err)["network"])

	// the override does not leak into the receiver
	_, ok := client.NetworkID()
	require.False(t, ok)
	client.SetNetworkID(1)
	id, ok := client.NetworkID()
	require.True(t, ok)
	require.Equal(t, 1, id)
}

func TestStakeAddress(t *testing.T) {
	partitiontest.PartitionTest(t)

	client, mock := makeTestClient(t, map[string]string{
		"/tx_out": `[{"stake_address":{"id":42,"view":"stake1uxyz"}},{"stake_address":{"id":42,"view":"stake1uxyz"}}]`,
	})
	sa, err := client.StakeAddress(context.Background(), "addr1qabc")
	require.NoError(t, err)
	require.Equal(t, models.StakeAddress{ID: 42, View: "stake1uxyz"}, sa)

	require.Len(t, mock.requests, 1)
	require.Equal(t, "eq.addr1qabc", mock.requests[0].query.Get("address"))
	require.Equal(t, "stake_address(id,view)", mock.requests[0].query.Get("select"))
}

func TestEmptyResponses(t *testing.T) {
	partitiontest.PartitionTest(t)

	client, _ := makeTestClient(t, nil)
	ctx := context.Background()

	_, err := client.StakeAddress(ctx, "addr1qabc")
	require.ErrorIs(t, err, ErrStakeAddressEmptyResponse)

	_, err = client.CurrentEpoch(ctx)
	require.ErrorIs(t, err, ErrCurrentEpochEmptyResponse)

	_, err = client.PoolID(ctx, "pool1abc")
	require.ErrorIs(t, err, ErrPoolIDEmptyResponse)
	require.Equal(t, serr.ValidationOutcome, serr.CategoryOf(err))

	delegations, err := client.PoolDelegations(ctx, 7, 42, 300, 3)
	require.NoError(t, err)
	require.Empty(t, delegations)
}

func TestCurrentEpochAndPoolID(t *testing.T) {
	partitiontest.PartitionTest(t)

	client, mock := makeTestClient(t, map[string]string{
		"/epoch":     `[{"no":300,"out_sum":1}]`,
		"/pool_hash": `[{"id":7}]`,
	})
	ctx := context.Background()

	epoch, err := client.CurrentEpoch(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(300), epoch)
	require.Equal(t, "no.desc", mock.requests[0].query.Get("order"))
	require.Equal(t, "1", mock.requests[0].query.Get("limit"))

	poolID, err := client.PoolID(ctx, "pool1abc")
	require.NoError(t, err)
	require.Equal(t, int64(7), poolID)
	require.Equal(t, "eq.pool1abc", mock.requests[1].query.Get("view"))
}

func TestPoolDelegationsQuery(t *testing.T) {
	partitiontest.PartitionTest(t)

	client, mock := makeTestClient(t, map[string]string{
		"/mainnet/epoch_stake": `[{"amount":100,"epoch_no":298},{"amount":50,"epoch_no":300}]`,
	})

	delegations, err := client.WithNetwork(1).PoolDelegations(context.Background(), 7, 42, 300, 3)
	require.NoError(t, err)
	require.Equal(t, []models.PoolDelegation{{Amount: 100, EpochNo: 298}, {Amount: 50, EpochNo: 300}}, delegations)

	q := mock.requests[0].query
	require.Equal(t, "eq.7", q.Get("pool_id"))
	require.Equal(t, "eq.42", q.Get("addr_id"))
	require.Equal(t, "(epoch_no.gt.297,epoch_no.lte.300)", q.Get("and"))
	require.Equal(t, "epoch_no.asc", q.Get("order"))
}

func TestHTTPErrorAndDecodeFailure(t *testing.T) {
	partitiontest.PartitionTest(t)

	client, mock := makeTestClient(t, map[string]string{
		"/epoch": "{\"message\":\"relation \\\"epoch\\\" does not exist\\u0007\",\"code\":\"42P01\"}",
	})
	mock.status = http.StatusNotFound

	_, err := client.CurrentEpoch(context.Background())
	var httpErr HTTPError
	require.True(t, errors.As(err, &httpErr))
	require.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	require.Equal(t, `relation "epoch" does not exist`, httpErr.ErrorString)
	require.Equal(t, serr.Kind(""), serr.KindOf(err))

	mock.status = 0
	mock.bodies["/epoch"] = "<html>gateway</html>"
	_, err = client.CurrentEpoch(context.Background())
	require.Error(t, err)
	require.Equal(t, serr.Kind(""), serr.KindOf(err))
}

func TestContextCancellation(t *testing.T) {
	partitiontest.PartitionTest(t)

	client, _ := makeTestClient(t, map[string]string{"/epoch": `[{"no":1}]`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.CurrentEpoch(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRequestsAreCounted(t *testing.T) {
	partitiontest.PartitionTest(t)

	client, _ := makeTestClient(t, map[string]string{"/pool_hash": `[{"id":7}]`})
	before := chainRequests.GetValue(poolHashResource)
	_, err := client.PoolID(context.Background(), "pool1abc")
	require.NoError(t, err)
	require.Equal(t, before+1, chainRequests.GetValue(poolHashResource))
}
