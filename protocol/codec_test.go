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

package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/poolvote/go-poolvote/test/partitiontest"
)

type envelope struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type row struct {
	ID int64 `json:"id"`
}

func TestJSONRoundTrip(t *testing.T) {
	partitiontest.PartitionTest(t)

	in := envelope{Error: true, Message: "<no wallet>"}
	var out envelope
	require.NoError(t, DecodeJSON(EncodeJSON(in), &out))
	require.Equal(t, in, out)

	// HTML characters are kept as-is
	require.Contains(t, string(EncodeJSON(in)), "<no wallet>")
}

func TestStrictDecoderRejectsUnknownFields(t *testing.T) {
	partitiontest.PartitionTest(t)

	var out envelope
	err := DecodeJSON([]byte(`{"error":false,"message":"","extra":1}`), &out)
	require.Error(t, err)
}

func TestRowsDecoderIgnoresUnknownFields(t *testing.T) {
	partitiontest.PartitionTest(t)

	var rows []row
	dec := NewJSONRowsDecoder(bytes.NewBufferString(`[{"id":12,"hash_raw":"\\x00"},{"id":13}]`))
	require.NoError(t, dec.Decode(&rows))
	require.Equal(t, []row{{ID: 12}, {ID: 13}}, rows)
}
