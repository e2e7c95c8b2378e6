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

package serr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/poolvote/go-poolvote/test/partitiontest"
)

const testKind Kind = "TestKind"

func TestErrorMessage(t *testing.T) {
	partitiontest.PartitionTest(t)

	err := New(testKind, ValidationOutcome, "voting power excess")
	require.Equal(t, "voting power excess", err.Error())

	err = New(testKind, Configuration, "", "network", 7)
	require.Equal(t, "network=7", err.Error())

	err = New(testKind, Configuration, "unknown network %A", "network", 7)
	require.Equal(t, "unknown network network=7", err.Error())
}

func TestIsMatchesByKind(t *testing.T) {
	partitiontest.PartitionTest(t)

	sentinel := New(testKind, Environment, "wallet unavailable")
	derived := sentinel.With("wallet", "nami")

	require.True(t, errors.Is(derived, sentinel))
	require.True(t, errors.Is(fmt.Errorf("outer: %w", derived), sentinel))
	require.False(t, errors.Is(derived, New("OtherKind", Environment, "wallet unavailable")))

	// the sentinel keeps its own attributes
	require.Empty(t, sentinel.Attrs)
	require.Equal(t, "nami", derived.Attrs["wallet"])
}

func TestKindAndCategoryOf(t *testing.T) {
	partitiontest.PartitionTest(t)

	err := fmt.Errorf("context: %w", New(testKind, StatePrecondition, "missing"))
	require.Equal(t, testKind, KindOf(err))
	require.Equal(t, StatePrecondition, CategoryOf(err))
	require.Equal(t, "state-precondition", CategoryOf(err).String())

	plain := errors.New("plain")
	require.Equal(t, Kind(""), KindOf(plain))
	require.Equal(t, Unclassified, CategoryOf(plain))
	require.Nil(t, Attributes(plain))
}

func TestWrapKeepsCause(t *testing.T) {
	partitiontest.PartitionTest(t)

	cause := errors.New("user declined")
	err := New(testKind, Environment, "connection failed").Wrap(cause)
	require.ErrorIs(t, err, cause)
	require.Equal(t, "connection failed", err.Error())

	formatted := New(testKind, Environment, "").Errorf("wallet %q failed: %v", "nami", cause)
	require.Equal(t, `wallet "nami" failed: user declined`, formatted.Error())
	require.Equal(t, testKind, formatted.Kind)
}

func TestAnnotate(t *testing.T) {
	partitiontest.PartitionTest(t)

	require.Nil(t, Annotate(nil, "a", 1))

	plain := errors.New("decode failure")
	annotated := Annotate(plain, "resource", "epoch")
	require.ErrorIs(t, annotated, plain)
	require.Equal(t, "decode failure", annotated.Error())
	require.Equal(t, "epoch", Attributes(annotated)["resource"])

	structured := New(testKind, ValidationOutcome, "empty response")
	annotated = Annotate(structured, "resource", "epoch")
	require.ErrorIs(t, annotated, structured)
	require.Equal(t, testKind, KindOf(annotated))
	require.Equal(t, "epoch", Attributes(annotated)["resource"])
}
