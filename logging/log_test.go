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

package logging

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/poolvote/go-poolvote/test/partitiontest"
)

/*
Since most of the functions are pure wrappers, we don't test them and trust the logrus testing coverage.

Things to test -

TestFileOutputNewLogger -- Tests the input change to Buffer works for a new Logger
TestSetLevelNewLogger -- Tests that the new level doesn't affect the base logger
TestWithFieldsNewLogger - Test functionality on a new Logger
TestSetJSONFormatter - Tests that the output results in JSON Format
*/

func isJSON(s string) bool {
	var js map[string]interface{}
	return json.Unmarshal([]byte(s), &js) == nil
}

func TestFileOutputNewLogger(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	// Create a buffer (mimics a file) for the output
	var bufNewLogger bytes.Buffer

	nl := NewLogger()
	nl.SetOutput(&bufNewLogger)

	nl.Info("Should show up in New logger but not in BaseLogger")

	a.Contains(bufNewLogger.String(), "Should show up in New logger but not in BaseLogger")
}

func TestSetGetLevel(t *testing.T) {
	partitiontest.PartitionTest(t)

	nl := NewLogger()
	require.Equal(t, Info, nl.GetLevel())
	nl.SetLevel(Error)
	require.Equal(t, Error, nl.GetLevel())
	require.True(t, nl.IsLevelEnabled(Error))
	require.False(t, nl.IsLevelEnabled(Warn))

	// the base logger is not affected
	require.Equal(t, Warn, Base().GetLevel())
}

func TestSetLevelNewLogger(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	var bufNewLogger bytes.Buffer

	// Debug level is info by default
	nl := NewLogger()
	nl.SetOutput(&bufNewLogger)

	nl.Debug("ABC Should not show up")
	nl.Info("CDF Should show up")
	nl.Warn("GHI Should show up")

	a.NotContains(bufNewLogger.String(), "ABC Should not show up")
	a.Contains(bufNewLogger.String(), "CDF Should show up")
	a.Contains(bufNewLogger.String(), "GHI Should show up")
}

func TestWithFieldsNewLogger(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	var bufNewLogger bytes.Buffer

	nl := NewLogger()
	nl.SetOutput(&bufNewLogger)

	nl.WithFields(Fields{"1": 4, "2": "testNew"}).Info("ABCDEFG")
	a.Regexp("level=info msg=ABCDEFG 1=4 2=testNew file=log_test.go function=github.com/poolvote/go-poolvote/logging.TestWithFieldsNewLogger line=\\d+", bufNewLogger.String())
}

func TestWithKeyNewLogger(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	var bufNewLogger bytes.Buffer

	nl := NewLogger()
	nl.SetOutput(&bufNewLogger)

	nl.With("wallet", "nami").Warnf("wallet %s rejected", "nami")
	a.Contains(bufNewLogger.String(), "wallet=nami")
	a.Contains(bufNewLogger.String(), "wallet nami rejected")
}

func TestSetJSONFormatter(t *testing.T) {
	partitiontest.PartitionTest(t)
	a := require.New(t)

	var bufNewLogger bytes.Buffer

	nl := NewLogger()
	nl.SetOutput(&bufNewLogger)
	nl.SetJSONFormatter()
	nl.WithFields(Fields{"1": 4, "2": "testNew"}).Info("ABCDEFG")
	a.True(isJSON(bufNewLogger.String()))
}

func TestParseLevel(t *testing.T) {
	partitiontest.PartitionTest(t)

	lvl, err := ParseLevel("debug")
	require.NoError(t, err)
	require.Equal(t, Debug, lvl)

	lvl, err = ParseLevel("WARN")
	require.NoError(t, err)
	require.Equal(t, Warn, lvl)

	lvl, err = ParseLevel("trace")
	require.NoError(t, err)
	require.Equal(t, Debug, lvl)

	_, err = ParseLevel("loud")
	require.Error(t, err)
}

func TestLogSourceKeepsUpstreamLicense(t *testing.T) {
	partitiontest.PartitionTest(t)

	src, err := os.ReadFile("log.go")
	require.NoError(t, err)
	text := string(src)

	upstream := strings.Index(text, "Copyright 2015 The Prometheus Authors")
	project := strings.Index(text, "Copyright (C) 2025 The go-poolvote Authors")
	require.GreaterOrEqual(t, upstream, 0)
	require.Contains(t, text, "Licensed under the Apache License, Version 2.0")
	require.Contains(t, text, "// Changes from original")
	require.Greater(t, project, upstream)
}

func TestSourceHeadersNameProjectAuthors(t *testing.T) {
	partitiontest.PartitionTest(t)

	root, err := filepath.Abs("..")
	require.NoError(t, err)
	checked := 0
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && strings.HasPrefix(d.Name(), "_") {
			return filepath.SkipDir
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") {
			return nil
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		require.Contains(t, string(src), "// Copyright (C) 2025 The go-poolvote Authors", path)
		checked++
		return nil
	})
	require.NoError(t, err)
	require.Greater(t, checked, 0)
}
