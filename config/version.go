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
	"fmt"
	"strconv"
)

// Do NOT remove or rename these constants - they are inspected by build tools

// VersionMajor is the Major semantic version number (#.y.z)
const VersionMajor = 0

// VersionMinor is the Minor semantic version number (x.#.z)
const VersionMinor = 3

// Version is the type holding our full version information.
type Version struct {
	Major       int
	Minor       int
	BuildNumber int
	CommitHash  string
	Branch      string
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.BuildNumber)
}

// GetCurrentVersion retrieves a copy of the current global Version structure (for the application)
func GetCurrentVersion() Version {
	buildNumber, _ := strconv.Atoi(BuildNumber)
	return Version{
		Major:       VersionMajor,
		Minor:       VersionMinor,
		BuildNumber: buildNumber,
		CommitHash:  CommitHash,
		Branch:      Branch,
	}
}

// FormatVersionAndLicense prints current version and license information
func FormatVersionAndLicense() string {
	version := GetCurrentVersion()
	return fmt.Sprintf("%s [%s] (commit #%s)\ngo-poolvote is licensed with AGPLv3.0\nsource code available at https://github.com/poolvote/go-poolvote",
		version.String(), version.Branch, version.CommitHash)
}
