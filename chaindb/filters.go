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
	"fmt"
	"strings"
)

// PostgREST horizontal filtering helpers. See
// https://postgrest.org/en/stable/references/api/tables_views.html#horizontal-filtering

func eq(value interface{}) string {
	return fmt.Sprintf("eq.%v", value)
}

func condition(column, operator string, value interface{}) string {
	return fmt.Sprintf("%s.%s.%v", column, operator, value)
}

func and(conditions ...string) string {
	return "(" + strings.Join(conditions, ",") + ")"
}

func orderAsc(column string) string {
	return column + ".asc"
}

func orderDesc(column string) string {
	return column + ".desc"
}
