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

package codecs

import (
	"encoding/hex"
)

// StrToHex encodes the UTF-8 bytes of s as lowercase hex pairs. It is the default payload
// encoder used before asking a wallet to sign data.
func StrToHex(s string) string {
	return hex.EncodeToString([]byte(s))
}

// HexToStr is the inverse of StrToHex.
func HexToStr(h string) (string, error) {
	b, err := hex.DecodeString(h)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
