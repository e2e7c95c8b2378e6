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

package voting

import (
	"github.com/poolvote/go-poolvote/util/metrics"
)

var validationRejections = metrics.NewTagCounter(
	"poolvote_voting_rejections_{TAG}",
	"Number of vote validations rejected, by error kind",
	string(KindNoVotesGiven), string(KindNoUsedAddresses), string(KindStakeAddressMismatch),
	string(KindPoolAddressMismatch), string(KindCurrentEpochHasChanged), string(KindVotingPowerExcess),
)

var validationsAccepted = metrics.NewCounter(
	"poolvote_voting_accepted",
	"Number of vote validations accepted",
)
