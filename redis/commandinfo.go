// Copyright 2014 Gary Burd
//
// Licensed under the Apache License, Version 2.0 (the "License"): you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations
// under the License.

package redis

import (
	"strings"
)

// minVersions maps commands to the server version that introduced them.
var minVersions = map[string]ServerVersion{
	"BITFIELD":    {3, 2, 0},
	"BITFIELD_RO": {6, 2, 0},
	"GETDEL":      {6, 2, 0},
	"GETEX":       {6, 2, 0},
	"HSCAN":       {2, 8, 0},
	"INCRBYFLOAT": {2, 6, 0},
	"SCAN":        {2, 8, 0},
	"SSCAN":       {2, 8, 0},
	"TOUCH":       {3, 2, 1},
	"UNLINK":      {4, 0, 0},
	"ZSCAN":       {2, 8, 0},
}

func lookupMinVersion(commandName string) (ServerVersion, bool) {

	// optimize for correctly cased strings
	switch commandName {
	case "BITFIELD", "bitfield":
		return minVersions["BITFIELD"], true
	case "TOUCH", "touch":
		return minVersions["TOUCH"], true
	default:
		v, ok := minVersions[strings.ToUpper(commandName)]
		return v, ok
	}
}
