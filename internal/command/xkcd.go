package command

import (
	"strconv"
	"strings"
)

// xkcdAliases maps well-known phrases to comic numbers.
var xkcdAliases = map[string]uint64{
	"tautology":          703,
	"tautological":       703,
	"honor society":      703,
	"python":             353,
	"import antigravity": 353,
	"antigravity":        353,
	"haskell":            1312,
	"side effects":       1312,
	"trolley problem":    1455,
	"linux":              272,
	"os":                 272,
}

// XkcdFromText resolves free text to a comic number. A numeric argument wins;
// otherwise the alias table is consulted case-insensitively, and anything
// unmatched lands on 404. Total, never fails.
func XkcdFromText(text string) uint64 {
	if id, err := strconv.ParseUint(text, 10, 64); err == nil {
		return id
	}
	if id, ok := xkcdAliases[strings.ToLower(text)]; ok {
		return id
	}
	return 404
}
