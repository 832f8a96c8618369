package tenants

import (
	"regexp"
	"strings"
)

const collectionPrefix = "org_"

var unsafeChars = regexp.MustCompile(`[^a-z0-9_]`)

// DeriveCollectionName maps a human-chosen organization name to its backing
// collection name. Must stay deterministic: the same org name always yields
// the same collection, and renames depend on re-deriving it.
func DeriveCollectionName(name string) string {
	return collectionPrefix + unsafeChars.ReplaceAllString(strings.ToLower(name), "_")
}
