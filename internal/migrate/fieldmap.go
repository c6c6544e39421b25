package migrate

import (
	"sort"

	"git.home.luguber.info/inful/sitemigrate/internal/frontmatter"
)

// canonicalOrder fixes the emission order of mapped canonical fields.
var canonicalOrder = []string{"title", "description", "author", "date", "tags", "draft"}

// listKeys are canonical fields that are always list-valued.
var listKeys = map[string]bool{"tags": true, "aliases": true}

// MapFields builds a canonical header from a legacy one using an ordered
// first-match-wins candidate list per canonical key. Candidates are probed
// strictly in the configured order; the first present non-blank legacy value
// wins. Canonical keys with no matching legacy field are left unset.
func MapFields(legacy *frontmatter.Header, fieldMap map[string][]string) *frontmatter.Header {
	out := &frontmatter.Header{}

	for _, key := range mappingKeys(fieldMap) {
		for _, candidate := range fieldMap[key] {
			v, ok := legacy.Get(candidate)
			if !ok || v.IsBlank() {
				continue
			}
			if listKeys[key] && v.Kind() != frontmatter.KindList {
				v = frontmatter.List(v.List()...)
			}
			out.Set(key, v)
			break
		}
	}

	return out
}

// mappingKeys returns the canonical keys in stable order: the well-known
// ones first, then any extra configured keys alphabetically.
func mappingKeys(fieldMap map[string][]string) []string {
	known := make(map[string]bool, len(canonicalOrder))
	out := make([]string, 0, len(fieldMap))
	for _, key := range canonicalOrder {
		known[key] = true
		if _, ok := fieldMap[key]; ok {
			out = append(out, key)
		}
	}

	extra := make([]string, 0)
	for key := range fieldMap {
		if !known[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}
