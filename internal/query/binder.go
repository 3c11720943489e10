package query

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
)

// filter keys arrive as filter[field] or filter[field][operator].
var filterKeyRE = regexp.MustCompile(`^filter\[([^\[\]]+)\](?:\[([^\[\]]+)\])?$`)

// BindValues produces Params from raw request key/value pairs.
//
// Recognized keys: search, sort, include, page, pageSize, and filter[field]
// or filter[field][operator] with the operator defaulting to eq. Keys are
// resolved in alphabetical order so that a field receiving multiple operator
// entries binds deterministically regardless of transport ordering. For a
// repeated key the first value wins. Anything unrecognized (including
// non-numeric page values) is ignored per the ignored-input policy.
func BindValues(values url.Values) Params {
	p := NewParams()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := values.Get(key)

		switch key {
		case "search":
			p.FreeText = value
			continue
		case "sort":
			p.Sort = value
			continue
		case "include":
			p.Include = value
			continue
		case "page":
			if n, err := strconv.Atoi(value); err == nil {
				p.Page = n
			}
			continue
		case "pageSize":
			if n, err := strconv.Atoi(value); err == nil {
				p.PageSize = n
			}
			continue
		}

		m := filterKeyRE.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		field, op := m[1], m[2]
		if op == "" {
			op = "eq"
		}
		if p.Filters == nil {
			p.Filters = make(map[string]map[string]string)
		}
		if p.Filters[field] == nil {
			p.Filters[field] = make(map[string]string)
		}
		p.Filters[field][op] = value
	}

	return p
}
