package query

import "strings"

// CompileSort turns the comma-separated sort expression into an ordered key
// list. A leading '-' marks descending and is stripped before lookup. Names
// absent from the sortable registry are skipped, not erred: the first
// surviving key is the primary order and each later key breaks ties left by
// the ones before it.
func CompileSort[T any](reg *Registry[T], sortExpr string) []SortKey[T] {
	if strings.TrimSpace(sortExpr) == "" {
		return nil
	}

	var keys []SortKey[T]
	for _, token := range strings.Split(sortExpr, ",") {
		token = strings.TrimSpace(token)
		desc := false
		if strings.HasPrefix(token, "-") {
			desc = true
			token = strings.TrimPrefix(token, "-")
		}
		if token == "" {
			continue
		}
		field, ok := reg.sortField(token)
		if !ok {
			continue
		}
		keys = append(keys, SortKey[T]{Field: field, Desc: desc})
	}
	return keys
}

// fallbackSort returns the default ordering applied when no requested key
// survives: descending on the registry's canonical creation-timestamp field,
// so pagination stays deterministic without an explicit sort parameter.
// Without such a field the source's natural order applies.
func fallbackSort[T any](reg *Registry[T]) []SortKey[T] {
	if reg.defaultKey == "" {
		return nil
	}
	field, ok := reg.sortField(reg.defaultKey)
	if !ok {
		return nil
	}
	return []SortKey[T]{{Field: field, Desc: true}}
}
