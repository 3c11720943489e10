package query

import "strings"

// ResolveIncludes filters requested eager-load hints through the registry
// allow-set and hands the survivors to the externally supplied loader. The
// resolver never knows how eager-loading is implemented; it only gates which
// names may reach the function. With no surviving names (or no loader) the
// source is returned unmodified.
func ResolveIncludes[T any](src Source[T], reg *Registry[T], include string, apply ApplyInclude[T]) Source[T] {
	if apply == nil || strings.TrimSpace(include) == "" {
		return src
	}

	var names []string
	for _, token := range strings.Split(include, ",") {
		token = strings.TrimSpace(token)
		if token == "" || !reg.includeAllowed(token) {
			continue
		}
		names = append(names, token)
	}

	if len(names) == 0 {
		return src
	}
	return apply(src, names)
}
