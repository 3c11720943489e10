package query

// Kind classifies the underlying value type of a registered field. It drives
// raw-value coercion, comparison semantics and SQL lowering.
type Kind int

const (
	KindString Kind = iota
	KindInt32
	KindInt64
	KindFloat
	KindDecimal
	KindBool
	KindTime
	KindEnum
	KindUUID
)

// orderable reports whether gt/gte/lt/lte make sense for the kind.
func (k Kind) orderable() bool {
	switch k {
	case KindString, KindInt32, KindInt64, KindFloat, KindDecimal, KindTime:
		return true
	}
	return false
}

// Field is a typed accessor for one externally exposed field name.
//
// Get reads the value off an entity for in-memory evaluation; a nil result
// means the field is null. The returned value must match the Kind: string,
// int32, int64, float64, decimal.Decimal, bool, time.Time, the enum's
// canonical name string, or uuid.UUID. Column is the storage column name a
// SQL backend lowers the field to.
type Field[T any] struct {
	Kind   Kind
	Column string
	Get    func(T) any

	// Enum lists valid names for KindEnum, matched case-insensitively.
	Enum []string
}

// Field constructors, one per kind.

func String[T any](column string, get func(T) any) Field[T] {
	return Field[T]{Kind: KindString, Column: column, Get: get}
}

func Int32[T any](column string, get func(T) any) Field[T] {
	return Field[T]{Kind: KindInt32, Column: column, Get: get}
}

func Int64[T any](column string, get func(T) any) Field[T] {
	return Field[T]{Kind: KindInt64, Column: column, Get: get}
}

func Float[T any](column string, get func(T) any) Field[T] {
	return Field[T]{Kind: KindFloat, Column: column, Get: get}
}

func Decimal[T any](column string, get func(T) any) Field[T] {
	return Field[T]{Kind: KindDecimal, Column: column, Get: get}
}

func Bool[T any](column string, get func(T) any) Field[T] {
	return Field[T]{Kind: KindBool, Column: column, Get: get}
}

func Time[T any](column string, get func(T) any) Field[T] {
	return Field[T]{Kind: KindTime, Column: column, Get: get}
}

func Enum[T any](column string, names []string, get func(T) any) Field[T] {
	return Field[T]{Kind: KindEnum, Column: column, Get: get, Enum: names}
}

func UUID[T any](column string, get func(T) any) Field[T] {
	return Field[T]{Kind: KindUUID, Column: column, Get: get}
}

// Registry is the per-entity-type whitelist mapping external field names to
// typed accessors. Only registered names are ever compiled into query
// operations; anything else a caller sends is silently inert.
//
// A registry is built once at configuration time by the entity owner and
// must not be mutated afterwards; the engine reads it concurrently.
type Registry[T any] struct {
	filterable map[string]Field[T]
	sortable   map[string]Field[T]
	includes   map[string]struct{}

	// searchKey is the canonical title/name field the free-text fallback
	// matches against; empty disables the fallback.
	searchKey string

	// defaultKey is the canonical creation-timestamp field used as the
	// descending default order when no requested sort key survives.
	defaultKey string
}

// NewRegistry creates an empty registry for entity type T.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		filterable: make(map[string]Field[T]),
		sortable:   make(map[string]Field[T]),
		includes:   make(map[string]struct{}),
	}
}

// Filterable registers a field for filtering only.
func (r *Registry[T]) Filterable(name string, f Field[T]) *Registry[T] {
	r.filterable[name] = f
	return r
}

// Sortable registers a field for sorting only.
func (r *Registry[T]) Sortable(name string, f Field[T]) *Registry[T] {
	r.sortable[name] = f
	return r
}

// Field registers a field for both filtering and sorting.
func (r *Registry[T]) Field(name string, f Field[T]) *Registry[T] {
	r.filterable[name] = f
	r.sortable[name] = f
	return r
}

// Includes adds names to the eager-load allow-set.
func (r *Registry[T]) Includes(names ...string) *Registry[T] {
	for _, n := range names {
		r.includes[n] = struct{}{}
	}
	return r
}

// SearchOn declares the canonical search field for the free-text fallback.
// The name must already be registered as filterable.
func (r *Registry[T]) SearchOn(name string) *Registry[T] {
	if _, ok := r.filterable[name]; ok {
		r.searchKey = name
	}
	return r
}

// DefaultSort declares the canonical creation-timestamp field. When a request
// carries no usable sort key the pipeline orders descending on it, keeping
// pagination deterministic. The name must already be registered as sortable.
func (r *Registry[T]) DefaultSort(name string) *Registry[T] {
	if _, ok := r.sortable[name]; ok {
		r.defaultKey = name
	}
	return r
}

func (r *Registry[T]) filterField(name string) (Field[T], bool) {
	f, ok := r.filterable[name]
	return f, ok
}

func (r *Registry[T]) sortField(name string) (Field[T], bool) {
	f, ok := r.sortable[name]
	return f, ok
}

func (r *Registry[T]) includeAllowed(name string) bool {
	_, ok := r.includes[name]
	return ok
}
