package machine

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dolthub/swiss"
)

// Map is a shared, mutable collection keyed by string, per spec §3. It is
// backed by a swiss-table map for O(1) amortized Get/SetKey, same
// structure the teacher repository uses for its own Map type, generalized
// from Value keys to the string keys this language's Map actually needs
// (Map literal keys, SetKey names and field names are strings in the AST).
type Map struct {
	mu sync.Mutex
	m  *swiss.Map[string, Value]
}

var (
	_ Value     = (*Map)(nil)
	_ Mapping   = (*Map)(nil)
	_ HasSetKey = (*Map)(nil)
	_ Iterable  = (*Map)(nil)
)

// NewMap returns an empty map with initial capacity for at least size
// entries.
func NewMap(size int) *Map {
	if size < 1 {
		size = 1
	}
	return &Map{m: swiss.NewMap[string, Value](uint32(size))}
}

func (m *Map) Type() string { return "map" }

// String renders the map in a canonical, insertion-order-independent form
// (sorted by key), per the "displayed form is canonical" testable
// property: two maps built from the same entries in different orders must
// display identically.
func (m *Map) String() string {
	m.mu.Lock()
	keys := make([]string, 0, m.m.Count())
	m.m.Iter(func(k string, _ Value) bool {
		keys = append(keys, k)
		return false
	})
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(",")
		}
		v, _ := m.m.Get(k)
		fmt.Fprintf(&b, "%s:%s", k, v.String())
	}
	b.WriteString("}")
	m.mu.Unlock()
	return b.String()
}

func (m *Map) Get(k string) (Value, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.m.Get(k)
	return v, ok
}

func (m *Map) SetKey(k string, v Value) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.m.Put(k, v)
	return nil
}

// Equals compares two maps by content: same key set, pairwise-equal
// values, regardless of insertion order (scenario 6).
func (m *Map) Equals(y Value) (bool, error) {
	o, ok := y.(*Map)
	if !ok {
		return false, nil
	}
	if m == o {
		return true, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o.mu.Lock()
	defer o.mu.Unlock()
	if m.m.Count() != o.m.Count() {
		return false, nil
	}
	eq := true
	m.m.Iter(func(k string, v Value) bool {
		ov, found := o.m.Get(k)
		if !found {
			eq = false
			return true
		}
		same, err := Equals(v, ov)
		if err != nil || !same {
			eq = false
			return true
		}
		return false
	})
	return eq, nil
}

func (m *Map) Iterate() Iterator {
	m.mu.Lock()
	pairs := make([]Value, 0, m.m.Count())
	m.m.Iter(func(k string, v Value) bool {
		pairs = append(pairs, NewTuple(Str(k), v))
		return false
	})
	m.mu.Unlock()
	return &mapIterator{pairs: pairs}
}

type mapIterator struct {
	pairs []Value
	i     int
}

func (it *mapIterator) Next(p *Value) bool {
	if it.i >= len(it.pairs) {
		return false
	}
	*p = it.pairs[it.i]
	it.i++
	return true
}

func (it *mapIterator) Done() {}
