package machine

import (
	"strings"
	"sync"
)

// List is a shared, mutable, ordered sequence of values. Two List values
// holding the same *List pointer are the same list: assignment and
// argument passing share identity, matching spec §3's "shared, mutable
// ordered sequence" variant.
type List struct {
	mu   sync.Mutex
	elts []Value
}

// NewList creates a List containing elts, taking ownership of the slice.
func NewList(elts ...Value) *List {
	return &List{elts: elts}
}

func (l *List) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var b strings.Builder
	b.WriteString("[")
	for i, e := range l.elts {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(e.String())
	}
	b.WriteString("]")
	return b.String()
}

func (*List) Type() string { return "list" }

// Push appends v to the end of the list. It returns nothing; the
// prelude's push(list, v) function returns the list itself.
func (l *List) Push(v Value) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.elts = append(l.elts, v)
}

func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.elts)
}

func (l *List) Index(i int) Value {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= len(l.elts) {
		return Nil
	}
	return l.elts[i]
}

func (l *List) SetIndex(i int, v Value) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= len(l.elts) {
		return
	}
	l.elts[i] = v
}

func (l *List) Iterate() Iterator {
	l.mu.Lock()
	snapshot := append([]Value(nil), l.elts...)
	l.mu.Unlock()
	return &listIterator{elts: snapshot}
}

type listIterator struct {
	elts []Value
	i    int
}

func (it *listIterator) Next(p *Value) bool {
	if it.i >= len(it.elts) {
		return false
	}
	*p = it.elts[it.i]
	it.i++
	return true
}

func (it *listIterator) Done() {}
