// Package ast defines the homoiconic abstract syntax this language's
// compiler consumes. Per spec §3 and §6, an AST node is not a distinct Go
// struct hierarchy: it is a tagged machine.List whose first element is a
// Syn value identifying the node's shape, followed by its children
// (sub-nodes, literal values, or Sym names) in a fixed, tag-specific
// order. The parser builds these lists directly; the compiler switches on
// their Syn tag.
//
// Literal leaves (Int, Float, Str, Bool, Null) are not wrapped in a tagged
// node at all: they are self-evaluating machine.Value constants sitting
// directly in a parent node's slot, exactly the way a homoiconic tree
// represents data and code with the same structure. The compiler's
// default case for any non-*machine.List Expr treats it as such a
// constant.
//
// Variadic-children tags (Block, Lst, Map, Call) deviate from spec §6's
// literal layout, which trails the variable part directly off the tag
// ([Block, stmt...] rather than [Block, [stmt...]]): here the variable
// part is nested one level down, in its own inner *machine.List, so that
// Index(1) always gives the whole children sequence as a single value
// regardless of tag. Every accessor (BlockStmts, LstElts, MapPairs,
// CallArgs) and the corresponding compiler case agree on this layout, so
// it is not externally observable; Func additionally carries a Name Sym
// (its optional, purely diagnostic closure name) that spec's own
// [Func, stmt...] layout has no room for.
package ast

import (
	"strings"

	"github.com/loamlang/loam/lang/machine"
)

// Syn tags the head of every AST node list. It is a distinct machine.Value
// type (not a plain machine.Sym) so that a Syn can never be mistaken for a
// symbol value flowing through ordinary evaluation.
type Syn string

func (s Syn) String() string { return "Syn:" + string(s) }
func (Syn) Type() string     { return "syn" }

// The tag set named by spec §3: Block, Var, Def, DefRef, Assign, Key,
// SetKey, Lst, Map, Call, Func. There is deliberately no BinOp/arithmetic
// tag: operators desugar to Call at parse time (see lang/parser), matching
// how the original implementation's prelude, not its AST, owns arithmetic.
const (
	SynBlock  Syn = "Block"
	SynVar    Syn = "Var"
	SynDef    Syn = "Def"
	SynDefRef Syn = "DefRef"
	SynAssign Syn = "Assign"
	SynKey    Syn = "Key"
	SynSetKey Syn = "SetKey"
	SynLst    Syn = "Lst"
	SynMap    Syn = "Map"
	SynCall   Syn = "Call"
	SynFunc   Syn = "Func"
)

// Node is a convenience alias: every composite AST node is a *machine.List
// whose Index(0) is a Syn.
type Node = *machine.List

// Expr is anything that can sit in an expression slot: a composite Node,
// or a self-evaluating literal machine.Value leaf.
type Expr = machine.Value

// Tag returns n's Syn tag, or "" if n is not a well-formed composite node
// (in particular, if n is a literal leaf).
func Tag(n Expr) Syn {
	lst, ok := n.(*machine.List)
	if !ok || lst.Len() == 0 {
		return ""
	}
	s, _ := lst.Index(0).(Syn)
	return s
}

// AsNode returns n as a composite Node, panicking if it is a literal leaf;
// used only where the grammar guarantees n must be composite (e.g. a Func
// literal's body, which is always a Block).
func AsNode(n Expr) Node { return n.(Node) }

func build(tag Syn, rest ...machine.Value) Node {
	elts := make([]machine.Value, 0, len(rest)+1)
	elts = append(elts, tag)
	elts = append(elts, rest...)
	return machine.NewList(elts...)
}

// Block builds a Block node: a sequence of statements/expressions
// evaluated in order, yielding the last one's value (Nil if empty).
func Block(stmts ...Expr) Node {
	elts := make([]machine.Value, len(stmts))
	copy(elts, stmts)
	return build(SynBlock, machine.NewList(elts...))
}

// BlockStmts returns a Block node's statement list.
func BlockStmts(n Node) []Expr {
	lst, _ := n.Index(1).(*machine.List)
	if lst == nil {
		return nil
	}
	out := make([]Expr, lst.Len())
	for i := range out {
		out[i] = lst.Index(i)
	}
	return out
}

// Var builds a Var node: a read reference to name, resolved at compile
// time to Local/Upvalue/Global.
func Var(name string) Node { return build(SynVar, machine.Sym(name)) }

// VarName returns a Var node's name.
func VarName(n Node) string { return string(n.Index(1).(machine.Sym)) }

// Def builds a Def node: `!name = expr`, introducing a new local binding
// in the enclosing scope (at top level, a local of the top-level scope).
func Def(name string, expr Expr) Node { return build(SynDef, machine.Sym(name), expr) }

// DefRef builds a DefRef node: `!:ref name = expr`, introducing a new
// local binding boxed into a shared machine.Ref cell so that closures
// capturing it observe later mutations.
func DefRef(name string, expr Expr) Node { return build(SynDefRef, machine.Sym(name), expr) }

// DefName and DefExpr read the two fields shared by Def and DefRef nodes.
func DefName(n Node) string { return string(n.Index(1).(machine.Sym)) }
func DefExpr(n Node) Expr   { return n.Index(2) }

// Assign builds an Assign node: `.name = expr`, rebinding an existing
// Local/Upvalue (it is a compile error if name was never Def'd; globals
// cannot be assigned).
func Assign(name string, expr Expr) Node { return build(SynAssign, machine.Sym(name), expr) }

func AssignName(n Node) string { return string(n.Index(1).(machine.Sym)) }
func AssignExpr(n Node) Expr   { return n.Index(2) }

// Key builds a Key node: a literal :sym, the "selector" half of the
// field-read convention (`container.field` desugars to
// Call(Key(field), [container])).
func Key(sym string) Node { return build(SynKey, machine.Sym(sym)) }

func KeySym(n Node) string { return string(n.Index(1).(machine.Sym)) }

// SetKey builds a SetKey node: `target.field = expr`.
func SetKey(target Expr, key string, expr Expr) Node {
	return build(SynSetKey, target, machine.Sym(key), expr)
}

func SetKeyTarget(n Node) Expr { return n.Index(1) }
func SetKeyName(n Node) string { return string(n.Index(2).(machine.Sym)) }
func SetKeyExpr(n Node) Expr   { return n.Index(3) }

// Lst builds an Lst node: a `$[...]` list literal.
func Lst(elts ...Expr) Node {
	vs := make([]machine.Value, len(elts))
	copy(vs, elts)
	return build(SynLst, machine.NewList(vs...))
}

func LstElts(n Node) []Expr {
	lst := n.Index(1).(*machine.List)
	out := make([]Expr, lst.Len())
	for i := range out {
		out[i] = lst.Index(i)
	}
	return out
}

// MapPair is one `:key = expr` entry of a Map literal.
type MapPair struct {
	Key  string
	Expr Expr
}

// Map builds a Map node: a `${...}` map literal.
func Map(pairs ...MapPair) Node {
	vs := make([]machine.Value, len(pairs)*2)
	for i, p := range pairs {
		vs[i*2] = machine.Sym(p.Key)
		vs[i*2+1] = p.Expr
	}
	return build(SynMap, machine.NewList(vs...))
}

func MapPairs(n Node) []MapPair {
	lst := n.Index(1).(*machine.List)
	out := make([]MapPair, 0, lst.Len()/2)
	for i := 0; i+1 < lst.Len(); i += 2 {
		out = append(out, MapPair{Key: string(lst.Index(i).(machine.Sym)), Expr: lst.Index(i + 1)})
	}
	return out
}

// Call builds a Call node: fn applied to args, in source order.
func Call(fn Expr, args ...Expr) Node {
	vs := make([]machine.Value, len(args))
	copy(vs, args)
	return build(SynCall, fn, machine.NewList(vs...))
}

func CallFn(n Node) Expr { return n.Index(1) }
func CallArgs(n Node) []Expr {
	lst := n.Index(2).(*machine.List)
	out := make([]Expr, lst.Len())
	for i := range out {
		out[i] = lst.Index(i)
	}
	return out
}

// Func builds a Func node: a `{...}` function literal with the given body
// block. Arguments are read positionally from the call's argument window
// via `_`, `_1`..`_9`, or the whole window via `@`, so there is no
// separate parameter-name list to carry in the node.
func Func(name string, body Node) Node {
	return build(SynFunc, machine.Sym(name), body)
}

func FuncName(n Node) string { return string(n.Index(1).(machine.Sym)) }
func FuncBody(n Node) Node   { return n.Index(2).(Node) }

// Print renders an AST node as a parenthesized s-expression, for
// diagnostics and golden-file tests; it is not used by the compiler.
func Print(n machine.Value) string {
	var b strings.Builder
	print(&b, n)
	return b.String()
}

func print(b *strings.Builder, v machine.Value) {
	lst, ok := v.(*machine.List)
	if !ok {
		b.WriteString(v.String())
		return
	}
	b.WriteString("(")
	for i := 0; i < lst.Len(); i++ {
		if i > 0 {
			b.WriteString(" ")
		}
		print(b, lst.Index(i))
	}
	b.WriteString(")")
}
