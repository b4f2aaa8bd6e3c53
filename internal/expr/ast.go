package expr

import (
	"context"

	"github.com/wippyai/imath-bind/host"
)

// node is an expression or statement. eval returns the value it produced;
// statements other than bare expressions produce nil.
type node interface {
	eval(ctx context.Context, e *Evaluator) (host.Value, error)
}

type literal struct {
	v host.Value
}

type name struct {
	id string
}

type attr struct {
	obj  node
	name string
}

type index struct {
	obj node
	key node
}

type slice struct {
	start, stop, step node
}

type call struct {
	fn   node
	args []node
}

type binary struct {
	op   host.Op
	l, r node
}

// compare is a comparison chain: a < b <= c.
type compare struct {
	first node
	ops   []host.Op
	rest  []node
}

type unary struct {
	op host.Op
	x  node
}

type not struct {
	x node
}

type boolOp struct {
	and  bool
	l, r node
}

type tuple struct {
	items []node
}

type list struct {
	items []node
}

type assign struct {
	target node
	value  node
}

type augAssign struct {
	target node
	op     host.Op
	value  node
}

type exprStmt struct {
	x node
}

func (n *literal) eval(context.Context, *Evaluator) (host.Value, error) {
	return n.v, nil
}

func (n *name) eval(_ context.Context, e *Evaluator) (host.Value, error) {
	return e.resolve(n.id)
}

func (n *attr) eval(ctx context.Context, e *Evaluator) (host.Value, error) {
	obj, err := n.obj.eval(ctx, e)
	if err != nil {
		return nil, err
	}
	return e.rt.GetAttr(ctx, obj, n.name)
}

func (n *index) eval(ctx context.Context, e *Evaluator) (host.Value, error) {
	obj, err := n.obj.eval(ctx, e)
	if err != nil {
		return nil, err
	}
	key, err := n.key.eval(ctx, e)
	if err != nil {
		return nil, err
	}
	return e.rt.GetItem(ctx, obj, key)
}

func (n *slice) eval(ctx context.Context, e *Evaluator) (host.Value, error) {
	s := &host.Slice{}
	for _, b := range []struct {
		n   node
		dst *host.Value
	}{{n.start, &s.Start}, {n.stop, &s.Stop}, {n.step, &s.Step}} {
		if b.n == nil {
			continue
		}
		v, err := b.n.eval(ctx, e)
		if err != nil {
			return nil, err
		}
		*b.dst = v
	}
	return s, nil
}

func (n *call) eval(ctx context.Context, e *Evaluator) (host.Value, error) {
	fn, err := n.fn.eval(ctx, e)
	if err != nil {
		return nil, err
	}
	args, err := evalAll(ctx, e, n.args)
	if err != nil {
		return nil, err
	}
	return e.rt.Call(ctx, fn, args...)
}

func (n *binary) eval(ctx context.Context, e *Evaluator) (host.Value, error) {
	l, err := n.l.eval(ctx, e)
	if err != nil {
		return nil, err
	}
	r, err := n.r.eval(ctx, e)
	if err != nil {
		return nil, err
	}
	return e.rt.Binary(ctx, n.op, l, r)
}

func (n *compare) eval(ctx context.Context, e *Evaluator) (host.Value, error) {
	l, err := n.first.eval(ctx, e)
	if err != nil {
		return nil, err
	}
	var res host.Value
	for i, op := range n.ops {
		r, err := n.rest[i].eval(ctx, e)
		if err != nil {
			return nil, err
		}
		res, err = e.rt.Binary(ctx, op, l, r)
		if err != nil {
			return nil, err
		}
		if i == len(n.ops)-1 {
			break
		}
		ok, err := e.rt.Truth(ctx, res)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		l = r
	}
	return res, nil
}

func (n *unary) eval(ctx context.Context, e *Evaluator) (host.Value, error) {
	x, err := n.x.eval(ctx, e)
	if err != nil {
		return nil, err
	}
	return e.rt.Unary(ctx, n.op, x)
}

func (n *not) eval(ctx context.Context, e *Evaluator) (host.Value, error) {
	x, err := n.x.eval(ctx, e)
	if err != nil {
		return nil, err
	}
	ok, err := e.rt.Truth(ctx, x)
	if err != nil {
		return nil, err
	}
	return !ok, nil
}

func (n *boolOp) eval(ctx context.Context, e *Evaluator) (host.Value, error) {
	l, err := n.l.eval(ctx, e)
	if err != nil {
		return nil, err
	}
	ok, err := e.rt.Truth(ctx, l)
	if err != nil {
		return nil, err
	}
	if ok != n.and {
		return l, nil
	}
	return n.r.eval(ctx, e)
}

func (n *tuple) eval(ctx context.Context, e *Evaluator) (host.Value, error) {
	items, err := evalAll(ctx, e, n.items)
	if err != nil {
		return nil, err
	}
	return host.Tuple(items), nil
}

func (n *list) eval(ctx context.Context, e *Evaluator) (host.Value, error) {
	items, err := evalAll(ctx, e, n.items)
	if err != nil {
		return nil, err
	}
	return host.NewList(items...), nil
}

func (n *assign) eval(ctx context.Context, e *Evaluator) (host.Value, error) {
	v, err := n.value.eval(ctx, e)
	if err != nil {
		return nil, err
	}
	return nil, e.store(ctx, n.target, v)
}

func (n *augAssign) eval(ctx context.Context, e *Evaluator) (host.Value, error) {
	cur, err := n.target.eval(ctx, e)
	if err != nil {
		return nil, err
	}
	v, err := n.value.eval(ctx, e)
	if err != nil {
		return nil, err
	}
	res, err := e.rt.InPlace(ctx, n.op, cur, v)
	if err != nil {
		return nil, err
	}
	return nil, e.store(ctx, n.target, res)
}

func (n *exprStmt) eval(ctx context.Context, e *Evaluator) (host.Value, error) {
	return n.x.eval(ctx, e)
}

func evalAll(ctx context.Context, e *Evaluator, nodes []node) ([]host.Value, error) {
	out := make([]host.Value, len(nodes))
	for i, n := range nodes {
		v, err := n.eval(ctx, e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
