package kumiai

import (
	"fmt"
	"iter"
)

// Call is the state of one message invocation, handed to every Caller. It
// exposes the responder's mixin data and the arguments, and lets a unicast
// responder defer to the next bidder.
type Call struct {
	obj       *Object
	entry     *callTableEntry
	cur       *callTableMessage
	self      any
	args      []any
	msg       MessageID
	pos       int
	multicast bool
}

// Object returns the object the message was sent to.
func (c *Call) Object() *Object { return c.obj }

// Self returns the data of the responding mixin. For default
// implementations it is the *Object itself.
func (c *Call) Self() any { return c.self }

// Mixin returns the responding mixin, or InvalidMixinID for a default
// implementation.
func (c *Call) Mixin() MixinID { return c.cur.mixin }

// Bid returns the bid of the responding binding.
func (c *Call) Bid() int { return c.cur.bid }

// Message returns the dispatched message.
func (c *Call) Message() MessageID { return c.msg }

// Args returns the call arguments.
func (c *Call) Args() []any { return c.args }

// Arg returns the i-th argument, or nil if there are fewer arguments.
func (c *Call) Arg(i int) any {
	if i >= len(c.args) {
		return nil
	}
	return c.args[i]
}

// HasNext reports whether a lower bidder exists for a unicast call. It is
// always false inside a multicast.
func (c *Call) HasNext() bool {
	return !c.multicast && c.pos+1 < int(c.entry.count)
}

// Next invokes the next bidder of a unicast message with the same arguments
// and returns its result. It panics with *FallbackExhaustedError if there is
// no next bidder.
func (c *Call) Next() any {
	if !c.HasNext() {
		t := c.obj.typ
		panic(&FallbackExhaustedError{Message: t.domain.MessageName(c.msg), Type: t.String()})
	}
	e := c.entry
	next := *c
	next.pos = c.pos + 1
	next.cur = &c.obj.typ.buffer[e.offset+uint32(next.pos)]
	next.self = c.obj.data[next.cur.slot]
	return next.cur.caller.Call(&next)
}

// Call sends a unicast message to the object and returns the result of the
// highest bidder. If the type does not implement the message, the error is a
// *NotImplementedError.
//
// It panics if msg is a multicast message.
//
// Parameters:
//   - msg: The message to send.
//   - args: The call arguments, available to the responder via Call.Args.
//
// Returns:
//   - The responder's result, and nil or a *NotImplementedError.
func (o *Object) Call(msg MessageID, args ...any) (any, error) {
	e := &o.typ.callTable[msg]
	if !e.top.valid() {
		return nil, o.notImplemented(msg)
	}
	if e.kind == Multicast {
		panic(fmt.Sprintf("kumiai: message %q is multicast", o.typ.domain.MessageName(msg)))
	}
	c := Call{obj: o, entry: e, cur: &e.top, self: o.data[e.top.slot], args: args, msg: msg}
	return e.top.caller.Call(&c), nil
}

// CallAs is the typed form of Object.Call. A nil result yields the zero
// value of R; a result of another type panics.
func CallAs[R any](o *Object, msg MessageID, args ...any) (R, error) {
	v, err := o.Call(msg, args...)
	if err != nil {
		var zero R
		return zero, err
	}
	return resultAs[R](o, msg, v), nil
}

// MulticastAs sends a multicast message to the object and folds the results of
// every responder through combine. Results are produced lazily in descending
// bid order (ties in composition order) as combine consumes the sequence, so
// a combinator that stops early skips the remaining responders.
//
// If the type does not implement the message, combine is not invoked and the
// error is a *NotImplementedError. It panics if msg is a unicast message.
//
// Parameters:
//   - o: The Object to send the message to.
//   - msg: The message to send.
//   - combine: The combinator, e.g. Sum[int] or BoolOr.
//   - args: The call arguments.
//
// Returns:
//   - The combined result, and nil or a *NotImplementedError.
func MulticastAs[R, T any](o *Object, msg MessageID, combine func(results iter.Seq[R]) T, args ...any) (T, error) {
	t := o.typ
	e := &t.callTable[msg]
	if !e.top.valid() {
		var zero T
		return zero, o.notImplemented(msg)
	}
	if e.kind == Unicast {
		panic(fmt.Sprintf("kumiai: message %q is unicast", t.domain.MessageName(msg)))
	}
	ms := t.responders(e)
	return combine(func(yield func(R) bool) {
		c := Call{obj: o, entry: e, args: args, msg: msg, multicast: true}
		for i := range ms {
			c.pos = i
			c.cur = &ms[i]
			c.self = o.data[ms[i].slot]
			if !yield(resultAs[R](o, msg, ms[i].caller.Call(&c))) {
				return
			}
		}
	}), nil
}

// MulticastAll sends a multicast message to the object and invokes every
// responder, discarding their results.
func (o *Object) MulticastAll(msg MessageID, args ...any) error {
	_, err := MulticastAs(o, msg, Count[any], args...)
	return err
}

func resultAs[R any](o *Object, msg MessageID, v any) R {
	r, ok := v.(R)
	if !ok && v != nil {
		panic(fmt.Sprintf("kumiai: message %q returned %T, expected %T", o.typ.domain.MessageName(msg), v, r))
	}
	return r
}

func (o *Object) notImplemented(msg MessageID) error {
	t := o.typ
	err := &NotImplementedError{Message: t.domain.MessageName(msg), Type: t.String()}
	log.Debugf("%s", err)
	return err
}
