package kumiai

import "fmt"

// MessageKind selects how a message is dispatched.
type MessageKind uint8

const (
	// Unicast messages invoke exactly one responder, the highest bidder.
	Unicast MessageKind = iota
	// Multicast messages invoke every responder in descending bid order.
	Multicast
	// DefaultOnly messages are never bound by mixins and always dispatch to
	// their default implementation.
	DefaultOnly
)

// String returns the lower-case kind name.
func (k MessageKind) String() string {
	switch k {
	case Unicast:
		return "unicast"
	case Multicast:
		return "multicast"
	case DefaultOnly:
		return "default"
	}
	return fmt.Sprintf("MessageKind(%d)", uint8(k))
}

// ParseMessageKind is the inverse of MessageKind.String.
func ParseMessageKind(s string) (MessageKind, error) {
	switch s {
	case "unicast", "":
		return Unicast, nil
	case "multicast":
		return Multicast, nil
	case "default":
		return DefaultOnly, nil
	}
	return 0, fmt.Errorf("unknown message kind %q", s)
}

// Caller invokes one implementation of a message on the data of one mixin.
// The mixin data and the call arguments are reached through the Call.
type Caller interface {
	Call(c *Call) any
}

// CallerFunc adapts an ordinary function to the Caller interface.
type CallerFunc func(c *Call) any

// Call implements Caller.
func (f CallerFunc) Call(c *Call) any { return f(c) }

// MessageOption configures a message at registration.
type MessageOption func(*messageInfo)

// WithDefault sets the implementation used when no mixin of a type binds the
// message. The default receives the object itself as Self.
func WithDefault(c Caller) MessageOption {
	return func(m *messageInfo) {
		m.def = c
	}
}

// argAs returns args[i] as A, or the zero value of A when the argument is
// missing or nil.
func argAs[A any](args []any, i int) A {
	var zero A
	if i >= len(args) {
		return zero
	}
	v, ok := args[i].(A)
	if !ok {
		if args[i] != nil {
			panic(fmt.Sprintf("kumiai: argument %d is %T, expected %T", i, args[i], zero))
		}
		return zero
	}
	return v
}

// Func0 binds a method-like function without arguments.
func Func0[M, R any](fn func(self *M) R) Caller {
	return CallerFunc(func(c *Call) any {
		return fn(c.self.(*M))
	})
}

// Func1 binds a method-like function with one argument.
func Func1[M, A, R any](fn func(self *M, a A) R) Caller {
	return CallerFunc(func(c *Call) any {
		return fn(c.self.(*M), argAs[A](c.args, 0))
	})
}

// Func2 binds a method-like function with two arguments.
func Func2[M, A, B, R any](fn func(self *M, a A, b B) R) Caller {
	return CallerFunc(func(c *Call) any {
		return fn(c.self.(*M), argAs[A](c.args, 0), argAs[B](c.args, 1))
	})
}

// Proc0 binds a method-like function without arguments or result.
func Proc0[M any](fn func(self *M)) Caller {
	return CallerFunc(func(c *Call) any {
		fn(c.self.(*M))
		return nil
	})
}

// Proc1 binds a method-like function with one argument and no result.
func Proc1[M, A any](fn func(self *M, a A)) Caller {
	return CallerFunc(func(c *Call) any {
		fn(c.self.(*M), argAs[A](c.args, 0))
		return nil
	})
}

// Proc2 binds a method-like function with two arguments and no result.
func Proc2[M, A, B any](fn func(self *M, a A, b B)) Caller {
	return CallerFunc(func(c *Call) any {
		fn(c.self.(*M), argAs[A](c.args, 0), argAs[B](c.args, 1))
		return nil
	})
}
