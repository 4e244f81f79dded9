package model

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Argument is one value passed to a log call. The set of implementations is
// closed: Text, ErrorValue, Object, List and Scalar.
type Argument interface {
	isArgument()
}

// Text is a plain string argument.
type Text string

// ErrorValue is anything exposing a message and a stack trace.
type ErrorValue struct {
	Message string
	Stack   string
}

// Object holds contextual fields. Values may themselves contain errors.
type Object map[string]any

// List is an ordered group of arguments.
type List []Argument

// Scalar wraps every other value (numbers, bools, structs, nil).
type Scalar struct {
	Value any
}

func (Text) isArgument()       {}
func (ErrorValue) isArgument() {}
func (Object) isArgument()     {}
func (List) isArgument()       {}
func (Scalar) isArgument()     {}

// ErrorLike is implemented by values that carry their own message and stack
// without being Go errors.
type ErrorLike interface {
	Message() string
	Stack() string
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Wrap converts a caller supplied value into its Argument variant.
func Wrap(v any) Argument {
	switch t := v.(type) {
	case Argument:
		return t
	case string:
		return Text(t)
	case ErrorLike:
		if isNilPointer(t) {
			return Scalar{}
		}
		return ErrorValue{Message: t.Message(), Stack: t.Stack()}
	case error:
		if isNilPointer(t) {
			return Scalar{}
		}
		return FromError(t)
	case map[string]any:
		return Object(t)
	case []any:
		return wrapList(t)
	case []error:
		return wrapList(t)
	case []string:
		return wrapList(t)
	case []map[string]any:
		return wrapList(t)
	default:
		return Scalar{Value: v}
	}
}

// WrapAll converts a variadic argument list in order.
func WrapAll(args []any) []Argument {
	out := make([]Argument, len(args))
	for i, a := range args {
		out[i] = Wrap(a)
	}
	return out
}

// isNilPointer reports a nil pointer stored in a non-nil interface, whose
// methods would dereference nil.
func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func wrapList[T any](items []T) List {
	out := make(List, len(items))
	for i, it := range items {
		out[i] = Wrap(it)
	}
	return out
}

// FromError builds an ErrorValue from err. The stack comes from the first
// error in the chain that recorded one through github.com/pkg/errors; errors
// without a recorded stack use their message.
func FromError(err error) ErrorValue {
	if err == nil || isNilPointer(err) {
		return ErrorValue{Message: "<nil>", Stack: "<nil>"}
	}
	msg := err.Error()
	var st stackTracer
	if errors.As(err, &st) {
		return ErrorValue{Message: msg, Stack: fmt.Sprintf("%s%+v", msg, st.StackTrace())}
	}
	return ErrorValue{Message: msg, Stack: msg}
}

// Plain returns the value an argument contributes to extra info.
func Plain(a Argument) any {
	switch t := a.(type) {
	case Text:
		return string(t)
	case ErrorValue:
		return t.Message
	case Object:
		return map[string]any(t)
	case List:
		out := make([]any, len(t))
		for i, it := range t {
			out[i] = Plain(it)
		}
		return out
	case Scalar:
		return t.Value
	default:
		return nil
	}
}
