package formatter

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/kilianp07/gelflog/core/model"
)

// Classified is the result of sorting the arguments of one log call.
type Classified struct {
	Message       string
	Extra         []any
	ErrorMessages []string
	Stacks        []model.StackEntry
}

// Classify splits args into message, contextual data and errors. The first
// argument becomes the message unless it is an error, in which case the
// error message is used and the error is still reported. Errors nested in
// objects are pulled out; the objects passed in are never modified.
func Classify(args []model.Argument) Classified {
	var c Classified
	if len(args) == 0 {
		return c
	}
	rest := args
	if ev, ok := args[0].(model.ErrorValue); ok {
		c.Message = ev.Message
	} else {
		c.Message = messageOf(args[0])
		rest = args[1:]
	}
	for _, a := range rest {
		c.add(a)
	}
	return c
}

func (c *Classified) add(a model.Argument) {
	switch t := a.(type) {
	case model.ErrorValue:
		c.addError(t)
	case model.List:
		for _, it := range t {
			if ev, ok := it.(model.ErrorValue); ok {
				c.addError(ev)
				continue
			}
			c.Extra = append(c.Extra, model.Plain(it))
		}
	case model.Object:
		filtered := c.extract(map[string]any(t))
		if len(filtered) > 0 {
			c.Extra = append(c.Extra, filtered)
		}
	case model.Text:
		c.Extra = append(c.Extra, string(t))
	case model.Scalar:
		c.Extra = append(c.Extra, t.Value)
	}
}

func (c *Classified) addError(ev model.ErrorValue) {
	c.ErrorMessages = append(c.ErrorMessages, ev.Message)
	c.Stacks = append(c.Stacks, model.StackEntry{Error: ev.Message, StackTrace: ev.Stack})
}

// extract returns a copy of m without error values, descending into nested
// maps and slices.
func (c *Classified) extract(m map[string]any) map[string]any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any, len(m))
	for _, k := range keys {
		if v, keep := c.extractValue(m[k]); keep {
			out[k] = v
		}
	}
	return out
}

func (c *Classified) extractValue(v any) (any, bool) {
	switch arg := model.Wrap(v).(type) {
	case model.ErrorValue:
		c.addError(arg)
		return nil, false
	case model.Object:
		return c.extract(map[string]any(arg)), true
	case model.List:
		items := make([]any, 0, len(arg))
		for _, it := range arg {
			if nv, keep := c.extractValue(it); keep {
				items = append(items, nv)
			}
		}
		return items, true
	default:
		return model.Plain(arg), true
	}
}

func messageOf(a model.Argument) string {
	switch t := a.(type) {
	case model.Text:
		return string(t)
	case model.Scalar:
		return fmt.Sprint(t.Value)
	default:
		b, err := json.Marshal(model.Plain(a))
		if err != nil {
			return fmt.Sprint(model.Plain(a))
		}
		return string(b)
	}
}
