package formatter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kilianp07/gelflog/config"
	"github.com/kilianp07/gelflog/core/model"
)

const jsonIndent = "    "

// ExtraInfo renders contextual values as indented JSON, or nil when there
// are none. Values JSON cannot encode (NaN, channels, funcs) are written in
// their fmt form.
func ExtraInfo(extra []any) (*string, error) {
	if len(extra) == 0 {
		return nil, nil
	}
	b, err := json.MarshalIndent(extra, "", jsonIndent)
	if err != nil {
		b, err = json.MarshalIndent(encodable(extra), "", jsonIndent)
	}
	if err != nil {
		return nil, fmt.Errorf("encode extra info: %w", err)
	}
	s := string(b)
	return &s, nil
}

func encodable(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, it := range t {
			out[i] = encodable(it)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, it := range t {
			out[k] = encodable(it)
		}
		return out
	}
	if _, err := json.Marshal(v); err != nil {
		return fmt.Sprint(v)
	}
	return v
}

// ErrorMessage joins error messages. A single message is kept verbatim;
// several are numbered "[Erro #N]: msg" and separated by " | ".
func ErrorMessage(msgs []string) *string {
	switch len(msgs) {
	case 0:
		return nil
	case 1:
		s := msgs[0]
		return &s
	}
	parts := make([]string, len(msgs))
	for i, m := range msgs {
		parts[i] = fmt.Sprintf("[Erro #%d]: %s", i+1, m)
	}
	s := strings.Join(parts, " | ")
	return &s
}

// ErrorStack joins stack traces. Each trace gets a header naming its error
// when there is more than one.
func ErrorStack(stacks []model.StackEntry) *string {
	switch len(stacks) {
	case 0:
		return nil
	case 1:
		s := stacks[0].StackTrace
		return &s
	}
	parts := make([]string, len(stacks))
	for i, st := range stacks {
		parts[i] = fmt.Sprintf("[Erro #%d] %s:\n%s", i+1, st.Error, st.StackTrace)
	}
	s := strings.Join(parts, "\n\n")
	return &s
}

// BuildPayload assembles the collector payload for a classified call.
func BuildPayload(cfg config.Config, c Classified) (model.Payload, error) {
	extra, err := ExtraInfo(c.Extra)
	if err != nil {
		return model.Payload{}, err
	}
	return model.Payload{
		AppLanguage:  model.AppLanguage,
		Facility:     cfg.AppName,
		Environment:  string(cfg.Environment),
		ErrorMessage: ErrorMessage(c.ErrorMessages),
		ErrorStack:   ErrorStack(c.Stacks),
		ExtraInfo:    extra,
	}, nil
}
