package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/kilianp07/gelflog/config"
	"github.com/kilianp07/gelflog/core/model"
)

const rule = "===================="

// Console renders entries as human readable blocks. Error stream levels go
// to the error writer, the rest to the standard writer.
type Console struct {
	mu  sync.Mutex
	out io.Writer
	err io.Writer
}

// NewConsole returns a Console writing to out and errOut. Nil writers default
// to os.Stdout and os.Stderr.
func NewConsole(out, errOut io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Console{out: out, err: errOut}
}

// Render writes the block for resp. Nothing is written if the extra info is
// not valid JSON.
func (c *Console) Render(cfg config.Config, level model.Level, resp model.Response) error {
	var buf bytes.Buffer
	header := fmt.Sprintf("%s %s %s", rule, resp.Timestamp, rule)
	version := cfg.AppVersion
	if version == "" {
		version = "N/A"
	}

	fmt.Fprintln(&buf, header)
	fmt.Fprintf(&buf, "App: %s | Version: %s | Env: %s\n", cfg.AppName, version, cfg.Environment)
	fmt.Fprintf(&buf, "[%s] \"%s\"\n", resp.Level, resp.Message)
	if resp.ErrorMessage != nil {
		fmt.Fprintf(&buf, "Error: %s\n", *resp.ErrorMessage)
	}
	if resp.ErrorStack != nil {
		fmt.Fprintf(&buf, "Stack Trace:\n%s\n", *resp.ErrorStack)
	}
	if resp.ExtraInfo != nil {
		extra, err := reindent(*resp.ExtraInfo)
		if err != nil {
			return err
		}
		fmt.Fprintf(&buf, "Extra Info:\n%s\n", extra)
	}
	fmt.Fprintln(&buf, strings.Repeat("=", len(header)))

	w := c.out
	if level.IsErrorStream() {
		w = c.err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := w.Write(buf.Bytes())
	return err
}

func reindent(s string) (string, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return "", fmt.Errorf("parse extra info: %w", err)
	}
	b, err := json.MarshalIndent(v, "", jsonIndent)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
