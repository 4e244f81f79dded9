package logger

import (
	"bytes"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gelflog/config"
	"github.com/kilianp07/gelflog/core/factory"
	"github.com/kilianp07/gelflog/core/metrics"
	"github.com/kilianp07/gelflog/core/model"
	"github.com/kilianp07/gelflog/core/transport"
	"github.com/kilianp07/gelflog/logger/formatter"
)

type emitted struct {
	level   model.Level
	message string
	payload model.Payload
}

// recordingClient implements transport.Client for tests.
type recordingClient struct {
	mu        sync.Mutex
	opts      transport.Options
	setErr    error
	emitErr   error
	entries   []emitted
	closed    bool
	configure int
}

func (r *recordingClient) SetConfig(opts transport.Options) error {
	r.configure++
	r.opts = opts
	return r.setErr
}

func (r *recordingClient) Emit(level model.Level, message string, payload model.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, emitted{level, message, payload})
	return r.emitErr
}

func (r *recordingClient) Close() error {
	r.closed = true
	return nil
}

type recordingSink struct {
	events []metrics.EntryEvent
	err    error
}

func (s *recordingSink) RecordEntry(ev metrics.EntryEvent) error {
	s.events = append(s.events, ev)
	return s.err
}

type recordingMonitor struct {
	errs    []error
	tags    []map[string]string
	flushed bool
}

func (m *recordingMonitor) CaptureException(err error, tags map[string]string) {
	m.errs = append(m.errs, err)
	m.tags = append(m.tags, tags)
}

func (m *recordingMonitor) Flush(time.Duration) { m.flushed = true }

var fixedNow = time.Date(2026, 10, 19, 14, 5, 9, 0, time.UTC)

func testConfig(showConsole bool) config.Config {
	return config.Config{
		Server:      "graylog.local",
		InputPort:   12201,
		AppName:     "billing",
		AppVersion:  "1.0.0",
		Environment: config.EnvProd,
		ShowConsole: showConsole,
	}
}

type harness struct {
	log     *Logger
	client  *recordingClient
	out     *bytes.Buffer
	errOut  *bytes.Buffer
	sink    *recordingSink
	monitor *recordingMonitor
}

func newHarness(t *testing.T, showConsole bool, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		client:  &recordingClient{},
		out:     &bytes.Buffer{},
		errOut:  &bytes.Buffer{},
		sink:    &recordingSink{},
		monitor: &recordingMonitor{},
	}
	all := append([]Option{
		WithTransport(h.client),
		WithConsole(formatter.NewConsole(h.out, h.errOut)),
		WithClock(func() time.Time { return fixedNow }),
		WithMetrics(h.sink),
		WithMonitor(h.monitor),
	}, opts...)
	l, err := New(testConfig(showConsole), all...)
	require.NoError(t, err)
	h.log = l
	return h
}

func TestNewConfiguresTransport(t *testing.T) {
	h := newHarness(t, false, WithFields(map[string]any{"team": "payments"}))
	assert.Equal(t, 1, h.client.configure)
	assert.Equal(t, transport.Options{
		Fields:         map[string]any{"team": "payments"},
		AdapterName:    "udp",
		AdapterOptions: transport.AdapterOptions{Host: "graylog.local", Port: 12201},
	}, h.client.opts)
}

func TestNewDefaultsToEmptyFields(t *testing.T) {
	h := newHarness(t, false)
	assert.NotNil(t, h.client.opts.Fields)
	assert.Empty(t, h.client.opts.Fields)
}

func TestNewFailsWhenTransportSetupFails(t *testing.T) {
	client := &recordingClient{setErr: errors.New("no route")}
	_, err := New(testConfig(false), WithTransport(client))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no route")
}

func TestNewFromOptionsValidates(t *testing.T) {
	_, err := NewFromOptions(config.Options{Server: "s", InputPort: "1", AppName: "a"}, WithTransport(&recordingClient{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfiguration)
	var cerr *config.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "environment", cerr.Key)
}

func TestNewWithRegisteredAdapter(t *testing.T) {
	l, err := New(testConfig(false), WithAdapter(factory.ModuleConfig{Type: "nop"}))
	require.NoError(t, err)
	_, err = l.Info("hello")
	assert.NoError(t, err)

	_, err = New(testConfig(false), WithAdapter(factory.ModuleConfig{Type: "smoke-signals"}))
	assert.Error(t, err)
}

func TestErrorWithMessageAndError(t *testing.T) {
	h := newHarness(t, false)
	boom := pkgerrors.New("boom")
	resp, err := h.log.Error("Something failed", boom)
	require.NoError(t, err)

	assert.Equal(t, "Something failed", resp.Message)
	assert.Equal(t, "error", resp.Level)
	assert.Equal(t, "2026-10-19 14:05:09", resp.Timestamp)
	require.NotNil(t, resp.ErrorMessage)
	assert.Equal(t, "boom", *resp.ErrorMessage)
	require.NotNil(t, resp.ErrorStack)
	assert.Equal(t, model.FromError(boom).Stack, *resp.ErrorStack)
	assert.Nil(t, resp.ExtraInfo)

	require.Len(t, h.client.entries, 1)
	e := h.client.entries[0]
	assert.Equal(t, model.LevelError, e.level)
	assert.Equal(t, "Something failed", e.message)
	assert.Equal(t, resp.Payload, e.payload)
}

func TestTwoErrorsAreNumbered(t *testing.T) {
	h := newHarness(t, false)
	resp, err := h.log.Error(errors.New("E1"), errors.New("E2"))
	require.NoError(t, err)
	assert.Equal(t, "E1", resp.Message)
	assert.Equal(t, "[Erro #1]: E1 | [Erro #2]: E2", *resp.ErrorMessage)
	assert.Equal(t, "[Erro #1] E1:\nE1\n\n[Erro #2] E2:\nE2", *resp.ErrorStack)
}

func TestObjectErrorsAreExtracted(t *testing.T) {
	h := newHarness(t, false)
	ctx := map[string]any{"user": "a", "err": errors.New("inner")}
	resp, err := h.log.Info("msg", ctx)
	require.NoError(t, err)
	assert.Equal(t, "inner", *resp.ErrorMessage)
	require.NotNil(t, resp.ExtraInfo)
	assert.JSONEq(t, `[{"user":"a"}]`, *resp.ExtraInfo)
	assert.Len(t, ctx, 2, "caller map must not be mutated")
}

func TestObjectEmptiedByExtractionIsDropped(t *testing.T) {
	h := newHarness(t, false)
	resp, err := h.log.Info("msg", map[string]any{"err": errors.New("only")})
	require.NoError(t, err)
	assert.Nil(t, resp.ExtraInfo)
	assert.Equal(t, "only", *resp.ErrorMessage)
	assert.Equal(t, "only", *resp.ErrorStack)
}

func TestResponseBaseFields(t *testing.T) {
	h := newHarness(t, false)
	resp, err := h.log.Notice("plain")
	require.NoError(t, err)
	assert.Equal(t, model.Response{
		Payload:   model.Payload{AppLanguage: "Go", Facility: "billing", Environment: "PROD"},
		Timestamp: "2026-10-19 14:05:09",
		Level:     "notice",
		Message:   "plain",
	}, resp)
}

func TestLevelMethodsUseTheirLevel(t *testing.T) {
	h := newHarness(t, false)
	calls := []func(...any) (model.Response, error){
		h.log.Emergency, h.log.Alert, h.log.Critical, h.log.Error,
		h.log.Warning, h.log.Notice, h.log.Info, h.log.Debug,
	}
	for i, call := range calls {
		resp, err := call("m")
		require.NoError(t, err)
		assert.Equal(t, model.Level(i).String(), resp.Level)
		assert.Equal(t, model.Level(i), h.client.entries[i].level)
	}
}

func TestConsoleSuppressedWhenDisabled(t *testing.T) {
	h := newHarness(t, false)
	for _, l := range model.Levels() {
		_, err := h.log.Log(l, "m", errors.New("e"), map[string]any{"k": 1})
		require.NoError(t, err)
	}
	assert.Empty(t, h.out.String())
	assert.Empty(t, h.errOut.String())
}

func TestConsoleRoutingWhenEnabled(t *testing.T) {
	h := newHarness(t, true)
	_, err := h.log.Info("to stdout", map[string]any{"k": 1})
	require.NoError(t, err)
	_, err = h.log.Critical("to stderr")
	require.NoError(t, err)

	assert.Contains(t, h.out.String(), `[info] "to stdout"`)
	assert.Contains(t, h.out.String(), "Extra Info:")
	assert.NotContains(t, h.out.String(), "to stderr")
	assert.Contains(t, h.errOut.String(), `[critical] "to stderr"`)
}

func TestEmitErrorPropagates(t *testing.T) {
	h := newHarness(t, true)
	sentinel := errors.New("collector unreachable")
	h.client.emitErr = sentinel

	_, err := h.log.Error("m")
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Empty(t, h.errOut.String(), "console is not written when emit fails")
	require.Len(t, h.sink.events, 1)
	assert.ErrorIs(t, h.sink.events[0].EmitErr, sentinel)
	assert.Empty(t, h.monitor.errs)
}

func TestSinkErrorsAreNotReturned(t *testing.T) {
	h := newHarness(t, false)
	h.sink.err = errors.New("influx down")
	_, err := h.log.Info("m")
	assert.NoError(t, err)
}

func TestMetricsEvent(t *testing.T) {
	h := newHarness(t, false)
	_, err := h.log.Warning("m", errors.New("a"), errors.New("b"), 42)
	require.NoError(t, err)
	require.Len(t, h.sink.events, 1)
	ev := h.sink.events[0]
	assert.Equal(t, model.LevelWarning, ev.Level)
	assert.Equal(t, "billing", ev.Facility)
	assert.Equal(t, "PROD", ev.Environment)
	assert.Equal(t, 2, ev.Errors)
	assert.True(t, ev.HasExtra)
	assert.Equal(t, fixedNow, ev.Time)
}

func TestMonitorCapturesErrorStreamLevels(t *testing.T) {
	h := newHarness(t, false)
	_, err := h.log.Warning("m", errors.New("ignored"))
	require.NoError(t, err)
	assert.Empty(t, h.monitor.errs)

	_, err = h.log.Alert("m", errors.New("first"), map[string]any{"e": errors.New("second")})
	require.NoError(t, err)
	require.Len(t, h.monitor.errs, 2)
	assert.EqualError(t, h.monitor.errs[0], "first")
	assert.EqualError(t, h.monitor.errs[1], "second")
	assert.Equal(t, "alert", h.monitor.tags[0]["level"])
	assert.Equal(t, "billing", h.monitor.tags[0]["facility"])
}

func TestLogRejectsUnknownLevel(t *testing.T) {
	h := newHarness(t, false)
	_, err := h.log.Log(model.Level(99), "m")
	assert.Error(t, err)
	assert.Empty(t, h.client.entries)
}

func TestCloseFlushesAndCloses(t *testing.T) {
	h := newHarness(t, false)
	require.NoError(t, h.log.Close())
	assert.True(t, h.client.closed)
	assert.True(t, h.monitor.flushed)
}

type closingSink struct {
	recordingSink
	closed bool
}

func (s *closingSink) Close() { s.closed = true }

func TestCloseReleasesMetricsSink(t *testing.T) {
	sink := &closingSink{}
	h := newHarness(t, false, WithMetrics(sink))
	require.NoError(t, h.log.Close())
	assert.True(t, sink.closed)
}

func TestTypedNilErrorDoesNotPanic(t *testing.T) {
	h := newHarness(t, true)
	var pathErr *os.PathError
	var resp model.Response
	var err error
	require.NotPanics(t, func() {
		resp, err = h.log.Error("msg", pathErr)
	})
	require.NoError(t, err)
	assert.Equal(t, "msg", resp.Message)
	assert.Nil(t, resp.ErrorMessage)
	require.NotNil(t, resp.ExtraInfo)
	assert.Equal(t, "[\n    null\n]", *resp.ExtraInfo)
	assert.Empty(t, h.monitor.errs)

	resp, err = h.log.Info(map[string]any{"cause": pathErr})
	require.NoError(t, err)
	assert.Equal(t, `{"cause":null}`, resp.Message)
}

func TestConcurrentCalls(t *testing.T) {
	h := newHarness(t, true)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = h.log.Info("parallel")
		}()
	}
	wg.Wait()
	assert.Len(t, h.client.entries, 20)
	assert.Equal(t, 20, bytes.Count(h.out.Bytes(), []byte(`[info] "parallel"`)))
}
