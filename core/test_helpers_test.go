package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type logEntry struct {
	level string
	msg   string
	args  []any
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) record(level string, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: append([]any(nil), args...)})
}

func (l *recordingLogger) Trace(msg string, args ...any) { l.record("trace", msg, args) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args) }
func (l *recordingLogger) WithContext(context.Context) Logger {
	return l
}

func (l *recordingLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := 0
	for _, entry := range l.entries {
		if entry.level == level {
			total++
		}
	}
	return total
}

type stubLoggerProvider struct {
	logger Logger
}

func (s stubLoggerProvider) GetLogger(string) Logger {
	return s.logger
}

type mapRawLoader struct {
	values map[string]any
}

func (l mapRawLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.values))
	for key, value := range l.values {
		out[key] = value
	}
	return out, nil
}

type stubAccessChecker struct {
	mu      sync.Mutex
	allowed map[string]bool
	err     error
	calls   int
}

func allowOrigins(sessionID string, origins ...string) *stubAccessChecker {
	checker := &stubAccessChecker{allowed: map[string]bool{}}
	for _, origin := range origins {
		checker.allowed[sessionID+"|"+origin] = true
	}
	return checker
}

func (c *stubAccessChecker) CheckOriginAccess(_ context.Context, sessionID string, origin string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return false, c.err
	}
	return c.allowed[sessionID+"|"+origin], nil
}

type recordingEncryptor struct {
	mu         sync.Mutex
	plaintexts []string
	err        error
}

func (e *recordingEncryptor) Encrypt(_ context.Context, plaintext []byte) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.plaintexts = append(e.plaintexts, string(plaintext))
	if e.err != nil {
		return nil, e.err
	}
	return []byte(fmt.Sprintf("sealed(%s)", plaintext)), nil
}

func (e *recordingEncryptor) calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.plaintexts)
}

// memoryBackend is an in-process record store speaking the backend protocol.
type memoryBackend struct {
	mu          sync.Mutex
	records     map[IntegrationKey]OriginIntegration
	namesCalls  int
	createCalls int
	deleteCalls int
	created     []CreateRequest
	failWith    error
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{records: map[IntegrationKey]OriginIntegration{}}
}

func (b *memoryBackend) backend() Backend {
	return Backend{
		GetNames: RequesterFunc[GetNamesRequest, OriginIntegrationNames](b.getNames),
		Create:   RequesterFunc[CreateRequest, NetOK](b.create),
		Delete:   RequesterFunc[DeleteRequest, NetOK](b.delete),
	}
}

func (b *memoryBackend) getNames(_ context.Context, req GetNamesRequest) (OriginIntegrationNames, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.namesCalls++
	if b.failWith != nil {
		return OriginIntegrationNames{}, b.failWith
	}
	out := OriginIntegrationNames{Origin: req.Origin, Integration: req.Integration}
	for key := range b.records {
		if key.Origin == req.Origin && key.Integration == req.Integration {
			out.Names = append(out.Names, key.Name)
		}
	}
	sort.Strings(out.Names)
	if len(out.Names) == 0 {
		return OriginIntegrationNames{}, NewBackendError(ErrCodeEntityNotFound, "no integrations")
	}
	return out, nil
}

func (b *memoryBackend) create(_ context.Context, req CreateRequest) (NetOK, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.createCalls++
	b.created = append(b.created, req)
	if b.failWith != nil {
		return NetOK{}, b.failWith
	}
	key := req.Integration.Key()
	if _, exists := b.records[key]; exists {
		return NetOK{}, NewBackendError(ErrCodeEntityConflict, "integration exists")
	}
	b.records[key] = req.Integration
	return NetOK{}, nil
}

func (b *memoryBackend) delete(_ context.Context, req DeleteRequest) (NetOK, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleteCalls++
	if b.failWith != nil {
		return NetOK{}, b.failWith
	}
	delete(b.records, req.Key)
	return NetOK{}, nil
}

func (b *memoryBackend) totalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.namesCalls + b.createCalls + b.deleteCalls
}

type countingMetrics struct {
	mu       sync.Mutex
	counters map[string]int64
	tags     []map[string]string
}

func (m *countingMetrics) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = map[string]int64{}
	}
	m.counters[name] += value
	m.tags = append(m.tags, tags)
}

func (m *countingMetrics) ObserveHistogram(context.Context, string, float64, map[string]string) {}

type gatewayFixture struct {
	gateway   *Gateway
	checker   *stubAccessChecker
	encryptor *recordingEncryptor
	backend   *memoryBackend
	logger    *recordingLogger
}

func newGatewayFixture(opts ...Option) (*gatewayFixture, error) {
	fixture := &gatewayFixture{
		checker:   allowOrigins("sess-1", "acme"),
		encryptor: &recordingEncryptor{},
		backend:   newMemoryBackend(),
		logger:    &recordingLogger{},
	}
	base := []Option{
		WithLogger(fixture.logger),
		WithAccessChecker(fixture.checker),
		WithEncryptor(fixture.encryptor),
		WithBackend(fixture.backend.backend()),
	}
	gateway, err := NewGateway(Config{}, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	fixture.gateway = gateway
	return fixture, nil
}

var authorized = Caller{SessionID: "sess-1"}

func fullKey(origin, integration, name string) MapParams {
	return MapParams{ParamOrigin: origin, ParamIntegration: integration, ParamName: name}
}
