package extender

import (
	"log/slog"
	"reflect"
	"sync"

	"github.com/c360/webkit/metric"
)

// Metric label values for the two tables.
const (
	tableTypes       = "types"
	tableSubscribers = "subscribers"
)

// Manager is the facade coordinating the type-substitution table and the
// event-subscriber table. All mutation funnels through the manager; each
// table guards its own state, so every registration is individually atomic
// and lookups on one table never wait on writers of the other.
type Manager struct {
	types       *TypeRegistry
	subscribers *SubscriberRegistry
	logger      *slog.Logger
	metrics     *metric.Metrics
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger used for registration tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMetrics wires the manager's registration and lookup counters.
func WithMetrics(metrics *metric.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// NewManager creates a manager with empty tables.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		types:       NewTypeRegistry(),
		subscribers: NewSubscriberRegistry(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RegisterExtension records ext as the replacement for its direct base
// type, overwriting any earlier registration for the same base.
func (m *Manager) RegisterExtension(ext reflect.Type) error {
	if err := m.types.Register(ext); err != nil {
		m.countError(tableTypes)
		return err
	}
	m.countRegistration(tableTypes)
	m.logger.Debug("extension registered", "extension", typeName(ext))
	return nil
}

// RegisterExtensions scans a type collection and registers every member
// for which the predicate holds, in the collection's natural order.
func (m *Manager) RegisterExtensions(types []reflect.Type, pred func(reflect.Type) bool) error {
	if err := m.types.RegisterAll(types, pred); err != nil {
		m.countError(tableTypes)
		return err
	}
	m.logger.Debug("extension scan complete", "scanned", len(types), "bindings", m.types.Len())
	return nil
}

// ExtensionFor returns the replacement registered for base, if any.
func (m *Manager) ExtensionFor(base reflect.Type) (reflect.Type, bool) {
	ext, ok := m.types.Lookup(base)
	m.countLookup(tableTypes, ok)
	return ext, ok
}

// NewExtension builds an instance of the replacement registered for base,
// the explicit factory form of type substitution.
func (m *Manager) NewExtension(base reflect.Type) (any, bool) {
	inst, ok := m.types.New(base)
	m.countLookup(tableTypes, ok)
	return inst, ok
}

// RegisterSubscriber binds sub as a subscriber of source.
func (m *Manager) RegisterSubscriber(sub, source reflect.Type) error {
	if err := m.subscribers.Register(sub, source); err != nil {
		m.countError(tableSubscribers)
		return err
	}
	m.countRegistration(tableSubscribers)
	m.logger.Debug("subscriber registered",
		"subscriber", typeName(sub), "event", typeName(source))
	return nil
}

// RegisterSubscriberType binds sub to the event source recovered from the
// Subscriber template in its base chain.
func (m *Manager) RegisterSubscriberType(sub reflect.Type) error {
	if err := m.subscribers.RegisterType(sub); err != nil {
		m.countError(tableSubscribers)
		return err
	}
	m.countRegistration(tableSubscribers)
	m.logger.Debug("subscriber registered", "subscriber", typeName(sub))
	return nil
}

// RegisterSubscribers scans a mixed type collection, registering every
// member that extends the Subscriber template and silently skipping the
// rest.
func (m *Manager) RegisterSubscribers(types []reflect.Type) error {
	if err := m.subscribers.RegisterAll(types); err != nil {
		m.countError(tableSubscribers)
		return err
	}
	m.logger.Debug("subscriber scan complete", "scanned", len(types), "events", m.subscribers.Len())
	return nil
}

// SubscribersFor returns the ordered subscriber list for source, if any.
// The returned slice is a copy.
func (m *Manager) SubscribersFor(source reflect.Type) ([]reflect.Type, bool) {
	subs, ok := m.subscribers.Lookup(source)
	m.countLookup(tableSubscribers, ok)
	return subs, ok
}

// TypeBindings returns a snapshot of the substitution table.
func (m *Manager) TypeBindings() map[reflect.Type]reflect.Type {
	return m.types.Bindings()
}

func (m *Manager) countRegistration(table string) {
	if m.metrics != nil {
		m.metrics.RegistrationsTotal.WithLabelValues(table).Inc()
	}
}

func (m *Manager) countError(table string) {
	if m.metrics != nil {
		m.metrics.RegistrationErrors.WithLabelValues(table).Inc()
	}
}

func (m *Manager) countLookup(table string, hit bool) {
	if m.metrics == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.metrics.LookupsTotal.WithLabelValues(table, result).Inc()
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// Process-wide default manager, created on first use.
var (
	defaultMu      sync.RWMutex
	defaultManager *Manager
)

// Default returns the process-wide manager, creating it on first use.
func Default() *Manager {
	defaultMu.RLock()
	m := defaultManager
	defaultMu.RUnlock()
	if m != nil {
		return m
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultManager == nil {
		defaultManager = NewManager()
	}
	return defaultManager
}

// SetDefault replaces the process-wide manager, typically with one carrying
// a logger and metrics. The previous manager's tables are discarded.
func SetDefault(m *Manager) {
	defaultMu.Lock()
	defaultManager = m
	defaultMu.Unlock()
}

// Reset discards the process-wide manager so tests can start from empty
// tables.
func Reset() {
	SetDefault(nil)
}

// RegisterExtensionOf registers T as the replacement for its base type on
// the default manager.
func RegisterExtensionOf[T any]() error {
	return Default().RegisterExtension(TypeFor[T]())
}

// RegisterSubscriberOf registers S on the default manager, inferring its
// event source from the Subscriber template.
func RegisterSubscriberOf[S any]() error {
	return Default().RegisterSubscriberType(TypeFor[S]())
}

// ExtensionFor queries the default manager's substitution table.
func ExtensionFor(base reflect.Type) (reflect.Type, bool) {
	return Default().ExtensionFor(base)
}

// SubscribersFor queries the default manager's subscriber table.
func SubscribersFor(source reflect.Type) ([]reflect.Type, bool) {
	return Default().SubscribersFor(source)
}
