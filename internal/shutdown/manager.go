package shutdown

import (
	"context"
	"sync"
	"time"

	"image-filter-studio/internal/logger"
)

// DefaultTimeout bounds how long one component may take to stop.
const DefaultTimeout = 10 * time.Second

type component struct {
	name string
	stop func()
}

// Manager stops registered components in reverse registration order,
// exactly once.
type Manager struct {
	components []component
	logger     logger.Logger
	timeout    time.Duration
	mu         sync.Mutex
	once       sync.Once
	done       chan struct{}
}

func NewManager(log logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		logger:  log,
		timeout: DefaultTimeout,
		done:    make(chan struct{}),
	}
}

// SetTimeout changes the per-component stop budget.
func (m *Manager) SetTimeout(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = d
}

func (m *Manager) Register(name string, stop func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components = append(m.components, component{name: name, stop: stop})
}

// Listen shuts down once ctx is cancelled, typically by an interrupt.
func (m *Manager) Listen(ctx context.Context) {
	go func() {
		select {
		case <-ctx.Done():
			m.logger.Info("ShutdownManager", "shutdown signal received", map[string]interface{}{
				"cause": context.Cause(ctx).Error(),
			})
			m.Shutdown()
		case <-m.done:
		}
	}()
}

func (m *Manager) Shutdown() {
	m.once.Do(func() {
		m.mu.Lock()
		components := make([]component, len(m.components))
		copy(components, m.components)
		timeout := m.timeout
		m.mu.Unlock()

		m.logger.Info("ShutdownManager", "shutdown sequence initiated", map[string]interface{}{
			"components": len(components),
		})

		for i := len(components) - 1; i >= 0; i-- {
			c := components[i]

			finished := make(chan struct{})
			go func() {
				defer close(finished)
				c.stop()
			}()

			select {
			case <-finished:
				m.logger.Debug("ShutdownManager", "component stopped", map[string]interface{}{"component": c.name})
			case <-time.After(timeout):
				m.logger.Warning("ShutdownManager", "component shutdown timeout", map[string]interface{}{
					"component": c.name,
				})
			}
		}

		m.logger.Info("ShutdownManager", "shutdown sequence completed", nil)
		close(m.done)
	})
}

func (m *Manager) Done() <-chan struct{} {
	return m.done
}
