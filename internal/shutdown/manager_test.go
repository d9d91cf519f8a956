package shutdown

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShutdownRunsInReverseOnce(t *testing.T) {
	m := NewManager(nil)

	var mu sync.Mutex
	var order []string
	record := func(name string) func() {
		return func() {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
		}
	}
	m.Register("session", record("session"))
	m.Register("controller", record("controller"))
	m.Register("window", record("window"))

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, []string{"window", "controller", "session"}, order)
	select {
	case <-m.Done():
	default:
		t.Fatal("Done not closed")
	}
}

func TestShutdownSkipsStuckComponent(t *testing.T) {
	m := NewManager(nil)
	m.SetTimeout(20 * time.Millisecond)

	release := make(chan struct{})
	defer close(release)
	stopped := false
	m.Register("fast", func() { stopped = true })
	m.Register("stuck", func() { <-release })

	m.Shutdown()
	assert.True(t, stopped)
}

func TestListenShutsDownOnCancel(t *testing.T) {
	m := NewManager(nil)
	called := make(chan struct{})
	m.Register("c", func() { close(called) })

	ctx, cancel := context.WithCancel(context.Background())
	m.Listen(ctx)
	cancel()

	select {
	case <-called:
	case <-time.After(2 * time.Second):
		t.Fatal("component not stopped after cancel")
	}
	<-m.Done()
}
