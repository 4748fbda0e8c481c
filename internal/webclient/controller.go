package webclient

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/musik/internal/shared"
)

// Event names a host event a handler can subscribe to.
type Event string

const (
	EventReady  Event = "ready"  // fired once per page load
	EventSubmit Event = "submit" // payload is a [SubmitEvent]
)

// Handler receives a dispatched event.
type Handler func(ctx context.Context, payload any)

type subscription struct {
	id      int
	handler Handler
}

// Dispatcher is an explicit event bus. Handlers run synchronously in the
// dispatching goroutine, in the order they subscribed.
type Dispatcher struct {
	mu   sync.Mutex
	next int
	subs map[Event][]subscription
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{subs: make(map[Event][]subscription)}
}

// Subscribe adds fn for event and returns a func that removes it. Calling the returned func more than once is harmless.
func (d *Dispatcher) Subscribe(event Event, fn Handler) (unsubscribe func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.next++
	id := d.next
	d.subs[event] = append(d.subs[event], subscription{id: id, handler: fn})

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()

		subs := d.subs[event]
		for i, s := range subs {
			if s.id == id {
				d.subs[event] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Dispatch calls every handler subscribed to event.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event, payload any) {
	d.mu.Lock()
	subs := append([]subscription(nil), d.subs[event]...)
	d.mu.Unlock()

	for _, s := range subs {
		s.handler(ctx, payload)
	}
}

// Subscribers returns the number of handlers subscribed to event.
func (d *Dispatcher) Subscribers(event Event) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs[event])
}

// Controller owns the subscriptions connecting an [ImportForm] and a [ListLoader] to a [Dispatcher].
//
// Either handler may be nil when the host page does not have it.
type Controller struct {
	dispatcher *Dispatcher
	form       *ImportForm
	loader     *ListLoader
	logger     *log.Logger

	mu     sync.Mutex
	unsubs []func()
	last   Outcome
}

// NewController creates a controller. Nothing is subscribed until [Controller.Register].
func NewController(d *Dispatcher, form *ImportForm, loader *ListLoader, logger *log.Logger) *Controller {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Controller{
		dispatcher: d,
		form:       form,
		loader:     loader,
		logger:     shared.WithLogger(logger, "component", "controller"),
	}
}

// Register subscribes the handlers. Registering twice is a no-op.
func (c *Controller) Register() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unsubs != nil {
		return
	}
	c.unsubs = []func(){}

	if c.loader != nil {
		c.unsubs = append(c.unsubs, c.dispatcher.Subscribe(EventReady, c.onReady))
	}
	if c.form != nil {
		c.unsubs = append(c.unsubs, c.dispatcher.Subscribe(EventSubmit, c.onSubmit))
	}
}

// Unregister removes every subscription made by Register.
func (c *Controller) Unregister() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil
}

// Registered reports whether the handlers are subscribed.
func (c *Controller) Registered() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unsubs != nil
}

// LastOutcome returns the outcome of the most recent submission.
func (c *Controller) LastOutcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *Controller) onReady(ctx context.Context, _ any) {
	if err := c.loader.Load(ctx); err != nil {
		c.logger.Debug("lists partially loaded", "error", err)
	}
}

func (c *Controller) onSubmit(ctx context.Context, payload any) {
	event, ok := payload.(SubmitEvent)
	if !ok {
		c.logger.Warn("submit dispatched without an event", "payload", payload)
		return
	}

	outcome := c.form.Submit(ctx, event)
	c.logger.Debug("form submitted", "outcome", outcome.Kind, "status", outcome.StatusCode)

	c.mu.Lock()
	c.last = outcome
	c.mu.Unlock()
}
