package events

import (
	"log"
	"sync"

	"github.com/medvault/medvault-server/models"
)

type Type string

const (
	AppointmentBooked        Type = "appointment.booked"
	AppointmentStatusChanged Type = "appointment.status_changed"
)

// Event describes a committed appointment state change. It carries everything
// the side-effect handlers need so they never touch the appointment row again.
type Event struct {
	Type        Type
	Appointment models.Appointment
	NewStatus   models.AppointmentStatus
}

// Handler reacts to a single event. Handlers must tolerate being the only
// consumer that failed: an error is logged and discarded, never retried.
type Handler interface {
	Name() string
	Handle(event Event) error
}

// Dispatcher fans events out to registered handlers after the triggering
// write has been committed. Each handler runs in its own goroutine; a failing
// or panicking handler never blocks the caller or the other handlers.
type Dispatcher struct {
	handlers []Handler
	wg       sync.WaitGroup
}

func NewDispatcher(handlers ...Handler) *Dispatcher {
	return &Dispatcher{handlers: handlers}
}

func (d *Dispatcher) Register(handler Handler) {
	d.handlers = append(d.handlers, handler)
}

// Dispatch delivers the event to every handler and returns immediately.
func (d *Dispatcher) Dispatch(event Event) {
	for _, handler := range d.handlers {
		d.wg.Add(1)
		go func(h Handler) {
			defer d.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("event handler %s panicked on %s: %v", h.Name(), event.Type, r)
				}
			}()
			if err := h.Handle(event); err != nil {
				log.Printf("event handler %s failed on %s: %v", h.Name(), event.Type, err)
			}
		}(handler)
	}
}

// Wait blocks until all in-flight handlers finish. Used on shutdown and in
// tests; request paths never call it.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
