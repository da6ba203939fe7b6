package plugin

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/kvgauge/plugin/internal/scheduler"
	"github.com/kvgauge/plugin/internal/session"
)

// MessageSource yields inbound frames. *streamdeck.Conn satisfies it.
type MessageSource interface {
	Next() ([]byte, error)
	Close() error
}

// Dispatcher applies host events to the registry and scheduler. Events are
// handled one at a time, each completing its registry and timer changes
// before the next is read.
type Dispatcher struct {
	registry        *session.Registry
	scheduler       *scheduler.Scheduler
	actions         map[string]session.MetricKind
	defaultInterval time.Duration
}

func New(registry *session.Registry, sched *scheduler.Scheduler, actions map[string]session.MetricKind, defaultInterval time.Duration) *Dispatcher {
	if defaultInterval <= 0 {
		defaultInterval = session.DefaultInterval
	}
	return &Dispatcher{
		registry:        registry,
		scheduler:       sched,
		actions:         actions,
		defaultInterval: defaultInterval,
	}
}

// Run reads and handles frames until the source is exhausted or ctx is
// cancelled, then stops every timer and forgets every session. A normal
// close or cancellation returns nil.
func (d *Dispatcher) Run(ctx context.Context, src MessageSource) error {
	runCtx, cancel := context.WithCancel(ctx)
	stopClose := context.AfterFunc(runCtx, func() { src.Close() })
	defer stopClose()

	var err error
	for {
		data, rerr := src.Next()
		if rerr != nil {
			if !errors.Is(rerr, io.EOF) && ctx.Err() == nil {
				err = rerr
			}
			break
		}
		d.HandleMessage(runCtx, data)
	}

	d.shutdown(cancel)
	return err
}

// HandleMessage decodes and handles one frame. Malformed frames are
// logged and dropped.
func (d *Dispatcher) HandleMessage(ctx context.Context, data []byte) {
	ev, err := Decode(data, d.defaultInterval)
	if err != nil {
		log.Printf("Failed to parse message: %v", err)
		return
	}
	d.Handle(ctx, ev)
}

// Handle applies one event. ctx bounds the refreshes it triggers.
func (d *Dispatcher) Handle(ctx context.Context, ev Event) {
	log.Printf("Received event: %s", ev.Name())

	switch e := ev.(type) {
	case WidgetAppeared:
		kind, ok := d.actions[e.Action]
		if !ok {
			log.Printf("Ignoring %s for unknown action %q", e.Name(), e.Action)
			return
		}
		d.registry.Register(e.Context, kind, e.Settings)
		d.scheduler.Start(ctx, e.Context)

	case WidgetDisappeared:
		d.scheduler.Stop(e.Context)
		d.registry.Unregister(e.Context)

	case SettingsChanged:
		if err := d.registry.UpdateConfig(e.Context, e.Settings); err != nil {
			return
		}
		d.scheduler.Restart(ctx, e.Context)

	case ManualTrigger:
		d.scheduler.RefreshNow(ctx, e.Context)

	case Ignored:
	}
}

// shutdown stops timers before dropping sessions, then waits for refreshes
// still in flight.
func (d *Dispatcher) shutdown(cancel context.CancelFunc) {
	d.scheduler.StopAll()
	d.registry.Clear()
	cancel()
	d.scheduler.Wait()
}
