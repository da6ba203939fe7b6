// Package plugin drives display sessions from host protocol events.
package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kvgauge/plugin/internal/session"
	"github.com/kvgauge/plugin/internal/streamdeck"
)

// ErrMalformed wraps every decode failure.
var ErrMalformed = errors.New("malformed message")

// Event is one decoded host event. The set of implementations is closed:
// WidgetAppeared, WidgetDisappeared, SettingsChanged, ManualTrigger and
// Ignored.
type Event interface {
	Name() string
	SessionID() string
	isEvent()
}

// WidgetAppeared creates (or recreates) a session.
type WidgetAppeared struct {
	Context  string
	Action   string
	Settings session.Settings
}

// WidgetDisappeared destroys a session.
type WidgetDisappeared struct {
	Context string
}

// SettingsChanged replaces a session's settings.
type SettingsChanged struct {
	Context  string
	Action   string
	Settings session.Settings
}

// ManualTrigger asks for an out-of-band refresh (key press).
type ManualTrigger struct {
	Context string
	Action  string
}

// Ignored is any recognised-but-unhandled or unknown event.
type Ignored struct {
	Event   string
	Context string
}

func (WidgetAppeared) Name() string    { return streamdeck.EventWillAppear }
func (WidgetDisappeared) Name() string { return streamdeck.EventWillDisappear }
func (SettingsChanged) Name() string   { return streamdeck.EventDidReceiveSettings }
func (ManualTrigger) Name() string     { return streamdeck.EventKeyDown }
func (e Ignored) Name() string         { return e.Event }

func (e WidgetAppeared) SessionID() string    { return e.Context }
func (e WidgetDisappeared) SessionID() string { return e.Context }
func (e SettingsChanged) SessionID() string   { return e.Context }
func (e ManualTrigger) SessionID() string     { return e.Context }
func (e Ignored) SessionID() string           { return e.Context }

func (WidgetAppeared) isEvent()    {}
func (WidgetDisappeared) isEvent() {}
func (SettingsChanged) isEvent()   {}
func (ManualTrigger) isEvent()     {}
func (Ignored) isEvent()           {}

// Decode parses one inbound frame. Non-positive or missing intervals are
// replaced by defaultInterval.
func Decode(data []byte, defaultInterval time.Duration) (Event, error) {
	var msg streamdeck.InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch msg.Event {
	case streamdeck.EventWillAppear, streamdeck.EventDidReceiveSettings:
		if msg.Context == "" {
			return nil, fmt.Errorf("%w: %s without context", ErrMalformed, msg.Event)
		}
		payload, err := streamdeck.DecodeActionPayload(msg.Payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %s payload: %v", ErrMalformed, msg.Event, err)
		}
		settings := settingsFromPayload(payload, defaultInterval)
		if msg.Event == streamdeck.EventWillAppear {
			return WidgetAppeared{Context: msg.Context, Action: msg.Action, Settings: settings}, nil
		}
		return SettingsChanged{Context: msg.Context, Action: msg.Action, Settings: settings}, nil
	case streamdeck.EventWillDisappear:
		return WidgetDisappeared{Context: msg.Context}, nil
	case streamdeck.EventKeyDown:
		return ManualTrigger{Context: msg.Context, Action: msg.Action}, nil
	case streamdeck.EventKeyUp,
		streamdeck.EventPropertyInspectorDidAppear,
		streamdeck.EventPropertyInspectorDidDisappear,
		streamdeck.EventSendToPlugin:
		return Ignored{Event: msg.Event, Context: msg.Context}, nil
	default:
		return Ignored{Event: msg.Event, Context: msg.Context}, nil
	}
}

func settingsFromPayload(p streamdeck.ActionPayload, defaultInterval time.Duration) session.Settings {
	s := session.Settings{Interval: p.Settings.UpdateInterval.Duration()}
	s.Interval = s.IntervalOrDefault(defaultInterval)
	return s
}
