// Package streamdeck speaks the host's plugin WebSocket protocol.
package streamdeck

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Inbound event names.
const (
	EventWillAppear                    = "willAppear"
	EventWillDisappear                 = "willDisappear"
	EventDidReceiveSettings            = "didReceiveSettings"
	EventKeyDown                       = "keyDown"
	EventKeyUp                         = "keyUp"
	EventPropertyInspectorDidAppear    = "propertyInspectorDidAppear"
	EventPropertyInspectorDidDisappear = "propertyInspectorDidDisappear"
	EventSendToPlugin                  = "sendToPlugin"
)

// Outbound event names.
const (
	EventSetTitle = "setTitle"
)

// Target selects where a title is drawn.
type Target int

// TargetBoth draws on the hardware key and in the host software.
const TargetBoth Target = 0

// InboundMessage is the envelope for every event the host sends.
type InboundMessage struct {
	Event   string          `json:"event"`
	Context string          `json:"context"`
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RegisterMessage is sent once after connecting.
type RegisterMessage struct {
	Event string `json:"event"`
	UUID  string `json:"uuid"`
}

type SetTitleMessage struct {
	Event   string          `json:"event"`
	Context string          `json:"context"`
	Payload SetTitlePayload `json:"payload"`
}

type SetTitlePayload struct {
	Title  string `json:"title"`
	Target Target `json:"target"`
}

// ActionPayload is the payload of willAppear, willDisappear,
// didReceiveSettings, keyDown and keyUp.
type ActionPayload struct {
	Settings ActionSettings
}

// ActionSettings holds the per-key settings saved by the property inspector.
type ActionSettings struct {
	UpdateInterval Millis `json:"updateInterval"`
}

// MaxMillis is the longest interval accepted. Larger values decode as zero.
const MaxMillis Millis = Millis(24 * time.Hour / time.Millisecond)

// Millis is a millisecond count. Property inspectors commonly store form
// values as strings, so both "1500" and 1500 are accepted. Anything else,
// or anything above MaxMillis, decodes as zero.
type Millis int64

// Duration converts m to a time.Duration.
func (m Millis) Duration() time.Duration {
	return time.Duration(m) * time.Millisecond
}

func (m *Millis) UnmarshalJSON(data []byte) error {
	*m = 0
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || f > float64(MaxMillis) || f < -float64(MaxMillis) {
		return nil
	}
	*m = Millis(f)
	return nil
}

// DecodeActionPayload parses an action payload. An empty payload yields
// zero settings, and so do settings that are not a JSON object: the host
// still shows the key, so it runs on defaults.
func DecodeActionPayload(raw json.RawMessage) (ActionPayload, error) {
	var p ActionPayload
	if len(raw) == 0 || string(raw) == "null" {
		return p, nil
	}
	var wire struct {
		Settings json.RawMessage `json:"settings"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return ActionPayload{}, err
	}
	if len(wire.Settings) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(wire.Settings, &p.Settings); err != nil {
		p.Settings = ActionSettings{}
	}
	return p, nil
}
