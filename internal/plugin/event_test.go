package plugin

import (
	"errors"
	"testing"
	"time"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Event
	}{
		{
			name: "willAppear with interval",
			in:   `{"event":"willAppear","context":"c1","action":"com.gerp93.kvgauge.cpuusage","payload":{"settings":{"updateInterval":1000}}}`,
			want: WidgetAppeared{Context: "c1", Action: "com.gerp93.kvgauge.cpuusage", Settings: settingsMs(1000)},
		},
		{
			name: "willAppear without settings uses default",
			in:   `{"event":"willAppear","context":"c1","action":"a","payload":{}}`,
			want: WidgetAppeared{Context: "c1", Action: "a", Settings: settingsMs(2000)},
		},
		{
			name: "willAppear non-positive interval uses default",
			in:   `{"event":"willAppear","context":"c1","action":"a","payload":{"settings":{"updateInterval":0}}}`,
			want: WidgetAppeared{Context: "c1", Action: "a", Settings: settingsMs(2000)},
		},
		{
			name: "willAppear interval overflowing a duration uses default",
			in:   `{"event":"willAppear","context":"c1","action":"a","payload":{"settings":{"updateInterval":18446744073710}}}`,
			want: WidgetAppeared{Context: "c1", Action: "a", Settings: settingsMs(2000)},
		},
		{
			name: "didReceiveSettings interval above one day uses default",
			in:   `{"event":"didReceiveSettings","context":"c1","action":"a","payload":{"settings":{"updateInterval":90000000}}}`,
			want: SettingsChanged{Context: "c1", Action: "a", Settings: settingsMs(2000)},
		},
		{
			name: "willAppear non-object settings uses default",
			in:   `{"event":"willAppear","context":"c1","action":"a","payload":{"settings":[]}}`,
			want: WidgetAppeared{Context: "c1", Action: "a", Settings: settingsMs(2000)},
		},
		{
			name: "didReceiveSettings string settings uses default",
			in:   `{"event":"didReceiveSettings","context":"c1","action":"a","payload":{"settings":"oops"}}`,
			want: SettingsChanged{Context: "c1", Action: "a", Settings: settingsMs(2000)},
		},
		{
			name: "didReceiveSettings string interval",
			in:   `{"event":"didReceiveSettings","context":"c1","action":"a","payload":{"settings":{"updateInterval":"500"}}}`,
			want: SettingsChanged{Context: "c1", Action: "a", Settings: settingsMs(500)},
		},
		{
			name: "willDisappear",
			in:   `{"event":"willDisappear","context":"c1","action":"a","payload":{"settings":{}}}`,
			want: WidgetDisappeared{Context: "c1"},
		},
		{
			name: "keyDown",
			in:   `{"event":"keyDown","context":"c1","action":"a","payload":{}}`,
			want: ManualTrigger{Context: "c1", Action: "a"},
		},
		{
			name: "keyUp ignored",
			in:   `{"event":"keyUp","context":"c1","action":"a"}`,
			want: Ignored{Event: "keyUp", Context: "c1"},
		},
		{
			name: "property inspector ignored",
			in:   `{"event":"propertyInspectorDidAppear","context":"c1","action":"a"}`,
			want: Ignored{Event: "propertyInspectorDidAppear", Context: "c1"},
		},
		{
			name: "sendToPlugin ignored",
			in:   `{"event":"sendToPlugin","context":"c1","action":"a","payload":{"anything":true}}`,
			want: Ignored{Event: "sendToPlugin", Context: "c1"},
		},
		{
			name: "unknown event ignored",
			in:   `{"event":"deviceDidConnect","device":"d1"}`,
			want: Ignored{Event: "deviceDidConnect"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.in), 2*time.Second)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	inputs := []string{
		`{"event":"willAppear",`,
		`not json`,
		`["willAppear"]`,
		`{"event":"willAppear","context":"c1","action":"a","payload":[1]}`,
		`{"event":"didReceiveSettings","action":"a","payload":{}}`,
	}
	for _, in := range inputs {
		if _, err := Decode([]byte(in), time.Second); !errors.Is(err, ErrMalformed) {
			t.Errorf("Decode(%q) error = %v, want ErrMalformed", in, err)
		}
	}
}
