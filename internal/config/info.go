package config

import (
	"encoding/json"
	"fmt"
)

// HostInfo is the -info launch argument.
type HostInfo struct {
	Application      ApplicationInfo `json:"application"`
	Plugin           PluginInfo      `json:"plugin"`
	DevicePixelRatio int             `json:"devicePixelRatio"`
	Devices          []DeviceInfo    `json:"devices"`
}

type ApplicationInfo struct {
	Language        string `json:"language"`
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platformVersion"`
	Version         string `json:"version"`
}

type PluginInfo struct {
	UUID    string `json:"uuid"`
	Version string `json:"version"`
}

type DeviceInfo struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Type int        `json:"type"`
	Size DeviceSize `json:"size"`
}

type DeviceSize struct {
	Columns int `json:"columns"`
	Rows    int `json:"rows"`
}

func ParseHostInfo(raw string) (HostInfo, error) {
	var info HostInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return HostInfo{}, fmt.Errorf("parsing info: %w", err)
	}
	return info, nil
}

// String summarises the host for the startup log line.
func (h HostInfo) String() string {
	return fmt.Sprintf("%s %s on %s %s, %d device(s)",
		h.Plugin.UUID, h.Plugin.Version, h.Application.Platform, h.Application.Version, len(h.Devices))
}
