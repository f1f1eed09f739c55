package config

import "sort"

var Presets = map[string]*Config{
	"hair": {
		Name: "hair", Chains: 5, Nodes: 12, Spacing: 0.15, Tilt: 10, Friction: 0.08,
		Dt: 1.0 / 60.0, Duration: 10, Iterations: 2, Workers: 4,
		Driver: DriverConfig{Kind: "sway", Amplitude: 0.4, Frequency: 0.8, Axis: "x"},
	},
	"rope": {
		Name: "rope", Chains: 1, Nodes: 16, Spacing: 0.4, Tilt: 60, Friction: 0.02,
		Dt: 1.0 / 60.0, Duration: 15, Iterations: 4, Workers: 1,
		Driver: DriverConfig{Kind: "none", Axis: "x"},
	},
	"antenna": {
		Name: "antenna", Chains: 2, Nodes: 6, Spacing: 0.3, Tilt: 0, Friction: 0.2,
		Dt: 1.0 / 60.0, Duration: 10, Iterations: 1, Workers: 2,
		Driver: DriverConfig{Kind: "sway", Amplitude: 1.0, Frequency: 1.5, Axis: "x"},
	},
	"stiff": {
		Name: "stiff", Chains: 1, Nodes: 10, Spacing: 0.5, Tilt: 45, Friction: 0.02,
		Dt: 1.0 / 60.0, Duration: 10, Iterations: 20, Workers: 1,
		Driver: DriverConfig{Kind: "none", Axis: "x"},
	},
	"pendulum": {
		Name: "pendulum", Chains: 1, Nodes: 2, Spacing: 2, Tilt: 60, Friction: 0,
		Dt: 1.0 / 60.0, Duration: 20, Iterations: 1, Workers: 1,
		Driver: DriverConfig{Kind: "none", Axis: "x"},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
