package config

import "sort"

// Presets are named, pre-tuned configurations per mode.
var Presets = map[string]map[string]*Config{
	ModeSnow: {
		"calm": {
			Mode: ModeSnow, Width: DefaultWidth, Height: DefaultHeight,
			FPS: 30, Intensity: 1, TTLSeconds: 14,
			TerminalVelocityRate: 0.8, OffscreenOffset: 8, SpawnBand: 24,
			SizeMin: 0.8, SizeMax: 1.8, TranslucencyMin: 0.3,
			Forces: Forces{Gravity: 0.03, Drag: 0.1, Wind: WindVec{X: 0.01}},
		},
		"flurry": {
			Mode: ModeSnow, Width: DefaultWidth, Height: DefaultHeight,
			FPS: 30, Intensity: 3, TTLSeconds: 10,
			TerminalVelocityRate: 1.0, OffscreenOffset: 8, SpawnBand: 24,
			SizeMin: 0.8, SizeMax: 2.2, TranslucencyMin: 0.3,
			Forces: Forces{Gravity: 0.05, Drag: 0.08, Wind: WindVec{X: 0.04}},
		},
		"blizzard": {
			Mode: ModeSnow, Width: DefaultWidth, Height: DefaultHeight,
			FPS: 30, Intensity: 6, TTLSeconds: 7,
			TerminalVelocityRate: 1.6, OffscreenOffset: 16, SpawnBand: 32,
			SizeMin: 0.6, SizeMax: 2.6, TranslucencyMin: 0.2,
			Forces: Forces{Gravity: 0.08, Drag: 0.05, Wind: WindVec{X: 0.18}},
		},
	},
	ModeRain: {
		"drizzle": {
			Mode: ModeRain, Width: DefaultWidth, Height: DefaultHeight,
			FPS: 30, Intensity: 2, TTLSeconds: 5,
			TerminalVelocityRate: 2.0, OffscreenOffset: 8, SpawnBand: 32,
			SizeMin: 0.5, SizeMax: 1.2, TranslucencyMin: 0.5,
			Forces: Forces{Gravity: 0.2, Drag: 0.01, Wind: WindVec{X: 0.03}},
		},
		"downpour": {
			Mode: ModeRain, Width: DefaultWidth, Height: DefaultHeight,
			FPS: 30, Intensity: 7, TTLSeconds: 4,
			TerminalVelocityRate: 2.8, OffscreenOffset: 16, SpawnBand: 40,
			SizeMin: 0.6, SizeMax: 1.6, TranslucencyMin: 0.4,
			Forces: Forces{Gravity: 0.35, Drag: 0.005, Wind: WindVec{X: 0.1}},
		},
	},
}

func GetPreset(mode, preset string) *Config {
	modePresets, ok := Presets[mode]
	if !ok {
		return nil
	}
	cfg, ok := modePresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(mode string) []string {
	modePresets, ok := Presets[mode]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modePresets))
	for name := range modePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
