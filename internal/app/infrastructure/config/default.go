package config

import "time"

func (m *Manager) GetDefault() *Config {
	return &Config{
		App: App{
			LogLevel: "info",
			LogFile:  "logs/harness.log",
		},
		Bus: Bus{
			URL:       "ws://localhost:8181/core",
			EmitEvery: 100 * time.Millisecond,
		},
		Poll: Poll{
			Interval:    time.Second,
			MaxAttempts: 10,
		},
		Lang:      "en-us",
		SkillsDir: "/opt/mycroft/skills",
		Features:  []string{"features"},
	}
}
