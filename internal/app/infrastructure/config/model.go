package config

import "time"

type Config struct {
	App  App  `json:"app"`
	Bus  Bus  `json:"bus"`
	Poll Poll `json:"poll"`

	Lang      string   `json:"lang"`
	SkillsDir string   `json:"skills_dir"`
	Features  []string `json:"features"`
}

type App struct {
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`
}

type Bus struct {
	URL string `json:"url"`
	// EmitEvery paces outbound utterances, in nanoseconds when given
	// as a number; the default is fine for real assistants.
	EmitEvery time.Duration `json:"emit_every"`
}

type Poll struct {
	Interval    time.Duration `json:"interval"`
	MaxAttempts int           `json:"max_attempts"`
}
