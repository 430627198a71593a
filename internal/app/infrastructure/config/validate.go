package config

import (
	"errors"
	"fmt"
	"strings"
)

func (m *Manager) validate(cfg *Config) error {
	// app
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true, "fatal": true}
	if cfg.App.LogLevel != "" && !validLevels[cfg.App.LogLevel] {
		return fmt.Errorf("app.log_level must be one of trace, debug, info, warn, error, fatal; got %s", cfg.App.LogLevel)
	}

	// bus
	if cfg.Bus.URL == "" {
		return errors.New("bus.url is required")
	}
	if !strings.HasPrefix(cfg.Bus.URL, "ws://") && !strings.HasPrefix(cfg.Bus.URL, "wss://") {
		return fmt.Errorf("bus.url must be a ws:// or wss:// address; got %s", cfg.Bus.URL)
	}
	if cfg.Bus.EmitEvery < 0 {
		return errors.New("bus.emit_every must not be negative")
	}

	// poll
	if cfg.Poll.Interval <= 0 {
		return errors.New("poll.interval must be positive")
	}
	if cfg.Poll.MaxAttempts < 1 {
		return errors.New("poll.max_attempts must be at least 1")
	}

	// dialog matching expects lowercase resources; the lang tag is
	// part of the resource path, so normalize it here once.
	if cfg.Lang == "" {
		return errors.New("lang is required")
	}
	cfg.Lang = strings.ToLower(cfg.Lang)

	if cfg.SkillsDir == "" {
		return errors.New("skills_dir is required")
	}
	if len(cfg.Features) == 0 {
		return errors.New("features must name at least one feature path")
	}

	return nil
}
