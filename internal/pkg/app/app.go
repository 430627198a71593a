package app

import (
	"fmt"
	"os"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
	"voightkampff/internal/app/adapters/bus"
	"voightkampff/internal/app/adapters/steps"
	"voightkampff/internal/app/domain/poll"
	"voightkampff/internal/app/infrastructure/config"
	"voightkampff/internal/app/infrastructure/resources"
	"voightkampff/pkg/logger"
)

const configPath = "config.json"

// New loads configuration, connects to the assistant's message bus and
// runs every configured feature file. A non-zero suite outcome comes
// back as an error so main can exit accordingly.
func New() error {
	manager, err := config.New(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg := manager.Get()

	log := logger.New(cfg.App.LogFile)
	log.SetLogLevel(cfg.App.LogLevel)

	b := bus.New(log, cfg.Bus.URL, cfg.Bus.EmitEvery)
	if err := b.Connect(); err != nil {
		log.Error("Failed to connect to message bus", err)
		return err
	}
	defer b.Close()

	poller := poll.New()
	poller.Interval = cfg.Poll.Interval
	poller.MaxAttempts = cfg.Poll.MaxAttempts

	harness := steps.New(
		log,
		b,
		resources.NewLoader(cfg.Lang),
		resources.NewResolver(cfg.SkillsDir),
		poller,
		cfg.Lang,
	)

	suite := godog.TestSuite{
		Name:                "voightkampff",
		ScenarioInitializer: harness.Register,
		Options: &godog.Options{
			Format:      "pretty",
			Output:      colors.Colored(os.Stdout),
			Paths:       cfg.Features,
			Strict:      true,
			Concurrency: 1,
		},
	}

	log.Info("Running feature suite", "paths", cfg.Features, "bus", cfg.Bus.URL)
	if code := suite.Run(); code != 0 {
		return fmt.Errorf("feature suite failed with status %d", code)
	}
	return nil
}
