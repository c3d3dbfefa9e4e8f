package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/BattleshipHeatmap/internal/config"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	trials := flag.Int("trials", -1, "Trials per round (-1 to use config default)")
	workers := flag.Int("workers", -1, "Worker goroutines, 0 for one per CPU (-1 to use config default)")
	seed := flag.Uint64("seed", 0, "Base random seed (0 to use config default)")
	mode := flag.String("mode", "", "Estimation mode: sample or exhaustive (empty to use config default)")
	autoplay := flag.Bool("autoplay", false, "Play against a randomly generated hidden fleet")
	flag.Parse()

	// Initialize configuration
	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if err := config.LoadEnvironmentConfig(os.Getenv("APP_ENV")); err != nil {
		log.Fatal().Err(err).Msg("Failed to load environment config")
	}

	// Flags are runtime overrides, so they still win after a hot reload
	overrides := map[string]interface{}{}
	if *logLevel != "" {
		overrides["logging.level"] = *logLevel
	}
	if *trials != -1 {
		overrides["simulation.trials"] = *trials
	}
	if *workers != -1 {
		overrides["simulation.workers"] = *workers
	}
	if *seed != 0 {
		overrides["simulation.seed"] = *seed
	}
	if *mode != "" {
		overrides["simulation.mode"] = *mode
	}
	for key, value := range overrides {
		if err := config.Set(key, value); err != nil {
			log.Fatal().Err(err).Msg("Invalid command line flag")
		}
	}

	cfg := config.Get()
	setupLogging(cfg.Logging.Level, cfg.Logging.Format)

	simulationSettings := func() config.SimulationConfig { return config.Get().Simulation }
	if path := config.ConfigFilePath(); path != "" {
		config.WatchConfig(func(c *config.Config) {
			log.Info().
				Int("trials", c.Simulation.Trials).
				Str("mode", c.Simulation.Mode).
				Msg("Config change applies from the next round")
		})
	}

	fleet, err := cfg.Fleet.Fleet()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid fleet")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	p := newPlayer(simulationSettings, cfg.Session.ShowGrid, os.Stdout, log.Logger)
	log.Info().
		Ints("fleet", fleet.Lengths()).
		Bool("autoplay", *autoplay).
		Msg("Starting heatmap session")

	if *autoplay {
		shots, err := p.autoplay(ctx, fleet)
		if err != nil {
			log.Fatal().Err(err).Int("shots", shots).Msg("Autoplay failed")
		}
		log.Info().Int("shots", shots).Msg("Fleet sunk")
		return
	}
	if err := p.interactive(ctx, fleet, os.Stdin); err != nil {
		log.Fatal().Err(err).Msg("Session ended with error")
	}
}

func setupLogging(level, format string) {
	// Parse log level
	var logLevel zerolog.Level
	switch level {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	// Logs go to stderr so the board on stdout stays readable
	if format == "json" || os.Getenv("APP_ENV") == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}
}
