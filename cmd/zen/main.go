// Command zen runs the Zen voice assistant.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/zen-ai/zen/internal/brain"
	"github.com/zen-ai/zen/internal/config"
	"github.com/zen-ai/zen/internal/logging"
	"github.com/zen-ai/zen/internal/memory"
	"github.com/zen-ai/zen/internal/overlay"
	"github.com/zen-ai/zen/internal/provider"
	"github.com/zen-ai/zen/internal/research"
	"github.com/zen-ai/zen/internal/session"
	"github.com/zen-ai/zen/internal/stt"
	"github.com/zen-ai/zen/internal/system"
	"github.com/zen-ai/zen/internal/tasks"
	"github.com/zen-ai/zen/internal/tool"
	"github.com/zen-ai/zen/internal/tts"
)

func main() {
	var (
		configPath = pflag.String("config", "", "path to config file (default ~/.zen/config.yaml)")
		textMode   = pflag.Bool("text", false, "type instead of talk: read stdin, print replies")
	)
	pflag.Parse()

	// .env is optional; environment variables win over it either way.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "config: %v\n", e)
		}
		os.Exit(1)
	}

	logDir := filepath.Join(filepath.Dir(cfg.Stores.Dir), "logs")
	log, err := logging.New(&logging.Config{
		LogDir:  logDir,
		Level:   logging.Level(cfg.Log.Level),
		Console: cfg.Log.Console,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()
	logger := log.Zerolog()

	if err := run(cfg, *configPath, *textMode, log); err != nil {
		logger.Error().Err(err).Msg("Zen exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, configPath string, textMode bool, log *logging.Logger) error {
	logger := log.Zerolog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Pick up config edits mid-run. Only settings that are safe to change
	// live are applied; the rest take effect on restart.
	if configPath == "" {
		if dir, err := config.ConfigDir(); err == nil {
			configPath = filepath.Join(dir, "config.yaml")
		}
	}
	if configPath != "" {
		watcher, err := config.Watch(configPath, func(updated *config.Config) {
			logging.SetLevel(logging.Level(updated.Log.Level))
		}, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Config watch unavailable")
		} else {
			defer watcher.Close()
		}
	}

	// Stores.
	memStore, err := memory.NewStore(filepath.Join(cfg.Stores.Dir, "memory.json"), logger)
	if err != nil {
		return fmt.Errorf("memory store: %w", err)
	}
	taskStore, err := tasks.NewManager(filepath.Join(cfg.Stores.Dir, "tasks.json"), logger)
	if err != nil {
		return fmt.Errorf("task store: %w", err)
	}

	sysCtl := system.NewController(logger)
	researcher := research.New("", logger)

	// Tools first: the provider advertises the descriptor list on
	// construction.
	registry := tool.NewRegistry(logger)
	if err := registerTools(registry, toolDeps{
		memory:     memStore,
		tasks:      taskStore,
		system:     sysCtl,
		researcher: researcher,
	}); err != nil {
		return err
	}

	aiProvider, err := provider.New(&cfg.AI, registry, logger)
	if err != nil {
		return err
	}

	zenBrain := brain.New(aiProvider, registry, brain.Options{
		SystemPrompt:   cfg.AI.SystemPrompt,
		MaxHistory:     cfg.AI.MaxHistory,
		ToolResultMode: cfg.AI.ToolResultMode,
		Timeout:        cfg.AI.Timeout,
	}, logger)

	// Speech in and out. Text mode swaps both ends for the console.
	var (
		source  stt.Source
		speaker tts.Speaker
	)
	if textMode {
		source = stt.NewConsoleSource(os.Stdin)
		speaker = tts.NewConsoleSpeaker(os.Stdout)
	} else {
		transcriber := stt.NewWhisper(stt.WhisperConfig{
			APIKey:  cfg.Listen.WhisperAPIKey,
			Timeout: cfg.Listen.Timeout + cfg.Listen.PhraseLimit,
		}, logger)
		source = stt.NewCommandRecorder(cfg.Listen.RecordCommand, transcriber, logger)

		if cfg.Speech.Provider == "openai" {
			speaker, err = tts.NewOpenAISpeaker(tts.OpenAIConfig{
				APIKey: cfg.Speech.APIKey,
				Voice:  cfg.Speech.Voice,
				Speed:  cfg.Speech.Speed,
			}, logger)
			if err != nil {
				return fmt.Errorf("speech output: %w", err)
			}
		} else {
			speaker = tts.NewConsoleSpeaker(os.Stdout)
		}
	}

	// Overlay.
	var notifier overlay.Notifier = overlay.Null{}
	if cfg.Overlay.Enabled {
		client := overlay.NewClient(cfg.Overlay.URL, logger)
		defer client.Close()
		notifier = client
	}

	// Daily reminder.
	if cfg.Reminder.Enabled {
		reminder, err := tasks.NewReminder(taskStore, cfg.Reminder.Schedule, func(summary string) {
			if err := speaker.Say(ctx, summary); err != nil {
				logger.Error().Err(err).Msg("Reminder announcement failed")
			}
		}, logger)
		if err != nil {
			return fmt.Errorf("reminder: %w", err)
		}
		reminder.Start()
		defer reminder.Stop()
	}

	// Metrics endpoint.
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Info().Str("addr", cfg.Metrics.Addr).Msg("Metrics server listening")
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				logger.Error().Err(err).Msg("Metrics server stopped")
			}
		}()
	}

	var opts session.Options
	if cfg.WakeWord.Enabled && !textMode {
		opts.WakeWord = cfg.WakeWord.Word
	}

	driver := session.New(source, speaker, zenBrain, sysCtl, notifier, opts, logger)
	return driver.Run(ctx)
}
