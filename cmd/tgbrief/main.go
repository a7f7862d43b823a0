package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/umputun/tgbrief/pkg/analysis"
	"github.com/umputun/tgbrief/pkg/config"
	"github.com/umputun/tgbrief/pkg/content"
	"github.com/umputun/tgbrief/pkg/domain"
	"github.com/umputun/tgbrief/pkg/llm"
	"github.com/umputun/tgbrief/pkg/repository"
	"github.com/umputun/tgbrief/pkg/telegram"
	"github.com/umputun/tgbrief/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" description:"configuration file, built-in defaults if not set"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`

	TelegramLogin    bool   `long:"telegram-login" description:"authorize telegram session interactively and exit"`
	TelegramPassword string `long:"telegram-password" env:"TELEGRAM_PASSWORD" description:"two-step verification password for telegram login"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	SetupLog(opts.Debug)
	log.Printf("[INFO] starting tgbrief version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

func run(ctx context.Context, opts Opts) error {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	SetupLog(opts.Debug, cfg.Secrets()...)

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			log.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	tgSource := telegram.NewSource(telegram.Options{
		SessionFile:     cfg.Telegram.SessionFile,
		Timeout:         cfg.Telegram.Timeout,
		MessagesPerChat: cfg.Telegram.MessagesPerChat,
		Logger:          telegramLogger(opts.Debug),
	})

	var source analysis.MessageSource = tgSource
	if cfg.Extraction.Enabled {
		log.Printf("[INFO] linked content extraction enabled, max %d concurrent", cfg.Extraction.MaxConcurrent)
		extractor := content.NewHTTPExtractor(cfg.Extraction.Timeout, cfg.Extraction.UserAgent)
		source = content.NewEnricher(tgSource, extractor, content.EnricherOptions{
			Timeout:       cfg.Extraction.Timeout,
			MaxConcurrent: cfg.Extraction.MaxConcurrent,
			MaxLength:     cfg.Extraction.MaxLength,
		})
	}

	prompt := cfg.Analysis.PromptTemplate
	if prompt == "" {
		prompt = llm.DefaultPromptTemplate
	}
	params := analysis.Params{
		ConfigurationStore:    repos.Configuration,
		JobManager:            repos.Job,
		StatisticsManager:     repos.Statistics,
		MessageSource:         source,
		ReportGenerator:       llm.NewReporter(cfg.LLM),
		DefaultPromptTemplate: prompt,
		DefaultWindow:         cfg.Analysis.Window,
	}
	configs := analysis.NewConfigManager(params)
	analyzer := analysis.NewAnalyzer(params)

	if err := configs.Bootstrap(ctx, bootstrapUpdate(cfg)); err != nil {
		log.Printf("[WARN] %v", err)
	}

	if opts.TelegramLogin {
		return telegramLogin(ctx, tgSource, configs, os.Stdin, os.Stdout, opts.TelegramPassword)
	}

	srv := server.New(cfg, analyzer, configs, revision, opts.Debug)
	srvErr := srv.Run(ctx)

	// let running jobs reach a terminal status before the database is closed
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Telegram.Timeout+cfg.LLM.Timeout)
	defer cancel()
	if err := analyzer.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] %v", err)
	}

	if srvErr != nil {
		return fmt.Errorf("server failed: %w", srvErr)
	}
	return nil
}

// bootstrapUpdate seeds an empty configuration from the application config
func bootstrapUpdate(cfg *config.Config) domain.ConfigurationUpdate {
	upd := domain.ConfigurationUpdate{
		TelegramAPIID:   cfg.Telegram.BootstrapAPIID,
		TelegramAPIHash: cfg.Telegram.BootstrapAPIHash,
		TelegramPhone:   cfg.Telegram.BootstrapPhone,
		OpenAIAPIKey:    cfg.LLM.APIKey,
	}
	if len(cfg.Analysis.Channels) > 0 {
		channels := cfg.Analysis.Channels
		upd.Channels = &channels
	}
	return upd
}

// loginSource authorizes the telegram session file
type loginSource interface {
	Login(ctx context.Context, creds domain.TelegramCredentials, prompt telegram.CodePrompt, password string) error
}

// configReader returns the stored configuration
type configReader interface {
	Get(ctx context.Context) (*domain.Configuration, error)
}

// telegramLogin runs the interactive login with stored credentials, the code is read from in
func telegramLogin(ctx context.Context, src loginSource, configs configReader, in io.Reader, out io.Writer, password string) error {
	cfg, err := configs.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg == nil || !cfg.Telegram.Complete() {
		return errors.New("telegram credentials are not configured, set them in the admin panel or config file first")
	}

	reader := bufio.NewReader(in)
	prompt := func(context.Context) (string, error) {
		fmt.Fprintf(out, "Enter the code sent to %s: ", cfg.Telegram.Phone)
		code, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		if code = strings.TrimSpace(code); code == "" {
			return "", errors.New("empty code")
		}
		return code, nil
	}

	if err := src.Login(ctx, cfg.Telegram, prompt, password); err != nil {
		return fmt.Errorf("telegram login failed: %w", err)
	}
	fmt.Fprintln(out, "Telegram session authorized")
	return nil
}

// telegramLogger returns the logger passed to the MTProto client, silent unless debug
func telegramLogger(dbg bool) *zap.Logger {
	if !dbg {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Printf("[WARN] can't make telegram debug logger: %v", err)
		return zap.NewNop()
	}
	return logger.Named("telegram")
}

// SetupLog configures lgr and the standard logger
func SetupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
