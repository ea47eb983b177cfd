// Command fantasy plays one fantasy card session from local data, or imports
// a JSON data directory into SQLite.
//
//	fantasy [-config path] [-sport id] [-seed n] [-holds 0,3] [-opponent fp]
//	fantasy [-config path] [-sport id] import
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/cardcap/fantasy-engine/internal/config"
	"github.com/cardcap/fantasy-engine/internal/game"
	"github.com/cardcap/fantasy-engine/internal/game/resolution"
	"github.com/cardcap/fantasy-engine/internal/provider"
	"github.com/cardcap/fantasy-engine/internal/sport"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "dev" // set via ldflags during build

type options struct {
	configPath string
	sportID    string
	seed       int64
	holds      string
	opponent   string
}

// result is what a played session prints to stdout.
type result struct {
	Session     *game.Session           `json:"session"`
	Resolutions []resolution.Resolution `json:"resolutions"`
}

func main() {
	var env config.Overrides
	if err := config.ParseEnv(&env); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read environment: %v\n", err)
		os.Exit(1)
	}

	var opts options
	flag.StringVar(&opts.configPath, "config", env.ConfigPath, "path to configuration file")
	flag.StringVar(&opts.sportID, "sport", env.Sport, "sport id (defaults to sports.default)")
	flag.Int64Var(&opts.seed, "seed", -1, "session seed; negative uses engine.seed or the clock")
	flag.StringVar(&opts.holds, "holds", "", "comma separated slot indexes to hold after the deal")
	flag.StringVar(&opts.opponent, "opponent", "", "opponent fantasy points for head-to-head sports")
	flag.Parse()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if opts.sportID == "" {
		opts.sportID = cfg.Sports.Default
	}
	logger.Info("starting fantasy runner",
		zap.String("version", version),
		zap.String("config", opts.configPath),
		zap.String("sport", opts.sportID),
		zap.String("provider", cfg.Data.Provider),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch cmd := flag.Arg(0); cmd {
	case "", "play":
		err = play(ctx, cfg, opts, logger)
	case "import":
		err = importJSON(ctx, cfg, opts.sportID, logger)
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		logger.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}

func play(ctx context.Context, cfg *config.Config, opts options, logger *zap.Logger) error {
	sportCfg, err := sport.NewLoader(cfg.Sports.Dir).Load(opts.sportID)
	if err != nil {
		return err
	}

	p, closeFn, err := openProvider(ctx, cfg.Data)
	if err != nil {
		return err
	}
	defer closeFn()

	bundle, err := provider.Prefetch(ctx, p, sportCfg.ID)
	if err != nil {
		return err
	}
	logger.Info("data loaded",
		zap.Int("players", len(bundle.Players)),
		zap.Int("game_logs", len(bundle.GameLogs)),
	)

	engine, err := game.NewEngine(game.EngineContext{
		SportConfig:     sportCfg,
		Players:         bundle.Players,
		GameLogs:        bundle.GameLogs,
		Seed:            cfg.Engine.Seed,
		MaxMulligans:    cfg.Engine.MaxMulligans,
		ProjectionNoise: cfg.Engine.ProjectionNoise,
	}, logger.Named("engine"))
	if err != nil {
		return err
	}

	holds, err := parseHolds(opts.holds)
	if err != nil {
		return err
	}
	opponent, err := parseOpponent(opts.opponent)
	if err != nil {
		return err
	}
	var seed *uint32
	if opts.seed >= 0 {
		s := uint32(opts.seed)
		seed = &s
	}

	session, res, err := engine.PlayCompleteGame("", sportCfg.ID, seed, holds, opponent)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result{Session: session, Resolutions: res})
}

func importJSON(ctx context.Context, cfg *config.Config, sportID string, logger *zap.Logger) error {
	if cfg.Data.DSN == "" {
		return fmt.Errorf("import needs data.dsn")
	}
	store, err := provider.OpenSQLite(ctx, cfg.Data.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.ImportFrom(ctx, provider.NewJSONDir(cfg.Data.Dir), sportID)
	if err != nil {
		return err
	}
	logger.Info("import complete",
		zap.String("sport", sportID),
		zap.String("from", cfg.Data.Dir),
		zap.String("to", cfg.Data.DSN),
		zap.Int("players", n),
	)
	return nil
}

func openProvider(ctx context.Context, cfg config.DataConfig) (provider.DataProvider, func(), error) {
	switch cfg.Provider {
	case config.ProviderSQLite:
		store, err := provider.OpenSQLite(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return provider.NewJSONDir(cfg.Dir), func() {}, nil
	}
}

func parseHolds(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	holds := make([]int, 0, len(parts))
	for _, part := range parts {
		idx, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid hold index %q: %w", part, err)
		}
		holds = append(holds, idx)
	}
	return holds, nil
}

func parseOpponent(s string) (*float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	fp, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid opponent points %q: %w", s, err)
	}
	return &fp, nil
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
