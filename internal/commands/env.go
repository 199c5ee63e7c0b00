package commands

import (
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/finsight-dev/finsight/internal/cache"
	"github.com/finsight-dev/finsight/internal/config"
	"github.com/finsight-dev/finsight/internal/insights"
	"github.com/finsight-dev/finsight/internal/ledger"
	"github.com/finsight-dev/finsight/internal/predictions"
)

// env bundles the wired collaborators every data command needs.
type env struct {
	cfg    *config.Config
	ledger *ledger.Dir
	store  *predictions.SQLStore
	cache  cache.Cache
	log    *logrus.Logger
}

func newEnv(configPath string) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stderr)
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		log.SetLevel(level)
	}

	store, err := predictions.Open(cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening prediction store: %w", err)
	}

	c, err := cache.NewRistretto(cfg.Cache.MaxItems)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &env{
		cfg:    cfg,
		ledger: ledger.NewDir(cfg.Ledger.Root),
		store:  store,
		cache:  c,
		log:    log,
	}, nil
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		e.log.WithError(err).Warn("closing prediction store")
	}
}

func (e *env) cacheTTL() time.Duration {
	return time.Duration(e.cfg.Cache.TTLSeconds) * time.Second
}

func (e *env) analysisWindows() insights.Windows {
	return insights.Windows{
		HealthDays:       e.cfg.Analysis.HealthWindowDays,
		PatternDays:      e.cfg.Analysis.PatternWindowDays,
		SeasonalDays:     e.cfg.Analysis.SeasonalWindowDays,
		ImpulseThreshold: decimal.NewFromFloat(e.cfg.Analysis.ImpulseThreshold),
	}
}

// printYAML renders a command result to stdout.
func printYAML(v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("rendering output: %w", err)
	}
	fmt.Print(string(data))
	return nil
}
