// Package engine orchestrates indicator pipeline runs: watermark resolution,
// extraction, transformation, loading and derived-table recomputation, with
// every run recorded in the state store.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/meridianhq/meridian/internal/config"
	"github.com/meridianhq/meridian/internal/pipeline"
	"github.com/meridianhq/meridian/internal/state"
	"github.com/meridianhq/meridian/internal/worldbank"
	"github.com/meridianhq/meridian/pkg/adapter"
)

// PipelineSpec is one fully parsed pipeline, ready to run. String-valued
// modes from configuration have already been narrowed to their closed types.
type PipelineSpec struct {
	Name              string
	Indicator         string
	Table             string
	DateRange         string
	ExtractMode       pipeline.ExtractMode
	IncrementalColumn string
	LoadMethod        pipeline.LoadMethod
	RegionFile        string
	Countries         []string
	DerivedTable      string
}

// SpecFromConfig builds a PipelineSpec from a validated pipeline config.
func SpecFromConfig(name string, pc config.PipelineConfig) (PipelineSpec, error) {
	extractMode, err := pipeline.ParseExtractMode(pc.Extract.Mode)
	if err != nil {
		return PipelineSpec{}, err
	}
	loadMethod, err := pipeline.ParseLoadMethod(pc.LoadMethod)
	if err != nil {
		return PipelineSpec{}, err
	}
	return PipelineSpec{
		Name:              name,
		Indicator:         pc.Indicator,
		Table:             pc.Table,
		DateRange:         pc.DateRange,
		ExtractMode:       extractMode,
		IncrementalColumn: pc.Extract.IncrementalColumn,
		LoadMethod:        loadMethod,
		RegionFile:        pc.RegionFile,
		Countries:         pc.Countries,
		DerivedTable:      pc.DerivedTable,
	}, nil
}

// Config holds engine configuration.
type Config struct {
	// StatePath is the path to the SQLite run-metadata database.
	StatePath string
	// AdapterConfig selects and configures the warehouse target.
	AdapterConfig adapter.Config
	// API configures the indicators API client.
	API worldbank.Config
	// SQLDir is the directory holding derived-table SQL templates.
	SQLDir string
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Engine ties the state store, warehouse adapter and API client together.
type Engine struct {
	// Warehouse adapter (lazy initialized)
	db          adapter.Adapter
	dbConfig    adapter.Config
	dbConnected bool
	dbMu        sync.Mutex

	store  state.Store
	client *worldbank.Client
	sqlDir string
	logger *slog.Logger
}

// New creates a new engine with a lazy warehouse connection. The warehouse
// adapter is only connected when a pipeline actually runs.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("initializing engine", slog.String("state_path", cfg.StatePath), slog.String("target", cfg.AdapterConfig.Type))

	store := state.NewSQLiteStore(logger)
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate state store: %w", err)
	}

	api := cfg.API
	if api.Logger == nil {
		api.Logger = logger
	}

	return &Engine{
		db:       nil, // lazy
		dbConfig: cfg.AdapterConfig,
		store:    store,
		client:   worldbank.NewClient(api),
		sqlDir:   cfg.SQLDir,
		logger:   logger,
	}, nil
}

// Store exposes the run-metadata store, e.g. for listing run history.
func (e *Engine) Store() state.Store {
	return e.store
}

// ensureDBConnected creates and connects the warehouse adapter on first use.
func (e *Engine) ensureDBConnected(ctx context.Context) error {
	e.dbMu.Lock()
	defer e.dbMu.Unlock()

	if e.dbConnected {
		return nil
	}

	if e.db == nil {
		db, err := adapter.NewAdapter(e.dbConfig, e.logger)
		if err != nil {
			return err
		}
		e.db = db
	}

	if err := e.db.Connect(ctx, e.dbConfig); err != nil {
		return fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	e.dbConnected = true
	return nil
}

// Close closes the warehouse connection and the state store.
func (e *Engine) Close() error {
	e.dbMu.Lock()
	if e.db != nil && e.dbConnected {
		_ = e.db.Close()
		e.dbConnected = false
	}
	e.dbMu.Unlock()

	return e.store.Close()
}
