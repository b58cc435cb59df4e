// Package protocol assembles a deployment from config.Config: persisted
// state, logging, metrics, the configuration registry, the wrapper asset,
// the vault factory and the option ledger.
package protocol

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/bitfsorg/coveredcall-go/address"
	"github.com/bitfsorg/coveredcall-go/asset"
	"github.com/bitfsorg/coveredcall-go/config"
	"github.com/bitfsorg/coveredcall-go/event"
	"github.com/bitfsorg/coveredcall-go/host"
	"github.com/bitfsorg/coveredcall-go/logging"
	"github.com/bitfsorg/coveredcall-go/option"
	"github.com/bitfsorg/coveredcall-go/state"
	"github.com/bitfsorg/coveredcall-go/vault"
)

// Names of the components every deployment runs.
const (
	StateFileName = "state.db"
	LedgerName    = "main"
	WrapperName   = "wrapped"
)

// Protocol is an opened deployment.
type Protocol struct {
	Config   config.Config
	Logger   zerolog.Logger
	Env      *host.Env
	Registry *config.Static
	Metrics  *prometheus.Registry
	Wrapper  *asset.Wrapper
	Vaults   *vault.Factory
	Ledger   *option.Ledger

	collections map[string]*asset.NFT
	db          *state.DB
	logCloser   io.Closer
	closed      bool
}

type collectionSpec struct {
	name   string
	minter address.Address
}

type options struct {
	clock       host.Clock
	sinks       []event.Sink
	collections []collectionSpec
}

// Option configures Open.
type Option func(*options)

// WithClock replaces the system clock.
func WithClock(c host.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithSink adds an event sink next to the log and metrics sinks.
func WithSink(s event.Sink) Option {
	return func(o *options) { o.sinks = append(o.sinks, s) }
}

// WithCollection deploys an asset collection. Collections must be declared
// on every Open so their persisted state can be loaded.
func WithCollection(name string, minter address.Address) Option {
	return func(o *options) { o.collections = append(o.collections, collectionSpec{name, minter}) }
}

// Open validates cfg and opens the deployment stored in cfg.DataDir.
func Open(cfg config.Config, opts ...Option) (*Protocol, error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	o := options{clock: host.SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}

	logger, logCloser, err := logging.New(cfg, "coveredcall")
	if err != nil {
		return nil, err
	}
	p := &Protocol{
		Config:      cfg,
		Logger:      logger,
		Metrics:     prometheus.NewRegistry(),
		collections: make(map[string]*asset.NFT),
		logCloser:   logCloser,
	}
	if err := p.open(o); err != nil {
		return nil, errors.Join(err, p.Close())
	}
	logger.Info().Str("data_dir", cfg.DataDir).Uint64("options", p.Ledger.OptionCount()).Msg("protocol opened")
	return p, nil
}

func (p *Protocol) open(o options) error {
	if err := os.MkdirAll(p.Config.DataDir, 0700); err != nil {
		return fmt.Errorf("protocol: create data dir: %w", err)
	}
	backend, err := state.OpenBoltBackend(filepath.Join(p.Config.DataDir, StateFileName))
	if err != nil {
		return err
	}
	p.db = state.NewDB(backend)

	registry, err := config.NewStatic(p.Config.Protocol)
	if err != nil {
		return err
	}
	p.Registry = registry

	metrics, err := event.NewMetricsSink(p.Metrics)
	if err != nil {
		return fmt.Errorf("protocol: register metrics: %w", err)
	}
	envOpts := []host.Option{
		host.WithLogger(p.Logger),
		host.WithSink(event.LogSink{Logger: p.Logger}),
		host.WithSink(metrics),
	}
	for _, s := range o.sinks {
		envOpts = append(envOpts, host.WithSink(s))
	}
	p.Env = host.NewEnv(p.db, o.clock, envOpts...)

	p.Wrapper = asset.NewWrapper(p.Env, WrapperName)
	if registry.WrapperAsset().IsZero() {
		registry.SetWrapperAsset(p.Wrapper.Address())
	}
	for _, c := range o.collections {
		if _, ok := p.collections[c.name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateCollection, c.name)
		}
		p.collections[c.name] = asset.NewNFT(p.Env, c.name, c.minter)
	}

	p.Vaults = vault.NewFactory(p.Env, registry)
	p.Ledger, err = option.NewLedger(p.Env, LedgerName, registry, p.Vaults, p.Config.Market)
	if err != nil {
		return err
	}

	if err := p.db.Load(); err != nil {
		return err
	}
	return p.Vaults.Restore()
}

// Collection returns the collection deployed as name.
func (p *Protocol) Collection(name string) (*asset.NFT, bool) {
	c, ok := p.collections[name]
	return c, ok
}

// Execute runs fn as one operation on behalf of caller.
func (p *Protocol) Execute(caller address.Address, fn func(*host.Call) error) error {
	if p.closed {
		return ErrClosed
	}
	return p.Env.Execute(caller, fn)
}

// Close releases the state file and the log file.
func (p *Protocol) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	var errs []error
	if p.db != nil {
		errs = append(errs, p.db.Close())
	}
	if p.logCloser != nil {
		errs = append(errs, p.logCloser.Close())
	}
	return errors.Join(errs...)
}
