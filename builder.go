package cavaauth

import (
	"errors"

	internalaudit "github.com/thiagomes07/cava-auth/internal/audit"
	"github.com/thiagomes07/cava-auth/routes"
)

// Builder assembles a [Store] from a config, an [AuthClient], and an optional
// permission matrix and audit sink.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	client AuthClient
	matrix *routes.Matrix

	auditSink AuditSink

	built bool
}

// New returns a Builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's config with a deep copy of cfg.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithAuthClient sets the refresh/logout collaborator. Required.
func (b *Builder) WithAuthClient(client AuthClient) *Builder {
	b.client = client
	return b
}

// WithMatrix overrides the permission matrix. Defaults to [routes.Default].
func (b *Builder) WithMatrix(m *routes.Matrix) *Builder {
	b.matrix = m
	return b
}

// WithAuditSink sets the audit sink and enables auditing.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = sink != nil
	return b
}

// WithMetricsEnabled toggles in-process metrics collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the refresh latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns a ready [Store]. A builder
// can be used once.
func (b *Builder) Build() (*Store, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.client == nil {
		return nil, errors.New("auth client required")
	}

	matrix := b.matrix
	if matrix == nil {
		matrix = routes.Default()
	}
	matrix.Freeze()

	store := &Store{
		cfg:     cfg,
		client:  b.client,
		matrix:  matrix,
		metrics: NewMetrics(cfg.Metrics),
		audit: internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, b.auditSink),
	}

	b.built = true
	return store, nil
}
