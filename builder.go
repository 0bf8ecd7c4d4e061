package authgate

import (
	"errors"
	"log/slog"

	internalaudit "github.com/MrEthical07/authgate/internal/audit"
	"github.com/MrEthical07/authgate/jwt"
	"github.com/MrEthical07/authgate/store"
	"github.com/redis/go-redis/v9"
)

// Builder assembles a [Gate]. Obtain one with [New], chain the With*
// methods, and call Build exactly once.
type Builder struct {
	config    Config
	redis     *redis.Client
	provider  AuthorityProvider
	auditSink AuditSink
	logger    *slog.Logger

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis supplies the Redis client backing the revocation store and
// the authorization cache.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithAuthorityProvider supplies the role/permission lookup collaborator.
func (b *Builder) WithAuthorityProvider(p AuthorityProvider) *Builder {
	b.provider = p
	return b
}

// WithAuditSink supplies the destination for audit events. When omitted,
// events are discarded.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger supplies a structured logger. When omitted, slog.Default()
// is used.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build validates the configuration and wiring and returns the Gate.
func (b *Builder) Build() (*Gate, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if err := b.config.validate(); err != nil {
		return nil, err
	}
	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.provider == nil {
		return nil, errors.New("authority provider required")
	}

	codec, err := jwt.NewCodec(jwt.Config{
		Secret:     []byte(b.config.JWT.Secret),
		Issuer:     b.config.JWT.Issuer,
		AccessTTL:  b.config.JWT.AccessTTL,
		RefreshTTL: b.config.JWT.RefreshTTL,
		Leeway:     b.config.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	st := store.New(b.redis)
	cache := NewAuthCache(codec, st, b.config.Cache.TTL)
	metrics := NewMetrics(b.config.Metrics)

	g := &Gate{
		config:   b.config,
		codec:    codec,
		store:    st,
		cache:    cache,
		provider: b.provider,
		metrics:  metrics,
		logger:   logger,
		dispatcher: internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    b.config.Audit.Enabled,
			BufferSize: b.config.Audit.BufferSize,
			DropIfFull: b.config.Audit.DropIfFull,
		}, b.auditSink),
	}
	g.validator = &validator{
		codec:       codec,
		store:       st,
		rejectStale: b.config.Staleness == StalenessReject,
	}
	g.resolver = &resolver{
		codec:    codec,
		store:    st,
		cache:    cache,
		provider: b.provider,
		metrics:  metrics,
	}

	b.built = true
	return g, nil
}
