package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"chatmart/internal/model"

	"github.com/rs/zerolog"
)

// CachedProvider memoises successful profile lookups. Failed lookups are
// never cached, and cache faults fall through to the wrapped provider.
type CachedProvider struct {
	next   Provider
	cache  Cache
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedProvider wraps next with cache.
func NewCachedProvider(next Provider, cache Cache, ttl time.Duration, logger zerolog.Logger) *CachedProvider {
	return &CachedProvider{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "identity_cache").Logger(),
	}
}

// Profile returns the cached profile for the token or fetches and stores it.
func (p *CachedProvider) Profile(ctx context.Context, accessToken string) (*model.Profile, error) {
	key := p.cache.GenerateKey("profile", tokenDigest(accessToken))

	if raw, err := p.cache.Get(ctx, key); err != nil {
		p.logger.Warn().Err(err).Msg("profile cache read failed")
	} else if raw != "" {
		var profile model.Profile
		if err := json.Unmarshal([]byte(raw), &profile); err == nil && profile.UserID != "" {
			return &profile, nil
		}
	}

	profile, err := p.next.Profile(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(profile); err == nil {
		if err := p.cache.Set(ctx, key, raw, p.ttl); err != nil {
			p.logger.Warn().Err(err).Msg("profile cache write failed")
		}
	}

	return profile, nil
}

// tokenDigest keeps raw access tokens out of the cache keyspace.
func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
