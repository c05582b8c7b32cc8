package cache

import (
	"context"
	"encoding/json"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-post-service/internal/cqrs"
)

var (
	cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "post_cache_hits_total",
		Help: "Single-post reads served from the cache.",
	})
	cacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "post_cache_misses_total",
		Help: "Single-post reads that fell through to the query handler.",
	})
)

func init() {
	prometheus.MustRegister(cacheHits, cacheMisses)
}

// CachedPostReader serves single-post reads through the cache. On a hit the
// query handler is never invoked; on a miss the query is dispatched and the
// result is written back so the next read for the same sid hits.
//
// Writes do not invalidate entries. A post edited or deleted after being
// cached keeps serving its cached projection until the entry expires.
type CachedPostReader struct {
	Cache  Store
	Sender cqrs.Sender
}

// GetPost returns the projection for sid, consulting the cache first.
//
// Dispatch failures propagate unchanged and leave the cache untouched; a
// missing post is never cached. Population after a successful dispatch is
// best-effort and a Set failure only logs.
func (r *CachedPostReader) GetPost(ctx context.Context, sid string) (*cqrs.PostResponse, error) {
	if raw, ok := r.Cache.Get(ctx, sid); ok {
		var res cqrs.PostResponse
		if err := json.Unmarshal(raw, &res); err == nil {
			cacheHits.Inc()
			return &res, nil
		}
		// Undecodable entry: drop it and fall through to the store.
		log.Warn().Str("sid", sid).Msg("cache: dropping undecodable entry")
		r.Cache.Delete(ctx, sid)
	}

	cacheMisses.Inc()
	res, err := cqrs.Send[*cqrs.PostResponse](ctx, r.Sender, &cqrs.GetPostByIDQuery{Sid: sid})
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, sid, raw); err != nil {
			log.Warn().Err(err).Str("sid", sid).Msg("cache: populate failed")
		}
	}
	return res, nil
}
