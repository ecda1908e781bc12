package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	xhttp "github.com/nimasrn/record-shop/pkg/http"
	"github.com/nimasrn/record-shop/pkg/logger"
	"github.com/nimasrn/record-shop/pkg/redis"
)

const (
	HeaderKey      = "Idempotency-Key"
	HeaderReplayed = "Idempotent-Replayed"

	statePending  = "pending"
	stateComplete = "complete"
)

type Config struct {
	// TTL is how long a completed response is replayed.
	TTL time.Duration
	// LockTTL bounds how long a crashed request keeps its key reserved.
	LockTTL time.Duration
	// OpTimeout bounds each Redis call. The handler's own run time is not
	// counted against it.
	OpTimeout time.Duration
	KeyPrefix string
}

func DefaultConfig() Config {
	return Config{
		TTL:       24 * time.Hour,
		LockTTL:   30 * time.Second,
		OpTimeout: 2 * time.Second,
		KeyPrefix: "idempotency:",
	}
}

type entry struct {
	State       string `json:"state"`
	Fingerprint string `json:"fingerprint"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// Store remembers the first response to each keyed POST.
type Store struct {
	redis  redis.RedisAdapter
	config Config
}

func NewStore(redisAdapter redis.RedisAdapter, config Config) *Store {
	def := DefaultConfig()
	if config.TTL <= 0 {
		config.TTL = def.TTL
	}
	if config.LockTTL <= 0 {
		config.LockTTL = def.LockTTL
	}
	if config.OpTimeout <= 0 {
		config.OpTimeout = def.OpTimeout
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = def.KeyPrefix
	}
	return &Store{
		redis:  redisAdapter,
		config: config,
	}
}

// Middleware only looks at POST requests that carry an Idempotency-Key.
// The first request runs and its response (below 500) is stored; later
// requests with the same key and body get the stored response back, and a
// request that arrives while the first one is still running gets 409.
// Redis failures let the request through unguarded.
func (s *Store) Middleware(next xhttp.RequestHandler) xhttp.RequestHandler {
	return func(ctx *xhttp.RequestCtx) {
		key := string(ctx.Request.Header.Peek(HeaderKey))
		if key == "" || !ctx.IsPost() {
			next(ctx)
			return
		}

		rkey := s.config.KeyPrefix + string(ctx.Path()) + ":" + key
		fp := fingerprint(ctx.PostBody())

		rctx, cancel := s.opContext()
		pending, _ := json.Marshal(entry{State: statePending, Fingerprint: fp})
		acquired, err := s.redis.SetNX(rctx, rkey, pending, s.config.LockTTL)
		if err != nil {
			cancel()
			logger.Warn("idempotency store unavailable", "key", key, "error", err)
			next(ctx)
			return
		}

		if !acquired {
			s.replay(ctx, rctx, rkey, key, fp)
			cancel()
			return
		}
		cancel()

		next(ctx)

		// the handler may have run longer than OpTimeout, so the writes get
		// their own deadline
		wctx, wcancel := s.opContext()
		defer wcancel()

		status := ctx.Response.StatusCode()
		if status >= xhttp.StatusInternalServerError {
			if err := s.redis.Del(wctx, rkey); err != nil {
				logger.Warn("failed to release idempotency key", "key", key, "error", err)
			}
			return
		}

		done, _ := json.Marshal(entry{
			State:       stateComplete,
			Fingerprint: fp,
			Status:      status,
			ContentType: string(ctx.Response.Header.ContentType()),
			Body:        append([]byte(nil), ctx.Response.Body()...),
		})
		if err := s.redis.Set(wctx, rkey, done, s.config.TTL); err != nil {
			logger.Warn("failed to store idempotent response", "key", key, "error", err)
		}
	}
}

func (s *Store) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.config.OpTimeout)
}

func (s *Store) replay(ctx *xhttp.RequestCtx, rctx context.Context, rkey, key, fp string) {
	raw, err := s.redis.Get(rctx, rkey)
	if err != nil {
		if errors.Is(err, redis.NilError) {
			// expired between SETNX and GET
			xhttp.WriteMessage(ctx, xhttp.StatusConflict, "A request with this Idempotency-Key is already in progress.")
			return
		}
		logger.Warn("idempotency store unavailable", "key", key, "error", err)
		xhttp.WriteMessage(ctx, xhttp.StatusServiceUnavailable, "Idempotency store unavailable, retry later.")
		return
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		logger.Error("corrupt idempotency entry", "key", key, "error", err)
		xhttp.WriteMessage(ctx, xhttp.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	switch {
	case e.Fingerprint != fp:
		xhttp.WriteMessage(ctx, xhttp.StatusConflict, "Idempotency-Key was already used with a different request body.")
	case e.State == statePending:
		xhttp.WriteMessage(ctx, xhttp.StatusConflict, "A request with this Idempotency-Key is already in progress.")
	default:
		logger.Debug("replaying idempotent response", "key", key, "status", e.Status)
		ctx.Response.Header.Set(HeaderReplayed, "true")
		if e.ContentType != "" {
			ctx.Response.Header.SetContentType(e.ContentType)
		}
		ctx.Response.SetStatusCode(e.Status)
		ctx.Response.SetBody(e.Body)
	}
}

func fingerprint(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
