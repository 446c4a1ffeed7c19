package utils

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// One-shot flash messages: queued on a mutation, drained on the next
// rendered page. Stored per browser session in Redis, with an in-memory
// fallback when Redis is unreachable (single-instance only).

const (
	flashCookieName = "blogly_session"
	flashKeyPrefix  = "flash:"
	flashTTL        = 10 * time.Minute
)

var (
	flashStore   = map[string][]string{}
	flashStoreMu sync.Mutex
)

// sessionID returns the browser session identifier, minting a cookie when absent.
func sessionID(ctx *gin.Context) string {
	if sid, err := ctx.Cookie(flashCookieName); err == nil && sid != "" {
		return sid
	}
	sid := uuid.NewString()
	ctx.SetCookie(flashCookieName, sid, int(flashTTL.Seconds()), "/", "", false, true)
	return sid
}

// AddFlash queues a one-shot message for the current session.
func AddFlash(ctx *gin.Context, msg string) {
	sid := sessionID(ctx)
	if rc := GetRedis(); rc != nil {
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		key := flashKeyPrefix + sid
		if err := rc.RPush(rctx, key, msg).Err(); err == nil {
			rc.Expire(rctx, key, flashTTL)
			return
		}
	}
	flashStoreMu.Lock()
	flashStore[sid] = append(flashStore[sid], msg)
	flashStoreMu.Unlock()
}

// TakeFlashes drains and returns all pending messages for the current session.
func TakeFlashes(ctx *gin.Context) []string {
	sid, err := ctx.Cookie(flashCookieName)
	if err != nil || sid == "" {
		return nil
	}

	flashStoreMu.Lock()
	msgs := flashStore[sid]
	delete(flashStore, sid)
	flashStoreMu.Unlock()

	if rc := GetRedis(); rc != nil {
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		key := flashKeyPrefix + sid
		pipe := rc.TxPipeline()
		lrange := pipe.LRange(rctx, key, 0, -1)
		pipe.Del(rctx, key)
		if _, err := pipe.Exec(rctx); err == nil {
			msgs = append(msgs, lrange.Val()...)
		}
	}
	return msgs
}
