// Package daylock serializes whole-day mutations (auto-assign, clear,
// publish) behind short-lived redis locks, one lock per domain and date.
package daylock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrLocked = errors.New("another scheduling operation is in progress for this date")

// releaseScript deletes the lock only when it is still held by the releasing
// caller, so a lock that expired and was re-acquired is never stolen.
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

type Locker struct {
	client     *redis.Client
	expiration time.Duration
}

func NewLocker(client *redis.Client, expiration time.Duration) *Locker {
	return &Locker{
		client:     client,
		expiration: expiration,
	}
}

// Acquire takes the day lock for a scheduling domain ("tour" or "restaurant")
// and date. It returns a release func on success and ErrLocked when the lock
// is already held.
func (l *Locker) Acquire(ctx context.Context, domain string, date time.Time) (func(), error) {
	key := fmt.Sprintf("daylock:%s:%s", domain, date.Format("2006-01-02"))

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	token := hex.EncodeToString(buf)

	ok, err := l.client.SetNX(ctx, key, token, l.expiration).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLocked
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}

	return release, nil
}
