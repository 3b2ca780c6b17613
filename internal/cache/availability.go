// Package cache is a redis-backed availability cache. Entries are
// keyed by a version counter bumped on every booking write, so a read
// never observes a set that predates a committed write.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	verKey      = "tablebook:bookings:ver"
	availPrefix = "tablebook:avail:"
	entryTTL    = 5 * time.Minute
)

type Availability struct {
	client *redis.Client
}

func New(client *redis.Client) *Availability {
	return &Availability{client: client}
}

func (a *Availability) key(ver string, t time.Time) string {
	return availPrefix + ver + ":" + t.UTC().Format(time.RFC3339)
}

func (a *Availability) version(ctx context.Context) (string, bool) {
	ver, err := a.client.Get(ctx, verKey).Result()
	if err == redis.Nil {
		return "0", true
	}
	if err != nil {
		log.Printf("cache: version read failed: %v", err)
		return "", false
	}
	return ver, true
}

// Get returns the cached booked-table set covering t. Any redis error
// is treated as a miss. The version token read here is returned on a
// miss so Set stores the entry under it; a Bump in between makes the
// entry unreachable instead of attaching stale data to a newer version.
func (a *Availability) Get(ctx context.Context, t time.Time) ([]int, string, bool) {
	ver, ok := a.version(ctx)
	if !ok {
		return nil, "", false
	}
	raw, err := a.client.Get(ctx, a.key(ver, t)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("cache: get failed: %v", err)
		}
		return nil, ver, false
	}
	var booked []int
	if err := json.Unmarshal(raw, &booked); err != nil {
		log.Printf("cache: bad entry: %v", err)
		return nil, ver, false
	}
	return booked, ver, true
}

func (a *Availability) Set(ctx context.Context, t time.Time, bookedTables []int, ver string) {
	if ver == "" {
		return
	}
	raw, err := json.Marshal(bookedTables)
	if err != nil {
		return
	}
	if err := a.client.Set(ctx, a.key(ver, t), raw, entryTTL).Err(); err != nil {
		log.Printf("cache: set failed: %v", err)
	}
}

// Bump advances the version so all prior entries become unreachable.
// Stale entries expire via TTL.
func (a *Availability) Bump(ctx context.Context) {
	if err := a.client.Incr(ctx, verKey).Err(); err != nil {
		log.Printf("cache: bump failed: %v", err)
	}
}
