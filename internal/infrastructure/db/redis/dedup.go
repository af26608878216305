package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDedupWindow = 10 * time.Second

// SubmissionDeduper suppresses identical review submissions within a window.
// Key format: dedup:review:<site>:<sha256(email \x00 review)>
type SubmissionDeduper struct {
	client *redis.Client
	window time.Duration
}

// NewSubmissionDeduper wraps client. A non-positive window falls back to the default.
func NewSubmissionDeduper(client *redis.Client, window time.Duration) *SubmissionDeduper {
	if window <= 0 {
		window = defaultDedupWindow
	}
	return &SubmissionDeduper{client: client, window: window}
}

// Claim atomically marks the submission as seen. It reports true when the key
// already existed, i.e. the same submission arrived within the window.
func (d *SubmissionDeduper) Claim(ctx context.Context, site, email, review string) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.key(site, email, review), "1", d.window).Result()
	if err != nil {
		return false, fmt.Errorf("dedup claim: %w", err)
	}
	return !ok, nil
}

// Release deletes the claim so the same submission can be stored again.
func (d *SubmissionDeduper) Release(ctx context.Context, site, email, review string) error {
	if err := d.client.Del(ctx, d.key(site, email, review)).Err(); err != nil {
		return fmt.Errorf("dedup release: %w", err)
	}
	return nil
}

func (d *SubmissionDeduper) key(site, email, review string) string {
	sum := sha256.Sum256([]byte(email + "\x00" + review))
	return fmt.Sprintf("dedup:review:%s:%s", site, hex.EncodeToString(sum[:]))
}
