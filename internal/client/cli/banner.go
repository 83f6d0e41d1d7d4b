package cli

import (
	"fmt"
	"sync"
	"time"
)

// Banner display windows. Errors linger a little longer so they are not
// missed between prompts.
const (
	successBannerTTL = 3 * time.Second
	errorBannerTTL   = 5 * time.Second
)

// banner holds the transient status line shown above the prompt. A new
// message replaces the current one immediately and restarts the expiry clock;
// the pending expiry of a replaced message never clears its successor.
type banner struct {
	mu   sync.Mutex
	text string
	gen  uint64

	// after is a test seam for time.AfterFunc.
	after func(time.Duration, func()) *time.Timer
}

func newBanner() *banner {
	return &banner{after: time.AfterFunc}
}

// Success shows msg for the success window.
func (b *banner) Success(msg string) {
	b.show(msg, successBannerTTL)
}

// Errorf shows a formatted message for the error window.
func (b *banner) Errorf(format string, args ...any) {
	b.show(fmt.Sprintf(format, args...), errorBannerTTL)
}

func (b *banner) show(msg string, ttl time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gen++
	gen := b.gen
	b.text = msg
	b.after(ttl, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		// Only the newest message may clear itself.
		if b.gen == gen {
			b.text = ""
		}
	})
}

// Current returns the visible message, or "" when none is active.
func (b *banner) Current() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}
