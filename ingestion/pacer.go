package ingestion

import (
	"context"
	"time"
)

// Pacer spaces out outbound requests so the pipeline stays polite to the
// search instance and the news sites it fetches from. A nil Pacer never
// pauses, which keeps tests fast.
type Pacer struct {
	// PageDelay separates consecutive search result pages.
	PageDelay time.Duration

	// ArticleDelay separates consecutive article fetches.
	ArticleDelay time.Duration

	// TopicDelay separates consecutive topics in a multi-topic run.
	TopicDelay time.Duration

	// Sleep overrides the wait implementation. Tests inject a recorder
	// here. When nil, pauses honor context cancellation.
	Sleep func(ctx context.Context, d time.Duration)
}

// DefaultPacer returns the production pacing.
func DefaultPacer() *Pacer {
	return &Pacer{
		PageDelay:    1500 * time.Millisecond,
		ArticleDelay: 500 * time.Millisecond,
		TopicDelay:   5 * time.Second,
	}
}

// PagePause waits between search result pages.
func (p *Pacer) PagePause(ctx context.Context) {
	if p == nil {
		return
	}
	p.pause(ctx, p.PageDelay)
}

// ArticlePause waits between article fetches.
func (p *Pacer) ArticlePause(ctx context.Context) {
	if p == nil {
		return
	}
	p.pause(ctx, p.ArticleDelay)
}

// TopicPause waits between topics.
func (p *Pacer) TopicPause(ctx context.Context) {
	if p == nil {
		return
	}
	p.pause(ctx, p.TopicDelay)
}

func (p *Pacer) pause(ctx context.Context, d time.Duration) {
	if p == nil || d <= 0 {
		return
	}
	if p.Sleep != nil {
		p.Sleep(ctx, d)
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
