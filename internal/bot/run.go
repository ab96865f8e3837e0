package bot

import (
	"context"
	"errors"
	"time"

	"github.com/matsen/physform/internal/telegram"
)

// Poller fetches incoming updates.
type Poller interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]telegram.Update, error)
}

// RunOptions tunes the polling loop.
type RunOptions struct {
	PollTimeout time.Duration // long-poll wait; zero means telegram.DefaultPollTimeout
	RetryDelay  time.Duration // wait after a failed poll; zero means 3s
}

// Run polls for updates and handles them one at a time until ctx is done.
// It returns nil on cancellation and an error only when the token is
// rejected.
func (d *Dispatcher) Run(ctx context.Context, p Poller, opts RunOptions) error {
	if opts.PollTimeout == 0 {
		opts.PollTimeout = telegram.DefaultPollTimeout
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = 3 * time.Second
	}

	d.logger.Info("bot started")
	defer func() {
		if d.Dirty() {
			d.logger.Warn("bot stopped with unsaved changes")
		} else {
			d.logger.Info("bot stopped")
		}
	}()

	var offset int64
	for {
		updates, err := p.GetUpdates(ctx, offset, opts.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if telegram.IsAuthError(err) {
				return err
			}
			delay := opts.RetryDelay
			var apiErr *telegram.APIError
			if telegram.IsRateLimited(err) && errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
				delay = time.Duration(apiErr.RetryAfter) * time.Second
			}
			d.logger.Warn("polling updates", "error", err, "retry_in", delay)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
			continue
		}

		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.Message == nil || u.Message.Text == "" {
				continue
			}
			msg := Message{ChatID: u.Message.Chat.ID, Text: u.Message.Text}
			if err := d.Handle(ctx, msg); err != nil {
				d.logger.Warn("handling update", "update_id", u.UpdateID, "error", err)
			}
		}
	}
}
