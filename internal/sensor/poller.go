package sensor

import (
	"context"
	"strconv"
	"time"

	"picow_telemetry/internal/logger"
)

// PublishFunc sends one encoded sample.
type PublishFunc func(ctx context.Context, payload []byte) error

// Poller samples a Source on a fixed interval and publishes each reading as
// plain decimal text.
type Poller struct {
	src     Source
	publish PublishFunc
	log     *logger.Logger
}

func NewPoller(src Source, publish PublishFunc, log *logger.Logger) *Poller {
	return &Poller{src: src, publish: publish, log: log}
}

// Encode formats a reading the way the dashboard parses it.
func Encode(v float64) []byte {
	return strconv.AppendFloat(nil, v, 'f', 2, 64)
}

// Run samples immediately, then every interval, until ctx is canceled.
// Read and publish failures are logged and the loop carries on.
func (p *Poller) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		p.Poll(ctx)
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// Poll takes and publishes a single sample.
func (p *Poller) Poll(ctx context.Context) {
	v, err := p.src.Read(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.log.Warnw("sample_read_failed", "err", err)
		}
		return
	}
	payload := Encode(v)
	if err := p.publish(ctx, payload); err != nil {
		if ctx.Err() == nil {
			p.log.Warnw("sample_publish_failed", "value", string(payload), "err", err)
		}
		return
	}
	p.log.Infow("sample_published", "value", string(payload))
}
