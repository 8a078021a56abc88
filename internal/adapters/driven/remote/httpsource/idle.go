package httpsource

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/architips/internal/core/domain"
)

var errIdleTimeout = errors.New("read timed out")

// idleTimeoutBody aborts the request when a single read waits longer than
// the timeout.
type idleTimeoutBody struct {
	body    io.ReadCloser
	size    int64
	timeout time.Duration
	cancel  func()
	timer   *time.Timer
	expired atomic.Bool
}

func newIdleTimeoutBody(body io.ReadCloser, size int64, timeout time.Duration, cancel func()) *idleTimeoutBody {
	b := &idleTimeoutBody{body: body, size: size, timeout: timeout, cancel: cancel}
	if timeout > 0 {
		b.timer = time.AfterFunc(timeout, b.expire)
		b.timer.Stop()
	}
	return b
}

func (b *idleTimeoutBody) expire() {
	b.expired.Store(true)
	b.cancel()
}

func (b *idleTimeoutBody) Read(p []byte) (int, error) {
	if b.timer != nil {
		b.timer.Reset(b.timeout)
	}
	n, err := b.body.Read(p)
	if b.timer != nil {
		b.timer.Stop()
	}

	if err != nil && err != io.EOF && b.expired.Load() {
		return n, fmt.Errorf("%w: %w", domain.ErrTransport, errIdleTimeout)
	}
	return n, err
}

func (b *idleTimeoutBody) Close() error {
	if b.timer != nil {
		b.timer.Stop()
	}
	err := b.body.Close()
	b.cancel()
	return err
}
