package event

import (
	"errors"
	"time"
)

// ErrInputClosed is returned when the key channel backing a ChanInput has
// been closed.
var ErrInputClosed = errors.New("input source closed")

// Input is a source of operator keystrokes.
type Input interface {
	// Poll waits up to timeout for one key. A zero timeout is a
	// non-blocking check. ok is false when the timeout elapsed first.
	Poll(timeout time.Duration) (key Key, ok bool, err error)
}

// ChanInput reads keys from a channel, typically fed by the terminal session.
type ChanInput struct {
	keys <-chan Key
}

func NewChanInput(keys <-chan Key) *ChanInput {
	return &ChanInput{keys: keys}
}

func (c *ChanInput) Poll(timeout time.Duration) (Key, bool, error) {
	if timeout <= 0 {
		select {
		case k, ok := <-c.keys:
			return received(k, ok)
		default:
			return "", false, nil
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case k, ok := <-c.keys:
		return received(k, ok)
	case <-timer.C:
		return "", false, nil
	}
}

func received(k Key, ok bool) (Key, bool, error) {
	if !ok {
		return "", false, ErrInputClosed
	}
	return k, true, nil
}
