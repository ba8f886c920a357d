package exception

import "github.com/yanun0323/errors"

var (
	ErrQueueClosed  = errors.New("event queue closed")
	ErrRouterClosed = errors.New("router: stopped")
)
