package exception

import "github.com/yanun0323/errors"

var (
	ErrDecodeFrame     = errors.New("market data: decode frame")
	ErrSubscribeFailed = errors.New("market data: subscribe failed")
)
