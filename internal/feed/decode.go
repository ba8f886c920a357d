package feed

import (
	"encoding/json"

	"github.com/bytedance/sonic"
	"github.com/yanun0323/errors"

	"github.com/XxSNiPxX/hyperliquid-hft-test/pkg/exception"
)

const (
	ChannelBook                 = "l2Book"
	ChannelTrades               = "trades"
	ChannelSubscriptionResponse = "subscriptionResponse"
	ChannelError                = "error"
)

// Frame is the websocket envelope: {"channel": ..., "data": ...}.
type Frame struct {
	Channel string          `json:"channel"`
	Data    json.RawMessage `json:"data"`
}

// Decode turns a raw frame into an event. Frames on other channels decode to KindUnknown.
func Decode(raw []byte) (Event, error) {
	var frame Frame
	if err := sonic.ConfigFastest.Unmarshal(raw, &frame); err != nil {
		return Event{}, errors.Wrap(exception.ErrDecodeFrame, err.Error())
	}
	return DecodeFrame(frame)
}

// DecodeFrame decodes the data of an already split frame.
func DecodeFrame(frame Frame) (Event, error) {
	switch frame.Channel {
	case ChannelBook:
		var book Book
		if err := sonic.ConfigFastest.Unmarshal(frame.Data, &book); err != nil {
			return Event{}, errors.Wrap(exception.ErrDecodeFrame, err.Error()).With("channel", frame.Channel)
		}
		return NewBookEvent(book), nil
	case ChannelTrades:
		var trades []Trade
		if err := sonic.ConfigFastest.Unmarshal(frame.Data, &trades); err != nil {
			return Event{}, errors.Wrap(exception.ErrDecodeFrame, err.Error()).With("channel", frame.Channel)
		}
		return NewTradesEvent(trades), nil
	default:
		return Event{Kind: KindUnknown}, nil
	}
}
