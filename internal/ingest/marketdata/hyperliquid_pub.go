package marketdata

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"
	"github.com/yanun0323/pkg/ws"

	"github.com/XxSNiPxX/hyperliquid-hft-test/internal/feed"
	"github.com/XxSNiPxX/hyperliquid-hft-test/pkg/exception"
)

const (
	HyperliquidWsUrl = "wss://api.hyperliquid.xyz/ws"

	hyperliquidSubscribe = "subscribe"
)

type HyperliquidPub struct {
	wss *ws.WebSocket
}

func NewHyperliquidPub(ctx context.Context, url string) *HyperliquidPub {
	if url == "" {
		url = HyperliquidWsUrl
	}
	return &HyperliquidPub{
		wss: ws.New(ctx, url),
	}
}

func (repo *HyperliquidPub) Len() int {
	return repo.wss.Len()
}

func (repo *HyperliquidPub) Close() {
	repo.wss.Close()
}

func (repo *HyperliquidPub) StartWebsocket(ctx context.Context) error {
	if err := repo.wss.Start(ctx); err != nil {
		return errors.Wrap(err, "start wss")
	}

	return nil
}

type HyperliquidSubscription struct {
	Type string `json:"type"`
	Coin string `json:"coin"`
}

type HyperliquidSubscribeRequest struct {
	Method       string                  `json:"method"`
	Subscription HyperliquidSubscription `json:"subscription"`
}

type HyperliquidSubscribeResponse struct {
	Method       string                  `json:"method"`
	Subscription HyperliquidSubscription `json:"subscription"`
}

// NewHyperliquidSubscribeRequest builds the subscribe payload for one channel of one coin.
func NewHyperliquidSubscribeRequest(channel, coin string) HyperliquidSubscribeRequest {
	return HyperliquidSubscribeRequest{
		Method: hyperliquidSubscribe,
		Subscription: HyperliquidSubscription{
			Type: channel,
			Coin: coin,
		},
	}
}

// subscriptionAck reports whether frame acknowledges req. Error frames fail the wait.
func subscriptionAck(frame feed.Frame, req HyperliquidSubscribeRequest) (bool, error) {
	switch frame.Channel {
	case feed.ChannelError:
		return false, errors.Wrap(exception.ErrSubscribeFailed, string(frame.Data)).With("subscription", req.Subscription)
	case feed.ChannelSubscriptionResponse:
		var resp HyperliquidSubscribeResponse
		if err := sonic.ConfigFastest.Unmarshal(frame.Data, &resp); err != nil {
			return false, nil
		}
		return resp.Subscription == req.Subscription, nil
	default:
		return false, nil
	}
}

// SubscribeBook subscribes the 'l2Book' channel.
func (repo *HyperliquidPub) SubscribeBook(ctx context.Context, coin string) error {
	return repo.subscribe(ctx, NewHyperliquidSubscribeRequest(feed.ChannelBook, coin))
}

// SubscribeTrades subscribes the 'trades' channel.
func (repo *HyperliquidPub) SubscribeTrades(ctx context.Context, coin string) error {
	return repo.subscribe(ctx, NewHyperliquidSubscribeRequest(feed.ChannelTrades, coin))
}

func (repo *HyperliquidPub) subscribe(ctx context.Context, payload HyperliquidSubscribeRequest) error {
	appendIntoRegister := true
	if err := repo.wss.SendAndWait(ctx, ws.Sidecar{
		Sender: func(ctx context.Context, ws *ws.WebSocket) error {
			if err := ws.WriteJSON(payload); err != nil {
				return errors.Wrap(err, "write subscribe payload").With("payload", payload)
			}

			return nil
		},
		Waiter: func(ctx context.Context, m ws.Message) (bool, error) {
			var frame feed.Frame
			if err := m.Unmarshal(&frame); err != nil {
				return false, nil
			}

			return subscriptionAck(frame, payload)
		},
	}, appendIntoRegister); err != nil {
		return errors.Wrap(err, "send and wait").With("subscription", payload.Subscription)
	}

	logs.Infof("[feed] subscribed %s %s", payload.Subscription.Type, payload.Subscription.Coin)
	return nil
}

// Observe decodes book and trade frames and hands them to handler. Frames on
// other channels are skipped; frames that fail to decode are logged and skipped.
func (repo *HyperliquidPub) Observe(ctx context.Context, handler func(ev feed.Event)) (unsubscribe func()) {
	ch, cancel := repo.wss.Subscribe()

	go func() {
		defer cancel()
		for {
			select {
			case <-sys.Shutdown():
				return
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}

				frame, ok := ws.ReadMessage[feed.Frame](m)
				if !ok {
					continue
				}

				ev, err := feed.DecodeFrame(frame)
				if err != nil {
					logs.Errorf("[feed] decode %s frame, err: %+v", frame.Channel, err)
					continue
				}
				if ev.Kind == feed.KindUnknown {
					continue
				}

				handler(ev)
			}
		}
	}()

	return cancel
}
