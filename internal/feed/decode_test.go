package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBook(t *testing.T) {
	raw := []byte(`{"channel":"l2Book","data":{"coin":"BTC","time":1700000000000,"levels":[[{"px":"100.0","sz":"10","n":3}],[{"px":"100.2","sz":"5","n":1}]]}}`)

	ev, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, KindBook, ev.Kind)
	assert.Equal(t, "BTC", ev.Book.Coin)
	assert.Equal(t, uint64(1700000000000), ev.Book.Time)
	require.Len(t, ev.Book.Levels[0], 1)
	require.Len(t, ev.Book.Levels[1], 1)
	assert.Equal(t, "100.2", ev.Book.Levels[1][0].Px)
	assert.Equal(t, 3, ev.Book.Levels[0][0].N)
}

func TestDecodeTrades(t *testing.T) {
	raw := []byte(`{"channel":"trades","data":[{"coin":"BTC","side":"B","px":"100.1","sz":"0.5","time":1,"hash":"0x1","tid":9},{"coin":"BTC","side":"A","px":"100.0","sz":"1","time":2,"hash":"0x2","tid":10}]}`)

	ev, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, KindTrades, ev.Kind)
	require.Len(t, ev.Trades, 2)
	assert.True(t, ev.Trades[0].IsBuy())
	assert.Equal(t, 0.5, ev.Trades[0].Size())
	assert.False(t, ev.Trades[1].IsBuy())
	assert.Equal(t, 100.0, ev.Trades[1].Price())
}

func TestDecodeUnknownChannel(t *testing.T) {
	ev, err := Decode([]byte(`{"channel":"subscriptionResponse","data":{"method":"subscribe"}}`))
	require.NoError(t, err)
	assert.Equal(t, KindUnknown, ev.Kind)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode([]byte(`{"channel":`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"channel":"trades","data":{"px":1}}`))
	assert.Error(t, err)
}
