package feed

import (
	"github.com/shopspring/decimal"
)

// Kind is the inbound event category.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindBook
	KindTrades
)

func (k Kind) String() string {
	switch k {
	case KindBook:
		return "book"
	case KindTrades:
		return "trades"
	default:
		return "unknown"
	}
}

const (
	SideTagBuy  = "B"
	SideTagSell = "A"
)

// Level is one aggregated price level; numeric fields stay as venue strings.
type Level struct {
	Px string `json:"px"`
	Sz string `json:"sz"`
	N  int    `json:"n"`
}

// Book is a leveled order book: Levels[0] bids, Levels[1] asks, best price first.
type Book struct {
	Coin   string     `json:"coin"`
	Time   uint64     `json:"time"`
	Levels [2][]Level `json:"levels"`
}

// Top returns best bid/ask and the total size on each side.
// ok is false when either side is empty.
func (b Book) Top() (bidPx, askPx, bidVol, askVol float64, ok bool) {
	bids, asks := b.Levels[0], b.Levels[1]
	if len(bids) == 0 || len(asks) == 0 {
		return 0, 0, 0, 0, false
	}

	bidPx = ParseFloat(bids[0].Px)
	askPx = ParseFloat(asks[0].Px)
	for _, lv := range bids {
		bidVol += ParseFloat(lv.Sz)
	}
	for _, lv := range asks {
		askVol += ParseFloat(lv.Sz)
	}
	return bidPx, askPx, bidVol, askVol, true
}

// Trade is one trade print.
type Trade struct {
	Coin string `json:"coin"`
	Side string `json:"side"`
	Px   string `json:"px"`
	Sz   string `json:"sz"`
	Time uint64 `json:"time"`
	Hash string `json:"hash"`
	TID  uint64 `json:"tid"`
}

func (t Trade) IsBuy() bool {
	return t.Side == SideTagBuy
}

func (t Trade) Price() float64 {
	return ParseFloat(t.Px)
}

func (t Trade) Size() float64 {
	return ParseFloat(t.Sz)
}

// Valid reports whether both price and size parse.
func (t Trade) Valid() bool {
	_, okPx := ParseFloatOK(t.Px)
	_, okSz := ParseFloatOK(t.Sz)
	return okPx && okSz
}

// Event is what the feed hands to the router.
type Event struct {
	Kind   Kind
	Book   Book
	Trades []Trade
}

func NewBookEvent(b Book) Event {
	return Event{Kind: KindBook, Book: b}
}

func NewTradesEvent(trades []Trade) Event {
	return Event{Kind: KindTrades, Trades: trades}
}

// ParseFloat parses a numeric string. Malformed input yields 0.
func ParseFloat(s string) float64 {
	v, _ := ParseFloatOK(s)
	return v
}

// ParseFloatOK is ParseFloat that also reports whether s parsed.
func ParseFloatOK(s string) (float64, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}
