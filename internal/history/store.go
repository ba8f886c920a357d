package history

const (
	DefaultBookCapacity  = 120
	DefaultTradeCapacity = 80
)

// BookSample is one top-of-book observation.
type BookSample struct {
	TimestampMs uint64
	Mid         float64
	BestBid     float64
	BestAsk     float64
	BidVolume   float64
	AskVolume   float64
}

// TradeSample is one trade print.
type TradeSample struct {
	Price       float64
	Size        float64
	IsBuy       bool
	TimestampMs uint64
}

// Store owns the rolling book and trade windows.
type Store struct {
	Books  *Window[BookSample]
	Trades *Window[TradeSample]
}

// NewStore creates a store with the given caps, falling back to the defaults for non-positive values.
func NewStore(bookCap, tradeCap int) *Store {
	if bookCap <= 0 {
		bookCap = DefaultBookCapacity
	}
	if tradeCap <= 0 {
		tradeCap = DefaultTradeCapacity
	}
	return &Store{
		Books:  NewWindow[BookSample](bookCap),
		Trades: NewWindow[TradeSample](tradeCap),
	}
}

func (s *Store) PushBook(sample BookSample) {
	s.Books.Push(sample)
}

func (s *Store) PushTrade(sample TradeSample) {
	s.Trades.Push(sample)
}
