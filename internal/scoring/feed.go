package scoring

// AlertFeed keeps the most recent alerts of a trip, oldest evicted first.
// It is not safe for concurrent use; the trip controller guards it.
type AlertFeed struct {
	limit int
	items []Alert
}

func NewAlertFeed(limit int) *AlertFeed {
	if limit <= 0 {
		limit = DefaultAlertRetention
	}
	return &AlertFeed{limit: limit, items: make([]Alert, 0, limit)}
}

func (f *AlertFeed) Push(a Alert) {
	if len(f.items) == f.limit {
		copy(f.items, f.items[1:])
		f.items = f.items[:f.limit-1]
	}
	f.items = append(f.items, a)
}

// Snapshot returns a copy of the retained alerts in push order.
func (f *AlertFeed) Snapshot() []Alert {
	out := make([]Alert, len(f.items))
	copy(out, f.items)
	return out
}

func (f *AlertFeed) Len() int {
	return len(f.items)
}

func (f *AlertFeed) Reset() {
	f.items = f.items[:0]
}
