package stats

import "sync"

// Accumulator buffers records and summarizes whatever it holds so far.
// The zero value summarizes DefaultField.
type Accumulator struct {
	mu      sync.Mutex
	field   string
	records []Record
}

func NewAccumulator(field string) *Accumulator {
	return &Accumulator{field: field}
}

func (a *Accumulator) Add(r Record) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, r)
}

func (a *Accumulator) Summary() (Summary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	field := a.field
	if field == "" {
		field = DefaultField
	}
	return SummarizeField(a.records, field)
}

func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

// Records returns a copy of the held sequence.
func (a *Accumulator) Records() []Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	res := make([]Record, len(a.records))
	copy(res, a.records)
	return res
}
