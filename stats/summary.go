package stats

import "golang.org/x/xerrors"

// Summary is the count/total/average reduction of a record sequence.
type Summary struct {
	Count   int     `yaml:"count" json:"count"`
	Total   Number  `yaml:"total" json:"total"`
	Average float64 `yaml:"average" json:"average"`
}

// Map returns the summary as a count/total/average mapping.
func (s Summary) Map() map[string]interface{} {
	return map[string]interface{}{
		"count":   s.Count,
		"total":   s.Total.Interface(),
		"average": s.Average,
	}
}

// Summarize reduces records over DefaultField.
func Summarize(records []Record) (Summary, error) {
	return SummarizeField(records, DefaultField)
}

// SummarizeField reduces records over field. A missing field counts as 0.
// An empty sequence yields a zero Summary rather than a division by zero.
func SummarizeField(records []Record, field string) (Summary, error) {
	var s Summary
	for i, r := range records {
		n, err := ToNumber(r.Lookup(field, 0))
		if err != nil {
			return Summary{}, xerrors.Errorf("record %d field %q: %w", i, field, err)
		}
		s.Total = s.Total.Add(n)
		if !s.Total.IsFinite() {
			return Summary{}, xerrors.Errorf("record %d field %q: %w", i, field, ErrOverflow)
		}
	}
	s.Count = len(records)
	if s.Count > 0 {
		s.Average = s.Total.Float64() / float64(s.Count)
	}
	return s, nil
}

// Observe folds one more value into s without revisiting earlier ones.
func (s *Summary) Observe(n Number) {
	s.Count++
	s.Total = s.Total.Add(n)
	s.Average = s.Total.Float64() / float64(s.Count)
}
