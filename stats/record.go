package stats

// DefaultField is the record key Summarize reads.
const DefaultField = "value"

// Record is one input row. Only the summarized field is ever inspected and
// records are never modified.
type Record map[string]interface{}

// Lookup returns the value stored under key, or def when the key is absent.
// A key present with a nil value returns nil.
func (r Record) Lookup(key string, def interface{}) interface{} {
	if v, ok := r[key]; ok {
		return v
	}
	return def
}
