package dataset

import (
	"math"
	"strconv"

	"github.com/baldisbk/recstats/stats"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

const floatTag = "!!float"

// typed rewrites finite floats as explicitly tagged scalars. Plain YAML
// writes float64(1) as "1", which would read back as an int and lose the
// float promotion of every later summary.
func typed(v interface{}) interface{} {
	switch x := v.(type) {
	case float32:
		return floatNode(float64(x))
	case float64:
		return floatNode(x)
	case map[string]interface{}:
		res := make(map[string]interface{}, len(x))
		for k, item := range x {
			res[k] = typed(item)
		}
		return res
	case stats.Record:
		return typed(map[string]interface{}(x))
	case []interface{}:
		res := make([]interface{}, len(x))
		for i, item := range x {
			res[i] = typed(item)
		}
		return res
	}
	return v
}

func floatNode(f float64) interface{} {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   floatTag,
		Value: strconv.FormatFloat(f, 'g', -1, 64),
	}
}

func encodeRecords(records []stats.Record) ([]byte, error) {
	docs := make([]interface{}, len(records))
	for i, rec := range records {
		docs[i] = typed(rec)
	}
	buf, err := yaml.Marshal(docs)
	if err != nil {
		return nil, xerrors.Errorf("marshal: %w", err)
	}
	return buf, nil
}

func encodeRecord(rec stats.Record) ([]byte, error) {
	buf, err := yaml.Marshal(typed(rec))
	if err != nil {
		return nil, xerrors.Errorf("marshal: %w", err)
	}
	return buf, nil
}

func decodeRecord(buf []byte) (stats.Record, error) {
	var rec stats.Record
	if err := yaml.Unmarshal(buf, &rec); err != nil {
		return nil, xerrors.Errorf("unmarshal: %w", err)
	}
	return rec, nil
}
