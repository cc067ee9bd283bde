package main

import (
	"bytes"
	"testing"

	"github.com/baldisbk/recstats/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSummary(t *testing.T) {
	s, err := stats.Summarize([]stats.Record{{"value": 3}, {"value": 4}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, s, FormatYAML))
	assert.Equal(t, "count: 2\ntotal: 7\naverage: 3.5\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteSummary(&buf, s, FormatJSON))
	assert.JSONEq(t, `{"count": 2, "total": 7, "average": 3.5}`, buf.String())

	assert.Error(t, WriteSummary(&buf, s, "csv"))
}

func TestWriteSummary_Empty(t *testing.T) {
	s, err := stats.Summarize(nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, s, FormatYAML))
	assert.Equal(t, "count: 0\ntotal: 0\naverage: 0\n", buf.String())
}
