package report

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadstone/threadstone/harness"
)

func TestGenerateSameWorkload(t *testing.T) {
	results := []harness.Result{
		{
			ID:              "aaaaaaaa-1111",
			Workload:        "dhrystone",
			Unit:            "dhrystones/s",
			Threads:         8,
			Samples:         2,
			Values:          []float64{2e7, 2e7},
			SampleElapsedMs: []int64{50, 1500},
			Average:         2e7,
			Min:             2e7,
			Max:             2e7,
		},
		{
			ID:       "bbbbbbbb-2222",
			Workload: "dhrystone",
			Unit:     "dhrystones/s",
			Threads:  4,
			Samples:  1,
			Values:   []float64{1e7},
			Average:  1e7,
			Min:      1e7,
			Max:      1e7,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, results))

	output := buf.String()

	assert.NotContains(t, output, "MISMATCH")
	assert.Contains(t, output, "aaaaaaaa")
	assert.Contains(t, output, "bbbbbbbb")
	assert.Contains(t, output, "20.00M dhrystones/s")
	assert.Contains(t, output, "1.00x")
	assert.Contains(t, output, "2.00x", "half the rate of the best run")
	assert.Contains(t, output, "1.50s")
	assert.Contains(t, output, "DMIPS")
}

func TestGenerateMismatchedWorkloads(t *testing.T) {
	results := []harness.Result{
		{ID: "one", Workload: "dhrystone", Average: 100},
		{ID: "two", Workload: "stream", Average: 200},
	}

	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, results))

	output := buf.String()

	assert.Contains(t, output, "MISMATCH")
	assert.Contains(t, output, "one: dhrystone")
	assert.Contains(t, output, "two: stream")
}

func TestGenerateEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, Generate(&buf, nil))
}

func TestGenerateJSON(t *testing.T) {
	results := []harness.Result{
		{ID: "x", Workload: "stream", Average: 1000},
	}

	var buf bytes.Buffer
	require.NoError(t, GenerateJSON(&buf, results))

	var parsed []harness.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	require.Len(t, parsed, 1)
	assert.Equal(t, "stream", parsed[0].Workload)
}

func TestSchema(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal(Schema(), &doc))

	assert.Contains(t, doc, "$schema")

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok, "schema must have properties")

	// Every serialised field of a result is described.
	typ := reflect.TypeOf(harness.Result{})
	for i := 0; i < typ.NumField(); i++ {
		name, _, _ := strings.Cut(typ.Field(i).Tag.Get("json"), ",")
		assert.Contains(t, props, name)
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSchema(&buf))
	assert.JSONEq(t, string(Schema()), buf.String())
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input uint64
		want  string
	}{
		{0, "-"},
		{512, "512 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1048576, "1 MB"},
		{240000000, "228.9 MB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.input), "formatBytes(%d)", tt.input)
	}
}

func TestFormatMs(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{0, "0ms"},
		{999, "999ms"},
		{1000, "1.00s"},
		{60000, "60.00s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMs(tt.input), "formatMs(%d)", tt.input)
	}
}

func TestFormatRate(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{0, "0.00 MB/s"},
		{999, "999.00 MB/s"},
		{12346, "12.35K MB/s"},
		{1.5e7, "15.00M MB/s"},
		{2e15, "2000.00T MB/s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatRate(tt.input, "MB/s"), "formatRate(%v)", tt.input)
	}
}
