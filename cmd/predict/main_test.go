package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xela07ax/citizen-queue-portal/internal/engine"
)

func TestRun_TextReport(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"-n", "200", "-at", "2026-03-10T07:30"}, &out)
	require.NoError(t, err)

	report := out.String()
	assert.Contains(t, report, "Recommended arrival:")
	assert.Contains(t, report, "10.03.2026")
	assert.Contains(t, report, "Scenarios:")
	assert.Contains(t, report, "08:00")
	assert.Contains(t, report, "14:00")
}

func TestRun_JSONAfterClosing(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"-n", "100", "-format", "json", "-at", "2026-03-10T16:00", "-hours", "08:00–15:00"}, &out)
	require.NoError(t, err)

	var rec engine.Recommendation
	require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
	assert.True(t, rec.ClosedToday)
	assert.Equal(t, 8, rec.RecommendedHour)
	assert.Equal(t, 11, rec.RecommendedTime.Day())
}

func TestRun_BadInput(t *testing.T) {
	tests := map[string][]string{
		"format":      {"-format", "xml"},
		"simulations": {"-n", "0"},
		"clock":       {"-at", "yesterday"},
		"unknown":     {"-nope"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Error(t, run(context.Background(), args, &out))
		})
	}
}
