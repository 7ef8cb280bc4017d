package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAsOf(t *testing.T) {
	loc := time.FixedZone("WAT", 3600)
	now := time.Date(2026, time.October, 14, 23, 30, 0, 0, time.UTC)

	got, err := parseAsOf("", loc, now)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Day())

	got, err = parseAsOf("2026-09-30", loc, now)
	require.NoError(t, err)
	assert.Equal(t, time.September, got.Month())
	assert.Equal(t, 30, got.Day())

	_, err = parseAsOf("30/09/2026", loc, now)
	assert.Error(t, err)
}

func TestWritePermissionTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePermissionTable(&buf, []domain.Role{domain.RoleAdmin, domain.RoleStationManager}))

	out := buf.String()
	assert.Contains(t, out, "ROLE")
	assert.Contains(t, out, "admin")
	assert.Contains(t, out, "station_manager")
	assert.Contains(t, out, "2000.00")
	assert.Contains(t, out, "5000.00")
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "custom.csv", outputPath("custom.csv", "/data", "stations.csv"))
	assert.Equal(t, "/data/stations.csv", outputPath("", "/data", "stations.csv"))
	assert.Equal(t, "stations.csv", outputPath("", "", "stations.csv"))
}
