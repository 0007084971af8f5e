package main

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-ranker-go/internal/constants"
	"resume-ranker-go/internal/storage/models"
)

func TestBuildExportRows(t *testing.T) {
	parsedAt := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	apps := []models.Application{
		{ApplicationID: "a1", CandidateName: "Unranked", Status: constants.StatusFailed, FailureReason: "empty"},
		{ApplicationID: "a2", CandidateName: "Low", Status: constants.StatusParsed, ParsedAt: &parsedAt},
		{ApplicationID: "a3", CandidateName: "High", Status: constants.StatusParsed},
	}
	rankings := []models.Ranking{
		{ApplicationID: "a3", Score: 0.9},
		{ApplicationID: "a2", Score: 0.3},
	}

	rows := buildExportRows(apps, rankings)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"a3", "a2", "a1"}, []string{rows[0].ApplicationID, rows[1].ApplicationID, rows[2].ApplicationID})
	assert.Nil(t, rows[2].Score)
	assert.Equal(t, "2025-06-01T08:00:00Z", rows[1].ParsedAt)
}

func TestWriteCSV(t *testing.T) {
	score := 0.12345
	rows := []exportRow{
		{ApplicationID: "a1", CandidateName: "Doe, Jane", Status: constants.StatusParsed, Score: &score},
		{ApplicationID: "a2", Status: constants.StatusUploaded},
	}

	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "Doe, Jane", records[1][1], "含逗号的字段应被正确转义")
	assert.Equal(t, "0.1235", records[1][7])
	assert.Equal(t, "", records[2][7])
}
