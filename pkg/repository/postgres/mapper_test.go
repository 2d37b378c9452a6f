package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haoyun/jobflow/pkg/tracker"
)

func TestRowToApplication_BackfillsAppliedDate(t *testing.T) {
	created := time.Date(2025, 2, 1, 8, 30, 0, 0, time.UTC)
	row := applicationRow{
		ID:                 uuid.New(),
		Company:            "Acme",
		Position:           "Backend",
		Stages:             []byte(`["已投递","初筛","OC"]`),
		StageDates:         []byte(`{"1": 1738500000000}`),
		CurrentStageIndex:  1,
		CurrentStageStatus: "waiting",
		CreatedAt:          created,
		UpdatedAt:          created,
	}

	app := rowToApplication(row)
	assert.Equal(t, created.UnixMilli(), app.StageDates[0], "stage 0 backfilled from createdAt")
	assert.Equal(t, int64(1738500000000), app.StageDates[1])
	assert.Equal(t, tracker.StatusWaiting, app.CurrentStageStatus)
}

func TestRowToApplication_DefaultsMissingCollections(t *testing.T) {
	row := applicationRow{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	app := rowToApplication(row)
	assert.NotNil(t, app.Stages)
	assert.Empty(t, app.Stages)
	assert.NotNil(t, app.Tags)
	assert.Empty(t, app.Tags)
	require.NotNil(t, app.StageDates)
	assert.Equal(t, row.CreatedAt.UnixMilli(), app.StageDates[0])
}

func TestRowToApplication_SkipsMalformedDateKeys(t *testing.T) {
	row := applicationRow{
		ID:         uuid.New(),
		StageDates: []byte(`{"0": 500, "oops": 900, "2": 700}`),
		CreatedAt:  time.UnixMilli(500).UTC(),
		UpdatedAt:  time.UnixMilli(500).UTC(),
	}
	app := rowToApplication(row)
	assert.Equal(t, map[int]int64{0: 500, 2: 700}, app.StageDates)
}

func TestStageDates_RoundTrip(t *testing.T) {
	in := map[int]int64{0: 1000, 3: 99999}
	row := applicationRow{
		StageDates: stageDatesToJSON(in),
		CreatedAt:  time.UnixMilli(1000).UTC(),
		UpdatedAt:  time.UnixMilli(1000).UTC(),
	}
	app := rowToApplication(row)
	assert.Equal(t, in, app.StageDates)
}

func TestMillisToTime(t *testing.T) {
	ms := int64(1738500000000)
	assert.Equal(t, ms, millisToTime(ms).UnixMilli())
	assert.Equal(t, time.UTC, millisToTime(ms).Location())
}
