package postgres

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/haoyun/jobflow/pkg/tracker"
)

// applicationRow mirrors the applications table. JSONB columns arrive as raw
// bytes and are decoded by the mapper, never inside query code.
type applicationRow struct {
	ID                 uuid.UUID
	OwnerID            uuid.UUID
	OwnerEmail         string
	Company            string
	Position           string
	JobType            string
	WorkLocation       string
	Compensation       string
	Notes              string
	Tags               []byte
	Stages             []byte
	CurrentStageIndex  int
	CurrentStageStatus string
	StageDates         []byte
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// rowToApplication converts a stored row into the in-memory representation:
// TIMESTAMPTZ becomes epoch milliseconds, the stage-date JSON object keyed by
// stage-index-as-string becomes map[int]int64, and stage 0 is backfilled from
// the creation time when the stored record lacks it.
func rowToApplication(row applicationRow) tracker.Application {
	createdAt := row.CreatedAt.UnixMilli()

	var stages []string
	if len(row.Stages) > 0 {
		_ = json.Unmarshal(row.Stages, &stages)
	}
	if stages == nil {
		stages = []string{}
	}
	var tags []string
	if len(row.Tags) > 0 {
		_ = json.Unmarshal(row.Tags, &tags)
	}
	if tags == nil {
		tags = []string{}
	}

	dates := make(map[int]int64)
	if len(row.StageDates) > 0 {
		var raw map[string]int64
		if json.Unmarshal(row.StageDates, &raw) == nil {
			for k, v := range raw {
				idx, err := strconv.Atoi(k)
				if err != nil {
					continue
				}
				dates[idx] = v
			}
		}
	}
	if dates[0] == 0 {
		dates[0] = createdAt
	}

	return tracker.Application{
		ID:                 row.ID,
		OwnerID:            row.OwnerID,
		OwnerEmail:         row.OwnerEmail,
		Company:            row.Company,
		Position:           row.Position,
		JobType:            tracker.JobType(row.JobType),
		WorkLocation:       row.WorkLocation,
		Compensation:       row.Compensation,
		Notes:              row.Notes,
		Tags:               tags,
		Stages:             stages,
		CurrentStageIndex:  row.CurrentStageIndex,
		CurrentStageStatus: tracker.StageStatus(row.CurrentStageStatus),
		StageDates:         dates,
		CreatedAt:          createdAt,
		UpdatedAt:          row.UpdatedAt.UnixMilli(),
	}
}

func stageDatesToJSON(dates map[int]int64) []byte {
	raw := make(map[string]int64, len(dates))
	for k, v := range dates {
		raw[strconv.Itoa(k)] = v
	}
	b, _ := json.Marshal(raw)
	return b
}

func stringsToJSON(values []string) []byte {
	if values == nil {
		values = []string{}
	}
	b, _ := json.Marshal(values)
	return b
}

func millisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
