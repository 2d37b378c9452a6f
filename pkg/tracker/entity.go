package tracker

import "github.com/google/uuid"

// StageStatus is the status of the application within its current stage.
type StageStatus string

const (
	StatusInProgress StageStatus = "in-progress"
	StatusWaiting    StageStatus = "waiting"
	StatusRejected   StageStatus = "rejected"
)

// JobType classifies the opening the application targets.
type JobType string

const (
	JobTypeInternship  JobType = "internship"
	JobTypeNewGrad     JobType = "new-grad"
	JobTypeExperienced JobType = "experienced"
)

// ScreeningStageName is the pipeline name of the initial screening stage.
// A stage is also treated as screening when it sits at index 1.
const ScreeningStageName = "初筛"

// TerminalStageName marks the confirmed-offer stage (matched case-insensitively).
const TerminalStageName = "OC"

// DefaultStages is the pipeline template used when a user has not customized one.
var DefaultStages = []string{"已投递", ScreeningStageName, "笔试", "一面", "二面", "HR面", TerminalStageName}

// Application is one job application moving through a pipeline of named stages.
// Timestamps are epoch milliseconds, matching what the UI renders directly.
type Application struct {
	ID                 uuid.UUID
	OwnerID            uuid.UUID
	OwnerEmail         string
	Company            string
	Position           string
	JobType            JobType
	WorkLocation       string
	Compensation       string
	Notes              string
	Tags               []string
	Stages             []string
	CurrentStageIndex  int
	CurrentStageStatus StageStatus
	// StageDates records when each visited stage was entered, keyed by stage
	// index. Index 0 is always present after a read (backfilled from CreatedAt).
	StageDates map[int]int64
	CreatedAt  int64
	UpdatedAt  int64
}

// Stats are the aggregate counters shown on the dashboard.
type Stats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Offers   int `json:"offers"`
	Rejected int `json:"rejected"`
}
