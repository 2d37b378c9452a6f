package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleApp() Application {
	return Application{
		Stages:             append([]string(nil), DefaultStages...),
		CurrentStageIndex:  0,
		CurrentStageStatus: StatusInProgress,
		StageDates:         map[int]int64{0: 1000},
		CreatedAt:          1000,
		UpdatedAt:          1000,
	}
}

func TestAdvance_StatusCycleWraps(t *testing.T) {
	app := sampleApp()
	app.CurrentStageIndex = 2 // 笔试: regular stage
	app.StageDates[2] = 2000

	// in-progress → waiting → rejected → in-progress
	want := []StageStatus{StatusWaiting, StatusRejected, StatusInProgress}
	for _, expected := range want {
		tr := Advance(app, 2, 5000)
		assert.Equal(t, 2, tr.StageIndex)
		assert.Equal(t, expected, tr.Status)
		app.CurrentStageStatus = tr.Status
	}
}

func TestAdvance_ScreeningCycleIsTwoValued(t *testing.T) {
	app := sampleApp()
	app.CurrentStageIndex = 1
	app.CurrentStageStatus = StatusWaiting

	tr := Advance(app, 1, 5000)
	assert.Equal(t, StatusRejected, tr.Status)

	app.CurrentStageStatus = tr.Status
	tr = Advance(app, 1, 5000)
	assert.Equal(t, StatusWaiting, tr.Status)
}

func TestAdvance_ScreeningByIndexWithoutName(t *testing.T) {
	app := sampleApp()
	app.Stages = []string{"applied", "phone call", "onsite", "OC"}
	tr := Advance(app, 1, 5000)
	assert.Equal(t, StatusWaiting, tr.Status, "index 1 counts as screening regardless of name")
}

func TestAdvance_LegacyStatusResetsCycle(t *testing.T) {
	app := sampleApp()
	app.CurrentStageIndex = 1
	app.CurrentStageStatus = StatusInProgress // not a member of the screening cycle

	tr := Advance(app, 1, 5000)
	assert.Equal(t, StatusWaiting, tr.Status)
}

func TestAdvance_TerminalStageIsFixedPoint(t *testing.T) {
	for _, name := range []string{"OC", "oc", "Oc"} {
		app := sampleApp()
		app.Stages[6] = name
		app.CurrentStageIndex = 6
		app.CurrentStageStatus = StatusInProgress
		app.StageDates[6] = 7000

		tr := Advance(app, 6, 9999)
		assert.Equal(t, 6, tr.StageIndex)
		assert.Equal(t, StatusInProgress, tr.Status)
		assert.Equal(t, app.StageDates, tr.StageDates)
	}
}

func TestAdvance_JumpStampsUnvisitedStage(t *testing.T) {
	app := sampleApp()
	tr := Advance(app, 3, 42000)
	assert.Equal(t, 3, tr.StageIndex)
	assert.Equal(t, StatusInProgress, tr.Status)
	assert.Equal(t, int64(42000), tr.StageDates[3])
	assert.Equal(t, int64(1000), tr.StageDates[0], "existing dates are carried over")
}

func TestAdvance_JumpPreservesExistingDate(t *testing.T) {
	app := sampleApp()
	app.StageDates = map[int]int64{0: 1000, 2: 2000}
	app.CurrentStageIndex = 3

	tr := Advance(app, 2, 99999)
	assert.Equal(t, int64(2000), tr.StageDates[2], "re-entering a visited stage keeps its original date")
}

func TestAdvance_JumpToScreeningSetsWaiting(t *testing.T) {
	app := sampleApp()
	tr := Advance(app, 1, 42000)
	assert.Equal(t, StatusWaiting, tr.Status)
	assert.Equal(t, int64(42000), tr.StageDates[1])
}

func TestAdvance_DoesNotMutateInput(t *testing.T) {
	app := sampleApp()
	_ = Advance(app, 4, 42000)
	assert.Equal(t, map[int]int64{0: 1000}, app.StageDates)
	assert.Equal(t, 0, app.CurrentStageIndex)
}

func TestSweepStaleScreening_Idempotent(t *testing.T) {
	enteredAt := int64(1000)
	now := enteredAt + 11*24*time.Hour.Milliseconds()

	app := sampleApp()
	app.CurrentStageIndex = 1
	app.CurrentStageStatus = StatusWaiting
	app.StageDates[1] = enteredAt

	once, changed := SweepStaleScreening(app, now)
	require.True(t, changed)
	assert.Equal(t, StatusRejected, once.CurrentStageStatus)
	assert.Equal(t, 1, once.CurrentStageIndex)

	twice, changed := SweepStaleScreening(once, now)
	assert.False(t, changed)
	assert.Equal(t, once, twice)
}

func TestSweepStaleScreening_WithinThreshold(t *testing.T) {
	enteredAt := int64(1000)
	now := enteredAt + 9*24*time.Hour.Milliseconds()

	app := sampleApp()
	app.CurrentStageIndex = 1
	app.CurrentStageStatus = StatusWaiting
	app.StageDates[1] = enteredAt

	_, changed := SweepStaleScreening(app, now)
	assert.False(t, changed)
}

func TestSweepStaleScreening_FallsBackToUpdatedAt(t *testing.T) {
	app := sampleApp()
	app.CurrentStageIndex = 1
	app.CurrentStageStatus = StatusWaiting
	delete(app.StageDates, 1)
	app.UpdatedAt = 1000

	now := app.UpdatedAt + 11*24*time.Hour.Milliseconds()
	swept, changed := SweepStaleScreening(app, now)
	require.True(t, changed)
	assert.Equal(t, StatusRejected, swept.CurrentStageStatus)
}

func TestSweepStaleScreening_OnlyScreeningAndWaiting(t *testing.T) {
	now := int64(1000) + 30*24*time.Hour.Milliseconds()

	app := sampleApp()
	app.CurrentStageIndex = 3
	app.CurrentStageStatus = StatusWaiting
	app.StageDates[3] = 1000
	_, changed := SweepStaleScreening(app, now)
	assert.False(t, changed, "non-screening stages never auto-reject")

	app = sampleApp()
	app.CurrentStageIndex = 1
	app.CurrentStageStatus = StatusInProgress
	app.StageDates[1] = 1000
	_, changed = SweepStaleScreening(app, now)
	assert.False(t, changed, "only waiting screenings auto-reject")
}

// Full scenario: create, move to screening, wait 11 days, sweep.
func TestPipeline_ScreeningTimeout(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
	app := sampleApp()
	app.CreatedAt = t0
	app.UpdatedAt = t0
	app.StageDates = map[int]int64{0: t0}

	tr := Advance(app, 1, t0)
	require.Equal(t, 1, tr.StageIndex)
	require.Equal(t, StatusWaiting, tr.Status)
	require.Equal(t, t0, tr.StageDates[1])

	app.CurrentStageIndex = tr.StageIndex
	app.CurrentStageStatus = tr.Status
	app.StageDates = tr.StageDates

	now := t0 + 11*24*time.Hour.Milliseconds()
	swept, changed := SweepStaleScreening(app, now)
	require.True(t, changed)
	assert.Equal(t, StatusRejected, swept.CurrentStageStatus)
	assert.Equal(t, 1, swept.CurrentStageIndex)
}
