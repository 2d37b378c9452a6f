package tracker

import (
	"strings"
	"time"
)

// Status cycles a stage walks through when re-clicked. Screening has no
// "in-progress": a screening either waits on the company or is rejected.
var (
	screeningCycle = []StageStatus{StatusWaiting, StatusRejected}
	defaultCycle   = []StageStatus{StatusInProgress, StatusWaiting, StatusRejected}
)

// staleScreeningAfter is how long an application may wait in screening before
// it is silently marked rejected on the owner's next read.
const staleScreeningAfter = 10 * 24 * time.Hour

// IsScreeningStage reports whether the stage is the initial screening, by
// name or by its conventional position in the pipeline.
func IsScreeningStage(name string, index int) bool {
	return name == ScreeningStageName || index == 1
}

// IsTerminalStage reports whether the stage is the confirmed-offer stage.
func IsTerminalStage(name string) bool {
	return strings.EqualFold(name, TerminalStageName)
}

// nextInCycle advances within a status cycle, wrapping after the last element.
// A status outside the cycle (legacy data) resets to the cycle's first element.
func nextInCycle(cycle []StageStatus, current StageStatus) StageStatus {
	for i, s := range cycle {
		if s == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

// Transition is the outcome of advancing an application: the new current
// stage, its status, and the (possibly extended) stage entry dates.
type Transition struct {
	StageIndex int
	Status     StageStatus
	StageDates map[int]int64
}

// Advance computes the application state after a click on stage targetIndex.
//
// Clicking the current stage cycles its status (a no-op on the terminal
// stage). Clicking a different stage jumps there: the entry date is stamped
// with now only if that stage was never visited, and the status resets to
// waiting for screening or in-progress otherwise.
//
// The caller guarantees 0 <= targetIndex < len(app.Stages). Advance performs
// no I/O and never mutates app.
func Advance(app Application, targetIndex int, now int64) Transition {
	name := app.Stages[targetIndex]

	if targetIndex == app.CurrentStageIndex {
		if IsTerminalStage(name) {
			return Transition{app.CurrentStageIndex, app.CurrentStageStatus, app.StageDates}
		}
		cycle := defaultCycle
		if IsScreeningStage(name, targetIndex) {
			cycle = screeningCycle
		}
		return Transition{app.CurrentStageIndex, nextInCycle(cycle, app.CurrentStageStatus), app.StageDates}
	}

	dates := make(map[int]int64, len(app.StageDates)+1)
	for k, v := range app.StageDates {
		dates[k] = v
	}
	if _, visited := dates[targetIndex]; !visited {
		dates[targetIndex] = now
	}
	status := StatusInProgress
	if IsScreeningStage(name, targetIndex) {
		status = StatusWaiting
	}
	return Transition{targetIndex, status, dates}
}

// SweepStaleScreening marks an application rejected when it has been waiting
// in the screening stage for more than staleScreeningAfter. It returns the
// corrected application and whether anything changed. Applying it twice is
// the same as applying it once: a rejected record no longer matches the guard.
func SweepStaleScreening(app Application, now int64) (Application, bool) {
	if app.CurrentStageIndex < 0 || app.CurrentStageIndex >= len(app.Stages) {
		return app, false
	}
	if !IsScreeningStage(app.Stages[app.CurrentStageIndex], app.CurrentStageIndex) {
		return app, false
	}
	if app.CurrentStageStatus != StatusWaiting {
		return app, false
	}
	enteredAt := app.StageDates[app.CurrentStageIndex]
	if enteredAt == 0 {
		enteredAt = app.UpdatedAt
	}
	if enteredAt == 0 {
		return app, false
	}
	if now-enteredAt > staleScreeningAfter.Milliseconds() {
		app.CurrentStageStatus = StatusRejected
		return app, true
	}
	return app, false
}
