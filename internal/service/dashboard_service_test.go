package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RubachokBoss/academic-hub/internal/models"
)

func TestDashboardService_StudyToday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, e := range []models.LogEntry{
		{ID: "1", Owner: "ana", Date: "2026-10-14", Kind: models.EntryKindSession, Text: models.SessionText, DurationMinutes: 25.04},
		{ID: "2", Owner: "ana", Date: "2026-10-14", Kind: models.EntryKindSession, Text: models.SessionText, DurationMinutes: 10.02},
		{ID: "3", Owner: "ana", Date: "2026-10-13", Kind: models.EntryKindSession, Text: models.SessionText, DurationMinutes: 50},
		{ID: "4", Owner: "ben", Date: "2026-10-14", Kind: models.EntryKindSession, Text: models.SessionText, DurationMinutes: 99},
	} {
		entry := e
		require.NoError(t, f.store.Logs.Append(ctx, &entry))
	}

	metrics, err := f.dashboard.Metrics(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, 35.1, metrics.StudyTodayMinutes)
	assert.Zero(t, metrics.TotalCredits)
	assert.Zero(t, metrics.SubjectCount)
}

func TestDashboardService_EmptyDashboard(t *testing.T) {
	f := newFixture(t)
	sess := f.sessions.Create("ana", false)

	dash, err := f.dashboard.Dashboard(context.Background(), sess)
	require.NoError(t, err)
	assert.True(t, dash.Session.LoggedIn)
	assert.Equal(t, "ana", dash.Session.Username)
	assert.Equal(t, []string{NoFocusSubject}, dash.FocusOptions)
	assert.Empty(t, dash.Subjects)
	assert.Empty(t, dash.Grades)
	assert.Empty(t, dash.Updates)
	assert.Equal(t, Metrics{}, dash.Metrics)
}

func TestDashboardService_FullDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.sessions.Create("ana", false)

	f.addSubject(t, "ana", "Calculus", 4)
	f.addSubject(t, "ana", "Physics", 3)
	f.addSubject(t, "ben", "History", 2)

	_, err := f.notes.PostUpdate(ctx, "ana", &models.PostUpdateRequest{Subject: "Physics", Text: "Lab done"})
	require.NoError(t, err)

	runTimer(t, sess, 120)
	_, err = f.timer.Save(ctx, sess, &models.SaveSessionRequest{Subject: "Calculus"})
	require.NoError(t, err)

	dash, err := f.dashboard.Dashboard(ctx, sess)
	require.NoError(t, err)

	assert.Equal(t, Metrics{TotalCredits: 7, StudyTodayMinutes: 2, SubjectCount: 2}, dash.Metrics)
	assert.Equal(t, []string{"Calculus", "Physics"}, dash.FocusOptions)
	require.Len(t, dash.Subjects, 2)
	assert.Equal(t, "yellow", dash.Subjects[0].Indicator)
	assert.Len(t, dash.Grades, 2)
	require.Len(t, dash.Updates, 1)
	assert.Equal(t, "Lab done", dash.Updates[0].Text)
}
