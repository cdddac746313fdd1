package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexpertify/moodlift/models"
	"github.com/hexpertify/moodlift/testutil"
)

func TestActivityService(t *testing.T) {
	cfg := testConfig(t)
	svc := NewActivityService(testutil.OpenTestDB(t), cfg)
	svc.now = clockAt(fixedNow)
	ctx := context.Background()

	has, err := svc.HasActivityToday(ctx, 1, models.ActivityDailyLogin)
	require.NoError(t, err)
	assert.False(t, has)

	login, err := svc.AddActivity(ctx, 1, models.ActivityDailyLogin, "")
	require.NoError(t, err)
	assert.Equal(t, 10, login.Points)
	assert.Equal(t, "Daily Login", login.Description)
	assert.Equal(t, "2026-10-14", login.ActivityDate)

	game, err := svc.Add(ctx, 1, AddActivityRequest{ActivityType: models.ActivityGame, Description: "Mood Match"})
	require.NoError(t, err)
	assert.Equal(t, 5, game.Points)

	has, err = svc.HasActivityToday(ctx, 1, models.ActivityDailyLogin)
	require.NoError(t, err)
	assert.True(t, has)

	svc.now = clockAt(fixedNow.AddDate(0, 0, 1))
	has, err = svc.HasActivityToday(ctx, 1, models.ActivityDailyLogin)
	require.NoError(t, err)
	assert.False(t, has, "a new calendar day has no login yet")

	log, err := svc.ListActivities(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, log.Items, 2)
	assert.Equal(t, 15, log.TotalPoints)

	other, err := svc.ListActivities(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, other.Items)
	assert.Equal(t, 0, other.TotalPoints)
}

func TestActivityService_RejectsUnknownType(t *testing.T) {
	cfg := testConfig(t)
	svc := NewActivityService(testutil.OpenTestDB(t), cfg)

	_, err := svc.AddActivity(context.Background(), 1, "streak_bonus", "x")
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = svc.Add(context.Background(), 1, AddActivityRequest{ActivityType: "streak_bonus"})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestActivityService_DailyLoginOncePerDay(t *testing.T) {
	cfg := testConfig(t)
	svc := NewActivityService(testutil.OpenTestDB(t), cfg)
	svc.now = clockAt(fixedNow)
	ctx := context.Background()

	first, err := svc.Add(ctx, 1, AddActivityRequest{ActivityType: models.ActivityDailyLogin})
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		again, err := svc.Add(ctx, 1, AddActivityRequest{ActivityType: models.ActivityDailyLogin, Description: "again"})
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)
	}
	svc.EnsureDailyLogin(ctx, 1)

	log, err := svc.ListActivities(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, log.Items, 1)
	assert.Equal(t, 10, log.TotalPoints)

	svc.now = clockAt(fixedNow.AddDate(0, 0, 1))
	next, err := svc.Add(ctx, 1, AddActivityRequest{ActivityType: models.ActivityDailyLogin})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, next.ID)
	assert.Equal(t, "2026-10-15", next.ActivityDate)
}
