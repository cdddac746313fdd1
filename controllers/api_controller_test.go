package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hexpertify/moodlift/models"
	"github.com/hexpertify/moodlift/services"
)

func apiEngine(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db, cfg := setup(t)
	activities := services.NewActivityService(db, cfg)

	streaks := NewStreakController(services.NewStreakService(db, activities, cfg))
	progress := NewProgressController(services.NewProgressService(db, activities, cfg))
	rewards := NewRewardsController(activities)
	seo := NewSeoController(services.NewSeoService(db, cfg))
	consultants := NewConsultantController(services.NewConsultantService(db))
	games := NewGameController(services.NewGameService(db))

	r := gin.New()
	r.GET("/sitemap.xml", seo.SitemapXML)
	r.GET("/sitemap", seo.Sitemap)
	r.GET("/seo", seo.GetSeo)
	r.GET("/consultants", consultants.Carousel)
	r.GET("/games", games.ListGames)
	r.GET("/games/:slug", games.GetGame)
	r.GET("/guest/streak", streaks.GetStreak)
	r.POST("/guest/streak/check-in", streaks.CheckIn)
	r.POST("/guest/sessions", progress.SaveGameSession)

	user := r.Group("/u", asUser(1))
	user.GET("/streak", streaks.GetStreak)
	user.POST("/streak/check-in", streaks.CheckIn)
	user.POST("/sessions", progress.SaveGameSession)
	user.POST("/assessments", progress.SaveAssessment)
	user.GET("/progress", progress.GetProgress)
	user.GET("/progress/heatmap", progress.GetHeatmap)
	user.GET("/rewards/activities", rewards.ListActivities)
	user.POST("/rewards/activities", rewards.AddActivity)
	return r, db
}

func TestStreakController(t *testing.T) {
	r, _ := apiEngine(t)

	w := do(t, r, http.MethodGet, "/guest/streak", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", string(decode(t, w).Data))

	w = do(t, r, http.MethodPost, "/guest/streak/check-in", "")
	assert.Equal(t, "null", string(decode(t, w).Data))

	w = do(t, r, http.MethodGet, "/u/streak", "")
	assert.Equal(t, "null", string(decode(t, w).Data), "no row yet")

	w = do(t, r, http.MethodPost, "/u/streak/check-in", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"current_streak":1,"longest_streak":1,"is_new_streak":true,"streak_broken":false}`, string(decode(t, w).Data))

	w = do(t, r, http.MethodPost, "/u/streak/check-in", "")
	assert.JSONEq(t, `{"current_streak":1,"longest_streak":1,"is_new_streak":false,"streak_broken":false}`, string(decode(t, w).Data))

	w = do(t, r, http.MethodGet, "/u/streak", "")
	assert.Contains(t, string(decode(t, w).Data), `"current_streak":1`)
}

func TestProgressController(t *testing.T) {
	r, _ := apiEngine(t)

	w := do(t, r, http.MethodPost, "/guest/sessions", `{"game_title":"Breathing"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/u/sessions", `{"game_title":"Breathing","score":12,"duration":60,"mood_after":7}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodPost, "/u/sessions", `{"game_title":"Breathing","mood_after":11}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/u/sessions", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/u/assessments", `{"score":30,"insights":"<b>calmer</b><script>x</script>"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "<script>")

	w = do(t, r, http.MethodGet, "/u/progress", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := string(decode(t, w).Data)
	assert.Contains(t, data, `"total_games":1`)
	assert.Contains(t, data, `"total_assessments":1`)
	assert.Contains(t, data, `"avg_mood":7`)

	w = do(t, r, http.MethodGet, "/u/progress/heatmap", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), `"count":1`)

	// Saving a game also logs a rewards activity
	w = do(t, r, http.MethodGet, "/u/rewards/activities", "")
	assert.Contains(t, string(decode(t, w).Data), `"activity_type":"game"`)
}

func TestRewardsController(t *testing.T) {
	r, _ := apiEngine(t)

	w := do(t, r, http.MethodPost, "/u/rewards/activities", `{"activity_type":"lottery"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/u/rewards/activities", `{"activity_type":"game","description":"Played Memory"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodGet, "/u/rewards/activities?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := string(decode(t, w).Data)
	assert.Contains(t, data, `"total_points":5`)
	assert.Contains(t, data, "Played Memory")
}

func TestRewardsController_DailyLoginOnce(t *testing.T) {
	r, _ := apiEngine(t)

	for i := 0; i < 2; i++ {
		w := do(t, r, http.MethodPost, "/u/rewards/activities", `{"activity_type":"daily_login"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := do(t, r, http.MethodGet, "/u/rewards/activities", "")
	require.Equal(t, http.StatusOK, w.Code)
	var log services.ActivityLog
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &log))
	assert.Len(t, log.Items, 1)
	assert.Equal(t, 10, log.TotalPoints)
}

func TestSeoController(t *testing.T) {
	r, db := apiEngine(t)
	require.NoError(t, db.Create(&models.SeoMetadata{
		PageURL:        "/games/breathing",
		Title:          "Breathing",
		StructuredData: `{"@type":"Game","name":"</script>"}`,
	}).Error)

	w := do(t, r, http.MethodGet, "/sitemap.xml", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, w.Body.String(), "<loc>https://example.com/games/breathing</loc>")

	w = do(t, r, http.MethodGet, "/sitemap", "")
	assert.Contains(t, string(decode(t, w).Data), `"url":"https://example.com/"`)

	w = do(t, r, http.MethodGet, "/seo?path=games/breathing", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := string(decode(t, w).Data)
	assert.Contains(t, data, `"title":"Breathing"`)
	assert.NotContains(t, data, "</script><")

	w = do(t, r, http.MethodGet, "/seo", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/seo?path=/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConsultantAndGameControllers(t *testing.T) {
	r, db := apiEngine(t)

	w := do(t, r, http.MethodGet, "/consultants", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), services.EmptyCarouselMessage)

	require.NoError(t, db.Create(&[]models.Game{
		{Title: "Memory", Slug: "memory"},
		{Title: "Breathing", Slug: "breathing", IsPopular: true},
	}).Error)

	w = do(t, r, http.MethodGet, "/games?popular=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := string(decode(t, w).Data)
	assert.Contains(t, data, "breathing")
	assert.NotContains(t, data, `"slug":"memory"`)

	w = do(t, r, http.MethodGet, "/games/memory", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/games/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40460, decode(t, w).Code)
}
