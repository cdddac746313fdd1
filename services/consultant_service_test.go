package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexpertify/moodlift/models"
	"github.com/hexpertify/moodlift/testutil"
	"github.com/hexpertify/moodlift/utils"
)

func TestBuildCarousel(t *testing.T) {
	empty := BuildCarousel(nil)
	assert.Empty(t, empty.Items)
	assert.Equal(t, EmptyCarouselMessage, empty.EmptyMessage)

	c := BuildCarousel([]models.Consultant{
		{ID: 3, FullName: "Dr. Amara Lee", Title: "Clinical Psychologist", BookingURL: "https://cal.example/amara", PictureURL: "https://img.example/a.jpg"},
		{ID: 4},
		{ID: 5, FullName: "<b>Sam</b>", BookingURL: "javascript:alert(1)"},
	})
	require.Len(t, c.Items, 3)
	assert.Empty(t, c.EmptyMessage)

	assert.Equal(t, ConsultantCard{
		ID: 3, Name: "Dr. Amara Lee", Title: "Clinical Psychologist",
		PictureURL:  "https://img.example/a.jpg",
		ActionLabel: "Book Now", ActionURL: "https://cal.example/amara", External: true,
	}, c.Items[0])

	assert.Equal(t, "Consultant", c.Items[1].Name)
	assert.Equal(t, "Therapist", c.Items[1].Title)
	assert.Equal(t, "Details", c.Items[1].ActionLabel)
	assert.Equal(t, "/consultants/4", c.Items[1].ActionURL)
	assert.False(t, c.Items[1].External)

	assert.Equal(t, "Sam", c.Items[2].Name)
	assert.Equal(t, "Details", c.Items[2].ActionLabel)
}

func TestConsultantService_Carousel(t *testing.T) {
	testConfig(t)
	db := testutil.OpenTestDB(t)
	svc := NewConsultantService(db)
	ctx := context.Background()

	assert.Equal(t, EmptyCarouselMessage, svc.Carousel(ctx).EmptyMessage)

	for i := 0; i < 15; i++ {
		require.NoError(t, db.Create(&models.Consultant{
			FullName:  fmt.Sprintf("Consultant %02d", i),
			CreatedAt: fixedNow.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	c := svc.Carousel(ctx)
	require.Len(t, c.Items, 12)
	assert.Equal(t, "Consultant 14", c.Items[0].Name)
	assert.Equal(t, "Consultant 03", c.Items[11].Name)
}

func TestConsultantService_CarouselCache(t *testing.T) {
	testConfig(t)
	db := testutil.OpenTestDB(t)
	svc := NewConsultantService(db)
	rc, mr := testutil.NewRedis(t)
	utils.SetRedis(rc)
	t.Cleanup(func() { utils.SetRedis(nil) })
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Consultant{FullName: "First", CreatedAt: fixedNow}).Error)
	require.Len(t, svc.Carousel(ctx).Items, 1)
	assert.True(t, mr.Exists(utils.CacheKeyConsultants))

	require.NoError(t, db.Create(&models.Consultant{FullName: "Second", CreatedAt: fixedNow.Add(time.Minute)}).Error)
	assert.Len(t, svc.Carousel(ctx).Items, 1, "served from cache")

	utils.FlushCaches(ctx)
	assert.Len(t, svc.Carousel(ctx).Items, 2)
}

func TestConsultantService_StoreError(t *testing.T) {
	testConfig(t)
	db := testutil.OpenTestDB(t)
	require.NoError(t, db.Migrator().DropTable(&models.Consultant{}))

	c := NewConsultantService(db).Carousel(context.Background())
	assert.Empty(t, c.Items)
	assert.Equal(t, EmptyCarouselMessage, c.EmptyMessage)
}
