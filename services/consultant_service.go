package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hexpertify/moodlift/models"
	"github.com/hexpertify/moodlift/utils"
)

const (
	carouselSize     = 12
	carouselCacheTTL = 5 * time.Minute

	// EmptyCarouselMessage is shown when there is nobody to list.
	EmptyCarouselMessage = "No consultants available right now. Add consultants via the admin panel."
)

// ConsultantCard is the view model of one carousel card.
type ConsultantCard struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	PictureURL  string `json:"picture_url,omitempty"`
	ActionLabel string `json:"action_label"`
	ActionURL   string `json:"action_url"`
	External    bool   `json:"external"`
}

// Carousel is the consultant feed for the landing page.
type Carousel struct {
	Items        []ConsultantCard `json:"items"`
	EmptyMessage string           `json:"empty_message,omitempty"`
}

// ConsultantService builds the consultant carousel.
type ConsultantService struct {
	db *gorm.DB
}

// NewConsultantService creates a ConsultantService.
func NewConsultantService(db *gorm.DB) *ConsultantService {
	return &ConsultantService{db: db}
}

// Carousel returns the newest consultants as cards. A store failure is logged and yields an empty carousel.
func (s *ConsultantService) Carousel(ctx context.Context) Carousel {
	var cached Carousel
	if utils.CacheGetJSON(ctx, utils.CacheKeyConsultants, &cached) {
		return cached
	}

	rows, err := s.latest(ctx)
	if err != nil {
		utils.Logger.Error("failed to load consultants", zap.Error(err))
		return BuildCarousel(nil)
	}
	carousel := BuildCarousel(rows)
	utils.CacheSetJSON(ctx, utils.CacheKeyConsultants, carousel, carouselCacheTTL)
	return carousel
}

func (s *ConsultantService) latest(ctx context.Context) ([]models.Consultant, error) {
	var rows []models.Consultant
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(carouselSize).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list consultants: %w", err)
	}
	return rows, nil
}

// BuildCarousel maps consultant rows to cards in the given order.
func BuildCarousel(rows []models.Consultant) Carousel {
	if len(rows) == 0 {
		return Carousel{Items: []ConsultantCard{}, EmptyMessage: EmptyCarouselMessage}
	}
	items := make([]ConsultantCard, 0, len(rows))
	for _, c := range rows {
		items = append(items, consultantCard(c))
	}
	return Carousel{Items: items}
}

func consultantCard(c models.Consultant) ConsultantCard {
	card := ConsultantCard{
		ID:         c.ID,
		Name:       orDefault(utils.SanitizeText(c.FullName), "Consultant"),
		Title:      orDefault(utils.SanitizeText(c.Title), "Therapist"),
		PictureURL: utils.SanitizeURL(c.PictureURL),
	}
	if booking := utils.SanitizeURL(c.BookingURL); booking != "" {
		card.ActionLabel = "Book Now"
		card.ActionURL = booking
		card.External = true
	} else {
		card.ActionLabel = "Details"
		card.ActionURL = fmt.Sprintf("/consultants/%d", c.ID)
	}
	return card
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
