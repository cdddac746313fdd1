package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hexpertify/moodlift/services"
	"github.com/hexpertify/moodlift/utils"
)

// SeoController serves the sitemap and per-page metadata.
type SeoController struct {
	seo *services.SeoService
}

// NewSeoController creates a SeoController.
func NewSeoController(seo *services.SeoService) *SeoController {
	return &SeoController{seo: seo}
}

// SitemapXML renders /sitemap.xml.
func (s *SeoController) SitemapXML(ctx *gin.Context) {
	b, err := s.seo.SitemapXML(ctx.Request.Context())
	if err != nil {
		utils.Logger.Error("render sitemap", zap.Error(err))
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to render sitemap")
		return
	}
	ctx.Data(http.StatusOK, "application/xml; charset=utf-8", b)
}

// Sitemap returns the sitemap entries as JSON.
func (s *SeoController) Sitemap(ctx *gin.Context) {
	utils.Success(ctx, s.seo.BuildSitemap(ctx.Request.Context()))
}

// GetSeo returns title, description, keywords and JSON-LD for ?path=.
func (s *SeoController) GetSeo(ctx *gin.Context) {
	page, err := s.seo.GetSeoMetadata(ctx.Request.Context(), ctx.Query("path"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			utils.Error(ctx, http.StatusBadRequest, 40040, "path is required")
		case errors.Is(err, services.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40440, "seo metadata not found")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load seo metadata")
		}
		return
	}
	utils.Success(ctx, page)
}
