package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/hexpertify/moodlift/services"
	"github.com/hexpertify/moodlift/utils"
)

// ConsultantController serves the consultant carousel.
type ConsultantController struct {
	consultants *services.ConsultantService
}

// NewConsultantController creates a ConsultantController.
func NewConsultantController(consultants *services.ConsultantService) *ConsultantController {
	return &ConsultantController{consultants: consultants}
}

// Carousel returns the latest consultant cards.
func (c *ConsultantController) Carousel(ctx *gin.Context) {
	utils.Success(ctx, c.consultants.Carousel(ctx.Request.Context()))
}
