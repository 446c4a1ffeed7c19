package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/EricaRose1/Blogly/models"
	"github.com/EricaRose1/Blogly/utils"
)

// recentPostCount is the fixed size of the landing page list.
const recentPostCount = 5

// HomeController renders the landing page.
type HomeController struct {
	db *gorm.DB
}

// NewHomeController creates a new HomeController instance.
func NewHomeController(db *gorm.DB) *HomeController {
	return &HomeController{db: db}
}

// Home shows the five most recently created posts, newest first.
func (h *HomeController) Home(ctx *gin.Context) {
	var posts []models.Post
	err := h.db.Preload("User").
		Order("created_at DESC").
		Limit(recentPostCount).
		Find(&posts).Error
	if err != nil {
		utils.RenderError(ctx, http.StatusInternalServerError, "Failed to load recent posts.")
		return
	}
	utils.RenderPage(ctx, http.StatusOK, "home.html", gin.H{"Posts": posts})
}
