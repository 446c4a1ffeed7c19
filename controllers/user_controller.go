package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/EricaRose1/Blogly/models"
	"github.com/EricaRose1/Blogly/utils"
)

// UserController manages CRUD operations for users.
type UserController struct {
	db *gorm.DB
}

// NewUserController creates a new UserController instance.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// userForm is the statically validated input for create and update.
type userForm struct {
	FirstName string `form:"first_name" binding:"required,max=25"`
	LastName  string `form:"last_name" binding:"required,max=25"`
	ImageURL  string `form:"image_url" binding:"omitempty,max=200"`
}

// ListUsers renders all users ordered by last then first name.
func (u *UserController) ListUsers(ctx *gin.Context) {
	var users []models.User
	if err := u.db.Order("last_name, first_name").Find(&users).Error; err != nil {
		utils.RenderError(ctx, http.StatusInternalServerError, "Failed to load users.")
		return
	}
	utils.RenderPage(ctx, http.StatusOK, "user_list.html", gin.H{"Users": users})
}

// NewUserForm renders the empty creation form.
func (u *UserController) NewUserForm(ctx *gin.Context) {
	utils.RenderPage(ctx, http.StatusOK, "user_new.html", nil)
}

// CreateUser inserts a user and redirects to the list.
func (u *UserController) CreateUser(ctx *gin.Context) {
	var req userForm
	if err := ctx.ShouldBind(&req); err != nil {
		utils.RenderError(ctx, http.StatusBadRequest, "First and last name are required.")
		return
	}

	user := models.User{
		FirstName: utils.SanitizeText(strings.TrimSpace(req.FirstName)),
		LastName:  utils.SanitizeText(strings.TrimSpace(req.LastName)),
		ImageURL:  strings.TrimSpace(req.ImageURL),
	}
	if user.FirstName == "" || user.LastName == "" {
		utils.RenderError(ctx, http.StatusBadRequest, "First and last name are required.")
		return
	}

	err := u.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&user).Error
	})
	if err != nil {
		utils.RenderError(ctx, http.StatusInternalServerError, "Failed to create user.")
		return
	}

	utils.AddFlash(ctx, fmt.Sprintf("User '%s' added.", user.FullName()))
	utils.Redirect(ctx, "/users")
}

// ShowUser renders the full profile including owned posts.
func (u *UserController) ShowUser(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var user models.User
	if err := u.db.Preload("Posts").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(ctx)
			return
		}
		utils.RenderError(ctx, http.StatusInternalServerError, "Failed to load user.")
		return
	}
	utils.RenderPage(ctx, http.StatusOK, "user_show.html", gin.H{"User": user})
}

// EditUserForm renders the pre-filled edit form.
func (u *UserController) EditUserForm(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var user models.User
	if err := u.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(ctx)
			return
		}
		utils.RenderError(ctx, http.StatusInternalServerError, "Failed to load user.")
		return
	}
	utils.RenderPage(ctx, http.StatusOK, "user_edit.html", gin.H{"User": user})
}

// UpdateUser overwrites the existing row and redirects to the list.
func (u *UserController) UpdateUser(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req userForm
	if err := ctx.ShouldBind(&req); err != nil {
		utils.RenderError(ctx, http.StatusBadRequest, "First and last name are required.")
		return
	}

	firstName := utils.SanitizeText(strings.TrimSpace(req.FirstName))
	lastName := utils.SanitizeText(strings.TrimSpace(req.LastName))
	if firstName == "" || lastName == "" {
		utils.RenderError(ctx, http.StatusBadRequest, "First and last name are required.")
		return
	}

	var user models.User
	err := u.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		user.FirstName = firstName
		user.LastName = lastName
		user.ImageURL = strings.TrimSpace(req.ImageURL)
		return tx.Save(&user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(ctx)
			return
		}
		utils.RenderError(ctx, http.StatusInternalServerError, "Failed to update user.")
		return
	}

	utils.AddFlash(ctx, fmt.Sprintf("User '%s' edited.", user.FullName()))
	utils.Redirect(ctx, "/users")
}

// DeleteUser removes the user, their posts and the posts' tag associations.
func (u *UserController) DeleteUser(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var user models.User
	err := u.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}

		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("user_id = ?", user.ID).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.PostTag{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.Post{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(ctx)
			return
		}
		utils.RenderError(ctx, http.StatusInternalServerError, "Failed to delete user.")
		return
	}

	utils.AddFlash(ctx, fmt.Sprintf("User '%s' deleted.", user.FullName()))
	utils.Redirect(ctx, "/users")
}
