package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/EricaRose1/Blogly/models"
	"github.com/EricaRose1/Blogly/utils"
)

// PostController manages CRUD operations for posts.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// postForm is the statically validated input for create and update. Tag ids
// that do not match an existing tag are silently dropped during resolution.
type postForm struct {
	Title   string `form:"title" binding:"required"`
	Content string `form:"content" binding:"required"`
	TagIDs  []uint `form:"tags" binding:"-"`
}

// NewPostForm renders the per-user creation form with the full tag catalog.
func (p *PostController) NewPostForm(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var user models.User
	if err := p.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(ctx)
			return
		}
		utils.RenderError(ctx, http.StatusInternalServerError, "Failed to load user.")
		return
	}

	var tags []models.Tag
	if err := p.db.Order("id").Find(&tags).Error; err != nil {
		utils.RenderError(ctx, http.StatusInternalServerError, "Failed to load tags.")
		return
	}
	utils.RenderPage(ctx, http.StatusOK, "post_new.html", gin.H{"User": user, "Tags": tags})
}

// CreatePost inserts a post for a user, attaches the resolved tag set and
// redirects to the owner's profile.
func (p *PostController) CreatePost(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req postForm
	if err := ctx.ShouldBind(&req); err != nil {
		utils.RenderError(ctx, http.StatusBadRequest, "Title and content are required.")
		return
	}

	title := utils.SanitizeText(strings.TrimSpace(req.Title))
	content := utils.Sanitize(req.Content)
	if title == "" || content == "" {
		utils.RenderError(ctx, http.StatusBadRequest, "Title and content are required.")
		return
	}

	var post models.Post
	err := p.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}

		post = models.Post{
			UserID:  user.ID,
			Title:   title,
			Content: content,
		}
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		return replaceTags(tx, &post, req.TagIDs)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(ctx)
			return
		}
		utils.RenderError(ctx, http.StatusInternalServerError, "Failed to create post.")
		return
	}

	utils.AddFlash(ctx, fmt.Sprintf("Post '%s' added.", post.Title))
	utils.Redirect(ctx, "/users/"+strconv.Itoa(int(post.UserID)))
}

// ShowPost renders title, content, date, owner and associated tags.
func (p *PostController) ShowPost(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var post models.Post
	if err := p.db.Preload("User").Preload("Tags").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(ctx)
			return
		}
		utils.RenderError(ctx, http.StatusInternalServerError, "Failed to load post.")
		return
	}
	utils.RenderPage(ctx, http.StatusOK, "post_show.html", gin.H{"Post": post})
}

// EditPostForm renders the pre-filled edit form plus the full tag catalog.
func (p *PostController) EditPostForm(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var post models.Post
	if err := p.db.Preload("Tags").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(ctx)
			return
		}
		utils.RenderError(ctx, http.StatusInternalServerError, "Failed to load post.")
		return
	}

	var tags []models.Tag
	if err := p.db.Order("id").Find(&tags).Error; err != nil {
		utils.RenderError(ctx, http.StatusInternalServerError, "Failed to load tags.")
		return
	}

	selected := map[uint]bool{}
	for _, t := range post.Tags {
		selected[t.ID] = true
	}
	utils.RenderPage(ctx, http.StatusOK, "post_edit.html", gin.H{
		"Post":     post,
		"Tags":     tags,
		"Selected": selected,
	})
}

// UpdatePost overwrites title/content and fully replaces the tag set.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req postForm
	if err := ctx.ShouldBind(&req); err != nil {
		utils.RenderError(ctx, http.StatusBadRequest, "Title and content are required.")
		return
	}

	title := utils.SanitizeText(strings.TrimSpace(req.Title))
	content := utils.Sanitize(req.Content)
	if title == "" || content == "" {
		utils.RenderError(ctx, http.StatusBadRequest, "Title and content are required.")
		return
	}

	var post models.Post
	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, id).Error; err != nil {
			return err
		}
		post.Title = title
		post.Content = content
		if err := tx.Save(&post).Error; err != nil {
			return err
		}
		return replaceTags(tx, &post, req.TagIDs)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(ctx)
			return
		}
		utils.RenderError(ctx, http.StatusInternalServerError, "Failed to update post.")
		return
	}

	utils.AddFlash(ctx, fmt.Sprintf("Post '%s' edited.", post.Title))
	utils.Redirect(ctx, "/users/"+strconv.Itoa(int(post.UserID)))
}

// DeletePost removes the post and its tag associations; the owner is untouched.
func (p *PostController) DeletePost(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var post models.Post
	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, id).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(ctx)
			return
		}
		utils.RenderError(ctx, http.StatusInternalServerError, "Failed to delete post.")
		return
	}

	utils.AddFlash(ctx, fmt.Sprintf("Post '%s' deleted.", post.Title))
	utils.Redirect(ctx, "/users/"+strconv.Itoa(int(post.UserID)))
}

// replaceTags swaps the post's tag set for the tags resolved from ids.
// Unknown ids are dropped; an empty set clears all associations.
func replaceTags(tx *gorm.DB, post *models.Post, ids []uint) error {
	ids = utils.UniqueUint(ids)

	var tags []models.Tag
	if len(ids) > 0 {
		if err := tx.Find(&tags, ids).Error; err != nil {
			return err
		}
	}

	assoc := tx.Model(post).Association("Tags")
	if len(tags) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(&tags)
}
