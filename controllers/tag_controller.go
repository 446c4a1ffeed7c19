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

// errTagNameTaken marks a uniqueness violation on tag name.
var errTagNameTaken = errors.New("tag name already taken")

// TagController manages CRUD operations for tags.
type TagController struct {
	db *gorm.DB
}

// NewTagController creates a new TagController instance.
func NewTagController(db *gorm.DB) *TagController {
	return &TagController{db: db}
}

// tagForm is the statically validated input for create and update. Post ids
// that do not match an existing post are silently dropped.
type tagForm struct {
	Name    string `form:"name" binding:"required,max=64"`
	PostIDs []uint `form:"posts" binding:"-"`
}

// ListTags renders all tags.
func (t *TagController) ListTags(ctx *gin.Context) {
	var tags []models.Tag
	if err := t.db.Order("id").Find(&tags).Error; err != nil {
		utils.RenderError(ctx, http.StatusInternalServerError, "Failed to load tags.")
		return
	}
	utils.RenderPage(ctx, http.StatusOK, "tag_list.html", gin.H{"Tags": tags})
}

// ShowTag renders the tag name and its associated posts.
func (t *TagController) ShowTag(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var tag models.Tag
	if err := t.db.Preload("Posts").First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(ctx)
			return
		}
		utils.RenderError(ctx, http.StatusInternalServerError, "Failed to load tag.")
		return
	}
	utils.RenderPage(ctx, http.StatusOK, "tag_show.html", gin.H{"Tag": tag})
}

// NewTagForm renders the creation form plus the full post catalog.
func (t *TagController) NewTagForm(ctx *gin.Context) {
	var posts []models.Post
	if err := t.db.Order("id").Find(&posts).Error; err != nil {
		utils.RenderError(ctx, http.StatusInternalServerError, "Failed to load posts.")
		return
	}
	utils.RenderPage(ctx, http.StatusOK, "tag_new.html", gin.H{"Posts": posts})
}

// CreateTag inserts a tag with its initial post set. A duplicate name is a
// conflict; nothing is inserted.
func (t *TagController) CreateTag(ctx *gin.Context) {
	var req tagForm
	if err := ctx.ShouldBind(&req); err != nil {
		utils.RenderError(ctx, http.StatusBadRequest, "Tag name is required.")
		return
	}

	name := utils.SanitizeText(strings.TrimSpace(req.Name))
	if name == "" {
		utils.RenderError(ctx, http.StatusBadRequest, "Tag name is required.")
		return
	}

	tag := models.Tag{Name: name}
	err := t.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Tag{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errTagNameTaken
		}
		if err := tx.Create(&tag).Error; err != nil {
			return err
		}
		return replacePosts(tx, &tag, req.PostIDs)
	})
	if err != nil {
		if errors.Is(err, errTagNameTaken) || errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RenderError(ctx, http.StatusConflict, fmt.Sprintf("Tag '%s' already exists.", name))
			return
		}
		utils.RenderError(ctx, http.StatusInternalServerError, "Failed to create tag.")
		return
	}

	utils.AddFlash(ctx, fmt.Sprintf("Tag '%s' added.", tag.Name))
	utils.Redirect(ctx, "/tags")
}

// EditTagForm renders the pre-filled edit form plus the full post catalog.
func (t *TagController) EditTagForm(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var tag models.Tag
	if err := t.db.Preload("Posts").First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(ctx)
			return
		}
		utils.RenderError(ctx, http.StatusInternalServerError, "Failed to load tag.")
		return
	}

	var posts []models.Post
	if err := t.db.Order("id").Find(&posts).Error; err != nil {
		utils.RenderError(ctx, http.StatusInternalServerError, "Failed to load posts.")
		return
	}

	selected := map[uint]bool{}
	for _, p := range tag.Posts {
		selected[p.ID] = true
	}
	utils.RenderPage(ctx, http.StatusOK, "tag_edit.html", gin.H{
		"Tag":      tag,
		"Posts":    posts,
		"Selected": selected,
	})
}

// UpdateTag overwrites the name and fully replaces the post set.
func (t *TagController) UpdateTag(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req tagForm
	if err := ctx.ShouldBind(&req); err != nil {
		utils.RenderError(ctx, http.StatusBadRequest, "Tag name is required.")
		return
	}

	name := utils.SanitizeText(strings.TrimSpace(req.Name))
	if name == "" {
		utils.RenderError(ctx, http.StatusBadRequest, "Tag name is required.")
		return
	}

	var tag models.Tag
	err := t.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tag, id).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Tag{}).Where("name = ? AND id <> ?", name, tag.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errTagNameTaken
		}

		tag.Name = name
		if err := tx.Save(&tag).Error; err != nil {
			return err
		}
		return replacePosts(tx, &tag, req.PostIDs)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(ctx)
			return
		}
		if errors.Is(err, errTagNameTaken) || errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RenderError(ctx, http.StatusConflict, fmt.Sprintf("Tag '%s' already exists.", name))
			return
		}
		utils.RenderError(ctx, http.StatusInternalServerError, "Failed to update tag.")
		return
	}

	utils.AddFlash(ctx, fmt.Sprintf("Tag '%s' edited.", tag.Name))
	utils.Redirect(ctx, "/tags")
}

// DeleteTag removes the tag and its association rows; posts are untouched.
func (t *TagController) DeleteTag(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var tag models.Tag
	err := t.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tag, id).Error; err != nil {
			return err
		}
		if err := tx.Where("tag_id = ?", tag.ID).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(ctx)
			return
		}
		utils.RenderError(ctx, http.StatusInternalServerError, "Failed to delete tag.")
		return
	}

	utils.AddFlash(ctx, fmt.Sprintf("Tag '%s' deleted.", tag.Name))
	utils.Redirect(ctx, "/tags")
}

// replacePosts swaps the tag's post set for the posts resolved from ids.
func replacePosts(tx *gorm.DB, tag *models.Tag, ids []uint) error {
	ids = utils.UniqueUint(ids)

	var posts []models.Post
	if len(ids) > 0 {
		if err := tx.Find(&posts, ids).Error; err != nil {
			return err
		}
	}

	assoc := tx.Model(tag).Association("Posts")
	if len(posts) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(&posts)
}
