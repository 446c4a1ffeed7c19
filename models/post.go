package models

import (
	"html/template"
	"time"
)

// Post is a blog entry written by a user. Tags are attached through the
// post_tags join table and replaced as a whole set on every write.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Tags      []Tag     `gorm:"many2many:post_tags" json:"tags"`
}

// HTMLContent marks the stored content as safe for unescaped rendering.
// Content is sanitized with the UGC policy on every write, so the markup it
// keeps (bold, links, ...) must reach the browser as HTML, not as text.
func (p Post) HTMLContent() template.HTML {
	return template.HTML(p.Content)
}

// NiceDate renders CreatedAt the way the post pages display it,
// e.g. "Mon Jan 2 2006, 3:04 PM".
func (p Post) NiceDate() string {
	return p.CreatedAt.Format("Mon Jan 2 2006, 3:04 PM")
}
