package models

import "gorm.io/gorm"

// Tag is a free-text label shared across posts. Names are unique.
type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:64;not null;uniqueIndex" json:"name"`
	Posts []Post `gorm:"many2many:post_tags" json:"-"`
}

// PostTag is the explicit join row between posts and tags. The composite
// primary key guarantees each (post, tag) pair appears at most once.
type PostTag struct {
	PostID uint `gorm:"primaryKey" json:"post_id"`
	TagID  uint `gorm:"primaryKey" json:"tag_id"`
}

// TableName pins the join table to the name the many2many tags reference.
func (PostTag) TableName() string {
	return "post_tags"
}

// RegisterJoinTables routes the Post<->Tag association through the PostTag
// model so association writes touch the explicit join entity. Must run once
// per gorm.DB before any association operation.
func RegisterJoinTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Post{}, "Tags", &PostTag{}); err != nil {
		return err
	}
	return db.SetupJoinTable(&Tag{}, "Posts", &PostTag{})
}
