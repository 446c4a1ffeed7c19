package models

// User is a site member who owns blog posts. Deleting a user removes all of
// their posts and the posts' tag associations.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"size:25;not null" json:"first_name"`
	LastName  string `gorm:"size:25;not null" json:"last_name"`
	ImageURL  string `gorm:"size:200" json:"image_url"`
	Posts     []Post `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// FullName returns the display name composed from first and last name.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
