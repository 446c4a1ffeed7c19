package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserFullName(t *testing.T) {
	u := User{FirstName: "Ada", LastName: "Lovelace"}
	assert.Equal(t, "Ada Lovelace", u.FullName())
}

func TestPostNiceDate(t *testing.T) {
	p := Post{CreatedAt: time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC)}
	assert.Equal(t, "Tue Mar 5 2024, 2:07 PM", p.NiceDate())
}

func TestPostTagTableName(t *testing.T) {
	assert.Equal(t, "post_tags", PostTag{}.TableName())
}
