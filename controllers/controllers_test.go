package controllers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/EricaRose1/Blogly/config"
	"github.com/EricaRose1/Blogly/migrations"
	"github.com/EricaRose1/Blogly/models"
	"github.com/EricaRose1/Blogly/routes"
	"github.com/EricaRose1/Blogly/utils"
)

func TestMain(m *testing.M) {
	// Keep the shared IP limiter out of the way and the logger quiet
	os.Setenv("RATE_LIMIT_PER_MINUTE", "1000000")
	os.Setenv("GIN_MODE", "test")
	os.Setenv("LOG_LEVEL", "error")
	_ = utils.InitLogger(config.Load())
	os.Exit(m.Run())
}

func setupTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A fresh pool connection would see an empty in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, migrations.Run(db))
	return routes.SetupRouter(db), db
}

func doGet(r *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doPost(r *gin.Engine, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createUser(t *testing.T, r *gin.Engine, first, last string) *httptest.ResponseRecorder {
	t.Helper()
	w := doPost(r, "/users/new", url.Values{
		"first_name": {first},
		"last_name":  {last},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	return w
}

func lastUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.Order("id DESC").First(&user).Error)
	return user
}

func lastPost(t *testing.T, db *gorm.DB) models.Post {
	t.Helper()
	var post models.Post
	require.NoError(t, db.Order("id DESC").First(&post).Error)
	return post
}

func postTagIDs(t *testing.T, db *gorm.DB, postID uint) []uint {
	t.Helper()
	var ids []uint
	require.NoError(t, db.Model(&models.PostTag{}).Where("post_id = ?", postID).Order("tag_id").Pluck("tag_id", &ids).Error)
	return ids
}

func TestCreateUserAndList(t *testing.T) {
	r, db := setupTest(t)

	w := createUser(t, r, "Ada", "Lovelace")
	assert.Equal(t, "/users", w.Header().Get("Location"))

	user := lastUser(t, db)
	assert.Equal(t, "Ada Lovelace", user.FullName())

	list := doGet(r, "/users")
	assert.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), "Ada Lovelace")
}

func TestUserListOrdering(t *testing.T) {
	r, _ := setupTest(t)
	createUser(t, r, "Grace", "Hopper")
	createUser(t, r, "Charles", "Babbage")
	createUser(t, r, "Annie", "Easley")

	body := doGet(r, "/users").Body.String()
	babbage := strings.Index(body, "Charles Babbage")
	easley := strings.Index(body, "Annie Easley")
	hopper := strings.Index(body, "Grace Hopper")
	require.True(t, babbage >= 0 && easley >= 0 && hopper >= 0)
	assert.Less(t, babbage, easley)
	assert.Less(t, easley, hopper)
}

func TestCreateUserValidation(t *testing.T) {
	r, db := setupTest(t)

	w := doPost(r, "/users/new", url.Values{"first_name": {"Ada"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateUserKeepsPunctuation(t *testing.T) {
	r, db := setupTest(t)
	createUser(t, r, "O'Brien", "AT&T")

	user := lastUser(t, db)
	assert.Equal(t, "O'Brien", user.FirstName, "stored verbatim, no entity encoding")
	assert.Equal(t, "AT&T", user.LastName)

	body := doGet(r, "/users").Body.String()
	assert.Contains(t, body, "O&#39;Brien AT&amp;T", "escaped once, at render time")
	assert.NotContains(t, body, "&amp;#39;")
}

func TestUpdateUserOverwrites(t *testing.T) {
	r, db := setupTest(t)
	createUser(t, r, "Ada", "Lovelace")
	user := lastUser(t, db)

	w := doPost(r, fmt.Sprintf("/users/%d/edit", user.ID), url.Values{
		"first_name": {"Augusta"},
		"last_name":  {"King"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "update must overwrite, not insert")

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "Augusta King", reloaded.FullName())
}

func TestNotFoundResponses(t *testing.T) {
	r, _ := setupTest(t)

	paths := []string{
		"/users/999", "/users/999/edit", "/users/999/posts/newpost",
		"/posts/999", "/posts/999/edit",
		"/tags/999", "/tags/999/edit",
	}
	for _, path := range paths {
		assert.Equal(t, http.StatusNotFound, doGet(r, path).Code, "GET %s", path)
	}

	deletes := []string{"/users/999/delete", "/posts/999/delete", "/tags/999/delete"}
	for _, path := range deletes {
		assert.Equal(t, http.StatusNotFound, doPost(r, path, url.Values{}).Code, "POST %s", path)
	}
}

func TestCreatePostWithoutTags(t *testing.T) {
	r, db := setupTest(t)
	createUser(t, r, "Ada", "Lovelace")
	user := lastUser(t, db)

	w := doPost(r, fmt.Sprintf("/users/%d/posts/newpost", user.ID), url.Values{
		"title":   {"First!"},
		"content": {"hello world"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, fmt.Sprintf("/users/%d", user.ID), w.Header().Get("Location"))

	post := lastPost(t, db)
	assert.Equal(t, user.ID, post.UserID)
	assert.False(t, post.CreatedAt.IsZero())
	assert.Empty(t, postTagIDs(t, db, post.ID))

	show := doGet(r, fmt.Sprintf("/posts/%d", post.ID))
	assert.Equal(t, http.StatusOK, show.Code)
	assert.Contains(t, show.Body.String(), "First!")

	profile := doGet(r, fmt.Sprintf("/users/%d", user.ID))
	assert.Contains(t, profile.Body.String(), "First!")
}

func TestCreatePostValidation(t *testing.T) {
	r, db := setupTest(t)
	createUser(t, r, "Ada", "Lovelace")
	user := lastUser(t, db)

	w := doPost(r, fmt.Sprintf("/users/%d/posts/newpost", user.ID), url.Values{
		"title": {"no content"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPostContentRendersMarkup(t *testing.T) {
	r, db := setupTest(t)
	createUser(t, r, "Ada", "Lovelace")
	user := lastUser(t, db)

	w := doPost(r, fmt.Sprintf("/users/%d/posts/newpost", user.ID), url.Values{
		"title":   {"Markup"},
		"content": {"<b>bold</b> words <script>alert(1)</script>"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)

	post := lastPost(t, db)
	assert.Contains(t, post.Content, "<b>bold</b>")
	assert.NotContains(t, post.Content, "alert(1)")

	body := doGet(r, fmt.Sprintf("/posts/%d", post.ID)).Body.String()
	assert.Contains(t, body, "<b>bold</b> words", "sanitized markup reaches the browser as HTML")
	assert.NotContains(t, body, "&lt;b&gt;")
	assert.NotContains(t, body, "alert(1)")
}

func TestTagReplacementIsFull(t *testing.T) {
	r, db := setupTest(t)
	createUser(t, r, "Ada", "Lovelace")
	user := lastUser(t, db)

	math := models.Tag{Name: "math"}
	science := models.Tag{Name: "science"}
	require.NoError(t, db.Create(&math).Error)
	require.NoError(t, db.Create(&science).Error)

	w := doPost(r, fmt.Sprintf("/users/%d/posts/newpost", user.ID), url.Values{
		"title":   {"On Engines"},
		"content": {"analytical"},
		"tags":    {fmt.Sprint(math.ID)},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	post := lastPost(t, db)
	require.Equal(t, []uint{math.ID}, postTagIDs(t, db, post.ID))

	w = doPost(r, fmt.Sprintf("/posts/%d/edit", post.ID), url.Values{
		"title":   {"On Engines"},
		"content": {"analytical"},
		"tags":    {fmt.Sprint(science.ID)},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, []uint{science.ID}, postTagIDs(t, db, post.ID), "no residue from the prior set")

	show := doGet(r, fmt.Sprintf("/posts/%d", post.ID))
	assert.Contains(t, show.Body.String(), "science")
	assert.NotContains(t, show.Body.String(), "math")
}

func TestUnknownTagIDsIgnored(t *testing.T) {
	r, db := setupTest(t)
	createUser(t, r, "Ada", "Lovelace")
	user := lastUser(t, db)

	w := doPost(r, fmt.Sprintf("/users/%d/posts/newpost", user.ID), url.Values{
		"title":   {"Untagged"},
		"content": {"body"},
		"tags":    {"999", "1000"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Empty(t, postTagIDs(t, db, lastPost(t, db).ID))
}

func TestCreateTagValidation(t *testing.T) {
	r, db := setupTest(t)

	w := doPost(r, "/tags/new", url.Values{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTagNameConflict(t *testing.T) {
	r, db := setupTest(t)

	w := doPost(r, "/tags/new", url.Values{"name": {"math"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = doPost(r, "/tags/new", url.Values{"name": {"math"}})
	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "conflicting create must not insert")
}

func TestTagRenameConflict(t *testing.T) {
	r, db := setupTest(t)
	require.NoError(t, db.Create(&models.Tag{Name: "math"}).Error)
	other := models.Tag{Name: "science"}
	require.NoError(t, db.Create(&other).Error)

	w := doPost(r, fmt.Sprintf("/tags/%d/edit", other.ID), url.Values{"name": {"math"}})
	assert.Equal(t, http.StatusConflict, w.Code)

	var reloaded models.Tag
	require.NoError(t, db.First(&reloaded, other.ID).Error)
	assert.Equal(t, "science", reloaded.Name)
}

func TestTagCreateWithPostsAndUpdateReplaces(t *testing.T) {
	r, db := setupTest(t)
	createUser(t, r, "Ada", "Lovelace")
	user := lastUser(t, db)

	p1 := models.Post{UserID: user.ID, Title: "one", Content: "a"}
	p2 := models.Post{UserID: user.ID, Title: "two", Content: "b"}
	require.NoError(t, db.Create(&p1).Error)
	require.NoError(t, db.Create(&p2).Error)

	w := doPost(r, "/tags/new", url.Values{
		"name":  {"history"},
		"posts": {fmt.Sprint(p1.ID), "999"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)

	var tag models.Tag
	require.NoError(t, db.Where("name = ?", "history").First(&tag).Error)
	assert.Equal(t, []uint{tag.ID}, postTagIDs(t, db, p1.ID))
	assert.Empty(t, postTagIDs(t, db, p2.ID))

	w = doPost(r, fmt.Sprintf("/tags/%d/edit", tag.ID), url.Values{
		"name":  {"history"},
		"posts": {fmt.Sprint(p2.ID)},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Empty(t, postTagIDs(t, db, p1.ID))
	assert.Equal(t, []uint{tag.ID}, postTagIDs(t, db, p2.ID))
}

func TestDeleteUserCascades(t *testing.T) {
	r, db := setupTest(t)
	createUser(t, r, "Ada", "Lovelace")
	user := lastUser(t, db)

	tag := models.Tag{Name: "math"}
	require.NoError(t, db.Create(&tag).Error)

	w := doPost(r, fmt.Sprintf("/users/%d/posts/newpost", user.ID), url.Values{
		"title":   {"Gone soon"},
		"content": {"body"},
		"tags":    {fmt.Sprint(tag.ID)},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	post := lastPost(t, db)

	w = doPost(r, fmt.Sprintf("/users/%d/delete", user.ID), url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)

	var users, posts, joins int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.PostTag{}).Count(&joins).Error)
	assert.Zero(t, users)
	assert.Zero(t, posts)
	assert.Zero(t, joins)

	// tags themselves survive
	var tags int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tags).Error)
	assert.Equal(t, int64(1), tags)

	assert.Equal(t, http.StatusNotFound, doGet(r, fmt.Sprintf("/users/%d", user.ID)).Code)
	assert.Equal(t, http.StatusNotFound, doGet(r, fmt.Sprintf("/posts/%d", post.ID)).Code)
}

func TestDeletePostKeepsOwnerAndTags(t *testing.T) {
	r, db := setupTest(t)
	createUser(t, r, "Ada", "Lovelace")
	user := lastUser(t, db)
	tag := models.Tag{Name: "math"}
	require.NoError(t, db.Create(&tag).Error)

	doPost(r, fmt.Sprintf("/users/%d/posts/newpost", user.ID), url.Values{
		"title": {"x"}, "content": {"y"}, "tags": {fmt.Sprint(tag.ID)},
	})
	post := lastPost(t, db)

	w := doPost(r, fmt.Sprintf("/posts/%d/delete", post.ID), url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, fmt.Sprintf("/users/%d", user.ID), w.Header().Get("Location"))

	var posts, joins, tags, users int64
	db.Model(&models.Post{}).Count(&posts)
	db.Model(&models.PostTag{}).Count(&joins)
	db.Model(&models.Tag{}).Count(&tags)
	db.Model(&models.User{}).Count(&users)
	assert.Zero(t, posts)
	assert.Zero(t, joins)
	assert.Equal(t, int64(1), tags)
	assert.Equal(t, int64(1), users)
}

func TestDeleteTagKeepsPosts(t *testing.T) {
	r, db := setupTest(t)
	createUser(t, r, "Ada", "Lovelace")
	user := lastUser(t, db)
	tag := models.Tag{Name: "math"}
	require.NoError(t, db.Create(&tag).Error)

	doPost(r, fmt.Sprintf("/users/%d/posts/newpost", user.ID), url.Values{
		"title": {"x"}, "content": {"y"}, "tags": {fmt.Sprint(tag.ID)},
	})
	post := lastPost(t, db)

	w := doPost(r, fmt.Sprintf("/tags/%d/delete", tag.ID), url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/tags", w.Header().Get("Location"))

	var posts, joins, tags int64
	db.Model(&models.Post{}).Count(&posts)
	db.Model(&models.PostTag{}).Count(&joins)
	db.Model(&models.Tag{}).Count(&tags)
	assert.Equal(t, int64(1), posts)
	assert.Zero(t, joins)
	assert.Zero(t, tags)
	assert.Equal(t, http.StatusOK, doGet(r, fmt.Sprintf("/posts/%d", post.ID)).Code)
}

func TestHomeShowsFiveNewestPosts(t *testing.T) {
	r, db := setupTest(t)
	createUser(t, r, "Ada", "Lovelace")
	user := lastUser(t, db)

	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 7; i++ {
		post := models.Post{
			UserID:    user.ID,
			Title:     fmt.Sprintf("post-%d", i),
			Content:   "body",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.Create(&post).Error)
	}

	body := doGet(r, "/").Body.String()
	assert.NotContains(t, body, "post-1")
	assert.NotContains(t, body, "post-2")

	prev := -1
	for i := 7; i >= 3; i-- {
		pos := strings.Index(body, fmt.Sprintf("post-%d", i))
		require.GreaterOrEqual(t, pos, 0, "post-%d missing", i)
		assert.Greater(t, pos, prev, "post-%d out of order", i)
		prev = pos
	}
}

func TestFlashShownExactlyOnce(t *testing.T) {
	r, _ := setupTest(t)

	w := createUser(t, r, "Ada", "Lovelace")
	res := w.Result()
	require.NotEmpty(t, res.Cookies(), "mutation must mint a session cookie")
	session := res.Cookies()[0]

	first := doGet(r, "/users", session)
	assert.Contains(t, first.Body.String(), "User &#39;Ada Lovelace&#39; added.")

	second := doGet(r, "/users", session)
	assert.NotContains(t, second.Body.String(), "added.")
}

func TestHealthAndNoRoute(t *testing.T) {
	r, _ := setupTest(t)
	assert.Equal(t, http.StatusOK, doGet(r, "/health").Code)
	assert.Equal(t, http.StatusNotFound, doGet(r, "/nowhere").Code)
}
