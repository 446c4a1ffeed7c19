package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RenderPage writes an HTML view, draining pending flash messages into it.
func RenderPage(ctx *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Flashes"] = TakeFlashes(ctx)
	ctx.HTML(status, name, data)
}

// NotFound renders the generic 404 page.
func NotFound(ctx *gin.Context) {
	RenderPage(ctx, http.StatusNotFound, "not_found.html", gin.H{})
}

// RenderError renders the generic error page with the given status.
func RenderError(ctx *gin.Context, status int, message string) {
	RenderPage(ctx, status, "error.html", gin.H{
		"Status":  status,
		"Message": message,
	})
}

// Redirect issues a 303 See Other, the post-form redirect used everywhere.
func Redirect(ctx *gin.Context, location string) {
	ctx.Redirect(http.StatusSeeOther, location)
}
