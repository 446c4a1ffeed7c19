package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/EricaRose1/Blogly/utils"
)

// parseID reads the :id path parameter. A non-numeric id renders the 404
// page and returns false.
func parseID(ctx *gin.Context) (uint, bool) {
	raw := ctx.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		utils.NotFound(ctx)
		return 0, false
	}
	return uint(id), true
}
