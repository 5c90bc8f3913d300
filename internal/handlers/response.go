package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sportsbook/internal/apperr"
	"sportsbook/internal/auth"
	"sportsbook/internal/repository"
)

// respondError writes the failure envelope for err. Internal causes are
// logged here and never reach the client.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := apperr.HTTPStatus(apperr.CodeOf(err))
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	c.JSON(status, gin.H{
		"success": false,
		"message": apperr.PublicMessage(err),
		"code":    apperr.CodeOf(err),
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": message,
		"code":    apperr.CodeValidation,
	})
}

// currentUser returns the authenticated user id, answering 401 when absent.
func currentUser(c *gin.Context) (uint, bool) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "User not authenticated",
		})
		return 0, false
	}
	return userID, true
}

// paramID parses the :name path parameter, answering 400 when malformed.
func paramID(c *gin.Context, name, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		badRequest(c, "Invalid "+what+" ID")
		return 0, false
	}
	return uint(id), true
}

// pageQuery reads ?page= and ?limit=. Bad values fall back to the defaults.
func pageQuery(c *gin.Context) repository.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return repository.Page{Page: page, Limit: limit}.Normalize()
}

func listResponse(key, message string, items interface{}, total int64, page repository.Page) gin.H {
	return gin.H{
		"success": true,
		"message": message,
		key:       items,
		"pagination": gin.H{
			"page":  page.Page,
			"limit": page.Limit,
			"total": total,
			"pages": (total + int64(page.Limit) - 1) / int64(page.Limit),
		},
	}
}
