package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// ViewCollectionProducts handles GET /collections/:id/products by sending the
// shopper to the home page filtered to that collection.
func ViewCollectionProducts(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.Redirect(http.StatusFound, "/#productos")
		return
	}
	c.Redirect(http.StatusFound, "/?collection="+url.QueryEscape(id)+"#productos")
}
