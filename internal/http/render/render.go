package render

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"

	"loscarnales.mx/storefront/internal/http/flash"
	"loscarnales.mx/storefront/internal/http/middleware"
	"loscarnales.mx/storefront/pkg/view"
	"loscarnales.mx/storefront/templates/pages"
)

// Component writes an HTML component with the given status.
func Component(c *gin.Context, status int, comp templ.Component) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := comp.Render(c.Request.Context(), c.Writer); err != nil {
		_ = c.Error(err)
	}
}

func RedirectWithFlash(c *gin.Context, codec *flash.Codec, location string, kind view.FlashKind, msg string) {
	middleware.SetFlashCookie(c, codec, view.Flash{Kind: kind, Message: msg})
	c.Redirect(http.StatusFound, location)
}

// ErrorPage is the middleware.ErrorPageFunc used by the storefront.
func ErrorPage(c *gin.Context, status int, msg, requestID string) {
	Component(c, status, pages.Error(view.ErrorPage{
		Header:    middleware.BuildHeaderCtx(c),
		Flash:     middleware.GetFlash(c),
		Status:    status,
		Title:     statusTitle(status),
		Message:   msg,
		RequestID: requestID,
	}))
}

func statusTitle(status int) string {
	switch status {
	case http.StatusNotFound:
		return "No encontrado"
	case http.StatusBadRequest:
		return "Solicitud no válida"
	case http.StatusConflict:
		return "Conflicto"
	case http.StatusUnauthorized, http.StatusForbidden:
		return "Acceso denegado"
	default:
		return "Algo salió mal"
	}
}
