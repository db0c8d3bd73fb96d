package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"loscarnales.mx/storefront/internal/http/flash"
	"loscarnales.mx/storefront/internal/http/middleware"
	"loscarnales.mx/storefront/internal/http/render"
	"loscarnales.mx/storefront/internal/http/validation"
	"loscarnales.mx/storefront/internal/modules/newsletter"
	"loscarnales.mx/storefront/internal/shared/apperr"
	"loscarnales.mx/storefront/pkg/view"
)

const newsletterAnchor = "/#newsletter"

type NewsletterHandler struct {
	Subscribers NewsletterSubscriber
	Flash       *flash.Codec
}

type newsletterForm struct {
	Email string `form:"email" binding:"required,email,max=255"`
}

// Subscribe handles POST /newsletter.
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var f newsletterForm
	if err := c.ShouldBind(&f); err != nil {
		fields := validation.FromBindError(err, &f)
		if middleware.WantsJSON(c) {
			middleware.Fail(c, apperr.InvalidErr("Revisa tu correo.", fields))
			return
		}
		msg := fields["email"]
		if msg == "" {
			msg = "Revisa tu correo."
		}
		render.RedirectWithFlash(c, h.Flash, newsletterAnchor, view.FlashError, msg)
		return
	}

	if err := h.Subscribers.Subscribe(c.Request.Context(), f.Email, "index"); err != nil {
		if errors.Is(err, newsletter.ErrInvalidEmail) {
			render.RedirectWithFlash(c, h.Flash, newsletterAnchor, view.FlashError, "Ingresa un correo electrónico válido.")
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	if middleware.WantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"subscribed": true})
		return
	}
	render.RedirectWithFlash(c, h.Flash, newsletterAnchor, view.FlashSuccess, "¡Gracias por unirte a la familia Carnal! 🌽")
}
