package rest

import (
	mw "github.com/gamestaff/itemadmin/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups every handler mounted by Register.
type Handlers struct {
	Auth       *AuthHandler
	Items      *ItemHandler
	Users      *UserHandler
	SafeCoords *SafeCoordsHandler
	Characters *CharacterHandler
	Admin      *AdminHandler
}

// Register mounts the admin UI on r. requireLogin guards everything except
// the login page, logout and the health check.
func Register(r gin.IRouter, h Handlers, features Features, requireLogin gin.HandlerFunc) {
	r.GET("/health", h.Admin.Health)
	r.GET("/login", h.Auth.LoginPage)
	r.POST("/login", h.Auth.Login)
	r.GET("/logout", h.Auth.Logout)

	authed := r.Group("/", requireLogin)
	authed.GET("/", h.Items.Index)
	authed.GET("/image/:filename", h.Items.Image)
	authed.POST("/upload/:item", h.Items.Upload)
	authed.POST("/update/:item", h.Items.Update)
	authed.POST("/add-item", mw.RequireFeature(features.AddItem), h.Items.AddItem)

	chars := authed.Group("/characters", mw.RequireFeature(features.Characters))
	chars.GET("", h.Characters.List)
	chars.POST("/update/:id", h.Characters.Update)

	admin := authed.Group("/", mw.RequireAdmin())
	admin.GET("/users", h.Users.List)
	admin.POST("/users", h.Users.Post)
	admin.GET("/safecoords", h.SafeCoords.List)
	admin.GET("/safecoords/:name", h.SafeCoords.Get)
	admin.POST("/safecoords", h.SafeCoords.Post)
	admin.GET("/admin/status", h.Admin.Status)
}
