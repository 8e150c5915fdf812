package rest

import (
	"fmt"
	"net/http"

	"github.com/gamestaff/itemadmin/users"
	"github.com/gin-gonic/gin"
)

// UserHandler manages staff accounts. Routes must be admin-only.
type UserHandler struct {
	users  *users.Store
	render *Renderer
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(u *users.Store, render *Renderer) *UserHandler {
	return &UserHandler{users: u, render: render}
}

// List handles GET /users.
func (h *UserHandler) List(c *gin.Context) {
	h.page(c, http.StatusOK, nil)
}

// Post handles POST /users.
// Form: action (add | delete | change), username, password, new_password.
func (h *UserHandler) Post(c *gin.Context) {
	username := c.PostForm("username")
	var err error
	switch action := c.PostForm("action"); action {
	case "add":
		err = h.users.Add(username, c.PostForm("password"))
	case "delete":
		err = h.users.Delete(username)
	case "change":
		err = h.users.ChangePassword(username, c.PostForm("new_password"))
	default:
		err = fmt.Errorf("%w: unknown action %q", users.ErrInvalidInput, action)
	}
	if err != nil && !IsUserError(err) {
		h.render.Fail(c, err)
		return
	}
	if err != nil {
		h.page(c, statusFor(err), err)
		return
	}
	h.page(c, http.StatusOK, nil)
}

func (h *UserHandler) page(c *gin.Context, status int, formErr error) {
	names, err := h.users.List()
	if err != nil {
		h.render.Fail(c, err)
		return
	}
	data := gin.H{"Users": names, "AdminUsername": users.AdminUsername}
	jsonData := gin.H{"success": formErr == nil, "users": names}
	if formErr != nil {
		data["Error"] = formErr.Error()
		jsonData["message"] = formErr.Error()
	}
	h.render.Form(c, status, "users.html", data, jsonData)
}
