package rest

import (
	"fmt"
	"net/http"

	"github.com/gamestaff/itemadmin/safecoords"
	"github.com/gin-gonic/gin"
)

// SafeCoordsHandler edits the named teleport points. Routes must be admin-only.
type SafeCoordsHandler struct {
	store  *safecoords.Store
	render *Renderer
}

// NewSafeCoordsHandler creates a SafeCoordsHandler.
func NewSafeCoordsHandler(store *safecoords.Store, render *Renderer) *SafeCoordsHandler {
	return &SafeCoordsHandler{store: store, render: render}
}

// List handles GET /safecoords.
func (h *SafeCoordsHandler) List(c *gin.Context) {
	h.page(c, http.StatusOK, nil)
}

// Get handles GET /safecoords/:name and returns one entry as JSON.
func (h *SafeCoordsHandler) Get(c *gin.Context) {
	name := c.Param("name")
	value, err := h.store.Get(name)
	if err != nil {
		h.render.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, safecoords.Entry{Name: name, Value: value})
}

// Post handles POST /safecoords.
// Form: action (add | update | delete), name, value.
func (h *SafeCoordsHandler) Post(c *gin.Context) {
	name, value := c.PostForm("name"), c.PostForm("value")
	var err error
	switch action := c.PostForm("action"); action {
	case "add":
		err = h.store.Add(name, value)
	case "update":
		err = h.store.Update(name, value)
	case "delete":
		err = h.store.Delete(name)
	default:
		err = fmt.Errorf("%w: unknown action %q", safecoords.ErrInvalidInput, action)
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

func (h *SafeCoordsHandler) page(c *gin.Context, status int, formErr error) {
	entries, err := h.store.List()
	if err != nil {
		h.render.Fail(c, err)
		return
	}
	data := gin.H{"Coords": entries}
	jsonData := gin.H{"success": formErr == nil, "coords": entries}
	if formErr != nil {
		data["Error"] = formErr.Error()
		jsonData["message"] = formErr.Error()
	}
	h.render.Form(c, status, "safecoords.html", data, jsonData)
}
