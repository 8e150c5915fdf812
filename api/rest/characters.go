package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gamestaff/itemadmin/character"
	"github.com/gin-gonic/gin"
)

// CharacterHandler edits player characters. Only mounted for VORP.
type CharacterHandler struct {
	editor *character.Editor
	render *Renderer
}

// NewCharacterHandler creates a CharacterHandler.
func NewCharacterHandler(editor *character.Editor, render *Renderer) *CharacterHandler {
	return &CharacterHandler{editor: editor, render: render}
}

// List handles GET /characters.
// Query: search.
func (h *CharacterHandler) List(c *gin.Context) {
	h.page(c, http.StatusOK, nil)
}

// Update handles POST /characters/update/:id.
// Form: identifier, health, dead, coords.
func (h *CharacterHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.render.Fail(c, fmt.Errorf("%w: invalid id", character.ErrNotFound))
		return
	}
	err = h.editor.Update(c.Request.Context(), character.UpdateRequest{
		ID:         id,
		Identifier: c.PostForm("identifier"),
		Health:     c.PostForm("health"),
		Dead:       formBool(c.PostForm("dead")),
		Coords:     c.PostForm("coords"),
	})
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

func (h *CharacterHandler) page(c *gin.Context, status int, formErr error) {
	search := c.Query("search")
	rows, err := h.editor.List(c.Request.Context(), search)
	if err != nil {
		h.render.Fail(c, err)
		return
	}
	data := gin.H{"Characters": rows, "Search": search}
	jsonData := gin.H{"success": formErr == nil, "characters": rows}
	if formErr != nil {
		data["Error"] = formErr.Error()
		jsonData["message"] = formErr.Error()
	}
	h.render.Form(c, status, "characters.html", data, jsonData)
}

// formBool accepts the values browsers and scripts send for a checkbox.
func formBool(v string) bool {
	switch v {
	case "1", "on", "true", "yes":
		return true
	}
	return false
}
