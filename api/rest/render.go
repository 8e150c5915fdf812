package rest

import (
	"errors"
	"net/http"

	"github.com/gamestaff/itemadmin/browser"
	"github.com/gamestaff/itemadmin/character"
	"github.com/gamestaff/itemadmin/framework"
	"github.com/gamestaff/itemadmin/i18n"
	"github.com/gamestaff/itemadmin/icons"
	mw "github.com/gamestaff/itemadmin/middleware"
	"github.com/gamestaff/itemadmin/safecoords"
	"github.com/gamestaff/itemadmin/users"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Features are the optional parts of the UI.
type Features struct {
	AddItem    bool `json:"add_item"`
	Characters bool `json:"characters"`
}

// Renderer answers a request with an HTML page or a JSON document,
// depending on what the client asked for.
type Renderer struct {
	T        i18n.Strings
	Features Features
	Logger   *zap.Logger
}

// NewRenderer creates a Renderer for the given UI language.
func NewRenderer(lang string, features Features, logger *zap.Logger) *Renderer {
	return &Renderer{T: i18n.Lookup(lang), Features: features, Logger: logger}
}

// Page writes the named template with data, or jsonData for API clients.
func (r *Renderer) Page(c *gin.Context, status int, name string, data gin.H, jsonData interface{}) {
	if mw.WantsJSON(c) {
		c.JSON(status, jsonData)
		return
	}
	if data == nil {
		data = gin.H{}
	}
	data["T"] = r.T
	data["Features"] = r.Features
	if s := mw.GetSession(c); s != nil {
		data["User"] = s.Username
		data["IsAdmin"] = s.IsAdmin()
	}
	c.HTML(status, name, data)
}

// Form re-renders a form page after a rejected submission. Browsers get
// 200 with the inline message; API clients get status.
func (r *Renderer) Form(c *gin.Context, status int, name string, data gin.H, jsonData interface{}) {
	if !mw.WantsJSON(c) {
		status = http.StatusOK
	}
	r.Page(c, status, name, data, jsonData)
}

// Redirect sends browsers to location after a successful form post and
// answers API clients with jsonData.
func (r *Renderer) Redirect(c *gin.Context, status int, location string, jsonData interface{}) {
	if mw.WantsJSON(c) {
		c.JSON(status, jsonData)
		return
	}
	c.Redirect(http.StatusSeeOther, location)
}

// Fail logs unexpected errors and answers with the mapped status.
func (r *Renderer) Fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		r.Logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("trace_id", mw.GetTraceID(c)),
			zap.Error(err))
		_ = c.Error(err)
	}
	if mw.WantsJSON(c) {
		c.JSON(status, gin.H{"success": false, "message": publicMessage(status, err)})
		return
	}
	c.String(status, publicMessage(status, err))
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, browser.ErrInvalidInput),
		errors.Is(err, framework.ErrInvalidWeight),
		errors.Is(err, icons.ErrUnsupportedImageFormat),
		errors.Is(err, icons.ErrInvalidName),
		errors.Is(err, users.ErrInvalidInput),
		errors.Is(err, safecoords.ErrInvalidInput),
		errors.Is(err, safecoords.ErrInvalidFormat),
		errors.Is(err, character.ErrInvalidCoordinateFormat),
		errors.Is(err, character.ErrInvalidHealth):
		return http.StatusBadRequest
	case errors.Is(err, browser.ErrAlreadyExists),
		errors.Is(err, users.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, users.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, browser.ErrNotFound),
		errors.Is(err, icons.ErrNotFound),
		errors.Is(err, users.ErrNotFound),
		errors.Is(err, safecoords.ErrNotFound),
		errors.Is(err, character.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// IsUserError reports whether err is caused by the submitted input and
// should be shown inline on the form.
func IsUserError(err error) bool {
	s := statusFor(err)
	return s >= 400 && s < 500
}

func publicMessage(status int, err error) string {
	if status == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}
