package rest

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gamestaff/itemadmin/browser"
	"github.com/gamestaff/itemadmin/icons"
	"github.com/gamestaff/itemadmin/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ItemHandler serves the item grid and the edits made from it.
type ItemHandler struct {
	browser *browser.Browser
	icons   *icons.Store
	render  *Renderer
}

// NewItemHandler creates an ItemHandler.
func NewItemHandler(b *browser.Browser, store *icons.Store, render *Renderer) *ItemHandler {
	return &ItemHandler{browser: b, icons: store, render: render}
}

type itemView struct {
	model.ItemRow
	HasIcon bool `json:"has_icon"`
}

// Index handles GET /.
// Query: search, page (1-based), filter=missing.
func (h *ItemHandler) Index(c *gin.Context) {
	q := browser.Query{
		Search:      c.Query("search"),
		Page:        browser.ParsePage(c.Query("page")),
		MissingOnly: c.Query("filter") == "missing",
	}
	res, err := h.browser.Browse(c.Request.Context(), q)
	if err != nil {
		h.render.Fail(c, err)
		return
	}

	items := make([]itemView, len(res.Rows))
	for i, row := range res.Rows {
		_, ok := res.Icons[row.Image]
		items[i] = itemView{ItemRow: row, HasIcon: row.Image != "" && ok}
	}

	h.render.Page(c, http.StatusOK, "index.html", gin.H{
		"Items":         items,
		"Search":        q.Search,
		"Page":          res.Page,
		"PrevPage":      res.Page - 1,
		"NextPage":      res.Page + 1,
		"HasNext":       res.HasNext,
		"FilterMissing": q.MissingOnly,
		"Framework":     h.browser.Strategy().Name(),
		"DescEditable":  h.browser.DescEditable(),
		"Error":         c.Query("error"),
	}, gin.H{
		"items":     items,
		"total":     res.Total,
		"page":      res.Page,
		"has_next":  res.HasNext,
		"framework": h.browser.Strategy().Name(),
	})
}

// Update handles POST /update/:item.
// Form: label, weight, desc. Always answers with {success, message}; a
// desc the table cannot hold is reported in message.
func (h *ItemHandler) Update(c *gin.Context) {
	desc := strings.TrimSpace(c.PostForm("desc"))
	err := h.browser.UpdateMeta(c.Request.Context(),
		c.Param("item"), c.PostForm("label"), c.PostForm("weight"), desc)
	switch {
	case err == nil && desc != "" && !h.browser.DescEditable():
		c.JSON(http.StatusOK, gin.H{"success": true, "message": h.render.T.DescNotStored})
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case errors.Is(err, browser.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": h.render.T.InvalidWeight})
	default:
		h.render.Fail(c, err)
	}
}

// AddItem handles POST /add-item.
// Form: item, label, weight, desc.
func (h *ItemHandler) AddItem(c *gin.Context) {
	key := c.PostForm("item")
	err := h.browser.AddItem(c.Request.Context(), key, c.PostForm("label"), c.PostForm("weight"), c.PostForm("desc"))
	if err != nil {
		if IsUserError(err) {
			h.render.Redirect(c, statusFor(err), "/?error="+url.QueryEscape(err.Error()),
				gin.H{"success": false, "message": err.Error()})
			return
		}
		h.render.Fail(c, err)
		return
	}
	h.render.Redirect(c, http.StatusCreated, "/?search="+url.QueryEscape(key),
		gin.H{"success": true, "item": key})
}

// Upload handles POST /upload/:item.
// Multipart field "icon"; the image is stored as <item>.png in every
// upload directory.
func (h *ItemHandler) Upload(c *gin.Context) {
	key := c.Param("item")
	fh, err := c.FormFile("icon")
	if err != nil {
		h.render.Fail(c, errors.Join(browser.ErrInvalidInput, err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.render.Fail(c, err)
		return
	}
	defer f.Close()

	filename, err := h.icons.Save(key, f)
	if err != nil {
		h.render.Fail(c, err)
		return
	}
	if err := h.browser.SetImage(c.Request.Context(), key, filename); err != nil {
		if !errors.Is(err, browser.ErrNotFound) {
			h.render.Fail(c, err)
			return
		}
		// The files are written either way; a missing row only means
		// there is nothing to point at them yet.
		h.render.Logger.Warn("icon uploaded for unknown item", zap.String("item", key))
	}

	back := "/"
	if ref := c.Request.Referer(); ref != "" {
		if u, err := url.Parse(ref); err == nil && u.Host == c.Request.Host {
			back = u.RequestURI()
		}
	}
	h.render.Redirect(c, http.StatusOK, back, gin.H{"success": true, "filename": filename})
}

// Image handles GET /image/:filename.
func (h *ItemHandler) Image(c *gin.Context) {
	path, err := h.icons.Find(c.Param("filename"))
	if err != nil {
		if errors.Is(err, icons.ErrNotFound) || errors.Is(err, icons.ErrInvalidName) {
			c.Status(http.StatusNotFound)
			return
		}
		h.render.Fail(c, err)
		return
	}
	c.File(path)
}
