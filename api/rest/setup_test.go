package rest_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gamestaff/itemadmin/api/rest"
	"github.com/gamestaff/itemadmin/browser"
	"github.com/gamestaff/itemadmin/cache"
	"github.com/gamestaff/itemadmin/character"
	"github.com/gamestaff/itemadmin/config"
	"github.com/gamestaff/itemadmin/framework"
	"github.com/gamestaff/itemadmin/icons"
	mw "github.com/gamestaff/itemadmin/middleware"
	"github.com/gamestaff/itemadmin/model"
	"github.com/gamestaff/itemadmin/safecoords"
	"github.com/gamestaff/itemadmin/scheduler"
	"github.com/gamestaff/itemadmin/testutil"
	"github.com/gamestaff/itemadmin/users"
	"github.com/gamestaff/itemadmin/web"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type options struct {
	framework string
	features  rest.Features
}

type env struct {
	r        *gin.Engine
	db       *gorm.DB
	cache    cache.Cache
	sec      config.SecurityConfig
	users    *users.Store
	coords   *safecoords.Store
	iconDirs []string
}

func newEnv(t *testing.T, opts options) *env {
	t.Helper()
	if opts.framework == "" {
		opts.framework = framework.NameVorp
	}
	logger, _ := zap.NewDevelopment()

	strategy, err := framework.New(opts.framework, "items", "asc")
	require.NoError(t, err)
	db := testutil.SetupTestDB(t, strategy.ItemTable())
	editor, err := character.New(db, "characters")
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db, editor.Table()))

	tmp := t.TempDir()
	dirs := []string{filepath.Join(tmp, "main"), filepath.Join(tmp, "web")}
	store := icons.NewStore(dirs)
	b := browser.New(db, strategy, store)

	u, err := users.Open(filepath.Join(tmp, "users.json"), "adminpw", nil, users.WithCost(bcrypt.MinCost))
	require.NoError(t, err)
	coords, err := safecoords.Open(filepath.Join(tmp, "safecoords.json"))
	require.NoError(t, err)

	c := testutil.SetupTestCache(t)
	sec := config.SecurityConfig{Secret: "test-secret", SessionTTL: time.Hour}
	sched := scheduler.New(logger)
	t.Cleanup(sched.Stop)

	render := rest.NewRenderer("cs", opts.features, logger)
	tmpl, err := web.Templates()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(mw.TraceID(), mw.Recovery(logger))
	rest.Register(r, rest.Handlers{
		Auth:       rest.NewAuthHandler(u, c, sec, render),
		Items:      rest.NewItemHandler(b, store, render),
		Users:      rest.NewUserHandler(u, render),
		SafeCoords: rest.NewSafeCoordsHandler(coords, render),
		Characters: rest.NewCharacterHandler(editor, render),
		Admin:      rest.NewAdminHandler(db, b, store, sched),
	}, opts.features, mw.RequireLogin(sec, c))

	return &env{r: r, db: db, cache: c, sec: sec, users: u, coords: coords, iconDirs: dirs}
}

// login registers a session for username directly in the registry.
func (e *env) login(t *testing.T, username string) string {
	t.Helper()
	s, err := mw.IssueSession(context.Background(), e.sec, e.cache, username)
	require.NoError(t, err)
	return s.Token
}

func (e *env) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func (e *env) get(path, token string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil), token)
}

func (e *env) postForm(path, token string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req, token)
}

func (e *env) upload(t *testing.T, path, token string, file []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mp := multipart.NewWriter(&body)
	fw, err := mp.CreateFormFile("icon", "icon.png")
	require.NoError(t, err)
	_, err = io.Copy(fw, bytes.NewReader(file))
	require.NoError(t, err)
	require.NoError(t, mp.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mp.FormDataContentType())
	return e.do(req, token)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func stringsReader(s string) io.Reader { return strings.NewReader(s) }

func featuresAddItem() rest.Features { return rest.Features{AddItem: true} }

func formRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}
