package rest_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	mw "github.com/gamestaff/itemadmin/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	e := newEnv(t, options{})
	w := e.get("/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestIndex_Unauthenticated_RedirectsBrowser(t *testing.T) {
	e := newEnv(t, options{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html")
	w := e.do(req, "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestIndex_Unauthenticated_JSON(t *testing.T) {
	e := newEnv(t, options{})
	w := e.get("/", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_JSON(t *testing.T) {
	e := newEnv(t, options{})

	w := e.postForm("/login", "", url.Values{"username": {"admin"}, "password": {"adminpw"}})
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "admin", resp["username"])
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)

	assert.Equal(t, http.StatusOK, e.get("/", token).Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	e := newEnv(t, options{})
	w := e.postForm("/login", "", url.Values{"username": {"admin"}, "password": {"nope"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.postForm("/login", "", url.Values{"username": {"ghost"}, "password": {"adminpw"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_FormSetsCookie(t *testing.T) {
	e := newEnv(t, options{})

	req := httptest.NewRequest(http.MethodPost, "/login",
		stringsReader(url.Values{"username": {"admin"}, "password": {"adminpw"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	w := e.do(req, "")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == mw.SessionCookie {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html")
	req.AddCookie(session)
	w = e.do(req, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Správa ikon itemů")
}

func TestLogin_FailedFormRerendersPage(t *testing.T) {
	e := newEnv(t, options{})

	req := httptest.NewRequest(http.MethodPost, "/login",
		stringsReader(url.Values{"username": {"admin"}, "password": {"bad"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	w := e.do(req, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Špatné přihlášení")
}

func TestLogout_RevokesSession(t *testing.T) {
	e := newEnv(t, options{})
	token := e.login(t, "admin")
	require.Equal(t, http.StatusOK, e.get("/", token).Code)

	w := e.get("/logout", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusUnauthorized, e.get("/", token).Code)
}

func TestAdminStatus(t *testing.T) {
	e := newEnv(t, options{})

	assert.Equal(t, http.StatusForbidden, e.get("/admin/status", e.login(t, "karel")).Code)

	w := e.get("/admin/status", e.login(t, "admin"))
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "vorp", resp["framework"])
	assert.Equal(t, "items", resp["table"])
	assert.EqualValues(t, 0, resp["icons"])
}
