package rest_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/gamestaff/itemadmin/api/rest"
	"github.com/gamestaff/itemadmin/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type charsResp struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Characters []struct {
		ID     int64  `json:"id"`
		Health int    `json:"health"`
		Dead   bool   `json:"dead"`
		Coords string `json:"coords"`
	} `json:"characters"`
}

func charactersEnv(t *testing.T) *env {
	t.Helper()
	e := newEnv(t, options{features: rest.Features{Characters: true}})
	require.NoError(t, e.db.Table("characters").Create(&model.Character{
		CharIdentifier: 1, Identifier: "steam:1", FirstName: "Arthur", LastName: "Morgan", Health: 500,
		Coords: datatypes.JSON(`{"x":1,"y":2,"z":3,"heading":4}`),
	}).Error)
	return e
}

func TestCharacters_Disabled(t *testing.T) {
	e := newEnv(t, options{framework: "esx"})
	token := e.login(t, "admin")
	assert.Equal(t, http.StatusForbidden, e.get("/characters", token).Code)
	assert.Equal(t, http.StatusForbidden, e.postForm("/characters/update/1", token, url.Values{}).Code)
}

func TestCharacters_List(t *testing.T) {
	e := charactersEnv(t)
	w := e.get("/characters", e.login(t, "karel"))
	require.Equal(t, http.StatusOK, w.Code)

	var resp charsResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Characters, 1)
	assert.Equal(t, "vector3(1, 2, 3), 4", resp.Characters[0].Coords)
}

func TestCharacters_Update(t *testing.T) {
	e := charactersEnv(t)
	token := e.login(t, "karel")

	w := e.postForm("/characters/update/1", token, url.Values{
		"identifier": {"steam:1"}, "health": {"120"}, "dead": {"on"},
		"coords": {"vector3(-278.5, 804.1, 119.3), 89.0"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp charsResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Characters, 1)
	assert.Equal(t, 120, resp.Characters[0].Health)
	assert.True(t, resp.Characters[0].Dead)
	assert.Equal(t, "vector3(-278.5, 804.1, 119.3), 89", resp.Characters[0].Coords)
}

func TestCharacters_UpdateRejects(t *testing.T) {
	e := charactersEnv(t)
	token := e.login(t, "karel")

	w := e.postForm("/characters/update/1", token, url.Values{
		"identifier": {"x"}, "health": {"120"}, "coords": {"vector3(1, 2), 3"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.postForm("/characters/update/1", token, url.Values{
		"identifier": {"x"}, "health": {"120"}, "coords": {"vector3(NaN, 1, 2), Inf"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not a finite number")

	w = e.postForm("/characters/update/1", token, url.Values{
		"identifier": {"x"}, "health": {"a lot"}, "coords": {"vector3(1, 2, 3), 4"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.postForm("/characters/update/99", token, url.Values{
		"identifier": {"x"}, "health": {"1"}, "coords": {"vector3(1, 2, 3), 4"},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var got model.Character
	require.NoError(t, e.db.Table("characters").First(&got, 1).Error)
	assert.Equal(t, "steam:1", got.Identifier)
	assert.Equal(t, 500, got.Health)
}
