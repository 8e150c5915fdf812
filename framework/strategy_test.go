package framework_test

import (
	"testing"

	"github.com/gamestaff/itemadmin/framework"
	"github.com/gamestaff/itemadmin/model"
	"github.com/gamestaff/itemadmin/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SelectsStrategy(t *testing.T) {
	v, err := framework.New("vorp", "items", "asc")
	require.NoError(t, err)
	assert.Equal(t, "vorp", v.Name())
	assert.Equal(t, "item", v.KeyColumn())
	assert.Equal(t, "item ASC", v.OrderClause())
	assert.True(t, v.PersistsImage())
	assert.True(t, v.SupportsCharacters())

	e, err := framework.New("ESX", "items", "desc")
	require.NoError(t, err)
	assert.Equal(t, "esx", e.Name())
	assert.Equal(t, "name", e.KeyColumn())
	assert.Equal(t, "name DESC", e.OrderClause())
	assert.False(t, e.PersistsImage())
	assert.False(t, e.SupportsCharacters())
}

func TestNew_Rejects(t *testing.T) {
	_, err := framework.New("qbcore", "items", "asc")
	assert.Error(t, err)

	_, err = framework.New("vorp", "items; DROP TABLE items", "asc")
	assert.Error(t, err)

	_, err = framework.New("vorp", "items", "random")
	assert.Error(t, err)
}

func TestParseWeight(t *testing.T) {
	v, _ := framework.New("vorp", "items", "asc")
	w, err := v.ParseWeight("0,5")
	require.NoError(t, err)
	assert.Equal(t, 0.5, w)

	w, err = v.ParseWeight(" 1.25 ")
	require.NoError(t, err)
	assert.Equal(t, 1.25, w)

	_, err = v.ParseWeight("heavy")
	assert.ErrorIs(t, err, framework.ErrInvalidWeight)

	e, _ := framework.New("esx", "items", "asc")
	w, err = e.ParseWeight("3")
	require.NoError(t, err)
	assert.Equal(t, 3.0, w)

	_, err = e.ParseWeight("0,5")
	assert.ErrorIs(t, err, framework.ErrInvalidWeight)
}

func TestVorp_SearchAndFetch(t *testing.T) {
	v, _ := framework.New("vorp", "items", "asc")
	db := testutil.SetupTestDB(t, v.ItemTable())

	require.NoError(t, db.Table("items").Create(&[]model.VorpItem{
		{Item: "bandage", Label: "Bandage", Weight: 0.1, Image: testutil.Ptr("bandage.png")},
		{Item: "water", Label: "Water Bottle", Weight: 0.5},
		{Item: "apple", Label: "Apple", Weight: 0.2},
	}).Error)

	rows, err := v.Fetch(v.Search(db, "a").Order(v.OrderClause()))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "apple", rows[0].Item)
	assert.Equal(t, "bandage", rows[1].Item)
	assert.Equal(t, "bandage.png", rows[1].Image)
	assert.Equal(t, "", rows[2].Image)

	// Case-sensitive: "Water" matches the label only with the capital W.
	rows, err = v.Fetch(v.Search(db, "Water"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "water", rows[0].Item)

	rows, err = v.Fetch(v.Search(db, "WATER"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestESX_FetchAndShape(t *testing.T) {
	e, _ := framework.New("esx", "items", "asc")
	db := testutil.SetupTestDB(t, e.ItemTable())

	require.NoError(t, db.Table("items").Create(&[]model.ESXItem{
		{Name: "bread", Label: "Bread", Weight: 1},
		{Name: "phone", Label: "Phone", Weight: 2},
	}).Error)

	rows, err := e.Fetch(e.Search(db, "").Order(e.OrderClause()))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "bread", rows[0].Item)
	assert.Equal(t, 1.0, rows[0].Weight)
	assert.Equal(t, "", rows[0].Image)

	e.Shape(rows)
	assert.Equal(t, "bread.png", rows[0].Image)
	assert.Equal(t, "phone.png", rows[1].Image)
}
