package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVendorRefUnmarshalString(t *testing.T) {
	var ref VendorRef
	require.NoError(t, json.Unmarshal([]byte(`"v1"`), &ref))
	assert.Equal(t, "v1", ref.ID)
	assert.Empty(t, ref.Name)
}

func TestVendorRefUnmarshalObject(t *testing.T) {
	var ref VendorRef
	require.NoError(t, json.Unmarshal([]byte(`{"id":"v1","name":"Alpha Cards"}`), &ref))
	assert.Equal(t, "v1", ref.ID)
	assert.Equal(t, "Alpha Cards", ref.Name)
}

func TestVendorRefObjectMissingID(t *testing.T) {
	var ref VendorRef
	err := json.Unmarshal([]byte(`{"name":"Alpha Cards"}`), &ref)
	assert.Error(t, err)
}

func TestVendorRefRejectsOtherShapes(t *testing.T) {
	var ref VendorRef
	assert.Error(t, json.Unmarshal([]byte(`42`), &ref))
	assert.Error(t, json.Unmarshal([]byte(`["v1"]`), &ref))
}

func TestVendorRefMarshalObjectForm(t *testing.T) {
	out, err := json.Marshal(VendorRef{ID: "v1", Name: "Alpha Cards"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"v1","name":"Alpha Cards"}`, string(out))
}

func TestCategoryRefUnmarshalString(t *testing.T) {
	var ref CategoryRef
	require.NoError(t, json.Unmarshal([]byte(`"Trading Cards"`), &ref))
	assert.Equal(t, "Trading Cards", ref.Name)
	assert.Empty(t, ref.Slug)
}

func TestCategoryRefUnmarshalObject(t *testing.T) {
	var ref CategoryRef
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Trading Cards","slug":"trading-cards"}`), &ref))
	assert.Equal(t, "Trading Cards", ref.Name)
	assert.Equal(t, "trading-cards", ref.Slug)
}

func TestCategoryRefObjectMissingName(t *testing.T) {
	var ref CategoryRef
	assert.Error(t, json.Unmarshal([]byte(`{"slug":"trading-cards"}`), &ref))
}

func TestRefsBothShapesYieldSameKey(t *testing.T) {
	var scalar, object CategoryRef
	require.NoError(t, json.Unmarshal([]byte(`"Comics"`), &scalar))
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Comics"}`), &object))
	assert.Equal(t, scalar.Name, object.Name)
}
