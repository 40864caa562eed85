package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableAny(t *testing.T) {
	assert.True(t, Nil().IsNil())
	assert.True(t, AnyOf(nil).IsNil())

	v := AnyOf("!")
	assert.False(t, v.IsNil())
	assert.Equal(t, "!", v.Value)

	v.Set(nil)
	assert.True(t, v.IsNil())
	v.Set(140)
	assert.False(t, v.IsNil())
}

func TestNullableAny_JSON(t *testing.T) {
	j, err := json.Marshal(AnyOf([]any{"!"}))
	require.NoError(t, err)
	assert.JSONEq(t, `["!"]`, string(j))

	j, err = json.Marshal(Nil())
	require.NoError(t, err)
	assert.Equal(t, "null", string(j))

	var v NullableAny
	require.NoError(t, json.Unmarshal([]byte("null"), &v))
	assert.True(t, v.IsNil())
	require.NoError(t, json.Unmarshal([]byte(`140`), &v))
	assert.False(t, v.IsNil())
	assert.EqualValues(t, 140, v.Value)
}
