package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Equal_TypedEquality(t *testing.T) {
	tests := []struct {
		name  string
		a     Value
		b     Value
		equal bool
	}{
		{
			name:  "same bool",
			a:     BoolValue(true),
			b:     BoolValue(true),
			equal: true,
		},
		{
			name:  "different bool",
			a:     BoolValue(true),
			b:     BoolValue(false),
			equal: false,
		},
		{
			name:  "int never equals float with same magnitude",
			a:     IntValue(1),
			b:     FloatValue(1.0),
			equal: false,
		},
		{
			name:  "int never equals its string form",
			a:     IntValue(25),
			b:     StringValue("25"),
			equal: false,
		},
		{
			name:  "bool never equals int",
			a:     BoolValue(true),
			b:     IntValue(1),
			equal: false,
		},
		{
			name:  "equal lists compare element-wise",
			a:     ListValue(StringValue("a"), IntValue(2)),
			b:     ListValue(StringValue("a"), IntValue(2)),
			equal: true,
		},
		{
			name:  "lists differ by length",
			a:     ListValue(StringValue("a")),
			b:     ListValue(StringValue("a"), StringValue("b")),
			equal: false,
		},
		{
			name:  "lists are ordered",
			a:     ListValue(StringValue("a"), StringValue("b")),
			b:     ListValue(StringValue("b"), StringValue("a")),
			equal: false,
		},
		{
			name:  "nested lists",
			a:     ListValue(ListValue(IntValue(1))),
			b:     ListValue(ListValue(IntValue(1))),
			equal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equal(tt.b))
			// equality is symmetric
			assert.Equal(t, tt.equal, tt.b.Equal(tt.a))
		})
	}
}

func TestFromInterface(t *testing.T) {
	v, err := FromInterface(true)
	require.NoError(t, err)
	assert.Equal(t, KindBool, v.Kind())
	assert.True(t, v.Bool())

	v, err = FromInterface(int64(42))
	require.NoError(t, err)
	assert.Equal(t, KindInt, v.Kind())
	assert.Equal(t, int64(42), v.Int())

	v, err = FromInterface(1.25)
	require.NoError(t, err)
	assert.Equal(t, KindFloat, v.Kind())
	assert.Equal(t, 1.25, v.Float())

	v, err = FromInterface("genie")
	require.NoError(t, err)
	assert.Equal(t, KindString, v.Kind())
	assert.Equal(t, "genie", v.Str())

	v, err = FromInterface([]interface{}{"a", int64(1)})
	require.NoError(t, err)
	assert.Equal(t, KindList, v.Kind())
	require.Len(t, v.List(), 2)
	assert.True(t, v.List()[0].Equal(StringValue("a")))
	assert.True(t, v.List()[1].Equal(IntValue(1)))

	_, err = FromInterface(map[string]interface{}{"nested": true})
	assert.Error(t, err)
}

func TestValue_JSON_PreservesKind(t *testing.T) {
	// The persisted form carries an explicit type tag so an integer
	// restored from a snapshot stays an integer.
	data, err := json.Marshal(IntValue(1))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"int","value":1}`, string(data))

	var restored Value
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, KindInt, restored.Kind())
	assert.True(t, restored.Equal(IntValue(1)))
	assert.False(t, restored.Equal(FloatValue(1.0)))
}

func TestValue_JSON_UnknownKind(t *testing.T) {
	var v Value
	err := json.Unmarshal([]byte(`{"type":"date","value":"2024-01-01"}`), &v)
	assert.Error(t, err)
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, "42", IntValue(42).String())
	assert.Equal(t, "1.5", FloatValue(1.5).String())
	assert.Equal(t, "hello", StringValue("hello").String())
	assert.Equal(t, "[a, 1]", ListValue(StringValue("a"), IntValue(1)).String())
}
