package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_SortsKeys(t *testing.T) {
	b, err := Marshal(map[string]any{"c": 3, "a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2,"c":3}`, string(b))
}

func TestMarshal_RecursiveSorting(t *testing.T) {
	b, err := Marshal(map[string]any{
		"z": map[string]any{"y": "foo", "x": "bar"},
		"a": 1,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"z":{"x":"bar","y":"foo"}}`, string(b))
}

func TestMarshal_StructTagsRespected(t *testing.T) {
	type record struct {
		Second string `json:"second"`
		First  string `json:"first"`
	}
	b, err := Marshal(record{Second: "2", First: "1"})
	require.NoError(t, err)
	assert.Equal(t, `{"first":"1","second":"2"}`, string(b))
}

func TestHash_Stable(t *testing.T) {
	v := map[string]any{"answers": map[string]string{"q1": "a"}, "createdAt": int64(1700000000)}
	h1, err := Hash(v)
	require.NoError(t, err)
	h2, err := Hash(v)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}

func TestHashBytes_KnownVector(t *testing.T) {
	// SHA-256 of the empty input.
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		HashBytes(nil))
}
