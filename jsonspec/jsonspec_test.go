package jsonspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/dataspec/hint"
	"github.com/agentic-research/dataspec/spec"
)

func TestFromJSON(t *testing.T) {
	src := []byte(`{"b": 1, "a": [true, "x"], "c": 2.5}`)

	ss, err := FromJSON(src)
	require.NoError(t, err)

	// object keys sort for deterministic order
	assert.Equal(t, []spec.ID{
		spec.Root,
		spec.MustID("/a"), spec.MustID("/a/0"), spec.MustID("/a/1"),
		spec.MustID("/b"),
		spec.MustID("/c"),
	}, ss.IDs())

	root := ss[0]
	assert.True(t, hint.Equal(root.Type, hint.Map{Key: hint.String, Value: hint.Any}))

	arr := ss[1]
	assert.True(t, hint.Equal(arr.Type, hint.List{Elem: hint.Any}))
	assert.Equal(t, []any{true, "x"}, arr.Data)

	assert.True(t, hint.Equal(ss[2].Type, hint.Bool))
	assert.Equal(t, true, ss[2].Data)
	assert.True(t, hint.Equal(ss[3].Type, hint.String))
	assert.Equal(t, "x", ss[3].Data)
	assert.True(t, hint.Equal(ss[4].Type, hint.Int))
	assert.Equal(t, int64(1), ss[4].Data)
	assert.True(t, hint.Equal(ss[5].Type, hint.Float))
	assert.Equal(t, 2.5, ss[5].Data)

	// names default from the last segment
	assert.Equal(t, "a", ss[1].Name)
	assert.Equal(t, "0", ss[2].Name)
}

func TestFromJSONScalarDocument(t *testing.T) {
	ss, err := FromJSON([]byte(`42`))
	require.NoError(t, err)
	require.Len(t, ss, 1)
	assert.Equal(t, spec.Root, ss[0].ID)
	assert.Equal(t, int64(42), ss[0].Data)
}

func TestFromJSONInvalid(t *testing.T) {
	_, err := FromJSON([]byte(`{"a":`))
	assert.Error(t, err)
}

func TestQuery(t *testing.T) {
	src := []byte(`{"stations": [{"name": "tokyo", "lon": 139.69}, {"name": "osaka", "lon": 135.5}]}`)

	ss, err := Query(src, "$.stations[*].name")
	require.NoError(t, err)

	// each match roots at its position
	assert.Equal(t, []spec.ID{spec.MustID("/0"), spec.MustID("/1")}, ss.IDs())
	assert.ElementsMatch(t, []any{"tokyo", "osaka"}, []any{ss[0].Data, ss[1].Data})
}

func TestQueryObjectMatches(t *testing.T) {
	src := []byte(`{"stations": [{"lon": 139.69}]}`)

	ss, err := Query(src, "$.stations[0]")
	require.NoError(t, err)
	assert.Equal(t, []spec.ID{spec.MustID("/0"), spec.MustID("/0/lon")}, ss.IDs())
	assert.Equal(t, 139.69, ss[1].Data)
}

func TestQueryErrors(t *testing.T) {
	_, err := Query([]byte(`{"a":`), "$.a")
	assert.Error(t, err)

	_, err = Query([]byte(`{}`), "$[")
	assert.Error(t, err)
}
