package hclspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/dataspec/hint"
)

const weatherSchema = `
spec "temp" {
  type = "list(float)"
  tags = ["meas:data"]
  unit = "K"
  data = 20.5

  spec "0" {
    type = "float"
    tags = ["meas:dtype"]
  }
}

spec "station" {
  name = "Station"

  spec "lon" {
    type = "float"
    tags = ["attrs:lon"]
  }

  spec "ids" {
    type = "list(int)"
    data = [1, 2]
  }
}
`

func TestLoad(t *testing.T) {
	typ, err := Load("weather.hcl", []byte(weatherSchema))
	require.NoError(t, err)

	root, ok := typ.(hint.Struct)
	require.True(t, ok)
	require.Len(t, root.Fields, 2)

	temp := root.Fields[0]
	assert.Equal(t, "temp", temp.Name)
	assert.Equal(t, 20.5, temp.Data)

	// the nested "0" block grafts onto the list's element position
	list, ok := hint.Bare(temp.Type).(hint.List)
	require.True(t, ok)
	assert.True(t, hint.Equal(hint.Bare(list.Elem), hint.Float))
	assert.Equal(t, []hint.Tag{"meas:dtype"}, hint.Tags(list.Elem))

	// the element tag stays on the element, not on the list node
	assert.Equal(t, []hint.Tag{"meas:data"}, hint.Tags(temp.Type))

	station := root.Fields[1]
	assert.Equal(t, "station", station.Name)
	nested, ok := hint.Bare(station.Type).(hint.Struct)
	require.True(t, ok)
	assert.Equal(t, "station", nested.Name)
	require.Len(t, nested.Fields, 2)
	assert.Equal(t, "lon", nested.Fields[0].Name)
	assert.Equal(t, []hint.Tag{"attrs:lon"}, hint.Tags(nested.Fields[0].Type))

	// list data decodes to native Go values
	assert.Equal(t, []any{int64(1), int64(2)}, nested.Fields[1].Data)
}

func TestLoadDefaultsToAny(t *testing.T) {
	typ, err := Load("x.hcl", []byte(`spec "misc" {}`))
	require.NoError(t, err)

	root := typ.(hint.Struct)
	require.Len(t, root.Fields, 1)
	assert.True(t, hint.Equal(root.Fields[0].Type, hint.Any))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("x.hcl", []byte(`spec "a" {`))
	assert.Error(t, err)

	_, err = Load("x.hcl", []byte(`spec "a" { type = "rocket" }`))
	assert.ErrorContains(t, err, "unknown type")

	_, err = Load("x.hcl", []byte(`spec "a" { type = 42 }`))
	assert.ErrorContains(t, err, "expected string")

	_, err = Load("x.hcl", []byte(`spec "a" { tags = "meas:data" }`))
	assert.ErrorContains(t, err, "expected list of strings")

	// unknown attributes are rejected by the schema
	_, err = Load("x.hcl", []byte(`spec "a" { shape = "round" }`))
	assert.Error(t, err)
}

func TestLoadGraftErrors(t *testing.T) {
	_, err := Load("x.hcl", []byte(`
spec "a" {
  type = "float"
  spec "0" { type = "int" }
}`))
	assert.ErrorContains(t, err, "takes no subtype blocks")

	_, err = Load("x.hcl", []byte(`
spec "a" {
  type = "list(float)"
  spec "elem" { type = "int" }
}`))
	assert.ErrorContains(t, err, `labeled "0"`)

	_, err = Load("x.hcl", []byte(`
spec "a" {
  type = "map(string, int)"
  spec "2" { type = "int" }
}`))
	assert.ErrorContains(t, err, `labeled "0" or "1"`)
}

func TestLoadMapGraft(t *testing.T) {
	typ, err := Load("x.hcl", []byte(`
spec "attrs" {
  type = "map(string, any)"
  spec "1" {
    type = "float"
    unit = "K"
  }
}`))
	require.NoError(t, err)

	root := typ.(hint.Struct)
	m, ok := hint.Bare(root.Fields[0].Type).(hint.Map)
	require.True(t, ok)
	assert.True(t, hint.Equal(m.Key, hint.String))
	assert.True(t, hint.Equal(hint.Bare(m.Value), hint.Float))
	assert.Len(t, hint.Annotations(m.Value), 1)
}

func TestParseTypeExpr(t *testing.T) {
	for expr, want := range map[string]hint.Type{
		"bool":              hint.Bool,
		"int":               hint.Int,
		"float":             hint.Float,
		"string":            hint.String,
		"any":               hint.Any,
		"list(float)":       hint.List{Elem: hint.Float},
		"map(string, int)":  hint.Map{Key: hint.String, Value: hint.Int},
		"union(int, float)": hint.Union{Arms: []hint.Type{hint.Int, hint.Float}},
		"list(map(string, list(int)))": hint.List{
			Elem: hint.Map{Key: hint.String, Value: hint.List{Elem: hint.Int}},
		},
		" list( float ) ": hint.List{Elem: hint.Float},
	} {
		got, err := ParseTypeExpr(expr)
		require.NoError(t, err, expr)
		assert.True(t, hint.Equal(got, want), expr)
	}
}

func TestParseTypeExprLiteral(t *testing.T) {
	got, err := ParseTypeExpr(`literal(0, 1.5, true, "hi")`)
	require.NoError(t, err)
	assert.Equal(t, hint.Literal{Values: []any{int64(0), 1.5, true, "hi"}}, got)
}

func TestParseTypeExprErrors(t *testing.T) {
	for _, expr := range []string{
		"rocket",
		"list(int",
		"list(int, string)",
		"map(string)",
		"union()",
		"literal()",
		"rocket(int)",
	} {
		_, err := ParseTypeExpr(expr)
		assert.Error(t, err, expr)
	}
}
