package tests

import (
	"testing"

	"github.com/ohler55/ojg/oj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/dataspec/extras"
	"github.com/agentic-research/dataspec/hclspec"
	"github.com/agentic-research/dataspec/hint"
	"github.com/agentic-research/dataspec/jsonspec"
	"github.com/agentic-research/dataspec/spec"
	"github.com/agentic-research/dataspec/walk"
)

const weatherSchema = `
spec "temp" {
  type = "list(float)"
  tags = ["meas:data"]
  unit = "K"

  spec "0" {
    type = "float"
    tags = ["meas:dtype"]
  }
}

spec "hum" {
  type = "list(float)"
  tags = ["meas:data"]
  unit = "%"
}

spec "lon" {
  type = "float"
  tags = ["attrs:lon"]
  name = "Longitude"
}
`

const weatherDocument = `{"temp": [20.0, 25.0], "hum": [50.0], "lon": 139.69}`

// TestSchemaToSpecs drives the full pipeline: HCL schema to hint tree, JSON
// document as runtime data, hint walk to specs, index-based selection.
func TestSchemaToSpecs(t *testing.T) {
	typ, err := hclspec.Load("weather.hcl", []byte(weatherSchema))
	require.NoError(t, err)

	data, err := oj.ParseString(weatherDocument)
	require.NoError(t, err)

	ss, err := walk.New().FromHint(typ, spec.Root, data)
	require.NoError(t, err)

	assert.Equal(t, []spec.ID{
		spec.Root,
		spec.MustID("/temp"), spec.MustID("/temp/0"),
		spec.MustID("/hum"), spec.MustID("/hum/0"),
		spec.MustID("/lon"),
	}, ss.IDs())

	temp, err := ss.Select(spec.ByPattern("/temp"))
	require.NoError(t, err)
	require.NotNil(t, temp.Unique())
	assert.Equal(t, "K", temp.Unique().Unit)
	assert.Equal(t, []any{20.0, 25.0}, temp.Unique().Data)
	assert.True(t, hint.Equal(temp.Unique().Type, hint.List{Elem: hint.Float}))

	elem, err := ss.Select(spec.ByTag("meas:dtype"))
	require.NoError(t, err)
	assert.Equal(t, []spec.ID{spec.MustID("/temp/0")}, elem.IDs())

	lon, err := ss.Select(spec.ByTag("attrs:lon"))
	require.NoError(t, err)
	require.NotNil(t, lon.Unique())
	assert.Equal(t, "Longitude", lon.Unique().Name)
	assert.Equal(t, 139.69, lon.Unique().Data)

	// set-based selection agrees with the linear one
	ix := spec.NewIndex(ss)
	assert.Equal(t, 2, ix.Tag("meas:data").Len())
	assert.Equal(t, 3, ix.Category("meas").Len())
	both := ix.Category("meas").And(ix.Tag("meas:dtype"))
	assert.Equal(t, []spec.ID{spec.MustID("/temp/0")}, both.Specs().IDs())
}

type sensor struct {
	Temp  []float64 `spec:"temp,tag=meas:data,unit=K"`
	Label string    `spec:"label"`
}

func (s sensor) SpecAnnotations() map[string][]any {
	return map[string][]any{
		"Temp": {
			hint.List{Elem: hint.Tagged(hint.Float, "meas:dtype")},
			extras.Name{Value: "Temperature"},
			extras.NewFormat("/label"),
		},
	}
}

// TestStructToSpecs walks a reflected struct carrying directive annotations
// and runs the extras transforms over the result.
func TestStructToSpecs(t *testing.T) {
	ss, err := walk.FromStruct(sensor{Temp: []float64{21.5}, Label: "temp={}"})
	require.NoError(t, err)

	out, err := extras.ApplyNames(ss)
	require.NoError(t, err)
	out, err = extras.ApplyFormat(out)
	require.NoError(t, err)

	temp, err := out.Select(spec.ByPattern("/temp"))
	require.NoError(t, err)
	require.NotNil(t, temp.Unique())
	assert.Equal(t, "Temperature", temp.Unique().Name)
	assert.Equal(t, "K", temp.Unique().Unit)

	label, err := out.Select(spec.ByPattern("/label"))
	require.NoError(t, err)
	require.NotNil(t, label.Unique())
	assert.Equal(t, "temp=[21.5]", label.Unique().Data)

	// directive specs are consumed
	for _, tag := range []hint.Tag{extras.TagNamingName, extras.TagFormatIndex} {
		left, err := out.Select(spec.ByTag(tag))
		require.NoError(t, err)
		assert.Empty(t, left, string(tag))
	}
}

// TestDocumentRoundTrip checks that a schema walk and a raw JSON
// decomposition of the same document agree on addressing.
func TestDocumentRoundTrip(t *testing.T) {
	typ, err := hclspec.Load("weather.hcl", []byte(weatherSchema))
	require.NoError(t, err)
	data, err := oj.ParseString(weatherDocument)
	require.NoError(t, err)

	typed, err := walk.New().FromHint(typ, spec.Root, data)
	require.NoError(t, err)
	raw, err := jsonspec.FromJSON([]byte(weatherDocument))
	require.NoError(t, err)

	for _, id := range []spec.ID{spec.MustID("/temp"), spec.MustID("/hum"), spec.MustID("/lon")} {
		want, err := typed.Select(spec.ByPattern(id.String()))
		require.NoError(t, err)
		got, err := raw.Select(spec.ByPattern(id.String()))
		require.NoError(t, err)
		require.NotNil(t, want.Unique(), id.String())
		require.NotNil(t, got.Unique(), id.String())
		assert.Equal(t, want.Unique().Data, got.Unique().Data, id.String())
	}
}
