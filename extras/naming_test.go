package extras

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/dataspec/hint"
	"github.com/agentic-research/dataspec/spec"
	"github.com/agentic-research/dataspec/walk"
)

type namedReading struct {
	Temp float64 `spec:"temp,tag=meas:data"`
	Hum  float64 `spec:"hum,tag=meas:data"`
}

func (r namedReading) SpecAnnotations() map[string][]any {
	return map[string][]any{
		"Temp": {Name{Value: "Temperature"}},
	}
}

func TestApplyNames(t *testing.T) {
	ss, err := walk.FromStruct(namedReading{Temp: 20.0, Hum: 50.0})
	require.NoError(t, err)

	// the directive decomposes into a tagged child
	namers, err := ss.Select(spec.ByTag(TagNamingName))
	require.NoError(t, err)
	require.NotNil(t, namers.Unique())
	assert.Equal(t, spec.MustID("/temp/value"), namers.Unique().ID)

	out, err := ApplyNames(ss)
	require.NoError(t, err)

	temp, err := out.Select(spec.ByPattern("/temp"))
	require.NoError(t, err)
	require.NotNil(t, temp.Unique())
	assert.Equal(t, "Temperature", temp.Unique().Name)

	// the directive spec is gone, the unnamed sibling is untouched
	left, err := out.Select(spec.ByTag(TagNamingName))
	require.NoError(t, err)
	assert.Empty(t, left)
	hum, err := out.Select(spec.ByPattern("/hum"))
	require.NoError(t, err)
	assert.Equal(t, "hum", hum.Unique().Name)

	// input collection is unchanged
	assert.Equal(t, "temp", ss[0].Name)
}

func TestApplyNamesLeave(t *testing.T) {
	ss, err := walk.FromStruct(namedReading{})
	require.NoError(t, err)

	out, err := ApplyNames(ss, Leave())
	require.NoError(t, err)

	left, err := out.Select(spec.ByTag(TagNamingName))
	require.NoError(t, err)
	assert.NotEmpty(t, left)
}

func TestApplyNamesIgnoresNonUnique(t *testing.T) {
	dir := Name{Value: "x"}
	ss := spec.Specs{
		spec.New(spec.MustID("/temp"), nil, hint.Float, 20.0),
		spec.New(spec.MustID("/temp/a"), []hint.Tag{TagNamingName}, hint.String, "one").WithOrigin(dir),
		spec.New(spec.MustID("/temp/b"), []hint.Tag{TagNamingName}, hint.String, "two").WithOrigin(dir),
	}

	out, err := ApplyNames(ss)
	require.NoError(t, err)

	// two competing namers: neither applies
	temp, err := out.Select(spec.ByPattern("/temp"))
	require.NoError(t, err)
	assert.Equal(t, "temp", temp.Unique().Name)
	assert.Len(t, out, 3)
}
