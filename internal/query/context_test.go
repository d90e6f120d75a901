package query

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestContext_Defaults(t *testing.T) {
	t.Parallel()

	c := NewContext(Settings{})

	loc, err := c.Location()
	require.NoError(t, err)
	require.Equal(t, time.UTC, loc)
	require.Nil(t, c.Dictionaries())
	require.WithinDuration(t, time.Now(), c.Now(), time.Minute)
}

func TestContext_Options(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	dicts := map[string]Dictionary{
		"countries": {"de": cty.StringVal("Germany")},
	}
	c := NewContext(Settings{Timezone: "Europe/Berlin"}, WithClock(func() time.Time { return fixed }), WithDictionaries(dicts))

	require.Equal(t, fixed, c.Now())
	require.Equal(t, "Europe/Berlin", c.Settings().Timezone)
	require.Equal(t, dicts, c.Dictionaries())

	loc, err := c.Location()
	require.NoError(t, err)
	require.Equal(t, "Europe/Berlin", loc.String())
}

func TestContext_InvalidTimezone(t *testing.T) {
	t.Parallel()

	c := NewContext(Settings{Timezone: "Mars/Olympus_Mons"})
	_, err := c.Location()
	require.Error(t, err)
}
