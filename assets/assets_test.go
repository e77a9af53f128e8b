package assets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaanHessen/ether-tui/internal/anim"
)

func TestAnimationsDecode(t *testing.T) {
	kinds := map[string][]string{
		AnimBIOS:      {"stage", "stage", "stage"},
		AnimBoot:      {"info", "simultaneous", "stage", "stage"},
		AnimCorrupt:   {"info"},
		AnimFirstBoot: {"info", "info", "info"},
	}
	for name, want := range kinds {
		t.Run(name, func(t *testing.T) {
			a, err := anim.Load(FS, name)
			require.NoError(t, err)
			var got []string
			for _, p := range a.Stages {
				switch p.(type) {
				case *anim.Stage:
					got = append(got, "stage")
				case *anim.InfoStage:
					got = append(got, "info")
				case *anim.SimultaneousStage:
					got = append(got, "simultaneous")
				}
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestBootMarkers(t *testing.T) {
	a, err := anim.Load(FS, AnimBoot)
	require.NoError(t, err)
	sim := a.Stages[1].(*anim.SimultaneousStage)
	require.Len(t, sim.Stages, 5)
	assert.Equal(t, "[ PASSED ]", sim.Stages[0].Finished.String())
	assert.Equal(t, "IN PROGRESS", sim.Stages[0].Progress.String())
	compiler := a.Stages[2].(*anim.Stage)
	assert.Equal(t, "[   OK   ]", compiler.Finished.String())
	assert.Equal(t, 40, compiler.StatusX)
}

func TestTextTrimsLines(t *testing.T) {
	s, err := Text(FS, Startup)
	require.NoError(t, err)
	for _, l := range strings.Split(s, "\n") {
		assert.Equal(t, strings.TrimRight(l, " "), l)
	}
	assert.False(t, strings.HasSuffix(s, "\n"))
}

func TestBrandLogo(t *testing.T) {
	assert.Contains(t, BrandLogo(FS, EtherIndustries), "INDUSTRIES")
	assert.Equal(t, MissingAsset, BrandLogo(FS, "acme"))
	assert.Equal(t, MissingAsset, BrandLogo(FS, ""))
	assert.Equal(t, MissingAsset, BrandLogo(FS, "../STARTUP"))
}
