package generator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"passgram/internal/model"
)

func lines(buf *bytes.Buffer) []string {
	out := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(out) == 1 && out[0] == "" {
		return nil
	}
	return out
}

func TestGenerateBeamWritesCandidates(t *testing.T) {
	g := New(testSnapshot(), testFrags(), Options{})

	var buf bytes.Buffer
	n, err := g.GenerateBeam(&buf, BeamDriveOptions{
		Beam: BeamParams{MinLength: 2, MaxLength: 64},
	})

	require.NoError(t, err)
	got := lines(&buf)
	require.Len(t, got, n)
	require.NotEmpty(t, got)
	// The strongest template comes first, and its best candidate leads.
	require.Equal(t, "summer12", got[0])
}

func TestGenerateBeamMaxTotal(t *testing.T) {
	g := New(testSnapshot(), testFrags(), Options{})

	var buf bytes.Buffer
	n, err := g.GenerateBeam(&buf, BeamDriveOptions{
		Beam:     BeamParams{MinLength: 2, MaxLength: 64},
		MaxTotal: 3,
	})

	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Len(t, lines(&buf), 3)
}

func TestGenerateBeamTemplateCap(t *testing.T) {
	g := New(testSnapshot(), testFrags(), Options{})

	var buf bytes.Buffer
	_, err := g.GenerateBeam(&buf, BeamDriveOptions{
		Beam:      BeamParams{MinLength: 2, MaxLength: 64},
		Templates: 1,
	})

	require.NoError(t, err)
	for _, line := range lines(&buf) {
		require.Len(t, line, 8)
	}
}

func TestGenerateBeamSkipsShortTemplates(t *testing.T) {
	snap := &model.Snapshot{
		TopTemplates: []model.TemplateEntry{{Template: "DIGITS2", Count: 9}},
		TopDigits:    []model.TokenEntry{{Token: "12", Count: 5}},
	}
	g := New(snap, nil, Options{})

	var buf bytes.Buffer
	n, err := g.GenerateBeam(&buf, BeamDriveOptions{
		Beam: BeamParams{MinLength: 6, MaxLength: 64},
	})

	require.NoError(t, err)
	require.Zero(t, n)
	require.Empty(t, lines(&buf))
}

func TestGenerateSampleWritesCandidates(t *testing.T) {
	g := New(testSnapshot(), testFrags(), Options{Seed: 42})

	var buf bytes.Buffer
	n, err := g.GenerateSample(&buf, SampleDriveOptions{
		Sample: SampleParams{Samples: 200, MinLength: 6},
	})

	require.NoError(t, err)
	require.Equal(t, len(lines(&buf)), n)
	require.NotZero(t, n)
	for _, line := range lines(&buf) {
		require.GreaterOrEqual(t, len(line), 6)
	}
}

func TestGenerateSamplePerTemplateCap(t *testing.T) {
	snap := &model.Snapshot{
		TopTemplates: []model.TemplateEntry{{Template: "DIGITS2", Count: 9}},
		TopDigits: []model.TokenEntry{
			{Token: "11", Count: 3},
			{Token: "22", Count: 3},
			{Token: "33", Count: 3},
		},
	}
	g := New(snap, nil, Options{Seed: 42})

	var buf bytes.Buffer
	n, err := g.GenerateSample(&buf, SampleDriveOptions{
		Sample:      SampleParams{Samples: 300, MinLength: 2},
		PerTemplate: 2,
	})

	require.NoError(t, err)
	require.LessOrEqual(t, n, 2)
}

func TestGenerateSampleDeterministicForSeed(t *testing.T) {
	var first, second bytes.Buffer

	_, err := New(testSnapshot(), testFrags(), Options{Seed: 9}).
		GenerateSample(&first, SampleDriveOptions{Sample: SampleParams{Samples: 100, MinLength: 6}})
	require.NoError(t, err)
	_, err = New(testSnapshot(), testFrags(), Options{Seed: 9}).
		GenerateSample(&second, SampleDriveOptions{Sample: SampleParams{Samples: 100, MinLength: 6}})
	require.NoError(t, err)

	require.Equal(t, first.String(), second.String())
}
