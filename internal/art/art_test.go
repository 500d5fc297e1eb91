package art

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestCardPath(t *testing.T) {
	p, err := CardPath("/art", strings.Split("major_arcana.00", "."), ".ansi")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/art", "major_arcana", "00.ansi"), p)

	p, err = CardPath("/art", strings.Split("minor_arcana.cups.ace", "."), ".png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/art", "minor_arcana", "cups", "ace.png"), p)

	_, err = CardPath("/art", []string{"fool"}, ".png")
	assert.Error(t, err)
}

func TestFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{B: 255, A: 255})
		}
	}
	out := FromImage(img, 3, 2)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Equal(t, 3, VisibleWidth(line))
		assert.Contains(t, line, "\x1b[38;2;")
	}
}

func TestFindPrefersPrerenderedArt(t *testing.T) {
	dir := t.TempDir()
	ansi := filepath.Join(dir, "ansi32", "major_arcana", "00.ansi")
	require.NoError(t, os.MkdirAll(filepath.Dir(ansi), 0755))
	require.NoError(t, os.WriteFile(ansi, []byte("fool"), 0644))
	writePNG(t, filepath.Join(dir, "h750", "major_arcana", "00.png"))

	f := Finder{Dir: dir, CacheDir: filepath.Join(dir, "cache")}
	got, err := f.Load("major_arcana.00")
	require.NoError(t, err)
	assert.Equal(t, "fool", got)
}

func TestFindGeneratesAndCaches(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "my-scans", "minor_arcana", "cups", "ace.png"))

	f := Finder{Dir: dir, CacheDir: filepath.Join(dir, "cache")}
	path, err := f.Find("minor_arcana.cups.ace")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cache"), filepath.Dir(path))

	art, err := f.Load("minor_arcana.cups.ace")
	require.NoError(t, err)
	assert.Equal(t, Height, strings.Count(art, "\n"))

	again, err := f.Find("minor_arcana.cups.ace")
	require.NoError(t, err)
	assert.Equal(t, path, again)
}

func TestFindWithoutArt(t *testing.T) {
	_, err := Finder{}.Find("major_arcana.00")
	assert.ErrorIs(t, err, ErrNoArt)

	_, err = Finder{Dir: t.TempDir()}.Find("major_arcana.00")
	assert.ErrorIs(t, err, ErrNoArt)
}
