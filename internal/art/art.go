// Package art finds or generates ANSI terminal art for cards. An art
// directory holds pre-rendered art under ansi32/ or ansi256/ and source
// images under scalable/ or h<height>/ directories, each laid out as
// major_arcana/<nn>.<ext> and minor_arcana/<suit>/<rank>.<ext>.
package art

import (
	"crypto/md5"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

// Default art size in character cells
const (
	Width  = 40
	Height = 32
)

// ErrNoArt is returned when neither ANSI art nor a source image exists
var ErrNoArt = errors.New("no art found")

var (
	ansiDirs   = []string{"ansi32", "ansi256"}
	imageDirs  = []string{"scalable", "h2400", "h1200", "h750"}
	extensions = []string{".png", ".jpg", ".jpeg", ".gif"}
	skipDirs   = []string{"ansi32", "ansi256", "card_backs", "names"}
)

// Finder locates art for canonical card IDs
type Finder struct {
	Dir      string
	CacheDir string
}

// Load returns ANSI art for cardID, generating and caching it from an
// image when no pre-rendered art exists.
func (f Finder) Load(cardID string) (string, error) {
	path, err := f.Find(cardID)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Find returns the path of an ANSI art file for cardID
func (f Finder) Find(cardID string) (string, error) {
	if f.Dir == "" {
		return "", ErrNoArt
	}
	parts := strings.Split(cardID, ".")

	for _, dir := range ansiDirs {
		path, err := CardPath(filepath.Join(f.Dir, dir), parts, ".ansi")
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	imagePath, err := f.findImage(parts)
	if err != nil {
		return "", fmt.Errorf("%w for card %s", ErrNoArt, cardID)
	}

	if err := os.MkdirAll(f.CacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create ANSI cache directory: %v", err)
	}
	cachePath := filepath.Join(f.CacheDir, fmt.Sprintf("%x.ansi", md5.Sum([]byte(imagePath))))
	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}

	if err := Generate(imagePath, cachePath); err != nil {
		return "", fmt.Errorf("failed to generate ANSI art: %v", err)
	}
	return cachePath, nil
}

// CardPath builds the path of a card file under baseDir
func CardPath(baseDir string, parts []string, extension string) (string, error) {
	switch {
	case len(parts) == 2 && parts[0] == "major_arcana":
		return filepath.Join(baseDir, "major_arcana", parts[1]+extension), nil
	case len(parts) == 3 && parts[0] == "minor_arcana":
		return filepath.Join(baseDir, "minor_arcana", parts[1], parts[2]+extension), nil
	}
	return "", fmt.Errorf("invalid card ID format: %s", strings.Join(parts, "."))
}

func (f Finder) findImage(parts []string) (string, error) {
	dirs := slices.Clone(imageDirs)

	entries, err := os.ReadDir(f.Dir)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() && !slices.Contains(skipDirs, name) && !slices.Contains(imageDirs, name) {
			dirs = append(dirs, name)
		}
	}

	for _, dir := range dirs {
		for _, ext := range extensions {
			path, err := CardPath(filepath.Join(f.Dir, dir), parts, ext)
			if err != nil {
				return "", err
			}
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}
	return "", ErrNoArt
}

// Generate converts the image at imagePath to ANSI art at outputPath
func Generate(imagePath, outputPath string) error {
	file, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("failed to open image: %v", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return fmt.Errorf("failed to decode image: %v", err)
	}

	return os.WriteFile(outputPath, []byte(FromImage(img, Width, Height)), 0644)
}

// FromImage renders img as width x height cells of upper half blocks with
// 24-bit colour: the top pixel pair sets the foreground, the bottom pair the
// background.
func FromImage(img image.Image, width, height int) string {
	resized := resize.Resize(uint(width*2), uint(height*2), img, resize.Lanczos3)

	var b strings.Builder
	for y := 0; y < height*2; y += 2 {
		for x := 0; x < width*2; x += 2 {
			top := average(colorAt(resized, x, y), colorAt(resized, x+1, y))
			bottom := average(colorAt(resized, x, y+1), colorAt(resized, x+1, y+1))
			b.WriteString(cell('▀', top, bottom))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func colorAt(img image.Image, x, y int) colorful.Color {
	var c color.Color = color.RGBA{0, 0, 0, 255}
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		c = img.At(x, y)
	}
	cf, _ := colorful.MakeColor(c)
	return cf
}

func average(colors ...colorful.Color) colorful.Color {
	var r, g, b float64
	for _, c := range colors {
		r += c.R
		g += c.G
		b += c.B
	}
	n := float64(len(colors))
	return colorful.Color{R: r / n, G: g / n, B: b / n}
}

func cell(char rune, fg, bg colorful.Color) string {
	r1, g1, b1 := fg.Clamped().RGB255()
	r2, g2, b2 := bg.Clamped().RGB255()
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%c\x1b[0m", r1, g1, b1, r2, g2, b2, char)
}

// StripANSI removes ANSI escape sequences from s
func StripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, c := range s {
		switch {
		case inEscape:
			if c == 'm' {
				inEscape = false
			}
		case c == '\033':
			inEscape = true
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// VisibleWidth is the printed width of a line of ANSI art
func VisibleWidth(s string) int {
	return len([]rune(StripANSI(s)))
}
