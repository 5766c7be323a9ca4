package core

import (
	"image"
	"image/color"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
)

type AssetId string

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}

// Texture is a CPU-side RGBA texture handed to the UI renderer.
type Texture struct {
	Id    AssetId
	Name  string
	Image *image.RGBA
}

func NewTexture(name string, img *image.RGBA) *Texture {
	return &Texture{
		Id:    makeAssetId(),
		Name:  name,
		Image: img,
	}
}

// NewSolidTexture creates a w x h texture filled with c.
func NewSolidTexture(name string, w, h int, c color.RGBA) *Texture {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, xdraw.Src)
	return NewTexture(name, img)
}

func (t *Texture) Width() int {
	if t == nil || t.Image == nil {
		return 0
	}
	return t.Image.Bounds().Dx()
}

func (t *Texture) Height() int {
	if t == nil || t.Image == nil {
		return 0
	}
	return t.Image.Bounds().Dy()
}

var whiteTexture = NewSolidTexture("white", 4, 4, color.RGBA{255, 255, 255, 255})

// WhiteTexture is the shared opaque white fallback texture.
func WhiteTexture() *Texture {
	return whiteTexture
}

type Material struct {
	Name        string
	MainTexture *Texture
	// HasMainTexture is false for shaders without a main texture slot; MainTexture is then ignored.
	HasMainTexture bool
}

func NewMaterial(name string, mainTex *Texture) *Material {
	return &Material{
		Name:           name,
		MainTexture:    mainTex,
		HasMainTexture: true,
	}
}

type SheetAnimationMode int

const (
	SheetAnimationGrid SheetAnimationMode = iota
	SheetAnimationSprites
)

// SpriteSheet describes a texture-sheet animation. In sprite mode each frame
// is a rectangle of Sheet and is cut into its own texture on first use.
type SpriteSheet struct {
	Enabled bool
	Mode    SheetAnimationMode
	Sheet   *image.RGBA
	Frames  []image.Rectangle

	sprites []*Texture
}

func (s *SpriteSheet) SpriteCount() int {
	if s == nil {
		return 0
	}
	return len(s.Frames)
}

// Sprite returns frame i as a standalone texture, or nil when out of range.
func (s *SpriteSheet) Sprite(i int) *Texture {
	if s == nil || s.Sheet == nil || i < 0 || i >= len(s.Frames) {
		return nil
	}
	if len(s.sprites) != len(s.Frames) {
		s.sprites = make([]*Texture, len(s.Frames))
	}
	if s.sprites[i] == nil {
		r := s.Frames[i].Intersect(s.Sheet.Bounds())
		img := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
		xdraw.Copy(img, image.Point{}, s.Sheet, r, xdraw.Src, nil)
		s.sprites[i] = NewTexture("sprite", img)
	}
	return s.sprites[i]
}

// GridFrames splits bounds into cols x rows equally sized frames, row-major.
func GridFrames(bounds image.Rectangle, cols, rows int) []image.Rectangle {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	w := bounds.Dx() / cols
	h := bounds.Dy() / rows
	frames := make([]image.Rectangle, 0, cols*rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			min := bounds.Min.Add(image.Pt(x*w, y*h))
			frames = append(frames, image.Rectangle{Min: min, Max: min.Add(image.Pt(w, h))})
		}
	}
	return frames
}
