package preview_service

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	model "mini-app-gateway/models"
	"mini-app-gateway/registry"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// CardVariant preview card layout
type CardVariant string

const (
	CardDefault CardVariant = "default" // 1200x630, og:image recommended ratio
	CardSquare  CardVariant = "square"  // 630x630
)

// ParseCardVariant unknown variants fall back to the default card
func ParseCardVariant(raw string) CardVariant {
	if CardVariant(strings.ToLower(strings.Trim(raw, "/ "))) == CardSquare {
		return CardSquare
	}
	return CardDefault
}

// Size card dimensions in pixels
func (v CardVariant) Size() (int, int) {
	if v == CardSquare {
		return 630, 630
	}
	return 1200, 630
}

var (
	cardTop    = color.NRGBA{R: 24, G: 28, B: 48, A: 255}
	cardBottom = color.NRGBA{R: 58, G: 38, B: 110, A: 255}
	pillFill   = color.NRGBA{R: 255, G: 255, B: 255, A: 40}
	mutedText  = color.NRGBA{R: 200, G: 200, B: 220, A: 255}
)

// CardRenderer draws PNG preview cards
type CardRenderer struct {
	regular     *truetype.Font
	bold        *truetype.Font
	productLine string
}

// NewCardRenderer loads the embedded Go fonts
func NewCardRenderer(productLine string) (*CardRenderer, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	return &CardRenderer{regular: regular, bold: bold, productLine: productLine}, nil
}

func (r *CardRenderer) face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size})
}

// Render writes the card for app as PNG. A nil app draws the not-found card with title.
func (r *CardRenderer) Render(w io.Writer, app *model.AppMetadata, notFoundTitle string, variant CardVariant) error {
	width, height := variant.Size()
	W, H := float64(width), float64(height)
	pad := 64.0
	if variant == CardSquare {
		pad = 48
	}

	dc := gg.NewContext(width, height)

	grad := gg.NewLinearGradient(0, 0, W, H)
	grad.AddColorStop(0, cardTop)
	grad.AddColorStop(1, cardBottom)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, W, H)
	dc.Fill()

	title := notFoundTitle
	var subtitle, pill, rating string
	if app != nil {
		title = app.Name
		if app.DeveloperName != "" {
			subtitle = "by " + app.DeveloperName
		}
		pill = strings.ToUpper(string(app.Category))
		rating = "Rating " + registry.FormatAppRating(app)
	}

	y := pad
	if pill != "" {
		dc.SetFontFace(r.face(r.bold, 24))
		tw, th := dc.MeasureString(pill)
		dc.SetColor(pillFill)
		dc.DrawRoundedRectangle(pad, y, tw+32, th+20, 18)
		dc.Fill()
		dc.SetColor(color.White)
		dc.DrawString(pill, pad+16, y+th+8)
		y += th + 48
	}

	titleSize := 72.0
	if variant == CardSquare {
		titleSize = 56
	}
	dc.SetFontFace(r.face(r.bold, titleSize))
	dc.SetColor(color.White)
	dc.DrawStringWrapped(title, pad, y, 0, 0, W-2*pad, 1.2, gg.AlignLeft)
	lines := dc.WordWrap(title, W-2*pad)
	y += float64(len(lines))*titleSize*1.2 + 16

	if subtitle != "" {
		dc.SetFontFace(r.face(r.regular, 34))
		dc.SetColor(mutedText)
		dc.DrawStringWrapped(subtitle, pad, y, 0, 0, W-2*pad, 1.2, gg.AlignLeft)
	}

	dc.SetFontFace(r.face(r.regular, 30))
	dc.SetColor(mutedText)
	dc.DrawStringAnchored(r.productLine+" Mini-App", pad, H-pad, 0, 0)
	if rating != "" {
		dc.SetColor(color.White)
		dc.DrawStringAnchored(rating, W-pad, H-pad, 1, 0)
	}

	return dc.EncodePNG(w)
}
