package watermark

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/config"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/domain/entity"
)

func newWMConfig(logoPath string) *config.Config {
	return &config.Config{
		Watermark: config.WatermarkConfig{
			LogoPath:            logoPath,
			LeftMarginPt:        18,
			BelowCenterOffsetPt: -300,
			FontSize:            7.5,
			Opacity:             0.65,
			IconSizePt:          42,
		},
	}
}

func makePDF(t *testing.T, pages int) []byte {
	t.Helper()

	pdf := gofpdf.New("P", "pt", "A4", "")
	for i := 1; i <= pages; i++ {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "", 12)
		pdf.Cell(200, 20, fmt.Sprintf("Referto pagina %d", i))
	}

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func makeLogo(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	for x := 0; x < 60; x++ {
		for y := 0; y < 60; y++ {
			img.Set(x, y, color.RGBA{R: 20, G: 60, B: 160, A: 255})
		}
	}

	path := filepath.Join(t.TempDir(), "logo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func pageCount(t *testing.T, pdf []byte) int {
	t.Helper()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	n, err := api.PageCount(bytes.NewReader(pdf), conf)
	require.NoError(t, err)
	return n
}

// decodedStreams inflates every stream object in the PDF and concatenates
// the results. The band text lives inside a compressed form XObject, so a
// plain byte search on the file would never find it.
func decodedStreams(t *testing.T, pdf []byte) string {
	t.Helper()

	var sb strings.Builder
	rest := pdf
	for {
		i := bytes.Index(rest, []byte("stream"))
		if i < 0 {
			break
		}
		rest = bytes.TrimLeft(rest[i+len("stream"):], "\r\n")

		j := bytes.Index(rest, []byte("endstream"))
		if j < 0 {
			break
		}
		raw := rest[:j]
		rest = rest[j+len("endstream"):]

		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			sb.Write(raw)
			continue
		}
		if data, err := io.ReadAll(zr); err == nil {
			sb.Write(data)
		}
		zr.Close()
	}
	return sb.String()
}

func TestStampRendersAttributionBand(t *testing.T) {
	engine := NewEngine(newWMConfig(""), zap.NewNop())
	asOf := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	out, err := engine.StampAsOf(makePDF(t, 2), "rossi", asOf)
	require.NoError(t, err)

	content := decodedStreams(t, out)
	assert.Contains(t, content, "File firmato digitalmente da Dottor ROSSI")
	assert.Contains(t, content, "in data 14/03/2025")
	assert.Contains(t, content, "PAGINA 1")
	assert.Contains(t, content, "PAGINA 2")
}

func TestStampPreservesPageCount(t *testing.T) {
	engine := NewEngine(newWMConfig(""), zap.NewNop())

	for _, pages := range []int{1, 3} {
		t.Run(fmt.Sprintf("%d pages", pages), func(t *testing.T) {
			in := makePDF(t, pages)

			out, err := engine.Stamp(in, "Rossi")
			require.NoError(t, err)
			assert.Equal(t, pages, pageCount(t, out))
			assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
		})
	}
}

func TestStampBlankSignerName(t *testing.T) {
	// A blank name is accepted; the band renders with an empty name segment
	engine := NewEngine(newWMConfig(""), zap.NewNop())

	out, err := engine.Stamp(makePDF(t, 1), "")
	require.NoError(t, err)
	assert.Equal(t, 1, pageCount(t, out))
}

func TestStampWithoutLogo(t *testing.T) {
	e := NewEngine(newWMConfig(""), zap.NewNop()).(*engine)
	assert.Nil(t, e.logo)

	out, err := e.Stamp(makePDF(t, 1), "Rossi")
	require.NoError(t, err)
	assert.Equal(t, 1, pageCount(t, out))
}

func TestStampWithLogo(t *testing.T) {
	e := NewEngine(newWMConfig(makeLogo(t)), zap.NewNop()).(*engine)
	require.NotNil(t, e.logo)

	out, err := e.Stamp(makePDF(t, 2), "Rossi")
	require.NoError(t, err)
	assert.Equal(t, 2, pageCount(t, out))
}

func TestStampMissingLogoIsNotFatal(t *testing.T) {
	engine := NewEngine(newWMConfig("/does/not/exist.png"), zap.NewNop())

	out, err := engine.Stamp(makePDF(t, 1), "Rossi")
	require.NoError(t, err)
	assert.Equal(t, 1, pageCount(t, out))
}

func TestStampEmptyPDF(t *testing.T) {
	engine := NewEngine(newWMConfig(""), zap.NewNop())

	_, err := engine.Stamp(nil, "Rossi")

	var invalid *entity.InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}

func TestStampCorruptPDF(t *testing.T) {
	engine := NewEngine(newWMConfig(""), zap.NewNop())

	_, err := engine.Stamp([]byte("this is not a pdf"), "Rossi")

	var render *entity.RenderError
	assert.ErrorAs(t, err, &render)
}

func TestStampAsOfIsDeterministicAcrossDates(t *testing.T) {
	engine := NewEngine(newWMConfig(""), zap.NewNop())
	in := makePDF(t, 1)

	asOf := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	a, err := engine.StampAsOf(in, "Rossi", asOf)
	require.NoError(t, err)
	b, err := engine.StampAsOf(in, "Rossi", asOf)
	require.NoError(t, err)

	assert.Equal(t, pageCount(t, a), pageCount(t, b))
	assert.Equal(t, len(a), len(b))
}
