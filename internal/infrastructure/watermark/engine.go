package watermark

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/config"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/domain/entity"
)

// Safety margin kept between the watermark band and the page edge
const edgeSafetyPt = 5.0

// Stamper renders the attribution band onto every page of a PDF.
type Stamper interface {
	// Stamp applies the band dated today.
	Stamp(pdf []byte, signerName string) ([]byte, error)
	// StampAsOf applies the band with an explicit date.
	StampAsOf(pdf []byte, signerName string, asOf time.Time) ([]byte, error)
}

type engine struct {
	cfg    config.WatermarkConfig
	logo   []byte // prepared PNG, nil when no logo is configured
	logger *zap.Logger
}

func NewEngine(cfg *config.Config, logger *zap.Logger) Stamper {
	e := &engine{
		cfg:    cfg.Watermark,
		logger: logger,
	}
	e.logo = loadLogo(cfg.Watermark, logger)
	return e
}

// loadLogo reads the configured logo, fits it into the icon box and
// re-encodes it as PNG. A missing or unreadable logo is not an error; the
// band is rendered without flanking images.
func loadLogo(cfg config.WatermarkConfig, logger *zap.Logger) []byte {
	if strings.TrimSpace(cfg.LogoPath) == "" {
		logger.Info("No watermark logo configured")
		return nil
	}

	f, err := os.Open(cfg.LogoPath)
	if err != nil {
		logger.Warn("Watermark logo not readable, stamping without logo",
			zap.String("path", cfg.LogoPath),
			zap.Error(err),
		)
		return nil
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		logger.Warn("Watermark logo not decodable, stamping without logo",
			zap.String("path", cfg.LogoPath),
			zap.Error(err),
		)
		return nil
	}

	// 1px = 1pt once rendered at absolute scale
	iconPx := int(cfg.IconSizePt)
	fitted := imaging.Fit(img, iconPx, iconPx, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.PNG); err != nil {
		logger.Warn("Failed to encode watermark logo, stamping without logo",
			zap.String("path", cfg.LogoPath),
			zap.Error(err),
		)
		return nil
	}

	logger.Info("Watermark logo loaded",
		zap.String("path", cfg.LogoPath),
		zap.Int("icon_px", iconPx),
	)
	return buf.Bytes()
}

func (e *engine) Stamp(pdf []byte, signerName string) ([]byte, error) {
	return e.StampAsOf(pdf, signerName, time.Now())
}

func (e *engine) StampAsOf(pdf []byte, signerName string, asOf time.Time) ([]byte, error) {
	if len(pdf) == 0 {
		return nil, &entity.InvalidInputError{Message: "PDF vuoto"}
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	dims, err := api.PageDims(bytes.NewReader(pdf), conf)
	if err != nil {
		return nil, &entity.RenderError{Err: fmt.Errorf("failed to read page dimensions: %w", err)}
	}
	if len(dims) == 0 {
		return nil, &entity.RenderError{Err: fmt.Errorf("document has no pages")}
	}

	dateStr := asOf.Format("02/01/2006")
	name := strings.ToUpper(signerName)

	wmMap := make(map[int][]*model.Watermark, len(dims))
	for i, dim := range dims {
		pageNo := i + 1
		text := fmt.Sprintf("File firmato digitalmente da Dottor %s in data %s (PAGINA %d)", name, dateStr, pageNo)

		wms, err := e.pageWatermarks(text, dim)
		if err != nil {
			return nil, &entity.RenderError{Err: fmt.Errorf("page %d: %w", pageNo, err)}
		}
		wmMap[pageNo] = wms
	}

	var out bytes.Buffer
	if err := api.AddWatermarksSliceMap(bytes.NewReader(pdf), &out, wmMap, conf); err != nil {
		return nil, &entity.RenderError{Err: fmt.Errorf("failed to apply watermark: %w", err)}
	}

	e.logger.Info("Watermark applied",
		zap.Int("pages", len(dims)),
		zap.Bool("logo", e.logo != nil),
	)
	return out.Bytes(), nil
}

// pageWatermarks builds the rotated band for one page: the attribution text
// plus, when a logo is available, one flanking image on each end of the band.
func (e *engine) pageWatermarks(text string, dim types.Dim) ([]*model.Watermark, error) {
	x := e.cfg.LeftMarginPt
	y := e.cfg.BelowCenterOffsetPt

	// The desc grammar only takes whole-point font sizes
	textDesc := fmt.Sprintf(
		"fontname:Helvetica, points:%.0f, pos:l, off:%.0f %.0f, rot:90, op:%.2f, fillcolor:#0000ff, scalefactor:1 abs, aligntext:l",
		e.cfg.FontSize, x, y, e.cfg.Opacity,
	)
	textWM, err := api.TextWatermark(text, textDesc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("text watermark: %w", err)
	}

	if e.logo == nil {
		return []*model.Watermark{textWM}, nil
	}

	// Clamp the icon so the band never overruns the page edge
	safeWidth := dim.Width - x - edgeSafetyPt
	if safeWidth <= 0 {
		return []*model.Watermark{textWM}, nil
	}
	iconSize := e.cfg.IconSizePt
	scale := 1.0
	if iconSize > safeWidth {
		scale = safeWidth / iconSize
		iconSize = safeWidth
	}

	// The band reads bottom-to-top, so the flanking logos sit just below
	// and just above the rendered text run.
	halfBand := estimateTextWidth(text, e.cfg.FontSize) / 2
	gap := iconSize/2 + edgeSafetyPt

	var wms []*model.Watermark
	for _, dy := range []float64{y - halfBand - gap, y + halfBand + gap} {
		imgDesc := fmt.Sprintf(
			"pos:l, off:%.0f %.0f, rot:90, op:%.2f, scalefactor:%.2f abs",
			x, dy, e.cfg.Opacity, scale,
		)
		imgWM, err := api.ImageWatermarkForReader(bytes.NewReader(e.logo), imgDesc, true, false, types.POINTS)
		if err != nil {
			return nil, fmt.Errorf("image watermark: %w", err)
		}
		wms = append(wms, imgWM)
	}

	return append(wms, textWM), nil
}

// estimateTextWidth approximates the rendered width of a Helvetica line.
// Only used to offset the flanking logos, so precision is not critical.
func estimateTextWidth(text string, points float64) float64 {
	return float64(len(text)) * points * 0.52
}

var Module = fx.Module("watermark",
	fx.Provide(NewEngine),
)
