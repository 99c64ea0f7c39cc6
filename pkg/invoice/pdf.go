package invoice

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

var pageSizes = map[string]string{
	FormatA4:     "A4",
	FormatLetter: "Letter",
	FormatLegal:  "Legal",
}

type rgb struct{ r, g, b int }

type pdfPalette struct {
	background rgb
	text       rgb
	muted      rgb
	accent     rgb
	rule       rgb
}

var pdfPalettes = map[string]pdfPalette{
	ThemeLight: {
		background: rgb{255, 255, 255},
		text:       rgb{31, 41, 51},
		muted:      rgb{107, 114, 128},
		accent:     rgb{40, 153, 216},
		rule:       rgb{209, 213, 219},
	},
	ThemeDark: {
		background: rgb{17, 24, 39},
		text:       rgb{243, 244, 246},
		muted:      rgb{156, 163, 175},
		accent:     rgb{96, 165, 250},
		rule:       rgb{55, 65, 81},
	},
}

// Summary renders the plain invoice summary: default report configuration
// with the payment lines.
func Summary(inv Invoice, now time.Time) ([]byte, error) {
	return RenderPDF(inv, DefaultReportConfig(), now)
}

// RenderPDF draws inv according to cfg. now is printed when the timestamp
// section is enabled.
func RenderPDF(inv Invoice, cfg ReportConfig, now time.Time) ([]byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	size := pageSizes[cfg.Format]
	palette := pdfPalettes[cfg.Theme]

	pdf := gofpdf.New("P", "mm", size, "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(cfg.Title), false)
	pdf.SetCreator("payform", false)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	pdf.SetFillColor(palette.background.r, palette.background.g, palette.background.b)
	pdf.Rect(0, 0, pageW, pageH, "F")
	pdf.SetTextColor(palette.text.r, palette.text.g, palette.text.b)

	if cfg.IncludeLogo {
		pdf.SetFillColor(palette.accent.r, palette.accent.g, palette.accent.b)
		pdf.Rect(15, 15, 12, 12, "F")
		pdf.SetFont("Arial", "B", 14)
		pdf.SetXY(30, 15)
		pdf.Cell(0, 12, "PAYFORM")
		pdf.Ln(18)
	} else {
		pdf.SetY(20)
	}

	pdf.SetFont("Arial", "B", 20)
	pdf.SetX(15)
	pdf.Cell(0, 10, tr(cfg.Title))
	pdf.Ln(12)

	if cfg.IncludeTimestamp {
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(palette.muted.r, palette.muted.g, palette.muted.b)
		pdf.SetX(15)
		pdf.Cell(0, 5, tr("Fecha: "+now.Format("02/01/2006 15:04")))
		pdf.SetTextColor(palette.text.r, palette.text.g, palette.text.b)
		pdf.Ln(10)
	}

	if cfg.IncludeUserInfo {
		operator := inv.Operator
		if operator == "" {
			operator = "N/D"
		}
		pdf.SetFont("Arial", "", 10)
		pdf.SetX(15)
		pdf.Cell(0, 6, tr("Usuario: "+operator))
		pdf.Ln(10)
	}

	if cfg.IncludePaymentDetails {
		pdf.SetDrawColor(palette.rule.r, palette.rule.g, palette.rule.b)
		pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
		pdf.Ln(4)
		for _, line := range inv.Lines() {
			style := ""
			if line.Emphasized {
				style = "B"
				pdf.SetTextColor(palette.accent.r, palette.accent.g, palette.accent.b)
			}
			pdf.SetFont("Arial", style, 11)
			pdf.SetX(15)
			pdf.Cell(60, 8, tr(line.Label))
			pdf.CellFormat(pageW-90, 8, tr(line.Value), "", 0, "R", false, 0, "")
			pdf.SetTextColor(palette.text.r, palette.text.g, palette.text.b)
			pdf.Ln(9)
		}
		pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
		pdf.Ln(8)
	}

	if cfg.FooterMessage != "" {
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(palette.muted.r, palette.muted.g, palette.muted.b)
		pdf.SetXY(15, pageH-25)
		pdf.CellFormat(pageW-30, 6, tr(cfg.FooterMessage), "", 0, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("invoice: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
