package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"certback/internal/models"
)

// Generator — интерфейс (удобно мокать в тестах)
type Generator interface {
	WriteCatalog(products []models.Product, w io.Writer) error
}

// CatalogGenerator — экспорт материалов курса: один лист A4 на продукт.
// Заменяет печать HTML-страниц headless-браузером из старого пайплайна.
type CatalogGenerator struct {
	FontPath string // путь до TTF; пусто — встроенный Helvetica
	fontName string
}

func NewCatalogGenerator(fontPath string) *CatalogGenerator {
	return &CatalogGenerator{FontPath: fontPath, fontName: "Helvetica"}
}

func (g *CatalogGenerator) WriteCatalog(products []models.Product, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Productos del curso", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	if g.FontPath != "" {
		pdf.AddUTF8Font("custom", "", g.FontPath)
		pdf.AddUTF8Font("custom", "B", g.FontPath)
		g.fontName = "custom"
	}

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	for i, p := range products {
		pdf.AddPage()

		pdf.SetFont(g.fontName, "B", 18)
		pdf.CellFormat(0, 10, "Productos del curso", "", 1, "C", false, 0, "")
		pdf.SetFont(g.fontName, "", 11)
		pdf.CellFormat(0, 7, time.Now().Format("02.01.2006"), "", 1, "C", false, 0, "")
		g.hr(pdf)
		pdf.Ln(3)

		g.sectionTitle(pdf, fmt.Sprintf("Producto %d", i+1))
		g.kvLine(pdf, "Nombre", p.Name)
		g.kvLine(pdf, "Archivo", p.Path)
		pdf.Ln(2)

		if p.Description != "" {
			pdf.SetFont(g.fontName, "", 11)
			pdf.MultiCell(0, 6, p.Description, "", "L", false)
		}
	}

	if len(products) == 0 {
		pdf.AddPage()
		pdf.SetFont(g.fontName, "", 12)
		pdf.CellFormat(0, 10, "Sin productos", "", 1, "C", false, 0, "")
	}

	return pdf.Output(w)
}

func (g *CatalogGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *CatalogGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *CatalogGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
