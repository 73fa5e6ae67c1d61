package handlers

import (
	"archive/zip"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"certback/internal/models"
	"certback/internal/pdf"
)

// ProductHandler — статические материалы курса: манифест, zip- и pdf-экспорт.
type ProductHandler struct {
	productsDir string
	pdfGen      pdf.Generator
}

func NewProductHandler(productsDir string, pdfGen pdf.Generator) *ProductHandler {
	return &ProductHandler{productsDir: filepath.Clean(productsDir), pdfGen: pdfGen}
}

func (h *ProductHandler) loadManifest() (*models.ProductManifest, error) {
	raw, err := os.ReadFile(filepath.Join(h.productsDir, "manifest.json"))
	if err != nil {
		return nil, err
	}
	var m models.ProductManifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// @Summary      Список продуктов курса
// @Tags         Products
// @Produce      json
// @Success      200  {array}  models.Product
// @Router       /api/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	m, err := h.loadManifest()
	if err != nil {
		log.Printf("[products][list] manifest read failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "manifest unavailable"})
		return
	}
	c.JSON(http.StatusOK, m.Products)
}

// @Summary      Экспорт продуктов одним zip-архивом
// @Tags         Products
// @Produce      application/zip
// @Success      200  {file}  binary
// @Router       /api/export/zip [get]
func (h *ProductHandler) ExportZip(c *gin.Context) {
	m, err := h.loadManifest()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "manifest unavailable"})
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", `attachment; filename="productos.zip"`)

	zw := zip.NewWriter(c.Writer)
	defer zw.Close()

	for _, p := range m.Products {
		src := filepath.Join(h.productsDir, filepath.Clean(p.Path))
		f, err := os.Open(src)
		if err != nil {
			log.Printf("[products][zip] skip %s: %v", p.Path, err)
			continue
		}
		w, err := zw.Create(p.Path)
		if err != nil {
			f.Close()
			log.Printf("[products][zip] entry %s: %v", p.Path, err)
			continue
		}
		if _, err := io.Copy(w, f); err != nil {
			log.Printf("[products][zip] copy %s: %v", p.Path, err)
		}
		f.Close()
	}
}

// @Summary      Экспорт продуктов одним PDF
// @Tags         Products
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/export/pdf [get]
func (h *ProductHandler) ExportPDF(c *gin.Context) {
	m, err := h.loadManifest()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "manifest unavailable"})
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="productos.pdf"`)

	if err := h.pdfGen.WriteCatalog(m.Products, c.Writer); err != nil {
		log.Printf("[products][pdf] generation failed: %v", err)
	}
}
