package models

// Product — позиция из products/manifest.json (статические материалы курса).
type Product struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
}

type ProductManifest struct {
	Products []Product `json:"products"`
}
