package assets

import (
	"embed"
	"io/fs"
)

// Curated assets embedded into the binary so config validation and
// report rendering work without any files on disk.

//go:embed embedded_schemas
var Schemas embed.FS

//go:embed embedded_templates
var Templates embed.FS

// GetSchema returns the embedded schema bytes by full embedded path
// (e.g., "embedded_schemas/schemas/config/v1.0.0/rewrite.yaml").
func GetSchema(path string) ([]byte, bool) {
	data, err := Schemas.ReadFile(path)
	return data, err == nil
}

// GetTemplate returns the embedded template bytes by name
// (e.g., "report.html.tmpl").
func GetTemplate(name string) ([]byte, bool) {
	data, err := fs.ReadFile(GetTemplatesFS(), name)
	return data, err == nil
}

func GetTemplatesFS() fs.FS {
	if sub, err := fs.Sub(Templates, "embedded_templates"); err == nil {
		return sub
	}
	return Templates
}

func GetSchemasFS() fs.FS {
	if sub, err := fs.Sub(Schemas, "embedded_schemas"); err == nil {
		return sub
	}
	return Schemas
}
