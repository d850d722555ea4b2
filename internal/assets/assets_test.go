package assets

import (
	"bytes"
	"io/fs"
	"testing"
)

func TestGetTemplatesFS(t *testing.T) {
	fsys := GetTemplatesFS()
	if fsys == nil {
		t.Fatal("GetTemplatesFS returned nil")
	}

	data, err := fs.ReadFile(fsys, "report.html.tmpl")
	if err != nil {
		t.Fatalf("Failed to read report template: %v", err)
	}
	if len(data) == 0 {
		t.Error("Report template is empty")
	}
	if !bytes.Contains(data, []byte("{{#each Files}}")) {
		t.Fatalf("report template should iterate over Files")
	}
	if !bytes.Contains(data, []byte("Summary.TotalChanges")) {
		t.Fatalf("report template should render the change total")
	}
}

func TestGetSchemasFS(t *testing.T) {
	fsys := GetSchemasFS()
	if fsys == nil {
		t.Fatal("GetSchemasFS returned nil")
	}

	data, err := fs.ReadFile(fsys, "schemas/config/v1.0.0/rewrite.yaml")
	if err != nil {
		t.Fatalf("Failed to read schema: %v", err)
	}
	if len(data) == 0 {
		t.Error("Schema file is empty")
	}
}

func TestGetSchema(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantData bool
	}{
		{"valid schema", "embedded_schemas/schemas/config/v1.0.0/rewrite.yaml", true},
		{"invalid path", "nonexistent/schema.yaml", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, ok := GetSchema(tt.path)
			if ok != tt.wantData {
				t.Errorf("GetSchema(%q) ok = %v; want %v", tt.path, ok, tt.wantData)
			}
			if ok && len(data) == 0 {
				t.Errorf("GetSchema(%q) returned empty data when ok=true", tt.path)
			}
		})
	}
}

func TestGetTemplate(t *testing.T) {
	tests := []struct {
		name     string
		tmpl     string
		wantData bool
	}{
		{"report template", "report.html.tmpl", true},
		{"unknown template", "missing.tmpl", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, ok := GetTemplate(tt.tmpl)
			if ok != tt.wantData {
				t.Errorf("GetTemplate(%q) ok = %v; want %v", tt.tmpl, ok, tt.wantData)
			}
			if ok && len(data) == 0 {
				t.Errorf("GetTemplate(%q) returned empty data when ok=true", tt.tmpl)
			}
		})
	}
}
