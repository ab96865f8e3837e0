package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPathFunctions(t *testing.T) {
	root := "/test/lib"

	tests := []struct {
		name string
		fn   func(string) string
		want string
	}{
		{"LibraryPath", LibraryPath, "/test/lib/.physform"},
		{"ConfigPath", ConfigPath, "/test/lib/.physform/config.json"},
		{"CatalogPath", CatalogPath, "/test/lib/.physform/formulas.txt"},
		{"CachePath", CachePath, "/test/lib/.physform/cache"},
		{"DBPath", DBPath, "/test/lib/.physform/cache/formulas.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(root)
			if got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.name, root, got, tt.want)
			}
		})
	}
}

func TestIsLibrary(t *testing.T) {
	tmpDir := t.TempDir()

	if IsLibrary(tmpDir) {
		t.Error("IsLibrary() = true for plain directory")
	}

	if err := os.Mkdir(filepath.Join(tmpDir, LibraryDir), 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", LibraryDir, err)
	}

	if !IsLibrary(tmpDir) {
		t.Error("IsLibrary() = false for library directory")
	}
}

func TestIsLibrary_FileNotDir(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, LibraryDir), []byte("not a dir"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	if IsLibrary(tmpDir) {
		t.Error("IsLibrary() = true when .physform is a file")
	}
}

func TestFindLibrary(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, LibraryDir), 0755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(tmpDir, "a", "b", "c")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindLibrary(nested)
	if err != nil {
		t.Fatalf("FindLibrary() error = %v", err)
	}
	want, _ := filepath.Abs(tmpDir)
	if got != want {
		t.Errorf("FindLibrary() = %q, want %q", got, want)
	}
}

func TestFindLibrary_NotFound(t *testing.T) {
	_, err := FindLibrary(t.TempDir())
	if err == nil {
		t.Fatal("FindLibrary() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "not in a formula library") {
		t.Errorf("error = %v", err)
	}
}

func TestLoadSave(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(LibraryPath(tmpDir), 0755); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{
		Backend:   BackendS3,
		S3:        S3Config{Bucket: "b", Key: "k.txt", Region: "eu-west-1", PathStyle: true},
		RenderURL: "https://render.example/png?",
		RenderDPI: 150,
	}
	if err := cfg.Save(tmpDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Load() = %+v, want %+v", loaded, cfg)
	}
}

func TestLoad_DefaultsBackend(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(LibraryPath(tmpDir), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ConfigPath(tmpDir), []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend != BackendFile {
		t.Errorf("Backend = %q, want %q", cfg.Backend, BackendFile)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(LibraryPath(tmpDir), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ConfigPath(tmpDir), []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Error("Load() error = nil for invalid JSON")
	}
}

func TestConfigSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		check   func(*Config) bool
	}{
		{"backend", "s3", false, func(c *Config) bool { return c.Backend == "s3" }},
		{"backend", "ftp", true, nil},
		{"s3.bucket", "formulas", false, func(c *Config) bool { return c.S3.Bucket == "formulas" }},
		{"s3.path_style", "true", false, func(c *Config) bool { return c.S3.PathStyle }},
		{"render_dpi", "300", false, func(c *Config) bool { return c.RenderDPI == 300 }},
		{"render_dpi", "-1", true, nil},
		{"render_dpi", "big", true, nil},
		{"unknown", "x", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := Default()
			err := cfg.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("Set(%q, %q) did not apply: %+v", tt.key, tt.value, cfg)
			}
		})
	}
}

func TestConfigGet_RoundTripsSet(t *testing.T) {
	values := map[string]string{
		"backend":       "s3",
		"s3.bucket":     "formulas",
		"s3.key":        "physics/formulas.txt",
		"s3.region":     "eu-central-1",
		"s3.endpoint":   "http://localhost:9000",
		"s3.path_style": "true",
		"render_url":    "https://render.example/?",
		"render_dpi":    "150",
	}

	cfg := Default()
	for _, key := range Keys {
		if err := cfg.Set(key, values[key]); err != nil {
			t.Fatalf("Set(%q) error = %v", key, err)
		}
	}
	for _, key := range Keys {
		got, err := cfg.Get(key)
		if err != nil {
			t.Fatalf("Get(%q) error = %v", key, err)
		}
		if got != values[key] {
			t.Errorf("Get(%q) = %q, want %q", key, got, values[key])
		}
	}

	if _, err := cfg.Get("pdf_root"); err == nil {
		t.Error("Get(unknown) error = nil")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~/lib", filepath.Join(home, "lib")},
		{"/abs/lib", "/abs/lib"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.input); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
