package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points XDG_CONFIG_HOME and the working directory at a temp dir and
// clears STEPDECK_* variables.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	for key := range defaults {
		t.Setenv("STEPDECK_"+strings.ToUpper(key), "")
		_ = os.Unsetenv("STEPDECK_" + strings.ToUpper(key))
	}
	return tmpDir
}

func TestGlobalPath(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got, want := GlobalPath(), "/custom/config/stepdeck/stepdeck.yml"; got != want {
			t.Errorf("GlobalPath() = %v, want %v", got, want)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		got := GlobalPath()
		if !filepath.IsAbs(got) {
			t.Errorf("GlobalPath() should return absolute path, got %v", got)
		}
		if !strings.HasSuffix(got, filepath.Join(".config", "stepdeck", "stepdeck.yml")) {
			t.Errorf("GlobalPath() should end with .config/stepdeck/stepdeck.yml, got %v", got)
		}
	})
}

func TestProjectPath(t *testing.T) {
	if got, want := ProjectPath(), "stepdeck.yml"; got != want {
		t.Errorf("ProjectPath() = %v, want %v", got, want)
	}
}

func TestExists(t *testing.T) {
	isolate(t)

	if Exists() {
		t.Error("Exists() = true, want false when no config files exist")
	}

	if err := os.WriteFile(ProjectPath(), []byte("loop: true\n"), 0644); err != nil {
		t.Fatalf("Failed to write project config: %v", err)
	}
	if !Exists() {
		t.Error("Exists() = false, want true when project config exists")
	}
}

func TestLoad_NoConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Default()
	if *cfg != *want {
		t.Errorf("Load() with no config = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)

	global := Default()
	global.Loop = true
	global.CodeTheme = "dracula"
	global.TabWidth = 8
	if err := WriteGlobal(global); err != nil {
		t.Fatalf("WriteGlobal() error = %v", err)
	}

	if err := os.WriteFile(ProjectPath(), []byte("tab_width: 2\nautoplay: 1500\n"), 0644); err != nil {
		t.Fatalf("Failed to write project config: %v", err)
	}
	t.Setenv("STEPDECK_CODE_THEME", "github")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.Loop {
		t.Error("Loop from global config was lost")
	}
	if cfg.TabWidth != 2 {
		t.Errorf("TabWidth = %d, want project value 2", cfg.TabWidth)
	}
	if cfg.CodeTheme != "github" {
		t.Errorf("CodeTheme = %q, want env value github", cfg.CodeTheme)
	}
	d, err := cfg.AutoPlayInterval()
	if err != nil || d != 1500*time.Millisecond {
		t.Errorf("AutoPlayInterval() = %v, %v; want 1.5s", d, err)
	}
}

func TestLoad_InvalidAutoplay(t *testing.T) {
	isolate(t)
	t.Setenv("STEPDECK_AUTOPLAY", "sometimes")

	if _, err := Load(); err == nil {
		t.Error("Load() should reject an invalid autoplay value")
	}
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"0s", 0, false},
		{"4s", 4 * time.Second, false},
		{"250ms", 250 * time.Millisecond, false},
		{"2000", 2 * time.Second, false},
		{" 10 ", 10 * time.Millisecond, false},
		{"-1s", 0, true},
		{"-5", 0, true},
		{"10x", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInterval(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseInterval(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseInterval(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteProject(t *testing.T) {
	isolate(t)

	cfg := Default()
	cfg.PreviewAddr = "127.0.0.1:7777"
	cfg.SharePort = 4222
	if err := WriteProject(cfg); err != nil {
		t.Fatalf("WriteProject() error = %v", err)
	}

	data, err := os.ReadFile(ProjectPath())
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}
	content := string(data)
	for _, field := range []string{
		"preview_addr: 127.0.0.1:7777",
		"share_port: 4222",
		"code_theme: monokai",
		"auto_focus: true",
		"watch: true",
	} {
		if !strings.Contains(content, field) {
			t.Errorf("Config file missing expected field: %s\nContent:\n%s", field, content)
		}
	}
}

func TestCode(t *testing.T) {
	cfg := Default()
	cfg.LineNumbers = false
	code := cfg.Code()
	if code.Theme != "monokai" || code.TabWidth != 4 {
		t.Errorf("Code() = %+v", code)
	}
	if code.LineNumbers == nil || *code.LineNumbers {
		t.Error("Code() should carry an explicit line_numbers=false")
	}
}
