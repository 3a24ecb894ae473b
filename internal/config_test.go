package internal

import (
	"strings"
	"testing"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	home, ok := cfg.Page("home")
	if !ok {
		t.Fatal("home page missing from defaults")
	}
	p := home.Policy()
	if p.Limit != 3 || p.Category != "diary" {
		t.Errorf("home policy = %+v", p)
	}
	featured, _ := cfg.Page("featured")
	if !featured.Policy().FeaturedOnly {
		t.Error("featured page should filter on featured")
	}
}

func TestContentConfig_SourceRules(t *testing.T) {
	cases := []struct {
		name    string
		cfg     ContentConfig
		wantErr bool
	}{
		{"fs with root", ContentConfig{Source: SourceFS, Root: "./content"}, false},
		{"fs default source", ContentConfig{Root: "./content"}, false},
		{"fs without root", ContentConfig{Source: SourceFS}, true},
		{"http with url", ContentConfig{Source: SourceHTTP, BaseURL: "https://example.com/content/"}, false},
		{"http without url", ContentConfig{Source: SourceHTTP}, true},
		{"unknown", ContentConfig{Source: "ftp", Root: "x"}, true},
	}
	for _, tc := range cases {
		err := tc.cfg.Validate()
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tc.name, err, tc.wantErr)
		}
	}
}

func TestContentConfig_DefaultManifest(t *testing.T) {
	cfg := ContentConfig{Root: "x"}
	_ = cfg.Validate()
	if cfg.Manifest != "index.json" {
		t.Errorf("manifest = %q", cfg.Manifest)
	}
}

func TestPageConfig_Validate(t *testing.T) {
	cases := []struct {
		page    PageConfig
		wantErr bool
	}{
		{PageConfig{Name: "home", Category: "diary", Limit: 3}, false},
		{PageConfig{Name: "Home", Category: "diary"}, true},
		{PageConfig{Name: "notes", Category: "notes"}, true},
		{PageConfig{Name: "diary", Category: "diary", Limit: -1}, true},
		{PageConfig{Category: "diary"}, true},
	}
	for _, tc := range cases {
		err := tc.page.Validate()
		if (err != nil) != tc.wantErr {
			t.Errorf("%+v: err = %v, wantErr %v", tc.page, err, tc.wantErr)
		}
	}
}

func TestConfig_DuplicatePages(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Pages = append(cfg.Pages, PageConfig{Name: "home", Category: "music"})
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate page error, got %v", err)
	}
}

func TestConfig_NoPages(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Pages = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error without pages")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}
