package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/egress/pkg/cli"
	"mercator-hq/egress/pkg/config"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersionCommand(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()
	Version, GitCommit = "0.1.0-test", "abc123"

	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)
	versionCmd.Run(versionCmd, nil)

	out := buf.String()
	if !strings.Contains(out, "Mercator Egress 0.1.0-test") || !strings.Contains(out, "Git Commit: abc123") {
		t.Errorf("output = %q", out)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"run": false, "validate": false, "regions": false, "version": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestCheckConfig(t *testing.T) {
	t.Setenv("EGRESS_AUTH_TOKEN", "")

	valid := writeFile(t, `
auth:
  tokens: ["secret"]
regions:
  weur:
    egress:
      proxy_url: "http://fra-egress.internal:3128"
placement:
  enabled: true
`)
	report := checkConfig(valid)
	if !report.Valid || report.Tokens != 1 || !report.Placement {
		t.Fatalf("report = %+v", report)
	}
	if len(report.Overrides) != 1 || report.Overrides[0] != "weur" {
		t.Errorf("overrides = %v", report.Overrides)
	}
	if !strings.HasPrefix(report.String(), "✓ ") {
		t.Errorf("text = %q", report.String())
	}

	invalid := writeFile(t, `
soap:
  charset: "Shift_JIS"
`)
	report = checkConfig(invalid)
	if report.Valid {
		t.Fatal("config without tokens should be invalid")
	}
	fields := map[string]bool{}
	for _, e := range report.Errors {
		fields[e.Field] = true
	}
	if !fields["auth.tokens"] || !fields["soap.charset"] {
		t.Errorf("errors = %v", report.Errors)
	}
	if !strings.Contains(report.String(), "soap.charset") {
		t.Errorf("text = %q", report.String())
	}

	missing := checkConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if missing.Valid || len(missing.Errors) != 1 || !strings.Contains(missing.Errors[0].Message, "not found") {
		t.Errorf("missing file report = %+v", missing)
	}
}

func TestValidationReport_JSON(t *testing.T) {
	report := validationReport{
		Path:   "config.yaml",
		Errors: []*cli.ConfigError{cli.NewConfigError("auth.tokens", "required")},
	}

	var buf bytes.Buffer
	if err := cli.NewFormatter(cli.FormatJSON).FormatTo(&buf, report); err != nil {
		t.Fatal(err)
	}

	var got struct {
		Valid  bool `json:"valid"`
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Valid || len(got.Errors) != 1 || got.Errors[0].Field != "auth.tokens" {
		t.Errorf("decoded = %+v", got)
	}
}

func TestRegionViews(t *testing.T) {
	cfg := config.NewDefault()
	cfg.Regions = map[string]config.RegionConfig{
		"weur": {Description: "Frankfurt", Egress: config.EgressConfig{ProxyURL: "http://fra:3128"}},
		"apac": {Egress: config.EgressConfig{LocalAddress: "203.0.113.10"}},
	}

	views := regionViews(cfg)
	if len(views) != 8 || views[0].ID != "wnam" {
		t.Fatalf("views = %+v", views)
	}

	byID := map[string]regionView{}
	for _, v := range views {
		byID[v.ID] = v
	}
	if w := byID["weur"]; w.Description != "Frankfurt" || w.Egress == nil || !w.EU {
		t.Errorf("weur = %+v", w)
	}
	if byID["wnam"].Egress != nil {
		t.Errorf("wnam should have no egress binding")
	}

	text := views.String()
	if !strings.HasPrefix(text, "ID") || !strings.Contains(text, "http://fra:3128") || !strings.Contains(text, "203.0.113.10") {
		t.Errorf("table = %s", text)
	}

	var buf bytes.Buffer
	if err := cli.NewFormatter(cli.FormatYAML).FormatTo(&buf, views); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "- id: wnam\n") || !strings.Contains(buf.String(), "proxy_url: http://fra:3128") {
		t.Errorf("yaml = %s", buf.String())
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Setenv("EGRESS_AUTH_TOKEN", "")

	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), false)
	var cfgErr *cli.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("missing file error = %v", err)
	}
	if cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("exit code = %d", cli.ExitCode(err))
	}

	_, err = loadConfig(writeFile(t, "proxy: {}\n"), false)
	var valErr config.ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("expected validation error, got %v", err)
	}
}
