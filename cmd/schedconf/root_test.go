package main

import (
	"testing"
)

func TestLoadSettingsFromEnvironment(t *testing.T) {
	t.Setenv("SCHEDCONF_CONFIG", "base.yaml,site.yaml")
	t.Setenv("SCHEDCONF_LOG_LEVEL", "warn")
	t.Setenv("SCHEDCONF_RELOAD_SCHEDULE", "@every 5m")

	s, err := loadSettings()
	if err != nil {
		t.Fatalf("loadSettings() error = %v", err)
	}

	if len(s.Config) != 2 || s.Config[0] != "base.yaml" || s.Config[1] != "site.yaml" {
		t.Errorf("Config = %v, want [base.yaml site.yaml]", s.Config)
	}
	if s.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want %q", s.LogLevel, "warn")
	}
	if s.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want default %q", s.LogFormat, "text")
	}
	if s.ReloadSchedule != "@every 5m" {
		t.Errorf("ReloadSchedule = %q, want %q", s.ReloadSchedule, "@every 5m")
	}
	if s.MetricsAddr != "" {
		t.Errorf("MetricsAddr = %q, want empty", s.MetricsAddr)
	}
	if s.OTLPEndpoint != "" || s.TraceSampler != "always" || s.TraceRatio != 1 {
		t.Errorf("tracing settings = %q/%q/%g, want disabled with defaults", s.OTLPEndpoint, s.TraceSampler, s.TraceRatio)
	}
}

func TestLoadSettingsInvalidRatio(t *testing.T) {
	t.Setenv("SCHEDCONF_TRACE_RATIO", "half")

	if _, err := loadSettings(); err == nil {
		t.Error("loadSettings() with a non-numeric ratio should return error")
	}
}

func TestConfigPathsRequired(t *testing.T) {
	orig := settings
	defer func() { settings = orig }()

	settings = Settings{}
	if _, err := configPaths(); err == nil {
		t.Error("configPaths() without configuration files should return error")
	}

	settings = Settings{Config: []string{"schedule.yaml"}}
	paths, err := configPaths()
	if err != nil {
		t.Fatalf("configPaths() error = %v", err)
	}
	if len(paths) != 1 {
		t.Errorf("configPaths() = %v, want one path", paths)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"show": false, "validate": false, "watch": false, "version": false, "history": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q is not registered", name)
		}
	}
}
