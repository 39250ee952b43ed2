package main

import (
	"strings"
	"testing"

	"github.com/seoscan/seoscan/internal/config"
)

// TestNewServeCmd tests the serve command creation.
func TestNewServeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewServeCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "serve" {
			t.Errorf("expected use 'serve', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has addr flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("addr")
		if flag == nil {
			t.Fatal("expected addr flag")
		}
		if flag.Shorthand != "a" {
			t.Errorf("expected shorthand 'a', got %q", flag.Shorthand)
		}
		if flag.DefValue != config.DefaultListenAddr {
			t.Errorf("expected default %q, got %q", config.DefaultListenAddr, flag.DefValue)
		}
	})

	t.Run("has config flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("config")
		if flag == nil {
			t.Fatal("expected config flag")
		}
		if flag.Shorthand != "c" {
			t.Errorf("expected shorthand 'c', got %q", flag.Shorthand)
		}
	})

	t.Run("has estimate flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("estimate")
		if flag == nil {
			t.Fatal("expected estimate flag")
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})
}

// TestBuildServeConfig tests serve configuration building from flags.
func TestBuildServeConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	t.Run("builds config with default values", func(t *testing.T) {
		cmd := NewServeCmd()
		cfg, err := buildServeConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.ListenAddr != config.DefaultListenAddr {
			t.Errorf("expected default listen addr, got %q", cfg.ListenAddr)
		}
		if cfg.AllowEstimates {
			t.Error("expected AllowEstimates to be false")
		}
	})

	t.Run("builds config with custom addr", func(t *testing.T) {
		cmd := NewServeCmd()
		_ = cmd.Flags().Set("addr", ":9090")

		cfg, err := buildServeConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.ListenAddr != ":9090" {
			t.Errorf("expected listen addr ':9090', got %q", cfg.ListenAddr)
		}
	})

	t.Run("fails on explicit missing credentials file", func(t *testing.T) {
		cmd := NewServeCmd()
		_ = cmd.Flags().Set("config", "/nonexistent/creds.yaml")

		_, err := buildServeConfig(cmd)
		if err == nil {
			t.Fatal("expected error for missing credentials file")
		}
		if !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected 'not found' error, got %v", err)
		}
	})
}
