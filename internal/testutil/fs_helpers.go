package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ScannerSource is a trimmed copy of the scanner GUI entry point with its
// version marker at the given value.
func ScannerSource(markerValue string) string {
	return `# -*- coding: utf-8 -*-
"""Scanner GUI (Desktop) - interface grafica para scanner3.py."""

import scanner3 as s3
import updater_github as upd


APP_TITLE = "Scanner GUI"
# Atualize este numero quando publicar uma nova versao no GitHub Releases.
APP_VERSION = "` + markerValue + `"

GITHUB_OWNER = "xuniorss"
GITHUB_REPO = "muscanner"
GITHUB_ASSET_NAME = "ScannerGUI.exe"
`
}

// WriteFile writes content to a file, creating parent directories if needed.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

// ReadFile reads file content, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}

	return string(content)
}
