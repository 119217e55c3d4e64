package config

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"repo_root":   ".",
		"marker_file": "gui_scanner_pro.py",
		"marker_name": "APP_VERSION",
		"stage_paths": []string{
			"DEPLOY.md",
			".github/workflows/release.yml",
			"updater_github.py",
			"tools",
		},
		"workflow_file":     ".github/workflows/release.yml",
		"remote":            "origin",
		"release_tool":      "gh",
		"github_owner":      "xuniorss",
		"github_repo":       "muscanner",
		"github_api_url":    "https://api.github.com",
		"asset_name":        "ScannerGUI.exe",
		"http_timeout":      10,
		"enforce_monotonic": false,
	}
}
