package health

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CheckWorkflow checks that the release CI workflow at path parses and runs
// when a tag is pushed. Without that trigger, pushing the release tag
// builds nothing, so the auto-updater never sees the new version.
func CheckWorkflow(path string) CheckResult {
	res := CheckResult{Name: "Release workflow", Optional: true}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		res.Message = fmt.Sprintf("%s does not exist", path)
		return res
	}
	if err != nil {
		res.Message = err.Error()
		return res
	}

	var doc struct {
		On any `yaml:"on"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		res.Message = fmt.Sprintf("%s: invalid YAML: %v", path, err)
		return res
	}

	if !triggersOnTagPush(doc.On) {
		res.Message = fmt.Sprintf("%s does not run on tag push", path)
		return res
	}
	res.Passed = true
	res.Message = fmt.Sprintf("%s runs on tag push", path)
	return res
}

// triggersOnTagPush follows GitHub's rules for the `on:` block: a bare push
// event matches tags; a push filter matches tags unless it only filters
// branches.
func triggersOnTagPush(on any) bool {
	switch v := on.(type) {
	case string:
		return v == "push"
	case []any:
		for _, event := range v {
			if s, ok := event.(string); ok && s == "push" {
				return true
			}
		}
		return false
	case map[string]any:
		push, ok := v["push"]
		if !ok {
			return false
		}
		filters, ok := push.(map[string]any)
		if !ok {
			return true
		}
		if hasAny(filters, "tags", "tags-ignore") {
			return true
		}
		return !hasAny(filters, "branches", "branches-ignore")
	default:
		return false
	}
}

func hasAny(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}
