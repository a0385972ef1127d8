package groups

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type groupFile struct {
	Groups []Group `json:"groups" yaml:"groups"`
}

// Load decodes a JSON or YAML group file. The payload is an object with a
// "groups" list; every entry needs a name, template id and container id.
func Load(data []byte, source string) ([]Group, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("groups: file %s is empty", source)
	}

	var doc groupFile
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = groupFile{}
		if yerr := yaml.Unmarshal(data, &doc); yerr != nil {
			return nil, fmt.Errorf("groups: parse %s: invalid JSON or YAML", source)
		}
	}

	if len(doc.Groups) == 0 {
		return nil, fmt.Errorf("groups: file %s defines no groups", source)
	}

	out := make([]Group, 0, len(doc.Groups))
	seen := make(map[string]struct{}, len(doc.Groups))
	for idx, raw := range doc.Groups {
		group := raw.Normalize()
		if group.Name == "" {
			return nil, fmt.Errorf("groups: file %s defines an empty name at index %d", source, idx)
		}
		if _, exists := seen[group.Name]; exists {
			return nil, fmt.Errorf("groups: file %s defines duplicate group %q", source, group.Name)
		}
		if group.TemplateID == "" {
			return nil, fmt.Errorf("groups: file %s group %q is missing templateId", source, group.Name)
		}
		if group.ContainerID == "" {
			return nil, fmt.Errorf("groups: file %s group %q is missing containerId", source, group.Name)
		}
		seen[group.Name] = struct{}{}
		out = append(out, group)
	}
	return out, nil
}

// LoadFS walks fsys and loads every JSON/YAML group file in lexical path
// order. Group names must be unique across files.
func LoadFS(fsys fs.FS) (*Set, error) {
	set := NewSet()
	if fsys == nil {
		return set, nil
	}

	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isGroupFile(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("groups: read %s: %w", path, err)
		}
		loaded, err := Load(data, path)
		if err != nil {
			return nil, err
		}
		for _, group := range loaded {
			if err := set.Add(group); err != nil {
				return nil, fmt.Errorf("%w (file %s)", err, path)
			}
		}
	}
	return set, nil
}

func isGroupFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
