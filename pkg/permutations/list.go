package permutations

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stacknotes/pkg/errors"
	"github.com/matzehuels/stacknotes/pkg/integrations"
	"github.com/matzehuels/stacknotes/pkg/notebookmap"
)

// ListSource pairs every package in Packages with every other one.
// In ModeDirectional both (A, B) and (B, A) are produced; in ModeSymmetric
// each unordered pair appears once, A being the package listed first.
type ListSource struct {
	Packages []string
	Mode     notebookmap.Mode
}

func (s ListSource) Permutations(ctx context.Context) (Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pkgs, err := Normalize(s.Packages)
	if err != nil {
		return nil, err
	}

	var set Set
	for i, a := range pkgs {
		var bs []string
		for j, b := range pkgs {
			if i == j || (s.Mode == notebookmap.ModeSymmetric && j < i) {
				continue
			}
			bs = append(bs, b)
		}
		if len(bs) > 0 {
			set = append(set, Entry{A: a, Bs: bs})
		}
	}
	return set, nil
}

// Normalize trims, lowercases and validates names and drops duplicates,
// keeping the first occurrence. Blank names are skipped.
func Normalize(names []string) ([]string, error) {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, raw := range names {
		name := integrations.NormalizePkgName(raw)
		if name == "" || seen[name] {
			continue
		}
		if err := errors.ValidatePackageName(name); err != nil {
			return nil, err
		}
		seen[name] = true
		out = append(out, name)
	}
	return out, nil
}

// packageList is the shape of YAML and TOML package list files.
type packageList struct {
	Packages []string `yaml:"packages" toml:"packages"`
}

// LoadPackageList reads package names from path. The format follows the
// extension: .yaml/.yml and .toml files hold a "packages" array (a bare
// YAML sequence also works); anything else is one name per line with
// blank lines and # comments ignored.
func LoadPackageList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "package list %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read package list %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAMLList(path, data)
	case ".toml":
		var list packageList
		if err := toml.Unmarshal(data, &list); err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "parse %s", path)
		}
		return list.Packages, nil
	default:
		return parseTextList(string(data)), nil
	}
}

func parseYAMLList(path string, data []byte) ([]string, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parse %s", path)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	root := node.Content[0]

	if root.Kind == yaml.SequenceNode {
		var names []string
		if err := root.Decode(&names); err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "parse %s", path)
		}
		return names, nil
	}
	var list packageList
	if err := root.Decode(&list); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parse %s", path)
	}
	return list.Packages, nil
}

func parseTextList(s string) []string {
	var names []string
	for line := range strings.Lines(s) {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names
}
