package permutations

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stackerrors "github.com/matzehuels/stacknotes/pkg/errors"
	"github.com/matzehuels/stacknotes/pkg/integrations/npm"
	"github.com/matzehuels/stacknotes/pkg/notebookmap"
)

func TestListSourceDirectional(t *testing.T) {
	set, err := ListSource{Packages: []string{"react", "Redux", " vue ", "react", ""}}.Permutations(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Set{
		{A: "react", Bs: []string{"redux", "vue"}},
		{A: "redux", Bs: []string{"react", "vue"}},
		{A: "vue", Bs: []string{"react", "redux"}},
	}, set)
	assert.Equal(t, 6, set.Count())
}

func TestListSourceSymmetric(t *testing.T) {
	set, err := ListSource{Packages: []string{"vue", "react", "redux"}, Mode: notebookmap.ModeSymmetric}.Permutations(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Set{
		{A: "vue", Bs: []string{"react", "redux"}},
		{A: "react", Bs: []string{"redux"}},
	}, set)
	assert.Equal(t, 3, set.Count())
}

func TestListSourceSinglePackage(t *testing.T) {
	set, err := ListSource{Packages: []string{"react"}}.Permutations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestListSourceInvalidName(t *testing.T) {
	_, err := ListSource{Packages: []string{"react", "../etc"}}.Permutations(context.Background())
	assert.True(t, stackerrors.Is(err, stackerrors.ErrCodeInvalidPackage), "got %v", err)
}

func TestSetEach(t *testing.T) {
	set := Set{{A: "a", Bs: []string{"b", "c"}}, {A: "d", Bs: []string{"e"}}}

	var got []string
	err := set.Each(func(a, b string) error {
		got = append(got, a+"/"+b)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b", "a/c", "d/e"}, got)

	stop := errors.New("stop")
	var n int
	err = set.Each(func(a, b string) error {
		n++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, n)

	assert.Equal(t, []notebookmap.Pair{{A: "a", B: "b"}, {A: "a", B: "c"}, {A: "d", B: "e"}}, set.Pairs())

	same, err := set.Permutations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, set, same)
}

type stubRegistry map[string][]string

func (s stubRegistry) FetchPackage(_ context.Context, pkg string, _ bool) (*npm.PackageInfo, error) {
	deps, ok := s[pkg]
	if !ok {
		return nil, errors.New("no such package")
	}
	return &npm.PackageInfo{Name: pkg, Version: "1.0.0", Dependencies: deps}, nil
}

func TestDependencySource(t *testing.T) {
	reg := stubRegistry{
		"react-redux": {"react", "redux", "hoist-non-react-statics"},
		"redux":       {"react-redux", "@babel/runtime"},
	}

	t.Run("directional", func(t *testing.T) {
		set, err := DependencySource{Roots: []string{"react-redux", "redux"}, Packages: reg, MaxDeps: 2}.Permutations(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Set{
			{A: "react-redux", Bs: []string{"react", "redux"}},
			{A: "redux", Bs: []string{"react-redux", "@babel/runtime"}},
		}, set)
	})

	t.Run("symmetric skips mirrored pairs", func(t *testing.T) {
		set, err := DependencySource{Roots: []string{"react-redux", "redux"}, Packages: reg, Mode: notebookmap.ModeSymmetric}.Permutations(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Set{
			{A: "react-redux", Bs: []string{"react", "redux", "hoist-non-react-statics"}},
			{A: "redux", Bs: []string{"@babel/runtime"}},
		}, set)
	})

	t.Run("registry failure", func(t *testing.T) {
		_, err := DependencySource{Roots: []string{"missing"}, Packages: reg}.Permutations(context.Background())
		assert.True(t, stackerrors.Is(err, stackerrors.ErrCodeUpstream), "got %v", err)
	})
}

func TestLoadPackageList(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	want := []string{"react", "redux"}

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml mapping", "list.yaml", "packages:\n  - react\n  - redux\n"},
		{"yaml sequence", "list.yml", "- react\n- redux\n"},
		{"toml", "list.toml", "packages = [\"react\", \"redux\"]\n"},
		{"text", "list.txt", "# frameworks\nreact\n\n  redux  # state\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadPackageList(write(tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	t.Run("missing", func(t *testing.T) {
		_, err := LoadPackageList(filepath.Join(dir, "nope.txt"))
		assert.True(t, stackerrors.Is(err, stackerrors.ErrCodeFileNotFound), "got %v", err)
	})

	t.Run("bad toml", func(t *testing.T) {
		_, err := LoadPackageList(write("bad.toml", "packages = [\n"))
		assert.True(t, stackerrors.Is(err, stackerrors.ErrCodeParse), "got %v", err)
	})

	t.Run("empty yaml", func(t *testing.T) {
		got, err := LoadPackageList(write("empty.yaml", ""))
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
