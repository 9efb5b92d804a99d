package doctest

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// packageEntry matches "//   - name: description" lines of the root package doc.
var packageEntry = regexp.MustCompile(`^\s+- ([a-z]+):`)

func repoRoot(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller(0) failed to retrieve file path")
	return filepath.Join(filepath.Dir(thisFile), "..", "..")
}

// documentedPackages returns the packages listed under "# Packages" in doc.go.
func documentedPackages(t *testing.T, root string) []string {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filepath.Join(root, "doc.go"), nil, parser.ParseComments|parser.PackageClauseOnly)
	require.NoError(t, err)
	require.NotNil(t, f.Doc, "doc.go has no package comment")

	var names []string
	inSection := false
	for _, line := range strings.Split(f.Doc.Text(), "\n") {
		if strings.HasPrefix(line, "# ") {
			inSection = line == "# Packages"
			continue
		}
		if !inSection {
			continue
		}
		if m := packageEntry.FindStringSubmatch(line); m != nil {
			names = append(names, m[1])
		}
	}
	sort.Strings(names)
	return names
}

// publicPackages returns the top-level directories holding non-test Go files.
func publicPackages(t *testing.T, root string) []string {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			continue
		}
		switch name {
		case "cmd", "internal", "integration":
			continue
		}
		files, err := filepath.Glob(filepath.Join(root, name, "*.go"))
		require.NoError(t, err)
		for _, file := range files {
			if !strings.HasSuffix(file, "_test.go") {
				names = append(names, name)
				break
			}
		}
	}
	sort.Strings(names)
	return names
}

func TestRootDocListsEveryPackage(t *testing.T) {
	root := repoRoot(t)
	assert.Equal(t, publicPackages(t, root), documentedPackages(t, root))
}

func TestPackagesHaveDocComments(t *testing.T) {
	root := repoRoot(t)
	for _, name := range publicPackages(t, root) {
		t.Run(name, func(t *testing.T) {
			files, err := filepath.Glob(filepath.Join(root, name, "*.go"))
			require.NoError(t, err)

			documented := false
			for _, file := range files {
				if strings.HasSuffix(file, "_test.go") {
					continue
				}
				f, err := parser.ParseFile(token.NewFileSet(), file, nil, parser.ParseComments|parser.PackageClauseOnly)
				require.NoError(t, err)
				assert.Equal(t, name, f.Name.Name, file)
				if f.Doc != nil && strings.HasPrefix(f.Doc.Text(), "Package "+name+" ") {
					documented = true
				}
			}
			assert.True(t, documented, "package %s has no doc comment", name)
		})
	}
}
