package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/casc/cascade/codebase"
)

func TestPrintDiagnostics(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	var buf bytes.Buffer
	printDiagnostics(&buf, []codebase.Diagnostic{
		{Path: filepath.Join(cwd, "a.cas"), Start: codebase.Position{Line: 1, Character: 6}, Message: "expected `;`"},
		{Path: filepath.Join(cwd, "sub", "b.cas"), Message: "expected item, found `}`"},
	})
	assert.Equal(t, "a.cas:2:7: expected `;`\n"+filepath.Join("sub", "b.cas")+":1:1: expected item, found `}`\n", buf.String())
}

func TestCountFiles(t *testing.T) {
	assert.Equal(t, 2, countFiles([]codebase.Diagnostic{{Path: "a"}, {Path: "b"}, {Path: "a"}}))
	assert.Zero(t, countFiles(nil))
}

func TestCheckProjectPaths(t *testing.T) {
	p, err := checkProject([]string{"testdata", "x.cas"})
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(cwd, "testdata"), filepath.Join(cwd, "x.cas")}, p.SourceDirs())
}
