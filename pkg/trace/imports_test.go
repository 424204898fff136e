package trace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctxpack/ctxpack/pkg/trace"
)

func extract(t *testing.T, source string) []trace.ImportRef {
	t.Helper()

	refs, err := trace.NewImportParser().Extract([]byte(source))
	require.NoError(t, err)

	return refs
}

func TestExtractPlainImport(t *testing.T) {
	refs := extract(t, "import os\n")

	assert.Equal(t, []trace.ImportRef{{Module: "os"}}, refs)
}

func TestExtractDottedImport(t *testing.T) {
	refs := extract(t, "import a.b.c\n")

	assert.Equal(t, []trace.ImportRef{{Module: "a.b.c"}}, refs)
}

func TestExtractMultipleImports(t *testing.T) {
	refs := extract(t, "import os, sys\n")

	assert.Equal(t, []trace.ImportRef{{Module: "os"}, {Module: "sys"}}, refs)
}

func TestExtractAliasedImport(t *testing.T) {
	refs := extract(t, "import numpy as np\n")

	assert.Equal(t, []trace.ImportRef{{Module: "numpy"}}, refs)
}

func TestExtractFromImport(t *testing.T) {
	refs := extract(t, "from worker.module import speaker\n")

	// Most specific name first, then the base module.
	assert.Equal(t, []trace.ImportRef{
		{Module: "worker.module.speaker"},
		{Module: "worker.module"},
	}, refs)
}

func TestExtractFromImportMultipleNames(t *testing.T) {
	refs := extract(t, "from pkg import a, b as c\n")

	assert.Equal(t, []trace.ImportRef{
		{Module: "pkg.a"},
		{Module: "pkg.b"},
		{Module: "pkg"},
	}, refs)
}

func TestExtractRelativeImport(t *testing.T) {
	refs := extract(t, "from . import helper\n")

	assert.Equal(t, []trace.ImportRef{{Module: "helper", Level: 1}}, refs)
}

func TestExtractRelativeDottedImport(t *testing.T) {
	refs := extract(t, "from ..common import util\n")

	assert.Equal(t, []trace.ImportRef{
		{Module: "common.util", Level: 2},
		{Module: "common", Level: 2},
	}, refs)
}

func TestExtractWildcardImport(t *testing.T) {
	refs := extract(t, "from pkg import *\n")

	// Only the base module is referenced.
	assert.Equal(t, []trace.ImportRef{{Module: "pkg"}}, refs)
}

func TestExtractNestedImport(t *testing.T) {
	refs := extract(t, "def f():\n    import inner\n")

	assert.Equal(t, []trace.ImportRef{{Module: "inner"}}, refs)
}

func TestExtractDeduplicates(t *testing.T) {
	refs := extract(t, "import a\nimport a\n")

	assert.Equal(t, []trace.ImportRef{{Module: "a"}}, refs)
}

func TestExtractSourceOrder(t *testing.T) {
	refs := extract(t, "import z\nimport a\nimport m\n")

	assert.Equal(t, []trace.ImportRef{{Module: "z"}, {Module: "a"}, {Module: "m"}}, refs)
}

func TestExtractNoImports(t *testing.T) {
	refs := extract(t, "x = 1\n")

	assert.Empty(t, refs)
}
