package diff

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/merge-warden/internal/core"
)

const rawDiff = `diff --git a/app/main.go b/app/main.go
index 1111111..2222222 100644
--- a/app/main.go
+++ b/app/main.go
@@ -1,3 +1,4 @@ package main
 package main

+import "fmt"
 func main() {}
diff --git a/logo.png b/logo.png
index 3333333..4444444 100644
Binary files a/logo.png and b/logo.png differ
`

func TestBuild_FromRawDiff(t *testing.T) {
	ex := Build(rawDiff, nil, 0)

	require.Equal(t, 2, ex.Files)
	assert.False(t, ex.Truncated)
	assert.Equal(t, []string{"logo.png"}, ex.Binary)
	assert.Contains(t, ex.Text, "File: app/main.go\n@@ -1,3 +1,4 @@ package main\n")
	assert.Contains(t, ex.Text, "+import \"fmt\"\n")
	assert.Contains(t, ex.Text, "File: logo.png\n"+core.BinaryPatch)
}

func TestBuild_FallsBackToFilePatches(t *testing.T) {
	files := []core.FileChange{
		{Path: "a.go", Patch: "@@ -1 +1 @@\n-old\n+new"},
		{Path: "img.gif", Binary: true},
	}

	ex := Build("", files, 0)

	assert.Equal(t, 2, ex.Files)
	assert.Equal(t, []string{"img.gif"}, ex.Binary)
	assert.Equal(t, "File: a.go\n@@ -1 +1 @@\n-old\n+new\nFile: img.gif\nBinary file\n", ex.Text)
}

func TestBuild_Truncates(t *testing.T) {
	files := []core.FileChange{
		{Path: "a.go", Patch: strings.Repeat("+a\n", 10)},
		{Path: "b.go", Patch: strings.Repeat("+b\n", 10)},
		{Path: "c.go", Patch: strings.Repeat("+c\n", 10)},
	}

	ex := Build("", files, 50)

	assert.True(t, ex.Truncated)
	assert.Equal(t, 1, ex.Files)
	assert.Contains(t, ex.Text, "File: a.go")
	assert.NotContains(t, ex.Text, "File: b.go")
	assert.Contains(t, ex.Text, "(2 more files truncated)")
}

func TestBuild_FirstFileLargerThanLimit(t *testing.T) {
	files := []core.FileChange{{Path: "big.go", Patch: strings.Repeat("+x\n", 100)}}

	ex := Build("", files, 20)

	assert.True(t, ex.Truncated)
	assert.Equal(t, 1, ex.Files)
	assert.Len(t, ex.Text, 20)
	assert.True(t, strings.HasPrefix(ex.Text, "File: big.go\n"))
}

func TestBuild_Empty(t *testing.T) {
	ex := Build("", nil, 100)
	assert.Empty(t, ex.Text)
	assert.Zero(t, ex.Files)
	assert.False(t, ex.Truncated)
}

func TestBuild_NeverSplitsRunes(t *testing.T) {
	files := []core.FileChange{{Path: "i18n/de.txt", Patch: "+" + strings.Repeat("ä", 40)}}

	for limit := 15; limit < 40; limit++ {
		ex := Build("", files, limit)
		assert.True(t, utf8.ValidString(ex.Text), "limit %d", limit)
		assert.LessOrEqual(t, len(ex.Text), limit)
	}
}

func TestBuild_StaysWithinLimitWithNote(t *testing.T) {
	files := []core.FileChange{
		{Path: "a.go", Patch: strings.Repeat("+a\n", 10)},
		{Path: "b.go", Patch: strings.Repeat("+b\n", 10)},
		{Path: "c.go", Patch: strings.Repeat("+c\n", 10)},
		{Path: "d.go", Patch: strings.Repeat("+d\n", 10)},
	}

	for limit := 40; limit <= 200; limit += 7 {
		ex := Build("", files, limit)
		assert.LessOrEqual(t, len(ex.Text), limit, "limit %d", limit)
		if ex.Files < len(files) {
			assert.True(t, ex.Truncated)
		}
	}
}

func TestClip(t *testing.T) {
	assert.Equal(t, "abc", Clip("abc", 10))
	assert.Equal(t, "ab", Clip("abc", 2))
	assert.Empty(t, Clip("abc", 0))
	assert.Equal(t, "a", Clip("aé", 2))
	assert.Equal(t, "aé", Clip("aé", 3))
}
