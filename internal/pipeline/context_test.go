package pipeline

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/merge-warden/internal/core"
	"github.com/sevigo/merge-warden/internal/github"
	"github.com/sevigo/merge-warden/mocks"
)

func TestFetchBaseContext_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	files := []core.FileChange{{Path: "a.go", Status: core.FileModified}}
	got := fetchBaseContext(t.Context(), client, "octo", "app", "main", files, 0)

	assert.Empty(t, got.Text)
	assert.Empty(t, got.Errors)
}

func TestFetchBaseContext_ClipsToBudget(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	files := []core.FileChange{
		{Path: "README.md", Status: core.FileModified},
		{Path: "docs/guide.md", Status: core.FileModified},
	}
	client.EXPECT().ListDirectory(gomock.Any(), "octo", "app", "", "main").Return([]string{"README.md"}, nil)
	client.EXPECT().ListDirectory(gomock.Any(), "octo", "app", "docs", "main").
		Return(nil, &github.ProviderError{Op: "list directory", Status: 502, Message: "Bad Gateway", Kind: core.ErrProvider})
	client.EXPECT().GetFileContent(gomock.Any(), "octo", "app", "README.md", "main").Return(strings.Repeat("ü", 100), nil)

	got := fetchBaseContext(t.Context(), client, "octo", "app", "main", files, 51)

	assert.LessOrEqual(t, len(got.Text), 51)
	assert.True(t, utf8.ValidString(got.Text))
	assert.True(t, strings.HasPrefix(got.Text, "File: README.md\n"))
	assert.Equal(t, 1, got.Files)
	assert.Equal(t, []string{"Failed to list docs: Bad Gateway"}, got.Errors)
}

func TestFetchBaseContext_CapsFileCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	var files []core.FileChange
	for i := range maxContextFiles + 5 {
		files = append(files, core.FileChange{Path: fmt.Sprintf("pkg/f%02d.go", i), Status: core.FileModified})
	}
	client.EXPECT().GetFileContent(gomock.Any(), "octo", "app", gomock.Any(), "main").
		Return("x", nil).Times(maxContextFiles)

	got := fetchBaseContext(t.Context(), client, "octo", "app", "main", files, 100000)

	assert.Equal(t, maxContextFiles, got.Files)
	assert.Contains(t, got.Text, "File: pkg/f00.go\nx\n")
	assert.NotContains(t, got.Text, fmt.Sprintf("pkg/f%02d.go", maxContextFiles))
}
