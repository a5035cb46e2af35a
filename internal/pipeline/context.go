package pipeline

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/sevigo/merge-warden/internal/core"
	"github.com/sevigo/merge-warden/internal/diff"
	"github.com/sevigo/merge-warden/internal/github"
)

// maxContextFiles caps the content requests made for one run.
const maxContextFiles = 20

// baseContext is the base-branch code shown to the AI next to the diff.
type baseContext struct {
	Text   string
	Files  int
	Errors []string
}

// fetchBaseContext loads the base-branch versions of the changed files, then
// the other files in the changed directories, until maxBytes is used up.
// Fetch failures are collected and never abort the run.
func fetchBaseContext(ctx context.Context, client github.Client, owner, repo, ref string, files []core.FileChange, maxBytes int) baseContext {
	var out baseContext
	if maxBytes <= 0 || len(files) == 0 {
		return out
	}

	changed := make(map[string]struct{}, len(files))
	dirSet := make(map[string]struct{})
	var candidates []string
	for _, f := range files {
		changed[f.Path] = struct{}{}
		dirSet[changedDir(f.Path)] = struct{}{}
		// Added and renamed paths do not exist on the base branch.
		if f.Status == core.FileAdded || f.Status == core.FileRenamed || f.Binary {
			continue
		}
		candidates = append(candidates, f.Path)
	}

	dirs := make([]string, 0, len(dirSet))
	for d := range dirSet {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	for _, dir := range dirs {
		if len(candidates) >= maxContextFiles {
			break
		}
		entries, err := client.ListDirectory(ctx, owner, repo, dir, ref)
		if err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("Failed to list %s: %s", displayDir(dir), github.ProviderMessage(err)))
			continue
		}
		for _, p := range entries {
			if _, ok := changed[p]; !ok {
				candidates = append(candidates, p)
			}
		}
	}
	if len(candidates) > maxContextFiles {
		candidates = candidates[:maxContextFiles]
	}

	var sb strings.Builder
	for _, p := range candidates {
		content, err := client.GetFileContent(ctx, owner, repo, p, ref)
		if err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("Failed to fetch %s: %s", p, github.ProviderMessage(err)))
			continue
		}
		section := fmt.Sprintf("File: %s\n%s\n", p, strings.ToValidUTF8(content, ""))
		remaining := maxBytes - sb.Len()
		out.Files++
		if len(section) >= remaining {
			sb.WriteString(diff.Clip(section, remaining))
			break
		}
		sb.WriteString(section)
	}

	out.Text = sb.String()
	return out
}

func changedDir(p string) string {
	d := path.Dir(p)
	if d == "." || d == "/" {
		return ""
	}
	return d
}

func displayDir(dir string) string {
	if dir == "" {
		return "repository root"
	}
	return dir
}
