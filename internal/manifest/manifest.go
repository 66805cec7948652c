// Package manifest scans agent and skill prompt directories for markdown
// files, extracts their YAML front matter, and emits an aggregated JSON
// manifest together with a Markdown index.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Entry describes one agent or skill prompt file.
type Entry struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Kind        string `json:"kind"`
	Path        string `json:"path"`
	// MissingFrontmatter marks files that carry no parseable front matter.
	MissingFrontmatter bool `json:"missingFrontmatter,omitempty"`
}

// Manifest is the aggregated result of one scan.
type Manifest struct {
	Generated time.Time `json:"generated"`
	Entries   []Entry   `json:"entries"`
	// BrokenLinks lists relative markdown links that do not resolve on disk,
	// keyed "source -> target".
	BrokenLinks []string `json:"brokenLinks,omitempty"`
}

// Scan walks each of dirs (relative to root) for *.md files. Missing
// directories are skipped silently, matching the installer scripts the
// generator replaces.
func Scan(root string, dirs []string, now time.Time) (*Manifest, error) {
	m := &Manifest{Generated: now.UTC()}

	for _, dir := range dirs {
		base := filepath.Join(root, dir)
		info, err := os.Stat(base)
		if err != nil || !info.IsDir() {
			continue
		}

		err = filepath.WalkDir(base, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
				return nil
			}

			entry, broken, err := scanFile(root, path, dir)
			if err != nil {
				return err
			}
			m.Entries = append(m.Entries, entry)
			m.BrokenLinks = append(m.BrokenLinks, broken...)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", base, err)
		}
	}

	sort.Slice(m.Entries, func(i, j int) bool {
		if m.Entries[i].Kind != m.Entries[j].Kind {
			return m.Entries[i].Kind < m.Entries[j].Kind
		}
		return m.Entries[i].Path < m.Entries[j].Path
	})
	sort.Strings(m.BrokenLinks)
	return m, nil
}

func scanFile(root, path, kind string) (Entry, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	entry := Entry{Kind: kindName(kind), Path: filepath.ToSlash(rel)}

	fm, err := parseFrontmatter(string(data))
	if err != nil || fm.Name == "" {
		entry.MissingFrontmatter = true
	} else {
		entry.Name = fm.Name
		entry.Description = fm.Description
	}

	var broken []string
	for _, target := range extractRelativeLinks(data) {
		resolved := filepath.Join(filepath.Dir(path), filepath.FromSlash(target))
		if _, err := os.Stat(resolved); err != nil {
			broken = append(broken, fmt.Sprintf("%s -> %s", entry.Path, target))
		}
	}

	return entry, broken, nil
}

// kindName singularizes the scanned directory name, so "agents/" files are
// kind "agent".
func kindName(dir string) string {
	name := filepath.Base(dir)
	return strings.TrimSuffix(name, "s")
}

// WriteJSON writes manifest.json into outDir.
func (m *Manifest) WriteJSON(outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(outDir, "manifest.json"), append(data, '\n'), 0644)
}

// WriteIndex writes a human-readable INDEX.md into outDir, grouped by kind.
func (m *Manifest) WriteIndex(outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Prompt index\n\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n", m.Generated.Format(time.RFC3339)))

	currentKind := ""
	for _, e := range m.Entries {
		if e.Kind != currentKind {
			currentKind = e.Kind
			b.WriteString(fmt.Sprintf("\n## %ss\n\n", currentKind))
		}
		name := e.Name
		if name == "" {
			name = "(no front matter)"
		}
		b.WriteString(fmt.Sprintf("- [%s](%s)", name, e.Path))
		if e.Description != "" {
			b.WriteString(" — " + e.Description)
		}
		b.WriteString("\n")
	}

	if len(m.BrokenLinks) > 0 {
		b.WriteString("\n## Broken links\n\n")
		for _, l := range m.BrokenLinks {
			b.WriteString("- " + l + "\n")
		}
	}

	return os.WriteFile(filepath.Join(outDir, "INDEX.md"), []byte(b.String()), 0644)
}
