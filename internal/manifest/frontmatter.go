package manifest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// Frontmatter holds the fields the generator cares about. The original
// generator script only ever read name and description.
type Frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// parseFrontmatter splits YAML front matter (delimited by ---) from the body.
func parseFrontmatter(content string) (Frontmatter, error) {
	var fm Frontmatter

	if !strings.HasPrefix(content, "---") {
		return fm, errors.New("no frontmatter delimiter")
	}

	rest := content[3:]
	if strings.HasPrefix(rest, "\r\n") {
		rest = rest[2:]
	} else if strings.HasPrefix(rest, "\n") {
		rest = rest[1:]
	}

	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return fm, errors.New("closing frontmatter delimiter not found")
	}

	if err := yaml.Unmarshal([]byte(rest[:idx]), &fm); err != nil {
		return fm, fmt.Errorf("unmarshalling frontmatter: %w", err)
	}
	return fm, nil
}

// extractRelativeLinks parses markdown and returns link/image destinations
// that point at local files. External URLs and anchors are ignored.
func extractRelativeLinks(source []byte) []string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	var targets []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		var dest string
		switch v := n.(type) {
		case *ast.Link:
			dest = string(v.Destination)
		case *ast.Image:
			dest = string(v.Destination)
		default:
			return ast.WalkContinue, nil
		}
		if dest == "" || isExternal(dest) || strings.HasPrefix(dest, "#") {
			return ast.WalkContinue, nil
		}
		targets = append(targets, stripFragment(dest))
		return ast.WalkContinue, nil
	})
	return targets
}

func isExternal(target string) bool {
	return strings.HasPrefix(target, "http://") ||
		strings.HasPrefix(target, "https://") ||
		strings.HasPrefix(target, "mailto:")
}

func stripFragment(target string) string {
	if idx := strings.Index(target, "#"); idx >= 0 {
		return target[:idx]
	}
	return target
}
