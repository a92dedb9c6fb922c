package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/danish/blueprint/pkg/registry"
)

// Builder packages a completed session snapshot into a zip bundle for
// download. Bundles are written to the caller's writer; nothing is
// persisted by this package.
type Builder struct {
	clock func() time.Time
}

// NewBuilder creates a zip bundle builder
func NewBuilder() *Builder {
	return &Builder{clock: time.Now}
}

// Filename derives the download filename from the idea text
func (b *Builder) Filename(idea string) string {
	return fmt.Sprintf("blueprint_%s_%s.zip", safeName(idea), b.clock().Format("20060102_150405"))
}

// Write writes the zip bundle for a snapshot: every generated document
// (sanitized) plus a README describing the contents.
func (b *Builder) Write(w io.Writer, snap registry.Snapshot, order []string) error {
	zw := zip.NewWriter(w)

	for _, filename := range order {
		content, ok := snap.Files[filename]
		if !ok {
			continue
		}

		f, err := zw.Create(filename)
		if err != nil {
			return fmt.Errorf("failed to add %s to archive: %w", filename, err)
		}
		if _, err := f.Write([]byte(Sanitize(content))); err != nil {
			return fmt.Errorf("failed to write %s: %w", filename, err)
		}
	}

	readme, err := zw.Create("README.md")
	if err != nil {
		return fmt.Errorf("failed to add README to archive: %w", err)
	}
	if _, err := readme.Write([]byte(b.readme(snap))); err != nil {
		return fmt.Errorf("failed to write README: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

// readme composes the bundle README
func (b *Builder) readme(snap registry.Snapshot) string {
	var sb strings.Builder

	sb.WriteString("# Startup Blueprint\n\n")
	fmt.Fprintf(&sb, "**Idea:** %s\n\n", snap.Idea)
	fmt.Fprintf(&sb, "**Generated:** %s\n\n", b.clock().Format("2006-01-02 15:04:05"))

	sb.WriteString(`## Documents Included

### Phase 1: Analysis & Research
- **product_brief.md** - Market analysis, competitors, user personas, and value proposition
- **financial_model.md** - Revenue projections, unit economics, burn rate, and funding requirements

### Phase 2: Planning & Strategy
- **prd.md** - Product Requirements Document with functional/non-functional requirements
- **tech_spec.md** - Technical specification and implementation approach
- **feature_prioritization.md** - RICE scoring, MoSCoW prioritization, and value vs. effort matrix
- **competitive_analysis.md** - Feature-by-feature comparison with competitors

### Phase 3: Solution Design
- **architecture.md** - System architecture, tech stack, database schema, and API design
- **user_flow.md** - User journeys, wireframes, and interaction patterns
- **design_system.md** - UI/UX guidelines, colors, typography, and component library

### Phase 4: Implementation & Launch
- **roadmap.md** - Sprint breakdown, timeline, and milestones
- **testing_plan.md** - QA strategy, test cases, and quality metrics
- **deployment_guide.md** - Infrastructure, CI/CD, and deployment instructions

## Quick Start

1. Read **product_brief.md** first to understand the market opportunity
2. Review **feature_prioritization.md** to see which features to build first
3. Follow **prd.md** and **tech_spec.md** for detailed requirements
4. Use **architecture.md** and **user_flow.md** for implementation
5. Execute **roadmap.md** sprint-by-sprint
`)

	return sb.String()
}

// Sanitize strips invisible and control characters from markdown and
// normalizes line endings. Generated text occasionally carries BOMs
// and zero-width characters that break downstream tooling.
func Sanitize(content string) string {
	if content == "" {
		return content
	}

	replacer := strings.NewReplacer(
		"\ufeff", "", // BOM
		"\u200b", "", // zero-width space
		"\u200c", "", // zero-width non-joiner
		"\u200d", "", // zero-width joiner
		"\ufffe", "", // reverse BOM
	)
	sanitized := replacer.Replace(content)

	var sb strings.Builder
	sb.Grow(len(sanitized))
	for _, r := range sanitized {
		if r >= 32 || r == '\n' || r == '\r' || r == '\t' {
			sb.WriteRune(r)
		}
	}

	out := strings.ReplaceAll(sb.String(), "\r\n", "\n")
	return strings.ReplaceAll(out, "\r", "\n")
}

// safeName reduces an idea to a filesystem-safe slug
func safeName(idea string) string {
	if len(idea) > 30 {
		idea = idea[:30]
	}

	var sb strings.Builder
	for _, r := range idea {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			sb.WriteRune('_')
		}
	}

	name := strings.Trim(sb.String(), "_")
	if name == "" {
		return "blueprint"
	}
	return name
}
