// Package observability provides logger construction and formatted output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/portfolio/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// PrintProfile outputs a human-readable summary of a profile document.
func (p *Printer) PrintProfile(doc *types.ProfileDocument) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", doc.Name))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", doc.Title))
	if doc.Contact.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:    %s\n", doc.Contact.Email))
	}
	if doc.Contact.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", doc.Contact.Location))
	}
	sb.WriteString("\n")

	skills := doc.SortedSkills()
	if len(skills) > 0 {
		sb.WriteString("Skills:\n")
		count := min(len(skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", skills[i].Category, skills[i].Skills))
		}
		if len(skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(skills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(doc.Experience) > 0 {
		sb.WriteString("Experience:\n")
		count := min(len(doc.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			exp := doc.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s, %s", exp.Role, exp.Company))
			if exp.Date != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", exp.Date))
			}
			sb.WriteString("\n")
		}
		if len(doc.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(doc.Experience)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Education: %d  Languages: %d  Certifications: %d",
		len(doc.Education), len(doc.Languages), len(doc.Certifications)))

	p.printBox("PROFILE", sb.String())
}

// PrintProjects outputs the project list.
func (p *Printer) PrintProjects(projects []types.GithubProject) {
	if len(projects) == 0 {
		p.printBox("PROJECTS", "No projects found")
		return
	}

	var sb strings.Builder
	for i, project := range projects {
		sb.WriteString(fmt.Sprintf("#%d  %s", i+1, project.Name))
		if lang := project.LanguageName(); lang != "" {
			sb.WriteString(fmt.Sprintf(" [%s]", lang))
		}
		sb.WriteString("\n")
		if project.Description != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", project.Description))
		}
		sb.WriteString(fmt.Sprintf("    %s", project.URL))
		if i < len(projects)-1 {
			sb.WriteString("\n\n")
		}
	}

	p.printBox(fmt.Sprintf("PROJECTS (%d)", len(projects)), sb.String())
}

// PrintPosts outputs the newest posts with dates and read times.
func (p *Printer) PrintPosts(posts []types.BlogPost) {
	if len(posts) == 0 {
		p.printBox("POSTS", "No posts found")
		return
	}

	var sb strings.Builder
	count := min(len(posts), maxItemsToShow)
	for i := 0; i < count; i++ {
		post := posts[i]
		sb.WriteString(fmt.Sprintf("• %s\n", post.Title))
		meta := []string{}
		if post.Date != "" {
			meta = append(meta, post.Date)
		}
		if post.ReadTime > 0 {
			meta = append(meta, fmt.Sprintf("%d min", post.ReadTime))
		}
		if key := post.Key(); key != "" {
			meta = append(meta, key)
		}
		if len(meta) > 0 {
			sb.WriteString(fmt.Sprintf("  [%s]", strings.Join(meta, " · ")))
		}
		if i < count-1 {
			sb.WriteString("\n\n")
		}
	}

	if len(posts) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n\n... and %d more posts", len(posts)-maxItemsToShow))
	}

	p.printBox(fmt.Sprintf("POSTS (%d)", len(posts)), sb.String())
}
