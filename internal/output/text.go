package output

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"gitscope.dev/gitscope/internal/agent"
	"gitscope.dev/gitscope/internal/repo"
)

// text renders v for a human. Types without a dedicated layout fall back to YAML.
func (p *Printer) text(v any) string {
	switch v := v.(type) {
	case *repo.CommitPage:
		return renderCommitPage(v)
	case *repo.CommitDetail:
		return p.renderCommitDetail(v)
	case []repo.BranchInfo:
		return renderBranches(v)
	case []repo.TagInfo:
		return renderTags(v)
	case []repo.StashEntry:
		return renderStashes(v)
	case *repo.StatusInfo:
		return renderStatus(v)
	case *repo.DiffResult:
		return p.diff(v.Diff)
	case *repo.Overview:
		return renderOverview(v)
	case []repo.TreeEntry:
		return renderTree(v)
	case repo.OperationResult:
		return RenderResult(v)
	case []agent.Tool:
		return renderTools(v)
	case string:
		return ensureNewline(v)
	default:
		raw, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v\n", v)
		}
		return string(raw)
	}
}

func ensureNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

func (p *Printer) diff(d string) string {
	if p.Color {
		d = HighlightDiff(d)
	}
	return ensureNewline(d)
}

// RenderResult renders a mutation result as a single status line
func RenderResult(r repo.OperationResult) string {
	if r.Success {
		return doneStyle.Render("✓") + " " + r.Message + "\n"
	}
	return errorStyle.Render("✗") + " " + r.Message + "\n"
}

func renderCommitPage(page *repo.CommitPage) string {
	var b strings.Builder
	for _, c := range page.Commits {
		line := hashStyle.Render(c.AbbreviatedHash) + " " + c.Message
		if c.Refs != "" {
			line += " " + refColor("("+c.Refs+")", 0)
		}
		line += " " + dimStyle.Render(fmt.Sprintf("%s, %s", c.AuthorName, c.Date))
		b.WriteString(line + "\n")
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("Showing %d of %d commit(s)", len(page.Commits), page.Total)) + "\n")
	return b.String()
}

func (p *Printer) renderCommitDetail(d *repo.CommitDetail) string {
	var b strings.Builder
	b.WriteString(hashStyle.Render("commit "+d.Hash) + "\n")
	if len(d.ParentHashes) > 1 {
		b.WriteString("Merge: " + strings.Join(d.ParentHashes, " ") + "\n")
	}
	fmt.Fprintf(&b, "Author: %s <%s>\n", d.AuthorName, d.AuthorEmail)
	fmt.Fprintf(&b, "Date:   %s\n\n", d.Date)
	b.WriteString("    " + d.Message + "\n")
	if d.Body != "" {
		b.WriteString("\n")
		for _, line := range strings.Split(strings.TrimRight(d.Body, "\n"), "\n") {
			b.WriteString("    " + line + "\n")
		}
	}
	b.WriteString("\n")

	for _, f := range d.Files {
		counts := addStyle.Render(fmt.Sprintf("+%d", f.Insertions)) + " " + delStyle.Render(fmt.Sprintf("-%d", f.Deletions))
		if f.Binary {
			counts = dimStyle.Render("binary")
		}
		fmt.Fprintf(&b, " %s %s %s\n", f.Status, f.File, counts)
	}
	fmt.Fprintf(&b, " %d file(s) changed, %d insertion(s)(+), %d deletion(s)(-)\n",
		d.Stats.Changed, d.Stats.Insertions, d.Stats.Deletions)

	if d.Diff != "" {
		b.WriteString("\n")
		b.WriteString(p.diff(d.Diff))
	}
	return b.String()
}

func renderBranches(branches []repo.BranchInfo) string {
	width := 0
	for _, br := range branches {
		width = max(width, len(br.Name))
	}
	var b strings.Builder
	for i, br := range branches {
		marker := "  "
		name := refColor(fmt.Sprintf("%-*s", width, br.Name), i)
		if br.Current {
			marker = "* "
			name = currentStyle.Render(fmt.Sprintf("%-*s", width, br.Name))
		}
		line := marker + name + " " + hashStyle.Render(shortHash(br.Commit)) + " " + br.Label
		if br.LinkedWorkTree {
			line += " " + dimStyle.Render("(worktree)")
		}
		b.WriteString(strings.TrimRight(line, " ") + "\n")
	}
	return b.String()
}

func renderTags(tags []repo.TagInfo) string {
	var b strings.Builder
	for _, t := range tags {
		line := t.Name + " " + hashStyle.Render(shortHash(t.Hash))
		if t.IsAnnotated {
			line += " " + t.Message
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func renderStashes(entries []repo.StashEntry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s %s\n", hashStyle.Render(fmt.Sprintf("stash@{%d}:", e.Index)), e.Message)
	}
	return b.String()
}

func renderStatus(s *repo.StatusInfo) string {
	var b strings.Builder
	if s.Current != "" {
		b.WriteString("On branch " + currentStyle.Render(s.Current) + "\n")
	} else {
		b.WriteString("HEAD detached\n")
	}
	if s.Tracking != "" {
		fmt.Fprintf(&b, "Tracking %s (ahead %d, behind %d)\n", s.Tracking, s.Ahead, s.Behind)
	}
	if s.IsClean {
		b.WriteString("nothing to commit, working tree clean\n")
		return b.String()
	}

	sections := []struct {
		title string
		files []string
		style func(...string) string
	}{
		{"Conflicted", s.Conflicted, errorStyle.Render},
		{"Staged", s.Staged, doneStyle.Render},
		{"Modified", s.Modified, delStyle.Render},
		{"Deleted", s.Deleted, delStyle.Render},
		{"Untracked", s.Untracked, dimStyle.Render},
	}
	for _, sec := range sections {
		if len(sec.files) == 0 {
			continue
		}
		b.WriteString("\n" + headerStyle.Render(sec.title+":") + "\n")
		for _, f := range sec.files {
			b.WriteString("  " + sec.style(f) + "\n")
		}
	}
	return b.String()
}

func renderOverview(o *repo.Overview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", headerStyle.Render("Repository:"), o.Path)
	fmt.Fprintf(&b, "%s %s\n", headerStyle.Render("Branch:"), currentStyle.Render(o.CurrentBranch))
	if o.DefaultBranch != "" && o.DefaultBranch != o.CurrentBranch {
		fmt.Fprintf(&b, "%s %s\n", headerStyle.Render("Default:"), o.DefaultBranch)
	}
	fmt.Fprintf(&b, "%s %s\n", headerStyle.Render("HEAD:"), hashStyle.Render(o.HeadCommit))
	clean := doneStyle.Render("clean")
	if !o.IsClean {
		clean = delStyle.Render("dirty")
	}
	fmt.Fprintf(&b, "%s %s\n", headerStyle.Render("Working tree:"), clean)
	for _, r := range o.Remotes {
		fmt.Fprintf(&b, "%s %s %s\n", headerStyle.Render("Remote:"), r.Name, dimStyle.Render(r.FetchURL))
	}
	return b.String()
}

func renderTree(entries []repo.TreeEntry) string {
	var b strings.Builder
	for _, e := range entries {
		switch e.Type {
		case repo.EntryDir:
			b.WriteString(refColor(e.Name+"/", 8) + "\n")
		case repo.EntrySubmodule:
			b.WriteString(e.Name + " " + dimStyle.Render("(submodule)") + "\n")
		case repo.EntrySymlink:
			b.WriteString(e.Name + " " + dimStyle.Render("(symlink)") + "\n")
		default:
			b.WriteString(e.Name + "\n")
		}
	}
	return b.String()
}

func renderTools(tools []agent.Tool) string {
	width := 0
	for _, t := range tools {
		width = max(width, len(t.Name))
	}
	var b strings.Builder
	for _, t := range tools {
		fmt.Fprintf(&b, "%s  %s\n", headerStyle.Render(fmt.Sprintf("%-*s", width, t.Name)), t.Description)
	}
	return b.String()
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}
