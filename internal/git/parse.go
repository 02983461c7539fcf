package git

import (
	"fmt"
	"strconv"
	"strings"

	"gitscope.dev/gitscope/internal/repo"
)

// parseCommits parses commitFormat output
func parseCommits(output string) ([]repo.CommitInfo, error) {
	records := splitRecords(output)
	commits := make([]repo.CommitInfo, 0, len(records))
	for _, record := range records {
		c, err := parseCommit(record)
		if err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}
	return commits, nil
}

func parseCommit(record string) (repo.CommitInfo, error) {
	fields := strings.Split(record, fieldSep)
	if len(fields) != commitFields {
		return repo.CommitInfo{}, fmt.Errorf("malformed commit record: expected %d fields, got %d", commitFields, len(fields))
	}
	parents := []string{}
	if p := strings.TrimSpace(fields[8]); p != "" {
		parents = strings.Fields(p)
	}
	return repo.CommitInfo{
		Hash:            fields[0],
		AbbreviatedHash: fields[1],
		Message:         fields[2],
		Body:            strings.TrimSpace(fields[3]),
		AuthorName:      fields[4],
		AuthorEmail:     fields[5],
		Date:            fields[6],
		Refs:            fields[7],
		ParentHashes:    parents,
	}, nil
}

// parseNumstat parses `diff --numstat -z` output. Renamed and copied entries
// are reported under their new path. Binary files report "-" for both counts.
func parseNumstat(output string) ([]repo.FileChange, error) {
	tokens := splitNUL(output)
	files := []repo.FileChange{}
	for i := 0; i < len(tokens); i++ {
		parts := strings.SplitN(tokens[i], "\t", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("malformed numstat entry %q", tokens[i])
		}
		path := parts[2]
		if path == "" {
			// rename or copy: old and new path follow as separate tokens
			if i+2 >= len(tokens) {
				return nil, fmt.Errorf("truncated numstat rename entry")
			}
			path = tokens[i+2]
			i += 2
		}

		fc := repo.FileChange{File: path, Status: repo.StatusModified}
		if parts[0] == "-" && parts[1] == "-" {
			fc.Binary = true
		} else {
			ins, err := strconv.Atoi(parts[0])
			if err != nil {
				return nil, fmt.Errorf("malformed numstat insertions %q: %w", parts[0], err)
			}
			del, err := strconv.Atoi(parts[1])
			if err != nil {
				return nil, fmt.Errorf("malformed numstat deletions %q: %w", parts[1], err)
			}
			fc.Insertions = ins
			fc.Deletions = del
			fc.Changes = ins + del
		}
		files = append(files, fc)
	}
	return files, nil
}

// parseNameStatus parses `diff --name-status -z` output into a map from the
// (new) path to its single-letter status.
func parseNameStatus(output string) (map[string]repo.FileStatus, error) {
	tokens := splitNUL(output)
	statuses := make(map[string]repo.FileStatus, len(tokens)/2)
	for i := 0; i < len(tokens); i++ {
		code := tokens[i]
		if code == "" {
			return nil, fmt.Errorf("empty name-status code")
		}
		status := normalizeStatus(code[0])
		if status == repo.StatusRenamed || status == repo.StatusCopied {
			if i+2 >= len(tokens) {
				return nil, fmt.Errorf("truncated name-status %s entry", code)
			}
			statuses[tokens[i+2]] = status
			i += 2
			continue
		}
		if i+1 >= len(tokens) {
			return nil, fmt.Errorf("truncated name-status entry")
		}
		statuses[tokens[i+1]] = status
		i++
	}
	return statuses, nil
}

func normalizeStatus(code byte) repo.FileStatus {
	switch s := repo.FileStatus(code); s {
	case repo.StatusAdded, repo.StatusModified, repo.StatusDeleted, repo.StatusRenamed,
		repo.StatusCopied, repo.StatusTypeChanged, repo.StatusUnmerged:
		return s
	default:
		return repo.StatusUnknown
	}
}

// mergeFileChanges attaches name-status results to numstat entries
func mergeFileChanges(files []repo.FileChange, statuses map[string]repo.FileStatus) []repo.FileChange {
	for i := range files {
		if s, ok := statuses[files[i].File]; ok {
			files[i].Status = s
		}
	}
	return files
}

// parseBranches parses branchFormat output
func parseBranches(output string) ([]repo.BranchInfo, error) {
	records := splitRecords(output)
	branches := make([]repo.BranchInfo, 0, len(records))
	for _, record := range records {
		fields := strings.Split(record, fieldSep)
		if len(fields) != branchFields {
			return nil, fmt.Errorf("malformed branch record: expected %d fields, got %d", branchFields, len(fields))
		}
		current := fields[0] == "*"
		branches = append(branches, repo.BranchInfo{
			Name:           fields[1],
			Current:        current,
			Commit:         fields[2],
			Label:          fields[3],
			LinkedWorkTree: !current && fields[4] != "",
		})
	}
	return branches, nil
}

// parseTags parses tagFormat output
func parseTags(output string) ([]repo.TagInfo, error) {
	records := splitRecords(output)
	tags := make([]repo.TagInfo, 0, len(records))
	for _, record := range records {
		fields := strings.Split(record, fieldSep)
		if len(fields) != tagFields {
			return nil, fmt.Errorf("malformed tag record: expected %d fields, got %d", tagFields, len(fields))
		}
		tag := repo.TagInfo{
			Name: fields[0],
			Hash: fields[1],
			Date: fields[5],
		}
		if fields[2] == "tag" {
			tag.IsAnnotated = true
			if fields[3] != "" {
				tag.Hash = fields[3]
			}
			tag.Message = strings.TrimSpace(fields[4])
			tag.Tagger = fields[6]
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// parseStashes parses stashFormat output
func parseStashes(output string) ([]repo.StashEntry, error) {
	records := splitRecords(output)
	entries := make([]repo.StashEntry, 0, len(records))
	for _, record := range records {
		fields := strings.Split(record, fieldSep)
		if len(fields) != stashFields {
			return nil, fmt.Errorf("malformed stash record: expected %d fields, got %d", stashFields, len(fields))
		}
		index, err := parseStashRef(fields[0])
		if err != nil {
			return nil, err
		}
		entries = append(entries, repo.StashEntry{
			Index:   index,
			Hash:    fields[1],
			Message: fields[2],
			Date:    fields[3],
		})
	}
	return entries, nil
}

// parseStashRef extracts n from "stash@{n}"
func parseStashRef(ref string) (int, error) {
	inner, ok := strings.CutPrefix(ref, "stash@{")
	if !ok || !strings.HasSuffix(inner, "}") {
		return 0, fmt.Errorf("malformed stash ref %q", ref)
	}
	n, err := strconv.Atoi(strings.TrimSuffix(inner, "}"))
	if err != nil {
		return 0, fmt.Errorf("malformed stash ref %q: %w", ref, err)
	}
	return n, nil
}

func stashRef(index int) string {
	return fmt.Sprintf("stash@{%d}", index)
}

// parseStatus parses `status --porcelain=v2 --branch -z` output
func parseStatus(output string) (repo.StatusInfo, error) {
	status := repo.NewStatusInfo()
	tokens := splitNUL(output)
	for i := 0; i < len(tokens); i++ {
		entry := tokens[i]
		if entry == "" {
			continue
		}
		switch entry[0] {
		case '#':
			parseStatusHeader(entry, &status)
		case '1':
			// 1 XY sub mH mI mW hH hI path
			fields := strings.SplitN(entry, " ", 9)
			if len(fields) != 9 {
				return status, fmt.Errorf("malformed status entry %q", entry)
			}
			classifyChange(fields[1], fields[8], &status)
		case '2':
			// 2 XY sub mH mI mW hH hI Xscore path, original path follows as its own token
			fields := strings.SplitN(entry, " ", 10)
			if len(fields) != 10 {
				return status, fmt.Errorf("malformed status entry %q", entry)
			}
			classifyChange(fields[1], fields[9], &status)
			i++
		case 'u':
			// u XY sub m1 m2 m3 mW h1 h2 h3 path
			fields := strings.SplitN(entry, " ", 11)
			if len(fields) != 11 {
				return status, fmt.Errorf("malformed status entry %q", entry)
			}
			status.Conflicted = append(status.Conflicted, fields[10])
		case '?':
			status.Untracked = append(status.Untracked, strings.TrimPrefix(entry, "? "))
		case '!':
			// ignored
		default:
			return status, fmt.Errorf("unknown status entry %q", entry)
		}
	}
	status.Finalize()
	return status, nil
}

func parseStatusHeader(entry string, status *repo.StatusInfo) {
	fields := strings.Fields(entry)
	if len(fields) < 3 {
		return
	}
	switch fields[1] {
	case "branch.head":
		if fields[2] != "(detached)" {
			status.Current = fields[2]
		}
	case "branch.upstream":
		status.Tracking = fields[2]
	case "branch.ab":
		if len(fields) >= 4 {
			status.Ahead, _ = strconv.Atoi(strings.TrimPrefix(fields[2], "+"))
			status.Behind, _ = strconv.Atoi(strings.TrimPrefix(fields[3], "-"))
		}
	}
}

// classifyChange sorts an ordinary or renamed entry by its index (X) and
// worktree (Y) status letters.
func classifyChange(xy, path string, status *repo.StatusInfo) {
	if len(xy) != 2 {
		return
	}
	if xy[0] != '.' {
		status.Staged = append(status.Staged, path)
	}
	switch xy[1] {
	case '.':
	case 'D':
		status.Deleted = append(status.Deleted, path)
	default:
		status.Modified = append(status.Modified, path)
	}
}
