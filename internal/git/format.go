package git

import "strings"

// Output format contract v1.
//
// Log-style commands separate fields with 0x1f and terminate records with 0x1e,
// so subjects and bodies may contain any printable text including newlines.
// numstat, name-status and status output is read with -z (NUL framing).
const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
	nul       = "\x00"
)

// commitFields is the number of fields in a commitFormat record
const commitFields = 9

// commitFormat is passed to log and show: hash, abbreviated hash, subject,
// body, author name, author email, author date (strict ISO 8601), decorations,
// parent hashes.
var commitFormat = "--format=" + strings.Join([]string{
	"%H", "%h", "%s", "%b", "%an", "%ae", "%aI", "%D", "%P",
}, "%x1f") + "%x1e"

// branchFields is the number of fields in a branchFormat record
const branchFields = 5

// branchFormat is passed to for-each-ref over refs/heads
var branchFormat = "--format=" + strings.Join([]string{
	"%(HEAD)", "%(refname:short)", "%(objectname)", "%(contents:subject)", "%(worktreepath)",
}, "%1f") + "%1e"

// tagFields is the number of fields in a tagFormat record
const tagFields = 7

// tagFormat is passed to for-each-ref over refs/tags. %(*objectname) is the
// peeled commit for annotated tags and empty for lightweight ones. Only the
// annotation subject is listed.
var tagFormat = "--format=" + strings.Join([]string{
	"%(refname:short)", "%(objectname)", "%(objecttype)", "%(*objectname)",
	"%(contents:subject)", "%(creatordate:iso-strict)", "%(taggername)",
}, "%1f") + "%1e"

// stashFields is the number of fields in a stashFormat record
const stashFields = 4

// stashFormat is passed to stash list
var stashFormat = "--format=" + strings.Join([]string{
	"%gd", "%H", "%s", "%aI",
}, "%x1f") + "%x1e"

// splitRecords splits delimiter-framed output into records, dropping the
// newline git appends after each formatted entry.
func splitRecords(output string) []string {
	raw := strings.Split(output, recordSep)
	records := make([]string, 0, len(raw))
	for _, r := range raw {
		r = strings.Trim(r, "\n")
		if r == "" {
			continue
		}
		records = append(records, r)
	}
	return records
}

// splitNUL splits NUL-framed output, dropping the trailing terminator
func splitNUL(output string) []string {
	output = strings.TrimSuffix(output, nul)
	if output == "" {
		return nil
	}
	return strings.Split(output, nul)
}
