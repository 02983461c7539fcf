package testhelpers

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
)

// FakeCommit is a commit held by the mock GitHub server
type FakeCommit struct {
	SHA     string
	Message string
	Author  string
	Email   string
	Date    time.Time
	Parents []string
	Tree    string
	Files   []*github.CommitFile
}

// MockGitHubServerConfig holds the state served by the mock GitHub server.
// Seed it with AddCommit, SetBranch and SetContents before issuing requests.
type MockGitHubServerConfig struct {
	Owner         string
	Repo          string
	DefaultBranch string

	// MergeConflicts marks head SHAs whose merge answers 409
	MergeConflicts map[string]bool
	// ErrorResponses maps "METHOD path" to a status code answered instead of the normal handler
	ErrorResponses map[string]int
	// Requests records "METHOD path" of every request served
	Requests []string

	mu       sync.Mutex
	seq      int
	clock    time.Time
	commits  map[string]*FakeCommit
	refs     map[string]string
	tags     map[string]*github.Tag
	contents map[string][]*github.RepositoryContent
}

// NewMockGitHubServerConfig creates a new mock server config with defaults
func NewMockGitHubServerConfig() *MockGitHubServerConfig {
	return &MockGitHubServerConfig{
		Owner:          "owner",
		Repo:           "repo",
		DefaultBranch:  "main",
		MergeConflicts: make(map[string]bool),
		ErrorResponses: make(map[string]int),
		clock:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		commits:        make(map[string]*FakeCommit),
		refs:           make(map[string]string),
		tags:           make(map[string]*github.Tag),
		contents:       make(map[string][]*github.RepositoryContent),
	}
}

func (c *MockGitHubServerConfig) nextSHA(seed string) string {
	c.seq++
	sum := sha1.Sum([]byte(fmt.Sprintf("%d:%s", c.seq, seed)))
	return hex.EncodeToString(sum[:])
}

func (c *MockGitHubServerConfig) tick() time.Time {
	c.clock = c.clock.Add(time.Hour)
	return c.clock
}

// AddCommit stores a commit with the given parents and file changes and returns its SHA
func (c *MockGitHubServerConfig) AddCommit(message string, files []*github.CommitFile, parents ...string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addCommitLocked(&FakeCommit{Message: message, Files: files, Parents: parents})
}

func (c *MockGitHubServerConfig) addCommitLocked(fc *FakeCommit) string {
	fc.SHA = c.nextSHA(fc.Message)
	if fc.Author == "" {
		fc.Author, fc.Email = "Test User", "test@example.com"
	}
	if fc.Date.IsZero() {
		fc.Date = c.tick()
	}
	if fc.Tree == "" {
		fc.Tree = c.nextSHA("tree")
	}
	if fc.Parents == nil {
		fc.Parents = []string{}
	}
	c.commits[fc.SHA] = fc
	return fc.SHA
}

// AddLinearHistory adds n commits "commit 1".."commit n" on the default branch and returns their SHAs oldest first
func (c *MockGitHubServerConfig) AddLinearHistory(n int) []string {
	shas := make([]string, 0, n)
	parent := c.Ref("heads/" + c.DefaultBranch)
	for i := 1; i <= n; i++ {
		var parents []string
		if parent != "" {
			parents = []string{parent}
		}
		parent = c.AddCommit("commit "+strconv.Itoa(i), nil, parents...)
		shas = append(shas, parent)
	}
	c.SetBranch(c.DefaultBranch, parent)
	return shas
}

// SetBranch points refs/heads/name at sha
func (c *MockGitHubServerConfig) SetBranch(name, sha string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refs["heads/"+name] = sha
}

// Ref returns the SHA a ref such as "heads/main" points at, or ""
func (c *MockGitHubServerConfig) Ref(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refs[strings.TrimPrefix(name, "refs/")]
}

// RefNames returns all ref names, sorted
func (c *MockGitHubServerConfig) RefNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.refs))
	for name := range c.refs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Commit returns a stored commit
func (c *MockGitHubServerConfig) Commit(sha string) *FakeCommit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commits[sha]
}

// SetContents sets the directory listing served for dir at every ref
func (c *MockGitHubServerConfig) SetContents(dir string, entries []*github.RepositoryContent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contents[strings.Trim(dir, "/")] = entries
}

// NewMockGitHubServer creates an httptest server that mocks the GitHub REST endpoints the backend uses
func NewMockGitHubServer(t *testing.T, config *MockGitHubServerConfig) *httptest.Server {
	if config == nil {
		config = NewMockGitHubServerConfig()
	}
	server := httptest.NewServer(http.HandlerFunc(config.serveHTTP))
	t.Cleanup(server.Close)
	return server
}

// NewMockGitHubClient creates a go-github client pointed at a mock server
func NewMockGitHubClient(t *testing.T, config *MockGitHubServerConfig) (*github.Client, string, string) {
	server := NewMockGitHubServer(t, config)
	client := github.NewClient(nil)
	baseURL, _ := url.Parse(server.URL + "/")
	client.BaseURL = baseURL
	client.UploadURL = baseURL
	return client, config.Owner, config.Repo
}

func (c *MockGitHubServerConfig) serveHTTP(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Requests = append(c.Requests, r.Method+" "+r.URL.Path)
	if status, ok := c.ErrorResponses[r.Method+" "+r.URL.Path]; ok {
		writeError(w, status, http.StatusText(status))
		return
	}

	prefix := "/repos/" + c.Owner + "/" + c.Repo
	if !strings.HasPrefix(r.URL.Path, prefix) {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	path := strings.TrimPrefix(r.URL.Path, prefix)

	switch {
	case path == "" && r.Method == http.MethodGet:
		c.handleRepo(w)
	case path == "/commits" && r.Method == http.MethodGet:
		c.handleListCommits(w, r)
	case strings.HasPrefix(path, "/commits/") && r.Method == http.MethodGet:
		c.handleGetCommit(w, r, strings.TrimPrefix(path, "/commits/"))
	case path == "/branches" && r.Method == http.MethodGet:
		c.handleListBranches(w, r)
	case strings.HasPrefix(path, "/git/ref/") && r.Method == http.MethodGet:
		c.handleGetRef(w, strings.TrimPrefix(path, "/git/ref/"))
	case strings.HasPrefix(path, "/git/matching-refs/") && r.Method == http.MethodGet:
		c.handleMatchingRefs(w, strings.TrimPrefix(path, "/git/matching-refs/"))
	case path == "/git/refs" && r.Method == http.MethodPost:
		c.handleCreateRef(w, r)
	case strings.HasPrefix(path, "/git/refs/") && r.Method == http.MethodPatch:
		c.handleUpdateRef(w, r, strings.TrimPrefix(path, "/git/refs/"))
	case strings.HasPrefix(path, "/git/refs/") && r.Method == http.MethodDelete:
		c.handleDeleteRef(w, strings.TrimPrefix(path, "/git/refs/"))
	case strings.HasPrefix(path, "/git/commits/") && r.Method == http.MethodGet:
		c.handleGitCommit(w, strings.TrimPrefix(path, "/git/commits/"))
	case path == "/git/commits" && r.Method == http.MethodPost:
		c.handleCreateCommit(w, r)
	case strings.HasPrefix(path, "/git/tags/") && r.Method == http.MethodGet:
		c.handleGetTag(w, strings.TrimPrefix(path, "/git/tags/"))
	case path == "/git/tags" && r.Method == http.MethodPost:
		c.handleCreateTag(w, r)
	case path == "/merges" && r.Method == http.MethodPost:
		c.handleMerge(w, r)
	case strings.HasPrefix(path, "/compare/") && r.Method == http.MethodGet:
		c.handleCompare(w, strings.TrimPrefix(path, "/compare/"))
	case (path == "/contents" || strings.HasPrefix(path, "/contents/")) && r.Method == http.MethodGet:
		c.handleContents(w, r, strings.Trim(strings.TrimPrefix(path, "/contents"), "/"))
	default:
		writeError(w, http.StatusNotFound, "Not Found")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// resolveLocked resolves a branch name, tag name or (abbreviated) SHA
func (c *MockGitHubServerConfig) resolveLocked(ref string) (string, bool) {
	if sha, ok := c.refs["heads/"+ref]; ok {
		return sha, true
	}
	if sha, ok := c.refs["tags/"+ref]; ok {
		if tag, ok := c.tags[sha]; ok {
			return tag.GetObject().GetSHA(), true
		}
		return sha, true
	}
	if _, ok := c.commits[ref]; ok {
		return ref, true
	}
	if len(ref) >= 4 {
		for sha := range c.commits {
			if strings.HasPrefix(sha, ref) {
				return sha, true
			}
		}
	}
	return "", false
}

func (c *MockGitHubServerConfig) repoCommitLocked(fc *FakeCommit, withFiles bool) *github.RepositoryCommit {
	parents := make([]*github.Commit, 0, len(fc.Parents))
	for _, p := range fc.Parents {
		parents = append(parents, &github.Commit{SHA: github.String(p)})
	}
	rc := &github.RepositoryCommit{
		SHA: github.String(fc.SHA),
		Commit: &github.Commit{
			Message: github.String(fc.Message),
			Author: &github.CommitAuthor{
				Name:  github.String(fc.Author),
				Email: github.String(fc.Email),
				Date:  &github.Timestamp{Time: fc.Date},
			},
			Tree: &github.Tree{SHA: github.String(fc.Tree)},
		},
		Author:  &github.User{Login: github.String(strings.ToLower(strings.ReplaceAll(fc.Author, " ", "-")))},
		Parents: parents,
	}
	if withFiles {
		rc.Files = fc.Files
	}
	return rc
}

func (c *MockGitHubServerConfig) gitCommitLocked(fc *FakeCommit) *github.Commit {
	parents := make([]*github.Commit, 0, len(fc.Parents))
	for _, p := range fc.Parents {
		parents = append(parents, &github.Commit{SHA: github.String(p)})
	}
	author := &github.CommitAuthor{
		Name:  github.String(fc.Author),
		Email: github.String(fc.Email),
		Date:  &github.Timestamp{Time: fc.Date},
	}
	return &github.Commit{
		SHA:       github.String(fc.SHA),
		Message:   github.String(fc.Message),
		Author:    author,
		Committer: author,
		Tree:      &github.Tree{SHA: github.String(fc.Tree)},
		Parents:   parents,
	}
}

func (c *MockGitHubServerConfig) handleRepo(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, &github.Repository{
		Name:          github.String(c.Repo),
		FullName:      github.String(c.Owner + "/" + c.Repo),
		DefaultBranch: github.String(c.DefaultBranch),
		CloneURL:      github.String("https://github.com/" + c.Owner + "/" + c.Repo + ".git"),
	})
}

// firstParentLocked walks first-parent history from sha
func (c *MockGitHubServerConfig) firstParentLocked(sha string) []*FakeCommit {
	var out []*FakeCommit
	for sha != "" {
		fc, ok := c.commits[sha]
		if !ok {
			break
		}
		out = append(out, fc)
		sha = ""
		if len(fc.Parents) > 0 {
			sha = fc.Parents[0]
		}
	}
	return out
}

func pageParams(r *http.Request) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 30
	}
	return page, perPage
}

// paginate slices n items and sets a Link header the way the API does
func paginate(w http.ResponseWriter, r *http.Request, n int) (start, end int) {
	page, perPage := pageParams(r)
	last := (n + perPage - 1) / perPage
	if last == 0 {
		last = 1
	}
	link := func(p int, rel string) string {
		q := r.URL.Query()
		q.Set("page", strconv.Itoa(p))
		q.Set("per_page", strconv.Itoa(perPage))
		return fmt.Sprintf("<http://%s%s?%s>; rel=%q", r.Host, r.URL.Path, q.Encode(), rel)
	}
	var links []string
	if page < last {
		links = append(links, link(page+1, "next"), link(last, "last"))
	}
	if page > 1 {
		links = append(links, link(1, "first"), link(page-1, "prev"))
	}
	if len(links) > 0 {
		w.Header().Set("Link", strings.Join(links, ", "))
	}
	start = min((page-1)*perPage, n)
	end = min(start+perPage, n)
	return start, end
}

func (c *MockGitHubServerConfig) handleListCommits(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("sha")
	if ref == "" {
		ref = c.DefaultBranch
	}
	head, ok := c.resolveLocked(ref)
	if !ok {
		if ref == c.DefaultBranch && len(c.commits) == 0 {
			writeError(w, http.StatusConflict, "Git Repository is empty.")
			return
		}
		writeError(w, http.StatusNotFound, "No commit found for SHA: "+ref)
		return
	}
	history := c.firstParentLocked(head)
	start, end := paginate(w, r, len(history))
	out := make([]*github.RepositoryCommit, 0, end-start)
	for _, fc := range history[start:end] {
		out = append(out, c.repoCommitLocked(fc, false))
	}
	writeJSON(w, http.StatusOK, out)
}

func (c *MockGitHubServerConfig) handleGetCommit(w http.ResponseWriter, r *http.Request, ref string) {
	sha, ok := c.resolveLocked(ref)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "No commit found for SHA: "+ref)
		return
	}
	if strings.Contains(r.Header.Get("Accept"), "sha") {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(sha))
		return
	}
	writeJSON(w, http.StatusOK, c.repoCommitLocked(c.commits[sha], true))
}

func (c *MockGitHubServerConfig) handleListBranches(w http.ResponseWriter, r *http.Request) {
	var names []string
	for name := range c.refs {
		if strings.HasPrefix(name, "heads/") {
			names = append(names, strings.TrimPrefix(name, "heads/"))
		}
	}
	sort.Strings(names)
	start, end := paginate(w, r, len(names))
	out := make([]*github.Branch, 0, end-start)
	for _, name := range names[start:end] {
		out = append(out, &github.Branch{
			Name:   github.String(name),
			Commit: &github.RepositoryCommit{SHA: github.String(c.refs["heads/"+name])},
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (c *MockGitHubServerConfig) refLocked(name string) *github.Reference {
	sha := c.refs[name]
	objType := "commit"
	if _, ok := c.tags[sha]; ok {
		objType = "tag"
	}
	return &github.Reference{
		Ref:    github.String("refs/" + name),
		Object: &github.GitObject{Type: github.String(objType), SHA: github.String(sha)},
	}
}

func (c *MockGitHubServerConfig) handleGetRef(w http.ResponseWriter, name string) {
	if _, ok := c.refs[name]; !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	writeJSON(w, http.StatusOK, c.refLocked(name))
}

func (c *MockGitHubServerConfig) handleMatchingRefs(w http.ResponseWriter, prefix string) {
	var names []string
	for name := range c.refs {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]*github.Reference, 0, len(names))
	for _, name := range names {
		out = append(out, c.refLocked(name))
	}
	writeJSON(w, http.StatusOK, out)
}

type refRequest struct {
	Ref   string `json:"ref"`
	SHA   string `json:"sha"`
	Force bool   `json:"force"`
}

func (c *MockGitHubServerConfig) handleCreateRef(w http.ResponseWriter, r *http.Request) {
	var req refRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimPrefix(req.Ref, "refs/")
	if _, exists := c.refs[name]; exists {
		writeError(w, http.StatusUnprocessableEntity, "Reference already exists")
		return
	}
	_, isCommit := c.commits[req.SHA]
	_, isTag := c.tags[req.SHA]
	if !isCommit && !isTag {
		writeError(w, http.StatusUnprocessableEntity, "Object does not exist")
		return
	}
	c.refs[name] = req.SHA
	writeJSON(w, http.StatusCreated, c.refLocked(name))
}

func (c *MockGitHubServerConfig) handleUpdateRef(w http.ResponseWriter, r *http.Request, name string) {
	var req refRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	current, ok := c.refs[name]
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "Reference does not exist")
		return
	}
	if _, ok := c.commits[req.SHA]; !ok {
		writeError(w, http.StatusUnprocessableEntity, "Object does not exist")
		return
	}
	if !req.Force && !c.isAncestorLocked(current, req.SHA) {
		writeError(w, http.StatusUnprocessableEntity, "Update is not a fast forward")
		return
	}
	c.refs[name] = req.SHA
	writeJSON(w, http.StatusOK, c.refLocked(name))
}

func (c *MockGitHubServerConfig) handleDeleteRef(w http.ResponseWriter, name string) {
	if _, ok := c.refs[name]; !ok {
		writeError(w, http.StatusUnprocessableEntity, "Reference does not exist")
		return
	}
	delete(c.refs, name)
	w.WriteHeader(http.StatusNoContent)
}

// isAncestorLocked reports whether ancestor is reachable from sha
func (c *MockGitHubServerConfig) isAncestorLocked(ancestor, sha string) bool {
	seen := map[string]bool{}
	queue := []string{sha}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == ancestor {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		if fc, ok := c.commits[cur]; ok {
			queue = append(queue, fc.Parents...)
		}
	}
	return false
}

func (c *MockGitHubServerConfig) handleGitCommit(w http.ResponseWriter, sha string) {
	fc, ok := c.commits[sha]
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	writeJSON(w, http.StatusOK, c.gitCommitLocked(fc))
}

type createCommitRequest struct {
	Message string   `json:"message"`
	Tree    string   `json:"tree"`
	Parents []string `json:"parents"`
	Author  *struct {
		Name  string    `json:"name"`
		Email string    `json:"email"`
		Date  time.Time `json:"date"`
	} `json:"author"`
}

func (c *MockGitHubServerConfig) handleCreateCommit(w http.ResponseWriter, r *http.Request) {
	var req createCommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, p := range req.Parents {
		if _, ok := c.commits[p]; !ok {
			writeError(w, http.StatusUnprocessableEntity, "Parent SHA does not exist")
			return
		}
	}
	fc := &FakeCommit{Message: req.Message, Tree: req.Tree, Parents: req.Parents}
	if req.Author != nil {
		fc.Author, fc.Email, fc.Date = req.Author.Name, req.Author.Email, req.Author.Date
	}
	c.addCommitLocked(fc)
	writeJSON(w, http.StatusCreated, c.gitCommitLocked(fc))
}

func (c *MockGitHubServerConfig) handleGetTag(w http.ResponseWriter, sha string) {
	tag, ok := c.tags[sha]
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

func (c *MockGitHubServerConfig) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tag     string `json:"tag"`
		Message string `json:"message"`
		Object  string `json:"object"`
		Type    string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := c.commits[req.Object]; !ok {
		writeError(w, http.StatusUnprocessableEntity, "Object does not exist")
		return
	}
	sha := c.nextSHA("tag:" + req.Tag)
	tag := &github.Tag{
		Tag:     github.String(req.Tag),
		SHA:     github.String(sha),
		Message: github.String(req.Message + "\n"),
		Tagger: &github.CommitAuthor{
			Name:  github.String("Test User"),
			Email: github.String("test@example.com"),
			Date:  &github.Timestamp{Time: c.tick()},
		},
		Object: &github.GitObject{Type: github.String("commit"), SHA: github.String(req.Object)},
	}
	c.tags[sha] = tag
	writeJSON(w, http.StatusCreated, tag)
}

func (c *MockGitHubServerConfig) handleMerge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Base          string `json:"base"`
		Head          string `json:"head"`
		CommitMessage string `json:"commit_message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	baseSHA, ok := c.refs["heads/"+req.Base]
	if !ok {
		writeError(w, http.StatusNotFound, "Base does not exist")
		return
	}
	headSHA, ok := c.resolveLocked(req.Head)
	if !ok {
		writeError(w, http.StatusNotFound, "Head does not exist")
		return
	}
	if c.MergeConflicts[headSHA] {
		writeError(w, http.StatusConflict, "Merge conflict")
		return
	}
	if c.isAncestorLocked(headSHA, baseSHA) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	msg := req.CommitMessage
	if msg == "" {
		msg = "Merge " + req.Head + " into " + req.Base
	}
	fc := &FakeCommit{Message: msg, Parents: []string{baseSHA, headSHA}}
	c.addCommitLocked(fc)
	c.refs["heads/"+req.Base] = fc.SHA
	writeJSON(w, http.StatusCreated, c.repoCommitLocked(fc, false))
}

func (c *MockGitHubServerConfig) handleCompare(w http.ResponseWriter, basehead string) {
	base, head, ok := strings.Cut(basehead, "...")
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	baseSHA, ok1 := c.resolveLocked(base)
	headSHA, ok2 := c.resolveLocked(head)
	if !ok1 || !ok2 {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	// commits reachable from head but not from base, with their files
	var ahead []*FakeCommit
	for _, fc := range c.firstParentLocked(headSHA) {
		if c.isAncestorLocked(fc.SHA, baseSHA) {
			break
		}
		ahead = append(ahead, fc)
	}
	behind := 0
	for _, fc := range c.firstParentLocked(baseSHA) {
		if c.isAncestorLocked(fc.SHA, headSHA) {
			break
		}
		behind++
	}
	var files []*github.CommitFile
	for i := len(ahead) - 1; i >= 0; i-- {
		files = append(files, ahead[i].Files...)
	}
	writeJSON(w, http.StatusOK, &github.CommitsComparison{
		AheadBy:  github.Int(len(ahead)),
		BehindBy: github.Int(behind),
		Files:    files,
	})
}

func (c *MockGitHubServerConfig) handleContents(w http.ResponseWriter, r *http.Request, dir string) {
	if ref := r.URL.Query().Get("ref"); ref != "" {
		if _, ok := c.resolveLocked(ref); !ok {
			writeError(w, http.StatusNotFound, "No commit found for the ref "+ref)
			return
		}
	}
	entries, ok := c.contents[dir]
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
