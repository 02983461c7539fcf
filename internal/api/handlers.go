package api

import (
	"github.com/gin-gonic/gin"

	"gitscope.dev/gitscope/internal/backend"
	gserrors "gitscope.dev/gitscope/internal/errors"
	"gitscope.dev/gitscope/internal/ops"
	"gitscope.dev/gitscope/internal/repo"
)

// handlers serves one route tree. kind fixes how the repository is
// identified; an empty kind accepts either form.
type handlers struct {
	factory *backend.Factory
	svc     *ops.Service
	kind    string
}

func (h *handlers) register(g *gin.RouterGroup) {
	g.GET("/repo", h.getRepo)
	g.POST("/repo", h.validateRepo)

	g.GET("/commits", h.listCommits)
	g.GET("/commits/:hash", h.commitDetail)

	g.GET("/branches", h.listBranches)
	g.POST("/branches", h.createBranch)
	g.DELETE("/branches", h.deleteBranch)
	g.POST("/branches/checkout", h.checkout)
	g.POST("/branches/merge", h.merge)

	g.GET("/tags", h.listTags)
	g.POST("/tags", h.createTag)
	g.DELETE("/tags", h.deleteTag)

	g.GET("/stash", h.listStashes)
	g.POST("/stash", h.stash)

	g.POST("/reset", h.reset)
	g.POST("/cherry-pick", h.cherryPick)
	g.POST("/revert", h.revert)

	g.GET("/status", h.status)
	g.GET("/diff", h.diff)
	g.GET("/files", h.listFiles)
}

func (h *handlers) identity(t target) (backend.Identity, error) {
	switch h.kind {
	case repo.KindLocal:
		if t.Path == "" {
			return backend.Identity{}, gserrors.NewValidationError("path", "is required")
		}
		return backend.ParseIdentity(t.Path, "", "")
	case repo.KindGitHub:
		if t.Owner == "" || t.Repo == "" {
			return backend.Identity{}, gserrors.NewValidationError("", "owner and repo are required")
		}
		return backend.ParseIdentity("", t.Owner, t.Repo)
	default:
		return backend.ParseIdentity(t.Path, t.Owner, t.Repo)
	}
}

// resolve turns the request target into a backend, writing the error
// response and returning false on failure
func (h *handlers) resolve(c *gin.Context, t target) (repo.Backend, bool) {
	id, err := h.identity(t)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	b, err := h.factory.Resolve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return b, true
}

func (h *handlers) bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		respondError(c, bindError(err))
		return false
	}
	return true
}

func (h *handlers) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, bindError(err))
		return false
	}
	return true
}

func (h *handlers) getRepo(c *gin.Context) {
	var q target
	if !h.bindQuery(c, &q) {
		return
	}
	b, ok := h.resolve(c, q)
	if !ok {
		return
	}
	overview, err := h.svc.Inspect.Overview(c.Request.Context(), b)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, overview)
}

type validateResponse struct {
	Valid bool   `json:"valid"`
	Path  string `json:"path"`
}

// validateRepo never fails once the identity parses: an unusable repository is valid=false
func (h *handlers) validateRepo(c *gin.Context) {
	var req target
	if !h.bindJSON(c, &req) {
		return
	}
	id, err := h.identity(req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, validateResponse{Valid: h.factory.Validate(c.Request.Context(), id), Path: id.String()})
}

func (h *handlers) listCommits(c *gin.Context) {
	var q commitsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	b, ok := h.resolve(c, q.target)
	if !ok {
		return
	}
	page, err := h.svc.History.ListCommits(c.Request.Context(), b, repo.ListCommitsOptions{
		Branch:   q.Branch,
		MaxCount: q.MaxCount,
		Skip:     q.Skip,
		Search:   q.Search,
		Author:   q.Author,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, page)
}

func (h *handlers) commitDetail(c *gin.Context) {
	var q target
	if !h.bindQuery(c, &q) {
		return
	}
	b, ok := h.resolve(c, q)
	if !ok {
		return
	}
	detail, err := h.svc.History.CommitDetail(c.Request.Context(), b, c.Param("hash"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, detail)
}

func (h *handlers) listBranches(c *gin.Context) {
	var q target
	if !h.bindQuery(c, &q) {
		return
	}
	b, ok := h.resolve(c, q)
	if !ok {
		return
	}
	branches, err := h.svc.Refs.ListBranches(c.Request.Context(), b)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, gin.H{"branches": branches})
}

func (h *handlers) createBranch(c *gin.Context) {
	var req createBranchRequest
	if !h.bindJSON(c, &req) {
		return
	}
	b, ok := h.resolve(c, req.target)
	if !ok {
		return
	}
	respondResult(c, h.svc.Refs.CreateBranch(c.Request.Context(), b, req.Name, req.StartPoint))
}

func (h *handlers) deleteBranch(c *gin.Context) {
	var req deleteBranchRequest
	if !h.bindJSON(c, &req) {
		return
	}
	b, ok := h.resolve(c, req.target)
	if !ok {
		return
	}
	respondResult(c, h.svc.Refs.DeleteBranch(c.Request.Context(), b, req.Name, req.Force))
}

func (h *handlers) checkout(c *gin.Context) {
	var req checkoutRequest
	if !h.bindJSON(c, &req) {
		return
	}
	b, ok := h.resolve(c, req.target)
	if !ok {
		return
	}
	respondResult(c, h.svc.Refs.Checkout(c.Request.Context(), b, req.Name))
}

func (h *handlers) merge(c *gin.Context) {
	var req mergeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	b, ok := h.resolve(c, req.target)
	if !ok {
		return
	}
	respondResult(c, h.svc.Refs.MergeBranch(c.Request.Context(), b, req.Source))
}

func (h *handlers) listTags(c *gin.Context) {
	var q target
	if !h.bindQuery(c, &q) {
		return
	}
	b, ok := h.resolve(c, q)
	if !ok {
		return
	}
	tags, err := h.svc.Refs.ListTags(c.Request.Context(), b)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, gin.H{"tags": tags})
}

func (h *handlers) createTag(c *gin.Context) {
	var req createTagRequest
	if !h.bindJSON(c, &req) {
		return
	}
	b, ok := h.resolve(c, req.target)
	if !ok {
		return
	}
	opts := repo.CreateTagOptions{Message: req.Message, Hash: req.Hash}
	respondResult(c, h.svc.Refs.CreateTag(c.Request.Context(), b, req.Name, opts))
}

func (h *handlers) deleteTag(c *gin.Context) {
	var req deleteTagRequest
	if !h.bindJSON(c, &req) {
		return
	}
	b, ok := h.resolve(c, req.target)
	if !ok {
		return
	}
	respondResult(c, h.svc.Refs.DeleteTag(c.Request.Context(), b, req.Name))
}

func (h *handlers) listStashes(c *gin.Context) {
	var q target
	if !h.bindQuery(c, &q) {
		return
	}
	b, ok := h.resolve(c, q)
	if !ok {
		return
	}
	stashes, err := h.svc.Stash.List(c.Request.Context(), b)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, gin.H{"stashes": stashes})
}

func (h *handlers) stash(c *gin.Context) {
	var req stashRequest
	if !h.bindJSON(c, &req) {
		return
	}
	switch req.Action {
	case "apply", "pop", "drop":
		if req.Index == nil {
			respondError(c, gserrors.NewValidationError("index", "is required"))
			return
		}
	}
	b, ok := h.resolve(c, req.target)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var result repo.OperationResult
	switch req.Action {
	case "save":
		includeUntracked := req.IncludeUntracked == nil || *req.IncludeUntracked
		result = h.svc.Stash.Save(ctx, b, req.Message, includeUntracked)
	case "apply":
		result = h.svc.Stash.Apply(ctx, b, *req.Index)
	case "pop":
		result = h.svc.Stash.Pop(ctx, b, *req.Index)
	case "drop":
		result = h.svc.Stash.Drop(ctx, b, *req.Index)
	case "clear":
		result = h.svc.Stash.Clear(ctx, b)
	}
	respondResult(c, result)
}

func (h *handlers) reset(c *gin.Context) {
	var req resetRequest
	if !h.bindJSON(c, &req) {
		return
	}
	mode := repo.ResetMode(req.Mode)
	if mode == repo.ResetHard && !req.Confirm {
		respondError(c, gserrors.NewValidationError("confirm",
			"a hard reset discards uncommitted changes and must be confirmed with confirm=true"))
		return
	}
	b, ok := h.resolve(c, req.target)
	if !ok {
		return
	}
	respondResult(c, h.svc.Mutations.Reset(c.Request.Context(), b, req.Hash, mode))
}

func (h *handlers) cherryPick(c *gin.Context) {
	var req sequenceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	b, ok := h.resolve(c, req.target)
	if !ok {
		return
	}
	respondResult(c, h.svc.Mutations.CherryPick(c.Request.Context(), b, req.Hashes, nil))
}

func (h *handlers) revert(c *gin.Context) {
	var req sequenceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	b, ok := h.resolve(c, req.target)
	if !ok {
		return
	}
	respondResult(c, h.svc.Mutations.Revert(c.Request.Context(), b, req.Hashes, nil))
}

func (h *handlers) status(c *gin.Context) {
	var q target
	if !h.bindQuery(c, &q) {
		return
	}
	b, ok := h.resolve(c, q)
	if !ok {
		return
	}
	status, err := h.svc.Inspect.Status(c.Request.Context(), b)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, status)
}

func (h *handlers) diff(c *gin.Context) {
	var q diffQuery
	if !h.bindQuery(c, &q) {
		return
	}
	b, ok := h.resolve(c, q.target)
	if !ok {
		return
	}
	diff, err := h.svc.Inspect.Diff(c.Request.Context(), b, q.From, q.To)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, diff)
}

func (h *handlers) listFiles(c *gin.Context) {
	var q filesQuery
	if !h.bindQuery(c, &q) {
		return
	}
	b, ok := h.resolve(c, q.target)
	if !ok {
		return
	}
	entries, err := h.svc.Inspect.ListFiles(c.Request.Context(), b, q.Directory, q.Ref)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, gin.H{"files": entries})
}
