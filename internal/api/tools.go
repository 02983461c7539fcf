package api

import (
	"github.com/gin-gonic/gin"

	"gitscope.dev/gitscope/internal/agent"
)

// toolHandlers serves the agent tools. A repository is named by path or by
// owner and repo; a fresh toolset is bound per request.
type toolHandlers struct {
	handlers
	limits agent.Limits
}

func (h *toolHandlers) register(g *gin.RouterGroup) {
	g.GET("/tools", h.listTools)
	g.POST("/tools/:name", h.callTool)
}

func (h *toolHandlers) listTools(c *gin.Context) {
	var q target
	if !h.bindQuery(c, &q) {
		return
	}
	b, ok := h.resolve(c, q)
	if !ok {
		return
	}
	respondData(c, gin.H{"tools": agent.NewToolset(b, h.svc, h.limits).Tools()})
}

func (h *toolHandlers) callTool(c *gin.Context) {
	var req toolCallRequest
	if !h.bindJSON(c, &req) {
		return
	}
	b, ok := h.resolve(c, req.target)
	if !ok {
		return
	}
	out, err := agent.NewToolset(b, h.svc, h.limits).Call(c.Request.Context(), c.Param("name"), req.Arguments)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, out)
}
