package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gserrors "gitscope.dev/gitscope/internal/errors"
)

func TestRespondErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", gserrors.NewValidationError("from", "is required"), http.StatusBadRequest},
		{"permission", gserrors.NewPermissionError("local repositories are disabled"), http.StatusForbidden},
		{"not found", gserrors.NewInvalidRefError("nope", "unknown revision 'nope'"), http.StatusNotFound},
		{"conflict", gserrors.NewConflictError(gserrors.ErrMergeConflict, "merge in progress"), http.StatusConflict},
		{"unsupported", gserrors.NewUnsupportedError("github", "stash"), http.StatusNotImplemented},
		{"api", &gserrors.APIError{Operation: "list commits", StatusCode: http.StatusBadGateway, Message: "Bad Gateway"}, http.StatusInternalServerError},
		{"unclassified", fmt.Errorf("unexpected rev-list output"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			respondError(c, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, map[string]any{"error": tt.err.Error()}, body)
		})
	}
}
