package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	gserrors "gitscope.dev/gitscope/internal/errors"
	"gitscope.dev/gitscope/internal/repo"
)

type dataBody struct {
	Data any `json:"data"`
}

type errorBody struct {
	Error string `json:"error"`
}

func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dataBody{Data: data})
}

// respondResult writes a mutation result. Failed mutations are still a 200:
// the failure is in the result.
func respondResult(c *gin.Context, result repo.OperationResult) {
	respondData(c, result)
}

func respondError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(gserrors.StatusCode(err), errorBody{Error: err.Error()})
}

// bindError converts a gin binding failure into a ValidationError
func bindError(err error) error {
	var fieldErrs validator.ValidationErrors
	if gserrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		switch fe.Tag() {
		case "required":
			return gserrors.NewValidationError(fe.Field(), "is required")
		case "refname":
			return gserrors.NewValidationError(fe.Field(), fmt.Sprintf("'%v' may only contain letters, digits, '.', '_', '-' and '/' and must not start with '-'", fe.Value()))
		case "oneof":
			return gserrors.NewValidationError(fe.Field(), "must be one of "+fe.Param())
		case "min", "gte":
			return gserrors.NewValidationError(fe.Field(), "must be at least "+fe.Param())
		default:
			return gserrors.NewValidationError(fe.Field(), fmt.Sprintf("failed the %q check", fe.Tag()))
		}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case gserrors.Is(err, io.EOF):
		return gserrors.NewValidationError("", "request body is required")
	case gserrors.As(err, &syntaxErr):
		return gserrors.NewValidationError("", "request body is not valid JSON")
	case gserrors.As(err, &typeErr):
		return gserrors.NewValidationError(typeErr.Field, "must be a "+typeErr.Type.String())
	}
	return gserrors.NewValidationError("", err.Error())
}
