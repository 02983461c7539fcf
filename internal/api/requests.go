package api

import (
	"encoding/json"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// refName is the character set accepted for branch, tag and merge source
// names. A leading '-' would reach git as an option.
var refName = regexp.MustCompile(`^[A-Za-z0-9._/][A-Za-z0-9._\-/]*$`)

var registerOnce sync.Once

// registerValidators adds the refname rule to gin's validator and reports
// fields by their JSON or query name
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
		_ = v.RegisterValidation("refname", func(fl validator.FieldLevel) bool {
			return refName.MatchString(fl.Field().String())
		})
	})
}

// target identifies the repository a request operates on
type target struct {
	Path  string `json:"path" form:"path"`
	Owner string `json:"owner" form:"owner"`
	Repo  string `json:"repo" form:"repo"`
}

type commitsQuery struct {
	target
	Branch   string `form:"branch"`
	MaxCount int    `form:"maxCount" binding:"omitempty,min=0"`
	Skip     int    `form:"skip" binding:"omitempty,min=0"`
	Search   string `form:"search"`
	Author   string `form:"author"`
}

type diffQuery struct {
	target
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

type filesQuery struct {
	target
	Directory string `form:"directory"`
	Ref       string `form:"ref"`
}

type createBranchRequest struct {
	target
	Name       string `json:"name" binding:"required,refname"`
	StartPoint string `json:"startPoint"`
}

type deleteBranchRequest struct {
	target
	Name  string `json:"name" binding:"required,refname"`
	Force bool   `json:"force"`
}

type checkoutRequest struct {
	target
	Name string `json:"name" binding:"required"`
}

type mergeRequest struct {
	target
	Source string `json:"source" binding:"required,refname"`
}

type createTagRequest struct {
	target
	Name    string `json:"name" binding:"required,refname"`
	Message string `json:"message"`
	Hash    string `json:"hash"`
}

type deleteTagRequest struct {
	target
	Name string `json:"name" binding:"required,refname"`
}

type stashRequest struct {
	target
	Action           string `json:"action" binding:"required,oneof=save apply pop drop clear"`
	Message          string `json:"message"`
	Index            *int   `json:"index" binding:"omitempty,min=0"`
	IncludeUntracked *bool  `json:"includeUntracked"`
}

type resetRequest struct {
	target
	Hash    string `json:"hash" binding:"required"`
	Mode    string `json:"mode" binding:"required,oneof=soft mixed hard"`
	Confirm bool   `json:"confirm"`
}

type sequenceRequest struct {
	target
	Hashes []string `json:"hashes" binding:"required,min=1,dive,required"`
}

type toolCallRequest struct {
	target
	Arguments json.RawMessage `json:"arguments"`
}
