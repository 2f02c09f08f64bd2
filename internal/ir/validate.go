package ir

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	nodeIDPattern     = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	actionRefPattern  = regexp.MustCompile(`^[a-z0-9]+(\.[a-z0-9]+)+$`)
	schemaVerPattern  = regexp.MustCompile(`^v[0-9]+$`)
)

// validatorInstance lazily builds the shared *validator.Validate, registering
// the custom tags node_id/action_ref/schema_version the Node struct uses.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("node_id", func(fl validator.FieldLevel) bool {
			return nodeIDPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("action_ref", func(fl validator.FieldLevel) bool {
			return actionRefPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("schema_version", func(fl validator.FieldLevel) bool {
			return schemaVerPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// ValidateWorkflow runs struct-level validation over the decoded workflow.
// It does not check graph shape (dependsOn targets, cycles) — that is the
// graph package's responsibility.
func ValidateWorkflow(wf *Workflow) error {
	return validatorInstance().Struct(wf)
}
