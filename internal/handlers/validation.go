package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// handlePattern accepts chat usernames with an optional leading "@".
var handlePattern = regexp.MustCompile(`^@?[A-Za-z0-9_.]{1,64}$`)

// RegisterValidators adds the custom binding tags used by request DTOs.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("handle", validateHandle)
}

func validateHandle(fl validator.FieldLevel) bool {
	return handlePattern.MatchString(fl.Field().String())
}
