package domain

import (
	"fmt"

	"stayhub/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate runs the struct tags of any domain entity and folds violations
// into ErrInvalidInput so the boundary reports them with the right kind.
func Validate(entity any) error {
	if err := validate.Struct(entity); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidInput, err)
	}
	return nil
}
