// Package validators wires go-playground/validator into echo so handlers
// can call c.Validate on bound request structs.
package validators

import "github.com/go-playground/validator/v10"

// Validator adapts a validator.Validate instance to echo's Validator
// interface.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates the echo validator.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate checks a bound request struct against its validate tags.
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
