package cli

import (
	"errors"
	"reflect"

	"github.com/alecthomas/kong"

	"go.hackfix.me/courseapi/db/models"
)

// EmailMapper parses and validates email address arguments.
type EmailMapper struct{}

var _ kong.Mapper = (*EmailMapper)(nil)

// Decode implements the kong.Mapper interface.
func (EmailMapper) Decode(kctx *kong.DecodeContext, target reflect.Value) error {
	var value string
	err := kctx.Scan.PopValueInto("email", &value)
	if err != nil {
		return err
	}

	if !models.ValidEmail(value) {
		return errors.New(models.InvalidEmailMsg)
	}

	target.SetString(value)

	return nil
}
