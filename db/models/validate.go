package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"

	"go.hackfix.me/courseapi/db/types"
)

// InvalidEmailMsg is the message returned when an email address doesn't match
// the expected local-part@domain.tld structure.
const InvalidEmailMsg = "You have entered an invalid email address!"

var emailRx = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

// ValidEmail reports whether addr has the structure of an email address.
func ValidEmail(addr string) bool {
	return emailRx.MatchString(addr)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Field errors are reported using the human readable label, if any.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})

	err := v.RegisterValidation("email_address", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("failed registering email validation: %s", err))
	}

	return v
}

// validateModel checks the struct tag rules of model m, and returns a
// types.ValidationError with one message per failed field.
func validateModel(modelName string, m any) error {
	err := validate.Struct(m)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed validating %s: %w", modelName, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%q is required", fe.Field()))
		case "email_address":
			msgs = append(msgs, InvalidEmailMsg)
		default:
			msgs = append(msgs, fmt.Sprintf("%q is invalid", fe.Field()))
		}
	}

	return types.ValidationError{ModelName: modelName, Msgs: msgs}
}
