package service

import (
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"reflect"
	"strings"
	"time"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check validates input and turns the first violated rule into a Validation error
func check(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.Wrap(err, "validating input failed")
	}
	fe := fieldErrs[0]
	field := fe.Field()
	if field != "" {
		field = strings.ToUpper(field[:1]) + field[1:]
	}
	switch fe.Tag() {
	case "required":
		return Validation(fmt.Sprintf("%s is required", field))
	case "email":
		return Validation("Please enter a valid email")
	case "min":
		return Validation(fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
	case "max":
		return Validation(fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
	}
	return Validation(fmt.Sprintf("%s is invalid", field))
}

// parseID turns a hex reference into an ObjectID. A malformed reference
// cannot name an existing document, so it yields the NotFound error given.
func parseID(hex string, notFound string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, NotFound(notFound)
	}
	return id, nil
}

// now is the creation/update timestamp, at the millisecond precision MongoDB stores
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
