package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	once     sync.Once
	validate *govalidator.Validate
	trans    ut.Translator
)

func setup() {
	validate = govalidator.New()

	// Use JSON tag name for field names in error messages.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	en_translations.RegisterDefaultTranslations(validate, trans)
}

// Struct validates dst against its `validate` tags.
// Returns nil on success or a field → message map on failure.
func Struct(dst interface{}) map[string]string {
	once.Do(setup)

	if err := validate.Struct(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// TranslateErrors takes a validation error and returns a map of field name →
// human-readable error message. If the error is not a validation error, it
// returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	once.Do(setup)

	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(trans)
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}
