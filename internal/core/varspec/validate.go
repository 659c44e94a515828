package varspec

import (
	"regexp"
	"sync"

	perr "ipumsprep/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// varnameRe matches the identifiers SPSS accepts in a data list
var varnameRe = regexp.MustCompile(`^[A-Za-z_@#$][A-Za-z0-9_.@#$]*$`)

type validatorSvc struct {
	v     *validator.Validate
	trans ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *validatorSvc
)

// checker returns the shared validator with english translations and the varname tag
func checker() *validatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		_ = v.RegisterValidation("varname", func(fl validator.FieldLevel) bool {
			return varnameRe.MatchString(fl.Field().String())
		})
		_ = v.RegisterTranslation("varname", trans,
			func(ut ut.Translator) error {
				return ut.Add("varname", "{0} must be a variable name (letters, digits, _)", true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				msg, _ := ut.T("varname", fe.Field())
				return msg
			},
		)

		vSvc = &validatorSvc{v: v, trans: trans}
	})
	return vSvc
}

// validateVariable checks the per-variable invariants and returns a MalformedSpec error
func validateVariable(v Variable) error {
	s := checker()
	err := s.v.Struct(v)
	if err == nil {
		if v.Kind == String && v.Decimals != 0 {
			return perr.WithVariable(perr.MalformedSpecf("string variable cannot have implied decimals"), v.Name)
		}
		return nil
	}
	if inv, ok := err.(*validator.InvalidValidationError); ok {
		return perr.Wrap(inv, perr.ErrorCodeUnknown, "validator internal error")
	}
	msg := err.Error()
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		msg = verrs[0].Translate(s.trans)
	}
	return perr.WithVariable(perr.MalformedSpecf("%s", msg), v.Name)
}
