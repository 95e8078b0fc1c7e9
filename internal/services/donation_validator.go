package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"donations/internal/models/request_models"
	"donations/pkg/utils"
)

type DonationValidator interface {
	// Validate returns nil or utils.ValidationErrors.
	Validate(req *request_models.DonationRequest) error
}

type donationValidator struct {
	validate *validator.Validate
}

var validationMessages = map[string]string{
	"required":                      "This value should not be blank.",
	"email":                         "This value is not a valid email address.",
	"oneof":                         "This value is not a valid choice.",
	"gt":                            "This value should be greater than 0.",
	"max":                           "This value is too long.",
	"iso3166_1_alpha2":              "This value is not a valid country.",
	"postcode_iso3166_alpha2_field": "This value is not a valid postal code.",
	"phone":                         "This value is not a valid phone number.",
}

func NewDonationValidator() DonationValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	v.RegisterStructValidation(validatePhone, request_models.DonationRequest{})

	return &donationValidator{validate: v}
}

func validatePhone(sl validator.StructLevel) {
	req := sl.Current().Interface().(request_models.DonationRequest)
	if req.Phone != nil && !req.Phone.IsValid() {
		sl.ReportError(req.Phone, "phone", "Phone", "phone", "")
	}
}

func (d *donationValidator) Validate(req *request_models.DonationRequest) error {
	err := d.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(utils.ValidationErrors, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		msg, ok := validationMessages[fe.Tag()]
		if !ok {
			msg = "This value is not valid."
		}
		out[fe.Field()] = msg
	}
	return out
}
