package envelope

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/net/http/httpguts"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("upstream_url", isUpstreamURL); err != nil {
		panic(err)
	}
	return v
}

func isUpstreamURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return invalid("body", err.Error())
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return invalid(fe.Field(), fmt.Sprintf("%s is required", fe.Field()))
	case "upstream_url":
		return invalid(fe.Field(), fmt.Sprintf("%s must be an absolute http or https URL, got %q", fe.Field(), fe.Value()))
	default:
		return invalid(fe.Field(), fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
	}
}

func validateHeaders(headers map[string]string) error {
	for _, name := range HeaderNames(headers) {
		if !httpguts.ValidHeaderFieldName(name) {
			return invalid("headers", fmt.Sprintf("invalid header name %q", name))
		}
		if !httpguts.ValidHeaderFieldValue(headers[name]) {
			return invalid("headers", fmt.Sprintf("invalid value for header %q", name))
		}
	}
	return nil
}
