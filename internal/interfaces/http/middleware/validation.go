package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/fintrack/backend/internal/domain/subscription"
	"github.com/fintrack/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RequestIDKey is the gin context key holding the request ID
const RequestIDKey = "request_id"

var setupOnce sync.Once

// SetupValidator registers the custom binding tags and makes error field
// names follow the json/form tags. Safe to call more than once.
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
		_ = v.RegisterValidation("currency", validateCurrency)
		_ = v.RegisterValidation("frequency", validateFrequency)
	})
}

// validateCurrency accepts ISO 4217 codes in any letter case
func validateCurrency(fl validator.FieldLevel) bool {
	_, err := valueobject.ParseCurrency(fl.Field().String())
	return err == nil
}

func validateFrequency(fl validator.FieldLevel) bool {
	return subscription.Frequency(strings.ToLower(fl.Field().String())).IsValid()
}

// FormatValidationErrors lists every failed binding rule in the validation
// error envelope
func FormatValidationErrors(err error, requestID string) dto.Response {
	var fieldErrs validator.ValidationErrors
	errors.As(err, &fieldErrs)
	details := make([]dto.ValidationDetail, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, dto.ValidationDetail{Field: fe.Field(), Message: describe(fe)})
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// IsValidationError reports whether err came from binding tags rather than
// from decoding the body
func IsValidationError(err error) bool {
	var fieldErrs validator.ValidationErrors
	return errors.As(err, &fieldErrs)
}

// HandleValidationError answers 400 with the failed rules
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

// GetRequestID returns the ID RequestID stored, else the raw header
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(RequestIDHeader)
}

// ruleMessages are printf formats taking the tag parameter
var ruleMessages = map[string]string{
	"required":  "This field is required",
	"email":     "Invalid email format",
	"uuid":      "Invalid UUID format",
	"oneof":     "Must be one of: %s",
	"currency":  "Must be an ISO 4217 currency code",
	"frequency": "Must be one of: daily weekly monthly quarterly yearly",
	"hexcolor":  "Must be a hex color such as #4f46e5",
	"nefield":   "Must differ from %s",
	"min":       "Must be at least %s",
	"max":       "Must be at most %s",
}

func describe(fe validator.FieldError) string {
	format, ok := ruleMessages[fe.Tag()]
	if !ok {
		return "Invalid value"
	}
	if !strings.Contains(format, "%s") {
		return format
	}
	msg := fmt.Sprintf(format, fe.Param())
	if (fe.Tag() == "min" || fe.Tag() == "max") && fe.Kind() == reflect.String {
		msg += " characters"
	}
	return msg
}
