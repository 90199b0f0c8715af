package utils

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"campus-availability-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	validate = validator.New()
	hhmmRe   = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

func init() {
	if err := RegisterValidators(validate); err != nil {
		log.Fatalf("register validators: %v", err)
	}
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := RegisterValidators(v); err != nil {
			log.Fatalf("register binding validators: %v", err)
		}
	}
}

// RegisterValidators adds the domain tags facultystatus, appointmentstatus and hhmm
// to v, along with notblank for strings that must hold more than whitespace.
func RegisterValidators(v *validator.Validate) error {
	custom := map[string]validator.Func{
		"facultystatus": func(fl validator.FieldLevel) bool {
			return models.FacultyStatus(fl.Field().String()).Valid()
		},
		"appointmentstatus": func(fl validator.FieldLevel) bool {
			return models.AppointmentStatus(fl.Field().String()).Valid()
		},
		"hhmm": func(fl validator.FieldLevel) bool {
			return hhmmRe.MatchString(fl.Field().String())
		},
		"notblank": validators.NotBlank,
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// Validate performs validation on a struct.
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// FormatValidationError formats validation errors into a readable string.
func FormatValidationError(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok {
		var errorMessages []string
		for _, e := range errs {
			msg := fmt.Sprintf("%s failed on '%s'", e.Field(), e.Tag())
			if e.Param() != "" {
				msg += " (" + e.Param() + ")"
			}
			errorMessages = append(errorMessages, msg)
		}
		return strings.Join(errorMessages, ", ")
	}
	return err.Error()
}

// BindAndValidate binds the request body to a struct and validates it.
// If validation fails, it sends a BadRequest response and returns false.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			BadRequest(c, "Validation failed: "+FormatValidationError(err))
		} else {
			BadRequest(c, "Invalid request payload: "+err.Error())
		}
		return false
	}
	if err := Validate(obj); err != nil {
		BadRequest(c, "Validation failed: "+FormatValidationError(err))
		return false
	}
	return true
}
