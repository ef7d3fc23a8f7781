package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

var settingsValidator = newSettingsValidator()

func newSettingsValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateSettings checks every runtime setting and returns a ValidationError
// listing all failures.
func ValidateSettings(s *Settings) error {
	var errs []SettingError

	if err := settingsValidator.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("failed to validate runtime settings: %w", err)
		}
		for _, fe := range verrs {
			errs = append(errs, SettingError{
				Field:   "runtime." + fe.Field(),
				Message: settingMessage(fe),
			})
		}
	}

	if s.LedgerPruneSchedule != "" {
		if _, err := cron.ParseStandard(s.LedgerPruneSchedule); err != nil {
			errs = append(errs, SettingError{
				Field:   "runtime.ledger_prune_schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", s.LedgerPruneSchedule, err),
			})
		}
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func settingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	case "required", "required_unless":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "hostname_port":
		return fmt.Sprintf("must be a host:port address, got %q", fe.Value())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
