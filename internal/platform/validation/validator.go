package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"orderhub/internal/platform/result"
)

// Field validators shared by request DTO validation on both the HTTP and
// message paths. Each returns nil on success or a VALIDATION failure naming
// the offending field.

func NotBlank(value, field string) *result.Failure {
	if strings.TrimSpace(value) == "" {
		return result.NewFailure(result.CodeValidation, fmt.Sprintf("%s is required", field)).
			With("field", field)
	}
	return nil
}

func Matches(value, field string, pattern *regexp.Regexp, hint string) *result.Failure {
	if failure := NotBlank(value, field); failure != nil {
		return failure
	}
	if !pattern.MatchString(value) {
		return result.NewFailure(result.CodeValidation, hint).
			With("field", field).
			With("value", value)
	}
	return nil
}

func Positive(amount decimal.Decimal, field string) *result.Failure {
	if amount.Cmp(decimal.Zero) <= 0 {
		return result.NewFailure(result.CodeValidation, "amount must be greater than zero").
			With("field", field).
			With("value", amount.String())
	}
	return nil
}

func AtMost(amount, ceiling decimal.Decimal, field string) *result.Failure {
	if amount.Cmp(ceiling) > 0 {
		return result.NewFailure(result.CodeValidation,
			fmt.Sprintf("amount exceeds maximum allowed (%s)", ceiling.String())).
			With("field", field).
			With("value", amount.String())
	}
	return nil
}
