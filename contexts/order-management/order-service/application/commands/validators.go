package commands

import (
	"regexp"

	"github.com/shopspring/decimal"

	"orderhub/contexts/order-management/order-service/domain/entities"
	"orderhub/internal/platform/result"
	"orderhub/internal/platform/validation"
)

var (
	orderIDPattern     = regexp.MustCompile(`^ORD-\d+$`)
	customerIDPattern  = regexp.MustCompile(`^CUST-\d+$`)
	productCodePattern = regexp.MustCompile(`^PROD-\d+$`)
)

func validateOrderID(orderID string) *result.Failure {
	return validation.Matches(orderID, "orderId", orderIDPattern,
		"order ID must match pattern ORD-XXX where XXX is a number")
}

func validateCustomerID(customerID string) *result.Failure {
	return validation.Matches(customerID, "customerId", customerIDPattern,
		"customer ID must match pattern CUST-XXX where XXX is a number")
}

func validateAmount(amount decimal.Decimal) *result.Failure {
	return validation.Positive(amount, "amount")
}

func validateProductCode(productCode string) *result.Failure {
	return validation.Matches(productCode, "productCode", productCodePattern,
		"product code must match pattern PROD-XXX where XXX is a number")
}

func validateStatus(raw string) (entities.OrderStatus, *result.Failure) {
	status, ok := entities.ParseOrderStatus(raw)
	if !ok {
		return "", result.NewFailure(result.CodeValidation,
			"status must be one of PENDING, COMPLETED, FAILED").
			With("field", "status").
			With("value", raw)
	}
	return status, nil
}
