package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GeneratePaymentReference builds the unique reference sent to the payment
// gateway. Lenco references must be alphanumeric with dashes.
func GeneratePaymentReference() string {
	return "EDU-" + strings.ToUpper(uuid.NewString())
}

// GenerateCertificateNumber builds a printable certificate number
func GenerateCertificateNumber(courseID, userID uint) string {
	short := strings.ToUpper(strings.Split(uuid.NewString(), "-")[0])
	return fmt.Sprintf("EDU-CERT-%d-%d-%s", courseID, userID, short)
}

// FormatAmount renders a monetary amount with its currency for emails
func FormatAmount(amount float64, currency string) string {
	return fmt.Sprintf("%s %.2f", currency, amount)
}
