package trade

import (
	"fmt"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// PaymentMethod is how the customer chose to pay. No payment is processed here.
type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodBoleto PaymentMethod = "BOLETO"
)

// MaxInstallments is the largest number of card installments accepted
const MaxInstallments = 12

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCard || m == PaymentMethodBoleto
}

// Payment records the chosen method and the number of installments
type Payment struct {
	Method       PaymentMethod
	Installments int
}

// NewPayment validates a payment choice.
// Card payments keep the requested installments (1..MaxInstallments);
// boleto is always a single installment.
func NewPayment(method PaymentMethod, installments int) (Payment, error) {
	method = PaymentMethod(strings.ToUpper(strings.TrimSpace(string(method))))
	switch method {
	case PaymentMethodCard:
		if installments < 1 || installments > MaxInstallments {
			return Payment{}, shared.ErrInvalidPayment.WithMessage(
				fmt.Sprintf("Card installments must be between 1 and %d", MaxInstallments))
		}
		return Payment{Method: method, Installments: installments}, nil
	case PaymentMethodBoleto:
		return Payment{Method: method, Installments: 1}, nil
	}
	return Payment{}, shared.ErrInvalidPayment.WithSubject(string(method))
}
