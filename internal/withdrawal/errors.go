package withdrawal

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrBelowMinimum          = errors.New("amount below minimum withdrawal")
	ErrInvalidPaymentDetails = errors.New("invalid payment details")
	ErrInvalidState          = errors.New("withdrawal request is not pending")
)

// DuplicateRequestError indica que a conta já criou um pedido de saque no
// dia corrente. Carrega os dados do pedido existente para o caller.
type DuplicateRequestError struct {
	Status      string
	AmountCents int64
	CreatedAt   time.Time
}

func (e *DuplicateRequestError) Error() string {
	return fmt.Sprintf("only one withdrawal request per day: existing %s request of %d cents submitted at %s",
		e.Status, e.AmountCents, e.CreatedAt.Format("Jan 02, 15:04"))
}
