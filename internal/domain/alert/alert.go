package alert

import (
	"context"
	"fmt"
)

// Kind identifies which target date a row matched.
type Kind string

const (
	KindResponseCheck  Kind = "RESPONSE_CHECK"  // expiry is 27 days out
	KindContractEnding Kind = "CONTRACT_ENDING" // expiry is one month out
)

// Headline is the short human label used in message bodies.
func (k Kind) Headline() string {
	switch k {
	case KindResponseCheck:
		return "Contract expires in 27 days. Did we get a response?"
	case KindContractEnding:
		return "Contract ending in one month."
	default:
		return string(k)
	}
}

// Alert is a single outbound notification. It lives only for the dispatch.
type Alert struct {
	Kind      Kind
	To        string
	Subject   string
	Body      string
	RowNumber int // sheet row the alert was raised for
}

// Sender delivers alerts over some transport (SMTP, Gmail API, Telegram, ...).
type Sender interface {
	Send(ctx context.Context, a Alert) error
}

// DispatchError records a failed send with enough context for a manual resend.
type DispatchError struct {
	Alert Alert
	Err   error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("failed to send %s alert for row %d to %s (subject %q): %v",
		e.Alert.Kind, e.Alert.RowNumber, e.Alert.To, e.Alert.Subject, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
