package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MutationType is the e-Boekhouden mutation kind.
type MutationType int

const (
	MutationOpeningBalance MutationType = iota
	MutationInvoiceReceived
	MutationInvoiceSent
	MutationInvoicePaymentReceived
	MutationInvoicePaymentSent
	MutationMoneyReceived
	MutationMoneyPaid
	MutationMemorial
)

var mutationTypeNames = map[MutationType]string{
	MutationOpeningBalance:         "Beginbalans",
	MutationInvoiceReceived:        "FactuurOntvangen",
	MutationInvoiceSent:            "FactuurVerstuurd",
	MutationInvoicePaymentReceived: "FactuurbetalingOntvangen",
	MutationInvoicePaymentSent:     "FactuurbetalingVerstuurd",
	MutationMoneyReceived:          "GeldOntvangen",
	MutationMoneyPaid:              "GeldUitgegeven",
	MutationMemorial:               "Memoriaal",
}

func (t MutationType) String() string {
	if name, ok := mutationTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("MutationType(%d)", int(t))
}

// Valid reports whether t is one of the known mutation types.
func (t MutationType) Valid() bool {
	_, ok := mutationTypeNames[t]
	return ok
}

// Direction returns the money direction implied by the mutation type.
// Sales invoices and incoming payments are received; purchase invoices and
// outgoing payments are paid. Memorials and opening balances carry no
// direction.
func (t MutationType) Direction() Direction {
	switch t {
	case MutationInvoiceSent, MutationInvoicePaymentReceived, MutationMoneyReceived:
		return DirectionReceived
	case MutationInvoiceReceived, MutationInvoicePaymentSent, MutationMoneyPaid:
		return DirectionPaid
	default:
		return DirectionUnknown
	}
}

// ParseMutationType accepts a numeric code or an e-Boekhouden type name.
func ParseMutationType(s string) (MutationType, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		t := MutationType(n)
		if !t.Valid() {
			return 0, fmt.Errorf("unknown mutation type code %d", n)
		}
		return t, nil
	}
	for t, name := range mutationTypeNames {
		if strings.EqualFold(name, s) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown mutation type %q", s)
}

// Direction is the coarse money direction of a mutation.
type Direction int

const (
	DirectionUnknown Direction = iota
	DirectionReceived
	DirectionPaid
)

func (d Direction) String() string {
	switch d {
	case DirectionReceived:
		return "RECEIVED"
	case DirectionPaid:
		return "PAID"
	default:
		return "UNKNOWN"
	}
}

// LineItem is one line of a mutation.
type LineItem struct {
	Description string
	TaxCode     string
	AccountCode string
	UnitPrice   decimal.NullDecimal
	Quantity    decimal.Decimal
	Unit        string
}

// Relation holds the counterparty details the export carries for a
// relation code. Any field may be empty.
type Relation struct {
	Company string
	Contact string
	Name    string
}

// DisplayName returns company, contact or name, whichever is set first.
func (r Relation) DisplayName() string {
	for _, s := range []string{r.Company, r.Contact, r.Name} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// Mutation is a single transaction recorded by the external ledger.
type Mutation struct {
	Number        int
	Type          MutationType
	Date          time.Time
	Description   string
	RelationCode  string
	Relation      Relation
	InvoiceNumber string
	Amount        decimal.Decimal
	LedgerCode    string
	Lines         []LineItem
}

// Reference returns the short mutation reference used in display names,
// for example "EBH-1234". It is empty when the mutation has no number.
func (m Mutation) Reference(prefix string) string {
	if m.Number <= 0 {
		return ""
	}
	return fmt.Sprintf("%s-%d", prefix, m.Number)
}
