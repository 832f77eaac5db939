package models

// ClassifiedLine is a line item together with the categorizer's verdict.
type ClassifiedLine struct {
	LineItem
	Category   string
	Signal     Signal
	PriceClass PriceClass
	ItemCode   string
	ItemName   string
	UOM        string
	BankCost   bool
}

// ClassifiedMutation is the result of classifying one mutation.
type ClassifiedMutation struct {
	Mutation    Mutation
	Lines       []ClassifiedLine
	PartyName   string
	PartyType   PartyType
	PartySource PartySource
	Provisional bool
	Err         error
}

// Resolved reports whether a counterparty name was found.
func (c ClassifiedMutation) Resolved() bool {
	return c.PartyName != ""
}
