package rules

// Clone returns a deep copy of rs.
func (rs RuleSet) Clone() RuleSet {
	out := rs
	out.Keywords = make([]CategoryRule, len(rs.Keywords))
	for i, r := range rs.Keywords {
		out.Keywords[i] = CategoryRule{Category: r.Category, Keywords: cloneStrings(r.Keywords)}
	}
	out.TaxCodes = append([]TaxCodeHint(nil), rs.TaxCodes...)
	out.AccountRanges = append([]AccountRange(nil), rs.AccountRanges...)
	out.PriceBands = make([]PriceBand, len(rs.PriceBands))
	for i, b := range rs.PriceBands {
		out.PriceBands[i] = PriceBand{Class: b.Class}
		if b.Upper != nil {
			u := *b.Upper
			out.PriceBands[i].Upper = &u
		}
	}
	out.BankCostPhrases = cloneStrings(rs.BankCostPhrases)
	if rs.Units != nil {
		out.Units = make(map[string]string, len(rs.Units))
		for k, v := range rs.Units {
			out.Units[k] = v
		}
	}
	out.Party = PartyRules{
		CleanupPatterns:    cloneStrings(rs.Party.CleanupPatterns),
		ExtractionPatterns: cloneStrings(rs.Party.ExtractionPatterns),
		PurposeWords:       cloneStrings(rs.Party.PurposeWords),
		Articles:           cloneStrings(rs.Party.Articles),
		GenericTerms:       cloneStrings(rs.Party.GenericTerms),
		Connectors:         cloneStrings(rs.Party.Connectors),
		OrganizationWords:  cloneStrings(rs.Party.OrganizationWords),
		MinNameLength:      rs.Party.MinNameLength,
		IncomeKeywords:     cloneStrings(rs.Party.IncomeKeywords),
		ExpenseKeywords:    cloneStrings(rs.Party.ExpenseKeywords),
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
