package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"nvv/ebh-import/internal/models"
	"nvv/ebh-import/internal/parsererror"
)

const defaultMinNameLength = 3

type band struct {
	class     models.PriceClass
	upper     decimal.Decimal
	unbounded bool
}

// Compiled is a validated RuleSet with all patterns compiled. It is
// read-only after Compile returns.
type Compiled struct {
	defaultCategory string
	keywords        []CategoryRule
	taxCodes        map[string]string
	ranges          []AccountRange
	bands           []band
	bankCost        []string
	units           map[string]string

	cleanup        []*regexp.Regexp
	extraction     []*regexp.Regexp
	purposeClause  *regexp.Regexp
	leadingArticle *regexp.Regexp
	generic        map[string]struct{}
	noise          map[string]struct{}
	organization   map[string]struct{}
	minNameLength  int
	income         []string
	expense        []string

	source RuleSet
}

// MustCompile is Compile that panics on error. Use only with rule sets
// known to be valid, such as Default().
func MustCompile(rs RuleSet) *Compiled {
	c, err := Compile(rs)
	if err != nil {
		panic(err)
	}
	return c
}

// Compile validates rs and compiles its patterns.
func Compile(rs RuleSet) (*Compiled, error) {
	c := &Compiled{
		defaultCategory: strings.TrimSpace(rs.DefaultCategory),
		taxCodes:        make(map[string]string, len(rs.TaxCodes)),
		units:           make(map[string]string, len(rs.Units)),
		generic:         make(map[string]struct{}, len(rs.Party.GenericTerms)),
		noise:           make(map[string]struct{}, len(rs.Party.Connectors)+len(rs.Party.Articles)),
		organization:    make(map[string]struct{}, len(rs.Party.OrganizationWords)),
		minNameLength:   rs.Party.MinNameLength,
		source:          rs.Clone(),
	}
	if c.defaultCategory == "" {
		c.defaultCategory = models.CategoryServices
	}
	if !models.IsKnownCategory(c.defaultCategory) {
		return nil, &parsererror.RuleError{Table: "default_category", Reason: fmt.Sprintf("unknown category %q", c.defaultCategory)}
	}
	if c.minNameLength <= 0 {
		c.minNameLength = defaultMinNameLength
	}

	if err := c.compileKeywords(rs.Keywords); err != nil {
		return nil, err
	}
	if err := c.compileTaxCodes(rs.TaxCodes); err != nil {
		return nil, err
	}
	if err := c.compileRanges(rs.AccountRanges); err != nil {
		return nil, err
	}
	if err := c.compileBands(rs.PriceBands); err != nil {
		return nil, err
	}
	if err := c.compileParty(rs.Party); err != nil {
		return nil, err
	}

	c.bankCost = lowerAll(rs.BankCostPhrases)
	for k, v := range rs.Units {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, &parsererror.RuleError{Table: "units", Reason: fmt.Sprintf("empty unit of measure for %q", k)}
		}
		c.units[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return c, nil
}

func (c *Compiled) compileKeywords(rules []CategoryRule) error {
	for i, r := range rules {
		if !models.IsKnownCategory(r.Category) {
			return &parsererror.RuleError{Table: "keywords", Index: i, Reason: fmt.Sprintf("unknown category %q", r.Category)}
		}
		kws := lowerAll(r.Keywords)
		if len(kws) == 0 {
			return &parsererror.RuleError{Table: "keywords", Index: i, Reason: "no keywords"}
		}
		c.keywords = append(c.keywords, CategoryRule{Category: r.Category, Keywords: kws})
	}
	return nil
}

func (c *Compiled) compileTaxCodes(hints []TaxCodeHint) error {
	for i, h := range hints {
		code := normalizeTaxCode(h.Code)
		if code == "" {
			return &parsererror.RuleError{Table: "tax_codes", Index: i, Reason: "empty code"}
		}
		if !models.IsKnownCategory(h.Category) {
			return &parsererror.RuleError{Table: "tax_codes", Index: i, Reason: fmt.Sprintf("unknown category %q", h.Category)}
		}
		if _, dup := c.taxCodes[code]; dup {
			return &parsererror.RuleError{Table: "tax_codes", Index: i, Reason: fmt.Sprintf("duplicate code %q", code)}
		}
		c.taxCodes[code] = h.Category
	}
	return nil
}

func (c *Compiled) compileRanges(ranges []AccountRange) error {
	for i, r := range ranges {
		if r.Low > r.High {
			return &parsererror.RuleError{Table: "account_ranges", Index: i, Reason: fmt.Sprintf("low %d is greater than high %d", r.Low, r.High)}
		}
		if !models.IsKnownCategory(r.Category) {
			return &parsererror.RuleError{Table: "account_ranges", Index: i, Reason: fmt.Sprintf("unknown category %q", r.Category)}
		}
		c.ranges = append(c.ranges, r)
	}
	return nil
}

func (c *Compiled) compileBands(bands []PriceBand) error {
	for i, b := range bands {
		class, ok := models.ParsePriceClass(b.Class)
		if !ok {
			return &parsererror.RuleError{Table: "price_bands", Index: i, Reason: fmt.Sprintf("unknown price class %q", b.Class)}
		}
		if b.Upper == nil {
			if i != len(bands)-1 {
				return &parsererror.RuleError{Table: "price_bands", Index: i, Reason: "only the last band may be unbounded"}
			}
			c.bands = append(c.bands, band{class: class, unbounded: true})
			continue
		}
		if !b.Upper.IsPositive() {
			return &parsererror.RuleError{Table: "price_bands", Index: i, Reason: "upper bound must be positive"}
		}
		if i > 0 && !b.Upper.GreaterThan(c.bands[i-1].upper) {
			return &parsererror.RuleError{Table: "price_bands", Index: i, Reason: "bands must be in ascending order"}
		}
		c.bands = append(c.bands, band{class: class, upper: *b.Upper})
	}
	return nil
}

func (c *Compiled) compileParty(p PartyRules) error {
	for i, pattern := range p.CleanupPatterns {
		re, err := compileInsensitive(pattern)
		if err != nil {
			return &parsererror.RuleError{Table: "cleanup_patterns", Index: i, Reason: "does not compile", Err: err}
		}
		c.cleanup = append(c.cleanup, re)
	}

	if len(p.ExtractionPatterns) == 0 {
		return &parsererror.RuleError{Table: "extraction_patterns", Reason: "at least one pattern is required"}
	}
	for i, pattern := range p.ExtractionPatterns {
		re, err := compileInsensitive(pattern)
		if err != nil {
			return &parsererror.RuleError{Table: "extraction_patterns", Index: i, Reason: "does not compile", Err: err}
		}
		if re.NumSubexp() != 1 {
			return &parsererror.RuleError{Table: "extraction_patterns", Index: i,
				Reason: fmt.Sprintf("expected exactly one capture group, found %d", re.NumSubexp())}
		}
		c.extraction = append(c.extraction, re)
	}

	var err error
	if words := quoteAll(p.PurposeWords); len(words) > 0 {
		c.purposeClause, err = regexp.Compile(`(?i)\s+(?:` + strings.Join(words, "|") + `)\b.*$`)
		if err != nil {
			return &parsererror.RuleError{Table: "purpose_words", Reason: "does not compile", Err: err}
		}
	}
	if words := quoteAll(p.Articles); len(words) > 0 {
		c.leadingArticle, err = regexp.Compile(`(?i)^(?:` + strings.Join(words, "|") + `)\s+`)
		if err != nil {
			return &parsererror.RuleError{Table: "articles", Reason: "does not compile", Err: err}
		}
	}

	for _, term := range lowerAll(p.GenericTerms) {
		c.generic[term] = struct{}{}
	}
	for _, word := range lowerAll(append(cloneStrings(p.Connectors), p.Articles...)) {
		c.noise[word] = struct{}{}
	}
	for _, word := range lowerAll(p.OrganizationWords) {
		c.organization[word] = struct{}{}
	}
	c.income = lowerAll(p.IncomeKeywords)
	c.expense = lowerAll(p.ExpenseKeywords)
	return nil
}

func compileInsensitive(pattern string) (*regexp.Regexp, error) {
	if !strings.HasPrefix(pattern, "(?i)") {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func quoteAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range lowerAll(in) {
		out = append(out, regexp.QuoteMeta(s))
	}
	return out
}

func normalizeTaxCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
