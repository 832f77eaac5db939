package party

import (
	"regexp"
	"strings"
	"unicode"

	"nvv/ebh-import/internal/textutils"
)

var (
	sepaBankLayout  = regexp.MustCompile(`[A-Z]{2}\d{2}[A-Z0-9]{4,30}\s+[A-Z]{6}[A-Z0-9]{2,5}\s+([A-Za-z][A-Za-z\s&.\-]{3,40}?)\s+(?:ER\s+EF|[A-Z]{2}\s+[A-Z]{2}|\d{14})`)
	trailingInitial = regexp.MustCompile(`\s+[A-Z]\s*$`)
	leadingIBAN     = regexp.MustCompile(`^[A-Z]{2}\d{2}[A-Z0-9]{4,30}\s+`)
	leadingBIC      = regexp.MustCompile(`^[A-Z]{6}[A-Z0-9]{2}(?:[A-Z0-9]{3})?\s+`)
	longReference   = regexp.MustCompile(`\s+[A-Z0-9]{20,}`)
	viaProvider     = regexp.MustCompile(`(?i)^([A-Za-z][A-Za-z\s&.\-]{2,30})\s+via\s+([A-Za-z][A-Za-z\s&.\-]{2,20})`)

	// Reference markers that end the name part of a SEPA description.
	// The first one found wins.
	sepaReferences = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s+ER\s+EF\s+\d{14}[A-Z0-9]+.*$`),
		regexp.MustCompile(`(?i)\s+\d{2}-\d{2}-\d{2,4}.*$`),
		regexp.MustCompile(`(?i)\s+\d{4}-\d{2}-\d{2}.*$`),
		regexp.MustCompile(`(?i)\s+\d{2}/\d{2}/\d{2,4}.*$`),
		regexp.MustCompile(`(?i)\s+\d{1,2}:\d{2}.*$`),
		regexp.MustCompile(`(?i)\s+\d{10,20}.*$`),
		regexp.MustCompile(`(?i)\s+ordernummer.*$`),
		regexp.MustCompile(`(?i)\s+transactienummer.*$`),
		regexp.MustCompile(`(?i)\s+je order.*$`),
		regexp.MustCompile(`(?i)\s+EREF\s+[A-Z0-9\-]+`),
		regexp.MustCompile(`(?i)\s+MREF\s+[A-Z0-9\-]+`),
		regexp.MustCompile(`(?i)\s+CRED\s+[A-Z0-9\-]+`),
		regexp.MustCompile(`(?i)\s+SVWZ\s+.*$`),
		regexp.MustCompile(`(?i)\s+Factuurnummer\s+\d+.*$`),
		regexp.MustCompile(`(?i)\s+Invoice\s*#?\s*\d+.*$`),
		regexp.MustCompile(`(?i)\s+Ref\s*[:=]\s*.*$`),
		regexp.MustCompile(`(?i)\s+Reference\s*[:=]\s*.*$`),
		regexp.MustCompile(`(?i)\s+Kenmerk\s*[:=]\s*.*$`),
	}

	sepaCleanup = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(?:Payment|Betaling|Invoice|Factuur)\s+(?:from|van|to|naar)\s+`),
		regexp.MustCompile(`(?i)\s+\(.*\)$`),
		regexp.MustCompile(`(?i)^Mutatie\s+\d+:\s*`),
	}

	longNameSeparators = []string{" - ", " / ", " | ", "  "}
)

const longSEPAName = 50

// LooksLikeSEPA reports whether description starts with an IBAN, the layout
// of SEPA transfer descriptions.
func LooksLikeSEPA(description string) bool {
	return leadingIBAN.MatchString(strings.TrimSpace(description))
}

// ExtractFromSEPA extracts the counterparty name from a SEPA description of
// the form "IBAN BIC Name references...". ok is false for descriptions that
// do not start with an IBAN or leave no usable name.
func ExtractFromSEPA(description string) (string, bool) {
	description = strings.TrimSpace(description)
	if !LooksLikeSEPA(description) {
		return "", false
	}

	if m := sepaBankLayout.FindStringSubmatch(description); m != nil {
		name := strings.TrimSpace(trailingInitial.ReplaceAllString(strings.TrimSpace(m[1]), ""))
		if len(name) > 3 {
			return name, true
		}
	}

	name := leadingIBAN.ReplaceAllString(description, "")
	name = leadingBIC.ReplaceAllString(name, "")

	for _, re := range sepaReferences {
		if loc := re.FindStringIndex(name); loc != nil {
			name = strings.TrimSpace(name[:loc[0]])
			break
		}
	}
	name = longReference.ReplaceAllString(name, "")

	if m := viaProvider.FindStringSubmatch(name); m != nil {
		company, provider := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if len(provider) > 2 && isLetters(provider) {
			name = company + " via " + provider
		} else {
			name = company
		}
	} else if len(name) > longSEPAName {
		for _, sep := range longNameSeparators {
			if head, _, found := strings.Cut(name, sep); found {
				name = strings.TrimSpace(head)
				break
			}
		}
	}

	for _, re := range sepaCleanup {
		name = strings.TrimSpace(re.ReplaceAllString(name, ""))
	}
	name = textutils.NormalizeWhitespace(name)

	if len(name) < 3 || !strings.ContainsFunc(name, unicode.IsLetter) {
		return "", false
	}
	return name, true
}

func isLetters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
