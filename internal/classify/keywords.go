package classify

// Keywords holds the keyword lists used by the classifiers. Matching is a
// case-insensitive substring test.
type Keywords struct {
	// InternalTransfer marks money moving between the user's own accounts.
	InternalTransfer []string `yaml:"internal_transfer"`
	// Commercial marks invoice or receipt payments. These always win over
	// transfer wording.
	Commercial []string `yaml:"commercial"`
	// CardPayment marks credit card settlements.
	CardPayment []string `yaml:"card_payment"`
	// Technical marks corrections, reversals and chargebacks.
	Technical []string `yaml:"technical"`
	// Transfer is used by the transfer detector.
	Transfer []string `yaml:"transfer"`
}

// DefaultKeywords returns the built-in keyword lists.
func DefaultKeywords() Keywords {
	return Keywords{
		InternalTransfer: []string{
			"przelew wewnętrzny",
			"przelew własny",
			"przelew między rachunkami",
			"transfer wewnętrzny",
		},
		Commercial: []string{
			"fv/",
			"faktura",
			"fs/",
			"zapłata za",
			"paragon",
		},
		CardPayment: []string{
			"spłata karty",
			"opłacenie karty",
			"karta kredytowa",
			"credit card payment",
		},
		Technical: []string{
			"korekta",
			"adjustment",
			"storno",
			"anulowanie",
			"zwrot prowizji",
		},
		Transfer: []string{
			"przelew własny",
			"przelew wewnętrzny",
			"transfer",
			"wpłata własna",
		},
	}
}

// WithDefaults fills every empty list from DefaultKeywords.
func (k Keywords) WithDefaults() Keywords {
	d := DefaultKeywords()
	if len(k.InternalTransfer) == 0 {
		k.InternalTransfer = d.InternalTransfer
	}
	if len(k.Commercial) == 0 {
		k.Commercial = d.Commercial
	}
	if len(k.CardPayment) == 0 {
		k.CardPayment = d.CardPayment
	}
	if len(k.Technical) == 0 {
		k.Technical = d.Technical
	}
	if len(k.Transfer) == 0 {
		k.Transfer = d.Transfer
	}
	return k
}
