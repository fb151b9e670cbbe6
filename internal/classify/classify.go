package classify

import (
	"github.com/carson-networks/finances-tracker/internal/rules"
)

// Classifier decides the IsInsignificant and IsTransfer flags of a
// description. The two decisions are independent of each other.
type Classifier struct {
	ownAccounts rules.KeywordSet
	commercial  rules.KeywordSet
	noise       rules.KeywordSet
	transferKw  rules.KeywordSet
}

// New builds a Classifier. ownIdentifiers are the import identifiers of the
// user's accounts; blank identifiers are ignored.
func New(keywords Keywords, ownIdentifiers []string) *Classifier {
	noise := make([]string, 0, len(keywords.InternalTransfer)+len(keywords.CardPayment)+len(keywords.Technical))
	noise = append(noise, keywords.InternalTransfer...)
	noise = append(noise, keywords.CardPayment...)
	noise = append(noise, keywords.Technical...)

	return &Classifier{
		ownAccounts: rules.NewKeywordSet(ownIdentifiers...),
		commercial:  rules.NewKeywordSet(keywords.Commercial...),
		noise:       rules.NewKeywordSet(noise...),
		transferKw:  rules.NewKeywordSet(keywords.Transfer...),
	}
}

// Result is the outcome of classifying one description.
type Result struct {
	Insignificant bool
	Transfer      bool
}

// Classify runs both decisions over description.
func (c *Classifier) Classify(description string) Result {
	folded := rules.Fold(description)
	return Result{
		Insignificant: c.insignificant(folded),
		Transfer:      c.transfer(folded),
	}
}

// IsInsignificant reports whether description should be excluded from
// spending aggregates. The first matching rule decides:
//  1. own account identifier: insignificant
//  2. commercial marker: significant
//  3. internal transfer, card payment or technical keyword: insignificant
//  4. otherwise significant
func (c *Classifier) IsInsignificant(description string) bool {
	return c.insignificant(rules.Fold(description))
}

// IsTransfer reports whether description looks like a movement between the
// user's own accounts. Commercial markers veto keyword matches but not
// identifier matches.
func (c *Classifier) IsTransfer(description string) bool {
	return c.transfer(rules.Fold(description))
}

func (c *Classifier) insignificant(folded string) bool {
	switch {
	case c.ownAccounts.MatchFolded(folded):
		return true
	case c.commercial.MatchFolded(folded):
		return false
	case c.noise.MatchFolded(folded):
		return true
	default:
		return false
	}
}

func (c *Classifier) transfer(folded string) bool {
	if c.ownAccounts.MatchFolded(folded) {
		return true
	}
	return c.transferKw.MatchFolded(folded) && !c.commercial.MatchFolded(folded)
}
