package rules

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finances-tracker/internal/ledger"
)

// DefaultAccountRuleTTL is how long loaded account rules are reused.
const DefaultAccountRuleTTL = 5 * time.Minute

// AccountRuleLoader fetches the active account rules ordered by keyword.
type AccountRuleLoader func(ctx context.Context) ([]ledger.AccountRule, error)

// AccountRuleCache keeps the active account rules in memory for a TTL.
//
// The cache is process local. Another instance editing rules is only seen
// after the TTL expires.
type AccountRuleCache struct {
	ttl  time.Duration
	now  func() time.Time
	load AccountRuleLoader

	mu       sync.RWMutex
	rules    []ledger.AccountRule
	loadedAt time.Time
	valid    bool
}

// NewAccountRuleCache creates a cache around load. A non-positive ttl uses
// DefaultAccountRuleTTL.
func NewAccountRuleCache(ttl time.Duration, load AccountRuleLoader) *AccountRuleCache {
	if ttl <= 0 {
		ttl = DefaultAccountRuleTTL
	}
	return &AccountRuleCache{
		ttl:  ttl,
		now:  time.Now,
		load: load,
	}
}

// WithClock replaces the time source. Used by tests.
func (c *AccountRuleCache) WithClock(now func() time.Time) *AccountRuleCache {
	c.now = now
	return c
}

// Rules returns the cached rules, reloading them when stale.
func (c *AccountRuleCache) Rules(ctx context.Context) ([]ledger.AccountRule, error) {
	c.mu.RLock()
	if c.valid && c.now().Sub(c.loadedAt) < c.ttl {
		rules := c.rules
		c.mu.RUnlock()
		return rules, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid && c.now().Sub(c.loadedAt) < c.ttl {
		return c.rules, nil
	}

	loaded, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]ledger.AccountRule, 0, len(loaded))
	for _, r := range loaded {
		if r.IsActive && strings.TrimSpace(r.Keyword) != "" {
			active = append(active, r)
		}
	}
	slices.SortStableFunc(active, func(a, b ledger.AccountRule) int {
		return cmp.Compare(a.Keyword, b.Keyword)
	})

	c.rules = active
	c.loadedAt = c.now()
	c.valid = true
	return active, nil
}

// Match returns the account of the first rule whose keyword occurs in label.
func (c *AccountRuleCache) Match(ctx context.Context, label string) (uuid.UUID, bool, error) {
	rules, err := c.Rules(ctx)
	if err != nil {
		return uuid.Nil, false, err
	}
	folded := Fold(label)
	for _, r := range rules {
		if ContainsFoldedKeyword(folded, r.Keyword) {
			return r.AccountID, true, nil
		}
	}
	return uuid.Nil, false, nil
}

// Invalidate drops the cached rules so the next read reloads them.
func (c *AccountRuleCache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.rules = nil
	c.mu.Unlock()
}

// ContainsFoldedKeyword reports whether keyword occurs in an already folded
// text, ignoring case. Blank keywords never match.
func ContainsFoldedKeyword(foldedText, keyword string) bool {
	if strings.TrimSpace(keyword) == "" {
		return false
	}
	return strings.Contains(foldedText, Fold(keyword))
}
