package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_IsInsignificant(t *testing.T) {
	c := New(DefaultKeywords(), []string{"1234 5678", ""})

	tests := []struct {
		name        string
		description string
		want        bool
	}{
		{"own account identifier", "Przelew na rachunek 1234 5678", true},
		{"own identifier beats invoice marker", "FV/12/2024 rachunek 1234 5678", true},
		{"invoice marker beats transfer wording", "Przelew wewnętrzny FV/2024/01/15", false},
		{"invoice word beats card payment", "Spłata karty faktura 7", false},
		{"internal transfer", "PRZELEW WŁASNY oszczędności", true},
		{"card payment", "Spłata karty kredytowej", true},
		{"technical correction", "STORNO operacji", true},
		{"plain spending", "Biedronka 1234", false},
		{"empty description", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsInsignificant(tt.description))
		})
	}
}

func TestClassifier_IsTransfer(t *testing.T) {
	c := New(DefaultKeywords(), []string{"PL61109010140000071219812874"})

	tests := []struct {
		name        string
		description string
		want        bool
	}{
		{"own account identifier", "Wpływ z PL61109010140000071219812874", true},
		{"transfer keyword", "TRANSFER do oszczędności", true},
		{"own deposit", "Wpłata własna", true},
		{"keyword vetoed by invoice", "Transfer zapłata za FV/1", false},
		{"no keyword", "Żabka", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsTransfer(tt.description))
		})
	}
}

func TestClassifier_DecisionsAreIndependent(t *testing.T) {
	c := New(DefaultKeywords(), nil)

	got := c.Classify("Korekta salda")
	assert.True(t, got.Insignificant)
	assert.False(t, got.Transfer)

	got = c.Classify("Transfer Revolut")
	assert.False(t, got.Insignificant)
	assert.True(t, got.Transfer)
}

func TestKeywords_WithDefaultsKeepsOverrides(t *testing.T) {
	k := Keywords{Commercial: []string{"rachunek nr"}}.WithDefaults()

	assert.Equal(t, []string{"rachunek nr"}, k.Commercial)
	assert.Equal(t, DefaultKeywords().Transfer, k.Transfer)
	assert.Equal(t, DefaultKeywords().Technical, k.Technical)
}
