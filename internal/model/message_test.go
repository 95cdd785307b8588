package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	assert.Equal(t, CategoryQuestion, ParseCategory("QUESTION"))
	assert.Equal(t, CategoryRefund, ParseCategory("REFUND"))
	assert.Equal(t, CategoryOther, ParseCategory("OTHER"))
	assert.Equal(t, CategoryQuestion, ParseCategory("SPAM"))
	assert.Equal(t, CategoryQuestion, ParseCategory(""))
}

func TestParseImportance(t *testing.T) {
	assert.Equal(t, ImportanceLow, ParseImportance("low"))
	assert.Equal(t, ImportanceMedium, ParseImportance("medium"))
	assert.Equal(t, ImportanceHigh, ParseImportance("high"))
	assert.Equal(t, ImportanceLow, ParseImportance("urgent"))
	assert.Equal(t, ImportanceLow, ParseImportance(""))
}
