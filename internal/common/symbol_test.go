package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "AAPL.US", NormalizeSymbol("  aapl.us "))
	assert.Equal(t, "GNP.AU", NormalizeSymbol("gnp.au"))
	assert.Equal(t, "", NormalizeSymbol("   "))
}

func TestNormalizeSymbols(t *testing.T) {
	got := NormalizeSymbols([]string{"aapl.us", "AAPL.US", " msft.us", "", "gnp.au"})
	assert.Equal(t, []string{"AAPL.US", "MSFT.US", "GNP.AU"}, got)
}
