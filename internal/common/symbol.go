package common

import "strings"

// NormalizeSymbol canonicalizes a ticker symbol: trimmed and uppercased.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// NormalizeSymbols canonicalizes and de-duplicates a symbol list, preserving
// first-occurrence order. Empty entries are dropped.
func NormalizeSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	result := make([]string, 0, len(symbols))

	for _, s := range symbols {
		normalized := NormalizeSymbol(s)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}

	return result
}
