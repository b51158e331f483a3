package eodhd

import (
	"context"
	"math"
	"strings"

	"github.com/ternarybob/sentio/internal/interfaces"
)

// exchangeCurrencies maps exchange suffixes to trading currencies. The
// real-time endpoint does not return a currency, so it is derived from the
// symbol's exchange code.
var exchangeCurrencies = map[string]string{
	"US":     "USD",
	"NYSE":   "USD",
	"NASDAQ": "USD",
	"AMEX":   "USD",
	"AU":     "AUD",
	"LSE":    "GBP",
	"XETRA":  "EUR",
	"PA":     "EUR",
	"TO":     "CAD",
	"HK":     "HKD",
	"TYO":    "JPY",
	"SG":     "SGD",
}

// CurrencyForSymbol returns the trading currency for a TICKER.EXCHANGE
// symbol. Symbols without a recognized exchange suffix default to USD.
func CurrencyForSymbol(symbol string) string {
	if idx := strings.LastIndex(symbol, "."); idx >= 0 {
		if currency, ok := exchangeCurrencies[symbol[idx+1:]]; ok {
			return currency
		}
	}
	return "USD"
}

// Provider adapts the EODHD client to the market-data and news capability
// interfaces.
type Provider struct {
	client    *Client
	newsLimit int
}

// NewProvider creates a Provider around an existing client.
func NewProvider(client *Client, newsLimit int) *Provider {
	if newsLimit <= 0 {
		newsLimit = 10
	}
	return &Provider{client: client, newsLimit: newsLimit}
}

// GetQuote implements interfaces.MarketDataProvider.
func (p *Provider) GetQuote(ctx context.Context, symbol string) (*interfaces.Quote, error) {
	quote, err := p.client.GetRealTimeQuote(ctx, symbol)
	if err != nil {
		return nil, &interfaces.ProviderError{Provider: "eodhd", Symbol: symbol, Err: err}
	}

	return &interfaces.Quote{
		Symbol:    symbol,
		Price:     quote.Close,
		Currency:  CurrencyForSymbol(symbol),
		Timestamp: quote.Time(),
	}, nil
}

// Search implements interfaces.NewsProvider.
func (p *Provider) Search(ctx context.Context, symbol string) ([]interfaces.NewsArticle, error) {
	news, err := p.client.GetNews(ctx, []string{symbol}, WithLimit(p.newsLimit))
	if err != nil {
		return nil, &interfaces.ProviderError{Provider: "eodhd", Symbol: symbol, Err: err}
	}

	articles := make([]interfaces.NewsArticle, 0, len(news))
	for _, item := range news {
		article := interfaces.NewsArticle{
			Title:          item.Title,
			Summary:        summarize(item.Content),
			SentimentScore: 5,
			ImpactScore:    5,
			Source:         item.Link,
		}
		if !item.Date.IsZero() {
			article.PublicationDate = item.Date.Format("2006-01-02")
		}
		if item.Sentiment != nil {
			article.SentimentScore = scoreFromPolarity(item.Sentiment.Polarity)
			article.ImpactScore = impactFromPolarity(item.Sentiment.Polarity)
		}
		articles = append(articles, article)
	}
	return articles, nil
}

// scoreFromPolarity maps polarity in [-1, 1] onto the 1-10 sentiment scale.
func scoreFromPolarity(polarity float64) int {
	score := int(math.Round((polarity+1)/2*9)) + 1
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}
	return score
}

// impactFromPolarity maps polarity magnitude onto the 1-10 impact scale.
// A strongly positive or negative article is treated as higher impact.
func impactFromPolarity(polarity float64) int {
	score := int(math.Round(math.Abs(polarity)*9)) + 1
	if score > 10 {
		score = 10
	}
	return score
}

func summarize(content string) string {
	const maxLen = 500
	content = strings.TrimSpace(content)
	if len(content) <= maxLen {
		return content
	}
	return content[:maxLen] + "..."
}
