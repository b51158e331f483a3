package news

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentio/internal/interfaces"
)

// RSSProvider is a news capability backed by a public RSS feed. It carries
// no sentiment analysis of its own, so articles are scored at the neutral
// midpoint and left to the synthesis step to weigh.
type RSSProvider struct {
	parser  *gofeed.Parser
	feedURL string // URL template, %s is the symbol
	limit   int
	logger  arbor.ILogger
}

// NewRSSProvider creates an RSS-backed news provider.
func NewRSSProvider(feedURL string, limit int, logger arbor.ILogger) *RSSProvider {
	if limit <= 0 {
		limit = 10
	}
	return &RSSProvider{
		parser:  gofeed.NewParser(),
		feedURL: feedURL,
		limit:   limit,
		logger:  logger,
	}
}

// Search implements interfaces.NewsProvider.
func (p *RSSProvider) Search(ctx context.Context, symbol string) ([]interfaces.NewsArticle, error) {
	feedURL := fmt.Sprintf(p.feedURL, symbol)

	feed, err := p.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, &interfaces.ProviderError{Provider: "rss", Symbol: symbol, Err: err}
	}

	articles := make([]interfaces.NewsArticle, 0, p.limit)
	for _, item := range feed.Items {
		if len(articles) >= p.limit {
			break
		}

		article := interfaces.NewsArticle{
			Title:          strings.TrimSpace(item.Title),
			Summary:        strings.TrimSpace(item.Description),
			SentimentScore: 5,
			ImpactScore:    5,
			Source:         item.Link,
		}
		if item.PublishedParsed != nil {
			article.PublicationDate = item.PublishedParsed.Format("2006-01-02")
		}
		articles = append(articles, article)
	}

	p.logger.Debug().
		Str("symbol", symbol).
		Int("count", len(articles)).
		Msg("RSS feed fetched")

	return articles, nil
}
