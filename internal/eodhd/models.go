package eodhd

import "time"

// RealTimeQuote represents a delayed real-time quote from the /real-time
// endpoint.
type RealTimeQuote struct {
	Code          string  `json:"code"`
	Timestamp     int64   `json:"timestamp"` // Unix seconds
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	Volume        int64   `json:"volume"`
	PreviousClose float64 `json:"previousClose"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_p"`
}

// Time returns the quote timestamp as a time.Time in UTC.
func (q *RealTimeQuote) Time() time.Time {
	return time.Unix(q.Timestamp, 0).UTC()
}

// NewsItem represents a single news article.
type NewsItem struct {
	Date      time.Time      `json:"-"`
	DateStr   string         `json:"date"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Link      string         `json:"link"`
	Symbols   []string       `json:"symbols"`
	Tags      []string       `json:"tags"`
	Sentiment *NewsSentiment `json:"sentiment,omitempty"`
}

// NewsSentiment represents sentiment analysis data for news.
type NewsSentiment struct {
	Polarity float64 `json:"polarity"`
	Neg      float64 `json:"neg"`
	Neu      float64 `json:"neu"`
	Pos      float64 `json:"pos"`
}

// NewsResponse is a slice of NewsItem.
type NewsResponse []NewsItem
