package collector

// Stats summarizes a single collection run. Exposed through the stats
// endpoint in scheduled mode and logged as a run summary.
type Stats struct {
	CardsFound    int            `json:"cards_found"`
	DetailsOpened int            `json:"details_opened"`
	ParseFailures int            `json:"parse_failures"`
	Included      int            `json:"included"`
	Excluded      int            `json:"excluded"`
	Reasons       map[string]int `json:"reasons"`
}

// DetailInfo holds the fields extracted from a single job detail page.
type DetailInfo struct {
	Title       string
	Location    string
	BodyText    string
	Excerpt     string
	PostingDate string
	ClosingDate string
}
