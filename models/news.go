package models

// NewsItem represents a single headline from the news feed search.
// An empty Link marks a non-clickable placeholder (e.g. the synthetic item
// returned when the feed could not be reached).
type NewsItem struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}
