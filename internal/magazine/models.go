package magazine

// Article represents a single magazine entry as served by the API
type Article struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Category string `json:"category"`
	Pubdate  string `json:"pubdate"`
	Article  string `json:"article"`
}

// Payload is the full response body: a tagline and the ordered list of
// articles. It is never mutated after decoding.
type Payload struct {
	Tagline  string    `json:"tagline"`
	Articles []Article `json:"articles"`
}
