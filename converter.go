package crawlx

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms clean HTML (e.g., Article.ContentHTML) into
	// Markdown. Relative links and images are resolved against baseURL
	// when it is not empty.
	Convert(html, baseURL string) (string, error)
}
