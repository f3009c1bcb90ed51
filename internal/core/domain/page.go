package domain

// Page is a fetched web page reduced to text.
type Page struct {
	// URL is the final URL after redirects.
	URL string

	StatusCode  int
	ContentType string

	// Raw is the response body as received.
	Raw []byte

	// Text is the body as markdown for HTML, or the raw text otherwise.
	Text string
}
