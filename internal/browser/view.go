package browser

// View is one controllable web view inside the webview host process. The
// sidebar holds one view per window (nav and body); slot switches retarget
// the body view.
type View interface {
	// LoadURL navigates the view.
	LoadURL(url string) error

	// EvaluateScript runs JavaScript in the page and returns the result
	// serialized as a string ("true"/"false" for booleans).
	EvaluateScript(script string) (string, error)

	// CurrentURL returns the page's current location.
	CurrentURL() (string, error)

	// Destroy tears the view down. Further calls fail.
	Destroy() error
}
