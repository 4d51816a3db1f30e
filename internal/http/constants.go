package httpx

// CurrentPage constants identify pages for navigation state and content
// template lookup.
const (
	PageClaims      = "claims"
	PageClaim       = "claim"
	PageSubmissions = "submissions"
	PageSubmission  = "submission"
	PageNotFound    = "not-found"
	PageError       = "error"
)

// List base paths. Page links are built as <path>?page=<n>.
const (
	claimsPath      = "/"
	submissionsPath = "/submissions"
)

//nolint:gochecknoglobals // static read-only lookup for templates; avoids per-call allocations
var contentTemplates = map[string]string{
	PageClaims:      "claims-content",
	PageClaim:       "claim-content",
	PageSubmissions: "submissions-content",
	PageSubmission:  "submission-content",
	PageNotFound:    "not-found-content",
	PageError:       "error-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Unknown pages render the error content.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "error-content"
}

// Template paths used for loading templates in tests and dev mode.
const (
	TemplatePathFromRoot = "frontend/templates"
	TemplatePathFromTest = "../../frontend/templates"

	LocalesPathFromRoot = "frontend/locales"
	LocalesPathFromTest = "../../frontend/locales"
)
