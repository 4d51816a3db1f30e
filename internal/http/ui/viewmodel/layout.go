package viewmodel

// User represents the signed-in user shown in the service header.
type User struct {
	Name  string
	Email string
}

// Service carries the service-wide chrome: header title, phase banner and
// footer contact details.
type Service struct {
	Name           string
	URL            string
	Phase          string
	DepartmentName string
	DepartmentURL  string
	ContactEmail   string
	ContactPhone   string
}

// Layout captures shared chrome metadata (titles, navigation state, auth
// flags, language).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	CurrentPath     string
	Lang            string
	AuthEnabled     bool
	IsAuthenticated bool
	User            *User
	Service         Service
}

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}
