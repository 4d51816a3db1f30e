package httpx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"go.uber.org/mock/gomock"
	"golang.org/x/net/html"

	domainauth "github.com/ministryofjustice/claims-ui/internal/domain/auth"
	"github.com/ministryofjustice/claims-ui/internal/http/ui/viewmodel"
	"github.com/ministryofjustice/claims-ui/internal/i18n"
	"github.com/ministryofjustice/claims-ui/internal/mocks"
	"github.com/ministryofjustice/claims-ui/internal/ports"
	"github.com/ministryofjustice/claims-ui/internal/service"
)

// RequireBundle loads the real locale catalogs, skipping the test when
// they are not reachable from the package directory.
func RequireBundle(t *testing.T) *i18n.Bundle {
	t.Helper()
	b, err := i18n.Load(os.DirFS(LocalesPathFromTest))
	if err != nil {
		t.Skipf("Locales not available, skipping: %v", err)
		return nil
	}
	return b
}

// RequireTemplateRenderer creates a TemplateRenderer for tests, skipping the test if templates are not available.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
		Translator: RequireBundle(t),
		Logger:     discardLogger(),
	})
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
		return nil
	}
	return tr
}

// ContainsAll checks if a string contains all the given substrings.
func ContainsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testStatic stands in for frontend/static.
func testStatic() fstest.MapFS {
	return fstest.MapFS{
		"css/app.css":          {Data: []byte("body{}")},
		"css/app.1a2b3c4d.css": {Data: []byte("body{}")},
	}
}

func testService() viewmodel.Service {
	return viewmodel.Service{
		Name:           "Submit a crime form",
		Phase:          "beta",
		DepartmentName: "Legal Aid Agency",
		ContactEmail:   "help@example.gov.uk",
	}
}

// routerFixture is a router backed by the real services over a mocked
// claims API.
type routerFixture struct {
	API    *mocks.MockClaimsAPI
	Auth   *fakeAuth
	Router *Router
}

type fixtureOptions struct {
	PageSize  int
	// WithAuth puts every page behind sign-in using fakeAuth.
	WithAuth  bool
	Readiness []ReadinessCheck
}

func newRouterFixture(t *testing.T, opts fixtureOptions) *routerFixture {
	t.Helper()
	bundle := RequireBundle(t)
	if _, err := os.Stat(TemplatePathFromTest); err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
	}

	ctrl := gomock.NewController(t)
	api := mocks.NewMockClaimsAPI(ctrl)
	claims, err := service.NewClaimService(service.ClaimServiceOptions{API: api, PageSize: opts.PageSize, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("claim service: %v", err)
	}
	subs, err := service.NewSubmissionService(service.SubmissionServiceOptions{API: api, PageSize: opts.PageSize})
	if err != nil {
		t.Fatalf("submission service: %v", err)
	}

	f := &routerFixture{API: api}
	services := RouterServices{
		Claims:      claims,
		Submissions: subs,
		I18n:        bundle,
		TemplateFS:  os.DirFS(TemplatePathFromTest),
		StaticFS:    testStatic(),
		Readiness:   opts.Readiness,
		Config: RouterConfig{
			AuthURLs: AuthURLs{Callback: "http://localhost:3000/auth/callback", PostLogout: "http://localhost:3000/"},
			Layout:   LayoutConfig{Service: testService()},
		},
		Logger: discardLogger(),
	}
	if opts.WithAuth {
		f.Auth = newFakeAuth()
		services.Auth = f.Auth
	}

	f.Router, err = NewRouter(services)
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	return f
}

// fakeAuth is an in-memory AuthServiceInterface.
type fakeAuth struct {
	sessions    map[string]*domainauth.Session
	begin       *ports.BeginResult
	beginErr    error
	completeErr error
	completed   []service.CompleteLoginInput
	loggedOut   []string
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		sessions: map[string]*domainauth.Session{},
		begin: &ports.BeginResult{
			AuthURL:      "https://idp.example.com/authorize?state=st",
			State:        "st",
			Nonce:        "nn",
			CodeVerifier: "cv",
		},
	}
}

// addSession registers a signed-in user and returns the session ID.
func (f *fakeAuth) addSession(name string) string {
	id := "sess-" + strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	f.sessions[id] = &domainauth.Session{
		ID:        id,
		UserID:    "user-" + id,
		Name:      name,
		Email:     "user@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	return id
}

func (f *fakeAuth) BeginLogin(context.Context, string) (*ports.BeginResult, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.begin, nil
}

func (f *fakeAuth) CompleteLogin(_ context.Context, in service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
	f.completed = append(f.completed, in)
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	id := f.addSession("New User")
	return &service.CompleteLoginResult{Session: *f.sessions[id]}, nil
}

func (f *fakeAuth) GetSession(_ context.Context, id string) (*domainauth.Session, error) {
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	return nil, ports.ErrSessionNotFound
}

func (f *fakeAuth) Logout(_ context.Context, id, postLogout string) (string, error) {
	f.loggedOut = append(f.loggedOut, id)
	if _, ok := f.sessions[id]; !ok {
		return "", errors.New("no session")
	}
	delete(f.sessions, id)
	return "https://idp.example.com/logout?post_logout_redirect_uri=" + postLogout, nil
}

// parseHTML parses a rendered page.
func parseHTML(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// findAll returns every element named tag whose class attribute contains class.
func findAll(n *html.Node, tag, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag && hasClass(n, class) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func hasClass(n *html.Node, class string) bool {
	if class == "" {
		return true
	}
	for _, a := range n.Attr {
		if a.Key == "class" {
			for c := range strings.FieldsSeq(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// text returns the whitespace-normalised text content of n.
func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func sessionCookie(id string) *http.Cookie {
	return &http.Cookie{Name: defaultSessionCookie, Value: id}
}
