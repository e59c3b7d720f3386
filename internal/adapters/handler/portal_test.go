package handler_test

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sis-portal/web/internal/adapters/handler"
	"github.com/sis-portal/web/internal/adapters/middleware"
	"github.com/sis-portal/web/internal/adapters/session"
	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/internal/core/services"
	"github.com/sis-portal/web/test/mocks"
	"github.com/sis-portal/web/web"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// portal is a running portal backed by a mock upstream. Its HTTP client
// keeps the session cookie and follows redirects back to the page.
type portal struct {
	server *httptest.Server
	http   *http.Client
	client *mocks.MockSISClient
}

func newPortal(t *testing.T) *portal {
	t.Helper()

	client := mocks.NewMockSISClient()
	store := session.NewMemoryStore(time.Hour)
	audit := mocks.NewMockAuditRecorder()

	templates, err := handler.ParseTemplates(web.Templates)
	require.NoError(t, err)

	student := services.NewStudentService(client, store, audit)
	csrf := middleware.NewCSRF(testSecret, time.Hour)

	router := handler.NewRouter(handler.Handlers{
		Page:         handler.NewPageHandler(store, csrf, templates, "test"),
		Auth:         handler.NewAuthHandler(services.NewAuthService(client, store, audit), services.NewNavigationService(store, student)),
		Registration: handler.NewRegistrationHandler(services.NewRegistrationService(client, store, audit)),
		Student:      handler.NewStudentHandler(student),
		Teacher:      handler.NewTeacherHandler(services.NewTeacherService(client, store, audit)),
		Admin:        handler.NewAdminHandler(services.NewAdminService(client, store, audit)),
		Health:       handler.NewHealthHandler("test", store, client, nil),
		Sessions:     middleware.NewSessionMiddleware([]byte(testSecret), "sis-portal", 3600, false, store),
		CSRF:         csrf,
		Static:       web.Static,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &portal{
		server: server,
		http:   &http.Client{Jar: jar},
		client: client,
	}
}

func (p *portal) page(t *testing.T) *goquery.Document {
	t.Helper()

	resp, err := p.http.Get(p.server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return doc
}

func (p *portal) rawPage(t *testing.T) string {
	t.Helper()

	resp, err := p.http.Get(p.server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

// post submits a form with the token from the current page and returns
// the page it lands on.
func (p *portal) post(t *testing.T, path string, form url.Values) *goquery.Document {
	t.Helper()

	token, ok := p.page(t).Find(`input[name="csrf_token"]`).First().Attr("value")
	require.True(t, ok, "page has no csrf token")

	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf_token", token)

	resp, err := p.http.PostForm(p.server.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, "POST %s", path)

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return doc
}

func TestPortal_InitialPageShowsMenuOnly(t *testing.T) {
	p := newPortal(t)

	doc := p.page(t)

	assert.Equal(t, 5, doc.Find("nav.menu li").Length())
	assert.Equal(t, "School Information System", strings.TrimSpace(doc.Find("h1.name").Text()))
	for _, id := range []string{"#register", "#login", "#student", "#teacher", "#admin"} {
		assert.Zero(t, doc.Find(id).Length(), "expected %s to be hidden", id)
	}
}

func TestPortal_NavigationShowsOneSection(t *testing.T) {
	p := newPortal(t)

	doc := p.post(t, "/nav/teacher", nil)
	assert.Equal(t, 1, doc.Find("#teacher").Length())
	assert.Equal(t, "Teacher Actions", strings.TrimSpace(doc.Find("nav li.active").Text()))

	doc = p.post(t, "/nav/admin", nil)
	assert.Zero(t, doc.Find("#teacher").Length())
	assert.Equal(t, 1, doc.Find("#admin").Length())

	year, _ := doc.Find(`#createSemester input[name="year"]`).Attr("value")
	assert.Equal(t, time.Now().Format("2006"), year)
	_, selected := doc.Find(`option[value="SPRING"]`).Attr("selected")
	assert.True(t, selected)

	doc = p.post(t, "/nav/admin", nil)
	assert.Equal(t, 1, doc.Find("#admin").Length(), "clicking the shown section keeps it shown")
}

func TestPortal_UnknownSection(t *testing.T) {
	p := newPortal(t)
	token, _ := p.page(t).Find(`input[name="csrf_token"]`).First().Attr("value")

	resp, err := p.http.PostForm(p.server.URL+"/nav/parent", url.Values{"csrf_token": {token}})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPortal_PostWithoutTokenIsForbidden(t *testing.T) {
	p := newPortal(t)
	p.page(t)

	resp, err := p.http.PostForm(p.server.URL+"/login", url.Values{"username": {"jdoe"}})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, p.client.CallCount("login"))
}

func TestPortal_FormPostRedirectsToPage(t *testing.T) {
	p := newPortal(t)
	token, _ := p.page(t).Find(`input[name="csrf_token"]`).First().Attr("value")

	noFollow := &http.Client{
		Jar: p.http.Jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := noFollow.PostForm(p.server.URL+"/nav/login", url.Values{"csrf_token": {token}})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestPortal_RegisterShowsResult(t *testing.T) {
	p := newPortal(t)
	doc := p.post(t, "/nav/register", nil)

	first, _ := doc.Find("#firstName").Attr("value")
	assert.Equal(t, "Jane", first)

	doc = p.post(t, "/register", url.Values{
		"firstName": {"John"}, "lastName": {"Doe"}, "email": {"john@example.com"},
		"phoneNumber": {"1"}, "birthDate": {"2000-01-01"}, "password": {"pw"}, "roleKeypass": {"studentKeyPass"},
	})

	assert.Equal(t, "Registration successful", strings.TrimSpace(doc.Find("#register .successMessage").Text()))
	first, _ = doc.Find("#firstName").Attr("value")
	assert.Equal(t, "John", first)

	call, ok := p.client.LastCall("register")
	require.True(t, ok)
	assert.Equal(t, "john@example.com", call.Args[0].(domain.RegistrationRequest).Email)
}

func TestPortal_LoginAndLogout(t *testing.T) {
	p := newPortal(t)
	p.client.LoginResult = &domain.LoginResult{
		Credential: &domain.Credential{Cookies: []domain.CredentialCookie{{Name: "JSESSIONID", Value: "up"}}},
		Body:       []byte(`{"username":"jdoe"}`),
	}
	p.post(t, "/nav/login", nil)

	doc := p.post(t, "/login", url.Values{"username": {"jdoe"}, "password": {"pw"}})

	assert.Equal(t, "Login successful", strings.TrimSpace(doc.Find("#login .successMessage").Text()))
	assert.Equal(t, 1, doc.Find(`form[action="/logout"]`).Length())
	username, _ := doc.Find("#username").Attr("value")
	assert.Equal(t, "jdoe", username)

	p.post(t, "/teacher/courses", nil)
	call, _ := p.client.LastCall("teacher_courses")
	require.NotNil(t, call.Credential)
	assert.Equal(t, "up", call.Credential.Cookies[0].Value)

	doc = p.post(t, "/logout", nil)
	assert.Equal(t, "Logged out.", strings.TrimSpace(doc.Find("#login .successMessage").Text()))
	assert.Zero(t, doc.Find(`form[action="/logout"]`).Length())
}

func TestPortal_StudentScheduleGrid(t *testing.T) {
	p := newPortal(t)
	p.client.ScheduleEntries = []domain.ScheduleEntry{{
		ID: 9, CourseCode: "NSS", TeacherName: "Smith", ClassroomCode: "KN:E-107",
		DayOfWeek: "MON", TimeSlot: "07:30 - 09:00",
	}}
	p.client.Parallels = []domain.Parallel{{ID: 21, CourseCode: "PJV", CourseName: "Java", DayOfWeek: "TUE", TimeSlot: "09:15 - 10:45"}}

	doc := p.post(t, "/nav/student", nil)

	assert.Equal(t, 5, doc.Find("#schedule tbody tr").Length())
	assert.Equal(t, 8, doc.Find("#schedule thead th").Length())

	cell := doc.Find(`#schedule tr[data-day="MON"] td[data-slot="07:30 - 09:00"]`)
	assert.Equal(t, "NSS", strings.TrimSpace(cell.Find(".courseCode").Text()))
	assert.Equal(t, "Smith", strings.TrimSpace(cell.Find(".teacherName").Text()))
	assert.Equal(t, "KN:E-107", strings.TrimSpace(cell.Find(".classroomCode").Text()))
	assert.Equal(t, 1, doc.Find("#schedule .entry").Length())

	assert.Equal(t, 1, doc.Find(`#nextParallels form[action="/student/enroll/21"]`).Length())
}

func TestPortal_ParallelTablesEmitBalancedRows(t *testing.T) {
	p := newPortal(t)
	java := domain.Parallel{ID: 21, CourseCode: "PJV", CourseName: "Java", DayOfWeek: "TUE", TimeSlot: "09:15 - 10:45"}
	p.client.Parallels = []domain.Parallel{java, {ID: 22, CourseCode: "NSS", DayOfWeek: "WED"}}
	p.client.CourseParallels = []domain.Parallel{java}

	p.post(t, "/nav/student", nil)
	doc := p.post(t, "/student/parallels", url.Values{"courseCode": {"PJV"}})

	rows := doc.Find("#nextParallels tbody tr")
	assert.Equal(t, 2, rows.Length())
	rows.Each(func(i int, row *goquery.Selection) {
		assert.Equal(t, 8, row.Find("td").Length(), "next parallels row %d", i)
	})
	lookupRows := doc.Find("#lookup tbody tr")
	assert.Equal(t, 1, lookupRows.Length())
	assert.Equal(t, 7, lookupRows.Find("td").Length())

	raw := p.rawPage(t)
	assert.Equal(t, strings.Count(raw, "<tr"), strings.Count(raw, "</tr>"), "every opened row must be closed")
}

func TestPortal_EnrollFailureShowsServerMessage(t *testing.T) {
	p := newPortal(t)
	p.post(t, "/nav/student", nil)
	p.client.Errors["enroll"] = &domain.APIError{Status: http.StatusConflict, Message: "Parallel is full", Parsed: true}

	doc := p.post(t, "/student/enroll/21", nil)

	assert.Equal(t, "Parallel is full", strings.TrimSpace(doc.Find("#nextParallels .errorMessage").Text()))
	call, _ := p.client.LastCall("enroll")
	assert.Equal(t, "21", call.Args[0])
}

func TestPortal_UnauthenticatedHint(t *testing.T) {
	p := newPortal(t)
	p.post(t, "/nav/teacher", nil)
	p.client.Errors["teacher_courses"] = &domain.APIError{Status: http.StatusUnauthorized}

	doc := p.post(t, "/teacher/courses", nil)

	msg := doc.Find("#courses .errorMessage")
	assert.Contains(t, msg.Text(), "Failed to fetch courses.")
	assert.Equal(t, 1, msg.Find(".loginHint").Length())
}

func TestPortal_AdminSemesters(t *testing.T) {
	p := newPortal(t)
	p.client.SemesterList = []domain.Semester{{Code: "B241"}, {Code: "B242"}}
	p.client.Active = &domain.Semester{Code: "B242"}
	p.post(t, "/nav/admin", nil)

	doc := p.post(t, "/admin/semesters/list", nil)
	assert.Equal(t, 2, doc.Find("#semesters p.semesterCode").Length())

	doc = p.post(t, "/admin/semesters/active/fetch", nil)
	assert.Equal(t, "Active Semester Code: B242", strings.TrimSpace(doc.Find("#activeSemester p.activeCode").Text()))
	assert.Equal(t, "Active semester fetched successfully.", strings.TrimSpace(doc.Find("#activeSemester .successMessage").Text()))

	doc = p.post(t, "/admin/semesters", url.Values{"year": {"2027"}, "semesterType": {"FALL"}})
	assert.Equal(t, "Semester created successfully.", strings.TrimSpace(doc.Find("#createSemester .successMessage").Text()))
	_, fall := doc.Find(`option[value="FALL"]`).Attr("selected")
	assert.True(t, fall)

	doc = p.post(t, "/admin/semesters/active", url.Values{"semesterCode": {"B242"}})
	assert.Equal(t, "Active semester set successfully.", strings.TrimSpace(doc.Find("#setActiveSemester .successMessage").Text()))
}

func TestPortal_StaticAssets(t *testing.T) {
	p := newPortal(t)

	resp, err := http.Get(p.server.URL + "/static/app.css")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
