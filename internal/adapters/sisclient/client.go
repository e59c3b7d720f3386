package sisclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/sis-portal/web/internal/config"
	"github.com/sis-portal/web/internal/core/domain"
	"github.com/sis-portal/web/internal/core/ports"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"

	maxResponseBytes = 4 << 20
)

// Client calls the school information system REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

var _ ports.SISClient = (*Client)(nil)

// NewClient creates a client for the API at baseURL. Redirects are returned
// to the caller instead of being followed.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid upstream url: %q", baseURL)
	}

	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		cb: config.NewCircuitBreaker(config.BreakerSISAPI),
	}, nil
}

func (c *Client) Available() bool {
	return c.cb.State() != gobreaker.StateOpen
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// apiError builds the error for a non-2xx response.
func (r *response) apiError() *domain.APIError {
	e := &domain.APIError{Status: r.status}
	if len(bytes.TrimSpace(r.body)) == 0 {
		return e
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(r.body, &body); err == nil {
		e.Parsed = true
		e.Message = body.Message
	}
	return e
}

// serverFailure makes 5xx responses count against the breaker.
type serverFailure struct {
	status int
}

func (e *serverFailure) Error() string {
	return fmt.Sprintf("upstream server error %d", e.status)
}

type request struct {
	op          string
	method      string
	path        string
	cred        *domain.Credential
	contentType string
	body        []byte
}

func (c *Client) do(ctx context.Context, req request) (*response, error) {
	start := time.Now()

	result, err := c.cb.Execute(func() (interface{}, error) {
		var body io.Reader
		if req.body != nil {
			body = bytes.NewReader(req.body)
		}
		httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Accept", contentTypeJSON)
		if req.contentType != "" {
			httpReq.Header.Set("Content-Type", req.contentType)
		}
		if req.cred != nil {
			for _, ck := range req.cred.Cookies {
				httpReq.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
			}
		}

		httpResp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, err
		}
		defer httpResp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
		if err != nil {
			return nil, err
		}

		resp := &response{status: httpResp.StatusCode, header: httpResp.Header, body: data}
		if resp.status >= http.StatusInternalServerError {
			return resp, &serverFailure{status: resp.status}
		}
		return resp, nil
	})

	resp, _ := result.(*response)
	status := 0
	if resp != nil {
		status = resp.status
	}
	upstreamRequests.WithLabelValues(req.op, outcomeOf(status, err)).Inc()
	upstreamDuration.WithLabelValues(req.op).Observe(time.Since(start).Seconds())

	if resp != nil {
		return resp, nil
	}
	return nil, err
}

// expectOK discards the body of a successful response.
func (c *Client) expectOK(ctx context.Context, req request) error {
	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return resp.apiError()
	}
	return nil
}

func getJSON[T any](ctx context.Context, c *Client, op, path string, cred *domain.Credential) (T, error) {
	var out T
	resp, err := c.do(ctx, request{op: op, method: http.MethodGet, path: path, cred: cred})
	if err != nil {
		return out, err
	}
	if !resp.ok() {
		return out, resp.apiError()
	}
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return out, fmt.Errorf("%w: %s: %v", domain.ErrMalformedResponse, op, err)
	}
	return out, nil
}

func jsonRequest(op, method, path string, cred *domain.Credential, payload any) (request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return request{}, err
	}
	return request{op: op, method: method, path: path, cred: cred, contentType: contentTypeJSON, body: body}, nil
}

func segment(s string) string {
	return url.PathEscape(s)
}

func (c *Client) Register(ctx context.Context, reg domain.RegistrationRequest) error {
	req, err := jsonRequest("register", http.MethodPost, "/rest/person", nil, reg)
	if err != nil {
		return err
	}
	return c.expectOK(ctx, req)
}

// Login posts the form credentials and captures the session cookies the
// upstream sets on success.
func (c *Client) Login(ctx context.Context, creds domain.LoginCredentials) (*domain.LoginResult, error) {
	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	resp, err := c.do(ctx, request{
		op:          "login",
		method:      http.MethodPost,
		path:        "/login",
		contentType: contentTypeForm,
		body:        []byte(form.Encode()),
	})
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, resp.apiError()
	}

	cred := &domain.Credential{Cookies: []domain.CredentialCookie{}}
	for _, ck := range (&http.Response{Header: resp.header}).Cookies() {
		if ck.MaxAge < 0 {
			continue
		}
		cred.Cookies = append(cred.Cookies, domain.CredentialCookie{Name: ck.Name, Value: ck.Value})
	}
	return &domain.LoginResult{Credential: cred, Body: resp.body}, nil
}

// Logout ends the upstream session. Redirects count as success.
func (c *Client) Logout(ctx context.Context, cred *domain.Credential) error {
	resp, err := c.do(ctx, request{op: "logout", method: http.MethodPost, path: "/logout", cred: cred})
	if err != nil {
		return err
	}
	if resp.status >= http.StatusBadRequest {
		return resp.apiError()
	}
	return nil
}

func (c *Client) NextSemesterParallels(ctx context.Context, cred *domain.Credential) ([]domain.Parallel, error) {
	return getJSON[[]domain.Parallel](ctx, c, "next_semester_parallels", "/student/course/next", cred)
}

func (c *Client) Schedule(ctx context.Context, cred *domain.Credential) ([]domain.ScheduleEntry, error) {
	return getJSON[[]domain.ScheduleEntry](ctx, c, "schedule", "/student/schedule", cred)
}

func (c *Client) Enroll(ctx context.Context, cred *domain.Credential, parallelID string) error {
	return c.expectOK(ctx, request{op: "enroll", method: http.MethodPost, path: "/student/enroll/" + segment(parallelID), cred: cred})
}

func (c *Client) RevertEnrollment(ctx context.Context, cred *domain.Credential, parallelID string) error {
	return c.expectOK(ctx, request{op: "revert_enrollment", method: http.MethodDelete, path: "/student/enroll/" + segment(parallelID), cred: cred})
}

func (c *Client) ParallelsForCourse(ctx context.Context, cred *domain.Credential, courseCode string) ([]domain.Parallel, error) {
	return getJSON[[]domain.Parallel](ctx, c, "course_parallels", "/student/parallel/"+segment(courseCode), cred)
}

func (c *Client) Report(ctx context.Context, cred *domain.Credential) ([]domain.ReportEntry, error) {
	return getJSON[[]domain.ReportEntry](ctx, c, "report", "/student/report", cred)
}

func (c *Client) TeacherCourses(ctx context.Context, cred *domain.Credential) ([]domain.Course, error) {
	return getJSON[[]domain.Course](ctx, c, "teacher_courses", "/teacher/course", cred)
}

func (c *Client) StudentsInParallel(ctx context.Context, cred *domain.Credential, parallelID string) ([]domain.Student, error) {
	return getJSON[[]domain.Student](ctx, c, "parallel_students", "/teacher/students/"+segment(parallelID), cred)
}

func (c *Client) GradeStudent(ctx context.Context, cred *domain.Credential, studentUsername string, grade domain.GradeSubmission) error {
	req, err := jsonRequest("grade_student", http.MethodPost, "/teacher/grade/"+segment(studentUsername), cred, grade)
	if err != nil {
		return err
	}
	return c.expectOK(ctx, req)
}

func (c *Client) CreateSemester(ctx context.Context, cred *domain.Credential, semester domain.SemesterRequest) error {
	req, err := jsonRequest("create_semester", http.MethodPost, "/rest/admin/semester", cred, semester)
	if err != nil {
		return err
	}
	return c.expectOK(ctx, req)
}

func (c *Client) SetActiveSemester(ctx context.Context, cred *domain.Credential, code string) error {
	return c.expectOK(ctx, request{op: "set_active_semester", method: http.MethodPatch, path: "/rest/admin/semester/" + segment(code), cred: cred})
}

func (c *Client) Semesters(ctx context.Context, cred *domain.Credential) ([]domain.Semester, error) {
	return getJSON[[]domain.Semester](ctx, c, "semesters", "/rest/admin/semester/all", cred)
}

func (c *Client) ActiveSemester(ctx context.Context, cred *domain.Credential) (*domain.Semester, error) {
	return getJSON[*domain.Semester](ctx, c, "active_semester", "/rest/admin/semester/active", cred)
}
