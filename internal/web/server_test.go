package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"todo/internal/logging"
	"todo/internal/service"
	"todo/internal/testutil"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// browser replays the session cookie across requests.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func newBrowser(t *testing.T, srv *Server) *browser {
	return &browser{t: t, handler: srv.Handler()}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.handler.ServeHTTP(w, req)
	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		b.cookies = cookies
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) tasks() []service.Task {
	b.t.Helper()
	w := b.get("/api/tasks")
	if w.Code != http.StatusOK {
		b.t.Fatalf("GET /api/tasks: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Tasks []service.Task `json:"tasks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		b.t.Fatalf("decode: %v", err)
	}
	return body.Tasks
}

func names(tasks []service.Task) string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Name
	}
	return strings.Join(out, ",")
}

func newTestServer(t *testing.T, svc service.Service, cfg Config) *Server {
	t.Helper()
	srv, err := New(svc, cfg, logging.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func seeded() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.AddTask("k0", "wash car")
	svc.AddTask("k1", "read book")
	svc.AddTask("k2", "call mom")
	return svc
}

func TestIndex_RendersStoreOrder(t *testing.T) {
	b := newBrowser(t, newTestServer(t, seeded(), Config{}))

	w := b.get("/")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	first, second := strings.Index(body, "wash car"), strings.Index(body, "read book")
	if first < 0 || second < 0 || first > second {
		t.Errorf("expected rows in store order:\n%s", body)
	}
	if !strings.Contains(body, `action="/tasks/2/delete"`) {
		t.Errorf("expected a delete form per row:\n%s", body)
	}
	if len(b.cookies) == 0 || b.cookies[0].Name != sessionCookie {
		t.Errorf("expected session cookie, got %v", b.cookies)
	}
}

func TestIndex_LoadsOnce(t *testing.T) {
	svc := seeded()
	b := newBrowser(t, newTestServer(t, svc, Config{}))
	b.get("/")

	svc.AddTask("k3", "added elsewhere")
	body := b.get("/").Body.String()

	if strings.Contains(body, "added elsewhere") {
		t.Error("expected no refetch after the first display")
	}
}

func TestIndex_EmptyStore(t *testing.T) {
	b := newBrowser(t, newTestServer(t, testutil.NewFakeService(), Config{}))

	body := b.get("/").Body.String()

	if !strings.Contains(body, "no tasks") {
		t.Errorf("expected empty message:\n%s", body)
	}
}

func TestIndex_LoadFailureShowsStatus(t *testing.T) {
	svc := seeded()
	svc.ListTasksErr = &service.Error{Op: "list", Kind: service.KindTransport}
	b := newBrowser(t, newTestServer(t, svc, Config{}))

	body := b.get("/").Body.String()

	if !strings.Contains(body, "Could not reach the task store.") {
		t.Errorf("expected status line:\n%s", body)
	}
	if strings.Contains(body, "wash car") {
		t.Error("expected no rows after a failed load")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	srv := newTestServer(t, seeded(), Config{})
	alice, bob := newBrowser(t, srv), newBrowser(t, srv)
	alice.get("/")
	bob.get("/")

	alice.post("/tasks/0/delete", url.Values{"id": {"k0"}})

	if got := names(alice.tasks()); got != "read book,call mom" {
		t.Errorf("alice: unexpected tasks %q", got)
	}
	if got := names(bob.tasks()); got != "wash car,read book,call mom" {
		t.Errorf("bob: unexpected tasks %q", got)
	}
	if srv.sessions.len() != 2 {
		t.Errorf("expected 2 sessions, got %d", srv.sessions.len())
	}
}

func TestAdd_PrependsAndKeepsFormValue(t *testing.T) {
	svc := seeded()
	b := newBrowser(t, newTestServer(t, svc, Config{}))
	b.get("/")

	w := b.post("/tasks", url.Values{"taskName": {"buy milk"}})

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
		t.Fatalf("expected 303 to /, got %d %q", w.Code, w.Header().Get("Location"))
	}
	tasks := b.tasks()
	if got := names(tasks); got != "buy milk,wash car,read book,call mom" {
		t.Errorf("unexpected tasks %q", got)
	}
	if tasks[0].ID == "" || tasks[0].ID != svc.Tasks()[3].ID {
		t.Errorf("expected store id on new task, got %q", tasks[0].ID)
	}
	if body := b.get("/").Body.String(); !strings.Contains(body, `value="buy milk"`) {
		t.Errorf("expected form to keep its text:\n%s", body)
	}
}

func TestAdd_ClearOnSubmit(t *testing.T) {
	b := newBrowser(t, newTestServer(t, seeded(), Config{ClearOnSubmit: true}))
	b.get("/")

	b.post("/tasks", url.Values{"taskName": {"buy milk"}})

	if body := b.get("/").Body.String(); strings.Contains(body, `value="buy milk"`) {
		t.Errorf("expected form cleared:\n%s", body)
	}
}

func TestAdd_EmptyIsRejected(t *testing.T) {
	svc := seeded()
	b := newBrowser(t, newTestServer(t, svc, Config{}))
	b.get("/")

	b.post("/tasks", url.Values{"taskName": {"  "}})

	if len(svc.Created) != 0 {
		t.Errorf("expected no store call, got %v", svc.Created)
	}
	if body := b.get("/").Body.String(); !strings.Contains(body, "Enter a task name first.") {
		t.Errorf("expected status line:\n%s", body)
	}
}

func TestAdd_StoreErrorLeavesList(t *testing.T) {
	svc := seeded()
	svc.CreateTaskErr = &service.Error{Op: "create", Kind: service.KindStatus, StatusCode: 500, Message: "boom"}
	b := newBrowser(t, newTestServer(t, svc, Config{}))
	b.get("/")

	b.post("/tasks", url.Values{"taskName": {"buy milk"}})

	body := b.get("/").Body.String()
	if !strings.Contains(body, "rejected the request") {
		t.Errorf("expected status line:\n%s", body)
	}
	if got := names(b.tasks()); got != "wash car,read book,call mom" {
		t.Errorf("expected list unchanged, got %q", got)
	}
	if second := b.get("/").Body.String(); strings.Contains(second, "rejected the request") {
		t.Error("expected the status to be shown once")
	}
}

func TestDelete_MiddleRowLocalOnly(t *testing.T) {
	svc := seeded()
	b := newBrowser(t, newTestServer(t, svc, Config{}))
	b.get("/")

	w := b.post("/tasks/1/delete", url.Values{"id": {"k1"}})

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if got := names(b.tasks()); got != "wash car,call mom" {
		t.Errorf("unexpected tasks %q", got)
	}
	if len(svc.Deleted) != 0 {
		t.Errorf("expected no store delete, got %v", svc.Deleted)
	}
	if len(svc.Tasks()) != 3 {
		t.Error("expected the record to remain in the store")
	}
}

func TestDelete_SyncDeletes(t *testing.T) {
	svc := seeded()
	b := newBrowser(t, newTestServer(t, svc, Config{SyncDeletes: true}))
	b.get("/")

	b.post("/tasks/1/delete", url.Values{"id": {"k1"}})

	if len(svc.Deleted) != 1 || svc.Deleted[0] != "k1" {
		t.Errorf("expected k1 deleted in store, got %v", svc.Deleted)
	}
}

func TestDelete_StaleIDIsRejected(t *testing.T) {
	b := newBrowser(t, newTestServer(t, seeded(), Config{}))
	b.get("/")
	b.post("/tasks", url.Values{"taskName": {"buy milk"}})

	// The add moved k1 from position 1 to 2.
	b.post("/tasks/1/delete", url.Values{"id": {"k1"}})

	if got := names(b.tasks()); got != "buy milk,wash car,read book,call mom" {
		t.Errorf("expected nothing removed, got %q", got)
	}
	if body := b.get("/").Body.String(); !strings.Contains(body, "The list changed") {
		t.Errorf("expected stale status:\n%s", body)
	}
}

func TestDelete_InvalidPosition(t *testing.T) {
	b := newBrowser(t, newTestServer(t, seeded(), Config{}))
	b.get("/")

	if w := b.post("/tasks/abc/delete", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	b.post("/tasks/9/delete", nil)
	if body := b.get("/").Body.String(); !strings.Contains(body, "no longer in the list") {
		t.Errorf("expected out of range status:\n%s", body)
	}
}

func TestAPITasks_LoadFailure(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = &service.Error{Op: "list", Kind: service.KindTransport}
	b := newBrowser(t, newTestServer(t, svc, Config{}))

	w := b.get("/api/tasks")

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	b := newBrowser(t, newTestServer(t, testutil.NewFakeService(), Config{}))

	w := b.get("/healthz")

	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("unexpected response %d %s", w.Code, w.Body.String())
	}
	if len(b.cookies) != 0 {
		t.Error("expected no session for health checks")
	}
}

func TestSessions_CookielessRequestsAreCapped(t *testing.T) {
	srv := newTestServer(t, seeded(), Config{MaxSessions: 10})

	for i := 0; i < 100; i++ {
		newBrowser(t, srv).get("/api/tasks")
	}

	if n := srv.sessions.len(); n != 10 {
		t.Errorf("expected sessions capped at 10, got %d", n)
	}
}

func TestSessions_CapEvictsLeastRecentlyUsed(t *testing.T) {
	srv := newTestServer(t, seeded(), Config{MaxSessions: 2})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	srv.sessions.now = func() time.Time { return now }

	alice, bob := newBrowser(t, srv), newBrowser(t, srv)
	alice.get("/")
	now = now.Add(time.Minute)
	bob.get("/")
	now = now.Add(time.Minute)
	alice.post("/tasks/0/delete", url.Values{"id": {"k0"}})
	now = now.Add(time.Minute)

	newBrowser(t, srv).get("/")

	if got := names(alice.tasks()); got != "read book,call mom" {
		t.Errorf("expected alice's session kept, got %q", got)
	}
	if got := names(bob.tasks()); got != "wash car,read book,call mom" {
		t.Errorf("expected bob to get a fresh session, got %q", got)
	}
}

func TestSessions_IdleSessionExpires(t *testing.T) {
	srv := newTestServer(t, seeded(), Config{})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	srv.sessions.now = func() time.Time { return now }

	b := newBrowser(t, srv)
	b.get("/")
	b.post("/tasks/0/delete", url.Values{"id": {"k0"}})

	now = now.Add(sessionIdle - time.Second)
	if got := names(b.tasks()); got != "read book,call mom" {
		t.Fatalf("expected session still live, got %q", got)
	}

	now = now.Add(sessionIdle + time.Second)
	if got := names(b.tasks()); got != "wash car,read book,call mom" {
		t.Errorf("expected a fresh session after idling, got %q", got)
	}
	if n := srv.sessions.len(); n != 1 {
		t.Errorf("expected the idle session removed, got %d sessions", n)
	}
}
