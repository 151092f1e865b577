package firebase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"todo/internal/backend/firebase"
	"todo/internal/config"
	"todo/internal/logging"
	"todo/internal/service"
	"todo/internal/testutil"
)

func newClient(t *testing.T, fs *testutil.FirebaseServer) *firebase.Client {
	t.Helper()
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.BaseURL = fs.URL
	cfg.TimeoutSeconds = 2
	return firebase.NewWithHTTPClient(fs.Client(), cfg, logging.Nop())
}

func TestListTasks_PreservesWireOrder(t *testing.T) {
	fs := testutil.NewFirebaseServer("tasks")
	defer fs.Close()
	fs.RawGetBody = []byte(`{"k1": {"taskName": "wash car"}, "k2": {"taskName": "read book"}}`)

	tasks, err := newClient(t, fs).ListTasks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []service.Task{{ID: "k1", Name: "wash car"}, {ID: "k2", Name: "read book"}}
	if len(tasks) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(tasks))
	}
	for i := range want {
		if tasks[i] != want[i] {
			t.Errorf("task %d: expected %+v, got %+v", i, want[i], tasks[i])
		}
	}
}

func TestListTasks_NonSortedKeysKeepOrder(t *testing.T) {
	fs := testutil.NewFirebaseServer("tasks")
	defer fs.Close()
	fs.Seed(
		testutil.Record{Key: "zz", TaskName: "first"},
		testutil.Record{Key: "aa", TaskName: "second"},
		testutil.Record{Key: "mm", TaskName: "third"},
	)

	tasks, err := newClient(t, fs).ListTasks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var names []string
	for _, task := range tasks {
		names = append(names, task.Name)
	}
	if got := strings.Join(names, ","); got != "first,second,third" {
		t.Errorf("expected wire order, got %s", got)
	}
}

func TestListTasks_Empty(t *testing.T) {
	for _, body := range []string{"null", "{}"} {
		t.Run(body, func(t *testing.T) {
			fs := testutil.NewFirebaseServer("tasks")
			defer fs.Close()
			fs.RawGetBody = []byte(body)

			tasks, err := newClient(t, fs).ListTasks(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tasks == nil || len(tasks) != 0 {
				t.Errorf("expected empty non-nil slice, got %#v", tasks)
			}
		})
	}
}

func TestListTasks_Malformed(t *testing.T) {
	for _, body := range []string{`[1,2]`, `{"k1": "not an object"}`, `{"k1": {"taskName": "x"}`} {
		t.Run(body, func(t *testing.T) {
			fs := testutil.NewFirebaseServer("tasks")
			defer fs.Close()
			fs.RawGetBody = []byte(body)

			_, err := newClient(t, fs).ListTasks(context.Background())
			if !service.IsKind(err, service.KindDecode) {
				t.Fatalf("expected decode error, got %v", err)
			}
		})
	}
}

func TestListTasks_StatusError(t *testing.T) {
	fs := testutil.NewFirebaseServer("tasks")
	defer fs.Close()
	fs.FailStatus[http.MethodGet] = http.StatusUnauthorized

	_, err := newClient(t, fs).ListTasks(context.Background())
	if !service.IsKind(err, service.KindStatus) {
		t.Fatalf("expected status error, got %v", err)
	}
	if service.StatusCode(err) != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", service.StatusCode(err))
	}
	if !strings.Contains(err.Error(), "Unauthorized") {
		t.Errorf("expected store message in error, got %q", err.Error())
	}
}

func TestListTasks_TransportError(t *testing.T) {
	fs := testutil.NewFirebaseServer("tasks")
	client := newClient(t, fs)
	fs.Close()

	_, err := client.ListTasks(context.Background())
	if !service.IsKind(err, service.KindTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestCreateTask_Success(t *testing.T) {
	fs := testutil.NewFirebaseServer("tasks")
	defer fs.Close()
	fs.NewKey = func() string { return "-Nabc123" }

	task, err := newClient(t, fs).CreateTask(context.Background(), "buy milk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != "-Nabc123" || task.Name != "buy milk" {
		t.Errorf("unexpected task %+v", task)
	}

	req := fs.LastRequest()
	if req.Method != http.MethodPost || req.Path != "/tasks.json" {
		t.Errorf("unexpected request %s %s", req.Method, req.Path)
	}
	if req.ContentType != "application/json" {
		t.Errorf("expected JSON content type, got %q", req.ContentType)
	}
	var body map[string]string
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if len(body) != 1 || body["taskName"] != "buy milk" {
		t.Errorf("unexpected body %s", req.Body)
	}

	records := fs.Records()
	if len(records) != 1 || records[0].Key != "-Nabc123" {
		t.Errorf("expected record stored, got %+v", records)
	}
}

func TestCreateTask_StatusError(t *testing.T) {
	fs := testutil.NewFirebaseServer("tasks")
	defer fs.Close()
	fs.FailStatus[http.MethodPost] = http.StatusInternalServerError

	task, err := newClient(t, fs).CreateTask(context.Background(), "buy milk")
	if !service.IsKind(err, service.KindStatus) {
		t.Fatalf("expected status error, got %v", err)
	}
	if task != (service.Task{}) {
		t.Errorf("expected no task, got %+v", task)
	}
}

func TestCreateTask_MissingGeneratedID(t *testing.T) {
	fs := testutil.NewFirebaseServer("tasks")
	defer fs.Close()
	fs.RawPostBody = []byte(`{}`)

	_, err := newClient(t, fs).CreateTask(context.Background(), "buy milk")
	if !service.IsKind(err, service.KindDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	fs := testutil.NewFirebaseServer("tasks")
	defer fs.Close()
	fs.Seed(testutil.Record{Key: "k1", TaskName: "a"}, testutil.Record{Key: "k2", TaskName: "b"})

	if err := newClient(t, fs).DeleteTask(context.Background(), "k1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := fs.LastRequest()
	if req.Method != http.MethodDelete || req.Path != "/tasks/k1.json" {
		t.Errorf("unexpected request %s %s", req.Method, req.Path)
	}
	records := fs.Records()
	if len(records) != 1 || records[0].Key != "k2" {
		t.Errorf("expected only k2 to remain, got %+v", records)
	}
}

func TestDeleteTask_EmptyID(t *testing.T) {
	fs := testutil.NewFirebaseServer("tasks")
	defer fs.Close()

	if err := newClient(t, fs).DeleteTask(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty id")
	}
	if len(fs.Requests()) != 0 {
		t.Error("expected no request for empty id")
	}
}

func TestCustomCollection(t *testing.T) {
	fs := testutil.NewFirebaseServer("chores")
	defer fs.Close()

	cfg, _ := config.New(t.TempDir())
	cfg.BaseURL = fs.URL + "/"
	cfg.Collection = "chores"
	client := firebase.NewWithHTTPClient(fs.Client(), cfg, logging.Nop())

	if _, err := client.CreateTask(context.Background(), "sweep"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := fs.LastRequest().Path; got != "/chores.json" {
		t.Errorf("expected /chores.json, got %s", got)
	}
}

func TestTimeout(t *testing.T) {
	fs := testutil.NewFirebaseServer("tasks")
	defer fs.Close()
	fs.Hold = make(chan struct{})
	defer close(fs.Hold)

	cfg, _ := config.New(t.TempDir())
	cfg.BaseURL = fs.URL
	cfg.TimeoutSeconds = 1
	client := firebase.NewWithHTTPClient(fs.Client(), cfg, logging.Nop())

	start := time.Now()
	_, err := client.ListTasks(context.Background())
	if !service.IsKind(err, service.KindTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("expected request to time out promptly")
	}
}
