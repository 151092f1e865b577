package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Record is a stored task in the emulator.
type Record struct {
	Key      string
	TaskName string
}

// RecordedRequest captures what a client sent.
type RecordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Auth        string
	Body        []byte
}

// FirebaseServer emulates the subset of the Realtime Database REST API
// the application uses: GET and POST on /<collection>.json and DELETE on
// /<collection>/<key>.json. Keys are kept in insertion order.
type FirebaseServer struct {
	*httptest.Server

	mu         sync.Mutex
	collection string
	records    []Record
	requests   []RecordedRequest

	// NewKey generates push keys; defaults to random UUIDs.
	NewKey func() string

	// FailStatus, when set for a method, makes that method reply with
	// the status and an {"error": ...} body.
	FailStatus map[string]int

	// RawGetBody, when non-nil, is returned verbatim for GET.
	RawGetBody []byte

	// RawPostBody, when non-nil, is returned verbatim for a successful POST.
	RawPostBody []byte

	// Hold, when non-nil, blocks every request until it is closed or the
	// client gives up.
	Hold chan struct{}
}

// NewFirebaseServer starts an emulator serving the given collection.
func NewFirebaseServer(collection string) *FirebaseServer {
	fs := &FirebaseServer{
		collection: collection,
		NewKey:     func() string { return "-" + uuid.NewString() },
		FailStatus: make(map[string]int),
	}
	fs.Server = httptest.NewServer(http.HandlerFunc(fs.handle))
	return fs
}

// Seed appends records in order.
func (fs *FirebaseServer) Seed(records ...Record) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.records = append(fs.records, records...)
}

// Records returns a copy of the stored records.
func (fs *FirebaseServer) Records() []Record {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]Record, len(fs.records))
	copy(out, fs.records)
	return out
}

// Requests returns a copy of the requests received so far.
func (fs *FirebaseServer) Requests() []RecordedRequest {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]RecordedRequest, len(fs.requests))
	copy(out, fs.requests)
	return out
}

// LastRequest returns the most recent request, or a zero value.
func (fs *FirebaseServer) LastRequest() RecordedRequest {
	reqs := fs.Requests()
	if len(reqs) == 0 {
		return RecordedRequest{}
	}
	return reqs[len(reqs)-1]
}

func (fs *FirebaseServer) handle(w http.ResponseWriter, r *http.Request) {
	if fs.Hold != nil {
		select {
		case <-fs.Hold:
		case <-r.Context().Done():
			return
		}
	}

	body, _ := io.ReadAll(r.Body)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.requests = append(fs.requests, RecordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		Auth:        r.Header.Get("Authorization"),
		Body:        body,
	})

	if status, ok := fs.FailStatus[r.Method]; ok && status != 0 {
		writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
		return
	}

	collectionPath := "/" + fs.collection + ".json"
	recordPrefix := "/" + fs.collection + "/"

	switch {
	case r.URL.Path == collectionPath && r.Method == http.MethodGet:
		fs.handleList(w)
	case r.URL.Path == collectionPath && r.Method == http.MethodPost:
		fs.handlePush(w, body)
	case strings.HasPrefix(r.URL.Path, recordPrefix) && strings.HasSuffix(r.URL.Path, ".json") && r.Method == http.MethodDelete:
		key := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, recordPrefix), ".json")
		fs.handleDelete(w, key)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func (fs *FirebaseServer) handleList(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	if fs.RawGetBody != nil {
		w.WriteHeader(http.StatusOK)
		w.Write(fs.RawGetBody)
		return
	}
	if len(fs.records) == 0 {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("null"))
		return
	}

	// Build the object by hand so key order matches insertion order.
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rec := range fs.records {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(rec.Key)
		value, _ := json.Marshal(map[string]string{"taskName": rec.TaskName})
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')

	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (fs *FirebaseServer) handlePush(w http.ResponseWriter, body []byte) {
	var payload struct {
		TaskName *string `json:"taskName"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.TaskName == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid data; couldn't parse JSON object."})
		return
	}
	if fs.RawPostBody != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(fs.RawPostBody)
		return
	}

	key := fs.NewKey()
	fs.records = append(fs.records, Record{Key: key, TaskName: *payload.TaskName})
	writeJSON(w, http.StatusOK, map[string]string{"name": key})
}

func (fs *FirebaseServer) handleDelete(w http.ResponseWriter, key string) {
	for i, rec := range fs.records {
		if rec.Key == key {
			fs.records = append(fs.records[:i], fs.records[i+1:]...)
			break
		}
	}
	// The store answers null for deletes, existing key or not.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("null"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
