package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"todo/internal/app"
)

const (
	sessionCookie = "todo_session"
	sessionKey    = "session"
	sessionMaxAge = 7 * 24 * 60 * 60

	// sessionIdle is how long an unused session is kept.
	sessionIdle = sessionMaxAge * time.Second

	// DefaultMaxSessions caps live sessions; the least recently used one
	// is evicted to make room.
	DefaultMaxSessions = 1000
)

// session is one browser's page: its own task list, the form's last text
// and a one-shot status message. mu serializes that browser's requests.
type session struct {
	mu        sync.Mutex
	composer  *app.Composer
	formValue string
	flash     string

	// lastSeen is guarded by the store's mutex.
	lastSeen time.Time
}

type sessionStore struct {
	mu          sync.Mutex
	sessions    map[string]*session
	newComposer func() *app.Composer
	maxSessions int
	maxIdle     time.Duration
	now         func() time.Time
}

func newSessionStore(newComposer func() *app.Composer, maxSessions int) *sessionStore {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &sessionStore{
		sessions:    make(map[string]*session),
		newComposer: newComposer,
		maxSessions: maxSessions,
		maxIdle:     sessionIdle,
		now:         time.Now,
	}
}

// get returns a live session and marks it used.
func (s *sessionStore) get(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if now.Sub(sess.lastSeen) > s.maxIdle {
		delete(s.sessions, id)
		return nil, false
	}
	sess.lastSeen = now
	return sess, true
}

// create starts a session, first dropping idle ones and, at the cap, the
// least recently used one.
func (s *sessionStore) create() (string, *session) {
	id := uuid.NewString()
	sess := &session{composer: s.newComposer()}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.expireLocked(now)
	for len(s.sessions) >= s.maxSessions {
		s.evictOldestLocked()
	}

	sess.lastSeen = now
	s.sessions[id] = sess
	return id, sess
}

func (s *sessionStore) expireLocked(now time.Time) {
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.maxIdle {
			delete(s.sessions, id)
		}
	}
}

func (s *sessionStore) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, sess := range s.sessions {
		if oldestID == "" || sess.lastSeen.Before(oldest) {
			oldestID, oldest = id, sess.lastSeen
		}
	}
	delete(s.sessions, oldestID)
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sessionMiddleware attaches the caller's session, starting a new one when
// the cookie is missing or unknown.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess *session
		if id, err := c.Cookie(sessionCookie); err == nil {
			if _, perr := uuid.Parse(id); perr == nil {
				sess, _ = s.sessions.get(id)
			}
		}

		if sess == nil {
			var id string
			id, sess = s.sessions.create()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, id, sessionMaxAge, "/", "", false, true)
			s.log.Debug().Str("session", id).Msg("session started")
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *session {
	return c.MustGet(sessionKey).(*session)
}
