package handlers

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookieName = "dashboard_session"
	sessionIDKey      = "sid"
	sessionIDCtxKey   = "dashboardSessionID"
	flashKey          = "flash"
)

// SessionMiddleware keeps a random session id in a signed cookie. The
// dashboard state itself lives server side under that id.
func SessionMiddleware(secret string, ttl time.Duration) []gin.HandlerFunc {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return []gin.HandlerFunc{sessions.Sessions(sessionCookieName, store), ensureSessionID}
}

func ensureSessionID(c *gin.Context) {
	session := sessions.Default(c)
	id, _ := session.Get(sessionIDKey).(string)
	if id == "" {
		id = uuid.NewString()
		session.Set(sessionIDKey, id)
		if err := session.Save(); err != nil {
			log.Printf("Error saving session cookie: %v", err)
		}
	}
	c.Set(sessionIDCtxKey, id)
	c.Next()
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionIDCtxKey)
}

// addFlash queues a one-shot message for the next page render. Messages are
// kept as one newline-joined string so the cookie codec only sees strings.
func addFlash(c *gin.Context, msg string) {
	session := sessions.Default(c)
	if prev, _ := session.Get(flashKey).(string); prev != "" {
		msg = prev + "\n" + msg
	}
	session.Set(flashKey, msg)
	if err := session.Save(); err != nil {
		log.Printf("Error saving flash message: %v", err)
	}
}

func takeFlashes(c *gin.Context) []string {
	session := sessions.Default(c)
	raw, _ := session.Get(flashKey).(string)
	if raw == "" {
		return nil
	}
	session.Delete(flashKey)
	if err := session.Save(); err != nil {
		log.Printf("Error clearing flash messages: %v", err)
	}
	return strings.Split(raw, "\n")
}

// lockSet hands out one mutex per session id. An entry lives only while some
// request holds or waits for it, so idle sessions cost nothing.
type lockSet struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

func (l *lockSet) acquire(id string) *sessionLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks == nil {
		l.locks = make(map[string]*sessionLock)
	}
	sl, ok := l.locks[id]
	if !ok {
		sl = &sessionLock{}
		l.locks[id] = sl
	}
	sl.refs++
	return sl
}

func (l *lockSet) release(id string, sl *sessionLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	sl.refs--
	if sl.refs == 0 {
		delete(l.locks, id)
	}
}

// lock blocks until id is free and returns the matching unlock.
func (l *lockSet) lock(id string) func() {
	sl := l.acquire(id)
	sl.Lock()
	return func() {
		sl.Unlock()
		l.release(id, sl)
	}
}

// tryLock is lock without waiting. ok is false when id is already held.
func (l *lockSet) tryLock(id string) (unlock func(), ok bool) {
	sl := l.acquire(id)
	if !sl.TryLock() {
		l.release(id, sl)
		return nil, false
	}
	return func() {
		sl.Unlock()
		l.release(id, sl)
	}, true
}

func (l *lockSet) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
