package storage

import (
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const jarName = "urbanstay_cookies.json"

// storedCookie is the persisted subset of a cookie. Only what the backend's
// session cookie needs survives serialization.
type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

func (c storedCookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && c.Expires.Before(now)
}

// PersistentCookieJar implements http.CookieJar on top of a JSON file so the
// backend's session cookie survives process restarts, the way a browser's
// cookie store does for the web client. Cookies are keyed by exact host; the
// client only ever talks to one backend origin, so domain matching rules are
// not needed. Writes are best effort: a failed save just means the next
// process starts logged out.
type PersistentCookieJar struct {
	mu      sync.Mutex
	path    string
	cookies map[string][]storedCookie
}

// NewPersistentCookieJar loads the cookie file under dir, starting empty
// when it is absent. An unparsable file is deleted and treated as empty.
func NewPersistentCookieJar(dir string) *PersistentCookieJar {
	jar := &PersistentCookieJar{
		path:    filepath.Join(dir, jarName),
		cookies: make(map[string][]storedCookie),
	}

	data, err := os.ReadFile(jar.path)
	if err != nil {
		return jar
	}
	if err := json.Unmarshal(data, &jar.cookies); err != nil {
		os.Remove(jar.path)
		jar.cookies = make(map[string][]storedCookie)
	}
	return jar
}

// SetCookies implements http.CookieJar. Expired cookies and explicit
// deletions (MaxAge < 0) remove the stored entry.
func (j *PersistentCookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now()
	for _, c := range cookies {
		stored := storedCookie{Name: c.Name, Value: c.Value, Path: c.Path}
		switch {
		case c.MaxAge < 0:
			stored.Expires = now.Add(-time.Second)
		case c.MaxAge > 0:
			stored.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		default:
			stored.Expires = c.Expires
		}

		if stored.expired(now) {
			j.remove(u.Host, c.Name)
			continue
		}
		j.upsert(u.Host, stored)
	}
	j.save()
}

// Cookies implements http.CookieJar.
func (j *PersistentCookieJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now()
	var out []*http.Cookie
	for _, c := range j.cookies[u.Host] {
		if c.expired(now) {
			continue
		}
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

func (j *PersistentCookieJar) upsert(host string, cookie storedCookie) {
	for i, existing := range j.cookies[host] {
		if existing.Name == cookie.Name {
			j.cookies[host][i] = cookie
			return
		}
	}
	j.cookies[host] = append(j.cookies[host], cookie)
}

func (j *PersistentCookieJar) remove(host, name string) {
	kept := j.cookies[host][:0]
	for _, c := range j.cookies[host] {
		if c.Name != name {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		delete(j.cookies, host)
		return
	}
	j.cookies[host] = kept
}

func (j *PersistentCookieJar) save() {
	data, err := json.Marshal(j.cookies)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return
	}
	os.WriteFile(j.path, data, 0o600)
}
