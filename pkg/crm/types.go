package crm

import (
	"net/http"
	"time"
)

const (
	DefaultMaxRetries     = 3
	DefaultRetryInterval  = 100 * time.Millisecond
	DefaultConnectTimeout = 30 * time.Second
	DefaultReadTimeout    = 60 * time.Second
)

// Config holds CRM client configuration.
type Config struct {
	BaseURL        string
	APIKey         string
	MaxRetries     int
	RetryInterval  time.Duration
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	HTTPClient     *http.Client
}

// User is the client record returned by the by-phone lookup.
// Fields missing from the payload are left empty; ID is 0 unless the payload carries an integer.
type User struct {
	ID       int
	Phone    string
	Name     string
	Empresa  string
	CBIntent string
}
