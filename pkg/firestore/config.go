package firestore

import "time"

// ClientOption configures Conn.
type ClientOption func(*ClientConfig)

// ClientConfig holds Firestore connection configuration.
type ClientConfig struct {
	ProjectID       string
	CredentialsFile string
	Timeout         time.Duration
}

// WithProjectID sets the Google Cloud project id.
func WithProjectID(id string) ClientOption {
	return func(c *ClientConfig) {
		c.ProjectID = id
	}
}

// WithCredentialsFile sets the service-account credentials file path.
func WithCredentialsFile(path string) ClientOption {
	return func(c *ClientConfig) {
		c.CredentialsFile = path
	}
}

// WithTimeout sets the per-call network timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.Timeout = d
	}
}
