package notification

import "time"

// SMTPConfig holds connection parameters for the SMTP transport.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	FromAddr   string        // may include a display name: "Job Portal HR <hr@example.com>"
	Encryption string        // "none", "starttls", "ssl_tls"
	Timeout    time.Duration // dial and I/O timeout for one delivery
}
