package bench

import (
	"errors"
	"time"
)

// MaxNameLength is the declared size of the first_name and last_name columns,
// counted in characters.
const MaxNameLength = 30

var (
	ErrValueTooLong  = errors.New("value exceeds declared size")
	ErrInvalidCount  = errors.New("iteration count must be at least 1")
	ErrUnknownDriver = errors.New("unknown driver")
)

type ConnConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`
	Database string `json:"database" yaml:"database"`

	// TLS is handed to the driver's own setting: sslmode for postgres
	// (default disable), the tls parameter for mysql (default off).
	TLS string `json:"tls" yaml:"tls"`
}

// Employee is the row written by every trial. ID is zero until the store
// assigns one.
type Employee struct {
	ID          int64
	FirstName   string
	LastName    string
	DateOfBirth time.Time // day precision
	DateVested  time.Time // sub-second precision
}

// TrialResult is the outcome of one timed pass. Iterations counts only the
// entities processed while the clock was running.
type TrialResult struct {
	Name       string        `json:"name"`
	Iterations int           `json:"iterations"`
	Elapsed    time.Duration `json:"elapsed_ns"`
}

// PerIteration returns the average cost of one iteration.
func (r TrialResult) PerIteration() time.Duration {
	if r.Iterations == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Iterations)
}

// Throughput returns rows processed per second.
func (r TrialResult) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Iterations) / r.Elapsed.Seconds()
}
