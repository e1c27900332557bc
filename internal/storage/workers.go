package storage

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type WorkerStatus string

const (
	WorkerActive    WorkerStatus = "ACTIF"
	WorkerInactive  WorkerStatus = "INACTIF"
	WorkerSuspended WorkerStatus = "SUSPENDU"
)

// ParseWorkerStatus accepts any casing and a prefix of at least three
// letters ("act", "Inactif", "susp"). Unknown values report false.
func ParseWorkerStatus(s string) (WorkerStatus, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len([]rune(s)) < 3 {
		return "", false
	}

	for _, st := range []WorkerStatus{WorkerActive, WorkerInactive, WorkerSuspended} {
		if strings.HasPrefix(string(st), s) || strings.HasPrefix(s, string(st)) {
			return st, true
		}
	}

	return "", false
}

type Worker struct {
	ID         int64           `json:"id"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	NationalID string          `json:"national_id"`
	Contact    string          `json:"contact"`
	Address    string          `json:"address"`
	BaseSalary decimal.Decimal `json:"base_salary"`
	Site       string          `json:"site"`
	HireDate   *time.Time      `json:"hire_date"`
	BirthDate  *time.Time      `json:"birth_date"`
	Status     WorkerStatus    `json:"status"`
}

// WorkerLookup is the fallback match used when a row carries no national ID.
// An empty Contact matches on names only.
type WorkerLookup struct {
	FirstName string
	LastName  string
	Contact   string
}
