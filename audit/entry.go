// Package audit provides the append-only access log: a buffered sink for
// writes and a read side for queries and reporting. Entries are write-once;
// nothing in this package updates or deletes them.
package audit

import (
	"time"
)

// Entry is one immutable access log record.
type Entry struct {
	ID         string `gorm:"primaryKey"`
	UserID     string `gorm:"not null;index"`
	Action     string `gorm:"not null;index"`
	Resource   string `gorm:"not null;index"`
	ResourceID string
	Unidade    string `gorm:"not null;index"`
	IPAddress  string
	UserAgent  string
	Success    bool   `gorm:"not null"`
	Details    string
	Timestamp  time.Time `gorm:"not null;index"`
}

// TableName keeps the table name stable regardless of struct naming.
func (Entry) TableName() string {
	return "access_logs"
}
