// Package notifications is a persistent queue that lets background
// processes leave messages for the agent. Non-destructive: entries stay
// until explicitly marked as read, bounded by a retention limit.
package notifications

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultIcons maps notification kinds to display icons.
var DefaultIcons = map[string]string{
	"message":    "\U0001f4ac",
	"alert":      "\U0001f6a8",
	"info":       "ℹ️",
	"system":     "⚙️",
	"schedule":   "⏰",
	"suggestion": "\U0001f4a1",
}

// DefaultPriorityMarks maps priority levels to display markers.
var DefaultPriorityMarks = map[string]string{
	"urgent": "‼️",
	"high":   "❗",
	"normal": "",
	"low":    "·",
}

const fallbackIcon = "\U0001f4cc" // pushpin, for unknown kinds

// DefaultMaxQueue is the retention limit; the oldest entries beyond it
// are dropped on push.
const DefaultMaxQueue = 50

type Notification struct {
	ID        int64
	CreatedAt time.Time
	Kind      string
	Message   string
	Priority  string
	Data      map[string]any
	Read      bool
}

// Queue is an sqlite-backed notification store.
type Queue struct {
	db       *sql.DB
	icons    map[string]string
	marks    map[string]string
	maxQueue int
}

// Open creates or opens the queue database at path and applies the
// schema migration.
func Open(path string) (*Queue, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open notification db: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Queue{
		db:       db,
		icons:    DefaultIcons,
		marks:    DefaultPriorityMarks,
		maxQueue: DefaultMaxQueue,
	}, nil
}

func (q *Queue) Close() error {
	return q.db.Close()
}

func (q *Queue) WithIcons(icons map[string]string) *Queue {
	q.icons = icons
	return q
}

func (q *Queue) WithPriorityMarks(marks map[string]string) *Queue {
	q.marks = marks
	return q
}

func (q *Queue) WithMaxQueue(n int) *Queue {
	q.maxQueue = n
	return q
}

// Push appends a notification and enforces the retention limit.
func (q *Queue) Push(kind, message, priority string, data map[string]any) (Notification, error) {
	if kind == "" {
		return Notification{}, fmt.Errorf("push notification: kind is empty")
	}
	if priority == "" {
		priority = "normal"
	}
	if data == nil {
		data = map[string]any{}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return Notification{}, fmt.Errorf("push notification: encode data: %w", err)
	}
	createdAt := time.Now().UTC()

	result, err := q.db.Exec(
		`INSERT INTO notifications (created_at, kind, message, priority, data, is_read)
		 VALUES (?, ?, ?, ?, ?, 0)`,
		createdAt.Format(time.RFC3339Nano), kind, message, priority, string(encoded),
	)
	if err != nil {
		return Notification{}, fmt.Errorf("push notification: insert: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Notification{}, fmt.Errorf("push notification: last insert id: %w", err)
	}

	_, err = q.db.Exec(
		`DELETE FROM notifications
		 WHERE id NOT IN (SELECT id FROM notifications ORDER BY id DESC LIMIT ?)`,
		q.maxQueue,
	)
	if err != nil {
		return Notification{}, fmt.Errorf("push notification: trim: %w", err)
	}

	return Notification{
		ID:        id,
		CreatedAt: createdAt,
		Kind:      kind,
		Message:   message,
		Priority:  priority,
		Data:      data,
	}, nil
}

// Unread returns unread notifications, oldest first.
func (q *Queue) Unread() ([]Notification, error) {
	rows, err := q.db.Query(
		`SELECT id, created_at, kind, message, priority, data, is_read
		 FROM notifications WHERE is_read = 0 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("unread notifications: %w", err)
	}
	defer rows.Close()
	return scanAll(rows)
}

// Latest returns the most recent notification, read or not, or nil when
// the queue is empty.
func (q *Queue) Latest() (*Notification, error) {
	row := q.db.QueryRow(
		`SELECT id, created_at, kind, message, priority, data, is_read
		 FROM notifications ORDER BY id DESC LIMIT 1`)
	n, err := scanOne(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest notification: %w", err)
	}
	return &n, nil
}

func (q *Queue) MarkAllRead() error {
	if _, err := q.db.Exec(`UPDATE notifications SET is_read = 1 WHERE is_read = 0`); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

// Format renders notifications for display, one line per entry with its
// kind icon and priority marker.
func (q *Queue) Format(notifications []Notification) string {
	if len(notifications) == 0 {
		return "No notifications"
	}
	lines := []string{fmt.Sprintf("Notifications (%d):", len(notifications))}
	for _, n := range notifications {
		icon, ok := q.icons[n.Kind]
		if !ok {
			icon = fallbackIcon
		}
		mark := q.marks[n.Priority]
		lines = append(lines, fmt.Sprintf("  %s%s [%s] %s",
			mark, icon, n.CreatedAt.Local().Format("15:04"), n.Message))
	}
	return strings.Join(lines, "\n")
}

// FormatUnread is Format over the current unread set.
func (q *Queue) FormatUnread() (string, error) {
	unread, err := q.Unread()
	if err != nil {
		return "", err
	}
	return q.Format(unread), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOne(row rowScanner) (Notification, error) {
	var n Notification
	var createdAt, data string
	var isRead int
	if err := row.Scan(&n.ID, &createdAt, &n.Kind, &n.Message, &n.Priority, &data, &isRead); err != nil {
		return Notification{}, err
	}
	at, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Notification{}, fmt.Errorf("parse created_at: %w", err)
	}
	n.CreatedAt = at
	n.Read = isRead != 0
	if err := json.Unmarshal([]byte(data), &n.Data); err != nil {
		return Notification{}, fmt.Errorf("decode data: %w", err)
	}
	return n, nil
}

func scanAll(rows *sql.Rows) ([]Notification, error) {
	var out []Notification
	for rows.Next() {
		n, err := scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
