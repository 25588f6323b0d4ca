package databases

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fortexlabs/early-warning-api/models"
)

// The in-memory stores are the default backend: process-lifetime scoped,
// reseeded on every start, never written back to disk. The Go HTTP server
// handles requests on multiple goroutines, so every read-modify-write sequence
// (id assignment, merge-update) runs under the store mutex.

type memComplaintDatabase struct {
	mu         sync.Mutex
	complaints []models.Complaint
}

// NewMemoryComplaintDatabase initializes an in-memory complaint store holding
// the given seed records
func NewMemoryComplaintDatabase(seed []models.Complaint) ComplaintDatabase {
	m := &memComplaintDatabase{
		complaints: make([]models.Complaint, len(seed)),
	}
	copy(m.complaints, seed)
	return m
}

func (m *memComplaintDatabase) Create(_ context.Context, complaint models.Complaint) (models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	maxID := 0
	for _, c := range m.complaints {
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	complaint.ID = maxID + 1
	m.complaints = append(m.complaints, complaint)
	return complaint, nil
}

func (m *memComplaintDatabase) FindByID(_ context.Context, id int) (*models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.complaints {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memComplaintDatabase) Find(_ context.Context) ([]models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Complaint, len(m.complaints))
	copy(out, m.complaints)
	return out, nil
}

func (m *memComplaintDatabase) Replace(_ context.Context, complaint models.Complaint) (*models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, c := range m.complaints {
		if c.ID == complaint.ID {
			m.complaints[i] = complaint
			return &complaint, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memComplaintDatabase) Delete(_ context.Context, id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, c := range m.complaints {
		if c.ID == id {
			m.complaints = append(m.complaints[:i], m.complaints[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type memUserDatabase struct {
	mu    sync.Mutex
	users []models.User
}

// NewMemoryUserDatabase initializes an in-memory user store holding the given
// seed accounts
func NewMemoryUserDatabase(seed []models.User) UserDatabase {
	m := &memUserDatabase{
		users: make([]models.User, len(seed)),
	}
	copy(m.users, seed)
	return m
}

func (m *memUserDatabase) Create(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	maxID := 0
	for _, u := range m.users {
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	user.ID = maxID + 1
	m.users = append(m.users, user)
	return user, nil
}

func (m *memUserDatabase) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memUserDatabase) FindByID(_ context.Context, id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

// DefaultComplaints returns the built-in demo seed records
func DefaultComplaints(now time.Time) []models.Complaint {
	return []models.Complaint{
		{
			ID:          1,
			Category:    "Hostel - Maintenance",
			Description: "ROOM DOOR LOCK BROKEN",
			Status:      models.StatusSubmitted,
			UserID:      1,
			Timestamp:   now,
			Deadline:    now.Add(7 * 24 * time.Hour),
			AssignedTo:  "",
			Timeline:    []models.TimelineEntry{{Status: models.StatusSubmitted, Timestamp: now}},
		},
		{
			ID:          2,
			Category:    "Hostel - Food Quality",
			Description: "FOOD QUALITY IS VERY BAD (Sample)",
			Status:      models.StatusAssigned,
			UserID:      2,
			Timestamp:   now,
			Deadline:    now.Add(3 * 24 * time.Hour),
			AssignedTo:  "Hostel Administration",
			Timeline: []models.TimelineEntry{
				{Status: models.StatusSubmitted, Timestamp: now},
				{Status: models.StatusAssigned, Timestamp: now},
			},
		},
	}
}

// DefaultUsers returns the built-in demo accounts. The demo password for all
// of them is "password".
func DefaultUsers() []models.User {
	demoHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	return []models.User{
		{ID: 1, Email: "student@demo.com", Password: demoHash, Role: models.RoleStudent, Name: "Demo Student"},
		{ID: 2, Email: "hosteladmin@demo.com", Password: demoHash, Role: models.RoleDeptAdmin, Name: "Hostel Admin", Department: "Hostel"},
		{ID: 3, Email: "admin@demo.com", Password: demoHash, Role: models.RoleAdmin, Name: "Admin"},
	}
}

// MergeSnapshot reads an optional JSON snapshot file and merges its records
// into the seed set by id. Seed entries win on id collision. A missing or
// malformed snapshot logs and falls back to the seed alone.
func MergeSnapshot(path string, seed []models.Complaint) []models.Complaint {
	data, err := os.ReadFile(path)
	if err != nil {
		zap.S().Warnw("snapshot file not readable, using built-in seed", "path", path, "error", err)
		return seed
	}

	var snapshot []models.Complaint
	if err := json.Unmarshal(data, &snapshot); err != nil {
		zap.S().Warnw("snapshot file not parseable, using built-in seed", "path", path, "error", err)
		return seed
	}

	out := make([]models.Complaint, len(seed))
	copy(out, seed)
	for _, c := range snapshot {
		exists := false
		for _, s := range out {
			if s.ID == c.ID {
				exists = true
				break
			}
		}
		if !exists {
			out = append(out, c)
		}
	}
	return out
}
