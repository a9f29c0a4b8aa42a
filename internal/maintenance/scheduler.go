// Package maintenance runs periodic housekeeping against the SQLite
// store: expired and orphaned session rows are pruned and the file is
// compacted.
package maintenance

import (
	"fmt"
	"log"
	"sync"

	"github.com/alexedwards/scs/v2"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// Scheduler owns the cron instance driving store maintenance.
type Scheduler struct {
	db       *database.Database
	schedule string

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a scheduler with a standard 5-field cron spec.
func NewScheduler(db *database.Database, schedule string) *Scheduler {
	return &Scheduler{
		db:       db,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the schedule. Calling Start on a running scheduler is a
// no-op.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runOnce); err != nil {
		return fmt.Errorf("invalid maintenance schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Store maintenance scheduled: %s", s.schedule)

	return nil
}

// Stop halts the schedule and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false

	log.Printf("Store maintenance stopped")
}

// runOnce prunes dead session rows and compacts the database file.
func (s *Scheduler) runOnce() {
	if err := s.RunNow(); err != nil {
		log.Printf("Store maintenance failed: %v", err)
	}
}

// RunNow executes one maintenance pass synchronously.
func (s *Scheduler) RunNow() error {
	expired, err := s.pruneExpired()
	if err != nil {
		return fmt.Errorf("failed to prune expired sessions: %w", err)
	}

	orphaned, err := s.pruneOrphaned()
	if err != nil {
		return fmt.Errorf("failed to prune orphaned sessions: %w", err)
	}

	if err := s.db.DB.Exec(`VACUUM`).Error; err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}

	if expired > 0 || orphaned > 0 {
		log.Printf("Store maintenance: pruned %d expired and %d orphaned sessions", expired, orphaned)
	}

	return nil
}

func (s *Scheduler) pruneExpired() (int64, error) {
	// scs stores expiry as julianday REAL; compare in the same domain
	res := s.db.DB.Exec(`DELETE FROM sessions WHERE expiry < julianday('now')`)
	return res.RowsAffected, res.Error
}

// pruneOrphaned removes live sessions whose user row no longer exists.
// The user id sits inside the gob-encoded session blob, so each row is
// decoded in Go; undecodable rows are left for the expiry sweep.
func (s *Scheduler) pruneOrphaned() (int64, error) {
	var rows []struct {
		Token string
		Data  []byte
	}
	if err := s.db.DB.Raw(`SELECT token, data FROM sessions`).Scan(&rows).Error; err != nil {
		return 0, err
	}

	codec := scs.GobCodec{}
	var orphans []string
	for _, row := range rows {
		_, values, err := codec.Decode(row.Data)
		if err != nil {
			continue
		}

		userID, ok := values[auth.SessionKeyUserID].(int)
		if !ok || userID <= 0 {
			continue
		}

		var count int64
		err = s.db.DB.Model(&entities.User{}).Where("id = ?", userID).Count(&count).Error
		if err != nil {
			return 0, err
		}
		if count == 0 {
			orphans = append(orphans, row.Token)
		}
	}

	if len(orphans) == 0 {
		return 0, nil
	}

	res := s.db.DB.Exec(`DELETE FROM sessions WHERE token IN ?`, orphans)
	return res.RowsAffected, res.Error
}
