package leaderboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/0xmhha/year-in-code/pkg/logger"
)

// Entries are keyed "YYYY/username" with the username lowercased, so one
// prefix seek visits a whole year.
var bucketEntries = []byte("entries")

// store implements the Store interface using BoltDB.
type store struct {
	db     *bolt.DB
	logger logger.Logger
	now    func() time.Time
}

// New opens or creates the database at cfg.DBPath.
func New(cfg Config, log logger.Logger) (Store, error) {
	if log == nil {
		log = logger.Noop()
	}
	log = log.Named("leaderboard")

	if cfg.Timeout == 0 {
		cfg.Timeout = time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	dbPath := ExpandHome(cfg.DBPath)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: cfg.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		if _, createErr := tx.CreateBucketIfNotExists(bucketEntries); createErr != nil {
			return fmt.Errorf("failed to create entries bucket: %w", createErr)
		}
		return nil
	}); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("failed to close database after initialization error",
				"error", closeErr)
		}
		return nil, err
	}

	log.Info("leaderboard store opened", "db_path", dbPath)

	return &store{db: db, logger: log, now: cfg.Now}, nil
}

func yearPrefix(year int) []byte {
	return []byte(fmt.Sprintf("%04d/", year))
}

func entryKey(username string, year int) []byte {
	return append(yearPrefix(year), strings.ToLower(strings.TrimSpace(username))...)
}

// Submit implements Store.Submit.
func (s *store) Submit(req SubmitRequest) (*Entry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	languages := req.TopLanguages
	if languages == nil {
		languages = []string{}
	}

	entry := &Entry{
		Username:           strings.TrimSpace(req.Username),
		AvatarURL:          req.AvatarURL,
		Year:               req.Year,
		YearsInCode:        *req.YearsInCode,
		TotalContributions: *req.TotalContributions,
		LongestStreak:      req.LongestStreak,
		TotalStars:         req.TotalStars,
		TopLanguages:       languages,
		FirstCommitDate:    req.FirstCommitDate,
		SubmittedAt:        s.now().UTC(),
	}
	key := entryKey(req.Username, req.Year)

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketEntries)

		if data := b.Get(key); data != nil {
			var existing Entry
			if err := json.Unmarshal(data, &existing); err != nil {
				return fmt.Errorf("failed to unmarshal existing entry: %w", err)
			}
			entry.HasVerifiedBadge = existing.HasVerifiedBadge
		}

		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}
		if err := b.Put(key, data); err != nil {
			return fmt.Errorf("failed to store entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("leaderboard entry submitted",
		"username", entry.Username,
		"year", entry.Year,
		"contributions", entry.TotalContributions)

	return entry, nil
}

// Get implements Store.Get.
func (s *store) Get(username string, year int) (*Entry, error) {
	var entry *Entry

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketEntries).Get(entryKey(username, year))
		if data == nil {
			return ErrNotFound
		}

		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			return fmt.Errorf("failed to unmarshal entry: %w", err)
		}
		entry = &e
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// Query implements Store.Query.
func (s *store) Query(q Query) (*Page, error) {
	if q.Year == 0 {
		q.Year = s.now().Year()
	}
	if q.Category == "" {
		q.Category = CategoryContributions
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))

	page := &Page{Entries: make([]Entry, 0), Year: q.Year, Category: q.Category}

	err := s.db.View(func(tx *bolt.Tx) error {
		prefix := yearPrefix(q.Year)
		c := tx.Bucket(bucketEntries).Cursor()

		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				s.logger.Warn("failed to unmarshal entry",
					"key", string(k),
					"error", err)
				continue // Skip invalid entries.
			}

			page.TotalCount++
			if search != "" && !strings.Contains(strings.ToLower(e.Username), search) {
				continue
			}
			page.Entries = append(page.Entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}

	sortEntries(page.Entries, q.Category)

	if q.Limit > 0 && len(page.Entries) > q.Limit {
		page.Entries = page.Entries[:q.Limit]
	}

	return page, nil
}

// sortEntries orders entries by the category's primary and secondary keys,
// both descending, then by username ascending.
func sortEntries(entries []Entry, category Category) {
	keys := func(e Entry) (int64, int64) {
		switch category {
		case CategoryStreak:
			return int64(e.LongestStreak), e.TotalContributions
		case CategoryYears:
			return int64(e.YearsInCode), e.TotalContributions
		case CategoryStars:
			return e.TotalStars, e.TotalContributions
		default:
			return e.TotalContributions, int64(e.LongestStreak)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		pi, si := keys(entries[i])
		pj, sj := keys(entries[j])
		if pi != pj {
			return pi > pj
		}
		if si != sj {
			return si > sj
		}
		return strings.ToLower(entries[i].Username) < strings.ToLower(entries[j].Username)
	})
}

// SetVerified implements Store.SetVerified.
func (s *store) SetVerified(username string, year int, verified bool) error {
	key := entryKey(username, year)

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketEntries)

		data := b.Get(key)
		if data == nil {
			return ErrNotFound
		}

		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			return fmt.Errorf("failed to unmarshal entry: %w", err)
		}
		e.HasVerifiedBadge = verified

		updated, err := json.Marshal(&e)
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}
		return b.Put(key, updated)
	})
	if err != nil {
		return err
	}

	s.logger.Info("leaderboard badge updated",
		"username", username,
		"year", year,
		"verified", verified)
	return nil
}

// Delete implements Store.Delete.
func (s *store) Delete(username string, year int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketEntries).Delete(entryKey(username, year)); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}
		return nil
	})
}

// Close implements Store.Close.
func (s *store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	s.logger.Info("leaderboard store closed")
	return nil
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}
