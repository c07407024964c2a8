package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"namaz-cli/internal/domain"
)

// Retention is how long cached days are kept.
const Retention = 7 * 24 * time.Hour

// dayRecord is one provider answer for one location and date.
type dayRecord struct {
	City       string `gorm:"primaryKey"`
	Country    string `gorm:"primaryKey"`
	Method     int    `gorm:"primaryKey"`
	Date       string `gorm:"primaryKey"`
	Timings    string
	LunarMonth int
	Hijri      string
	HijriName  string
	FetchedAt  time.Time `gorm:"index"`
}

func (dayRecord) TableName() string {
	return "cached_days"
}

// SQLiteCache implements domain.TimingsCache on a local sqlite file.
// This is a secondary adapter.
type SQLiteCache struct {
	db  *gorm.DB
	now func() time.Time
}

// Open opens (or creates) the cache database and drops expired rows.
func Open(path string) (*SQLiteCache, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	if err := db.AutoMigrate(&dayRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate cache: %w", err)
	}

	c := &SQLiteCache{db: db, now: time.Now}
	if err := c.Prune(c.now().Add(-Retention)); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the cached answer for loc on date (DD-MM-YYYY).
func (c *SQLiteCache) Get(loc domain.Location, date string) (domain.DailyTimings, bool, error) {
	var rec dayRecord
	result := c.db.Where(&dayRecord{City: loc.City, Country: loc.Country, Method: loc.Method, Date: date}).
		Limit(1).
		Find(&rec)
	if result.Error != nil {
		return domain.DailyTimings{}, false, fmt.Errorf("query cache: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.DailyTimings{}, false, nil
	}

	var named map[string]string
	if err := json.Unmarshal([]byte(rec.Timings), &named); err != nil {
		return domain.DailyTimings{}, false, fmt.Errorf("decode cached timings: %w", err)
	}
	raw := domain.RawTimings{}
	for name, value := range named {
		if p, ok := domain.ParsePrayerID(name); ok {
			raw[p] = value
		}
	}

	return domain.DailyTimings{
		Location:   domain.Location{City: rec.City, Country: rec.Country, Method: rec.Method},
		Raw:        raw,
		LunarMonth: rec.LunarMonth,
		Gregorian:  rec.Date,
		Hijri:      rec.Hijri,
		HijriName:  rec.HijriName,
		FetchedAt:  rec.FetchedAt,
	}, true, nil
}

// Put stores t, replacing any previous answer for the same location and date.
func (c *SQLiteCache) Put(t domain.DailyTimings) error {
	named := make(map[string]string, len(t.Raw))
	for p, value := range t.Raw {
		named[p.String()] = value
	}
	encoded, err := json.Marshal(named)
	if err != nil {
		return fmt.Errorf("encode timings: %w", err)
	}

	rec := &dayRecord{
		City:       t.Location.City,
		Country:    t.Location.Country,
		Method:     t.Location.Method,
		Date:       t.Gregorian,
		Timings:    string(encoded),
		LunarMonth: t.LunarMonth,
		Hijri:      t.Hijri,
		HijriName:  t.HijriName,
		FetchedAt:  t.FetchedAt,
	}
	return c.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(rec).Error
}

// Prune deletes rows fetched before cutoff.
func (c *SQLiteCache) Prune(cutoff time.Time) error {
	if err := c.db.Where("fetched_at < ?", cutoff).Delete(&dayRecord{}).Error; err != nil {
		return fmt.Errorf("prune cache: %w", err)
	}
	return nil
}

func (c *SQLiteCache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
