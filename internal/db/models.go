package db

import "time"

// MoodEntry es la fila gorm de un check-in de animo.
type MoodEntry struct {
	ID          string    `gorm:"primaryKey;size:64"`
	UserID      string    `gorm:"index:idx_mood_user_created,priority:1;size:64;not null"`
	MoodValue   int       `gorm:"not null"`
	MoodLabel   string    `gorm:"size:32;not null"`
	Notes       string    `gorm:"type:text"`
	SleepHours  *float64  `gorm:"column:sleep_hours"`
	StressLevel *int      `gorm:"column:stress_level"`
	EnergyLevel *int      `gorm:"column:energy_level"`
	CreatedAt   time.Time `gorm:"index:idx_mood_user_created,priority:2;not null"`
}

func (MoodEntry) TableName() string {
	return "mood_entries"
}

// JournalEntry guarda el analisis como JSON serializado; nil significa sin analizar.
type JournalEntry struct {
	ID         string    `gorm:"primaryKey;size:64"`
	UserID     string    `gorm:"index:idx_journal_user_created,priority:1;size:64;not null"`
	Title      string    `gorm:"size:255"`
	Content    string    `gorm:"type:text;not null"`
	MoodID     string    `gorm:"size:64"`
	AIAnalysis *string   `gorm:"column:ai_analysis;type:text"`
	CreatedAt  time.Time `gorm:"index:idx_journal_user_created,priority:2;not null"`
}

func (JournalEntry) TableName() string {
	return "journal_entries"
}
