package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"wellness-insights/internal/db"
	"wellness-insights/internal/domain"
)

// GormMoodRepository persiste check-ins en el almacen local (sqlite).
type GormMoodRepository struct {
	db *gorm.DB
}

func NewGormMoodRepository(gdb *gorm.DB) *GormMoodRepository {
	return &GormMoodRepository{db: gdb}
}

func (r *GormMoodRepository) Create(ctx context.Context, sample domain.MoodSample) error {
	row := db.MoodEntry{
		ID:          sample.ID,
		UserID:      sample.UserID,
		MoodValue:   sample.Value,
		MoodLabel:   string(sample.Label),
		Notes:       sample.Notes,
		SleepHours:  sample.SleepHours,
		StressLevel: sample.StressLevel,
		EnergyLevel: sample.EnergyLevel,
		CreatedAt:   sample.CreatedAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *GormMoodRepository) ListByUser(ctx context.Context, userID string, since *time.Time) ([]domain.MoodSample, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if since != nil {
		q = q.Where("created_at >= ?", since.UTC())
	}
	var rows []db.MoodEntry
	if err := q.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	moods := make([]domain.MoodSample, 0, len(rows))
	for _, row := range rows {
		moods = append(moods, domain.MoodSample{
			ID:          row.ID,
			UserID:      row.UserID,
			Value:       row.MoodValue,
			Label:       domain.MoodLabel(row.MoodLabel),
			Notes:       row.Notes,
			SleepHours:  row.SleepHours,
			StressLevel: row.StressLevel,
			EnergyLevel: row.EnergyLevel,
			CreatedAt:   row.CreatedAt,
		})
	}
	return moods, nil
}

// GormJournalRepository persiste entradas de diario en el almacen local (sqlite).
type GormJournalRepository struct {
	db *gorm.DB
}

func NewGormJournalRepository(gdb *gorm.DB) *GormJournalRepository {
	return &GormJournalRepository{db: gdb}
}

func (r *GormJournalRepository) Create(ctx context.Context, sample domain.JournalSample) error {
	analysis, err := encodeAnalysis(sample.Analysis)
	if err != nil {
		return err
	}
	row := db.JournalEntry{
		ID:         sample.ID,
		UserID:     sample.UserID,
		Title:      sample.Title,
		Content:    sample.Content,
		MoodID:     sample.MoodID,
		AIAnalysis: textOrNil(analysis),
		CreatedAt:  sample.CreatedAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *GormJournalRepository) GetByID(ctx context.Context, id string) (*domain.JournalSample, error) {
	var row db.JournalEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSampleNotFound
		}
		return nil, err
	}
	j, err := journalFromRow(row)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *GormJournalRepository) UpdateAnalysis(ctx context.Context, id string, analysis domain.AIAnalysis) error {
	raw, err := encodeAnalysis(&analysis)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).
		Model(&db.JournalEntry{}).
		Where("id = ?", id).
		Update("ai_analysis", string(raw))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSampleNotFound
	}
	return nil
}

func (r *GormJournalRepository) ListByUser(ctx context.Context, userID string, since *time.Time) ([]domain.JournalSample, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if since != nil {
		q = q.Where("created_at >= ?", since.UTC())
	}
	var rows []db.JournalEntry
	if err := q.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	journals := make([]domain.JournalSample, 0, len(rows))
	for _, row := range rows {
		j, err := journalFromRow(row)
		if err != nil {
			return nil, err
		}
		journals = append(journals, j)
	}
	return journals, nil
}

func journalFromRow(row db.JournalEntry) (domain.JournalSample, error) {
	j := domain.JournalSample{
		ID:        row.ID,
		UserID:    row.UserID,
		Title:     row.Title,
		Content:   row.Content,
		MoodID:    row.MoodID,
		CreatedAt: row.CreatedAt,
	}
	if row.AIAnalysis != nil {
		analysis, err := decodeAnalysis([]byte(*row.AIAnalysis))
		if err != nil {
			return domain.JournalSample{}, err
		}
		j.Analysis = analysis
	}
	return j, nil
}

func textOrNil(raw []byte) *string {
	if raw == nil {
		return nil
	}
	s := string(raw)
	return &s
}
