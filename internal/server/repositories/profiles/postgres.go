package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/expertprofile/internal/common"
	"github.com/dmitrijs2005/expertprofile/internal/dbx"
	"github.com/dmitrijs2005/expertprofile/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.ExpertProfile, error) {
	query :=
		`SELECT hourly_rate, available_week_days, start_time_slot, end_time_slot, tags FROM expert_profiles
		 WHERE user_id = $1`

	var (
		p          models.ExpertProfile
		days, tags []byte
		start, end sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&p.HourlyRate, &days, &start, &end, &tags)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(days, &p.AvailableWeekDays); err != nil {
		return nil, fmt.Errorf("decode available_week_days: %w", err)
	}
	if err := json.Unmarshal(tags, &p.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	p.StartTimeSlot = fromNullTime(start)
	p.EndTimeSlot = fromNullTime(end)
	p.Normalize()

	return &p, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, userID string, p *models.ExpertProfile) error {
	query :=
		`INSERT INTO expert_profiles (user_id, hourly_rate, available_week_days, start_time_slot, end_time_slot, tags, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())
		 ON CONFLICT (user_id) DO UPDATE SET
		   hourly_rate = EXCLUDED.hourly_rate,
		   available_week_days = EXCLUDED.available_week_days,
		   start_time_slot = EXCLUDED.start_time_slot,
		   end_time_slot = EXCLUDED.end_time_slot,
		   tags = EXCLUDED.tags,
		   updated_at = now()`

	c := p.Clone()
	c.Normalize()

	days, err := json.Marshal(c.AvailableWeekDays)
	if err != nil {
		return fmt.Errorf("encode available_week_days: %w", err)
	}
	tags, err := json.Marshal(c.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, userID, c.HourlyRate.String(), string(days),
		toNullTime(c.StartTimeSlot), toNullTime(c.EndTimeSlot), string(tags))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func fromNullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	u := t.Time.UTC()
	return &u
}
