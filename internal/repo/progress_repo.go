package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Enrolla/internal/domain"
)

// ProgressRepo — Postgres-хранилище прогресса.
//
// Запись хранится целиком как JSONB-документ; итоговый статус
// и время пересчёта дублируются в колонках для выборок планировщика.
type ProgressRepo struct {
	pool *pgxpool.Pool
}

// NewProgressRepo создаёт новый ProgressRepo.
func NewProgressRepo(pool *pgxpool.Pool) *ProgressRepo {
	return &ProgressRepo{pool: pool}
}

// Get возвращает запись прогресса по ID пользователя.
func (r *ProgressRepo) Get(ctx context.Context, userID string) (*domain.UserProgress, error) {
	query := `SELECT document FROM user_progress WHERE user_id = $1`

	var doc []byte
	err := r.pool.QueryRow(ctx, query, userID).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return unmarshalProgress(doc)
}

// GetOrCreate возвращает запись, вставляя пустую при её отсутствии.
// ON CONFLICT DO NOTHING делает конкурентное создание безопасным:
// проигравшая вставка перечитывает победившую запись.
func (r *ProgressRepo) GetOrCreate(ctx context.Context, userID string) (*domain.UserProgress, error) {
	fresh := domain.NewUserProgress(userID)
	doc, err := json.Marshal(fresh)
	if err != nil {
		return nil, fmt.Errorf("marshal progress: %w", err)
	}

	query := `
		INSERT INTO user_progress (user_id, document, overall_status, cache_updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err = r.pool.Exec(ctx, query, userID, doc, fresh.CachedOverallStatus, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("insert progress: %w", err)
	}

	return r.Get(ctx, userID)
}

// Save перезаписывает запись целиком.
func (r *ProgressRepo) Save(ctx context.Context, progress *domain.UserProgress) error {
	doc, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	query := `
		INSERT INTO user_progress (user_id, document, overall_status, cache_updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET document = $2, overall_status = $3, cache_updated_at = $4
	`
	_, err = r.pool.Exec(ctx, query,
		progress.UserID,
		doc,
		progress.CachedOverallStatus,
		progress.CacheUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// ListStale возвращает незавершённые записи, не менявшиеся после before.
func (r *ProgressRepo) ListStale(ctx context.Context, before time.Time, limit int) ([]domain.UserProgress, error) {
	query := `
		SELECT document
		FROM user_progress
		WHERE overall_status = $1 AND cache_updated_at < $2
		ORDER BY cache_updated_at ASC
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, domain.OverallInProgress, before, limit)
	if err != nil {
		return nil, fmt.Errorf("list stale progress: %w", err)
	}
	defer rows.Close()

	var result []domain.UserProgress
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		p, err := unmarshalProgress(doc)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

// unmarshalProgress восстанавливает запись из JSONB-документа,
// доинициализируя карты для старых документов без них.
func unmarshalProgress(doc []byte) (*domain.UserProgress, error) {
	var p domain.UserProgress
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("unmarshal progress: %w", err)
	}
	if p.NodeStatuses == nil {
		p.NodeStatuses = make(map[int]domain.NodeStatus)
	}
	if p.DerivedFacts == nil {
		p.DerivedFacts = make(map[string]any)
	}
	return &p, nil
}
