package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hrygo/kotoba/store"
)

// reviewStatsUpsertStmt creates the stats row on first review and increments
// it in place afterwards, all in one statement keyed by word_id.
const reviewStatsUpsertStmt = `INSERT INTO review_stats (
		word_id, success_count, partial_count, fail_count, score, last_reviewed_ts
	)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (word_id) DO UPDATE SET
		success_count = review_stats.success_count + EXCLUDED.success_count,
		partial_count = review_stats.partial_count + EXCLUDED.partial_count,
		fail_count = review_stats.fail_count + EXCLUDED.fail_count,
		score = review_stats.score + EXCLUDED.score,
		last_reviewed_ts = EXCLUDED.last_reviewed_ts`

func (d *DB) UpsertReviewStats(ctx context.Context, upsert *store.UpsertReviewStats) (*store.ReviewStats, error) {
	stmt := reviewStatsUpsertStmt + `
	RETURNING word_id, success_count, partial_count, fail_count, score, last_reviewed_ts`

	var stats store.ReviewStats
	var lastReviewedTs sql.NullInt64
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.WordID, upsert.SuccessInc, upsert.PartialInc, upsert.FailInc,
		upsert.ScoreDelta, upsert.LastReviewedTs,
	).Scan(
		&stats.WordID,
		&stats.SuccessCount,
		&stats.PartialCount,
		&stats.FailCount,
		&stats.Score,
		&lastReviewedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to upsert review stats: %w", err)
	}
	if lastReviewedTs.Valid {
		stats.LastReviewedTs = &lastReviewedTs.Int64
	}

	return &stats, nil
}

func (d *DB) UpsertReviewStatsBatch(ctx context.Context, upserts []*store.UpsertReviewStats) error {
	if len(upserts) == 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, upsert := range upserts {
		if _, err := tx.ExecContext(ctx, reviewStatsUpsertStmt,
			upsert.WordID, upsert.SuccessInc, upsert.PartialInc, upsert.FailInc,
			upsert.ScoreDelta, upsert.LastReviewedTs,
		); err != nil {
			return fmt.Errorf("failed to upsert review stats for word %d: %w", upsert.WordID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review stats batch: %w", err)
	}
	return nil
}

func (d *DB) ListReviewStats(ctx context.Context, find *store.FindReviewStats) ([]*store.ReviewStats, error) {
	where, args := []string{"1 = 1"}, []any{}
	from := "review_stats"

	if v := find.WordID; v != nil {
		where, args = append(where, "review_stats.word_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		from = "review_stats JOIN word ON word.id = review_stats.word_id"
		where, args = append(where, "word.creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT
			review_stats.word_id, review_stats.success_count, review_stats.partial_count,
			review_stats.fail_count, review_stats.score, review_stats.last_reviewed_ts
		FROM ` + from + `
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY review_stats.score ASC, review_stats.word_id DESC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query review stats: %w", err)
	}
	defer rows.Close()

	list := make([]*store.ReviewStats, 0)
	for rows.Next() {
		var stats store.ReviewStats
		var lastReviewedTs sql.NullInt64
		if err := rows.Scan(
			&stats.WordID,
			&stats.SuccessCount,
			&stats.PartialCount,
			&stats.FailCount,
			&stats.Score,
			&lastReviewedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review stats: %w", err)
		}
		if lastReviewedTs.Valid {
			stats.LastReviewedTs = &lastReviewedTs.Int64
		}
		list = append(list, &stats)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate review stats: %w", err)
	}

	return list, nil
}
