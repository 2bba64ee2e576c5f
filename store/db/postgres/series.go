package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/hrygo/kotoba/store"
)

func (d *DB) CreateSeries(ctx context.Context, create *store.Series) (*store.Series, error) {
	fields := []string{"uid", "creator_id", "name"}
	placeholderValues := []any{create.UID, create.CreatorID, create.Name}

	stmt := `INSERT INTO series (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create series: %w", err)
	}

	return create, nil
}

func (d *DB) ListSeries(ctx context.Context, find *store.FindSeries) ([]*store.Series, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "series.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "series.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "series.creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Name; v != nil {
		where, args = append(where, "series.name = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, uid, creator_id, name, created_ts
		FROM series
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY series.name ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query series: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Series, 0)
	for rows.Next() {
		var series store.Series
		if err := rows.Scan(
			&series.ID,
			&series.UID,
			&series.CreatorID,
			&series.Name,
			&series.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan series: %w", err)
		}
		list = append(list, &series)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate series: %w", err)
	}

	return list, nil
}

func (d *DB) DeleteSeries(ctx context.Context, delete *store.DeleteSeries) error {
	stmt := `DELETE FROM series WHERE id = ` + placeholder(1)
	result, err := d.db.ExecContext(ctx, stmt, delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete series: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("series not found")
	}

	return nil
}

func (d *DB) AddWordToSeries(ctx context.Context, wordID, seriesID int32) error {
	stmt := `INSERT INTO word_series (word_id, series_id)
		VALUES (` + placeholders(2) + `)
		ON CONFLICT (word_id, series_id) DO NOTHING`
	if _, err := d.db.ExecContext(ctx, stmt, wordID, seriesID); err != nil {
		return fmt.Errorf("failed to add word to series: %w", err)
	}
	return nil
}

func (d *DB) RemoveWordFromSeries(ctx context.Context, wordID, seriesID int32) error {
	stmt := `DELETE FROM word_series WHERE word_id = ` + placeholder(1) + ` AND series_id = ` + placeholder(2)
	if _, err := d.db.ExecContext(ctx, stmt, wordID, seriesID); err != nil {
		return fmt.Errorf("failed to remove word from series: %w", err)
	}
	return nil
}
