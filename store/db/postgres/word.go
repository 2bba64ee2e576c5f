package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/hrygo/kotoba/store"
)

func (d *DB) CreateWord(ctx context.Context, create *store.Word) (*store.Word, error) {
	fields := []string{"uid", "creator_id", "text", "phonetic", "script", "script_alt", "notes"}
	placeholderValues := []any{
		create.UID, create.CreatorID, create.Text, create.Phonetic,
		create.Script, create.ScriptAlt, create.Notes,
	}

	stmt := `INSERT INTO word (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts, updated_ts, row_status`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.UpdatedTs,
		&create.RowStatus,
	); err != nil {
		return nil, fmt.Errorf("failed to create word: %w", err)
	}

	return create, nil
}

func (d *DB) ListWords(ctx context.Context, find *store.FindWord) ([]*store.Word, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "word.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "word.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "word.creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.RowStatus; v != nil {
		where, args = append(where, "word.row_status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.SeriesID; v != nil {
		where, args = append(where, "word.id IN (SELECT word_id FROM word_series WHERE series_id = "+placeholder(len(args)+1)+")"), append(args, *v)
	}

	query := `
		SELECT
			id, uid, creator_id, created_ts, updated_ts, row_status,
			text, phonetic, script, script_alt, notes
		FROM word
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY word.created_ts DESC, word.id DESC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Word, 0)
	for rows.Next() {
		var word store.Word
		if err := rows.Scan(
			&word.ID,
			&word.UID,
			&word.CreatorID,
			&word.CreatedTs,
			&word.UpdatedTs,
			&word.RowStatus,
			&word.Text,
			&word.Phonetic,
			&word.Script,
			&word.ScriptAlt,
			&word.Notes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		list = append(list, &word)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate words: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateWord(ctx context.Context, update *store.UpdateWord) error {
	set, args := []string{}, []any{}

	if v := update.UpdatedTs; v != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.RowStatus; v != nil {
		set, args = append(set, "row_status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Text; v != nil {
		set, args = append(set, "text = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Phonetic; v != nil {
		set, args = append(set, "phonetic = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Script; v != nil {
		set, args = append(set, "script = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.ScriptAlt; v != nil {
		set, args = append(set, "script_alt = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Notes; v != nil {
		set, args = append(set, "notes = "+placeholder(len(args)+1)), append(args, *v)
	}

	// If no fields to update, return early
	if len(set) == 0 {
		return nil
	}

	args = append(args, update.ID)

	stmt := `UPDATE word SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update word: %w", err)
	}

	return nil
}

func (d *DB) DeleteWord(ctx context.Context, delete *store.DeleteWord) error {
	stmt := `DELETE FROM word WHERE id = ` + placeholder(1)
	result, err := d.db.ExecContext(ctx, stmt, delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete word: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("word not found")
	}

	return nil
}
