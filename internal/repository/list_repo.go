package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"abracadamots/internal/database"
	"abracadamots/internal/models"
)

var wordColumns = []string{
	"id", "list_id", "text", "mastered_count", "stars", "attempts", "streak", "best_streak",
}

// ListRepository handles database operations for word lists and words
type ListRepository struct {
	db database.DBTX
}

// NewListRepository creates a new list repository
func NewListRepository(db database.DBTX) *ListRepository {
	return &ListRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *ListRepository) WithTx(tx *database.Tx) *ListRepository {
	return &ListRepository{db: tx}
}

// CreateList inserts a list header. Words are written with ReplaceWords.
func (r *ListRepository) CreateList(ctx context.Context, list models.WordList, createdAt time.Time) error {
	query := "INSERT INTO word_lists (id, child_id, name, is_selected, created_at) VALUES (?, ?, ?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, query, list.ID, list.ChildID, list.Name, list.IsSelected, createdAt); err != nil {
		return fmt.Errorf("failed to create list: %w", err)
	}
	return nil
}

// GetListByID retrieves a list with its words. It returns nil when none exists.
func (r *ListRepository) GetListByID(ctx context.Context, listID string) (*models.WordList, error) {
	query := "SELECT id, child_id, name, is_selected FROM word_lists WHERE id = ?"
	list := &models.WordList{}
	err := r.db.QueryRowContext(ctx, query, listID).Scan(
		&list.ID,
		&list.ChildID,
		&list.Name,
		&list.IsSelected,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}

	words, err := r.getWords(ctx, sq.Eq{"list_id": list.ID})
	if err != nil {
		return nil, err
	}
	list.Words = words[list.ID]
	if list.Words == nil {
		list.Words = []models.WordItem{}
	}
	return list, nil
}

// GetChildLists retrieves a child's lists with their words
func (r *ListRepository) GetChildLists(ctx context.Context, childID string) ([]models.WordList, error) {
	return r.getLists(ctx, sq.Eq{"child_id": childID})
}

// GetAllLists retrieves every list with its words
func (r *ListRepository) GetAllLists(ctx context.Context) ([]models.WordList, error) {
	return r.getLists(ctx, nil)
}

func (r *ListRepository) getLists(ctx context.Context, where sq.Sqlizer) ([]models.WordList, error) {
	builder := sq.Select("id", "child_id", "name", "is_selected").
		From("word_lists").
		OrderBy("created_at ASC", "id ASC")
	if where != nil {
		builder = builder.Where(where)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer rows.Close()

	lists := []models.WordList{}
	var ids []string
	for rows.Next() {
		var l models.WordList
		if err := rows.Scan(&l.ID, &l.ChildID, &l.Name, &l.IsSelected); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, l)
		ids = append(ids, l.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lists: %w", err)
	}
	if len(lists) == 0 {
		return lists, nil
	}

	words, err := r.getWords(ctx, sq.Eq{"list_id": ids})
	if err != nil {
		return nil, err
	}
	for i := range lists {
		lists[i].Words = words[lists[i].ID]
		if lists[i].Words == nil {
			lists[i].Words = []models.WordItem{}
		}
	}
	return lists, nil
}

// getWords loads words grouped by list, each group in list order
func (r *ListRepository) getWords(ctx context.Context, where sq.Sqlizer) (map[string][]models.WordItem, error) {
	query, args, err := sq.Select(wordColumns...).
		From("words").
		Where(where).
		OrderBy("list_id", "position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build word query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	defer rows.Close()

	byList := make(map[string][]models.WordItem)
	for rows.Next() {
		var w models.WordItem
		var listID string
		if err := rows.Scan(
			&w.ID,
			&listID,
			&w.Text,
			&w.MasteredCount,
			&w.Stars,
			&w.Attempts,
			&w.Streak,
			&w.BestStreak,
		); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		byList[listID] = append(byList[listID], w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate words: %w", err)
	}
	return byList, nil
}

// UpdateListName renames a list. It reports whether a row matched.
func (r *ListRepository) UpdateListName(ctx context.Context, listID, name string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "UPDATE word_lists SET name = ? WHERE id = ?", name, listID)
	if err != nil {
		return false, fmt.Errorf("failed to update list: %w", err)
	}
	return affected(result)
}

// SetSelected marks a list as included in or excluded from sessions
func (r *ListRepository) SetSelected(ctx context.Context, listID string, selected bool) (bool, error) {
	result, err := r.db.ExecContext(ctx, "UPDATE word_lists SET is_selected = ? WHERE id = ?", selected, listID)
	if err != nil {
		return false, fmt.Errorf("failed to update list selection: %w", err)
	}
	return affected(result)
}

// DeleteList removes a list and its words
func (r *ListRepository) DeleteList(ctx context.Context, listID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM word_lists WHERE id = ?", listID)
	if err != nil {
		return false, fmt.Errorf("failed to delete list: %w", err)
	}
	return affected(result)
}

// ReplaceWords swaps the whole word set of a list, keeping the given order
func (r *ListRepository) ReplaceWords(ctx context.Context, listID string, words []models.WordItem) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM words WHERE list_id = ?", listID); err != nil {
		return fmt.Errorf("failed to clear words: %w", err)
	}
	if len(words) == 0 {
		return nil
	}

	builder := sq.Insert("words").Columns(
		"id", "list_id", "text", "position",
		"mastered_count", "stars", "attempts", "streak", "best_streak",
	)
	for i, w := range words {
		builder = builder.Values(w.ID, listID, w.Text, i, w.MasteredCount, w.Stars, w.Attempts, w.Streak, w.BestStreak)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build word insert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert words: %w", err)
	}
	return nil
}

// GetChildWord retrieves one word, provided it sits in listID and that list
// belongs to childID. It returns nil otherwise.
func (r *ListRepository) GetChildWord(ctx context.Context, childID, listID, wordID string) (*models.WordItem, error) {
	query := `
		SELECT w.id, w.text, w.mastered_count, w.stars, w.attempts, w.streak, w.best_streak
		FROM words w
		JOIN word_lists l ON l.id = w.list_id
		WHERE w.id = ? AND l.id = ? AND l.child_id = ?
	`
	w := &models.WordItem{}
	err := r.db.QueryRowContext(ctx, query, wordID, listID, childID).Scan(
		&w.ID,
		&w.Text,
		&w.MasteredCount,
		&w.Stars,
		&w.Attempts,
		&w.Streak,
		&w.BestStreak,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %w", err)
	}
	return w, nil
}

// UpdateWordProgress writes a word's counters
func (r *ListRepository) UpdateWordProgress(ctx context.Context, w models.WordItem) error {
	query := `
		UPDATE words
		SET mastered_count = ?, stars = ?, attempts = ?, streak = ?, best_streak = ?
		WHERE id = ?
	`
	if _, err := r.db.ExecContext(ctx, query, w.MasteredCount, w.Stars, w.Attempts, w.Streak, w.BestStreak, w.ID); err != nil {
		return fmt.Errorf("failed to update word progress: %w", err)
	}
	return nil
}
