package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"daotask/internal/models"
)

const taskColumns = `id, kind, status, dao, repo, name, milestone_id, reward, balance,
	percent_assign, percent_review, percent_manager, lock_months, vesting_months,
	manager, comment, created_at, updated_at`

// ListFilter narrows ListTasks. Deleted tasks are excluded unless Statuses
// asks for them.
type ListFilter struct {
	DAO         string
	Repo        string
	Kinds       []string
	Statuses    []string
	MilestoneID string
	Tag         string
	Limit       int
	Offset      int
}

// TaskExists checks whether a task exists by id.
func (s *Store) TaskExists(id string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM tasks WHERE id = ? LIMIT 1", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FindTaskByName returns the live task with the given name, or nil.
func (s *Store) FindTaskByName(ctx context.Context, dao, repo, name string) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks WHERE dao = ? AND repo = ? AND name = ? AND status != 'deleted'
	`, dao, repo, name)
	task, err := scanTask(row)
	if err != nil || task == nil {
		return task, err
	}
	if task.Tags, err = s.listTags(ctx, task.ID); err != nil {
		return nil, err
	}
	return task, nil
}

// CreateTask inserts a task with its tags, grant installments and create
// event in one transaction.
func (s *Store) CreateTask(ctx context.Context, task *models.Task, grants []models.Grant, event models.Event) error {
	if task == nil {
		return fmt.Errorf("task is required")
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return insertTaskTx(ctx, tx, task, grants, event)
	})
}

// CreateSubtask inserts a subtask and charges debit against the milestone
// balance. The milestone must be open and hold at least debit.
func (s *Store) CreateSubtask(ctx context.Context, task *models.Task, debit int64, grants []models.Grant, event models.Event) error {
	if task == nil {
		return fmt.Errorf("task is required")
	}
	if task.MilestoneID == "" {
		return fmt.Errorf("milestone id is required")
	}

	if debit <= 0 {
		return fmt.Errorf("debit must be positive")
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE tasks SET balance = balance - ?, updated_at = ?
			WHERE id = ? AND kind = 'milestone' AND status = 'open' AND balance >= ?
		`, debit, formatTime(task.CreatedAt), task.MilestoneID, debit)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			var exists int
			err := tx.QueryRowContext(ctx, "SELECT 1 FROM tasks WHERE id = ? AND kind = 'milestone' AND status = 'open'", task.MilestoneID).Scan(&exists)
			if err == sql.ErrNoRows {
				return ErrTaskNotFound
			}
			if err != nil {
				return err
			}
			return ErrInsufficientBudget
		}

		return insertTaskTx(ctx, tx, task, grants, event)
	})
}

// GetTask returns a task by id, or nil when it does not exist.
func (s *Store) GetTask(ctx context.Context, id string) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil || task == nil {
		return task, err
	}
	if task.Tags, err = s.listTags(ctx, id); err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasks returns tasks matching the provided filter, newest first.
func (s *Store) ListTasks(ctx context.Context, filter ListFilter) ([]models.Task, error) {
	query, args := buildListQuery(filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(tasks) == 0 {
		return tasks, nil
	}
	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	tagMap, err := s.listTagsForTasks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].Tags = tagMap[tasks[i].ID]
	}
	return tasks, nil
}

// ListGrants returns the grant installments of a task ordered by role and
// index.
func (s *Store) ListGrants(ctx context.Context, id string) ([]models.Grant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT role, idx, amount, unlock_offset FROM task_grants
		WHERE task_id = ? ORDER BY role, idx
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []models.Grant
	for rows.Next() {
		var g models.Grant
		if err := rows.Scan(&g.Role, &g.Index, &g.Amount, &g.UnlockOffset); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

// ListEvents returns the events recorded for a task, oldest first.
func (s *Store) ListEvents(ctx context.Context, id string) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task_id, kind, comment, created_at FROM task_events
		WHERE task_id = ? ORDER BY created_at, id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var ev models.Event
		var comment sql.NullString
		var createdAt string
		if err := rows.Scan(&ev.ID, &ev.TaskID, &ev.Kind, &comment, &createdAt); err != nil {
			return nil, err
		}
		ev.Comment = comment.String
		if ev.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// DeleteTask marks a live task deleted and records the delete event.
func (s *Store) DeleteTask(ctx context.Context, id string, deletedAt time.Time, event models.Event) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE tasks SET status = ?, updated_at = ? WHERE id = ? AND status != ?
		`, string(models.StatusDeleted), formatTime(deletedAt), id, string(models.StatusDeleted))
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrTaskNotFound
		}
		return insertEvent(ctx, tx, event)
	})
}

// StoreInfo returns the schema version and live task counts by kind.
func (s *Store) StoreInfo(ctx context.Context) (*StoreInfo, error) {
	version, err := currentVersion(s.db)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT kind, COUNT(*) FROM tasks WHERE status != 'deleted' GROUP BY kind")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	info := &StoreInfo{DBPath: s.path, SchemaVersion: version, TaskCounts: map[string]int{}}
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		info.TaskCounts[kind] = count
		info.TotalTasks += count
	}
	return info, rows.Err()
}

func insertTaskTx(ctx context.Context, tx *sql.Tx, task *models.Task, grants []models.Grant, event models.Event) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		task.ID,
		string(task.Kind),
		task.Status,
		task.DAO,
		task.Repo,
		task.Name,
		nullIfEmpty(task.MilestoneID),
		task.Reward,
		task.Balance,
		task.PercentAssign,
		task.PercentReview,
		task.PercentManager,
		task.LockMonths,
		task.VestingMonths,
		nullIfEmpty(task.Manager),
		nullIfEmpty(task.Comment),
		formatTime(task.CreatedAt),
		formatTime(task.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if err := insertTags(ctx, tx, task.ID, task.Tags); err != nil {
		return err
	}
	if err := insertGrants(ctx, tx, task.ID, grants); err != nil {
		return err
	}
	return insertEvent(ctx, tx, event)
}

func insertTags(ctx context.Context, tx *sql.Tx, id string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	args := make([]any, 0, len(tags)*2)
	for _, tag := range tags {
		args = append(args, id, tag)
	}
	_, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO task_tags (task_id, tag) VALUES "+tupleValues(len(tags), 2), args...)
	return err
}

func insertGrants(ctx context.Context, tx *sql.Tx, id string, grants []models.Grant) error {
	if len(grants) == 0 {
		return nil
	}
	args := make([]any, 0, len(grants)*5)
	for _, g := range grants {
		args = append(args, id, g.Role, g.Index, g.Amount, g.UnlockOffset)
	}
	_, err := tx.ExecContext(ctx, "INSERT INTO task_grants (task_id, role, idx, amount, unlock_offset) VALUES "+tupleValues(len(grants), 5), args...)
	return err
}

func insertEvent(ctx context.Context, tx *sql.Tx, event models.Event) error {
	if event.ID == "" {
		return fmt.Errorf("event id is required")
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO task_events (id, task_id, kind, comment, created_at) VALUES (?, ?, ?, ?, ?)
	`, event.ID, event.TaskID, string(event.Kind), nullIfEmpty(event.Comment), formatTime(event.CreatedAt))
	return err
}

func (s *Store) listTags(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT tag FROM task_tags WHERE task_id = ? ORDER BY tag", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (s *Store) listTagsForTasks(ctx context.Context, ids []string) (map[string][]string, error) {
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := s.db.QueryContext(ctx, "SELECT task_id, tag FROM task_tags WHERE task_id IN ("+placeholders(len(ids))+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]string, len(ids))
	for rows.Next() {
		var id, tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, err
		}
		out[id] = append(out[id], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for id := range out {
		sort.Strings(out[id])
	}
	return out, nil
}

func buildListQuery(filter ListFilter) (string, []any) {
	var where []string
	var args []any

	if filter.DAO != "" {
		where = append(where, "dao = ?")
		args = append(args, filter.DAO)
	}
	if filter.Repo != "" {
		where = append(where, "repo = ?")
		args = append(args, filter.Repo)
	}
	if len(filter.Kinds) > 0 {
		where = append(where, "kind IN ("+placeholders(len(filter.Kinds))+")")
		for _, kind := range filter.Kinds {
			args = append(args, kind)
		}
	}
	if len(filter.Statuses) > 0 {
		where = append(where, "status IN ("+placeholders(len(filter.Statuses))+")")
		for _, status := range filter.Statuses {
			args = append(args, status)
		}
	} else {
		where = append(where, "status != ?")
		args = append(args, string(models.StatusDeleted))
	}
	if filter.MilestoneID != "" {
		where = append(where, "milestone_id = ?")
		args = append(args, filter.MilestoneID)
	}
	if filter.Tag != "" {
		where = append(where, "EXISTS (SELECT 1 FROM task_tags tt WHERE tt.task_id = tasks.id AND tt.tag = ?)")
		args = append(args, filter.Tag)
	}

	query := "SELECT " + taskColumns + " FROM tasks"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}
	return query, args
}

func scanTask(scanner interface {
	Scan(dest ...any) error
}) (*models.Task, error) {
	var task models.Task
	var kind string
	var milestoneID, manager, comment sql.NullString
	var createdAt, updatedAt string

	if err := scanner.Scan(
		&task.ID,
		&kind,
		&task.Status,
		&task.DAO,
		&task.Repo,
		&task.Name,
		&milestoneID,
		&task.Reward,
		&task.Balance,
		&task.PercentAssign,
		&task.PercentReview,
		&task.PercentManager,
		&task.LockMonths,
		&task.VestingMonths,
		&manager,
		&comment,
		&createdAt,
		&updatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	task.Kind = models.TaskKind(kind)
	task.MilestoneID = milestoneID.String
	task.Manager = manager.String
	task.Comment = comment.String

	var err error
	if task.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if task.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &task, nil
}

func placeholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", count), ",")
}

func tupleValues(rows, width int) string {
	tuple := "(" + placeholders(width) + ")"
	values := make([]string, rows)
	for i := range values {
		values[i] = tuple
	}
	return strings.Join(values, ",")
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}
