package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"daotask/internal/api"
	"daotask/internal/grant"
	"daotask/internal/models"
	"daotask/internal/store"
)

// Limits bounds the lock and vesting periods accepted for new grants. Zero
// disables a bound.
type Limits struct {
	MaxLockMonths    int64
	MaxVestingMonths int64
}

// Check rejects periods above the configured bounds.
func (l Limits) Check(lockMonths, vestingMonths int64) error {
	if l.MaxLockMonths > 0 && lockMonths > l.MaxLockMonths {
		return fmt.Errorf("lock_months must be at most %d", l.MaxLockMonths)
	}
	if l.MaxVestingMonths > 0 && vestingMonths > l.MaxVestingMonths {
		return fmt.Errorf("vesting_months must be at most %d", l.MaxVestingMonths)
	}
	return nil
}

// TaskService centralizes task validation, schedule computation and
// persistence.
type TaskService struct {
	store         store.TaskStore
	projectPrefix string
	limits        Limits
	now           func() time.Time
	newEventID    func() string
}

// NewTaskService constructs a TaskService.
func NewTaskService(store store.TaskStore, projectPrefix string, limits Limits) *TaskService {
	return &TaskService{
		store:         store,
		projectPrefix: projectPrefix,
		limits:        limits,
		now:           func() time.Time { return time.Now().UTC() },
		newEventID:    uuid.NewString,
	}
}

// Preview computes a task schedule without saving anything.
func (s *TaskService) Preview(ctx context.Context, req api.GrantPreviewRequest) (api.GrantPreviewResponse, error) {
	var resp api.GrantPreviewResponse
	if err := s.checkLimits(req.LockMonths, req.VestingMonths); err != nil {
		return resp, err
	}
	schedule, err := s.build(models.KindTask, func() (grant.Schedule, error) {
		return grant.BuildGrantSchedule(req.Config())
	})
	if err != nil {
		return resp, err
	}
	return api.GrantPreviewResponse{Schedule: schedule, Summary: grant.Summarize(schedule)}, nil
}

// Create creates a plain task from a request.
func (s *TaskService) Create(ctx context.Context, req api.TaskCreateRequest) (api.TaskResponse, error) {
	var resp api.TaskResponse

	dao, repo, name, err := normalizeLocation(req.DAO, req.Repo, req.Name)
	if err != nil {
		return resp, err
	}
	tags, err := normalizeTags(req.Tags)
	if err != nil {
		return resp, err
	}
	if err := s.checkLimits(req.LockMonths, req.VestingMonths); err != nil {
		return resp, err
	}

	schedule, err := s.build(models.KindTask, func() (grant.Schedule, error) {
		return grant.BuildGrantSchedule(req.Config())
	})
	if err != nil {
		return resp, err
	}
	if err := s.ensureNameFree(ctx, dao, repo, name); err != nil {
		return resp, err
	}
	id, err := s.generateID(models.KindTask)
	if err != nil {
		return resp, err
	}

	now := s.now()
	task := &models.Task{
		ID:             id,
		Kind:           models.KindTask,
		Status:         string(models.StatusOpen),
		DAO:            dao,
		Repo:           repo,
		Name:           name,
		Reward:         grant.Summarize(schedule).Reward,
		PercentAssign:  req.PercentAssign,
		PercentReview:  req.PercentReview,
		PercentManager: req.PercentManager,
		LockMonths:     req.LockMonths,
		VestingMonths:  req.VestingMonths,
		Comment:        req.Comment,
		Tags:           tags,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	event := s.event(id, models.EventCreateTask, req.Comment, now)

	if err := s.store.CreateTask(ctx, task, scheduleToGrants(schedule), event); err != nil {
		return resp, createError(err)
	}
	TasksCreated.WithLabelValues(string(models.KindTask)).Inc()

	return toTaskResponse(*task, schedule, []models.Event{event}), nil
}

// CreateMilestone creates a milestone holding a manager reward and a budget
// for its subtasks.
func (s *TaskService) CreateMilestone(ctx context.Context, req api.MilestoneCreateRequest) (api.TaskResponse, error) {
	var resp api.TaskResponse

	dao, repo, name, err := normalizeLocation(req.DAO, req.Repo, req.Name)
	if err != nil {
		return resp, err
	}
	tags, err := normalizeTags(req.Tags)
	if err != nil {
		return resp, err
	}
	if err := s.checkLimits(req.LockMonths, req.VestingMonths); err != nil {
		return resp, err
	}

	schedule, err := s.build(models.KindMilestone, func() (grant.Schedule, error) {
		return grant.BuildMilestoneSchedule(grant.MilestoneConfig{
			ManagerReward: req.ManagerReward,
			Budget:        req.Budget,
			LockMonths:    req.LockMonths,
			VestingMonths: req.VestingMonths,
		})
	})
	if err != nil {
		return resp, err
	}
	if err := s.ensureNameFree(ctx, dao, repo, name); err != nil {
		return resp, err
	}
	id, err := s.generateID(models.KindMilestone)
	if err != nil {
		return resp, err
	}

	now := s.now()
	summary := grant.Summarize(schedule)
	task := &models.Task{
		ID:            id,
		Kind:          models.KindMilestone,
		Status:        string(models.StatusOpen),
		DAO:           dao,
		Repo:          repo,
		Name:          name,
		Reward:        summary.Reward,
		Balance:       summary.Totals[grant.RoleSubtask],
		LockMonths:    req.LockMonths,
		VestingMonths: req.VestingMonths,
		Manager:       req.Manager,
		Comment:       req.Comment,
		Tags:          tags,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	event := s.event(id, models.EventCreateMilestone, req.Comment, now)

	if err := s.store.CreateTask(ctx, task, scheduleToGrants(schedule), event); err != nil {
		return resp, createError(err)
	}
	TasksCreated.WithLabelValues(string(models.KindMilestone)).Inc()

	return toTaskResponse(*task, schedule, []models.Event{event}), nil
}

// CreateSubtask adds a task to an open milestone. The subtask inherits the
// unlock offsets of the milestone's subtask pool and its amount is charged
// against the milestone balance. The reward is the sum of the rounded role
// splits and may exceed the amount by one.
func (s *TaskService) CreateSubtask(ctx context.Context, milestoneID string, req api.SubtaskCreateRequest) (api.TaskResponse, error) {
	var resp api.TaskResponse

	if kind, ok := store.KindFromID(milestoneID); !ok || kind != models.KindMilestone {
		return resp, notFoundCode(fmt.Errorf("milestone not found"), ErrCodeMilestoneNotFound)
	}
	milestone, err := s.store.GetTask(ctx, milestoneID)
	if err != nil {
		return resp, storeFailure(err)
	}
	if milestone == nil || milestone.Kind != models.KindMilestone || milestone.Status != string(models.StatusOpen) {
		return resp, notFoundCode(fmt.Errorf("milestone not found"), ErrCodeMilestoneNotFound)
	}

	name, err := normalizeName("name", req.Name)
	if err != nil {
		return resp, err
	}
	tags, err := normalizeTags(req.Tags)
	if err != nil {
		return resp, err
	}
	if req.PercentAssign < 1 {
		return resp, badRequestCode(fmt.Errorf("percent_assign must be at least 1"), ErrCodeInvalidGrantValue)
	}

	rows, err := s.store.ListGrants(ctx, milestone.ID)
	if err != nil {
		return resp, storeFailure(err)
	}
	pool, err := grantsToSchedule(rows)
	if err != nil {
		return resp, storeFailure(err)
	}

	schedule, err := s.build(models.KindSubtask, func() (grant.Schedule, error) {
		return grant.BuildSubtaskSchedule(grant.SubtaskConfig{
			Amount:         req.Amount,
			PercentAssign:  req.PercentAssign,
			PercentReview:  req.PercentReview,
			PercentManager: req.PercentManager,
			Offsets:        pool[grant.RoleSubtask].Offsets(),
		})
	})
	if err != nil {
		return resp, err
	}

	if req.Amount > milestone.Balance {
		return resp, insufficientBudget(req.Amount, milestone.Balance)
	}
	reward := grant.Summarize(schedule).Reward

	fullName := models.SubtaskName(milestone.Name, name)
	if err := s.ensureNameFree(ctx, milestone.DAO, milestone.Repo, fullName); err != nil {
		return resp, err
	}
	id, err := s.generateID(models.KindSubtask)
	if err != nil {
		return resp, err
	}

	now := s.now()
	task := &models.Task{
		ID:             id,
		Kind:           models.KindSubtask,
		Status:         string(models.StatusOpen),
		DAO:            milestone.DAO,
		Repo:           milestone.Repo,
		Name:           fullName,
		MilestoneID:    milestone.ID,
		Reward:         reward,
		PercentAssign:  req.PercentAssign,
		PercentReview:  req.PercentReview,
		PercentManager: req.PercentManager,
		LockMonths:     milestone.LockMonths,
		VestingMonths:  milestone.VestingMonths,
		Comment:        req.Comment,
		Tags:           tags,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	event := s.event(id, models.EventCreateSubtask, req.Comment, now)

	if err := s.store.CreateSubtask(ctx, task, req.Amount, scheduleToGrants(schedule), event); err != nil {
		switch {
		case errors.Is(err, store.ErrInsufficientBudget):
			return resp, insufficientBudget(req.Amount, milestone.Balance)
		case errors.Is(err, store.ErrTaskNotFound):
			return resp, notFoundCode(fmt.Errorf("milestone not found"), ErrCodeMilestoneNotFound)
		}
		return resp, createError(err)
	}
	TasksCreated.WithLabelValues(string(models.KindSubtask)).Inc()

	return toTaskResponse(*task, schedule, []models.Event{event}), nil
}

// Get returns a task with its schedule and event history.
func (s *TaskService) Get(ctx context.Context, id string) (api.TaskResponse, error) {
	var resp api.TaskResponse

	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return resp, storeFailure(err)
	}
	if task == nil {
		return resp, notFound(fmt.Errorf("task not found"))
	}

	rows, err := s.store.ListGrants(ctx, id)
	if err != nil {
		return resp, storeFailure(err)
	}
	schedule, err := grantsToSchedule(rows)
	if err != nil {
		return resp, storeFailure(err)
	}
	events, err := s.store.ListEvents(ctx, id)
	if err != nil {
		return resp, storeFailure(err)
	}

	return toTaskResponse(*task, schedule, events), nil
}

// List returns tasks matching filter without their schedules.
func (s *TaskService) List(ctx context.Context, filter store.ListFilter) ([]api.TaskResponse, error) {
	tasks, err := s.store.ListTasks(ctx, filter)
	if err != nil {
		return nil, storeFailure(err)
	}
	responses := make([]api.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, api.TaskResponse{Task: task})
	}
	return responses, nil
}

// Delete marks a task deleted. A milestone cannot be deleted while it has
// live subtasks.
func (s *TaskService) Delete(ctx context.Context, id string) (api.TaskResponse, error) {
	var resp api.TaskResponse

	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return resp, storeFailure(err)
	}
	if task == nil || task.Status == string(models.StatusDeleted) {
		return resp, notFound(fmt.Errorf("task not found"))
	}

	if task.Kind == models.KindMilestone {
		subtasks, err := s.store.ListTasks(ctx, store.ListFilter{MilestoneID: id, Limit: 1})
		if err != nil {
			return resp, storeFailure(err)
		}
		if len(subtasks) > 0 {
			return resp, conflictCode(fmt.Errorf("milestone has open subtasks"), ErrCodeMilestoneHasTasks)
		}
	}

	now := s.now()
	event := s.event(id, models.EventDeleteTask, "", now)
	if err := s.store.DeleteTask(ctx, id, now, event); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return resp, notFound(fmt.Errorf("task not found"))
		}
		return resp, storeFailure(err)
	}

	return s.Get(ctx, id)
}

func (s *TaskService) build(kind models.TaskKind, fn func() (grant.Schedule, error)) (grant.Schedule, error) {
	schedule, err := fn()
	if err != nil {
		return nil, grantError(err)
	}
	SchedulesComputed.WithLabelValues(string(kind)).Inc()
	return schedule, nil
}

func (s *TaskService) checkLimits(lockMonths, vestingMonths int64) error {
	if err := s.limits.Check(lockMonths, vestingMonths); err != nil {
		return badRequestCode(err, ErrCodeGrantLimit)
	}
	return nil
}

func (s *TaskService) ensureNameFree(ctx context.Context, dao, repo, name string) error {
	existing, err := s.store.FindTaskByName(ctx, dao, repo, name)
	if err != nil {
		return storeFailure(err)
	}
	if existing != nil {
		return conflictCode(fmt.Errorf("task %q already exists in %s/%s", name, dao, repo), ErrCodeTaskNameExists)
	}
	return nil
}

func (s *TaskService) generateID(kind models.TaskKind) (string, error) {
	prefix, err := normalizePrefix(s.projectPrefix)
	if err != nil {
		return "", err
	}
	id, err := store.GenerateID(prefix, kind, s.store.TaskExists)
	if err != nil {
		return "", storeFailure(err)
	}
	return id, nil
}

func (s *TaskService) event(taskID string, kind models.EventKind, comment string, at time.Time) models.Event {
	return models.Event{ID: s.newEventID(), TaskID: taskID, Kind: kind, Comment: comment, CreatedAt: at}
}

func normalizeLocation(dao, repo, name string) (string, string, string, error) {
	dao, err := normalizeName("dao", dao)
	if err != nil {
		return "", "", "", err
	}
	repo, err = normalizeName("repo", repo)
	if err != nil {
		return "", "", "", err
	}
	name, err = normalizeName("name", name)
	if err != nil {
		return "", "", "", err
	}
	return dao, repo, name, nil
}

func grantError(err error) error {
	verr, ok := grant.AsValidationError(err)
	if !ok {
		return internalError(err)
	}
	ValidationFailures.WithLabelValues(validationKindLabel(verr.Kind)).Inc()
	return badRequestCode(verr, grantErrorCode(verr.Kind))
}

func createError(err error) error {
	if isUniqueConstraint(err) {
		return conflictCode(fmt.Errorf("task already exists"), ErrCodeTaskNameExists)
	}
	return storeFailure(err)
}

func insufficientBudget(amount, balance int64) error {
	return conflictCode(fmt.Errorf("%w: subtask needs %d, milestone has %d", store.ErrInsufficientBudget, amount, balance), ErrCodeInsufficientBudget)
}
