package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"lumo-assistant-api/internal/cache"
	"lumo-assistant-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeTaskRepo is an in-memory TaskRepository that counts List calls so
// tests can tell cache hits from recomputations.
type fakeTaskRepo struct {
	mu        sync.Mutex
	tasks     map[string]*model.Task
	listCalls int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*model.Task)}
}

func (r *fakeTaskRepo) Create(ctx context.Context, t *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) Get(ctx context.Context, userID, id string) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) List(ctx context.Context, userID string, f model.TaskFilter) ([]model.Task, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++

	var items []model.Task
	for _, t := range r.tasks {
		if t.UserID != userID {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if f.Completed != nil && t.Completed != *f.Completed {
			continue
		}
		items = append(items, *t)
	}
	return items, int64(len(items)), nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, t *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[t.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return sql.ErrNoRows
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) listCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listCalls
}

func newTaskService(t *testing.T) (*TaskService, *fakeTaskRepo) {
	t.Helper()
	repo := newFakeTaskRepo()
	kv := newTestKV(t)
	queries := cache.NewQueryCache(kv, "tasks", 300)
	return NewTaskService(repo, queries, zap.NewNop()), repo
}

func TestTaskCreateDefaultsPriority(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTaskService(t)

	created, err := svc.Create(ctx, "u1", TaskCreateInput{Title: "buy milk"})
	require.NoError(t, err)
	assert.Equal(t, "medium", created.Priority)
	assert.False(t, created.Completed)

	got, err := svc.Get(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", got.Title)
}

func TestTaskGetNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTaskService(t)

	_, err := svc.Get(ctx, "u1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskListReadThrough(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTaskService(t)

	_, err := svc.Create(ctx, "u1", TaskCreateInput{Title: "a", Priority: "high"})
	require.NoError(t, err)

	filter := model.TaskFilter{Priority: "high", Page: 1, PageSize: 20}

	page, err := svc.List(ctx, "u1", filter)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	require.Equal(t, 1, repo.listCount(), "first list hits the repository")

	page, err = svc.List(ctx, "u1", filter)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, 1, repo.listCount(), "second identical list is served from cache")

	// A mutation invalidates the actor's cached pages.
	_, err = svc.Create(ctx, "u1", TaskCreateInput{Title: "b", Priority: "high"})
	require.NoError(t, err)

	page, err = svc.List(ctx, "u1", filter)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Equal(t, 2, repo.listCount(), "stale page was dropped, repo consulted again")
}

func TestTaskUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTaskService(t)

	created, err := svc.Create(ctx, "u1", TaskCreateInput{Title: "a", Priority: "low"})
	require.NoError(t, err)

	done := true
	updated, err := svc.Update(ctx, "u1", created.ID, TaskCreateInput{Priority: "high"}, &done)
	require.NoError(t, err)
	assert.Equal(t, "high", updated.Priority)
	assert.True(t, updated.Completed)
	assert.Equal(t, "a", updated.Title, "unset fields are untouched")

	_, err = svc.Update(ctx, "u1", "missing", TaskCreateInput{Title: "x"}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTaskService(t)

	created, err := svc.Create(ctx, "u1", TaskCreateInput{Title: "a"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "u1", created.ID))
	_, err = svc.Get(ctx, "u1", created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "u1", created.ID), ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "u2", "whatever"), ErrNotFound)
}
