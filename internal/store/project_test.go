package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ganot/accomplish/internal/domain/activity"
	"github.com/ganot/accomplish/internal/domain/project"
	"github.com/ganot/accomplish/internal/repository"
)

func newProject(id, name string) *project.Project {
	return &project.Project{ID: id, Name: name, CreatedAt: time.Now()}
}

func TestProjectRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := newProject("p1", "Alpha")
	proj.Image = "https://example.com/a.png"
	require.NoError(t, repo.Create(ctx, proj))

	retrieved, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "Alpha", retrieved.Name)
	require.Equal(t, proj.Image, retrieved.Image)

	byName, err := repo.GetByName(ctx, "Alpha")
	require.NoError(t, err)
	require.Equal(t, "p1", byName.ID)

	_, err = repo.Get(ctx, "nonexistent")
	require.ErrorIs(t, err, repository.ErrNotFound)

	err = repo.Create(ctx, newProject("p2", "Alpha"))
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestProjectRepository_Upsert(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	stored, created, err := repo.Upsert(ctx, newProject("p1", "Alpha"))
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, "p1", stored.ID)

	stored, created, err = repo.Upsert(ctx, newProject("p2", "Alpha"))
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, "p1", stored.ID, "second reference reuses the id")
}

func TestProjectRepository_UpsertConcurrent(t *testing.T) {
	db := NewFileTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ids     = map[string]bool{}
		created int
		errs    []error
	)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stored, isNew, err := repo.Upsert(ctx, newProject(string(rune('a'+i)), "Shared"))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			ids[stored.ID] = true
			if isNew {
				created++
			}
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	require.Len(t, ids, 1)
	require.Equal(t, 1, created)
}

func TestProjectRepository_ListCounts(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	acts := NewActivityRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newProject("p1", "Alpha")))
	require.NoError(t, repo.Create(ctx, newProject("p2", "Beta")))
	require.NoError(t, acts.Create(ctx, newActivity("a1", "p1", "Alpha", "May")))
	require.NoError(t, acts.Create(ctx, newActivity("a2", "p1", "Alpha", "June")))

	summaries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	counts := map[string]int{}
	for _, s := range summaries {
		counts[s.Name] = s.ActivityCount
	}
	require.Equal(t, 2, counts["Alpha"])
	require.Equal(t, 0, counts["Beta"])
}

func TestProjectRepository_UpdateRenamesActivities(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	acts := NewActivityRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newProject("p1", "Alpha")))
	require.NoError(t, repo.Create(ctx, newProject("p2", "Beta")))
	require.NoError(t, acts.Create(ctx, newActivity("a1", "p1", "Alpha", "May")))

	require.NoError(t, repo.Update(ctx, &project.Project{ID: "p1", Name: "Gamma", Image: "img"}))

	act, err := acts.Get(ctx, "a1")
	require.NoError(t, err)
	require.Equal(t, "Gamma", act.Project)

	err = repo.Update(ctx, &project.Project{ID: "p1", Name: "Beta"})
	require.ErrorIs(t, err, repository.ErrConflict)

	err = repo.Update(ctx, &project.Project{ID: "missing", Name: "Delta"})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_DeleteCascades(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	acts := NewActivityRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newProject("p1", "Alpha")))
	require.NoError(t, acts.Create(ctx, newActivity("a1", "p1", "Alpha", "May")))
	require.NoError(t, acts.Create(ctx, newActivity("a2", "p1", "Alpha", "June")))

	removed, err := repo.Delete(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 2, removed)

	_, err = acts.Get(ctx, "a1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.Delete(ctx, "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_DeleteCascadesOnAnyConnection(t *testing.T) {
	db := NewFileTestDB(t)
	repo := NewProjectRepository(db)
	acts := NewActivityRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newProject("p1", "Alpha")))
	require.NoError(t, acts.Create(ctx, newActivity("a1", "p1", "Alpha", "May")))

	// Keep one connection busy so the delete runs on a fresh one.
	held, err := db.Conn(ctx)
	require.NoError(t, err)
	defer held.Close()

	removed, err := repo.Delete(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	count, err := acts.CountByProject(ctx, "p1")
	require.NoError(t, err)
	require.Zero(t, count)
}

func newActivity(id, projectID, projectName, month string) *activity.Activity {
	return &activity.Activity{
		ID:        id,
		ProjectID: projectID,
		Project:   projectName,
		Year:      "2024",
		Month:     month,
		Status:    activity.DefaultStatus,
		CreatedAt: time.Now(),
	}
}
