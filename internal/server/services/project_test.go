package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ivanuser/car-project-manager-sub002/internal/common"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/models"
)

type fakeProjectsRepo struct {
	byID    map[string]*models.Project
	byIDErr error

	listOut []*models.Project
	listErr error

	createErr error
	updateErr error
	deleteErr error

	deleted []string
}

func (f *fakeProjectsRepo) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	p.ID = "p1"
	return p, nil
}
func (f *fakeProjectsRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, common.ErrorNotFound
}
func (f *fakeProjectsRepo) ListByUser(ctx context.Context, userID string) ([]*models.Project, error) {
	return f.listOut, f.listErr
}
func (f *fakeProjectsRepo) Update(ctx context.Context, p *models.Project) error { return f.updateErr }
func (f *fakeProjectsRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func ownedBy(userID string) map[string]*models.Project {
	return map[string]*models.Project{
		"p1": {ID: "p1", UserID: userID, Title: "GT 1969", Status: models.ProjectStatusInProgress},
	}
}

func newProjectService(t *testing.T, rm *fakeRepoManager) *ProjectService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })
	return NewProjectService(db, rm, testLogger())
}

func TestProjectCreate_DefaultsAndValidation(t *testing.T) {
	s := newProjectService(t, &fakeRepoManager{projects: &fakeProjectsRepo{}})

	p, err := s.Create(context.Background(), "u1", ProjectInput{Title: "GT 1969", Year: 1969})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if p.UserID != "u1" || p.Status != models.ProjectStatusPlanning {
		t.Fatalf("defaults not applied: %+v", p)
	}

	if _, err := s.Create(context.Background(), "u1", ProjectInput{}); !errors.Is(err, common.ErrorInvalidArgument) {
		t.Fatalf("missing title: want ErrorInvalidArgument, got %v", err)
	}
	if _, err := s.Create(context.Background(), "u1", ProjectInput{Title: "x", Status: "junk"}); !errors.Is(err, common.ErrorInvalidArgument) {
		t.Fatalf("bad status: want ErrorInvalidArgument, got %v", err)
	}
	if _, err := s.Create(context.Background(), "u1", ProjectInput{Title: "x", Year: 1700}); !errors.Is(err, common.ErrorInvalidArgument) {
		t.Fatalf("bad year: want ErrorInvalidArgument, got %v", err)
	}
}

func TestProjectGet_OwnershipHidesForeignProjects(t *testing.T) {
	s := newProjectService(t, &fakeRepoManager{projects: &fakeProjectsRepo{byID: ownedBy("someone-else")}})

	// A project owned by another user looks exactly like a missing one.
	if _, err := s.Get(context.Background(), "u1", "p1"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("foreign project: want ErrorNotFound, got %v", err)
	}
	if _, err := s.Get(context.Background(), "u1", "nope"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("missing project: want ErrorNotFound, got %v", err)
	}
}

func TestProjectUpdateDelete(t *testing.T) {
	repo := &fakeProjectsRepo{byID: ownedBy("u1")}
	s := newProjectService(t, &fakeRepoManager{projects: repo})

	p, err := s.Update(context.Background(), "u1", "p1", ProjectInput{
		Title: "GT 1969 v2", Status: models.ProjectStatusCompleted,
	})
	if err != nil || p.Title != "GT 1969 v2" || p.Status != models.ProjectStatusCompleted {
		t.Fatalf("Update: got (%+v, %v)", p, err)
	}

	if err := s.Delete(context.Background(), "u1", "p1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "p1" {
		t.Fatalf("delete not forwarded: %v", repo.deleted)
	}

	if err := s.Delete(context.Background(), "u2", "p1"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("foreign delete: want ErrorNotFound, got %v", err)
	}
}

func TestProjectStoreFailure(t *testing.T) {
	s := newProjectService(t, &fakeRepoManager{projects: &fakeProjectsRepo{byIDErr: errBoom{}, listErr: errBoom{}}})

	if _, err := s.Get(context.Background(), "u1", "p1"); !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("Get: want ErrorInternal, got %v", err)
	}
	if _, err := s.List(context.Background(), "u1"); !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("List: want ErrorInternal, got %v", err)
	}
}

type fakeTasksRepo struct {
	byID map[string]*models.Task

	listOut []*models.Task
	listErr error

	createErr error
	updateErr error
	deleteErr error
}

func (f *fakeTasksRepo) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	task.ID = "t1"
	return task, nil
}
func (f *fakeTasksRepo) GetByID(ctx context.Context, id string) (*models.Task, error) {
	if task, ok := f.byID[id]; ok {
		return task, nil
	}
	return nil, common.ErrorNotFound
}
func (f *fakeTasksRepo) ListByProject(ctx context.Context, projectID string) ([]*models.Task, error) {
	return f.listOut, f.listErr
}
func (f *fakeTasksRepo) Update(ctx context.Context, task *models.Task) error { return f.updateErr }
func (f *fakeTasksRepo) Delete(ctx context.Context, id string) error         { return f.deleteErr }

func TestTaskCreate_ScopedToOwnedProject(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		projects: &fakeProjectsRepo{byID: ownedBy("u1")},
		tasks:    &fakeTasksRepo{},
	}
	s := NewTaskService(db, rm, testLogger())

	due := time.Now().Add(48 * time.Hour)
	task, err := s.Create(context.Background(), "u1", "p1", TaskInput{Title: "swap carb", DueDate: &due})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if task.Status != models.TaskStatusTodo || task.Priority != models.TaskPriorityMedium {
		t.Fatalf("defaults not applied: %+v", task)
	}

	if _, err := s.Create(context.Background(), "u2", "p1", TaskInput{Title: "x"}); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("foreign project: want ErrorNotFound, got %v", err)
	}
	if _, err := s.Create(context.Background(), "u1", "p1", TaskInput{Title: "x", Priority: "urgent!!"}); !errors.Is(err, common.ErrorInvalidArgument) {
		t.Fatalf("bad priority: want ErrorInvalidArgument, got %v", err)
	}
}

func TestTaskGet_ChecksEnclosingProject(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		projects: &fakeProjectsRepo{byID: ownedBy("owner")},
		tasks: &fakeTasksRepo{byID: map[string]*models.Task{
			"t1": {ID: "t1", ProjectID: "p1", Title: "swap carb"},
		}},
	}
	s := NewTaskService(db, rm, testLogger())

	if _, err := s.Get(context.Background(), "owner", "t1"); err != nil {
		t.Fatalf("owner Get error: %v", err)
	}
	if _, err := s.Get(context.Background(), "intruder", "t1"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("intruder Get: want ErrorNotFound, got %v", err)
	}
}
