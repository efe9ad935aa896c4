package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/testutil"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestUserRepository_EmailTaken(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "Alice", "alice@example.com", "secret1")
	testutil.CreateUser(t, db, "Bob", "bob@example.com", "secret1")

	taken, err := repo.EmailTaken(ctx, "bob@example.com", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.EmailTaken(ctx, "alice@example.com", alice.ID)
	require.NoError(t, err)
	assert.False(t, taken, "own email must not count as taken")

	taken, err = repo.EmailTaken(ctx, "bob@example.com", alice.ID)
	require.NoError(t, err)
	assert.True(t, taken)

	found, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProjectRepository_FindWithOwnerAndTasks(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "Owner", "owner@example.com", "secret1")
	worker := testutil.CreateUser(t, db, "Worker", "worker@example.com", "secret1")
	project := testutil.CreateProject(t, db, "Launch", owner)
	testutil.CreateTask(t, db, project, "first", worker)
	testutil.CreateTask(t, db, project, "second", nil)

	loaded, err := repo.FindWithOwnerAndTasks(ctx, project.ID)
	require.NoError(t, err)

	require.NotNil(t, loaded.Owner)
	assert.Equal(t, owner.ID, loaded.Owner.ID)
	assert.Equal(t, "Owner", loaded.Owner.Name)
	assert.Empty(t, loaded.Owner.Email, "owner summary selects id and name only")

	require.Len(t, loaded.Tasks, 2)
	assert.Equal(t, "first", loaded.Tasks[0].Name)
	require.NotNil(t, loaded.Tasks[0].Assignee)
	assert.Equal(t, worker.ID, loaded.Tasks[0].Assignee.ID)
	assert.Nil(t, loaded.Tasks[1].Assignee)
}

func TestProjectRepository_Paginate(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "Owner", "owner@example.com", "secret1")
	other := testutil.CreateUser(t, db, "Other", "other@example.com", "secret1")
	for i := 0; i < 4; i++ {
		testutil.CreateProject(t, db, "mine", owner)
	}
	testutil.CreateProject(t, db, "theirs", other)

	page, err := repo.Paginate(ctx, ProjectFilter{Page: 2, PerPage: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	require.Len(t, page.Items, 2)
	assert.Less(t, page.Items[0].ID, page.Items[1].ID)

	page, err = repo.Paginate(ctx, ProjectFilter{OwnerID: &other.ID, Page: 1, PerPage: 15})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "theirs", page.Items[0].Name)
}

func TestProjectRepository_DeleteRemovesTasks(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	project := testutil.CreateProject(t, db, "Doomed", nil)
	task := testutil.CreateTask(t, db, project, "gone too", nil)

	require.NoError(t, repo.Delete(ctx, project.ID))

	exists, err := repo.Exists(ctx, project.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = NewTaskRepository(db).FindByID(ctx, task.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, project.ID), gorm.ErrRecordNotFound)
}

func TestTaskRepository_ListVisibleTo(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	me := testutil.CreateUser(t, db, "Me", "me@example.com", "secret1")
	other := testutil.CreateUser(t, db, "Other", "other@example.com", "secret1")

	mine := testutil.CreateProject(t, db, "mine", me)
	theirs := testutil.CreateProject(t, db, "theirs", other)

	ownedUnassigned := testutil.CreateTask(t, db, mine, "in my project", nil)
	assignedToMe := testutil.CreateTask(t, db, theirs, "assigned to me", me)
	testutil.CreateTask(t, db, theirs, "not mine", other)

	page, err := repo.List(ctx, TaskFilter{VisibleTo: &me.ID, Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	ids := []uint64{}
	for _, task := range page.Items {
		ids = append(ids, task.ID)
		require.NotNil(t, task.Project)
	}
	assert.Equal(t, []uint64{ownedUnassigned.ID, assignedToMe.ID}, ids)
}

func TestTaskRepository_ListByProjectWithAssignee(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	worker := testutil.CreateUser(t, db, "Worker", "worker@example.com", "secret1")
	project := testutil.CreateProject(t, db, "P", nil)
	other := testutil.CreateProject(t, db, "Q", nil)
	testutil.CreateTask(t, db, project, "a", worker)
	testutil.CreateTask(t, db, other, "b", nil)

	page, err := repo.ListByProjectWithAssignee(ctx, project.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].Assignee)
	assert.Equal(t, "Worker", page.Items[0].Assignee.Name)
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return db, mock
}

func TestUserRepository_EmailTakenPropagatesErrors(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	connErr := errors.New("connection refused")
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").WillReturnError(connErr)

	_, err := repo.EmailTaken(context.Background(), "a@x.com", 0)
	assert.ErrorIs(t, err, connErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_DeleteRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectRepository(db)

	connErr := errors.New("lock wait timeout")
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `tasks` SET `deleted_at`").WillReturnError(connErr)
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, connErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_CreateSkipsAssociations(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)

	project := &models.Project{
		Name:  "With ghost owner",
		Owner: &models.User{Name: "Ghost", Email: "ghost@example.com", PasswordHash: "x"},
	}
	require.NoError(t, repo.Create(context.Background(), project))

	exists, err := NewUserRepository(db).Exists(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, exists, "associations must not be upserted")
}
