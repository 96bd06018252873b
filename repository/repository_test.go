package repository

import (
	"context"
	"testing"
	"time"

	"connekt/internal/dbtest"
	"connekt/models"

	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeProfileInsertsThenMergesSetFields(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(dbtest.Open(t))

	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	role := models.RoleVA
	require.NoError(t, repo.MergeProfile(ctx, "u1", models.ProfileFields{
		Email:       swag.String("u1@example.com"),
		DisplayName: swag.String("User One"),
		Role:        &role,
	}, first))

	later := first.Add(time.Hour)
	require.NoError(t, repo.MergeProfile(ctx, "u1", models.ProfileFields{
		Bio: swag.String("hello"),
	}, later))

	profile, err := repo.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "u1@example.com", profile.Email)
	assert.Equal(t, "User One", profile.DisplayName)
	assert.Equal(t, models.RoleVA, profile.Role)
	assert.Equal(t, "hello", profile.Bio)
	assert.True(t, profile.CreatedAt.Equal(first))
	assert.True(t, profile.UpdatedAt.Equal(later))
}

func TestGetProfileMissing(t *testing.T) {
	repo := NewUserRepository(dbtest.Open(t))

	profile, err := repo.GetProfile(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestCreateProfileIfAbsent(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(dbtest.Open(t))

	created, err := repo.CreateProfileIfAbsent(ctx, &models.UserProfile{ID: "u1", Role: models.RoleVA})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateProfileIfAbsent(ctx, &models.UserProfile{ID: "u1", Role: models.RoleEmployer})
	require.NoError(t, err)
	assert.False(t, created)

	profile, err := repo.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleVA, profile.Role)
}

func TestSaveReservationOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(dbtest.Open(t))

	require.NoError(t, repo.SaveReservation(ctx, "alice", "u1"))
	require.NoError(t, repo.SaveReservation(ctx, "alice", "u2"))

	res, err := repo.GetReservation(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "u2", res.UID)

	res, err = repo.GetReservation(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestTaskDeleteLeavesProofsAndLog(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(dbtest.Open(t))

	task := &models.Task{ProjectID: "p1", Title: "Design", Status: models.TaskStatusTodo}
	require.NoError(t, repo.Create(ctx, task))
	require.NotEmpty(t, task.ID)

	require.NoError(t, repo.CreateProof(ctx, &models.TaskProof{TaskID: task.ID, SubmitterID: "u1", SubmittedAt: time.Now()}))
	require.NoError(t, repo.AppendReassignment(ctx, &models.TaskReassignment{TaskID: task.ID, From: "a", To: "b", At: time.Now()}))

	require.NoError(t, repo.Delete(ctx, task.ID))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	proofs, err := repo.ListProofs(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, proofs, 1)

	entries, err := repo.ListReassignments(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// deleting again is not an error
	assert.NoError(t, repo.Delete(ctx, task.ID))
}

func TestTaskUpdateMissing(t *testing.T) {
	repo := NewTaskRepository(dbtest.Open(t))

	err := repo.Update(context.Background(), "missing", map[string]any{"status": models.TaskStatusDone})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrderingNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	projects := NewProjectRepository(db)
	tasks := NewTaskRepository(db)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"old", "mid", "new"} {
		require.NoError(t, projects.Create(ctx, &models.Project{
			OwnerID: "owner", Title: title, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
		require.NoError(t, tasks.Create(ctx, &models.Task{
			ProjectID: "p1", Title: title, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, projects.Create(ctx, &models.Project{OwnerID: "someone-else", Title: "other"}))

	list, err := projects.ListByOwner(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{list[0].Title, list[1].Title, list[2].Title})

	taskList, err := tasks.ListByProject(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, taskList, 3)
	assert.Equal(t, "new", taskList[0].Title)
}

func TestMailListByFolderAndMarkRead(t *testing.T) {
	ctx := context.Background()
	repo := NewMailRepository(dbtest.Open(t))

	inbox := &models.MailMessage{OwnerID: "u2", Folder: models.MailFolderInbox, Subject: "hi", CreatedAt: time.Now()}
	sent := &models.MailMessage{OwnerID: "u1", Folder: models.MailFolderSent, Subject: "hi", IsRead: true, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, inbox))
	require.NoError(t, repo.Create(ctx, sent))

	list, err := repo.ListByFolder(ctx, "u2", models.MailFolderInbox)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsRead)

	require.NoError(t, repo.MarkRead(ctx, inbox.ID))
	list, err = repo.ListByFolder(ctx, "u2", models.MailFolderInbox)
	require.NoError(t, err)
	assert.True(t, list[0].IsRead)

	assert.ErrorIs(t, repo.MarkRead(ctx, "missing"), ErrNotFound)
}

func TestInviteRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInviteRepository(dbtest.Open(t))

	require.NoError(t, repo.SaveAdminInvite(ctx, &models.AdminInvite{Code: "ABC", Role: "admin"}))
	invite, err := repo.GetAdminInvite(ctx, "ABC")
	require.NoError(t, err)
	require.NotNil(t, invite)
	assert.False(t, invite.IsUsed)

	at := time.Now().UTC()
	require.NoError(t, repo.MarkAdminInviteUsed(ctx, "ABC", "u1", at))
	invite, err = repo.GetAdminInvite(ctx, "ABC")
	require.NoError(t, err)
	assert.True(t, invite.IsUsed)
	assert.Equal(t, "u1", *invite.UsedBy)

	active, err := repo.FindActiveInviteCode(ctx, models.RoleSuperAdmin)
	require.NoError(t, err)
	assert.Nil(t, active)

	require.NoError(t, repo.CreateInviteCode(ctx, &models.InviteCode{Code: "MASTER-ABCDEF", Role: models.RoleSuperAdmin}))
	active, err = repo.FindActiveInviteCode(ctx, models.RoleSuperAdmin)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "MASTER-ABCDEF", active.Code)
}

func TestMarketRepositoryJobsLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewMarketRepository(dbtest.Open(t))

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := range 5 {
		require.NoError(t, repo.CreateJob(ctx, &models.Job{
			OwnerID: "o", Title: string(rune('a' + i)), Skills: models.StringList{"go"}, CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	jobs, err := repo.ListJobs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "e", jobs[0].Title)
	assert.Equal(t, models.StringList{"go"}, jobs[0].Skills)
}
