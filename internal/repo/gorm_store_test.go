package repo

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-portfolio-api/internal/core/database"
	"go-portfolio-api/internal/domain"
)

// sqlite 内存库跑同一套契约，postgres/mysql 仅方言不同
func newGormStore(t *testing.T) *GormStore {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)

	s := NewGormStore(db)
	require.NoError(t, s.AutoMigrate())
	return s
}

func TestGormStore_AdminSingleton(t *testing.T) {
	ctx := context.Background()
	s := newGormStore(t)

	exists, err := s.AdminExists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	u, err := s.CreateAdmin(ctx, "rod", "hash1")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	_, err = s.CreateAdmin(ctx, "other", "hash2")
	assert.ErrorIs(t, err, domain.ErrAdminExists)

	exists, err = s.AdminExists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGormStore_AdminLookupAndUpdate(t *testing.T) {
	ctx := context.Background()
	s := newGormStore(t)
	u, err := s.CreateAdmin(ctx, "rod", "old")
	require.NoError(t, err)

	got, err := s.AdminByUsername(ctx, "rod")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	got, err = s.AdminByUsername(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, got)

	updated, err := s.UpdateAdminPassword(ctx, u.ID, "new")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "new", updated.Password)

	img := "https://cdn.example.com/a.png"
	updated, err = s.UpdateAdminProfileImage(ctx, u.ID, &img)
	require.NoError(t, err)
	require.NotNil(t, updated.ProfileImageURL)
	assert.Equal(t, img, *updated.ProfileImageURL)

	missing, err := s.UpdateAdminPassword(ctx, "nope", "x")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGormStore_ProjectLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newGormStore(t)

	p, err := s.CreateProject(ctx, domain.Project{Title: "Site A", ImageURL: "u1"})
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceMonitor, p.DeviceType)
	assert.Equal(t, []string{}, p.Tags)
	assert.Equal(t, "0", p.OrderIndex)

	title := "X"
	got, err := s.UpdateProject(ctx, p.ID, domain.ProjectPatch{Title: &title})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "X", got.Title)
	assert.Equal(t, "u1", got.ImageURL)
	assert.WithinDuration(t, p.CreatedAt, got.CreatedAt, time.Second)

	missing, err := s.UpdateProject(ctx, "nope", domain.ProjectPatch{Title: &title})
	require.NoError(t, err)
	assert.Nil(t, missing)

	ok, err := s.DeleteProject(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.DeleteProject(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGormStore_ProjectOrdering(t *testing.T) {
	ctx := context.Background()
	s := newGormStore(t)

	for _, in := range []struct{ title, idx string }{
		{"c", "30"}, {"a", "10"}, {"tie-1", "20"}, {"tie-2", "20"}, {"weird", "abc"},
	} {
		_, err := s.CreateProject(ctx, domain.Project{Title: in.title, OrderIndex: in.idx})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond) // created_at 次序即插入次序
	}

	ps, err := s.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, ps, 5)
	// 非数值按 0 排最前
	assert.Equal(t, "weird", ps[0].Title)
	assert.Equal(t, "a", ps[1].Title)
	assert.Equal(t, "tie-1", ps[2].Title)
	assert.Equal(t, "tie-2", ps[3].Title)
	assert.Equal(t, "c", ps[4].Title)
}

func TestGormStore_ProfileUpsert(t *testing.T) {
	ctx := context.Background()
	s := newGormStore(t)

	// 持久化后端无种子
	p, err := s.Profile(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)

	bio := "hello"
	p1, err := s.UpdateProfile(ctx, domain.ProfilePatch{Bio1: &bio})
	require.NoError(t, err)
	require.NotNil(t, p1)
	assert.Equal(t, "hello", p1.Bio1)
	assert.NotEmpty(t, p1.Bio2) // 默认值合并

	time.Sleep(5 * time.Millisecond)

	email := "new@example.com"
	p2, err := s.UpdateProfile(ctx, domain.ProfilePatch{ContactEmail: &email})
	require.NoError(t, err)
	assert.Equal(t, p1.ID, p2.ID)
	assert.Equal(t, "hello", p2.Bio1)
	assert.Equal(t, "new@example.com", p2.ContactEmail)
	assert.True(t, p2.UpdatedAt.After(p1.UpdatedAt))
}

func TestGormStore_Sessions(t *testing.T) {
	ctx := context.Background()
	s := newGormStore(t)

	require.NoError(t, s.CreateSession(ctx, domain.Session{
		Token: "tok-live", AdminUserID: "a1", ExpiresAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, s.CreateSession(ctx, domain.Session{
		Token: "tok-dead", AdminUserID: "a1", ExpiresAt: time.Now().Add(-time.Minute),
	}))

	got, err := s.SessionByToken(ctx, "tok-live")
	require.NoError(t, err)
	require.NotNil(t, got)

	got, err = s.SessionByToken(ctx, "tok-dead")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.DeleteSession(ctx, "tok-live"))
	got, err = s.SessionByToken(ctx, "tok-live")
	require.NoError(t, err)
	assert.Nil(t, got)
}
