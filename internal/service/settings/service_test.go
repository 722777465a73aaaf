package settings

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brigames121/ChatGPT-Beta/internal/apperr"
	"github.com/Brigames121/ChatGPT-Beta/internal/domain"
	"github.com/Brigames121/ChatGPT-Beta/internal/repository"
	"github.com/Brigames121/ChatGPT-Beta/internal/repository/memory"
)

type brokenSettings struct{}

func (brokenSettings) UpsertSetting(context.Context, domain.Setting) error {
	return errors.New("redis down")
}
func (brokenSettings) GetSetting(context.Context, string) (*domain.Setting, error) {
	return nil, errors.New("redis down")
}
func (brokenSettings) ListSettings(context.Context) ([]domain.Setting, error) {
	return nil, errors.New("redis down")
}

func newService(repo repository.SettingRepository) Service {
	svc := New(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time { return time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestSave(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := newService(store)

	msg, err := svc.Save(ctx, "admin@example.com", " welcomeMessage ", "Hola comunidad")
	require.NoError(t, err)
	assert.Equal(t, "Setting welcomeMessage saved successfully.", msg)

	got, err := svc.Get(ctx, "welcomeMessage")
	require.NoError(t, err)
	assert.Equal(t, "Hola comunidad", got.Value)
	assert.Equal(t, "admin@example.com", got.UpdatedBy)
	assert.Equal(t, 2025, got.UpdatedAt.Year())
}

func TestSave_RequiresID(t *testing.T) {
	svc := newService(memory.New())
	_, err := svc.Save(context.Background(), "admin@example.com", "  ", "x")
	assert.True(t, apperr.IsValidation(err))
}

func TestSave_EmptyValueAllowed(t *testing.T) {
	svc := newService(memory.New())
	_, err := svc.Save(context.Background(), "admin@example.com", "banner", "")
	assert.NoError(t, err)
}

func TestGet_NotFound(t *testing.T) {
	svc := newService(memory.New())
	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc := newService(memory.New())
	_, err := svc.Save(ctx, "a", "b", "1")
	require.NoError(t, err)
	_, err = svc.Save(ctx, "a", "a", "2")
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
}

func TestStoreFailuresAreServiceErrors(t *testing.T) {
	ctx := context.Background()
	svc := newService(brokenSettings{})

	_, err := svc.Save(ctx, "a", "id", "v")
	assert.True(t, apperr.IsService(err))
	_, err = svc.Get(ctx, "id")
	assert.True(t, apperr.IsService(err))
	_, err = svc.List(ctx)
	assert.True(t, apperr.IsService(err))
}
