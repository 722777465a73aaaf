package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/Brigames121/ChatGPT-Beta/internal/apperr"
	"github.com/Brigames121/ChatGPT-Beta/internal/domain"
	"github.com/Brigames121/ChatGPT-Beta/internal/repository"
)

// Service manages admin settings.
type Service struct {
	repo   repository.SettingRepository
	logger *slog.Logger
	now    func() time.Time
}

// New constructs a Service.
func New(repo repository.SettingRepository, logger *slog.Logger) Service {
	return Service{repo: repo, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Save stores value under id on behalf of actor and returns a confirmation message.
func (s Service) Save(ctx context.Context, actor, id, value string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", apperr.Validation("missing required fields: settingId")
	}
	setting := domain.Setting{ID: id, Value: value, UpdatedBy: actor, UpdatedAt: s.now()}
	if err := s.repo.UpsertSetting(ctx, setting); err != nil {
		return "", apperr.Service("could not save setting", err)
	}
	s.logger.Info("admin setting saved", "setting_id", id, "actor", actor)
	return fmt.Sprintf("Setting %s saved successfully.", id), nil
}

// Get returns the setting or repository.ErrNotFound.
func (s Service) Get(ctx context.Context, id string) (*domain.Setting, error) {
	setting, err := s.repo.GetSetting(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, apperr.Service("could not load setting", err)
	}
	return setting, nil
}

// List returns every stored setting.
func (s Service) List(ctx context.Context) ([]domain.Setting, error) {
	settings, err := s.repo.ListSettings(ctx)
	if err != nil {
		return nil, apperr.Service("could not list settings", err)
	}
	return settings, nil
}
