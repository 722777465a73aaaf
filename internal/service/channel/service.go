package channel

import (
	"context"
	"errors"

	"log/slog"

	"github.com/Brigames121/ChatGPT-Beta/internal/domain"
	"github.com/Brigames121/ChatGPT-Beta/internal/repository"
)

const (
	channelName           = "TechnoByteX"
	subscribers           = 15400
	defaultWelcomeMessage = "¡Bienvenido a la comunidad de tecnología!"
)

// SettingLookup reads a single admin setting.
type SettingLookup interface {
	Get(ctx context.Context, id string) (*domain.Setting, error)
}

// Service serves the channel summary. Figures are static until a video
// platform integration exists.
type Service struct {
	settings SettingLookup
	logger   *slog.Logger
}

// New constructs a Service. settings may be nil.
func New(settings SettingLookup, logger *slog.Logger) Service {
	return Service{settings: settings, logger: logger}
}

// Data returns the channel summary, applying the welcome message override.
func (s Service) Data(ctx context.Context) domain.ChannelData {
	return domain.ChannelData{
		Subscribers:    subscribers,
		ChannelName:    channelName,
		WelcomeMessage: s.welcomeMessage(ctx),
		Videos: []domain.Video{
			{Title: "Review del nuevo Chip M4 Pro", Thumbnail: "/img/thumb1.jpg", ID: "VIDEOID1"},
			{Title: "Guía completa de Python para IA", Thumbnail: "/img/thumb2.jpg", ID: "VIDEOID2"},
			{Title: "Monta tu propio PC Gaming 2025", Thumbnail: "/img/thumb3.jpg", ID: "VIDEOID3"},
		},
	}
}

func (s Service) welcomeMessage(ctx context.Context) string {
	if s.settings == nil {
		return defaultWelcomeMessage
	}
	setting, err := s.settings.Get(ctx, domain.SettingWelcomeMessage)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("welcome message lookup failed", "error", err)
		}
		return defaultWelcomeMessage
	}
	if setting.Value == "" {
		return defaultWelcomeMessage
	}
	return setting.Value
}
