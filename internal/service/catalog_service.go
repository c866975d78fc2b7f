package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ScissorhandsMetu/scissorhands-bot/internal/domain"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/models"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/repository"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/schedule"

	"github.com/rs/zerolog"
)

// CatalogService отдаёт каталог барберов из кэша и ходит в бэкенд
// только когда кэш пуст. Ошибки бэкенда деградируют до пустого списка:
// пользователь видит "пока никого нет", а не стектрейс.
type CatalogService struct {
	api    domain.APIClient
	cache  *repository.CatalogCache
	logger *zerolog.Logger
}

func NewCatalogService(api domain.APIClient, cache *repository.CatalogCache, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{
		api:    api,
		cache:  cache,
		logger: logger,
	}
}

// Refresh перечитывает каталог из бэкенда и обновляет кэш.
func (s *CatalogService) Refresh(ctx context.Context) error {
	barbers, err := s.api.ListBarbers(ctx)
	if err != nil {
		return fmt.Errorf("refresh barbers: %w", err)
	}
	s.cache.SetBarbers(ctx, barbers)

	districts, err := s.api.ListDistricts(ctx)
	if err != nil {
		return fmt.Errorf("refresh districts: %w", err)
	}
	s.cache.SetDistricts(ctx, districts)

	s.logger.Debug().
		Int("barbers", len(barbers)).
		Int("districts", len(districts)).
		Msg("Catalog refreshed")

	return nil
}

// ListBarbers возвращает барберов, опционально отфильтрованных по району.
// Пустой district означает "все районы".
func (s *CatalogService) ListBarbers(ctx context.Context, district string) ([]models.Barber, error) {
	barbers, ok := s.cache.GetBarbers(ctx)
	if !ok {
		fetched, err := s.api.ListBarbers(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Barber list unavailable, degrading to empty")
			return []models.Barber{}, nil
		}
		s.cache.SetBarbers(ctx, fetched)
		barbers = fetched
	}

	if district == "" {
		return barbers, nil
	}

	filtered := make([]models.Barber, 0, len(barbers))
	for _, b := range barbers {
		if strings.EqualFold(b.District, district) {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

// ListDistricts возвращает районы; при пустом ответе бэкенда районы
// выводятся из списка барберов.
func (s *CatalogService) ListDistricts(ctx context.Context) ([]models.District, error) {
	districts, ok := s.cache.GetDistricts(ctx)
	if !ok {
		fetched, err := s.api.ListDistricts(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("District list unavailable, deriving from barbers")
			return s.districtsFromBarbers(ctx), nil
		}
		s.cache.SetDistricts(ctx, fetched)
		districts = fetched
	}

	if len(districts) == 0 {
		return s.districtsFromBarbers(ctx), nil
	}
	return districts, nil
}

func (s *CatalogService) districtsFromBarbers(ctx context.Context) []models.District {
	barbers, err := s.ListBarbers(ctx, "")
	if err != nil || len(barbers) == 0 {
		return []models.District{}
	}

	seen := make(map[string]bool)
	var names []string
	for _, b := range barbers {
		if b.District == "" || seen[b.District] {
			continue
		}
		seen[b.District] = true
		names = append(names, b.District)
	}
	sort.Strings(names)

	districts := make([]models.District, 0, len(names))
	for i, name := range names {
		districts = append(districts, models.District{ID: i + 1, Name: name})
	}
	return districts
}

// GetBarber находит барбера по ID вместе с его записями.
func (s *CatalogService) GetBarber(ctx context.Context, barberID int) (*models.Barber, error) {
	barbers, err := s.ListBarbers(ctx, "")
	if err != nil {
		return nil, err
	}

	for i := range barbers {
		if barbers[i].ID == barberID {
			return &barbers[i], nil
		}
	}

	return nil, fmt.Errorf("barber %d not found", barberID)
}

// GetSlots возвращает расписание барбера на дату.
func (s *CatalogService) GetSlots(ctx context.Context, barberID int, date string) ([]schedule.Slot, error) {
	barber, err := s.GetBarber(ctx, barberID)
	if err != nil {
		return nil, err
	}

	return schedule.ResolveSlots(barber.Appointments, date), nil
}
