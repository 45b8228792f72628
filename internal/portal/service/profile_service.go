package service

import (
	"context"
	"fmt"

	"github.com/xela07ax/citizen-queue-portal/internal/domain"
)

type ProfileService struct {
	users UserStore
}

func NewProfileService(users UserStore) *ProfileService {
	return &ProfileService{users: users}
}

// Me возвращает профиль. Если есть номер личной карты, город сверяется с ним.
func (s *ProfileService) Me(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.IDCard == "" {
		return u, nil
	}
	city, err := domain.MunicipalityFromIDCard(u.IDCard)
	if err != nil || city == u.City {
		return u, nil
	}
	if err := s.users.SetCity(ctx, userID, city); err != nil {
		return nil, err
	}
	u.City = city
	return u, nil
}

func (s *ProfileService) load(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// SetCity принимает только общины из справочника. Пользователю с личной картой
// город не меняется.
func (s *ProfileService) SetCity(ctx context.Context, userID, city string) (*domain.User, error) {
	if !domain.ValidMunicipality(city) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCity, city)
	}
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.IDCard != "" {
		return nil, ErrCityFromIDCard
	}
	if err := s.users.SetCity(ctx, userID, city); err != nil {
		return nil, err
	}
	return s.Me(ctx, userID)
}

// CentersFor возвращает отделения в городе пользователя, а если их там нет, все.
func (s *ProfileService) CentersFor(ctx context.Context, userID, city string) ([]domain.Center, error) {
	if city == "" && userID != "" {
		u, err := s.Me(ctx, userID)
		if err != nil {
			return nil, err
		}
		city = u.City
	}
	if found := domain.CentersByCity(city); len(found) > 0 {
		return found, nil
	}
	return domain.Centers(), nil
}
