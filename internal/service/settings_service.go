package service

import (
	"github.com/shopspring/decimal"

	"github.com/centime-app/centime-backend/internal/domain"
)

// SettingsService manages user-level settings such as the monthly salary
type SettingsService struct {
	settingsRepo domain.SettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settingsRepo domain.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// GetMonthlySalary returns the stored salary, zero when never set
func (s *SettingsService) GetMonthlySalary() (decimal.Decimal, error) {
	value, err := s.settingsRepo.Get(domain.SettingMonthlySalary)
	if err == domain.ErrSettingNotFound {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	salary, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, nil
	}
	return salary, nil
}

// SetMonthlySalary stores the salary
func (s *SettingsService) SetMonthlySalary(salary decimal.Decimal) error {
	if salary.IsNegative() {
		return domain.ErrNegativeAmount
	}
	return s.settingsRepo.Set(domain.SettingMonthlySalary, salary.String())
}
