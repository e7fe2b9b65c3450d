package domain

// Well-known setting keys.
const (
	SettingMonthlySalary = "monthly_salary"
	SettingSeeded        = "seeded"
)

type SettingsRepository interface {
	Get(key string) (string, error)
	Set(key, value string) error
}
