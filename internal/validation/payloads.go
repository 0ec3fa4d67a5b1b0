package validation

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/iudanet/osut/pkg/api"
)

// MinYearOfBirth нижняя граница года рождения участника
const MinYearOfBirth = 1900

// ErrInvalidPayload общая причина всех ошибок валидации
var ErrInvalidPayload = errors.New("invalid payload")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPayload, fmt.Sprintf(format, args...))
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid("%s is required", field)
	}
	return nil
}

// ValidateEvent проверяет payload мероприятия.
// partial - обновление, где пустые поля означают "не менять".
func ValidateEvent(p api.EventPayload, partial bool) error {
	if !partial {
		for _, f := range []struct{ name, value string }{
			{"title", p.Title},
			{"dateTime", p.DateTime},
			{"location", p.Location},
			{"departmentId", p.DepartmentID},
		} {
			if err := required(f.name, f.value); err != nil {
				return err
			}
		}
	}

	if p.DateTime != "" {
		if _, err := time.Parse(time.RFC3339, p.DateTime); err != nil {
			return invalid("dateTime must be RFC 3339 (e.g. 2025-05-01T18:00:00Z), got %q", p.DateTime)
		}
	}

	return nil
}

// ValidateDepartment проверяет payload департамента
func ValidateDepartment(p api.DepartmentPayload, partial bool) error {
	if !partial {
		if err := required("name", p.Name); err != nil {
			return err
		}
		if err := required("coordinatorId", p.CoordinatorID); err != nil {
			return err
		}
		if p.Type == "" {
			return invalid("type is required")
		}
	}

	if p.Type != "" && !slices.Contains(api.DepartmentTypes, p.Type) {
		return invalid("unknown department type %q", p.Type)
	}

	return nil
}

// ValidateBoardMember проверяет payload назначения в совет
func ValidateBoardMember(p api.BoardMemberPayload, partial bool) error {
	if !partial {
		if err := required("userId", p.UserID); err != nil {
			return err
		}
		if p.Position == "" {
			return invalid("position is required")
		}
	}

	if p.Position != "" && !slices.Contains(api.BoardPositions, p.Position) {
		return invalid("unknown board position %q", p.Position)
	}

	return nil
}

// ValidateUserUpdate проверяет изменение профиля; now задает верхнюю границу года рождения
func ValidateUserUpdate(p api.UserUpdatePayload, now time.Time) error {
	if p.Status != nil && !slices.Contains(api.VolunteerStatuses, *p.Status) {
		return invalid("unknown volunteer status %q", *p.Status)
	}

	if p.YearOfBirth != nil {
		year := *p.YearOfBirth
		if year < MinYearOfBirth || year > now.Year() {
			return invalid("yearOfBirth must be between %d and %d, got %d", MinYearOfBirth, now.Year(), year)
		}
	}

	if p.FirstName != nil && strings.TrimSpace(*p.FirstName) == "" {
		return invalid("firstName cannot be blank")
	}

	return nil
}
