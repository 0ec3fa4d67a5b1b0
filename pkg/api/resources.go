package api

// VolunteerStatus статус участника организации
type VolunteerStatus string

const (
	StatusRecruit           VolunteerStatus = "Recruit"
	StatusInactiveVolunteer VolunteerStatus = "InactiveVolunteer"
	StatusVolunteer         VolunteerStatus = "Volunteer"
	StatusMember            VolunteerStatus = "Member"
	StatusActiveMember      VolunteerStatus = "ActiveMember"
)

// VolunteerStatuses перечисляет все статусы в порядке повышения
var VolunteerStatuses = []VolunteerStatus{
	StatusRecruit,
	StatusInactiveVolunteer,
	StatusVolunteer,
	StatusMember,
	StatusActiveMember,
}

// DepartmentType тип департамента
type DepartmentType string

const (
	DepartmentProjects   DepartmentType = "Projects"
	DepartmentServices   DepartmentType = "Services"
	DepartmentDirections DepartmentType = "Directions"
)

// DepartmentTypes перечисляет все типы департаментов
var DepartmentTypes = []DepartmentType{DepartmentProjects, DepartmentServices, DepartmentDirections}

// BoardPosition позиция в совете
type BoardPosition string

const (
	PositionPresident                      BoardPosition = "President"
	PositionExecutiveDirector              BoardPosition = "ExecutiveDirector"
	PositionGeneralSecretary               BoardPosition = "GeneralSecretary"
	PositionVicePresidentElectronics       BoardPosition = "VicePresidentElectronics"
	PositionVicePresidentConstruction      BoardPosition = "VicePresidentConstruction"
	PositionVicePresidentMechanics         BoardPosition = "VicePresidentMechanics"
	PositionVicePresidentInternalRelations BoardPosition = "VicePresidentInternalRelations"
	PositionVicePresidentExternalRelations BoardPosition = "VicePresidentExternalRelations"
	PositionPRDirector                     BoardPosition = "PRDirector"
)

// BoardPositions перечисляет все позиции совета
var BoardPositions = []BoardPosition{
	PositionPresident,
	PositionExecutiveDirector,
	PositionGeneralSecretary,
	PositionVicePresidentElectronics,
	PositionVicePresidentConstruction,
	PositionVicePresidentMechanics,
	PositionVicePresidentInternalRelations,
	PositionVicePresidentExternalRelations,
	PositionPRDirector,
}

// User представляет участника организации (principal текущей сессии тоже User)
type User struct {
	ID                string          `json:"id"`
	FirstName         string          `json:"firstName,omitempty"`
	LastName          string          `json:"lastName,omitempty"`
	ProfilePictureURL string          `json:"profilePictureUrl,omitempty"`
	Status            VolunteerStatus `json:"status"`
	Email             string          `json:"email,omitempty"`
	UserName          string          `json:"userName,omitempty"`
	YearOfBirth       int             `json:"yearOfBirth,omitempty"`
	IsAdmin           bool            `json:"isAdmin"`
}

// DisplayName возвращает имя для отображения
func (u User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		name = u.UserName
	}
	if name == "" {
		name = u.ID
	}
	return name
}

// Department представляет департамент
type Department struct {
	Coordinator   *User          `json:"coordinator,omitempty"`
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Type          DepartmentType `json:"type"`
	CoordinatorID string         `json:"coordinatorId"`
	EventsCount   int            `json:"eventsCount"`
}

// Event представляет мероприятие
type Event struct {
	Department   *Department `json:"department,omitempty"`
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description,omitempty"`
	DateTime     string      `json:"dateTime"`
	Location     string      `json:"location"`
	DepartmentID string      `json:"departmentId"`
	SignupsCount int         `json:"signupsCount"`
}

// EventSignup запись участника на мероприятие
type EventSignup struct {
	Event      *Event `json:"event,omitempty"`
	User       *User  `json:"user,omitempty"`
	ID         string `json:"id"`
	EventID    string `json:"eventId"`
	UserID     string `json:"userId"`
	SignupDate string `json:"signupDate"`
}

// BoardMember член совета
type BoardMember struct {
	User         *User         `json:"user,omitempty"`
	ID           string        `json:"id"`
	UserID       string        `json:"userId"`
	Position     BoardPosition `json:"position"`
	AssignedDate string        `json:"assignedDate"`
}

// DepartmentPayload тело запроса на создание/изменение департамента
type DepartmentPayload struct {
	Name          string         `json:"name,omitempty"`
	Description   string         `json:"description,omitempty"`
	Type          DepartmentType `json:"type,omitempty"`
	CoordinatorID string         `json:"coordinatorId,omitempty"`
}

// EventPayload тело запроса на создание/изменение мероприятия
type EventPayload struct {
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	DateTime     string `json:"dateTime,omitempty"`
	Location     string `json:"location,omitempty"`
	DepartmentID string `json:"departmentId,omitempty"`
}

// BoardMemberPayload тело запроса на назначение в совет
type BoardMemberPayload struct {
	UserID   string        `json:"userId,omitempty"`
	Position BoardPosition `json:"position,omitempty"`
}

// UserUpdatePayload тело запроса на изменение профиля.
// Указатели позволяют отличить "не менять" от нулевого значения.
type UserUpdatePayload struct {
	FirstName         *string          `json:"firstName,omitempty"`
	LastName          *string          `json:"lastName,omitempty"`
	YearOfBirth       *int             `json:"yearOfBirth,omitempty"`
	ProfilePictureURL *string          `json:"profilePictureUrl,omitempty"`
	Status            *VolunteerStatus `json:"status,omitempty"`
	IsAdmin           *bool            `json:"isAdmin,omitempty"`
	Email             *string          `json:"email,omitempty"`
	UserName          *string          `json:"userName,omitempty"`
	ID                string           `json:"id"`
}
