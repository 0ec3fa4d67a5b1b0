package fixtures

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/osut/internal/client/resources"
	pkgapi "github.com/iudanet/osut/pkg/api"
)

// Store - in-memory реализация resources.API на демо-данных.
// Изменения живут только в памяти процесса.
type Store struct {
	now         func() time.Time
	users       []pkgapi.User
	departments []pkgapi.Department
	events      []pkgapi.Event
	signups     []pkgapi.EventSignup
	board       []pkgapi.BoardMember
	mu          sync.RWMutex
}

// Compile-time check that Store implements resources.API
var _ resources.API = (*Store)(nil)

// NewStore создает хранилище с демо-данными
func NewStore() *Store {
	return newStore(time.Now)
}

func newStore(now func() time.Time) *Store {
	t := now()
	return &Store{
		now:         now,
		users:       seedUsers(),
		departments: seedDepartments(),
		events:      seedEvents(t),
		signups:     seedSignups(t),
		board:       seedBoard(t),
	}
}

func newID() string {
	return "mock-" + uuid.NewString()
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, resources.ErrNotFound)
}

// --- users ---

// ListUsers implements resources.Users
func (s *Store) ListUsers(_ context.Context) ([]pkgapi.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users), nil
}

// GetUser возвращает пользователя; неизвестный ID отдает демо-пользователя,
// чтобы профиль настоящей сессии в mock-режиме тоже был заполнен.
func (s *Store) GetUser(_ context.Context, id string) (*pkgapi.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.userLocked(id); ok {
		return &u, nil
	}
	demo := DemoPrincipal()
	return &demo, nil
}

// UpdateUser implements resources.Users
func (s *Store) UpdateUser(_ context.Context, id string, p pkgapi.UserUpdatePayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.users, func(u pkgapi.User) bool { return u.ID == id })
	if i < 0 {
		return notFound("user", id)
	}

	u := &s.users[i]
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.UserName != nil {
		u.UserName = *p.UserName
	}
	if p.YearOfBirth != nil {
		u.YearOfBirth = *p.YearOfBirth
	}
	if p.ProfilePictureURL != nil {
		u.ProfilePictureURL = *p.ProfilePictureURL
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
	if p.IsAdmin != nil {
		u.IsAdmin = *p.IsAdmin
	}
	return nil
}

// DeleteUser implements resources.Users
func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(&s.users, "user", id, func(u pkgapi.User) bool { return u.ID == id })
}

// --- events ---

// ListEvents implements resources.Events
func (s *Store) ListEvents(_ context.Context) ([]pkgapi.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expandEventsLocked(s.events), nil
}

// UpcomingEvents возвращает мероприятия, которые еще не прошли (с начала текущего дня)
func (s *Store) UpcomingEvents(_ context.Context) ([]pkgapi.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	y, m, d := s.now().UTC().Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	var upcoming []pkgapi.Event
	for _, e := range s.events {
		at, err := time.Parse(time.RFC3339, e.DateTime)
		if err != nil || !at.Before(dayStart) {
			upcoming = append(upcoming, e)
		}
	}
	return s.expandEventsLocked(upcoming), nil
}

// GetEvent implements resources.Events
func (s *Store) GetEvent(_ context.Context, id string) (*pkgapi.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.events {
		if e.ID == id {
			out := s.expandEventLocked(e)
			return &out, nil
		}
	}
	return nil, notFound("event", id)
}

// EventsByDepartment implements resources.Events
func (s *Store) EventsByDepartment(_ context.Context, departmentID string) ([]pkgapi.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []pkgapi.Event
	for _, e := range s.events {
		if e.DepartmentID == departmentID {
			out = append(out, e)
		}
	}
	return s.expandEventsLocked(out), nil
}

// CreateEvent implements resources.Events
func (s *Store) CreateEvent(_ context.Context, p pkgapi.EventPayload) (*pkgapi.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := pkgapi.Event{
		ID:           newID(),
		Title:        p.Title,
		Description:  p.Description,
		DateTime:     p.DateTime,
		Location:     p.Location,
		DepartmentID: p.DepartmentID,
	}
	s.events = append(s.events, e)
	out := s.expandEventLocked(e)
	return &out, nil
}

// UpdateEvent применяет непустые поля payload
func (s *Store) UpdateEvent(_ context.Context, id string, p pkgapi.EventPayload) (*pkgapi.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.events, func(e pkgapi.Event) bool { return e.ID == id })
	if i < 0 {
		return nil, notFound("event", id)
	}

	e := &s.events[i]
	setIfNotEmpty(&e.Title, p.Title)
	setIfNotEmpty(&e.Description, p.Description)
	setIfNotEmpty(&e.DateTime, p.DateTime)
	setIfNotEmpty(&e.Location, p.Location)
	setIfNotEmpty(&e.DepartmentID, p.DepartmentID)

	out := s.expandEventLocked(*e)
	return &out, nil
}

// DeleteEvent implements resources.Events
func (s *Store) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := remove(&s.events, "event", id, func(e pkgapi.Event) bool { return e.ID == id }); err != nil {
		return err
	}
	s.signups = slices.DeleteFunc(s.signups, func(su pkgapi.EventSignup) bool { return su.EventID == id })
	return nil
}

// SignUp записывает демо-пользователя; повторная запись ничего не меняет
func (s *Store) SignUp(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.events, func(e pkgapi.Event) bool { return e.ID == eventID })
	if i < 0 {
		return notFound("event", eventID)
	}
	if slices.ContainsFunc(s.signups, func(su pkgapi.EventSignup) bool {
		return su.EventID == eventID && su.UserID == DemoUserID
	}) {
		return nil
	}

	s.signups = append(s.signups, pkgapi.EventSignup{
		ID:         newID(),
		EventID:    eventID,
		UserID:     DemoUserID,
		SignupDate: s.now().UTC().Format(time.RFC3339),
	})
	s.events[i].SignupsCount++
	return nil
}

// CancelSignup отменяет запись демо-пользователя
func (s *Store) CancelSignup(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := remove(&s.signups, "signup", eventID, func(su pkgapi.EventSignup) bool {
		return su.EventID == eventID && su.UserID == DemoUserID
	})
	if err != nil {
		return err
	}
	if i := slices.IndexFunc(s.events, func(e pkgapi.Event) bool { return e.ID == eventID }); i >= 0 && s.events[i].SignupsCount > 0 {
		s.events[i].SignupsCount--
	}
	return nil
}

// EventSignups implements resources.Events
func (s *Store) EventSignups(_ context.Context, eventID string) ([]pkgapi.EventSignup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []pkgapi.EventSignup
	for _, su := range s.signups {
		if su.EventID != eventID {
			continue
		}
		if u, ok := s.userLocked(su.UserID); ok {
			su.User = &u
		}
		for _, e := range s.events {
			if e.ID == su.EventID {
				ev := e
				su.Event = &ev
			}
		}
		out = append(out, su)
	}
	return out, nil
}

// --- departments ---

// ListDepartments implements resources.Departments
func (s *Store) ListDepartments(_ context.Context) ([]pkgapi.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expandDepartmentsLocked(s.departments), nil
}

// GetDepartment implements resources.Departments
func (s *Store) GetDepartment(_ context.Context, id string) (*pkgapi.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.departmentLocked(id); ok {
		return &d, nil
	}
	return nil, notFound("department", id)
}

// DepartmentsByType implements resources.Departments
func (s *Store) DepartmentsByType(_ context.Context, t pkgapi.DepartmentType) ([]pkgapi.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []pkgapi.Department
	for _, d := range s.departments {
		if d.Type == t {
			out = append(out, d)
		}
	}
	return s.expandDepartmentsLocked(out), nil
}

// CreateDepartment implements resources.Departments
func (s *Store) CreateDepartment(_ context.Context, p pkgapi.DepartmentPayload) (*pkgapi.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := pkgapi.Department{
		ID:            newID(),
		Name:          p.Name,
		Description:   p.Description,
		Type:          p.Type,
		CoordinatorID: p.CoordinatorID,
	}
	s.departments = append(s.departments, d)
	out, _ := s.departmentLocked(d.ID)
	return &out, nil
}

// UpdateDepartment применяет непустые поля payload
func (s *Store) UpdateDepartment(_ context.Context, id string, p pkgapi.DepartmentPayload) (*pkgapi.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.departments, func(d pkgapi.Department) bool { return d.ID == id })
	if i < 0 {
		return nil, notFound("department", id)
	}

	d := &s.departments[i]
	setIfNotEmpty(&d.Name, p.Name)
	setIfNotEmpty(&d.Description, p.Description)
	setIfNotEmpty(&d.CoordinatorID, p.CoordinatorID)
	if p.Type != "" {
		d.Type = p.Type
	}

	out, _ := s.departmentLocked(id)
	return &out, nil
}

// DeleteDepartment implements resources.Departments
func (s *Store) DeleteDepartment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(&s.departments, "department", id, func(d pkgapi.Department) bool { return d.ID == id })
}

// --- board ---

// ListBoardMembers implements resources.Board
func (s *Store) ListBoardMembers(_ context.Context) ([]pkgapi.BoardMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]pkgapi.BoardMember, 0, len(s.board))
	for _, b := range s.board {
		out = append(out, s.expandBoardLocked(b))
	}
	return out, nil
}

// GetBoardMember implements resources.Board
func (s *Store) GetBoardMember(_ context.Context, id string) (*pkgapi.BoardMember, error) {
	return s.findBoard("board member", id, func(b pkgapi.BoardMember) bool { return b.ID == id })
}

// BoardMemberByPosition implements resources.Board
func (s *Store) BoardMemberByPosition(_ context.Context, position pkgapi.BoardPosition) (*pkgapi.BoardMember, error) {
	return s.findBoard("board position", string(position), func(b pkgapi.BoardMember) bool { return b.Position == position })
}

// BoardMemberByUser implements resources.Board
func (s *Store) BoardMemberByUser(_ context.Context, userID string) (*pkgapi.BoardMember, error) {
	return s.findBoard("board member for user", userID, func(b pkgapi.BoardMember) bool { return b.UserID == userID })
}

// AssignBoardMember implements resources.Board
func (s *Store) AssignBoardMember(_ context.Context, p pkgapi.BoardMemberPayload) (*pkgapi.BoardMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := pkgapi.BoardMember{
		ID:           newID(),
		UserID:       p.UserID,
		Position:     p.Position,
		AssignedDate: s.now().UTC().Format(time.RFC3339),
	}
	s.board = append(s.board, b)
	out := s.expandBoardLocked(b)
	return &out, nil
}

// UpdateBoardMember сохраняет дату назначения
func (s *Store) UpdateBoardMember(_ context.Context, id string, p pkgapi.BoardMemberPayload) (*pkgapi.BoardMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.board, func(b pkgapi.BoardMember) bool { return b.ID == id })
	if i < 0 {
		return nil, notFound("board member", id)
	}

	b := &s.board[i]
	setIfNotEmpty(&b.UserID, p.UserID)
	if p.Position != "" {
		b.Position = p.Position
	}

	out := s.expandBoardLocked(*b)
	return &out, nil
}

// DeleteBoardMember implements resources.Board
func (s *Store) DeleteBoardMember(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(&s.board, "board member", id, func(b pkgapi.BoardMember) bool { return b.ID == id })
}

func (s *Store) findBoard(kind, key string, match func(pkgapi.BoardMember) bool) (*pkgapi.BoardMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.board {
		if match(b) {
			out := s.expandBoardLocked(b)
			return &out, nil
		}
	}
	return nil, notFound(kind, key)
}

// --- связи ---

func (s *Store) userLocked(id string) (pkgapi.User, bool) {
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return pkgapi.User{}, false
}

func (s *Store) departmentLocked(id string) (pkgapi.Department, bool) {
	for _, d := range s.departments {
		if d.ID == id {
			if u, ok := s.userLocked(d.CoordinatorID); ok {
				d.Coordinator = &u
			}
			return d, true
		}
	}
	return pkgapi.Department{}, false
}

func (s *Store) expandDepartmentsLocked(in []pkgapi.Department) []pkgapi.Department {
	out := make([]pkgapi.Department, 0, len(in))
	for _, d := range in {
		if u, ok := s.userLocked(d.CoordinatorID); ok {
			d.Coordinator = &u
		}
		out = append(out, d)
	}
	return out
}

func (s *Store) expandEventLocked(e pkgapi.Event) pkgapi.Event {
	if d, ok := s.departmentLocked(e.DepartmentID); ok {
		e.Department = &d
	}
	return e
}

func (s *Store) expandEventsLocked(in []pkgapi.Event) []pkgapi.Event {
	out := make([]pkgapi.Event, 0, len(in))
	for _, e := range in {
		out = append(out, s.expandEventLocked(e))
	}
	return out
}

func (s *Store) expandBoardLocked(b pkgapi.BoardMember) pkgapi.BoardMember {
	if u, ok := s.userLocked(b.UserID); ok {
		b.User = &u
	}
	return b
}

func remove[T any](items *[]T, kind, id string, match func(T) bool) error {
	i := slices.IndexFunc(*items, match)
	if i < 0 {
		return notFound(kind, id)
	}
	*items = slices.Delete(*items, i, i+1)
	return nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
