// Package fixtures holds the demo data set and an in-memory resources.API
// used in mock mode and in the demo session.
package fixtures

import (
	"time"

	pkgapi "github.com/iudanet/osut/pkg/api"
)

// DemoUserID ID пользователя демо-режима
const DemoUserID = "mock-user-1"

// DemoPrincipal возвращает фиксированного пользователя демо-режима
func DemoPrincipal() pkgapi.User {
	return pkgapi.User{
		ID:          DemoUserID,
		FirstName:   "Josan",
		LastName:    "Member",
		Email:       "pula@osut.dev",
		Status:      pkgapi.StatusMember,
		UserName:    "josan.member",
		YearOfBirth: 6969,
	}
}

func seedUsers() []pkgapi.User {
	return []pkgapi.User{
		DemoPrincipal(),
		{
			ID:        "mock-user-2",
			FirstName: "Mara",
			LastName:  "Member",
			Email:     "mara@osut.dev",
			Status:    pkgapi.StatusMember,
		},
	}
}

type departmentSeed struct {
	id, name, description string
	kind                  pkgapi.DepartmentType
	coordinatorID         string
	eventsCount           int
}

var departmentSeeds = []departmentSeed{
	{"svc-imagine", "Imagine", "Creative and media services.", pkgapi.DepartmentServices, "mock-user-2", 0},
	{"svc-tehnic-administrativ", "Tehnic-Administrativ", "Technical and administrative support.", pkgapi.DepartmentServices, "mock-user-1", 0},
	{"proj-viitor-inginer", "Viitor Inginer", "Engineering student development program.", pkgapi.DepartmentProjects, "mock-user-1", 0},
	{"proj-polihack", "Polihack", "Innovation and hackathon competition.", pkgapi.DepartmentProjects, "mock-user-1", 1},
	{"proj-esu", "ESU", "Student union representation projects.", pkgapi.DepartmentProjects, "mock-user-2", 0},
	{"proj-infotech", "Infotech", "Technology and IT education initiatives.", pkgapi.DepartmentProjects, "mock-user-1", 0},
	{"proj-gala-aniversara", "Gala Aniversara", "Annual celebration gala.", pkgapi.DepartmentProjects, "mock-user-2", 0},
	{"proj-balul-bobocilor", "Balul Bobocilor", "Freshers welcome ball.", pkgapi.DepartmentProjects, "mock-user-1", 0},
	{"dir-cultural", "Cultural", "Cultural direction initiatives.", pkgapi.DepartmentDirections, "mock-user-2", 0},
	{"dir-divertisment", "Divertisment", "Entertainment and social activities.", pkgapi.DepartmentDirections, "mock-user-1", 0},
	{"dir-educational", "Educațional", "Educational programs and workshops.", pkgapi.DepartmentDirections, "mock-user-2", 0},
	{"dir-sport-sanatate", "Sport și sănătate", "Sports and wellness initiatives.", pkgapi.DepartmentDirections, "mock-user-1", 0},
}

func seedDepartments() []pkgapi.Department {
	departments := make([]pkgapi.Department, 0, len(departmentSeeds))
	for _, s := range departmentSeeds {
		departments = append(departments, pkgapi.Department{
			ID:            s.id,
			Name:          s.name,
			Description:   s.description,
			Type:          s.kind,
			CoordinatorID: s.coordinatorID,
			EventsCount:   s.eventsCount,
		})
	}
	return departments
}

// Даты мероприятий считаются от now, как "сегодня" и "завтра"
func seedEvents(now time.Time) []pkgapi.Event {
	return []pkgapi.Event{
		{
			ID:           "event-1",
			Title:        "Community Cleanup",
			Description:  "Help tidy the park.",
			DateTime:     now.UTC().Format(time.RFC3339),
			Location:     "Central Park",
			DepartmentID: "svc-imagine",
			SignupsCount: 3,
		},
		{
			ID:           "event-2",
			Title:        "Polihack Kickoff",
			Description:  "Launch meetup for Polihack projects.",
			DateTime:     now.Add(24 * time.Hour).UTC().Format(time.RFC3339),
			Location:     "Makerspace",
			DepartmentID: "proj-polihack",
			SignupsCount: 5,
		},
	}
}

func seedSignups(now time.Time) []pkgapi.EventSignup {
	date := now.UTC().Format(time.RFC3339)
	return []pkgapi.EventSignup{
		{ID: "signup-1", EventID: "event-1", UserID: "mock-user-1", SignupDate: date},
		{ID: "signup-2", EventID: "event-2", UserID: "mock-user-2", SignupDate: date},
	}
}

func seedBoard(now time.Time) []pkgapi.BoardMember {
	return []pkgapi.BoardMember{
		{
			ID:           "board-1",
			UserID:       "mock-user-1",
			Position:     pkgapi.PositionPresident,
			AssignedDate: now.UTC().Format(time.RFC3339),
		},
	}
}
