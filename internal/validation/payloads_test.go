package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/osut/pkg/api"
)

func validEvent() api.EventPayload {
	return api.EventPayload{
		Title:        "Polihack Kickoff",
		DateTime:     "2025-05-01T18:00:00Z",
		Location:     "Makerspace",
		DepartmentID: "proj-polihack",
	}
}

func TestValidateEvent(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *api.EventPayload)
		partial bool
		wantErr bool
		errMsg  string
	}{
		{name: "valid", mutate: func(*api.EventPayload) {}},
		{name: "missing title", mutate: func(p *api.EventPayload) { p.Title = "  " }, wantErr: true, errMsg: "title is required"},
		{name: "missing location", mutate: func(p *api.EventPayload) { p.Location = "" }, wantErr: true, errMsg: "location is required"},
		{name: "missing department", mutate: func(p *api.EventPayload) { p.DepartmentID = "" }, wantErr: true, errMsg: "departmentId is required"},
		{name: "bad date", mutate: func(p *api.EventPayload) { p.DateTime = "01.05.2025 18:00" }, wantErr: true, errMsg: "RFC 3339"},
		{
			name:    "partial update with only location",
			mutate:  func(p *api.EventPayload) { *p = api.EventPayload{Location: "Hall A"} },
			partial: true,
		},
		{
			name:    "partial update still checks date",
			mutate:  func(p *api.EventPayload) { *p = api.EventPayload{DateTime: "tomorrow"} },
			partial: true,
			wantErr: true,
			errMsg:  "RFC 3339",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validEvent()
			tt.mutate(&p)

			err := ValidateEvent(p, tt.partial)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidPayload)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateDepartment(t *testing.T) {
	valid := api.DepartmentPayload{Name: "Infotech", CoordinatorID: "u1", Type: api.DepartmentProjects}
	require.NoError(t, ValidateDepartment(valid, false))

	missingName := valid
	missingName.Name = ""
	assert.ErrorContains(t, ValidateDepartment(missingName, false), "name is required")

	missingCoordinator := valid
	missingCoordinator.CoordinatorID = ""
	assert.ErrorContains(t, ValidateDepartment(missingCoordinator, false), "coordinatorId is required")

	missingType := valid
	missingType.Type = ""
	assert.ErrorContains(t, ValidateDepartment(missingType, false), "type is required")

	badType := valid
	badType.Type = "Committees"
	assert.ErrorContains(t, ValidateDepartment(badType, false), "unknown department type")

	require.NoError(t, ValidateDepartment(api.DepartmentPayload{Description: "new text"}, true))
	assert.Error(t, ValidateDepartment(api.DepartmentPayload{Type: "Other"}, true))
}

func TestValidateBoardMember(t *testing.T) {
	require.NoError(t, ValidateBoardMember(api.BoardMemberPayload{UserID: "u1", Position: api.PositionPRDirector}, false))

	assert.ErrorContains(t, ValidateBoardMember(api.BoardMemberPayload{Position: api.PositionPresident}, false), "userId is required")
	assert.ErrorContains(t, ValidateBoardMember(api.BoardMemberPayload{UserID: "u1"}, false), "position is required")
	assert.ErrorContains(t, ValidateBoardMember(api.BoardMemberPayload{UserID: "u1", Position: "Treasurer"}, false), "unknown board position")

	for _, pos := range api.BoardPositions {
		assert.NoError(t, ValidateBoardMember(api.BoardMemberPayload{Position: pos}, true), pos)
	}
}

func TestValidateUserUpdate(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	status := func(s api.VolunteerStatus) *api.VolunteerStatus { return &s }
	year := func(y int) *int { return &y }
	str := func(s string) *string { return &s }

	tests := []struct {
		name    string
		payload api.UserUpdatePayload
		errMsg  string
	}{
		{name: "empty update", payload: api.UserUpdatePayload{}},
		{name: "valid status", payload: api.UserUpdatePayload{Status: status(api.StatusActiveMember)}},
		{name: "unknown status", payload: api.UserUpdatePayload{Status: status("Alumni")}, errMsg: "unknown volunteer status"},
		{name: "plausible year", payload: api.UserUpdatePayload{YearOfBirth: year(2001)}},
		{name: "future year", payload: api.UserUpdatePayload{YearOfBirth: year(6969)}, errMsg: "yearOfBirth must be between"},
		{name: "ancient year", payload: api.UserUpdatePayload{YearOfBirth: year(1850)}, errMsg: "yearOfBirth must be between"},
		{name: "blank first name", payload: api.UserUpdatePayload{FirstName: str(" ")}, errMsg: "firstName cannot be blank"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUserUpdate(tt.payload, now)
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPayload)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
