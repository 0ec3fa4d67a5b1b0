package cli

const statusTemplate = `
=== Session Status ===

State: {{.State}}
{{- with .Principal }}
User:  {{.DisplayName}} ({{.ID}})
{{- end }}
{{- if .HasToken }}
Token expires:  {{.ExpiresAt}}
{{- if .Expired }}
⚠️  Access token has expired. It will be refreshed on the next request.
{{- else }}
Time remaining: {{.Remaining}}
{{- end }}
{{- end }}
`

const userTemplate = `
=== Member ===

Name:     {{.DisplayName}}
ID:       {{.ID}}
Status:   {{.Status}}
{{- if .UserName }}
Username: {{.UserName}}
{{- end }}
{{- if .Email }}
Email:    {{.Email}}
{{- end }}
{{- if .YearOfBirth }}
Born:     {{.YearOfBirth}}
{{- end }}
{{- if .IsAdmin }}
Role:     admin
{{- end }}
`

const usersListTemplate = `
=== Members ===

{{- if eq (len .) 0 }}
No members found.
{{ else }}
Found {{len .}} member(s):

{{- range . }}
- {{ .DisplayName }}
   ID:     {{ .ID }}
   Status: {{ .Status }}
{{- end }}
{{ end }}`

const eventTemplate = `
=== Event ===

Title:      {{.Title}}
ID:         {{.ID}}
When:       {{.DateTime}}
Location:   {{.Location}}
Department: {{with .Department}}{{.Name}}{{else}}{{.DepartmentID}}{{end}}
Signups:    {{.SignupsCount}}
{{- if .Description }}

{{.Description}}
{{- end }}
`

const eventsListTemplate = `
=== Events ===

{{- if eq (len .) 0 }}
No events found.
{{ else }}
Found {{len .}} event(s):

{{- range . }}
- {{ .Title }}
   ID:       {{ .ID }}
   When:     {{ .DateTime }}
   Location: {{ .Location }}
   Signups:  {{ .SignupsCount }}
{{- end }}
{{ end }}`

const signupsListTemplate = `
=== Signups ===

{{- if eq (len .) 0 }}
Nobody has signed up yet.
{{ else }}
{{- range . }}
- {{ with .User }}{{ .DisplayName }}{{ else }}{{ .UserID }}{{ end }} ({{ .SignupDate }})
{{- end }}
{{ end }}`

const departmentTemplate = `
=== Department ===

Name:        {{.Name}}
ID:          {{.ID}}
Type:        {{.Type}}
Coordinator: {{with .Coordinator}}{{.DisplayName}}{{else}}{{.CoordinatorID}}{{end}}
Events:      {{.EventsCount}}
{{- if .Description }}

{{.Description}}
{{- end }}
`

const departmentsListTemplate = `
=== Departments ===

{{- if eq (len .) 0 }}
No departments found.
{{ else }}
Found {{len .}} department(s):

{{- range . }}
- {{ .Name }} [{{ .Type }}]
   ID: {{ .ID }}
{{- end }}
{{ end }}`

const boardMemberTemplate = `
=== Board Member ===

Position: {{.Position}}
ID:       {{.ID}}
Member:   {{with .User}}{{.DisplayName}}{{else}}{{.UserID}}{{end}}
Assigned: {{.AssignedDate}}
`

const boardListTemplate = `
=== Board ===

{{- if eq (len .) 0 }}
The board is empty.
{{ else }}
{{- range . }}
- {{ .Position }}: {{ with .User }}{{ .DisplayName }}{{ else }}{{ .UserID }}{{ end }}
   ID: {{ .ID }}
{{- end }}
{{ end }}`

const dashboardTemplate = `
=== Dashboard ===
{{- with .Principal }}

Hello, {{ .DisplayName }}!
{{- end }}

Upcoming events ({{ len .Events }}):
{{- range .Events }}
- {{ .DateTime }}  {{ .Title }} @ {{ .Location }}
{{- else }}
  nothing scheduled
{{- end }}

Departments ({{ len .Departments }}):
{{- range .Departments }}
- {{ .Name }} [{{ .Type }}]
{{- end }}

Board ({{ len .Board }}):
{{- range .Board }}
- {{ .Position }}: {{ with .User }}{{ .DisplayName }}{{ else }}{{ .UserID }}{{ end }}
{{- end }}
`
