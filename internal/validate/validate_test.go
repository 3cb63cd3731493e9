package validate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davejoelwilson/connectwise-project-reports/internal/entities"
)

func raws(t *testing.T, docs ...string) []json.RawMessage {
	t.Helper()
	out := make([]json.RawMessage, 0, len(docs))
	for _, d := range docs {
		require.True(t, json.Valid([]byte(d)), "test fixture must be valid JSON: %s", d)
		out = append(out, json.RawMessage(d))
	}
	return out
}

func TestProjectsDropsHardConstraintViolations(t *testing.T) {
	projects, warnings := Projects(raws(t,
		`{"id":1,"name":"Alpha","status":{"name":"In Progress"},"actualHours":12.5}`,
		`{"name":"NoID","actualHours":1}`,
		`{"id":3,"name":"NegativeHours","actualHours":-4}`,
		`{"id":4,"name":"BadDates","scheduledStart":"2025-06-10T00:00:00Z","scheduledFinish":"2025-06-01T00:00:00Z"}`,
	))

	require.Len(t, projects, 1)
	require.Equal(t, 1, projects[0].ID)
	require.Equal(t, entities.StatusInProgress, projects[0].Status)
	require.Len(t, warnings, 3)
}

func TestProjectsUnknownStatusMapsToOther(t *testing.T) {
	projects, warnings := Projects(raws(t,
		`{"id":7,"name":"Weird","status":{"name":"On Hold By Customer"}}`,
		`{"id":8,"name":"NoStatus"}`,
	))

	require.Empty(t, warnings)
	require.Equal(t, entities.StatusOther, projects[0].Status)
	require.Equal(t, entities.StatusOther, projects[1].Status)
}

func TestTicketsRequireProjectReference(t *testing.T) {
	tickets, warnings := Tickets(raws(t,
		`{"id":100,"summary":"ok","status":{"name":"New"},"project":{"id":1},"assignedTo":{"identifier":"jsmith"},"actualHours":0}`,
		`{"id":101,"summary":"no project","status":{"name":"New"}}`,
		`{"id":102,"summary":"negative","project":{"id":1},"actualHours":-1}`,
	))

	require.Len(t, tickets, 1)
	require.Equal(t, 100, tickets[0].ID)
	require.Equal(t, 1, tickets[0].ProjectID)
	require.Equal(t, "jsmith", tickets[0].AssignedTo)
	require.Len(t, warnings, 2)
}

func TestTimeEntriesDateOrderingEnforced(t *testing.T) {
	entries, warnings := TimeEntries(raws(t,
		`{"id":200,"timeStart":"2025-06-01T09:00:00Z","timeEnd":"2025-06-01T11:00:00Z","hoursWorked":2,"chargeToId":100,"chargeToType":"ProjectTicket","member":{"identifier":"jsmith"}}`,
		`{"id":201,"timeStart":"2025-06-01T11:00:00Z","timeEnd":"2025-06-01T09:00:00Z","hoursWorked":2,"chargeToId":100,"chargeToType":"ProjectTicket"}`,
		`{"id":202,"hoursWorked":1,"chargeToId":100,"chargeToType":"ProjectTicket"}`,
	))

	require.Len(t, entries, 1)
	require.Equal(t, 200, entries[0].ID)
	require.Equal(t, entities.ChargeProjectTicket, entries[0].ChargeToType)
	require.Equal(t, "jsmith", entries[0].MemberID)
	require.Len(t, warnings, 2)
}

func TestTimeEntriesUnknownChargeTypeMapsToOther(t *testing.T) {
	entries, warnings := TimeEntries(raws(t,
		`{"id":203,"timeStart":"2025-06-01T09:00:00Z","hoursWorked":1,"chargeToId":5,"chargeToType":"SalesOpportunity"}`,
	))

	require.Empty(t, warnings)
	require.Equal(t, entities.ChargeOther, entries[0].ChargeToType)
}

func TestNotesParentTypeRequired(t *testing.T) {
	notes, warnings := Notes(raws(t,
		`{"id":300,"text":"kickoff","parentId":1,"parentType":"Project","createdBy":"jsmith","dateCreated":"2025-06-01T00:00:00Z"}`,
		`{"id":301,"text":"ticket note","parentId":100,"parentType":"Ticket"}`,
		`{"id":302,"text":"mystery","parentId":1,"parentType":"Opportunity"}`,
		`{"id":303,"text":"orphan"}`,
	))

	require.Len(t, notes, 2)
	require.Equal(t, entities.ParentProject, notes[0].ParentType)
	require.Equal(t, entities.ParentTicket, notes[1].ParentType)
	require.Len(t, warnings, 2)
}

func TestMembersBuildDisplayName(t *testing.T) {
	members, warnings := Members(raws(t,
		`{"id":1,"identifier":"jsmith","firstName":"Jane","lastName":"Smith"}`,
		`{"id":2,"identifier":"solo","firstName":"Solo"}`,
		`{"id":3,"firstName":"NoIdentifier"}`,
	))

	require.Len(t, members, 2)
	require.Equal(t, "Jane Smith", members[0].DisplayName)
	require.Equal(t, "Solo", members[1].DisplayName)
	require.Len(t, warnings, 1)
}
