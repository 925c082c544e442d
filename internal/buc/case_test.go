package buc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "casebridge/pkg/domain-errors"
)

func TestRawDateUnmarshal(t *testing.T) {
	var payload struct {
		Number RawDate `json:"number"`
		Float  RawDate `json:"float"`
		Text   RawDate `json:"text"`
		Null   RawDate `json:"null"`
		Blank  RawDate `json:"blank"`
		Absent RawDate `json:"absent"`
	}
	err := json.Unmarshal([]byte(`{
		"number": 1567154257318,
		"float": 1.567154257318E12,
		"text": "2019-08-30T10:37:37.318",
		"null": null,
		"blank": "  "
	}`), &payload)
	require.NoError(t, err)

	ms, ok := payload.Number.Millis()
	assert.True(t, ok)
	assert.Equal(t, int64(1567154257318), ms)

	ms, ok = payload.Float.Millis()
	assert.True(t, ok)
	assert.Equal(t, int64(1567154257318), ms)

	text, ok := payload.Text.Text()
	assert.True(t, ok)
	assert.Equal(t, "2019-08-30T10:37:37.318", text)

	assert.True(t, payload.Null.IsAbsent())
	assert.True(t, payload.Blank.IsAbsent())
	assert.True(t, payload.Absent.IsAbsent())
}

func TestRawDateRejectsObjects(t *testing.T) {
	var d RawDate
	err := json.Unmarshal([]byte(`{"epoch": 1}`), &d)
	require.Error(t, err)
}

func TestRawDateRejectsOutOfRangeNumbers(t *testing.T) {
	for _, raw := range []string{`1e300`, `-1e300`, `9.3e18`} {
		var d RawDate
		err := json.Unmarshal([]byte(raw), &d)
		require.Error(t, err, raw)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), raw)
		assert.True(t, d.IsAbsent(), raw)
	}

	var d RawDate
	require.NoError(t, json.Unmarshal([]byte(`1.5673e12`), &d))
	ms, ok := d.Millis()
	assert.True(t, ok)
	assert.Equal(t, int64(1567300000000), ms)
}

func TestParseInstitutionID(t *testing.T) {
	inst, err := ParseInstitutionID(" se:SE2 ")
	require.NoError(t, err)
	assert.Equal(t, Institution{Country: "SE", ID: "SE:SE2"}, inst)

	for _, raw := range []string{"", "SE2", "SWE:SE2", "SE:"} {
		_, err := ParseInstitutionID(raw)
		require.Error(t, err, raw)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	}
}

func TestInstitutionEqualityIgnoresDescriptiveFields(t *testing.T) {
	a := Institution{Country: "no", ID: "NO:NAVAT07", Name: "NAV ACCEPTANCE TEST 07"}
	b := Institution{Country: "NO", ID: "NO:NAVAT07"}
	assert.True(t, a.SameAs(b))
	assert.True(t, a.IsLocal())
	assert.False(t, a.SameAs(Institution{Country: "NO", ID: "NO:NAVAT05"}))
}

func TestCaseOwnerFallsBackToCreator(t *testing.T) {
	creator := Institution{Country: "DK", ID: "DK:D005"}
	c := Case{Creator: &Creator{Institution: creator}}

	_, ok := c.CaseOwner()
	assert.False(t, ok)

	owner, ok := c.Owner()
	require.True(t, ok)
	assert.Equal(t, creator, owner)

	explicit := Institution{Country: "NO", ID: "NO:NAVAT07"}
	c.Participants = []Participant{
		{Role: RoleCounterParty, Institution: creator},
		{Role: RoleCaseOwner, Institution: explicit},
	}
	owner, ok = c.Owner()
	require.True(t, ok)
	assert.Equal(t, explicit, owner)
}

func TestParseEnums(t *testing.T) {
	status, err := ParseDocumentStatus("SENT")
	require.NoError(t, err)
	assert.Equal(t, StatusSent, status)
	_, err = ParseDocumentStatus("archived")
	assert.Error(t, err)

	role, err := ParseParticipantRole("caseowner")
	require.NoError(t, err)
	assert.Equal(t, RoleCaseOwner, role)

	action, err := ParseActionName("create")
	require.NoError(t, err)
	assert.Equal(t, ActionCreate, action)

	typ, err := ParseDocumentType("p2000")
	require.NoError(t, err)
	assert.Equal(t, P2000, typ)
	_, err = ParseDocumentType("P9999")
	assert.Error(t, err)

	assert.False(t, StatusEmpty.IsLive())
	assert.False(t, StatusCancelled.IsLive())
	assert.True(t, StatusReceived.IsLive())
	assert.True(t, StatusNew.IsOpenDraft())
	assert.False(t, StatusSent.IsOpenDraft())
}
