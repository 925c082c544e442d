package eligibility

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casebridge/internal/buc"
	"casebridge/internal/buc/metrics"
	dErrors "casebridge/pkg/domain-errors"
)

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	c, err := LoadCatalogue()
	require.NoError(t, err)
	return NewEngine(c, opts...)
}

func doc(id string, typ buc.DocumentType, status buc.DocumentStatus) buc.Document {
	return buc.Document{ID: id, Type: typ, Status: status}
}

func TestEligible_SingleInstance(t *testing.T) {
	e := newEngine(t)

	t.Run("empty case allows every catalogued type", func(t *testing.T) {
		got := e.Eligible(buc.Case{ID: "1", ProcessDefinitionName: "P_BUC_01"})
		assert.Equal(t, []buc.DocumentType{buc.P2000}, got)
	})

	t.Run("live document removes its type", func(t *testing.T) {
		for _, status := range []buc.DocumentStatus{buc.StatusDraft, buc.StatusNew, buc.StatusActive, buc.StatusReceived, buc.StatusSent} {
			c := buc.Case{ID: "1", ProcessDefinitionName: "P_BUC_01", Documents: []buc.Document{doc("d", buc.P2000, status)}}
			assert.Empty(t, e.Eligible(c), "status %s", status)
		}
	})

	t.Run("empty and cancelled documents do not count", func(t *testing.T) {
		c := buc.Case{ID: "1", ProcessDefinitionName: "P_BUC_01", Documents: []buc.Document{
			doc("a", buc.P2000, buc.StatusEmpty),
			doc("b", buc.P2000, buc.StatusCancelled),
		}}
		assert.Equal(t, []buc.DocumentType{buc.P2000}, e.Eligible(c))
	})

	t.Run("documents of an unknown type are ignored", func(t *testing.T) {
		c := buc.Case{ID: "1", ProcessDefinitionName: "P_BUC_01", Documents: []buc.Document{
			doc("u", buc.DocumentType("P99999"), buc.StatusSent),
		}}
		assert.Equal(t, []buc.DocumentType{buc.P2000}, e.Eligible(c))
	})

	t.Run("unknown case type allows nothing", func(t *testing.T) {
		got := e.Eligible(buc.Case{ID: "1", ProcessDefinitionName: "R_BUC_02"})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

// Adding one live single-instance document shrinks the eligible set by
// exactly that type; adding an empty or cancelled one leaves it unchanged.
func TestEligible_MonotonicShrink(t *testing.T) {
	c, err := ParseCatalogue([]byte(`
mediatingDocumentType: X005
caseTypes:
  - name: P_BUC_06
    documents: [P5000, P6000, P7000, P10000]
`))
	require.NoError(t, err)
	e := NewEngine(c)

	base := buc.Case{ID: "1", ProcessDefinitionName: "P_BUC_06"}
	all := e.Eligible(base)
	require.Len(t, all, 4)

	for _, typ := range all {
		withLive := base
		withLive.Documents = []buc.Document{doc("d", typ, buc.StatusSent)}
		got := e.Eligible(withLive)
		assert.Len(t, got, 3)
		assert.NotContains(t, got, typ)

		for _, status := range []buc.DocumentStatus{buc.StatusEmpty, buc.StatusCancelled} {
			withDead := base
			withDead.Documents = []buc.Document{doc("d", typ, status)}
			assert.Equal(t, all, e.Eligible(withDead))
		}
	}
}

func TestEligible_MultiRound(t *testing.T) {
	e := newEngine(t)

	t.Run("sent type closes but its competitor stays open", func(t *testing.T) {
		c := buc.Case{ID: "5", ProcessDefinitionName: "P_BUC_05", Documents: []buc.Document{
			doc("a", buc.P8000, buc.StatusSent),
		}}
		assert.Equal(t, []buc.DocumentType{buc.P9000}, e.Eligible(c))
	})

	t.Run("received instance does not close the type", func(t *testing.T) {
		c := buc.Case{ID: "5", ProcessDefinitionName: "P_BUC_05", Documents: []buc.Document{
			doc("a", buc.P8000, buc.StatusReceived),
		}}
		assert.Equal(t, []buc.DocumentType{buc.P8000, buc.P9000}, e.Eligible(c))
	})

	t.Run("open draft blocks the whole round", func(t *testing.T) {
		c := buc.Case{ID: "5", ProcessDefinitionName: "P_BUC_05", Documents: []buc.Document{
			doc("a", buc.P9000, buc.StatusDraft),
		}}
		assert.Empty(t, e.Eligible(c))
	})

	t.Run("results are sorted by name", func(t *testing.T) {
		got := e.Eligible(buc.Case{ID: "6", ProcessDefinitionName: "P_BUC_06"})
		assert.Equal(t, []buc.DocumentType{buc.P10000, buc.P5000, buc.P6000, buc.P7000}, got)
	})
}

func TestEligible_CreateActionsNarrow(t *testing.T) {
	e := newEngine(t)
	c := buc.Case{ID: "6", ProcessDefinitionName: "P_BUC_06", Actions: []buc.Action{
		{Name: buc.ActionCreate, DocumentType: buc.P6000},
		{Name: buc.ActionCreate, DocumentType: buc.P7000},
		{Name: buc.ActionCreate, DocumentType: buc.X005},
		{Name: buc.ActionSend, DocumentType: buc.P5000},
		{Name: buc.ActionCreate},
	}}

	assert.Equal(t, []buc.DocumentType{buc.P6000, buc.P7000}, e.Eligible(c))
}

func TestCheckCreatable(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWith(reg)
	e := newEngine(t, WithMetrics(m))

	c := buc.Case{ID: "case-6", ProcessDefinitionName: "P_BUC_06", Documents: []buc.Document{
		doc("p5000", buc.P5000, buc.StatusReceived),
		doc("p7000", buc.P7000, buc.StatusReceived),
		{ID: "p6000", Type: buc.P6000, Status: buc.StatusSent, ParentDocumentID: "p7000"},
		doc("p10000", buc.P10000, buc.StatusCancelled),
	}}

	t.Run("eligible type without parent", func(t *testing.T) {
		assert.NoError(t, e.CheckCreatable(c, buc.P5000, ""))
	})

	t.Run("ineligible type names type and case", func(t *testing.T) {
		err := e.CheckCreatable(c, buc.P6000, "")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Contains(t, dErrors.Message(err), "P6000")
		assert.Contains(t, dErrors.Message(err), "case-6")
	})

	t.Run("unanswered parent", func(t *testing.T) {
		assert.NoError(t, e.CheckCreatable(c, buc.P5000, "p5000"))
	})

	t.Run("missing parent", func(t *testing.T) {
		err := e.CheckCreatable(c, buc.P5000, "nope")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("already answered parent", func(t *testing.T) {
		err := e.CheckCreatable(c, buc.P5000, "p7000")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Contains(t, dErrors.Message(err), "already answered")
	})

	t.Run("cancelled parent", func(t *testing.T) {
		err := e.CheckCreatable(c, buc.P5000, "p10000")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	assert.Equal(t, float64(2), testutil.ToFloat64(m.CreatabilityChecks.WithLabelValues("creatable")))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.CreatabilityChecks.WithLabelValues("rejected")))
}
