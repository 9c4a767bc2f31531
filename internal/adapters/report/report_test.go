package report

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokentrace/internal/adapters/document"
	"tokentrace/internal/domain"
)

func fixture() (*document.Document, []domain.SearchResult) {
	primary := domain.Variable{
		ID: "V", Name: "color/primary", ResolvedType: domain.ResolvedTypeColor, CollectionID: "c1",
		ValuesByMode: map[string]domain.VariableValue{"m1": domain.ColorValue(domain.RGBA{R: 1, A: 1})},
	}
	broken := domain.Variable{
		ID: "B", Name: "color/broken", ResolvedType: domain.ResolvedTypeColor, CollectionID: "c1",
		ValuesByMode: map[string]domain.VariableValue{"m1": domain.AliasValue("gone")},
	}
	doc := document.New(document.Contents{
		Collections: []domain.VariableCollection{{ID: "c1", DefaultModeID: "m1", Modes: []domain.Mode{{ModeID: "m1", Name: "Light"}}}},
		Variables:   []domain.Variable{primary, broken},
	})

	button := &domain.InstanceNode{NodeHeader: domain.NodeHeader{ID: "1:2", Name: "Button/Primary", Kind: domain.KindInstance}}
	results := []domain.SearchResult{
		{
			Variable: &primary,
			BoundNodes: []domain.BoundNodeInfo{{
				Node:            button,
				BoundProperties: []string{"fills[0].color", "strokes[0].color"},
				PropertyPath:    "Card > Button/Primary",
				PageName:        "Components",
			}},
			Summary: domain.Summary{
				TotalNodes:    1,
				NodesByType:   map[domain.NodeKind]int{domain.KindInstance: 1},
				PropertyUsage: map[string]int{"fills": 1, "strokes": 1},
			},
			InstancesOnly: true,
		},
		{Variable: &broken, InstancesOnly: true},
	}
	return doc, results
}

func TestRender_Plain(t *testing.T) {
	doc, results := fixture()
	var buf bytes.Buffer

	err := New(&buf, doc, zerolog.Nop(), Plain()).Render(context.Background(), results)

	require.NoError(t, err)
	want := "color/primary (#FF0000)\n" +
		"  1 instance\n" +
		"  fills 1 · strokes 1\n" +
		"  - [Components] Card > Button/Primary (INSTANCE 1:2): fills[0].color, strokes[0].color\n" +
		"\n" +
		"color/broken (Unresolved)\n" +
		"  0 instances\n" +
		"\n"
	assert.Equal(t, want, buf.String())
}

func TestRender_Cards(t *testing.T) {
	doc, results := fixture()
	var buf bytes.Buffer

	err := New(&buf, doc, zerolog.Nop(), WithWidth(60)).Render(context.Background(), results)

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "color/primary")
	assert.Contains(t, out, "#FF0000")
	assert.Contains(t, out, "Button/Primary")
	assert.Contains(t, out, "[Unresolved]")
	assert.Contains(t, out, "╭")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRender_WriteError(t *testing.T) {
	doc, results := fixture()

	err := New(failingWriter{}, doc, zerolog.Nop(), Plain()).Render(context.Background(), results)

	assert.ErrorContains(t, err, "disk full")
}

func TestUsageLine(t *testing.T) {
	s := domain.Summary{PropertyUsage: map[string]int{"strokes": 1, "fills": 3, "effects": 1}}

	assert.Equal(t, "fills 3 · effects 1 · strokes 1", usageLine(s))
	assert.Empty(t, usageLine(domain.Summary{}))
}

func TestHeadline(t *testing.T) {
	assert.Equal(t, "2 nodes", headline(domain.SearchResult{Summary: domain.Summary{TotalNodes: 2}}))
	assert.Equal(t, "1 node", headline(domain.SearchResult{Summary: domain.Summary{TotalNodes: 1}}))
}
