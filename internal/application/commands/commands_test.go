package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokentrace/internal/adapters/document"
	"tokentrace/internal/application"
	"tokentrace/internal/application/search"
	"tokentrace/internal/domain"
)

var red = domain.RGBA{R: 1, A: 1}

func testDocument() *document.Document {
	return document.New(document.Contents{
		Collections: []domain.VariableCollection{
			{
				ID:            "c1",
				Name:          "Brand",
				DefaultModeID: "m2",
				Modes:         []domain.Mode{{ModeID: "m1", Name: "Light"}, {ModeID: "m2", Name: "Dark"}},
			},
			{ID: "lib", Name: "Library", DefaultModeID: "l1", Modes: []domain.Mode{{ModeID: "l1", Name: "Default"}}, Remote: true},
		},
		Variables: []domain.Variable{
			{
				ID: "V", Key: "K1", Name: "color/primary", ResolvedType: domain.ResolvedTypeColor, CollectionID: "c1",
				ValuesByMode: map[string]domain.VariableValue{"m2": domain.ColorValue(red)},
			},
			{
				ID: "A", Key: "K3", Name: "color/alias", ResolvedType: domain.ResolvedTypeColor, CollectionID: "c1",
				ValuesByMode: map[string]domain.VariableValue{
					"m1": domain.AliasValue("V"),
					"m2": domain.AliasValue("gone"),
				},
			},
			{ID: "S", Key: "K4", Name: "spacing/md", ResolvedType: domain.ResolvedTypeFloat, CollectionID: "c1"},
			{
				ID: "L", Key: "K1", Name: "color/primary", ResolvedType: domain.ResolvedTypeColor, CollectionID: "lib", Remote: true,
				ValuesByMode: map[string]domain.VariableValue{"l1": domain.ColorValue(red)},
			},
		},
		Pages: []*domain.Page{
			{ID: "p1", Name: "Cover"},
			{ID: "p2", Name: "Components", Nodes: []domain.SceneNode{
				&domain.InstanceNode{
					NodeHeader: domain.NodeHeader{ID: "1", Name: "Button/Primary", Kind: domain.KindInstance},
					Styles: domain.Styles{Fills: []domain.Paint{{
						Type:           domain.PaintSolid,
						BoundVariables: map[string]domain.VariableAlias{"color": {ID: "L"}},
					}}},
				},
			}},
		},
		CurrentPageID: "p2",
	})
}

func TestListCollectionsCommand(t *testing.T) {
	cols, err := NewListCollectionsCommand(testDocument()).Execute(context.Background())

	require.NoError(t, err)
	require.Len(t, cols, 1, "library collections are not listed")
	assert.Equal(t, "Brand", cols[0].Name)
}

func TestListPagesCommand(t *testing.T) {
	res, err := NewListPagesCommand(testDocument()).Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.PageInfo{{ID: "p1", Name: "Cover"}, {ID: "p2", Name: "Components"}}, res.Pages)
	assert.Equal(t, "p2", res.CurrentPageID)
}

func TestListColorVariablesCommand(t *testing.T) {
	vars, err := NewListColorVariablesCommand(testDocument(), zerolog.Nop(), "").Execute(context.Background())

	require.NoError(t, err)
	require.Len(t, vars, 2, "only local color variables are listed")

	primary := vars[0]
	assert.Equal(t, "V", primary.ID)
	assert.True(t, primary.Local)
	assert.Equal(t, "m2", primary.DefaultModeID)
	assert.Len(t, primary.Modes, 2)
	assert.Equal(t, domain.ColorResult(red), primary.Values["m1"], "m1 falls back to the default mode")
	assert.Equal(t, domain.ColorResult(red), primary.Values["m2"])

	aliased := vars[1]
	assert.Equal(t, domain.ColorResult(red), aliased.Values["m1"])
	assert.Equal(t, domain.TextResult(domain.Unresolved), aliased.Values["m2"])
}

func TestListColorVariablesCommand_UnknownCollection(t *testing.T) {
	_, err := NewListColorVariablesCommand(testDocument(), zerolog.Nop(), "nope").Execute(context.Background())

	assert.ErrorIs(t, err, application.ErrNotFound)
}

func TestFindBoundNodesCommand(t *testing.T) {
	doc := testDocument()
	svc := search.NewService(doc, zerolog.Nop())

	cmd := NewFindBoundNodesCommand(svc, nil, []string{"V"}, "", false)
	require.NoError(t, cmd.Validate())

	results, err := cmd.Execute(context.Background())

	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].BoundNodes, 1, "the library copy shares the key")
	assert.Equal(t, "Button/Primary", results[0].BoundNodes[0].PropertyPath)
	assert.Equal(t, []string{"fills[0].color"}, results[0].BoundNodes[0].BoundProperties)
}

func TestFindBoundNodesCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		wantErr bool
	}{
		{name: "one id", ids: []string{"V"}},
		{name: "no ids", ids: nil, wantErr: true},
		{name: "blank id", ids: []string{"V", " "}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewFindBoundNodesCommand(nil, nil, tt.ids, "", false).Validate()
			if tt.wantErr {
				var vErr *application.ValidationError
				assert.True(t, errors.As(err, &vErr))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCancelSearchCommand_Idle(t *testing.T) {
	svc := search.NewService(testDocument(), zerolog.Nop())

	running, err := NewCancelSearchCommand(svc).Execute(context.Background())

	require.NoError(t, err)
	assert.False(t, running)
}

func TestResolveVariableRefsCommand(t *testing.T) {
	tests := []struct {
		name    string
		refs    []string
		want    []string
		wantErr error
	}{
		{name: "ids pass through", refs: []string{"V", "L"}, want: []string{"V", "L"}},
		{name: "names resolve to local ids", refs: []string{"color/primary", "color/alias"}, want: []string{"V", "A"}},
		{name: "mixed", refs: []string{" A ", "color/primary"}, want: []string{"A", "V"}},
		{name: "unknown name", refs: []string{"color/missing"}, wantErr: application.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := NewResolveVariableRefsCommand(testDocument(), tt.refs).Execute(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids)
		})
	}
}

type stubHistory struct {
	limit int
	runs  []domain.SearchRun
}

func (h *stubHistory) Record(context.Context, domain.SearchRun) error { return nil }

func (h *stubHistory) Recent(_ context.Context, limit int) ([]domain.SearchRun, error) {
	h.limit = limit
	return h.runs, nil
}

func (h *stubHistory) Close() error { return nil }

func TestListHistoryCommand(t *testing.T) {
	h := &stubHistory{runs: []domain.SearchRun{{ID: "run-1"}}}

	runs, err := NewListHistoryCommand(h, 0).Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, DefaultHistoryLimit, h.limit)
	assert.Len(t, runs, 1)
}
