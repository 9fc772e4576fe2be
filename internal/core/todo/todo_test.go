package todo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_IsDone(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusTodo, false},
		{StatusInProgress, false},
		{StatusAttentionRequired, false},
		{StatusDelegated, false},
		{StatusComplete, true},
		{StatusCanceled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsDone())
			assert.True(t, tt.status.IsValid())
		})
	}
}

func TestStatuses_MenuHasAllLabels(t *testing.T) {
	require.Len(t, Statuses, 6)

	seen := map[string]bool{}
	for _, s := range Statuses {
		assert.NotEmpty(t, s.Icon())
		seen[s.Label()] = true
	}
	assert.Len(t, seen, 6, "labels must be distinct")
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "todo", want: StatusTodo},
		{in: "In Progress", want: StatusInProgress},
		{in: "attention_required", want: StatusAttentionRequired},
		{in: " delegated ", want: StatusDelegated},
		{in: "COMPLETE", want: StatusComplete},
		{in: "cancelled", want: StatusCanceled},
		{in: "done", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsSelected(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]string
		want  bool
	}{
		{name: "absent", attrs: nil, want: false},
		{name: "empty value", attrs: map[string]string{"selected": ""}, want: false},
		{name: "false", attrs: map[string]string{"selected": "false"}, want: false},
		{name: "zero", attrs: map[string]string{"selected": "0"}, want: false},
		{name: "true", attrs: map[string]string{"selected": "true"}, want: true},
		{name: "date value", attrs: map[string]string{"selected": "2024-06-10"}, want: true},
		{name: "other attribute", attrs: map[string]string{"pinned": "true"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := Item{ID: "a", Attributes: tt.attrs}
			assert.Equal(t, tt.want, IsSelected(item, "selected"))
		})
	}
}

func TestItem_Clone(t *testing.T) {
	orig := Item{ID: "a", Attributes: map[string]string{"due": "2024-06-10"}}
	clone := orig.Clone()
	clone.Attributes["due"] = "2024-06-11"

	assert.Equal(t, "2024-06-10", orig.Attributes["due"])
	assert.True(t, orig.HasAttribute("due"))
	assert.False(t, orig.HasAttribute("started"))
}

func TestItem_SetStatus(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		from       Status
		attrs      map[string]string
		to         Status
		wantDate   string
		wantAbsent bool
	}{
		{name: "open to complete stamps", from: StatusTodo, to: StatusComplete, wantDate: "2024-06-10"},
		{name: "open to canceled stamps", from: StatusInProgress, to: StatusCanceled, wantDate: "2024-06-10"},
		{
			name:     "open to done overwrites stale date",
			from:     StatusTodo,
			attrs:    map[string]string{"completed": "2023-01-01"},
			to:       StatusComplete,
			wantDate: "2024-06-10",
		},
		{
			name:     "done to done keeps date",
			from:     StatusComplete,
			attrs:    map[string]string{"completed": "2024-05-01"},
			to:       StatusCanceled,
			wantDate: "2024-05-01",
		},
		{name: "done to done without date stamps", from: StatusComplete, to: StatusCanceled, wantDate: "2024-06-10"},
		{
			name:       "done to open clears",
			from:       StatusComplete,
			attrs:      map[string]string{"completed": "2024-05-01"},
			to:         StatusTodo,
			wantAbsent: true,
		},
		{name: "open to open leaves nothing", from: StatusTodo, to: StatusDelegated, wantAbsent: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := Item{ID: "1", Status: tt.from, Attributes: tt.attrs}
			it.SetStatus(tt.to, "completed", now)

			assert.Equal(t, tt.to, it.Status)
			v, ok := it.Attribute("completed")
			if tt.wantAbsent {
				assert.False(t, ok)
				return
			}
			assert.Equal(t, tt.wantDate, v)
		})
	}
}

func TestItem_SetStatus_NoCompletedAttribute(t *testing.T) {
	it := Item{ID: "1", Status: StatusTodo}
	it.SetStatus(StatusComplete, "", time.Now())

	assert.Equal(t, StatusComplete, it.Status)
	assert.Empty(t, it.Attributes)
}

func TestItem_SetStatus_UsesLocalDay(t *testing.T) {
	edt := time.FixedZone("EDT", -4*60*60)
	now := time.Date(2024, 6, 10, 22, 0, 0, 0, edt)

	it := Item{ID: "1", Status: StatusTodo}
	it.SetStatus(StatusComplete, "completed", now)

	v, _ := it.Attribute("completed")
	assert.Equal(t, "2024-06-10", v)
}
