package docmorph

import "testing"

func TestFlattenInlines(t *testing.T) {
	tests := []struct {
		name    string
		inlines []Inline
		want    string
	}{
		{
			name:    "plain text",
			inlines: []Inline{Text{Value: "hello"}},
			want:    "hello",
		},
		{
			name: "emphasis dissolves",
			inlines: []Inline{
				Text{Value: "a "},
				Emphasis{Strong: true, Children: []Inline{Text{Value: "b"}}},
				Text{Value: " c"},
			},
			want: "a b c",
		},
		{
			name:    "code keeps literal text",
			inlines: []Inline{Code{Value: "x := 1"}},
			want:    "x := 1",
		},
		{
			name:    "link keeps display text",
			inlines: []Inline{Link{Text: []Inline{Text{Value: "here"}}}},
			want:    "here",
		},
		{
			name:    "line break becomes space",
			inlines: []Inline{Text{Value: "a"}, LineBreak{}, Text{Value: "b"}},
			want:    "a b",
		},
		{
			name: "nested emphasis",
			inlines: []Inline{
				Emphasis{Strong: true, Children: []Inline{
					Emphasis{Italic: true, Children: []Inline{Text{Value: "deep"}}},
				}},
			},
			want: "deep",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flattenInlines(tt.inlines); got != tt.want {
				t.Errorf("flattenInlines() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPadTableRows(t *testing.T) {
	rows, columns := padTableRows([][]string{
		{"a", "b", "c"},
		{"1"},
		{"x", "y"},
	})
	if columns != 3 {
		t.Fatalf("columns = %d, want 3", columns)
	}
	for i, row := range rows {
		if len(row) != columns {
			t.Errorf("row %d has %d cells, want %d", i, len(row), columns)
		}
	}
	if rows[1][0] != "1" || rows[1][1] != "" || rows[1][2] != "" {
		t.Errorf("short row not right-padded: %#v", rows[1])
	}
}

func TestPadTableRowsEmpty(t *testing.T) {
	rows, columns := padTableRows(nil)
	if len(rows) != 0 || columns != 0 {
		t.Errorf("padTableRows(nil) = %#v, %d", rows, columns)
	}
}
