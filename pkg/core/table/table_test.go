package table

import (
	"reflect"
	"testing"
)

func providerBalanceSheet() *Table {
	return New(
		[]string{"fiscalDateEnding", "reportedCurrency", "totalAssets", "totalLiabilities"},
		[][]string{
			{"2023-12-31", "USD", "135241000000", "113005000000"},
			{"2022-12-31", "USD", "127243000000", "105222000000"},
		},
	)
}

func TestTranspose(t *testing.T) {
	tr := providerBalanceSheet().Transpose("field")

	wantCols := []string{"field", "0", "1"}
	if !reflect.DeepEqual(tr.Columns, wantCols) {
		t.Fatalf("expected columns %v, got %v", wantCols, tr.Columns)
	}
	if tr.Len() != 4 {
		t.Fatalf("expected 4 rows, got %d", tr.Len())
	}
	want := []string{"totalAssets", "135241000000", "127243000000"}
	if !reflect.DeepEqual(tr.Rows[2], want) {
		t.Errorf("expected row %v, got %v", want, tr.Rows[2])
	}
}

func TestReshapeStatement(t *testing.T) {
	provider := providerBalanceSheet()
	got := ReshapeStatement(provider)

	wantCols := []string{"fiscalDateEnding", "2023-12-31", "2022-12-31"}
	if !reflect.DeepEqual(got.Columns, wantCols) {
		t.Errorf("expected columns %v, got %v", wantCols, got.Columns)
	}
	// one transposed row per provider field, minus the two metadata rows
	if got.Len() != len(provider.Columns)-2 {
		t.Errorf("expected %d rows, got %d", len(provider.Columns)-2, got.Len())
	}
	if got.Rows[0][0] != "totalAssets" {
		t.Errorf("expected first data row totalAssets, got %s", got.Rows[0][0])
	}
}

func TestReshapeTransposed_RowCountProperty(t *testing.T) {
	tests := []struct {
		name     string
		rows     int
		wantRows int
	}{
		{"many rows", 7, 5},
		{"exactly two", 2, 0},
		{"header only", 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &Table{Columns: []string{"a", "b"}}
			in.AppendRow([]string{"h1", "h2"})
			for i := 1; i < tt.rows; i++ {
				in.AppendRow([]string{"x", "y"})
			}
			out := ReshapeTransposed(in)
			if !reflect.DeepEqual(out.Columns, []string{"h1", "h2"}) {
				t.Errorf("expected columns from row 0, got %v", out.Columns)
			}
			if out.Len() != tt.wantRows {
				t.Errorf("expected %d rows, got %d", tt.wantRows, out.Len())
			}
		})
	}
}

func TestReshapeStatement_Empty(t *testing.T) {
	if got := ReshapeStatement(nil); !got.Empty() {
		t.Errorf("expected empty table for nil input, got %d rows", got.Len())
	}
	if got := ReshapeTransposed(&Table{Columns: []string{"a"}}); !got.Empty() {
		t.Errorf("expected empty table for no rows, got %d rows", got.Len())
	}
}

func TestPromoteHeaderAndColumn(t *testing.T) {
	in := New([]string{"0", "1"}, [][]string{{"name", "value"}, {"cash", "10"}, {"debt"}})
	out, err := in.PromoteHeader()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vals, err := out.Column("value")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(vals, []string{"10", ""}) {
		t.Errorf("expected padded column [10 \"\"], got %v", vals)
	}
	if _, err := out.Column("missing"); err == nil {
		t.Error("expected error for unknown column")
	}
	if _, err := (&Table{}).PromoteHeader(); err == nil {
		t.Error("expected error promoting empty table")
	}
}
