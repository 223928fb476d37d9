package export

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"toca/internal/store/memory"
)

func TestWriteLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.xlsx")
	st := memory.NewSeeded(time.Date(2024, 7, 2, 12, 0, 0, 0, time.UTC))

	if err := WriteLedger(context.Background(), st, path); err != nil {
		t.Fatalf("WriteLedger: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{"Pagamentos", "Despesas", "Receitas"} {
		if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
			t.Fatalf("missing sheet %s (idx %d, err %v)", sheet, idx, err)
		}
	}

	rows, err := f.GetRows("Pagamentos")
	if err != nil {
		t.Fatalf("read Pagamentos: %v", err)
	}
	// Header plus the six seeded payments.
	if len(rows) != 7 {
		t.Fatalf("Pagamentos rows = %d, want 7", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][2] != "Valor" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][0] != "p1" || rows[1][2] != "R$ 300,00" {
		t.Fatalf("first payment row = %v", rows[1])
	}

	rows, err = f.GetRows("Receitas")
	if err != nil {
		t.Fatalf("read Receitas: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Receitas rows = %d, want 3", len(rows))
	}
}

func TestColName(t *testing.T) {
	cases := map[int]string{1: "A", 2: "B", 26: "Z", 27: "AA", 52: "AZ"}
	for n, want := range cases {
		if got := colName(n); got != want {
			t.Errorf("colName(%d) = %q, want %q", n, got, want)
		}
	}
}
