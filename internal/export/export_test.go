package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"partyrecords/internal/config"
	"partyrecords/internal/ingest"
	"partyrecords/internal/record"
)

func result(minigame string, table *record.Table) *ingest.Result {
	return &ingest.Result{Minigame: minigame, Mode: config.ModePoint, Table: table}
}

func TestTabular_OrderAndNulls(t *testing.T) {
	table := record.New()
	table.AddRow("zoe", []record.Entry{{Column: "Wald", Value: 3}, {Column: "Eis", Value: 20.5}})
	table.AddRow("adam", []record.Entry{{Column: "Wald", Value: 7}})

	data, err := Tabular(result("Parkour", table))
	if err != nil {
		t.Fatalf("tabular: %v", err)
	}

	var decoded map[string]map[string]map[string]*float64
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v\n%s", err, data)
	}
	eis := decoded["Parkour"]["Eis"]
	if eis["adam"] != nil {
		t.Fatalf("expected null for adam's missing Eis, got %v", *eis["adam"])
	}
	if eis["zoe"] == nil || *eis["zoe"] != 20.5 {
		t.Fatalf("expected 20.5 for zoe, got %v", eis["zoe"])
	}

	text := string(data)
	if strings.Index(text, `"Wald"`) > strings.Index(text, `"Eis"`) {
		t.Fatalf("expected table column order to be kept:\n%s", text)
	}
	if strings.Index(text, `"zoe"`) > strings.Index(text, `"adam"`) {
		t.Fatalf("expected table row order to be kept:\n%s", text)
	}
}

func TestTabular_OmitsSum(t *testing.T) {
	table := record.New()
	table.AddRow("alice", []record.Entry{{Column: record.SumColumn, Value: 7}, {Column: "A", Value: 3}})

	r := result("Replika", table)
	r.OmitSum = true
	data, err := Tabular(r)
	if err != nil {
		t.Fatalf("tabular: %v", err)
	}
	if bytes.Contains(data, []byte(`"Sum"`)) {
		t.Fatalf("expected Sum to be omitted:\n%s", data)
	}
}

func TestFlat_BestScore(t *testing.T) {
	table := record.New()
	table.AddRow("alice", []record.Entry{{Column: "X", Value: 10}, {Column: "Y", Value: 20}})

	records := Flat([]*ingest.Result{result("Spleef", table)})

	want := []Record{{
		Name:      "alice",
		Minigame:  "Spleef",
		Scores:    map[string]float64{"X": 10, "Y": 20},
		BestScore: 20,
	}}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("unexpected records (-want +got):\n%s", diff)
	}
}

func TestFlat_SkipsEmptyAndSum(t *testing.T) {
	table := record.New()
	table.AddRow("alice", []record.Entry{{Column: record.SumColumn, Value: 99}, {Column: "A", Value: 4}})
	table.AddRow("bob", []record.Entry{{Column: record.SumColumn, Value: 50}})

	other := record.New()
	other.AddRow("carol", []record.Entry{{Column: "B", Value: 1}})

	records := Flat([]*ingest.Result{
		result("Sammelwahn", table),
		{Minigame: "Paintball", Inactive: true},
		result("Lasertag", other),
	})

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %+v", records)
	}
	if records[0].Minigame != "Lasertag" || records[1].Minigame != "Sammelwahn" {
		t.Fatalf("expected minigames in name order, got %+v", records)
	}
	if _, ok := records[1].Scores[record.SumColumn]; ok {
		t.Fatalf("expected Sum not to be a score")
	}
	if records[1].BestScore != 4 {
		t.Fatalf("expected best score 4, got %v", records[1].BestScore)
	}
}

func TestWriteFlat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFlat(&buf, nil); err != nil {
		t.Fatalf("write flat: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("expected an empty array, got %q", buf.String())
	}

	buf.Reset()
	records := []Record{{Name: "alice", Minigame: "Spleef", Scores: map[string]float64{"X": 1}, BestScore: 1}}
	if err := WriteFlat(&buf, records); err != nil {
		t.Fatalf("write flat: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded[0]["best_score"] != 1.0 {
		t.Fatalf("expected best_score 1, got %v", decoded[0]["best_score"])
	}
}

func TestWorkbook(t *testing.T) {
	table := record.New()
	table.AddRow("alice", []record.Entry{{Column: "Eis", Value: 3}, {Column: "Wald", Value: 5}})
	table.AddRow("bob", []record.Entry{{Column: "Wald", Value: 2}})

	f, err := Workbook([]*ingest.Result{
		result("Spleef", table),
		{Minigame: "Paintball", Inactive: true},
	})
	if err != nil {
		t.Fatalf("workbook: %v", err)
	}
	defer f.Close()

	if diff := cmp.Diff([]string{"Spleef"}, f.GetSheetList()); diff != "" {
		t.Fatalf("unexpected sheets (-want +got):\n%s", diff)
	}
	rows, err := f.GetRows("Spleef")
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	want := [][]string{
		{"Player", "Eis", "Wald"},
		{"alice", "3", "5"},
		{"bob", "", "2"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("unexpected rows (-want +got):\n%s", diff)
	}
}

func TestSheetName(t *testing.T) {
	if got := sheetName("a/b:c"); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
	if got := sheetName(strings.Repeat("x", 40)); len(got) != 31 {
		t.Fatalf("expected 31 characters, got %d", len(got))
	}
}

func TestStripChart(t *testing.T) {
	table := record.New()
	table.AddRow("alice", []record.Entry{{Column: "Eis", Value: 12.5}, {Column: "Wald", Value: 30}})
	table.AddRow("bob", []record.Entry{{Column: "Eis", Value: 14}})

	png, err := StripChart(table, config.ModeTime)
	if err != nil {
		t.Fatalf("strip chart: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatalf("expected PNG output")
	}
}

func TestStripChart_Empty(t *testing.T) {
	png, err := StripChart(record.New(), config.ModePoint)
	if err != nil {
		t.Fatalf("strip chart: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatalf("expected PNG placeholder")
	}
}
