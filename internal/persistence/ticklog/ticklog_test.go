package ticklog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
)

func readRecords(t *testing.T, path string) []Record {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer dec.Close()

	var out []Record
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var r Record
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("decode line %q: %v", sc.Text(), err)
		}
		out = append(out, r)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return out
}

func TestTickLoggerWritesCompressedLines(t *testing.T) {
	dir := t.TempDir()
	l := NewTickLogger(dir)
	fixed := time.Date(2024, 5, 1, 13, 20, 0, 0, time.UTC)
	l.w.now = func() time.Time { return fixed }

	for i := int64(1); i <= 3; i++ {
		if err := l.WriteTick(Record{World: "pond", Tick: i, Transfers: int(i), Volume: 7}); err != nil {
			t.Fatalf("WriteTick: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	recs := readRecords(t, filepath.Join(dir, "ticks", "ticks-2024-05-01-13.jsonl.zst"))
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	if recs[2].Tick != 3 || recs[2].Transfers != 3 || recs[2].World != "pond" {
		t.Fatalf("unexpected last record %+v", recs[2])
	}
}

func TestWriterRotatesHourly(t *testing.T) {
	dir := t.TempDir()
	w := NewJSONLZstdWriter(dir, "ticks")
	now := time.Date(2024, 5, 1, 13, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	if err := w.Write(Record{Tick: 1}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if err := w.Write(Record{Tick: 2}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	first := readRecords(t, filepath.Join(dir, "ticks-2024-05-01-13.jsonl.zst"))
	second := readRecords(t, filepath.Join(dir, "ticks-2024-05-01-14.jsonl.zst"))
	if len(first) != 1 || first[0].Tick != 1 {
		t.Fatalf("first hour: %+v", first)
	}
	if len(second) != 1 || second[0].Tick != 2 {
		t.Fatalf("second hour: %+v", second)
	}
}
