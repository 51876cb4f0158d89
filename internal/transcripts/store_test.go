package transcripts

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/clipforge/clipforge/internal/types"
)

func TestStore_Roundtrip(t *testing.T) {
	s := NewStore(t.TempDir())
	segs := []types.Segment{
		{Start: 0, End: 2.5, Text: "hello there", Words: []types.Word{
			{Word: "hello", Start: 0.1, End: 0.9},
			{Word: "there", Start: 1.0, End: 2.4},
		}},
	}
	if err := s.Save("abc123", segs); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load("abc123")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, segs) {
		t.Fatalf("roundtrip mismatch:\n got %+v\nwant %+v", got, segs)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	s := NewStore(t.TempDir())
	if _, err := s.Load("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	if err := s.Save("id", []types.Segment{{Start: 0, End: 1, Text: "x"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "id_transcript.json")); err != nil {
		t.Fatalf("expected transcript file: %v", err)
	}
}

func TestStore_ConcurrentSavesStayConsistent(t *testing.T) {
	s := NewStore(t.TempDir())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			segs := []types.Segment{{Start: float64(n), End: float64(n + 1), Text: "seg"}}
			if err := s.Save("same-id", segs); err != nil {
				t.Errorf("save: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, err := s.Load("same-id")
	if err != nil {
		t.Fatalf("load after concurrent saves: %v", err)
	}
	if len(got) != 1 || got[0].Text != "seg" {
		t.Fatalf("torn or corrupt transcript: %+v", got)
	}
}
