package store

import (
	"context"
	"errors"
	"testing"

	"github.com/benchray/benchray/pkg/sceneio"
)

func testDoc() sceneio.Document {
	return sceneio.Document{
		Elements: []sceneio.Element{
			{ID: 1, Type: "laser", Desc: sceneio.Descriptor{Radius: 15, Model: "collimated"}},
		},
	}
}

func TestFileStoreSaveAssignsID(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	rec, err := s.Save(ctx, Record{Name: "bench", Document: testDoc()})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("Save did not assign an ID")
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "bench" || len(got.Document.Elements) != 1 {
		t.Errorf("round trip lost data: %+v", got)
	}
}

func TestFileStoreUpdateKeepsID(t *testing.T) {
	ctx := context.Background()
	s, _ := NewFileStore(t.TempDir())

	rec, _ := s.Save(ctx, Record{Name: "bench", Document: testDoc()})
	rec.Name = "bench v2"
	rec2, err := s.Save(ctx, rec)
	if err != nil {
		t.Fatalf("update Save: %v", err)
	}
	if rec2.ID != rec.ID {
		t.Errorf("update changed ID: %s -> %s", rec.ID, rec2.ID)
	}

	recs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 1 || recs[0].Name != "bench v2" {
		t.Errorf("List = %+v, want single updated record", recs)
	}
}

func TestFileStoreDuplicateName(t *testing.T) {
	ctx := context.Background()
	s, _ := NewFileStore(t.TempDir())

	if _, err := s.Save(ctx, Record{Name: "bench"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(ctx, Record{Name: "bench"}); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("err = %v, want ErrDuplicateName", err)
	}
}

func TestFileStoreListSorted(t *testing.T) {
	ctx := context.Background()
	s, _ := NewFileStore(t.TempDir())

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if _, err := s.Save(ctx, Record{Name: name}); err != nil {
			t.Fatal(err)
		}
	}
	recs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 3 || recs[0].Name != "alpha" || recs[2].Name != "zeta" {
		t.Errorf("List not sorted by name: %+v", recs)
	}
}

func TestFileStoreDeleteAndNotFound(t *testing.T) {
	ctx := context.Background()
	s, _ := NewFileStore(t.TempDir())

	rec, _ := s.Save(ctx, Record{Name: "bench"})
	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("double Delete: %v, want ErrNotFound", err)
	}
}
