package event

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/carebase/carebase/internal/domain/registry"
	"github.com/carebase/carebase/internal/platform/guard"
	"github.com/carebase/carebase/internal/platform/store"
)

func testService(t *testing.T, records ...store.Document) (*Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	if len(records) > 0 {
		if err := mem.Seed(store.CollectionRegisterData, records...); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return NewService(NewStoreRepo(mem), guard.PIN("2012"), zerolog.Nop()), mem
}

func seedRecord(id, name string, checkedIn bool) store.Document {
	return store.Document{
		"id":           id,
		"palliativeId": id,
		"patientname":  name,
		"eventStatus":  checkedIn,
	}
}

func TestCheckInSetsStatusAndTimestamps(t *testing.T) {
	svc, mem := testService(t, seedRecord("PTV100001", "Asha", false))

	fields, err := svc.CheckIn(context.Background(), "PTV100001")
	if err != nil {
		t.Fatalf("checkin: %v", err)
	}
	if fields["eventStatus"] != true || fields["checkedInAt"] == "" {
		t.Errorf("unexpected fields: %v", fields)
	}

	doc, _ := mem.GetByID(context.Background(), store.CollectionRegisterData, "PTV100001")
	if !doc.Bool("eventStatus") || doc.String("checkedInAt") == "" || doc.String("lastUpdated") == "" {
		t.Errorf("store not updated: %v", doc)
	}
}

func TestCheckInTwiceIsRejected(t *testing.T) {
	svc, _ := testService(t, seedRecord("PTV100001", "Asha", true))

	if _, err := svc.CheckIn(context.Background(), "PTV100001"); !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Errorf("expected ErrAlreadyCheckedIn, got %v", err)
	}
}

func TestCheckOutWithWrongPINNeverMutates(t *testing.T) {
	svc, mem := testService(t, seedRecord("PTV100001", "Asha", true))
	before, _ := mem.GetByID(context.Background(), store.CollectionRegisterData, "PTV100001")

	_, err := svc.CheckOut(context.Background(), "PTV100001", "0000")
	if !errors.Is(err, guard.ErrPINMismatch) {
		t.Fatalf("expected ErrPINMismatch, got %v", err)
	}

	after, _ := mem.GetByID(context.Background(), store.CollectionRegisterData, "PTV100001")
	if !reflect.DeepEqual(before, after) {
		t.Errorf("record mutated by rejected checkout:\nbefore %v\nafter  %v", before, after)
	}
}

func TestCheckOutRequiresCheckedIn(t *testing.T) {
	svc, _ := testService(t, seedRecord("PTV100001", "Asha", false))

	if _, err := svc.CheckOut(context.Background(), "PTV100001", "2012"); !errors.Is(err, ErrNotCheckedIn) {
		t.Errorf("expected ErrNotCheckedIn, got %v", err)
	}
}

func TestCheckInThenCheckOut(t *testing.T) {
	svc, mem := testService(t, seedRecord("PTV100001", "Asha", false))
	ctx := context.Background()

	if _, err := svc.CheckIn(ctx, "PTV100001"); err != nil {
		t.Fatalf("checkin: %v", err)
	}
	if _, err := svc.CheckOut(ctx, "PTV100001", "2012"); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	doc, _ := mem.GetByID(ctx, store.CollectionRegisterData, "PTV100001")
	rec, err := registry.FromDocument(doc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.EventStatus {
		t.Error("expected eventStatus=false after checkout")
	}
	if rec.CheckedInAt == "" || rec.CheckedOutAt == "" {
		t.Fatalf("expected both timestamps set: %+v", rec)
	}
	// RFC3339 strings compare chronologically.
	if rec.CheckedOutAt < rec.CheckedInAt {
		t.Errorf("checkedOutAt %s before checkedInAt %s", rec.CheckedOutAt, rec.CheckedInAt)
	}
}

func TestMissingRecord(t *testing.T) {
	svc, _ := testService(t)

	if _, err := svc.CheckIn(context.Background(), "PTV999999"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("checkin: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.CheckOut(context.Background(), "PTV999999", "2012"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("checkout: expected ErrNotFound, got %v", err)
	}
}

// blockingRepo parks UpdateStatus until released, to hold a transition
// in flight.
type blockingRepo struct {
	Repository
	entered chan struct{}
	release chan struct{}
}

func (b *blockingRepo) UpdateStatus(ctx context.Context, id string, fields store.Document) error {
	close(b.entered)
	<-b.release
	return b.Repository.UpdateStatus(ctx, id, fields)
}

func TestConcurrentTransitionOnSameRecordIsRejected(t *testing.T) {
	mem := store.NewMemory()
	if err := mem.Seed(store.CollectionRegisterData, seedRecord("PTV100001", "Asha", false)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	repo := &blockingRepo{
		Repository: NewStoreRepo(mem),
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	svc := NewService(repo, guard.PIN("2012"), zerolog.Nop())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := svc.CheckIn(context.Background(), "PTV100001"); err != nil {
			t.Errorf("first checkin: %v", err)
		}
	}()

	<-repo.entered
	if _, err := svc.CheckIn(context.Background(), "PTV100001"); !errors.Is(err, ErrTransitionPending) {
		t.Errorf("expected ErrTransitionPending, got %v", err)
	}
	close(repo.release)
	wg.Wait()
}

func TestReconcilePatchesOnlyTargetRecord(t *testing.T) {
	snapshot := []registry.PatientRecord{
		{PalliativeID: "PTV100001", PatientName: "Asha"},
		{PalliativeID: "PTV100002", PatientName: "Beena"},
	}
	fields := store.Document{
		"eventStatus": true,
		"checkedInAt": "2026-08-31T10:00:00Z",
		"lastUpdated": "2026-08-31T10:00:00Z",
	}

	out := Reconcile(snapshot, "PTV100002", fields)

	if snapshot[1].EventStatus {
		t.Error("input snapshot was mutated")
	}
	if !out[1].EventStatus || out[1].CheckedInAt != "2026-08-31T10:00:00Z" {
		t.Errorf("target record not patched: %+v", out[1])
	}
	if out[0].EventStatus || out[0].CheckedInAt != "" {
		t.Errorf("unrelated record patched: %+v", out[0])
	}
}

func TestListCheckedInWardFilter(t *testing.T) {
	svc, _ := testService(t,
		store.Document{"id": "a", "palliativeId": "a", "patientname": "Asha", "eventStatus": true, "wardNumber": "4"},
		store.Document{"id": "b", "palliativeId": "b", "patientname": "Beena", "eventStatus": true, "wardNumber": "7"},
		store.Document{"id": "c", "palliativeId": "c", "patientname": "Cyril", "eventStatus": false, "wardNumber": "4"},
	)
	ctx := context.Background()

	all, err := svc.ListCheckedIn(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 checked in, got %d", len(all))
	}

	ward4, err := svc.ListCheckedIn(ctx, "4")
	if err != nil {
		t.Fatalf("list ward: %v", err)
	}
	if len(ward4) != 1 || ward4[0].PatientName != "Asha" {
		t.Errorf("ward filter wrong: %+v", ward4)
	}
}

func TestWardsVocabulary(t *testing.T) {
	svc, _ := testService(t,
		store.Document{"id": "a", "palliativeId": "a", "patientname": "Asha", "wardNumber": "7"},
		store.Document{"id": "b", "palliativeId": "b", "patientname": "Beena", "wardNumber": "4"},
		store.Document{"id": "c", "palliativeId": "c", "patientname": "Cyril", "wardNumber": "4"},
		store.Document{"id": "d", "palliativeId": "d", "patientname": "Devan"},
	)

	wards, err := svc.Wards(context.Background())
	if err != nil {
		t.Fatalf("wards: %v", err)
	}
	if !reflect.DeepEqual(wards, []string{"4", "7"}) {
		t.Errorf("unexpected wards: %v", wards)
	}
}
