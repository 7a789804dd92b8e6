package doctor

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CemBlt/dent-admin-app/internal/domain/scheduling"
	"github.com/CemBlt/dent-admin-app/internal/platform/blobstore"
	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

var gifPixel = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")

type fixture struct {
	svc      *Service
	repo     *mockRepo
	holidays *mockHolidays
	tx       *recordingTx
	store    *blobstore.MemoryStore
	known    map[uuid.UUID]bool
	hospital uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		repo:     newMockRepo(),
		holidays: &mockHolidays{byDoctor: map[uuid.UUID]int{}},
		tx:       &recordingTx{},
		store:    blobstore.NewMemoryStore(),
		known:    map[uuid.UUID]bool{},
		hospital: uuid.New(),
	}
	f.svc = NewService(f.repo, stubCatalog{known: f.known}, f.holidays,
		blobstore.NewMedia(f.store, "http://localhost/media"), f.tx, zerolog.Nop())
	return f
}

func (f *fixture) create(t *testing.T, name, surname string) *Doctor {
	t.Helper()
	d, err := f.svc.Create(context.Background(), f.hospital, Input{Name: name, Surname: surname, Specialty: "Ortodonti"})
	require.NoError(t, err)
	return d
}

func TestService_Create_DefaultsClosedAndActive(t *testing.T) {
	f := newFixture()
	d := f.create(t, " Ayşe ", "Yılmaz")

	assert.Equal(t, "Ayşe", d.Name)
	assert.True(t, d.IsActive)
	for _, day := range scheduling.Weekdays {
		h := d.WorkingHours.Day(day)
		assert.False(t, h.IsAvailable, day.String())
		assert.Nil(t, h.Label())
	}
}

func TestService_Create_Validation(t *testing.T) {
	f := newFixture()
	tests := []struct {
		name string
		in   Input
	}{
		{"missing name", Input{Surname: "Yılmaz", Specialty: "Ortodonti"}},
		{"missing surname", Input{Name: "Ayşe", Specialty: "Ortodonti"}},
		{"missing specialty", Input{Name: "Ayşe", Surname: "Yılmaz"}},
		{"unknown service", Input{Name: "Ayşe", Surname: "Yılmaz", Specialty: "Ortodonti", Services: []uuid.UUID{uuid.New()}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), f.hospital, tt.in)
			require.Error(t, err)
			assert.True(t, apperr.IsValidation(err))
		})
	}
	assert.Empty(t, f.repo.items)
}

func TestService_Update(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d := f.create(t, "Ayşe", "Yılmaz")
	implant := uuid.New()
	f.known[implant] = true

	inactive := false
	got, err := f.svc.Update(ctx, f.hospital, d.ID, Input{
		Name: "Ayşe", Surname: "Yılmaz Kaya", Specialty: "Periodontoloji",
		Services: []uuid.UUID{implant, implant}, IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Yılmaz Kaya", got.Surname)
	assert.Equal(t, []uuid.UUID{implant}, got.Services)
	assert.False(t, got.IsActive)

	_, err = f.svc.Update(ctx, uuid.New(), d.ID, Input{Name: "x", Surname: "y", Specialty: "z"})
	assert.True(t, apperr.IsNotFound(err), "other hospitals cannot reach the doctor")
}

func TestService_Delete_CascadesHolidaysAndPhoto(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d := f.create(t, "Ayşe", "Yılmaz")
	f.holidays.byDoctor[d.ID] = 3

	_, err := f.svc.UploadImage(ctx, f.hospital, d.ID, blobstore.Upload{FileName: "ayse.gif", Body: bytes.NewReader(gifPixel)})
	require.NoError(t, err)
	require.Len(t, f.store.Keys(""), 1)

	require.NoError(t, f.svc.Delete(ctx, f.hospital, d.ID))
	assert.Equal(t, 1, f.tx.calls)
	assert.Empty(t, f.holidays.byDoctor)
	assert.Empty(t, f.store.Keys(""))

	_, err = f.svc.Get(ctx, f.hospital, d.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestService_Delete_KeepsPhotoWhenRowDeleteFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d := f.create(t, "Ayşe", "Yılmaz")
	_, err := f.svc.UploadImage(ctx, f.hospital, d.ID, blobstore.Upload{FileName: "ayse.gif", Body: bytes.NewReader(gifPixel)})
	require.NoError(t, err)

	f.repo.failDelete = true
	require.Error(t, f.svc.Delete(ctx, f.hospital, d.ID))
	assert.Len(t, f.store.Keys(""), 1)
}

func TestService_Delete_NotFound(t *testing.T) {
	f := newFixture()
	err := f.svc.Delete(context.Background(), f.hospital, uuid.New())
	assert.True(t, apperr.IsNotFound(err))
	assert.Zero(t, f.tx.calls)
}

func TestService_UpdateWorkingHours(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d := f.create(t, "Ayşe", "Yılmaz")

	var hours scheduling.WorkingHours
	require.NoError(t, hours.UnmarshalJSON([]byte(`{"friday":{"isAvailable":true,"start":"10:00","end":"16:00"}}`)))
	got, err := f.svc.UpdateWorkingHours(ctx, f.hospital, d.ID, hours)
	require.NoError(t, err)
	require.NotNil(t, got.WorkingHours.Day(scheduling.Friday).Label())
	assert.Equal(t, "10:00 - 16:00", *got.WorkingHours.Day(scheduling.Friday).Label())

	require.NoError(t, hours.UnmarshalJSON([]byte(`{"friday":{"isAvailable":true,"start":"10:00"}}`)))
	_, err = f.svc.UpdateWorkingHours(ctx, f.hospital, d.ID, hours)
	assert.True(t, apperr.IsValidation(err))
}

func TestService_SetActive(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d := f.create(t, "Ayşe", "Yılmaz")

	got, err := f.svc.SetActive(ctx, f.hospital, d.ID, false)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	active := true
	items, err := f.svc.List(ctx, f.hospital, Filter{Active: &active})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestService_List_Filters(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	dolgu := uuid.New()
	f.known[dolgu] = true
	ayse := f.create(t, "Ayşe", "Yılmaz")
	f.create(t, "Mehmet", "Kaya")
	_, err := f.svc.Update(ctx, f.hospital, ayse.ID, Input{Name: "Ayşe", Surname: "Yılmaz", Specialty: "Ortodonti", Services: []uuid.UUID{dolgu}})
	require.NoError(t, err)

	items, err := f.svc.List(ctx, f.hospital, Filter{ServiceID: &dolgu})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, ayse.ID, items[0].ID)

	items, err = f.svc.List(ctx, f.hospital, Filter{Search: "kaya"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Mehmet", items[0].Name)
}
