package entities

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-translatable/internal/acceptlang"
	"github.com/goliatone/go-translatable/internal/identity"
	"github.com/goliatone/go-translatable/internal/translations"
	"github.com/goliatone/go-translatable/pkg/testsupport"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	db, cleanup, err := testsupport.NewBunSQLite(t.Name(), (*Entity)(nil), (*translations.Translation)(nil))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(cleanup)
	return db
}

func TestBunTranslationRepositoryOrdersByLocale(t *testing.T) {
	db := newTestDB(t)
	repo := NewBunTranslationRepository(db)
	ctx := context.Background()

	entityID := uuid.New()
	now := time.Now().UTC()
	rows := []*translations.Translation{
		{ID: identity.TranslationUUID(entityID, localeITCH), EntityID: entityID, LocaleID: localeITCH, Fields: map[string]string{"name": "C"}, CreatedAt: now, UpdatedAt: now},
		{ID: identity.TranslationUUID(entityID, localeDECH), EntityID: entityID, LocaleID: localeDECH, Fields: map[string]string{"name": "A"}, CreatedAt: now, UpdatedAt: now},
		{ID: identity.TranslationUUID(entityID, localeFRCH), EntityID: entityID, LocaleID: localeFRCH, Fields: map[string]string{"name": "B"}, CreatedAt: now, UpdatedAt: now},
	}
	if _, err := repo.CreateMany(ctx, rows); err != nil {
		t.Fatalf("CreateMany() error = %v", err)
	}

	listed, err := repo.ListByEntity(ctx, entityID)
	if err != nil {
		t.Fatalf("ListByEntity() error = %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected three rows, got %d", len(listed))
	}
	for i := 1; i < len(listed); i++ {
		if listed[i-1].LocaleID.String() > listed[i].LocaleID.String() {
			t.Fatalf("rows not ordered by locale id: %s before %s", listed[i-1].LocaleID, listed[i].LocaleID)
		}
	}

	updated := rows[1].Clone()
	updated.Fields = map[string]string{"name": "A2"}
	if _, err := repo.Upsert(ctx, updated); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	listed, err = repo.ListByEntity(ctx, entityID)
	if err != nil {
		t.Fatalf("ListByEntity() error = %v", err)
	}
	for _, row := range listed {
		if row.LocaleID == localeDECH && row.Value("name") != "A2" {
			t.Fatalf("expected upserted value, got %q", row.Value("name"))
		}
	}

	removed, err := repo.DeleteByEntity(ctx, entityID)
	if err != nil {
		t.Fatalf("DeleteByEntity() error = %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected three rows removed, got %d", removed)
	}
}

func TestBunRepositoriesBackTheService(t *testing.T) {
	db := newTestDB(t)
	registry, err := NewRegistry(Definition{Kind: "article", TranslatedFields: []string{"name"}})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	svc := NewService(
		NewBunEntityRepository(db),
		NewBunTranslationRepository(db),
		StaticCatalog(testCatalog()),
		registry,
		WithDefaultPreference(acceptlang.LanguageRange{Language: "it", Priority: 0.001}),
	)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRequest{
		Kind:       "article",
		Attributes: map[string]any{"slug": "hello"},
		Translations: []TranslationInput{
			{LocaleID: localeDECH, Fields: map[string]string{"name": "A"}},
			{LocaleID: localeFRCH, Fields: map[string]string{"name": "B"}},
		},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := svc.Get(ctx, GetRequest{Kind: "article", ID: created.ID, Preferences: acceptlang.ParseRFCPrioritizedHeader("de-ch, en-GB")})
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Translated["name"] != "A" || got.Attributes["slug"] != "hello" {
		t.Fatalf("unexpected entity %+v", got)
	}

	if _, err := svc.Update(ctx, UpdateRequest{
		Kind:         "article",
		ID:           created.ID,
		Attributes:   map[string]any{"slug": "hallo"},
		Translations: []TranslationInput{{LocaleID: localeDECH, Fields: map[string]string{"name": "A2"}}},
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	list, err := svc.List(ctx, ListRequest{Kind: "article", Preferences: acceptlang.ParseRFCPrioritizedHeader("de")})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0].Translated["name"] != "A2" || list[0].Attributes["slug"] != "hallo" {
		t.Fatalf("unexpected list %+v", list)
	}

	if err := svc.Delete(ctx, DeleteRequest{Kind: "article", ID: created.ID}); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	var notFound *NotFoundError
	if _, err := svc.Get(ctx, GetRequest{Kind: "article", ID: created.ID}); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError after delete, got %v", err)
	}
}

func TestBunTransactorRollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	entityRepo := NewBunEntityRepository(db)
	translationRepo := NewBunTranslationRepository(db)
	tx := NewBunTransactor(db, entityRepo, translationRepo)
	ctx := context.Background()

	id := uuid.New()
	boom := errors.New("translation write failed")
	err := tx.WithinTx(ctx, func(ctx context.Context, entities EntityRepository, trs TranslationRepository) error {
		now := time.Now().UTC()
		if _, err := entities.Create(ctx, &Entity{ID: id, Kind: "article", CreatedAt: now, UpdatedAt: now}); err != nil {
			return err
		}
		if _, err := trs.CreateMany(ctx, []*translations.Translation{{
			ID:       identity.TranslationUUID(id, localeDECH),
			EntityID: id,
			LocaleID: localeDECH,
			Fields:   map[string]string{"name": "A"},
		}}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}

	var notFound *NotFoundError
	if _, err := entityRepo.GetByID(ctx, id); !errors.As(err, &notFound) {
		t.Fatalf("expected entity to be rolled back, got %v", err)
	}
	rows, err := translationRepo.ListByEntity(ctx, id)
	if err != nil {
		t.Fatalf("ListByEntity() error = %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected translations to be rolled back, got %d", len(rows))
	}
}

func TestBunTranslationRepositoryDeleteByEntityCountsRows(t *testing.T) {
	db := newTestDB(t)
	repo := NewBunTranslationRepository(db)
	ctx := context.Background()

	owner, other := uuid.New(), uuid.New()
	rows := []*translations.Translation{
		{ID: identity.TranslationUUID(owner, localeDECH), EntityID: owner, LocaleID: localeDECH, Fields: map[string]string{"name": "A"}},
		{ID: identity.TranslationUUID(owner, localeFRCH), EntityID: owner, LocaleID: localeFRCH, Fields: map[string]string{"name": "B"}},
		{ID: identity.TranslationUUID(other, localeDECH), EntityID: other, LocaleID: localeDECH, Fields: map[string]string{"name": "C"}},
	}
	if _, err := repo.CreateMany(ctx, rows); err != nil {
		t.Fatalf("CreateMany() error = %v", err)
	}

	removed, err := repo.DeleteByEntity(ctx, owner)
	if err != nil {
		t.Fatalf("DeleteByEntity() error = %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected two removed rows, got %d", removed)
	}
	left, err := repo.ListByEntity(ctx, other)
	if err != nil {
		t.Fatalf("ListByEntity() error = %v", err)
	}
	if len(left) != 1 || left[0].Fields["name"] != "C" {
		t.Fatalf("expected the other entity's row to survive, got %+v", left)
	}
}
