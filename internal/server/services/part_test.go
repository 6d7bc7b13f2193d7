package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ivanuser/car-project-manager-sub002/internal/common"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/models"
)

type fakeVendorsRepo struct {
	byID map[string]*models.Vendor

	listOut []*models.Vendor
	listErr error

	createErr error
	updateErr error
	deleteErr error
}

func (f *fakeVendorsRepo) Create(ctx context.Context, v *models.Vendor) (*models.Vendor, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	v.ID = "v1"
	return v, nil
}
func (f *fakeVendorsRepo) GetByID(ctx context.Context, id string) (*models.Vendor, error) {
	if v, ok := f.byID[id]; ok {
		return v, nil
	}
	return nil, common.ErrorNotFound
}
func (f *fakeVendorsRepo) ListByUser(ctx context.Context, userID string) ([]*models.Vendor, error) {
	return f.listOut, f.listErr
}
func (f *fakeVendorsRepo) Update(ctx context.Context, v *models.Vendor) error { return f.updateErr }
func (f *fakeVendorsRepo) Delete(ctx context.Context, id string) error        { return f.deleteErr }

type fakePartsRepo struct {
	byID map[string]*models.Part

	listOut []*models.Part
	listErr error

	createErr error
	updateErr error
	deleteErr error
}

func (f *fakePartsRepo) Create(ctx context.Context, p *models.Part) (*models.Part, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	p.ID = "part1"
	return p, nil
}
func (f *fakePartsRepo) GetByID(ctx context.Context, id string) (*models.Part, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, common.ErrorNotFound
}
func (f *fakePartsRepo) ListByProject(ctx context.Context, projectID string) ([]*models.Part, error) {
	return f.listOut, f.listErr
}
func (f *fakePartsRepo) Update(ctx context.Context, p *models.Part) error { return f.updateErr }
func (f *fakePartsRepo) Delete(ctx context.Context, id string) error      { return f.deleteErr }

func TestPartCreate_VendorMustBelongToCaller(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		projects: &fakeProjectsRepo{byID: ownedBy("u1")},
		parts:    &fakePartsRepo{},
		vendors: &fakeVendorsRepo{byID: map[string]*models.Vendor{
			"v-mine":   {ID: "v-mine", UserID: "u1", Name: "Summit"},
			"v-theirs": {ID: "v-theirs", UserID: "u2", Name: "Private"},
		}},
	}
	s := NewPartService(db, rm, testLogger())

	mine := "v-mine"
	p, err := s.Create(context.Background(), "u1", "p1", PartInput{Name: "carburetor", VendorID: &mine})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if p.Status != models.PartStatusNeeded || p.Quantity != 1 {
		t.Fatalf("defaults not applied: %+v", p)
	}

	// Another user's vendor is as good as nonexistent.
	theirs := "v-theirs"
	if _, err := s.Create(context.Background(), "u1", "p1", PartInput{Name: "carburetor", VendorID: &theirs}); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("foreign vendor: want ErrorNotFound, got %v", err)
	}

	ghost := "v-ghost"
	if _, err := s.Create(context.Background(), "u1", "p1", PartInput{Name: "carburetor", VendorID: &ghost}); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("unknown vendor: want ErrorNotFound, got %v", err)
	}
}

func TestPartCreate_Validation(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		projects: &fakeProjectsRepo{byID: ownedBy("u1")},
		parts:    &fakePartsRepo{},
	}
	s := NewPartService(db, rm, testLogger())

	if _, err := s.Create(context.Background(), "u1", "p1", PartInput{}); !errors.Is(err, common.ErrorInvalidArgument) {
		t.Fatalf("missing name: want ErrorInvalidArgument, got %v", err)
	}
	if _, err := s.Create(context.Background(), "u1", "p1", PartInput{Name: "x", PriceCents: -5}); !errors.Is(err, common.ErrorInvalidArgument) {
		t.Fatalf("negative price: want ErrorInvalidArgument, got %v", err)
	}
	if _, err := s.Create(context.Background(), "u1", "p1", PartInput{Name: "x", Status: "lost"}); !errors.Is(err, common.ErrorInvalidArgument) {
		t.Fatalf("bad status: want ErrorInvalidArgument, got %v", err)
	}
}

func TestVendorUpdate_Scoped(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		vendors: &fakeVendorsRepo{byID: map[string]*models.Vendor{
			"v1": {ID: "v1", UserID: "u1", Name: "Summit"},
		}},
	}
	s := NewVendorService(db, rm, testLogger())

	v, err := s.Update(context.Background(), "u1", "v1", VendorInput{Name: "Summit Racing"})
	if err != nil || v.Name != "Summit Racing" {
		t.Fatalf("Update: got (%+v, %v)", v, err)
	}

	if _, err := s.Update(context.Background(), "u2", "v1", VendorInput{Name: "x"}); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("foreign vendor: want ErrorNotFound, got %v", err)
	}
	if _, err := s.Update(context.Background(), "u1", "v1", VendorInput{}); !errors.Is(err, common.ErrorInvalidArgument) {
		t.Fatalf("missing name: want ErrorInvalidArgument, got %v", err)
	}
}
