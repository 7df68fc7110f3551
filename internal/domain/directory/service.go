package directory

import (
	"context"
	"fmt"
	"sort"

	"github.com/carebase/carebase/pkg/listview"
)

// DirectoryPageSize is larger than the event roster's: the directory is
// browsed as a reference list, not a live roster.
const DirectoryPageSize = 100

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, p *PatientProfile) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.RegisterNumber == "" {
		return fmt.Errorf("registernumber is required")
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id string) (*PatientProfile, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, p *PatientProfile) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	fields, err := p.ToDocument()
	if err != nil {
		return err
	}
	delete(fields, "id")
	return s.repo.Update(ctx, id, fields)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// profileView drives the directory list screen.
var profileView = listview.View[PatientProfile]{
	SearchFields: []func(PatientProfile) string{
		func(p PatientProfile) string { return p.Name },
		func(p PatientProfile) string { return p.RegisterNumber },
		func(p PatientProfile) string { return p.Address },
		func(p PatientProfile) string { return p.MainDiagnosis },
		func(p PatientProfile) string { return p.MainCaretakerPhone },
	},
	FilterFields: map[string]func(PatientProfile) string{
		"status": func(p PatientProfile) string { return p.Status() },
		"ward":   func(p PatientProfile) string { return p.Ward },
	},
	Comparators: map[string]func(a, b PatientProfile) int{
		"name": func(a, b PatientProfile) int {
			return listview.CompareStrings(a.Name, b.Name)
		},
		"registernumber": func(a, b PatientProfile) int {
			return listview.CompareRegisterNumbers(a.RegisterNumber, b.RegisterNumber)
		},
	},
}

// List applies the directory list pipeline. The diagnosis filter is
// resolved here rather than in the generic engine because a profile can
// carry several comma-joined diagnoses and matching is membership, not
// equality.
func (s *Service) List(ctx context.Context, params listview.Params, diagnosis string) (listview.Page[PatientProfile], error) {
	profiles, err := s.repo.List(ctx)
	if err != nil {
		return listview.Page[PatientProfile]{}, err
	}
	if diagnosis != "" && diagnosis != "All" {
		narrowed := make([]PatientProfile, 0, len(profiles))
		for _, p := range profiles {
			if p.HasDiagnosis(diagnosis) {
				narrowed = append(narrowed, p)
			}
		}
		profiles = narrowed
	}
	if params.SortKey == "" {
		params.SortKey = "registernumber"
		params.Descending = true
	}
	return listview.Apply(profiles, profileView, params), nil
}

// FilteredSet returns every profile matching the given parameters with no
// pagination, for export.
func (s *Service) FilteredSet(ctx context.Context, params listview.Params, diagnosis string) ([]PatientProfile, error) {
	params.Page = 1
	params.PageSize = 1
	probe, err := s.List(ctx, params, diagnosis)
	if err != nil {
		return nil, err
	}
	if probe.Total == 0 {
		return nil, nil
	}
	params.PageSize = probe.Total
	page, err := s.List(ctx, params, diagnosis)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Diagnoses lists the distinct diagnosis names across the directory,
// sorted, for the diagnosis filter dropdown.
func (s *Service) Diagnoses(ctx context.Context) ([]string, error) {
	profiles, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range profiles {
		for _, d := range p.Diagnoses() {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out, nil
}
