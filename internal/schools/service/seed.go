package service

import (
	"context"

	"educater_backend/internal/schools/domain"
	"educater_backend/internal/schools/repository"
	"educater_backend/platform/apperr"
)

// seedProspect is one entry of the built-in Western Cape prospect list.
type seedProspect struct {
	Name           string
	Town           string
	PrincipalEmail string
}

// seedProspects is the curated cold-outreach list the team starts a region
// with. Every entry enters the pipeline at Cold Lead, unassigned.
var seedProspects = []seedProspect{
	{"Bishops Diocesan College", "Rondebosch", "principal@bishops.org.za"},
	{"SACS High School", "Newlands", "highschool@sacs.org.za"},
	{"Rondebosch Boys' High", "Rondebosch", "infobhs@rondebosch.com"},
	{"Westerford High School", "Newlands", "admin@westerford.co.za"},
	{"Herschel Girls School", "Claremont", "head@herschel.org.za"},
	{"Rustenburg Girls' High", "Rondebosch", "info@rghs.org.za"},
	{"Wynberg Boys' High", "Wynberg", "secretaries@wbhs.org.za"},
	{"Wynberg Girls' High", "Wynberg", "seniorpost@wynghs.co.za"},
	{"Paul Roos Gymnasium", "Stellenbosch", "info@paulroos.co.za"},
	{"Rhenish Girls' High", "Stellenbosch", "info@rhenish.co.za"},
	{"Stellenbosch High", "Stellenbosch", "admin@stellies.com"},
	{"Paarl Boys' High", "Paarl", "head@paarlboyshigh.org.za"},
	{"Paarl Girls' High", "Paarl", "info@paarlgirlshigh.com"},
	{"Paarl Gymnasium", "Paarl", "info@paarlgym.co.za"},
	{"La Rochelle Girls' High", "Paarl", "info@larochelleghs.co.za"},
	{"Reddam House Atlantic", "Green Point", "info.atlanticseaboard@reddam.house"},
	{"Herzlia High School", "Vredehoek", "info@herzlia.com"},
	{"Camps Bay High School", "Camps Bay", "office@cbhs.co.za"},
	{"Parel Vallei High", "Somerset West", "secretary@parelvallei.org"},
	{"Strand High School", "Strand", "info@hshstrand.co.za"},
	{"Jan van Riebeeck High", "Gardens", "hjs@janvanriebeeck.co.za"},
}

// Seed replaces the school list with the built-in prospect list. Without
// force it refuses to touch a non-empty database; with force it wipes
// whatever is there first, matching how a region reset works.
func (s *Service) Seed(ctx context.Context, force bool) (int, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		if !force {
			return 0, apperr.Conflict("schools already present; pass force to reseed")
		}
		for _, old := range existing {
			if err := s.repo.Delete(ctx, old.ID); err != nil {
				return 0, err
			}
		}
	}

	seeded := 0
	for _, p := range seedProspects {
		// Seeding bypasses the duplicate gate: the list is curated and
		// the table was just emptied.
		_, err := s.repo.Create(ctx, repository.CreateParams{
			Name:           p.Name,
			PrincipalEmail: p.PrincipalEmail,
			Track:          domain.TrackAcquisition,
			Notes:          p.Town,
		})
		if err != nil {
			return seeded, err
		}
		seeded++
	}
	s.log.Info("seeded prospect list", "count", seeded, "force", force)
	return seeded, nil
}
