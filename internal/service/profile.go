package service

import (
	"errors"
	"strings"

	"portfolio/internal/models"
)

var ErrUnknownLink = errors.New("unknown link label")

type ProfileService struct {
	profile models.Profile
	links   map[string]models.Link
}

func NewProfileService(p models.Profile) *ProfileService {
	links := make(map[string]models.Link, len(p.Links))
	for _, l := range p.Links {
		links[normalizeLabel(l.Label)] = l
	}
	return &ProfileService{profile: p, links: links}
}

// Profile returns a copy; callers may not mutate the configured links.
func (s *ProfileService) Profile() models.Profile {
	p := s.profile
	p.Links = append([]models.Link(nil), s.profile.Links...)
	return p
}

func (s *ProfileService) LinkByLabel(label string) (models.Link, error) {
	l, ok := s.links[normalizeLabel(label)]
	if !ok {
		return models.Link{}, ErrUnknownLink
	}
	return l, nil
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
