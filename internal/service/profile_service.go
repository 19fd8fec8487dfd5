package service

import (
	"context"
	"strings"

	"github.com/skillmatch/skillmatch/internal/domain"
	"github.com/skillmatch/skillmatch/internal/matching"
	"github.com/skillmatch/skillmatch/internal/repository"
	apperrors "github.com/skillmatch/skillmatch/pkg/util"
)

// ProfileService manages member profiles and skill search.
type ProfileService struct {
	users repository.UserRepository
}

// NewProfileService constructs the service.
func NewProfileService(users repository.UserRepository) *ProfileService {
	return &ProfileService{users: users}
}

// ProfileUpdateInput carries editable profile fields.
type ProfileUpdateInput struct {
	Name     string
	Bio      string
	Location string
	Skills   []string
}

// SearchInput describes a skill/name search.
type SearchInput struct {
	Skills []string
	Name   string
	Limit  int
	Offset int
}

// GetProfile returns a user by id.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile applies edits to the caller's own profile. Skills are kept
// as entered; normalization happens at match time.
func (s *ProfileService) UpdateProfile(ctx context.Context, user *domain.User, input ProfileUpdateInput) (*domain.User, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}

	skills := make([]string, 0, len(input.Skills))
	for _, skill := range input.Skills {
		if strings.TrimSpace(skill) == "" {
			continue
		}
		skills = append(skills, strings.TrimSpace(skill))
	}

	user.Name = strings.TrimSpace(input.Name)
	user.Bio = strings.TrimSpace(input.Bio)
	user.Location = strings.TrimSpace(input.Location)
	user.Skills = skills

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Search finds verified users by fuzzy skill match and optional name
// substring, excluding the caller. The DB narrows by name; skill matching
// uses the same semantics as the notification fan-out.
func (s *ProfileService) Search(ctx context.Context, callerID string, input SearchInput) ([]domain.User, error) {
	verified := true
	filter := repository.UserFilter{
		Verified: &verified,
		Limit:    input.Limit,
		Offset:   input.Offset,
	}
	if callerID != "" {
		filter.ExcludeID = &callerID
	}
	if strings.TrimSpace(input.Name) != "" {
		name := input.Name
		filter.NameSearch = &name
	}

	candidates, err := s.users.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	matcher := matching.NewMatcher(input.Skills)
	if matcher.Empty() {
		return candidates, nil
	}

	matched := make([]domain.User, 0, len(candidates))
	for _, candidate := range candidates {
		if matcher.Matches(candidate.Skills) {
			matched = append(matched, candidate)
		}
	}
	return matched, nil
}
