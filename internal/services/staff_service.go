package services

import (
	"fmt"

	"stoutscout_backend/internal/repositories"
)

// BartenderView is the staff projection served to the pour form: just enough
// to pick a pourer and render their label.
type BartenderView struct {
	ID          string  `json:"id"`
	Role        string  `json:"role"`
	DisplayName *string `json:"displayName,omitempty"`
	Label       string  `json:"label"`
}

// StaffService exposes read access to staff members.
type StaffService interface {
	GetBartenders(limit, offset int) ([]BartenderView, error)
}

type staffService struct {
	userRepo repositories.UserRepository
}

// NewStaffService creates a new instance of StaffService.
func NewStaffService(ur repositories.UserRepository) StaffService {
	return &staffService{userRepo: ur}
}

func (s *staffService) GetBartenders(limit, offset int) ([]BartenderView, error) {
	users, err := s.userRepo.GetUsers(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get bartenders: %w", err)
	}

	views := make([]BartenderView, 0, len(users))
	for i := range users {
		user := &users[i]
		views = append(views, BartenderView{
			ID:          user.ID,
			Role:        user.Role,
			DisplayName: user.DisplayName,
			Label:       user.BartenderLabel(),
		})
	}
	return views, nil
}
