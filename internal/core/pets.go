package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/dogjoy/miniapp/internal/api"
	"github.com/dogjoy/miniapp/internal/auth"
)

type PetService struct {
	api *api.Client
}

func NewPetService(client *api.Client) *PetService {
	return &PetService{api: client}
}

func (s *PetService) List(ctx context.Context, sess auth.Session) ([]api.Pet, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	pets, err := s.api.GetPets(ctx, sess.AuthToken, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	return nonNil(pets), nil
}

func (s *PetService) Get(ctx context.Context, sess auth.Session, petID string) (*api.Pet, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	pet, err := s.api.GetPet(ctx, sess.AuthToken, petID)
	if err != nil {
		return nil, fmt.Errorf("get pet %s: %w", petID, err)
	}
	return pet, nil
}

// Add creates a pet owned by the session user.
func (s *PetService) Add(ctx context.Context, sess auth.Session, in api.PetInput) (*api.Pet, error) {
	in, err := s.prepare(sess, in)
	if err != nil {
		return nil, err
	}
	pet, err := s.api.CreatePet(ctx, sess.AuthToken, in)
	if err != nil {
		return nil, fmt.Errorf("add pet: %w", err)
	}
	return pet, nil
}

func (s *PetService) Update(ctx context.Context, sess auth.Session, petID string, in api.PetInput) (*api.Pet, error) {
	in, err := s.prepare(sess, in)
	if err != nil {
		return nil, err
	}
	pet, err := s.api.UpdatePet(ctx, sess.AuthToken, petID, in)
	if err != nil {
		return nil, fmt.Errorf("update pet %s: %w", petID, err)
	}
	return pet, nil
}

func (s *PetService) Delete(ctx context.Context, sess auth.Session, petID string) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	if err := s.api.DeletePet(ctx, sess.AuthToken, petID); err != nil {
		return fmt.Errorf("delete pet %s: %w", petID, err)
	}
	return nil
}

func (s *PetService) prepare(sess auth.Session, in api.PetInput) (api.PetInput, error) {
	if err := requireSession(sess); err != nil {
		return in, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Breed = strings.TrimSpace(in.Breed)
	in.Description = strings.TrimSpace(in.Description)
	in.UserID = sess.UserID
	return in, validateInput(in)
}
