package core

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dogjoy/miniapp/internal/api"
	"github.com/dogjoy/miniapp/internal/auth"
	"github.com/dogjoy/miniapp/internal/logger"
)

// Names used when a profile is created without a Telegram identity.
const (
	DefaultFirstName = "User"
	DefaultLastName  = "Dog Joy"
	PlanFree         = "free"
)

// ProfileView is everything the profile page shows.
type ProfileView struct {
	User             api.User
	Pets             []api.Pet
	Orders           []api.Order
	Initials         string
	TelegramVerified bool
	IsTestSession    bool
	// Local is set when the backend could not create the profile and the
	// page shows a placeholder instead.
	Local bool
}

type ProfileService struct {
	api *api.Client
}

func NewProfileService(client *api.Client) *ProfileService {
	return &ProfileService{api: client}
}

// Load reads the profile, creating it on first visit, then the user's pets
// and orders. Only a profile failure is returned.
func (s *ProfileService) Load(ctx context.Context, sess auth.Session, identity *auth.TelegramIdentity) (*ProfileView, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}

	view := &ProfileView{
		TelegramVerified: identity != nil,
		IsTestSession:    sess.IsTestSession,
	}

	user, err := s.api.GetProfile(ctx, sess.AuthToken, sess.UserID)
	switch {
	case api.IsNotFound(err):
		user, view.Local = s.create(ctx, sess, identity)
	case err != nil:
		return nil, fmt.Errorf("load profile: %w", err)
	}
	view.User = *user
	if identity != nil {
		// Blank backend names show the Telegram ones.
		if view.User.FirstName == "" {
			view.User.FirstName = identity.FirstName
		}
		if view.User.LastName == "" {
			view.User.LastName = identity.LastName
		}
	}
	view.Initials = auth.Initials(view.User.FirstName, view.User.LastName)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		pets, err := s.api.GetPets(ctx, sess.AuthToken, sess.UserID)
		if err != nil {
			logger.Warnf("load pets for %s: %v", sess.UserID, err)
		}
		view.Pets = nonNil(pets)
	}()
	go func() {
		defer wg.Done()
		orders, err := s.api.GetOrders(ctx, sess.AuthToken, sess.UserID)
		if err != nil {
			logger.Warnf("load orders for %s: %v", sess.UserID, err)
		}
		view.Orders = nonNil(orders)
	}()
	wg.Wait()

	return view, nil
}

// Update validates and saves profile fields.
func (s *ProfileService) Update(ctx context.Context, sess auth.Session, upd api.ProfileUpdate) (*api.User, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	upd.FirstName = strings.TrimSpace(upd.FirstName)
	upd.LastName = strings.TrimSpace(upd.LastName)
	upd.Email = strings.TrimSpace(upd.Email)
	upd.PhoneNumber = strings.TrimSpace(upd.PhoneNumber)
	if err := validateInput(upd); err != nil {
		return nil, err
	}

	user, err := s.api.UpdateProfile(ctx, sess.AuthToken, sess.UserID, upd)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

func (s *ProfileService) create(ctx context.Context, sess auth.Session, identity *auth.TelegramIdentity) (*api.User, bool) {
	first, last := DefaultFirstName, DefaultLastName
	if identity != nil {
		first, last = identity.FirstName, identity.LastName
	}

	user, err := s.api.UpdateProfile(ctx, sess.AuthToken, sess.UserID, api.ProfileUpdate{
		FirstName: first,
		LastName:  last,
	})
	if err == nil && user != nil {
		logger.Infof("profile created for %s", sess.UserID)
		// An empty body still means the profile exists with what was sent.
		if user.ID == "" {
			user.ID = api.ID(sess.UserID)
			user.FirstName, user.LastName = first, last
		}
		return user, false
	}

	logger.Warnf("create profile for %s: %v", sess.UserID, err)
	return &api.User{
		ID:               api.ID(sess.UserID),
		FirstName:        first,
		LastName:         last,
		SubscriptionPlan: PlanFree,
	}, true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
