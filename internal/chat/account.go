package chat

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/matheus3301/modernchat/internal/bus"
	"github.com/matheus3301/modernchat/internal/persist"
)

// SignIn makes email the current user. An empty username defaults to the
// local part of the address. Signing in again with the current email
// returns the existing user.
func (s *Store) SignIn(email, username string) (User, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if !validEmail(email) {
		return User{}, invalid("email", fmt.Sprintf("%q is not a valid address", email))
	}
	if username == "" {
		username, _, _ = strings.Cut(email, "@")
	}

	s.mu.Lock()
	if s.user != nil && strings.EqualFold(s.user.Email, email) {
		u := *s.user
		s.mu.Unlock()
		return u, nil
	}
	u := User{
		ID:       s.newID(),
		Email:    email,
		Username: username,
		Avatar:   AvatarURL(username),
	}
	if err := s.save(persist.KeyCurrentUser, u); err != nil {
		s.mu.Unlock()
		return User{}, fmt.Errorf("sign in: %w", err)
	}
	s.user = &u
	s.activeID = ""
	if err := s.save(persist.KeyLastActive, s.now().UTC().Format(time.RFC3339)); err != nil {
		s.logger.Warn("record last active failed", zap.Error(err))
	}
	s.mu.Unlock()

	s.logger.Info("signed in", zap.String("user_id", u.ID))
	s.publish(bus.KindAccountChanged, AccountEvent{User: &u})
	return u, nil
}

// SignOut forgets the current user. Contacts, chats and settings stay on
// disk for the next sign-in.
func (s *Store) SignOut() error {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return nil
	}
	if err := s.persist.Remove(persist.KeyCurrentUser); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("sign out: %w", err)
	}
	s.user = nil
	s.activeID = ""
	s.mu.Unlock()

	s.logger.Info("signed out")
	s.publish(bus.KindAccountChanged, AccountEvent{})
	return nil
}

// User returns the current user.
func (s *Store) User() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Profile returns the stored profile of the current user, or one derived
// from the user record when none was saved.
func (s *Store) Profile() (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return Profile{}, ErrSignedOut
	}
	p := Profile{Username: s.user.Username, Avatar: s.user.Avatar}
	if _, err := s.persist.Load(persist.ProfileKey(s.user.ID), &p); err != nil {
		return Profile{Username: s.user.Username, Avatar: s.user.Avatar}, err
	}
	return p, nil
}

// UpdateProfile edits the current user's display fields. An empty avatar
// is regenerated from the username.
func (s *Store) UpdateProfile(username, bio, avatar string) (Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Profile{}, invalid("username", "required")
	}
	if avatar == "" {
		avatar = AvatarURL(username)
	}
	p := Profile{Username: username, Bio: strings.TrimSpace(bio), Avatar: avatar}

	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return Profile{}, ErrSignedOut
	}
	prev := *s.user
	next := prev
	next.Username = p.Username
	next.Avatar = p.Avatar
	if err := s.save(persist.KeyCurrentUser, next); err != nil {
		s.mu.Unlock()
		return Profile{}, fmt.Errorf("update profile: %w", err)
	}
	if err := s.save(persist.ProfileKey(next.ID), p); err != nil {
		if rbErr := s.persist.Save(persist.KeyCurrentUser, prev); rbErr != nil {
			err = multierr.Append(err, rbErr)
		}
		s.mu.Unlock()
		return Profile{}, fmt.Errorf("update profile: %w", err)
	}
	s.user = &next
	s.mu.Unlock()

	s.publish(bus.KindAccountChanged, AccountEvent{User: &next})
	return p, nil
}

// DeleteAccount wipes every stored key and resets the state to a fresh
// profile. Memory is only reset once storage was cleared.
func (s *Store) DeleteAccount() error {
	s.mu.Lock()
	if err := s.persist.Clear(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("delete account: %w", err)
	}
	s.user = nil
	s.contacts = []Contact{}
	s.chats = []Chat{}
	s.settings = DefaultSettings()
	s.activeID = ""
	s.mu.Unlock()

	s.logger.Info("account deleted")
	s.publish(bus.KindAccountChanged, AccountEvent{})
	return nil
}
