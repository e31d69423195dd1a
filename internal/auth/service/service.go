// Package service implements registration, sign-in and profile management on
// top of the identity provider and the accounts collection.
package service

import (
	"context"
	"errors"

	"capstone_backend/internal/adapters/storage"
	"capstone_backend/internal/auth/repository"
	"capstone_backend/internal/auth/transport"
	"capstone_backend/internal/auth/validator"
	"capstone_backend/internal/idp"
	"capstone_backend/internal/shared/policy"
	uploads "capstone_backend/internal/uploads/service"
	"capstone_backend/platform/apperr"
	"capstone_backend/platform/httpkit"
	"capstone_backend/platform/logger"
)

const (
	msgRegisterFailed  = "Error registering user"
	msgAuthFailed      = "Authentication failed"
	msgEditForbidden   = "Forbidden: You are not allowed to edit this profile"
	msgNothingToUpdate = "At least one field (displayName or imageProfile) is required for update"
	msgProviderFailed  = "Identity provider request failed"
)

// ImageStore uploads profile pictures and removes replaced ones.
type ImageStore interface {
	ValidateImage(upload uploads.Upload) error
	StoreImage(ctx context.Context, upload uploads.Upload) (*storage.Object, error)
	Remove(ctx context.Context, url string) error
}

// Service provides account operations.
type Service struct {
	provider idp.Provider
	repo     repository.AccountRepository
	images   ImageStore
	log      *logger.Logger
}

func New(provider idp.Provider, repo repository.AccountRepository, images ImageStore, log *logger.Logger) *Service {
	return &Service{provider: provider, repo: repo, images: images, log: log}
}

// Register creates the provider identity, then the account document. If the
// document cannot be written the identity is deleted again.
func (s *Service) Register(ctx context.Context, req transport.RegisterRequest) (transport.RegisterResponse, error) {
	if !validator.IsStrongPassword(req.Password) {
		return transport.RegisterResponse{}, apperr.Validation(validator.PasswordPolicy).WithReason(apperr.ReasonPasswordPolicy)
	}

	user, err := s.provider.CreateUser(ctx, idp.UserToCreate{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		s.log.AuthEvent("register", req.Email, false, err.Error())
		return transport.RegisterResponse{}, apperr.Wrap(apperr.KindValidation, msgRegisterFailed, err).WithDetails(registerDetails(err))
	}

	account := repository.Account{
		UID:          user.UID,
		Email:        user.Email,
		DisplayName:  req.DisplayName,
		ImageProfile: nonEmpty(req.ImageProfile),
	}
	if err := s.repo.Create(ctx, account); err != nil {
		s.log.DatabaseError("create account", err)
		if delErr := s.provider.DeleteUser(ctx, user.UID); delErr != nil {
			s.log.Error("failed to roll back identity", "uid", user.UID, "error", delErr)
		}
		return transport.RegisterResponse{}, err
	}

	s.log.AuthEvent("register", user.UID, true, "")
	return transport.RegisterResponse{
		UID:          user.UID,
		Email:        user.Email,
		DisplayName:  req.DisplayName,
		ImageProfile: account.ImageProfile,
	}, nil
}

func registerDetails(err error) string {
	if errors.Is(err, idp.ErrEmailExists) {
		return "The email address is already in use by another account."
	}
	return "An error occurred during user registration"
}

// Login exchanges email and password for a provider ID token.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.LoginResponse, error) {
	session, err := s.provider.SignInWithPassword(ctx, req.Email, req.Password)
	if errors.Is(err, idp.ErrInvalidCredentials) {
		s.log.AuthEvent("login", req.Email, false, apperr.ReasonInvalidCredentials)
		return transport.LoginResponse{}, apperr.Unauthorized(msgAuthFailed, apperr.ReasonInvalidCredentials)
	}
	if err != nil {
		return transport.LoginResponse{}, apperr.Upstream(msgProviderFailed, err)
	}

	user, err := s.provider.GetUser(ctx, session.UID)
	if errors.Is(err, idp.ErrUserNotFound) {
		return transport.LoginResponse{}, apperr.Unauthorized(msgAuthFailed, apperr.ReasonInvalidCredentials)
	}
	if err != nil {
		return transport.LoginResponse{}, apperr.Upstream(msgProviderFailed, err)
	}

	s.log.AuthEvent("login", user.UID, true, "")
	return transport.LoginResponse{
		Token:   session.IDToken,
		Biodata: transport.Biodata{UID: user.UID, Email: user.Email},
	}, nil
}

// Logout revokes every refresh token of uid. Outstanding ID tokens fail the
// guard's revocation check from then on.
func (s *Service) Logout(ctx context.Context, uid string) (transport.UIDResponse, error) {
	if err := s.provider.RevokeRefreshTokens(ctx, uid); err != nil {
		return transport.UIDResponse{}, apperr.Upstream(msgProviderFailed, err)
	}
	s.log.AuthEvent("logout", uid, true, "")
	return transport.UIDResponse{UID: uid}, nil
}

// Me describes the authenticated caller.
func (s *Service) Me(p *httpkit.Principal) transport.MeResponse {
	return transport.MeResponse{UID: p.UID, Email: p.EmailAddr, IssuedAt: p.IssuedAt, Claims: p.Claims}
}

func (s *Service) GetProfile(ctx context.Context, uid string) (transport.ProfileResponse, error) {
	acc, err := s.repo.GetByUID(ctx, uid)
	if err != nil {
		return transport.ProfileResponse{}, err
	}
	return transport.ProfileResponse{
		UID:          acc.UID,
		Email:        acc.Email,
		DisplayName:  acc.DisplayName,
		ImageProfile: acc.ImageProfile,
		CreatedAt:    acc.CreatedAt,
		UpdatedAt:    acc.UpdatedAt,
	}, nil
}

// EditProfile changes the display name and/or picture of the caller's own
// account. The new picture is validated first; the replaced one is deleted
// before the new one is uploaded.
func (s *Service) EditProfile(ctx context.Context, callerID, uid string, displayName *string, image *uploads.Upload) (transport.EditProfileResponse, error) {
	if err := policy.RequireOwner(uid, callerID, msgEditForbidden); err != nil {
		return transport.EditProfileResponse{}, err
	}
	if displayName == nil && image == nil {
		return transport.EditProfileResponse{}, apperr.Validation(msgNothingToUpdate)
	}
	if err := policy.CheckLengthPtr("displayName", displayName); err != nil {
		return transport.EditProfileResponse{}, err
	}
	if image != nil {
		if err := s.images.ValidateImage(*image); err != nil {
			return transport.EditProfileResponse{}, err
		}
	}

	current, err := s.repo.GetByUID(ctx, uid)
	if err != nil {
		return transport.EditProfileResponse{}, err
	}

	update := repository.AccountUpdate{DisplayName: displayName}

	if image != nil {
		if current.ImageProfile != nil && *current.ImageProfile != "" {
			if err := s.images.Remove(ctx, *current.ImageProfile); err != nil {
				return transport.EditProfileResponse{}, err
			}
		}
		obj, err := s.images.StoreImage(ctx, *image)
		if err != nil {
			return transport.EditProfileResponse{}, err
		}
		update.ImageProfile = &obj.URL
	}

	if displayName != nil {
		if _, err := s.provider.UpdateUser(ctx, uid, idp.UserToUpdate{DisplayName: displayName}); err != nil {
			return transport.EditProfileResponse{}, apperr.Upstream("Error updating profile", err)
		}
	}

	if err := s.repo.Update(ctx, uid, update); err != nil {
		return transport.EditProfileResponse{}, err
	}

	s.log.Info("profile updated", "uid", uid, "display_name", displayName != nil, "image", image != nil)
	return transport.EditProfileResponse{
		UID:          uid,
		DisplayName:  displayName,
		ImageProfile: update.ImageProfile,
	}, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
