package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/expressdata/internal/client/client"
	"github.com/dmitrijs2005/expressdata/internal/client/models"
	"github.com/dmitrijs2005/expressdata/internal/client/services"
	"github.com/dmitrijs2005/expressdata/internal/client/view"
)

const cancelWord = "cancel"

func (a *App) cmdAccount(ctx context.Context, _ []string) error {
	a.ShowAccount(ctx)
	return nil
}

// refreshAccount re-renders the account page when it is on screen.
func (a *App) refreshAccount(ctx context.Context) {
	if a.router.Visible(view.PanelAccount) {
		a.ShowAccount(ctx)
	}
}

// modalLoop keeps modal m open and runs submit until it succeeds or the user
// types cancel. submit reports whether the modal may close.
func (a *App) modalLoop(ctx context.Context, m view.Modal, submit func() (bool, error)) error {
	a.router.OpenModal(m)
	defer a.router.CloseModal(m)

	for a.router.ModalOpen(m) {
		done, err := submit()
		if err != nil || done {
			return err
		}
	}
	return nil
}

// prompt reads one field of a modal. cancelled is true when the user typed
// cancel.
func (a *App) prompt(label, def string) (value string, cancelled bool, err error) {
	value, err = GetOptionalText(a.reader, label+" (or 'cancel')", def, a.out)
	if err != nil {
		return "", false, err
	}
	return value, strings.EqualFold(value, cancelWord), nil
}

// updateFailure picks the notice for a rejected profile edit.
func updateFailure(err error, fallback string) string {
	if services.IsValidation(err) {
		return err.Error()
	}
	return client.Message(err, fallback)
}

// cmdPhone runs the phone-update modal: phone number and network provider.
func (a *App) cmdPhone(ctx context.Context, _ []string) error {
	user := a.currentUser()
	current := models.PurchasePhone(user)
	provider := user.Meta("network_provider", "provider")

	return a.modalLoop(ctx, view.ModalPhoneUpdate, func() (bool, error) {
		number, cancelled, err := a.prompt("Phone number", current)
		if err != nil || cancelled {
			return true, err
		}
		network, cancelled, err := a.prompt("Network provider ("+strings.Join(a.cfg.Providers, ", ")+")", provider)
		if err != nil || cancelled {
			return true, err
		}

		if _, err := a.profiles.UpdatePhone(ctx, number, network); err != nil {
			a.notify.Error(ctx, updateFailure(err, "Failed to update phone number"))
			current, provider = number, network
			return false, nil
		}
		a.router.CloseModal(view.ModalPhoneUpdate)
		a.notify.Success(ctx, "Phone number updated successfully!")
		a.refreshAccount(ctx)
		return true, nil
	})
}

// cmdProfile runs the profile-edit modal: username and phone number.
func (a *App) cmdProfile(ctx context.Context, _ []string) error {
	user := a.currentUser()
	username := user.Meta("username")
	number := models.PurchasePhone(user)

	return a.modalLoop(ctx, view.ModalProfileEdit, func() (bool, error) {
		name, cancelled, err := a.prompt("Username", username)
		if err != nil || cancelled {
			return true, err
		}
		phone, cancelled, err := a.prompt("Phone number", number)
		if err != nil || cancelled {
			return true, err
		}

		if _, err := a.profiles.UpdateProfile(ctx, name, phone); err != nil {
			a.notify.Error(ctx, updateFailure(err, "Failed to update profile"))
			username, number = name, phone
			return false, nil
		}
		a.router.CloseModal(view.ModalProfileEdit)
		a.notify.Success(ctx, "Profile updated successfully!")
		a.refreshAccount(ctx)
		return true, nil
	})
}

// cmdAvatar uploads a local image as the profile picture.
func (a *App) cmdAvatar(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return &usageError{usage: "avatar <path>"}
	}
	path := strings.Join(args, " ")

	url, err := a.avatars.Upload(ctx, path)
	switch {
	case err == nil:
		a.notify.Success(ctx, "Avatar updated successfully!")
		a.log.Info(ctx, "avatar uploaded", "url", url)
		a.refreshAccount(ctx)
	case errors.Is(err, services.ErrStorageDisabled):
		a.notify.Error(ctx, "Avatar upload is not configured")
	case errors.Is(err, os.ErrNotExist):
		a.notify.Error(ctx, fmt.Sprintf("File not found: %s", path))
	case errors.Is(err, services.ErrNotAnImage):
		a.notify.Error(ctx, "Please choose an image file")
	case errors.Is(err, services.ErrAvatarTooLarge):
		a.notify.Error(ctx, "Image must be 2 MiB or smaller")
	default:
		a.notify.Error(ctx, client.Message(err, "Failed to upload avatar"))
	}
	return nil
}

// cmdOpen handles the account entries that are not built yet.
func (a *App) cmdOpen(ctx context.Context, args []string) error {
	usage := &usageError{usage: "open <" + strings.Join(view.AccountActions, "|") + ">"}
	if len(args) != 1 {
		return usage
	}
	action := strings.ToLower(args[0])
	for _, known := range view.AccountActions {
		if action == known {
			a.notify.Info(ctx, view.ComingSoon(action))
			return nil
		}
	}
	return usage
}
