// Package view holds the screen state of the terminal storefront and the
// text renderers for its panels.
package view

import (
	"sort"
	"sync"
)

// Panel is one of the full-screen views. Exactly one is visible at a time.
type Panel int

const (
	PanelNone Panel = iota
	PanelCatalog
	PanelProviderDetail
	PanelAccount
	PanelOrderDetail
	PanelAuth
)

func (p Panel) String() string {
	switch p {
	case PanelCatalog:
		return "catalog"
	case PanelProviderDetail:
		return "provider"
	case PanelAccount:
		return "account"
	case PanelOrderDetail:
		return "order"
	case PanelAuth:
		return "auth"
	default:
		return "none"
	}
}

// Modal is an overlay. Modals open and close independently of panels and of
// each other.
type Modal int

const (
	ModalPhoneUpdate Modal = iota + 1
	ModalProfileEdit
	ModalRecipientPhone
)

func (m Modal) String() string {
	switch m {
	case ModalPhoneUpdate:
		return "phone-update"
	case ModalProfileEdit:
		return "profile-edit"
	case ModalRecipientPhone:
		return "recipient-phone"
	default:
		return "unknown"
	}
}

// Router tracks which panel and modals are visible and whether the boot
// overlay is still up. It is safe for concurrent use.
type Router struct {
	mu      sync.Mutex
	current Panel
	modals  map[Modal]bool
	booting bool
}

func NewRouter() *Router {
	return &Router{modals: make(map[Modal]bool), booting: true}
}

// Show makes p the only visible panel.
func (r *Router) Show(p Panel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = p
}

func (r *Router) Current() Panel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Router) Visible(p Panel) bool {
	return p != PanelNone && r.Current() == p
}

func (r *Router) OpenModal(m Modal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modals[m] = true
}

// CloseModal hides m and reports whether it was open.
func (r *Router) CloseModal(m Modal) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	was := r.modals[m]
	delete(r.modals, m)
	return was
}

func (r *Router) ModalOpen(m Modal) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.modals[m]
}

// OpenModals lists the visible modals in a stable order.
func (r *Router) OpenModals() []Modal {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Modal, 0, len(r.modals))
	for m := range r.modals {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *Router) Booting() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booting
}

// HideBootOverlay takes the boot overlay down and reports whether it was up.
func (r *Router) HideBootOverlay() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	was := r.booting
	r.booting = false
	return was
}
