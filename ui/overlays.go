package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies a toggleable layer.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayEmotionPanel OverlayID = "emotion_panel"
	OverlayStatusPanel  OverlayID = "status_panel"
	OverlayDebugBadge   OverlayID = "debug_badge"
	OverlayBackdrop     OverlayID = "backdrop"
	OverlayPreview      OverlayID = "preview"
)

// OverlayDescriptor defines a layer that can be toggled.
type OverlayDescriptor struct {
	ID       OverlayID
	Name     string
	Key      int32  // Keyboard key to toggle (0 = no key)
	KeyLabel string // Key label for display (e.g., "E")
	Category string // "panels" or "layers"
	Default  bool
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the standard overlays at their
// defaults.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.Register(OverlayDescriptor{ID: OverlayEmotionPanel, Name: "Emotions", Key: rl.KeyE, KeyLabel: "E", Category: "panels", Default: true})
	reg.Register(OverlayDescriptor{ID: OverlayStatusPanel, Name: "Status", Key: rl.KeyS, KeyLabel: "S", Category: "panels", Default: true})
	reg.Register(OverlayDescriptor{ID: OverlayDebugBadge, Name: "Debug Badge", Key: rl.KeyD, KeyLabel: "D", Category: "panels"})
	reg.Register(OverlayDescriptor{ID: OverlayBackdrop, Name: "Backdrop", Key: rl.KeyB, KeyLabel: "B", Category: "layers", Default: true})
	reg.Register(OverlayDescriptor{ID: OverlayPreview, Name: "Camera Preview", Key: rl.KeyV, KeyLabel: "V", Category: "layers", Default: true})
	return reg
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off and returns the new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	if _, ok := r.byID[id]; ok {
		r.enabled[id] = enabled
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}

// HandleInput toggles every overlay whose key was pressed this frame and
// reports whether anything changed.
func (r *OverlayRegistry) HandleInput() bool {
	changed := false
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
			changed = true
		}
	}
	return changed
}
