package view

// FlashKind selects the banner style shown after a redirect
// (newsletter signup, cart changes without JavaScript).
type FlashKind string

const (
	FlashInfo    FlashKind = "info"
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Normalized maps anything the storefront does not style to FlashInfo.
func (k FlashKind) Normalized() FlashKind {
	switch k {
	case FlashSuccess, FlashError:
		return k
	default:
		return FlashInfo
	}
}

// Flash is the one-shot message carried in the signed flash cookie.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// Role is the ARIA role for the banner; failures interrupt screen readers.
func (f Flash) Role() string {
	if f.Kind.Normalized() == FlashError {
		return "alert"
	}
	return "status"
}
