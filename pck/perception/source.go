package perception

// Source is a pollable event channel: a camera, a microphone, a message
// inbox. The runtime calls Check once per cycle; a source returns the
// events observed since the previous check, or an empty slice.
//
// Implementations own their device handles and internal comparison state
// (e.g. the previous camera frame). They must not block beyond the single
// poll they represent.
type Source interface {
	Name() string
	Check() ([]Event, error)
}
