package activity

// Known status values. Status is an open string; these are the ones the
// dashboard colours.
const (
	StatusOngoing     = "Ongoing"
	StatusCompleted   = "Completed"
	StatusCancelled   = "Cancelled"
	StatusPending     = "PENDING"
	StatusTentative   = "TENTATIVE"
	StatusPostponed   = "Postponed"
	StatusRescheduled = "Rescheduled"
)

// DefaultStatus is applied when an activity arrives without one.
const DefaultStatus = StatusPending

// Tone is the display colour family for a status.
type Tone string

const (
	ToneBlue   Tone = "blue"
	ToneGreen  Tone = "green"
	ToneRed    Tone = "red"
	ToneYellow Tone = "yellow"
	TonePurple Tone = "purple"
	ToneGray   Tone = "gray"
)

var statusTones = map[string]Tone{
	StatusOngoing:     ToneBlue,
	StatusCompleted:   ToneGreen,
	StatusCancelled:   ToneRed,
	StatusTentative:   ToneRed,
	StatusPending:     ToneRed,
	StatusPostponed:   ToneYellow,
	StatusRescheduled: TonePurple,
}

// ToneFor maps a status to its colour. Matching is exact, like the labels the
// dashboard renders; anything else is gray.
func ToneFor(status string) Tone {
	if tone, ok := statusTones[status]; ok {
		return tone
	}
	return ToneGray
}
