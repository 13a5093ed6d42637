// Package lifecycle derives the current phase of a scheduled shuttle trip from
// the day's check-ins and leg logs.
package lifecycle

import "shuttle-service/internal/model"

type State string

const (
	StateCancelled   State = "CANCELLED"
	StateComplete    State = "COMPLETE"
	StateTransitRet  State = "TRANSIT_RET"
	StateStage2      State = "STAGE_2"
	StateTransitOut  State = "TRANSIT_OUT"
	StateStage1      State = "STAGE_1"
	StateUnconfirmed State = "UNCONFIRMED"
	StateScheduled   State = "SCHEDULED"
)

// Tone is the severity tag the display layer styles a state with.
type Tone string

const (
	ToneMuted   Tone = "muted"
	ToneSuccess Tone = "success"
	ToneInfo    Tone = "info"
	TonePrimary Tone = "primary"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
	ToneNeutral Tone = "neutral"
)

type stateMeta struct {
	label string
	short string
	tone  Tone
}

var states = map[State]stateMeta{
	StateCancelled:   {label: "Cancelled", short: "Cancelled", tone: ToneMuted},
	StateComplete:    {label: "Complete", short: "Done", tone: ToneSuccess},
	StateTransitRet:  {label: "In Transit (Return)", short: "In Transit (Return)", tone: ToneInfo},
	StateStage2:      {label: "At Site", short: "At Site", tone: TonePrimary},
	StateTransitOut:  {label: "In Transit (Out)", short: "In Transit (Out)", tone: ToneInfo},
	StateStage1:      {label: "At Hotel", short: "At Hotel", tone: ToneWarning},
	StateUnconfirmed: {label: "Unconfirmed", short: "Unconfirmed", tone: ToneDanger},
	StateScheduled:   {label: "Scheduled", short: "Scheduled", tone: ToneNeutral},
}

// AllStates lists every state in resolution priority order.
func AllStates() []State {
	return []State{
		StateCancelled,
		StateComplete,
		StateTransitRet,
		StateStage2,
		StateTransitOut,
		StateStage1,
		StateUnconfirmed,
		StateScheduled,
	}
}

func (s State) Valid() bool {
	_, ok := states[s]
	return ok
}

func (s State) Label() string {
	return states[s].label
}

func (s State) ShortLabel() string {
	return states[s].short
}

func (s State) Tone() Tone {
	return states[s].tone
}

// carriesPax reports whether a state can have recorded passengers.
func (s State) carriesPax() bool {
	switch s {
	case StateCancelled, StateScheduled, StateUnconfirmed, StateStage1:
		return false
	}
	return true
}

// TripLifecycle is the derived state of one scheduled trip. It is recomputed on
// every refresh and never stored.
type TripLifecycle struct {
	State      State             `json:"state"`
	Label      string            `json:"label"`
	ShortLabel string            `json:"short_label"`
	Tone       Tone              `json:"tone"`
	AMPax      int               `json:"am_pax"`
	PMPax      int               `json:"pm_pax"`
	TotalPax   int               `json:"total_pax"`
	CheckIn    *model.BusCheckIn `json:"check_in,omitempty"`
	Outbound   *model.LogEntry   `json:"outbound,omitempty"`
	Return     *model.LogEntry   `json:"return,omitempty"`
}
