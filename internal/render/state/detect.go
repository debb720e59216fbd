package state

import (
	"os"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/config"
)

const (
	ActionRender = "render"
	ActionSkip   = "skip"

	ReasonForced        = "forced"
	ReasonNew           = "new sign"
	ReasonConfigChanged = "config changed"
	ReasonInputChanged  = "input changed"
	ReasonOutputMissing = "output missing"
	ReasonUpToDate      = "up to date"
)

// Decision describes the action to take for a single sign.
type Decision struct {
	Sign   string
	Action string
	Reason string
}

// DetectChanges determines which signs need re-rendering by comparing
// current inputs against the stored render state.
func DetectChanges(rs *RunState, cfg config.Config, inputs []Inputs, force bool) []Decision {
	decisions := make([]Decision, len(inputs))

	if force {
		for i, in := range inputs {
			decisions[i] = Decision{Sign: in.Sign, Action: ActionRender, Reason: ReasonForced}
		}
		return decisions
	}

	if ConfigHash(cfg) != rs.ConfigHash {
		for i, in := range inputs {
			decisions[i] = Decision{Sign: in.Sign, Action: ActionRender, Reason: ReasonConfigChanged}
		}
		return decisions
	}

	for i, in := range inputs {
		prior, exists := rs.Signs[in.Sign]
		if !exists {
			decisions[i] = Decision{Sign: in.Sign, Action: ActionRender, Reason: ReasonNew}
			continue
		}

		if InputsHash(in) != prior.InputsHash {
			decisions[i] = Decision{Sign: in.Sign, Action: ActionRender, Reason: ReasonInputChanged}
			continue
		}

		if _, err := os.Stat(prior.OutputPath); os.IsNotExist(err) {
			decisions[i] = Decision{Sign: in.Sign, Action: ActionRender, Reason: ReasonOutputMissing}
			continue
		}

		decisions[i] = Decision{Sign: in.Sign, Action: ActionSkip, Reason: ReasonUpToDate}
	}

	return decisions
}

// Prune removes signs from the render state that are not in the current run.
func Prune(rs *RunState, current map[string]bool) {
	for sign := range rs.Signs {
		if !current[sign] {
			delete(rs.Signs, sign)
		}
	}
}
