package diagnostics

import "fmt"

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

// Codes pushed to diagnostic clients.
const (
	ConfigApplied   = "CONFIG.APPLIED"
	ConfigMalformed = "CONFIG.MALFORMED"
	ConfigDropped   = "CONFIG.DROPPED"
	ConfigPersist   = "CONFIG.PERSIST"
	DriverWrite     = "DRIVER.WRITE"
	ClockMissing    = "CLOCK.UNAVAILABLE"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Code, d.Summary)
}

// Malformed reports a config payload that was dropped.
func Malformed(payload []byte, err error) Diagnostic {
	return Diagnostic{
		Severity: Warn,
		Code:     ConfigMalformed,
		Summary:  "Config update dropped",
		Detail:   err.Error(),
		LikelyCauses: []string{
			"companion sent a non-integer or out of range colour",
			"payload carries none of COLOR_KEY, BG_KEY",
		},
		SuggestedFixes: []string{`send {"COLOR_KEY": 65535, "BG_KEY": 0}`},
		Evidence:       map[string]any{"payload": string(payload)},
	}
}

// Persist reports a slot write that failed; the value still applies until
// the next restart.
func Persist(key string, err error) Diagnostic {
	return Diagnostic{
		Severity:       Err,
		Code:           ConfigPersist,
		Summary:        "Config not saved",
		Detail:         err.Error(),
		LikelyCauses:   []string{"state file directory is read-only or full"},
		SuggestedFixes: []string{"check -state path permissions"},
		Evidence:       map[string]any{"key": key},
	}
}

// DriverFailed reports a frame write error on a named output.
func DriverFailed(name string, err error) Diagnostic {
	return Diagnostic{
		Severity: Err,
		Code:     DriverWrite,
		Summary:  "Frame write failed",
		Detail:   err.Error(),
		Evidence: map[string]any{"driver": name},
	}
}

// Dropped reports control updates the face never saw because its event
// queue was full.
func Dropped(total, dropped int) Diagnostic {
	return Diagnostic{
		Severity:       Warn,
		Code:           ConfigDropped,
		Summary:        "Config update not queued",
		LikelyCauses:   []string{"face loop is stalled or the companion is sending faster than the frame rate"},
		SuggestedFixes: []string{"resend the update", "raise -queue"},
		Evidence:       map[string]any{"updates": total, "dropped": dropped},
	}
}

// ClockUnavailable reports that the face stopped because local time could
// not be read.
func ClockUnavailable(err error) Diagnostic {
	return Diagnostic{
		Severity:       Err,
		Code:           ClockMissing,
		Summary:        "Face stopped: no local time",
		Detail:         err.Error(),
		LikelyCauses:   []string{"clock source returned no time", "time zone database missing"},
		SuggestedFixes: []string{"check the host clock and TZ setting"},
	}
}
