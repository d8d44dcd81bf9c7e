package modswap

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/example/modswap/internal/modswap/config"
	"github.com/example/modswap/internal/modswap/storage"
)

// Direction selects which way a toggle moves entries.
type Direction int

const (
	// Disable moves entries from the active root into the backup root.
	Disable Direction = iota
	// Enable moves entries from the backup root back into the active root.
	Enable
)

func (d Direction) String() string {
	if d == Enable {
		return "enable"
	}
	return "disable"
}

// Target returns the status persisted after a toggle in this direction.
func (d Direction) Target() config.Status {
	if d == Enable {
		return config.StatusEnabled
	}
	return config.StatusDisabled
}

// Outcome is what happened to a single entry.
type Outcome int

const (
	Moved Outcome = iota
	Skipped
	NotFound
	Errored
	Invalid
)

func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case Skipped:
		return "skipped"
	case NotFound:
		return "not found"
	case Errored:
		return "errored"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// EntryResult records the handling of one configured path.
type EntryResult struct {
	Path        string
	Source      string
	Destination string
	Kind        storage.Kind
	Outcome     Outcome
	Err         error
}

// Report collects the per-entry results of one toggle.
type Report struct {
	Direction Direction
	Entries   []EntryResult
	// Status is the status persisted after the run. It is unchanged when
	// the configuration lists no entries.
	Status  config.Status
	Saved   bool
	SaveErr error
}

// Count returns the number of entries with the given outcome.
func (r *Report) Count(outcome Outcome) int {
	n := 0
	for _, entry := range r.Entries {
		if entry.Outcome == outcome {
			n++
		}
	}
	return n
}

// Err aggregates every entry failure and the save failure, or returns nil.
// Skipped and not-found entries are not failures.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, entry := range r.Entries {
		if entry.Outcome == Errored || entry.Outcome == Invalid {
			result = multierror.Append(result, fmt.Errorf("%s: %w", entry.Path, entry.Err))
		}
	}
	if r.SaveErr != nil {
		result = multierror.Append(result, r.SaveErr)
	}
	return result.ErrorOrNil()
}

// Messages renders the report as severity-tagged status lines.
func (r *Report) Messages() []Message {
	if len(r.Entries) == 0 {
		return []Message{Warning("No mod paths configured. Nothing to do.")}
	}

	messages := make([]Message, 0, len(r.Entries)+2)
	for _, entry := range r.Entries {
		messages = append(messages, r.entryMessage(entry))
	}

	verb := "disabled"
	if r.Direction == Enable {
		verb = "enabled"
	}
	summary := Format(SeveritySuccess, "Mods %s: %d moved, %d skipped, %d not found, %d failed.",
		verb, r.Count(Moved), r.Count(Skipped), r.Count(NotFound), r.Count(Errored)+r.Count(Invalid))
	if r.Count(Errored)+r.Count(Invalid) > 0 {
		summary.Severity = SeverityWarning
	}
	messages = append(messages, summary)

	if r.SaveErr != nil {
		messages = append(messages, Error("Failed to save mod status: %v", r.SaveErr))
	} else if r.Saved {
		messages = append(messages, Info("Mod status saved: %s", r.Status))
	}
	return messages
}

func (r *Report) entryMessage(entry EntryResult) Message {
	noun := "File"
	if entry.Kind == storage.KindDir {
		noun = "Folder"
	}

	switch entry.Outcome {
	case Moved:
		if r.Direction == Enable {
			return Success("%s restored: %s", noun, entry.Path)
		}
		return Success("%s backed up: %s", noun, entry.Path)
	case Skipped:
		return Info("Skipped %s: %s", strings.ToLower(noun), entry.Path)
	case NotFound:
		if r.Direction == Enable {
			return Warning("Missing in backup: %s", entry.Path)
		}
		return Warning("Not found: %s", entry.Path)
	case Invalid:
		return Error("Invalid path '%s': %v", entry.Path, entry.Err)
	default:
		if r.Direction == Enable {
			return Error("Error restoring '%s': %v", entry.Path, entry.Err)
		}
		return Error("Error backing up '%s': %v", entry.Path, entry.Err)
	}
}
