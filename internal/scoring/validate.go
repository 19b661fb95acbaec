package scoring

import (
	"net/url"
	"path"
	"strings"

	"scrape-validator/internal/model"
)

// Validation is the outcome of the local shape and provenance checks for one submission.
type Validation struct {
	FormatFault bool
	FakeFault   bool
	SeenIDs     map[string]struct{}
	Faults      []Fault
}

// Validate checks every item of a submission, collecting all faults rather
// than stopping at the first one.
func Validate(sub model.Submission) Validation {
	v := Validation{SeenIDs: make(map[string]struct{}, len(sub))}
	for i, it := range sub {
		if strings.TrimSpace(it.ID) == "" {
			v.addFormat(i, "missing id")
		}
		if strings.TrimSpace(it.Text) == "" {
			v.addFormat(i, "missing text")
		}
		if strings.TrimSpace(it.Timestamp) == "" {
			v.addFormat(i, "missing timestamp")
		} else if _, err := model.ParseTimestamp(it.Timestamp); err != nil {
			v.addFormat(i, "unreadable timestamp %q", it.Timestamp)
		}

		if it.ID == "" {
			continue
		}
		if _, dup := v.SeenIDs[it.ID]; dup {
			v.addFake(i, "id %s repeated within submission", it.ID)
		} else {
			v.SeenIDs[it.ID] = struct{}{}
		}
		if reason, ok := checkProvenance(it); !ok {
			v.addFake(i, "%s", reason)
		}
	}
	return v
}

func (v *Validation) addFormat(i int, format string, args ...any) {
	v.FormatFault = true
	v.Faults = append(v.Faults, fault(i, ErrFormat, format, args...))
}

func (v *Validation) addFake(i int, format string, args ...any) {
	v.FakeFault = true
	v.Faults = append(v.Faults, fault(i, ErrAuthenticity, format, args...))
}

// checkProvenance requires the item id to be the final path segment of its url.
func checkProvenance(it model.Item) (string, bool) {
	if !strings.Contains(it.URL, it.ID) {
		return "id " + it.ID + " not found in url " + it.URL, false
	}
	u, err := url.Parse(it.URL)
	if err != nil {
		return "unparseable url " + it.URL, false
	}
	if last := path.Base(strings.TrimRight(u.Path, "/")); last != it.ID {
		return "id/url mismatch: " + it.URL, false
	}
	return "", true
}
