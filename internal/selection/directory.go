package selection

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Anthonyjrchen/LegalClerk/internal/model"
)

var ErrCalendarNotFound = errors.New("calendar not found")

// Directory is the already-fetched list of calendars the user can address.
type Directory struct {
	calendars []model.Calendar
	byID      map[string]int
}

func NewDirectory(calendars []model.Calendar) *Directory {
	d := &Directory{byID: make(map[string]int, len(calendars))}
	for _, c := range calendars {
		if _, dup := d.byID[c.ID]; dup {
			continue
		}
		d.byID[c.ID] = len(d.calendars)
		d.calendars = append(d.calendars, c)
	}
	return d
}

// LoadDirectory reads a JSON list of calendars. An empty path yields an
// empty directory, which places no edit restrictions on any id.
func LoadDirectory(path string) (*Directory, error) {
	if path == "" {
		return NewDirectory(nil), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calendar directory %s: %w", path, err)
	}
	var cals []model.Calendar
	if err := json.Unmarshal(data, &cals); err != nil {
		return nil, fmt.Errorf("parse calendar directory %s: %w", path, err)
	}
	return NewDirectory(cals), nil
}

// Get returns the calendar with the given id.
func (d *Directory) Get(id string) (model.Calendar, bool) {
	if d == nil {
		return model.Calendar{}, false
	}
	i, ok := d.byID[id]
	if !ok {
		return model.Calendar{}, false
	}
	return d.calendars[i], true
}

func (d *Directory) Lookup(id string) (model.Calendar, error) {
	c, ok := d.Get(id)
	if !ok {
		return model.Calendar{}, fmt.Errorf("%w: %q", ErrCalendarNotFound, id)
	}
	return c, nil
}

// Calendars returns every calendar in directory order.
func (d *Directory) Calendars() []model.Calendar {
	if d == nil {
		return nil
	}
	out := make([]model.Calendar, len(d.calendars))
	copy(out, d.calendars)
	return out
}

// Editable returns the calendars that may receive events.
func (d *Directory) Editable() []model.Calendar {
	if d == nil {
		return nil
	}
	out := make([]model.Calendar, 0, len(d.calendars))
	for _, c := range d.calendars {
		if c.CanEdit {
			out = append(out, c)
		}
	}
	return out
}

// ReadOnly reports whether id is a known calendar without edit permission.
// Unknown ids are not read-only.
func (d *Directory) ReadOnly(id string) bool {
	c, ok := d.Get(id)
	return ok && !c.CanEdit
}
