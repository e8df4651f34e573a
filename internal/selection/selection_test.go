package selection

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anthonyjrchen/LegalClerk/internal/model"
)

func testDirectory() *Directory {
	return NewDirectory([]model.Calendar{
		{ID: "personal", Name: "Personal Calendar", Owner: model.Owner{Name: "You"}, CanEdit: true},
		{ID: "team", Name: "Team Calendar", Owner: model.Owner{Name: "Legal Team"}, CanEdit: true, IsShared: true},
		{ID: "court", Name: "Court Calendar", Owner: model.Owner{Name: "Court Admin"}, CanEdit: false, IsShared: true},
	})
}

func TestToggleTarget_PairIsIdentity(t *testing.T) {
	m := NewModel(testDirectory())
	require.True(t, m.ToggleTarget("team"))
	before := m.Selection()

	for _, id := range []string{"personal", "team", "unknown"} {
		assert.True(t, m.ToggleTarget(id))
		assert.True(t, m.ToggleTarget(id))
		assert.Equal(t, before, m.Selection(), id)
	}
}

func TestToggleTarget_Flips(t *testing.T) {
	m := NewModel(testDirectory())
	m.ToggleTarget("personal")
	assert.True(t, m.IsTarget("personal"))
	assert.False(t, m.IsReminder("personal"), "sets are independent")
	m.ToggleTarget("personal")
	assert.False(t, m.IsTarget("personal"))
}

func TestReadOnlyCalendarRejected(t *testing.T) {
	m := NewModel(testDirectory())
	m.ToggleTarget("personal")
	m.ToggleReminder("personal")
	before := m.Selection()

	assert.False(t, m.ToggleTarget("court"))
	assert.False(t, m.ToggleReminder("court"))
	assert.Equal(t, before, m.Selection())
	assert.False(t, m.IsTarget("court"))
	assert.False(t, m.IsReminder("court"))
}

func TestNilDirectoryAllowsEverything(t *testing.T) {
	m := NewModel(nil)
	assert.True(t, m.ToggleTarget("court"))
	assert.True(t, m.ToggleReminder("court"))
	assert.Equal(t, Selection{TargetCalendars: []string{"court"}, ReminderCalendars: []string{"court"}}, m.Selection())
}

func TestToggleTemplateOverride(t *testing.T) {
	m := NewModel(testDirectory())
	assert.True(t, m.ToggleTemplateOverride("civil", "team"), "first toggle yields true")

	v, ok := m.Overrides().Lookup("civil", "team")
	assert.True(t, ok)
	assert.True(t, v)
	_, ok = m.Overrides().Lookup("civil", "personal")
	assert.False(t, ok)

	assert.False(t, m.ToggleTemplateOverride("civil", "team"))
	assert.True(t, m.ToggleTemplateOverride("civil", "team"))
}

func TestToggleTemplateOverride_PairIsIdentity(t *testing.T) {
	m := NewModel(testDirectory())
	m.ToggleTemplateOverride("family", "personal")
	before := m.Overrides()

	m.ToggleTemplateOverride("civil", "team")
	m.ToggleTemplateOverride("civil", "team")
	assert.Equal(t, before, m.Overrides())

	m.ToggleTemplateOverride("family", "personal")
	m.ToggleTemplateOverride("family", "personal")
	assert.Equal(t, before, m.Overrides())
}

func TestOverridesSurviveReminderRemoval(t *testing.T) {
	m := NewModel(testDirectory())
	m.ToggleReminder("team")
	m.ToggleTemplateOverride("civil", "team")
	m.ToggleReminder("team")

	assert.False(t, m.IsReminder("team"))
	v, ok := m.Overrides().Lookup("civil", "team")
	assert.True(t, ok)
	assert.True(t, v)
}

func TestOverridesCopyIsIsolated(t *testing.T) {
	m := NewModel(nil)
	m.ToggleTemplateOverride("civil", "team")
	o := m.Overrides()
	o["civil"]["team"] = false
	o["family"] = map[string]bool{"x": true}

	v, _ := m.Overrides().Lookup("civil", "team")
	assert.True(t, v)
	assert.NotContains(t, m.Overrides(), "family")
}

func TestSelection_Sorted(t *testing.T) {
	m := NewModel(nil)
	for _, id := range []string{"c", "a", "b"} {
		m.ToggleTarget(id)
	}
	assert.Equal(t, []string{"a", "b", "c"}, m.Selection().TargetCalendars)
	assert.Equal(t, []string{}, m.Selection().ReminderCalendars)
}

func TestDirectory(t *testing.T) {
	d := testDirectory()
	assert.Len(t, d.Calendars(), 3)
	assert.Len(t, d.Editable(), 2)
	assert.True(t, d.ReadOnly("court"))
	assert.False(t, d.ReadOnly("team"))
	assert.False(t, d.ReadOnly("unknown"))

	_, err := d.Lookup("unknown")
	assert.ErrorIs(t, err, ErrCalendarNotFound)
}

func TestLoadDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendars.json")
	data := `[{"id":"1","name":"Personal","owner":"You","color":"blue","canEdit":true,"isShared":false},
	          {"id":"5","name":"Court","owner":{"name":"Court Admin","address":"court@example.com"},"color":"red","canEdit":false,"isShared":true}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	d, err := LoadDirectory(path)
	require.NoError(t, err)
	c, err := d.Lookup("5")
	require.NoError(t, err)
	assert.Equal(t, "court@example.com", c.Owner.Address)
	assert.True(t, d.ReadOnly("5"))

	empty, err := LoadDirectory("")
	require.NoError(t, err)
	assert.Empty(t, empty.Calendars())

	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err = LoadDirectory(path)
	assert.Error(t, err)
}

func TestOverrides_Receives(t *testing.T) {
	o := Overrides{"civil": {"team": true}}
	assert.True(t, o.Receives("family", "personal"), "no overrides means every reminder calendar")
	assert.True(t, o.Receives("civil", "team"))
	assert.False(t, o.Receives("civil", "personal"))
}
