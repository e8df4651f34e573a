package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anthonyjrchen/LegalClerk/internal/model"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.Equal(t, 3, c.Len())

	civil, ok := c.Get("1")
	require.True(t, ok)
	assert.Equal(t, "Civil Litigation Package", civil.Name)
	require.Len(t, civil.Deadlines, 3)
	assert.Equal(t, "File Statement of Defense", civil.Deadlines[0].DeadlineName)
	assert.Equal(t, 21, civil.Deadlines[0].DaysBefore)
	assert.True(t, civil.Deadlines[0].IsBusinessDays)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestLookup(t *testing.T) {
	_, err := Default().Lookup("nope")
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	tpl, err := Default().Lookup("3")
	require.NoError(t, err)
	assert.Equal(t, "Criminal Defense Package", tpl.Name)
}

func TestNew_DuplicateReplacesInPlace(t *testing.T) {
	c := New(
		model.Template{ID: "a", Name: "first"},
		model.Template{ID: "b", Name: "second"},
		model.Template{ID: "a", Name: "replaced"},
	)
	tpls := c.Templates()
	require.Len(t, tpls, 2)
	assert.Equal(t, "replaced", tpls[0].Name)
	assert.Equal(t, "second", tpls[1].Name)
}

func TestTemplates_ReturnsCopy(t *testing.T) {
	c := Default()
	tpls := c.Templates()
	tpls[0].Name = "mutated"
	again, _ := c.Get("1")
	assert.Equal(t, "Civil Litigation Package", again.Name)
}

func TestParse_JSONList(t *testing.T) {
	data := `[
	  {"id":"t1","template_name":"Motions","description":"d","deadlines":[
	    {"id":"r1","deadline_name":"Serve Motion Record","days_before":10,"is_business_days":false,"reference_type":"custom_reference","custom_reference_name":"Hearing"},
	    {"id":"r2","deadline_name":"Pre-trial brief","days_before":7,"is_business_days":true,"reference_type":"trial_date"}
	  ]}
	]`
	c, err := Parse([]byte(data))
	require.NoError(t, err)
	tpl, ok := c.Get("t1")
	require.True(t, ok)
	require.Len(t, tpl.Deadlines, 2)
	assert.Equal(t, model.ReferenceCustom, tpl.Deadlines[0].ReferenceType)
	assert.Equal(t, "Hearing", tpl.Deadlines[0].CustomReferenceName)
	assert.Equal(t, "r2", tpl.Deadlines[1].ID)
}

func TestParse_YAMLDocument(t *testing.T) {
	data := `
templates:
  - id: z
    template_name: Appeal
    deadlines:
      - id: z1
        deadline_name: Notice of Appeal
        days_before: 30
        reference_type: trial_date
  - id: a
    template_name: Costs
`
	c, err := Parse([]byte(data))
	require.NoError(t, err)
	tpls := c.Templates()
	require.Len(t, tpls, 2)
	assert.Equal(t, "z", tpls[0].ID, "file order is preserved")
	assert.Equal(t, "a", tpls[1].ID)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("templates: [\n"))
	assert.Error(t, err)

	c, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- id: only\n  template_name: Only\n"), 0o600))
	c, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	_, ok := c.Get("1")
	assert.False(t, ok)
	assert.Nil(t, c.Templates())
	assert.Equal(t, 0, c.Len())
}
