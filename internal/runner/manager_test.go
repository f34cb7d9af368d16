package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formrobot/formrobot/internal/driver"
	"github.com/formrobot/formrobot/internal/keyword"
)

// stubPage serves a single select list so suites have something to run
// keywords against.
type stubPage struct {
	options []driver.Option
}

func (p *stubPage) FindElements(locator string) ([]driver.Element, error) {
	if locator == "id:menu" {
		return []driver.Element{&stubElement{page: p}}, nil
	}
	return nil, nil
}

func (p *stubPage) URL() string { return "http://stub.test/" }

func (p *stubPage) Source() (string, error) { return "<html></html>", nil }

type stubElement struct {
	page *stubPage
}

func (e *stubElement) TagName() string                        { return "select" }
func (e *stubElement) Click() error                           { return nil }
func (e *stubElement) Submit() error                          { return nil }
func (e *stubElement) Clear() error                           { return nil }
func (e *stubElement) SendKeys(string) error                  { return nil }
func (e *stubElement) Attribute(string) (string, bool, error) { return "", false, nil }
func (e *stubElement) Text() (string, error)                  { return "", nil }
func (e *stubElement) Selected() (bool, error)                { return false, nil }
func (e *stubElement) Enabled() (bool, error)                 { return true, nil }
func (e *stubElement) SelectList() (driver.SelectList, error) {
	return &stubSelect{page: e.page}, nil
}

type stubSelect struct {
	page *stubPage
}

func (s *stubSelect) Options() ([]driver.Option, error) { return s.page.options, nil }
func (s *stubSelect) Multiple() (bool, error)           { return true, nil }
func (s *stubSelect) SelectByIndex(i int) error {
	s.page.options[i].Selected = true
	return nil
}
func (s *stubSelect) SelectByValue(value string) (bool, error) {
	return s.flip(func(o driver.Option) bool { return o.Value == value }, true), nil
}
func (s *stubSelect) SelectByLabel(label string) (bool, error) {
	return s.flip(func(o driver.Option) bool { return o.Label == label }, true), nil
}
func (s *stubSelect) DeselectAll() error {
	for i := range s.page.options {
		s.page.options[i].Selected = false
	}
	return nil
}
func (s *stubSelect) DeselectByIndex(i int) error {
	s.page.options[i].Selected = false
	return nil
}
func (s *stubSelect) DeselectByValue(value string) (bool, error) {
	return s.flip(func(o driver.Option) bool { return o.Value == value }, false), nil
}
func (s *stubSelect) DeselectByLabel(label string) (bool, error) {
	return s.flip(func(o driver.Option) bool { return o.Label == label }, false), nil
}

func (s *stubSelect) flip(match func(driver.Option) bool, selected bool) bool {
	matched := false
	for i, o := range s.page.options {
		if match(o) {
			s.page.options[i].Selected = selected
			matched = true
		}
	}
	return matched
}

func newTestManager(t *testing.T, suites map[string]string) (*Manager, *stubPage) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range suites {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(content), 0644))
	}

	page := &stubPage{
		options: []driver.Option{
			{Index: 0, Label: "Coffee", Value: "co", Selected: true},
			{Index: 1, Label: "Tea", Value: "te", Selected: true},
		},
	}
	m, err := NewManager(dir, keyword.New(page), false)
	require.NoError(t, err)
	return m, page
}

func TestLoadSuites(t *testing.T) {
	m, _ := newTestManager(t, map[string]string{
		"smoke": "version: \"1\"\nname: smoke\nsteps: []\n",
		"init":  "version: \"1\"\nname: init\nsteps: []\n",
	})

	names := m.SuiteNames()
	assert.ElementsMatch(t, []string{"smoke", "init"}, names)

	err := m.Run("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "suite 'missing' not found")
}

func TestRunSuiteWithRegisterAndVariadicExpansion(t *testing.T) {
	suite := `version: "1"
name: menu checks
steps:
  - index: 1
    keyword: GetListItems
    description: read all labels
    args: ["id:menu", "false"]
    register: labels
  - index: 2
    keyword: ListSelectionShouldBe
    args: ["id:menu", "#labels#"]
`
	m, _ := newTestManager(t, map[string]string{"menu": suite})
	require.NoError(t, m.Run("menu"))
}

func TestRunSuiteContinueOnFailure(t *testing.T) {
	suite := `version: "1"
name: flaky
steps:
  - index: 1
    keyword: ChooseFile
    args: ["id:upload", "/nonexistent/file.txt"]
    retry: 2
    continue_on_failure: true
  - index: 2
    keyword: ListShouldHaveNoSelections
    args: ["id:menu"]
`
	m, page := newTestManager(t, map[string]string{"flaky": suite})
	page.options[0].Selected = false
	page.options[1].Selected = false
	require.NoError(t, m.Run("flaky"))
}

func TestRunSuiteAbortsOnFailure(t *testing.T) {
	suite := `version: "1"
name: failing
steps:
  - index: 1
    keyword: ChooseFile
    args: ["id:upload", "/nonexistent/file.txt"]
`
	m, _ := newTestManager(t, map[string]string{"failing": suite})
	err := m.Run("failing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1 (ChooseFile) failed")
	assert.Contains(t, err.Error(), "does not exist on the local file system")
}

func TestExecuteKeywordDispatch(t *testing.T) {
	m, _ := newTestManager(t, nil)

	value, err := m.ExecuteKeyword("GetSelectedListValues", []string{"id:menu"})
	require.NoError(t, err)
	assert.Equal(t, []string{"co", "te"}, value)

	_, err = m.ExecuteKeyword("NoSuchKeyword", []string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keyword 'NoSuchKeyword' not found")

	_, err = m.ExecuteKeyword("KeywordNames", []string{})
	require.Error(t, err)

	_, err = m.ExecuteKeyword("SelectCheckbox", []string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs 1 arguments, got 0")

	_, err = m.ExecuteKeyword("GetListItems", []string{"id:menu", "not-a-bool"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot convert to boolean")
}

func TestExecuteKeywordVariadicMinimum(t *testing.T) {
	m, _ := newTestManager(t, nil)

	// Variadic keywords accept a bare locator.
	_, err := m.ExecuteKeyword("UnselectFromList", []string{"id:menu"})
	require.NoError(t, err)

	_, err = m.ExecuteKeyword("UnselectFromList", []string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs at least 1 arguments")
}

func TestExecuteKeywordUnknownVariable(t *testing.T) {
	m, _ := newTestManager(t, nil)

	_, err := m.ExecuteKeyword("SelectCheckbox", []string{"#nope#"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "variable #nope# is not set")
}

func TestSetVariable(t *testing.T) {
	m, _ := newTestManager(t, nil)
	m.SetVariable("items", []string{"co"})

	_, err := m.ExecuteKeyword("SelectFromListByValue", []string{"id:menu", "#items#"})
	require.NoError(t, err)
}
