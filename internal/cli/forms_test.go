package cli

import (
	"testing"

	"github.com/alexanderramin/crewplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignFormValues_Apply(t *testing.T) {
	f := assignFlags{project: "PRJ-2024-0001"}
	v := assignFormValues{
		resource:   "r-1",
		start:      "2024-03-04",
		end:        "2024-03-08",
		travelOut:  "1",
		travelBack: "",
		notes:      "  night shift ",
	}

	require.NoError(t, v.apply(&f))
	assert.Equal(t, "PRJ-2024-0001", f.project, "flag values the form did not ask for are kept")
	assert.Equal(t, "r-1", f.resource)
	assert.Equal(t, testutil.MustDate("2024-03-04"), f.start)
	assert.Equal(t, testutil.MustDate("2024-03-08"), f.end)
	assert.Equal(t, 1, f.travelOut)
	assert.Equal(t, 0, f.travelBack)
	assert.Equal(t, "night shift", f.notes)
}

func TestAssignFormValues_ApplyRejectsBadInput(t *testing.T) {
	f := assignFlags{}
	assert.Error(t, assignFormValues{start: "March 4"}.apply(&f))
	assert.Error(t, assignFormValues{travelOut: "-2"}.apply(&f))
}

func TestFormValidators(t *testing.T) {
	assert.NoError(t, validateDate("2024-02-29"))
	assert.Error(t, validateDate(""))
	assert.Error(t, validateDate("2024-02-30"))

	assert.NoError(t, validateNonNegativeInt(""))
	assert.NoError(t, validateNonNegativeInt("3"))
	assert.Error(t, validateNonNegativeInt("-1"))
	assert.Error(t, validateNonNegativeInt("two"))
}
