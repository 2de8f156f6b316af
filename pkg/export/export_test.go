package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Title:   "Study plan 2026-03-02",
		Headers: []string{"Start", "End", "Title"},
		Rows: [][]string{
			{"09:00", "09:45", "Algebra II"},
			{"10:00", "10:45"},
		},
	}
}

func TestRenderCSV(t *testing.T) {
	payload, err := RenderCSV(sampleTable())
	require.NoError(t, err)

	assert.Contains(t, string(payload), "Start,End,Title")
	assert.Contains(t, string(payload), "09:00,09:45,Algebra II")
	// Short rows are padded to the header width.
	assert.Contains(t, string(payload), "10:00,10:45,")
}

func TestRenderCSVNoHeaders(t *testing.T) {
	_, err := RenderCSV(Table{})
	require.Error(t, err)
}

func TestRenderPDF(t *testing.T) {
	payload, err := RenderPDF(sampleTable())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}
