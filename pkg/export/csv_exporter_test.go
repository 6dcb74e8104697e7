package export

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()
	content, err := exporter.Render(Dataset{
		Headers: []string{"ID", "Title"},
		Rows: []map[string]string{
			{"ID": "1", "Title": "First"},
			{"ID": "2", "Title": "Second, with comma"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "ID,Title\n1,First\n2,\"Second, with comma\"\n", string(content))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Dataset{})
	require.Error(t, err)
}
