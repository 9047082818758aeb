package annotation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const boxesWithAttributes = `ImageID,Source,LabelName,Confidence,XMin,XMax,YMin,YMax,IsOccluded,IsTruncated,IsGroupOf,IsDepiction,IsInside
i1,xclick,a,1,0.1,0.2,0.3,0.3,0,0,0,1,0
i1,xclick,a,1,0.3,0.3,0.6,0.6,1,0,0,0,0
i1,xclick,b,1,0.7,0.8,0.8,1,1,0,0,0,0
i1,xclick,b,1,0.0,0.5,0.1,0.8,0,1,0,0,0
i2,xclick,b,1,0.1,0.9,0.0,0.8,0,0,0,0,0
i2,xclick,c,1,0.1,0.9,0.0,0.8,0,0,1,0,0
`

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(boxesWithAttributes))
	require.NoError(t, err)

	assert.True(t, table.HasAttributes)
	require.Equal(t, 6, table.Len())
	assert.Equal(t, Row{
		ImageID: "i1", LabelName: "a",
		XMin: 0.1, XMax: 0.2, YMin: 0.3, YMax: 0.3,
		Attributes: Attributes{Depiction: 1},
	}, table.Rows[0])
	assert.Equal(t, int64(1), table.Rows[5].Attributes.GroupOf)
	assert.Equal(t, []string{"i1", "i2"}, table.ImageIDs())
}

func TestReadCSVWithoutAttributes(t *testing.T) {
	in := "LabelName,ImageID,YMin,YMax,XMin,XMax\nb,i2,0.0,0.8,0.1,0.9\n"

	table, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.False(t, table.HasAttributes)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, Row{ImageID: "i2", LabelName: "b", XMin: 0.1, XMax: 0.9, YMin: 0, YMax: 0.8}, table.Rows[0])
}

func TestReadCSVErrors(t *testing.T) {
	t.Run("partial attributes", func(t *testing.T) {
		in := "ImageID,LabelName,XMin,XMax,YMin,YMax,IsOccluded,IsTruncated\n"
		_, err := ReadCSV(strings.NewReader(in))
		assert.ErrorIs(t, err, ErrPartialAttributes)
	})

	t.Run("missing column", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("ImageID,LabelName,XMin,XMax,YMin\n"))
		assert.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("bad float", func(t *testing.T) {
		in := "ImageID,LabelName,XMin,XMax,YMin,YMax\ni1,a,0.1,oops,0,1\n"
		_, err := ReadCSV(strings.NewReader(in))

		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, 2, perr.Line)
		assert.Equal(t, ColumnXMax, perr.Column)
	})

	t.Run("short record", func(t *testing.T) {
		in := "ImageID,LabelName,XMin,XMax,YMin,YMax\ni1,a,0.1\n"
		_, err := ReadCSV(strings.NewReader(in))

		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, 2, perr.Line)
		assert.Equal(t, ColumnXMax, perr.Column)
	})

	t.Run("quoted field spanning lines", func(t *testing.T) {
		in := "ImageID,LabelName,XMin,XMax,YMin,YMax\n" +
			"i1,\"two\nline\",0.1,0.2,0,1\n" +
			"i2,a,0.1,0.2,0,oops\n"
		_, err := ReadCSV(strings.NewReader(in))

		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, 4, perr.Line)
		assert.Equal(t, ColumnYMax, perr.Column)
	})
}

func TestGroups(t *testing.T) {
	table := &Table{
		HasAttributes: true,
		Rows: []Row{
			{ImageID: "i2", LabelName: "x"},
			{ImageID: "i1", LabelName: "a"},
			{ImageID: "i2", LabelName: "y"},
			{ImageID: "i1", LabelName: "b"},
		},
	}

	groups := table.Groups()
	require.Len(t, groups, 2)

	assert.Equal(t, "i2", groups[0].ImageID)
	assert.True(t, groups[0].HasAttributes)
	assert.Equal(t, "x", groups[0].Rows[0].LabelName)
	assert.Equal(t, "y", groups[0].Rows[1].LabelName)

	assert.Equal(t, "i1", groups[1].ImageID)
	assert.Equal(t, "a", groups[1].Rows[0].LabelName)
	assert.Equal(t, "b", groups[1].Rows[1].LabelName)

	assert.Empty(t, (&Table{}).Groups())
}
