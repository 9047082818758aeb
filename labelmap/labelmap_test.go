package labelmap

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/oidrecord/codec"
)

const pbtxt = `
item {
  name: "/m/01g317"
  id: 1
  display_name: "Person"
}
item {
  name: '/m/0199g'
  id: 2
  display_name: "Bicycle"
  keypoints { id: 0 label: "x" }
}
`

func TestNew(t *testing.T) {
	m, err := New(Entry{Name: "a", ID: 0}, Entry{Name: "b", ID: 1})
	require.NoError(t, err)

	id, ok := m.Lookup("b")
	assert.True(t, ok)
	assert.Equal(t, int64(1), id)

	_, ok = m.Lookup("c")
	assert.False(t, ok)

	name, ok := m.Name(0)
	assert.True(t, ok)
	assert.Equal(t, "a", name)
	assert.Equal(t, "a", m.DisplayName("a"))
	assert.Equal(t, 2, m.Len())
}

func TestNewRejects(t *testing.T) {
	_, err := New(Entry{Name: "a", ID: -1})
	assert.ErrorIs(t, err, ErrNegativeID)

	_, err = New(Entry{Name: "a", ID: 1}, Entry{Name: "b", ID: 1})
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = New(Entry{Name: "a", ID: 1}, Entry{Name: "a", ID: 2})
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = New(Entry{ID: 1})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestReadPbtxt(t *testing.T) {
	m, err := ReadPbtxt(strings.NewReader(pbtxt))
	require.NoError(t, err)

	assert.Equal(t, []Entry{
		{Name: "/m/01g317", ID: 1, DisplayName: "Person"},
		{Name: "/m/0199g", ID: 2, DisplayName: "Bicycle"},
	}, m.Entries())

	out, err := m.MarshalPbtxt()
	require.NoError(t, err)

	again, err := ReadPbtxt(strings.NewReader(string(out)))
	require.NoError(t, err)
	assert.Equal(t, m.Entries(), again.Entries())
}

func TestMarshalPbtxtRejectsWideIDs(t *testing.T) {
	m, err := FromMap(map[string]int64{"a": 1 << 32, "b": 5})
	require.NoError(t, err)

	_, err = m.MarshalPbtxt()
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorContains(t, err, "id of a")

	m, err = FromMap(map[string]int64{"a": math.MaxInt32})
	require.NoError(t, err)

	out, err := m.MarshalPbtxt()
	require.NoError(t, err)

	again, err := ReadPbtxt(strings.NewReader(string(out)))
	require.NoError(t, err)

	id, ok := again.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, int64(math.MaxInt32), id)
}

func TestReadPbtxtErrors(t *testing.T) {
	_, err := ReadPbtxt(strings.NewReader(`item { name: "a" }`))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = ReadPbtxt(strings.NewReader(`item { name: "a" id: -3 }`))
	assert.ErrorIs(t, err, ErrNegativeID)

	_, err = ReadPbtxt(strings.NewReader(`item {`))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestReadJSON(t *testing.T) {
	for _, c := range []codec.Codec{nil, codec.JSON{}, codec.GoJSON{}} {
		m, err := ReadJSON(strings.NewReader(`{"a": 0, "b": 1, "c": 2}`), c)
		require.NoError(t, err)
		assert.Equal(t, 3, m.Len())

		id, ok := m.Lookup("c")
		assert.True(t, ok)
		assert.Equal(t, int64(2), id)
	}

	_, err := ReadJSON(strings.NewReader(`{"a": 0, "b": 0}`), nil)
	assert.ErrorIs(t, err, ErrDuplicateID)

	m, err := FromMap(map[string]int64{"b": 1, "a": 0})
	require.NoError(t, err)
	b, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":0,"b":1}`, string(b))
}

func TestReadClassDescriptions(t *testing.T) {
	in := "/m/011k07,Tortoise\n/m/011q46kg,Container\n\n/m/012074,\"Magpie, common\"\n"

	m, err := ReadClassDescriptions(strings.NewReader(in), 1)
	require.NoError(t, err)

	assert.Equal(t, []Entry{
		{Name: "/m/011k07", ID: 1, DisplayName: "Tortoise"},
		{Name: "/m/011q46kg", ID: 2, DisplayName: "Container"},
		{Name: "/m/012074", ID: 3, DisplayName: "Magpie, common"},
	}, m.Entries())

	_, err = ReadClassDescriptions(strings.NewReader(in), -1)
	assert.ErrorIs(t, err, ErrNegativeID)

	_, err = ReadClassDescriptions(strings.NewReader("a,x\na,y\n"), 0)
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
		return p
	}

	m, err := Load(write("map.pbtxt", pbtxt))
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())

	m, err = Load(write("map.json", `{"x": 4}`))
	require.NoError(t, err)
	id, _ := m.Lookup("x")
	assert.Equal(t, int64(4), id)

	m, err = Load(write("classes.csv", "a,A\nb,B\n"))
	require.NoError(t, err)
	id, _ = m.Lookup("b")
	assert.Equal(t, int64(2), id)

	_, err = Load(write("map.yaml", ""))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
