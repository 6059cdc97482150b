package tool

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoExec(args map[string]any) (string, error) {
	text, _ := args["text"].(string)
	return text, nil
}

func TestRegistry_RegisterAndResolve(t *testing.T) {
	r := NewRegistry(zerolog.Nop())

	err := r.Register(Descriptor{
		Name:        "echo",
		Description: "Repeat the given text",
		Schema:      NewSchema("echo", "Repeat the given text").AddParam("text", "string", "Text to repeat", true).Build(),
		Exec:        echoExec,
	})
	require.NoError(t, err)

	d, ok := r.Resolve("echo")
	require.True(t, ok)
	assert.Equal(t, "echo", d.Name)

	out, err := d.Exec(map[string]any{"text": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", out)

	_, ok = r.Resolve("missing")
	assert.False(t, ok)
}

func TestRegistry_EmptyNameRejected(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	err := r.Register(Descriptor{Name: "", Exec: echoExec})
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestRegistry_MissingExecutorRejected(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	err := r.Register(Descriptor{Name: "noop"})
	assert.Error(t, err)
}

func TestRegistry_DuplicateOverwrites(t *testing.T) {
	r := NewRegistry(zerolog.Nop())

	require.NoError(t, r.Register(Descriptor{Name: "echo", Exec: func(map[string]any) (string, error) { return "old", nil }}))
	require.NoError(t, r.Register(Descriptor{Name: "echo", Exec: func(map[string]any) (string, error) { return "new", nil }}))

	assert.Equal(t, 1, r.Len())
	d, _ := r.Resolve("echo")
	out, _ := d.Exec(nil)
	assert.Equal(t, "new", out)
}

func TestRegistry_DescriptorsSorted(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Register(Descriptor{Name: name, Exec: echoExec}))
	}

	ds := r.Descriptors()
	require.Len(t, ds, 3)
	assert.Equal(t, "alpha", ds[0].Name)
	assert.Equal(t, "mid", ds[1].Name)
	assert.Equal(t, "zeta", ds[2].Name)
}

func TestSchema_JSONSchema(t *testing.T) {
	s := NewSchema("add_task", "Add a task").
		AddParam("title", "string", "Task title", true).
		AddParam("priority", "string", "high, medium or low", false).
		Build()

	js := s.JSONSchema()
	assert.Equal(t, "object", js["type"])

	props, ok := js["properties"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, props, 2)

	title, ok := props["title"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", title["type"])

	assert.Equal(t, []string{"title"}, js["required"])
	assert.Equal(t, []string{"title", "priority"}, s.ParamNames())
}
