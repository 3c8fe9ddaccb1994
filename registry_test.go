package membership

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constAbility(v bool) Ability {
	return func(context.Context, *Request) (bool, error) { return v, nil }
}

func TestRegistry_DefinedWinsOverBooted(t *testing.T) {
	r := NewRegistry()
	r.replaceBooted(map[string]Ability{"posts.edit": constAbility(false), "posts.read": constAbility(false)})
	r.Define("posts.edit", constAbility(true))

	a, ok := r.Get("posts.edit")
	require.True(t, ok)
	allowed, err := a(context.Background(), &Request{})
	require.NoError(t, err)
	assert.True(t, allowed)

	assert.Equal(t, []string{"posts.edit", "posts.read"}, r.Handles())
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_DefinedSurvivesReboot(t *testing.T) {
	r := NewRegistry()
	r.Define("reports.export", constAbility(true))
	r.replaceBooted(map[string]Ability{"posts.read": constAbility(true)})
	r.replaceBooted(map[string]Ability{})

	assert.True(t, r.Has("reports.export"))
	assert.False(t, r.Has("posts.read"))
	assert.Equal(t, []string{"reports.export"}, r.Handles())
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			r.Define(fmt.Sprintf("h.%d", i), constAbility(true))
		}(i)
		go func() {
			defer wg.Done()
			r.replaceBooted(map[string]Ability{"b": constAbility(true)})
			_ = r.Handles()
		}()
	}
	wg.Wait()

	assert.Equal(t, 21, r.Len())
}
