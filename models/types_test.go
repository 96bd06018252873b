package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListColumn(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan([]byte(`["go","sql"]`)))
	assert.Equal(t, StringList{"go", "sql"}, l)

	require.NoError(t, l.Scan(`["x"]`))
	assert.Equal(t, StringList{"x"}, l)
	assert.Error(t, l.Scan(42))

	v, err := StringList{"a", "b"}.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte(`["a","b"]`), v)
}

func TestNewStringList(t *testing.T) {
	assert.Equal(t, StringList{}, NewStringList(nil))

	src := []string{"a"}
	l := NewStringList(src)
	src[0] = "b"
	assert.Equal(t, StringList{"a"}, l)

	v, err := NewStringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), v)
}

func TestProfileFieldsApply(t *testing.T) {
	name := "alice"
	role := RoleAdmin
	seen := true
	skills := []string{"design"}

	var p UserProfile
	cols := ProfileFields{Username: &name, Role: &role, IntroSeen: &seen, Skills: &skills}.Apply(&p)

	assert.ElementsMatch(t, []string{"username", "role", "intro_seen", "skills"}, cols)
	assert.Equal(t, "alice", *p.Username)
	assert.Equal(t, RoleAdmin, p.Role)
	assert.True(t, p.IntroSeen)
	assert.Equal(t, StringList{"design"}, p.Skills)
	assert.Empty(t, ProfileFields{}.Apply(&p))
}

func TestEffectiveSubRole(t *testing.T) {
	assert.Equal(t, "super_admin", AdminInvite{Role: "super_admin"}.EffectiveSubRole())
	assert.Equal(t, "moderator", AdminInvite{Role: "admin", SubRole: "moderator"}.EffectiveSubRole())
}
