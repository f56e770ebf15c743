package phpsymbol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAcronym(t *testing.T) {
	cases := map[string]string{
		"MyFooClass":         "mfc",
		"_my_function":       "mf",
		"$myProperty":        "mp",
		"THIS_IS_A_CONSTANT": "tiac",
	}
	for name, want := range cases {
		require.Equal(t, want, Acronym(name), "Acronym(%q)", name)
	}
}

func TestSuffixKeys(t *testing.T) {
	cases := map[string][]string{
		`Foo\MyFooClass`:     {`foo\myfooclass`, "myfooclass", "fooclass", "class"},
		"$myProperty":        {"$myproperty", "myproperty", "property"},
		"THIS_IS_A_CONSTANT": {"this_is_a_constant", "is_a_constant", "a_constant", "constant"},
	}
	for name, want := range cases {
		require.Equal(t, want, SuffixKeys(name), "SuffixKeys(%q)", name)
	}
}

func TestSuffixKeysFirstEqualsLowercaseName(t *testing.T) {
	for _, name := range []string{`App\Models\User`, "getName", "MY_CONST"} {
		keys := SuffixKeys(name)
		require.NotEmpty(t, keys)
		require.Equal(t, lowerCaser.String(name), keys[0])
	}
}

func TestSplitJoinFQN(t *testing.T) {
	ns, short := SplitFQN(`App\Models\User`)
	require.Equal(t, `App\Models`, ns)
	require.Equal(t, "User", short)
	require.Equal(t, `App\Models\User`, JoinFQN(ns, short))

	ns, short = SplitFQN("User")
	require.Equal(t, "", ns)
	require.Equal(t, "User", short)
}
