package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: "/"},
		{name: "root", in: "/", want: "/"},
		{name: "trailing slash", in: "/dashboard/", want: "/dashboard"},
		{name: "query and fragment", in: "/user/user-list?x=1#top", want: "/user/user-list"},
		{name: "relative", in: "system/setting", want: "/system/setting"},
		{name: "dot segments", in: "/a/./b/../c", want: "/a/c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestHasPrefixIsPlainStringPrefix(t *testing.T) {
	assert.True(t, HasPrefix("/sub-app/foo", "/sub-app"))
	assert.True(t, HasPrefix("/sub-appx", "/sub-app"))
	assert.False(t, HasPrefix("/Sub-app", "/sub-app"))
	assert.False(t, HasPrefix("/anything", ""))
	assert.True(t, HasAnyPrefix("/system/setting", []string{"/dashboard", "/system"}))
	assert.False(t, HasAnyPrefix("/nope", []string{"/dashboard", "/system"}))
}

func TestJoinAndSegments(t *testing.T) {
	assert.Equal(t, "/system/setting", Join("/system", "setting"))
	assert.Equal(t, "/other", Join("/system", "/other"))
	assert.Equal(t, "/system", Join("/system", ""))
	assert.Nil(t, Segments("/"))
	assert.Equal(t, []string{"user", "user-list"}, Segments("/user/user-list"))
}
