package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		accountID string
		want      Resource
	}{
		{
			name: "plain url",
			raw:  "https://cdn.example/acct/photo.jpg",
			want: Resource{Endpoint: "https://cdn.example/acct", AccountID: "acct", BasePath: "photo.jpg"},
		},
		{
			name: "single step",
			raw:  "https://cdn.example/acct/tr:q-80,w-400/photo.jpg",
			want: Resource{
				Endpoint:  "https://cdn.example/acct",
				AccountID: "acct",
				BasePath:  "photo.jpg",
				Steps:     []string{"q-80,w-400"},
			},
		},
		{
			name: "several step segments and nested folders",
			raw:  "https://cdn.example/acct/tr:w-400:rt-90/tr:q-80/folder/sub/photo.jpg",
			want: Resource{
				Endpoint:  "https://cdn.example/acct",
				AccountID: "acct",
				BasePath:  "folder/sub/photo.jpg",
				Steps:     []string{"w-400:rt-90", "q-80"},
			},
		},
		{
			name: "legacy query form",
			raw:  "https://cdn.example/acct/photo.jpg?tr=q-70,f-webp",
			want: Resource{
				Endpoint:  "https://cdn.example/acct",
				AccountID: "acct",
				BasePath:  "photo.jpg",
				Steps:     []string{"q-70,f-webp"},
			},
		},
		{
			name: "path steps come before query steps",
			raw:  "https://cdn.example/acct/tr:w-100/photo.jpg?tr=q-70",
			want: Resource{
				Endpoint:  "https://cdn.example/acct",
				AccountID: "acct",
				BasePath:  "photo.jpg",
				Steps:     []string{"w-100", "q-70"},
			},
		},
		{
			name: "other query parameters are kept",
			raw:  "https://cdn.example/acct/photo.jpg?v=3&tr=w-100&ik-s=abc",
			want: Resource{
				Endpoint:  "https://cdn.example/acct",
				AccountID: "acct",
				BasePath:  "photo.jpg",
				Steps:     []string{"w-100"},
				Query:     "v=3&ik-s=abc",
			},
		},
		{
			name: "duplicated account collapses",
			raw:  "https://cdn.example/acct/acct/photo.jpg",
			want: Resource{Endpoint: "https://cdn.example/acct", AccountID: "acct", BasePath: "photo.jpg"},
		},
		{
			name: "asset named like the account is kept",
			raw:  "https://cdn.example/acct/acct",
			want: Resource{Endpoint: "https://cdn.example/acct", AccountID: "acct", BasePath: "acct"},
		},
		{
			name: "empty step segment is ignored",
			raw:  "https://cdn.example/acct/tr:/photo.jpg",
			want: Resource{Endpoint: "https://cdn.example/acct", AccountID: "acct", BasePath: "photo.jpg"},
		},
		{
			name: "extra slashes",
			raw:  "https://cdn.example//acct//photo.jpg/",
			want: Resource{Endpoint: "https://cdn.example/acct", AccountID: "acct", BasePath: "photo.jpg"},
		},
		{
			name: "bare path",
			raw:  "/acct/tr:w-100/videos/clip.mp4",
			want: Resource{AccountID: "acct", BasePath: "videos/clip.mp4", Steps: []string{"w-100"}},
		},
		{
			name: "protocol relative",
			raw:  "//cdn.example/acct/photo.jpg",
			want: Resource{Endpoint: "//cdn.example/acct", AccountID: "acct", BasePath: "photo.jpg"},
		},
		{
			name:      "configured account matches",
			raw:       "https://cdn.example/acct/tr:q-80/photo.jpg",
			accountID: "acct",
			want: Resource{
				Endpoint:  "https://cdn.example/acct",
				AccountID: "acct",
				BasePath:  "photo.jpg",
				Steps:     []string{"q-80"},
			},
		},
		{
			name:      "configured account does not match",
			raw:       "/other/photo.jpg",
			accountID: "acct",
			want:      Resource{BasePath: "other/photo.jpg"},
		},
		{
			name: "leading step segment is not an account",
			raw:  "https://img.example/tr:w-100/photo.jpg",
			want: Resource{Endpoint: "https://img.example", BasePath: "photo.jpg", Steps: []string{"w-100"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePath(tt.raw, tt.accountID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDropQueryParam(t *testing.T) {
	tests := []struct {
		name     string
		rawQuery string
		want     string
	}{
		{"empty", "", ""},
		{"only tr", "tr=w-100", ""},
		{"order kept", "b=2&tr=w-100&a=1", "b=2&a=1"},
		{"repeated tr", "tr=w-100&x=1&tr=q-80", "x=1"},
		{"escaped key", "t%72=w-100&x=1", "x=1"},
		{"escapes untouched", "sig=a%2Fb&tr=w-1", "sig=a%2Fb"},
		{"similar name kept", "trx=1&tr", "trx=1"},
		{"empty parts dropped", "a=1&&b=2", "a=1&b=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dropQueryParam(tt.rawQuery, stepQueryParam))
		})
	}
}

func TestParsePath_Malformed(t *testing.T) {
	e := NewEngine(Options{}, nil)

	for _, raw := range []string{
		"",
		"   ",
		"not a url",
		"photo.jpg",
		"https://cdn.example",
		"https://cdn.example/",
		"http://[::1",
		"%zz",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := parsePath(raw, "")
			assert.Error(t, err)

			res := e.ParsePath(raw)
			assert.Equal(t, Resource{}, res)
			assert.Empty(t, res.BasePath)
			assert.Empty(t, res.Steps)
		})
	}
}

func TestResource_PlainURLRoundTrip(t *testing.T) {
	res, err := parsePath("https://cdn.example/acct/tr:q-80/a/b.png", "")
	require.NoError(t, err)

	plain := Serialize(res.Endpoint, res.BasePath, nil)
	assert.Equal(t, "https://cdn.example/acct/a/b.png", plain)

	again, err := parsePath(plain, "")
	require.NoError(t, err)
	assert.Equal(t, res.BasePath, again.BasePath)
	assert.Empty(t, again.Steps)
}
