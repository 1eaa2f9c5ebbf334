package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSession bool

func (s fakeSession) IsAuthenticated() bool { return bool(s) }

func TestDecide(t *testing.T) {
	testCases := []struct {
		name     string
		path     string
		session  fakeSession
		expected Decision
	}{
		{"dashboard authenticated", "/dashboard", true, Decision{Allow: true}},
		{"dashboard anonymous", "/dashboard", false, Decision{RedirectTo: "/login"}},
		{"dashboard trailing slash", "/dashboard/", false, Decision{RedirectTo: "/login"}},
		{"dashboard without root", "dashboard", false, Decision{RedirectTo: "/login"}},
		{"home anonymous", "/", false, Decision{Allow: true}},
		{"login anonymous", "/login", false, Decision{Allow: true}},
		{"registration anonymous", "/registration", false, Decision{Allow: true}},
		{"unknown authenticated", "/nope", true, Decision{Allow: true}},
		{"dashboard child is not protected", "/dashboard/extra", false, Decision{Allow: true}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Decide(tc.path, tc.session))
		})
	}
}

func TestDecide_NilSessionIsAnonymous(t *testing.T) {
	assert.Equal(t, Decision{RedirectTo: LoginPath}, Decide(DashboardPath, nil))
	assert.Equal(t, Decision{Allow: true}, Decide("/", nil))
}
