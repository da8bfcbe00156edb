package matching

import "testing"

func TestMatchesSkillSet(t *testing.T) {
	cases := []struct {
		name      string
		user      []string
		candidate []string
		want      bool
	}{
		{
			"case and whitespace insensitive exact match",
			[]string{"React Native", "ui design"},
			[]string{"UI Design", "Photoshop"},
			true,
		},
		{
			"no substring matching",
			[]string{"React"},
			[]string{"React Native"},
			false,
		},
		{
			"trimmed before comparison",
			[]string{"  golang "},
			[]string{"Golang"},
			true,
		},
		{"empty user skills", nil, []string{"Go"}, false},
		{"empty candidate skills", []string{"Go"}, nil, false},
		{"no overlap", []string{"Figma"}, []string{"Go", "Rust"}, false},
	}
	for _, tc := range cases {
		if got := MatchesSkillSet(tc.user, tc.candidate); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
