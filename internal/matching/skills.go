// Package matching decides whether a project should be recommended to
// a freelancer based on skill overlap.
package matching

import "strings"

// MatchesSkillSet reports whether any candidate skill equals any user
// skill after trimming whitespace and lowercasing. Exact match only,
// no substring matching: "React" does not match "React Native".
func MatchesSkillSet(userSkills, candidateSkills []string) bool {
	if len(userSkills) == 0 || len(candidateSkills) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(userSkills))
	for _, s := range userSkills {
		if n := normalize(s); n != "" {
			set[n] = struct{}{}
		}
	}
	for _, s := range candidateSkills {
		if _, ok := set[normalize(s)]; ok {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
