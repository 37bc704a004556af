// SPDX-License-Identifier: AGPL-3.0-or-later

package report

// CommitDiff splits two commit sequences by hash.
type CommitDiff struct {
	Common       []CommitRecord `json:"common" yaml:"common"`
	OnlyInFirst  []CommitRecord `json:"only_in_first" yaml:"only_in_first"`
	OnlyInSecond []CommitRecord `json:"only_in_second" yaml:"only_in_second"`
}

// DiffCommits compares a and b by hash. Common follows a's order; each
// "only" list follows the order of its own sequence.
func DiffCommits(a, b []CommitRecord) CommitDiff {
	inA := make(map[string]struct{}, len(a))
	for _, c := range a {
		inA[c.Hash] = struct{}{}
	}
	inB := make(map[string]struct{}, len(b))
	for _, c := range b {
		inB[c.Hash] = struct{}{}
	}

	diff := CommitDiff{
		Common:       []CommitRecord{},
		OnlyInFirst:  []CommitRecord{},
		OnlyInSecond: []CommitRecord{},
	}
	for _, c := range a {
		if _, ok := inB[c.Hash]; ok {
			diff.Common = append(diff.Common, c)
		} else {
			diff.OnlyInFirst = append(diff.OnlyInFirst, c)
		}
	}
	for _, c := range b {
		if _, ok := inA[c.Hash]; !ok {
			diff.OnlyInSecond = append(diff.OnlyInSecond, c)
		}
	}
	return diff
}
