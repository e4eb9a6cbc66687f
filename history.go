package apihistory

import (
	"slices"
)

// BuildHistory turns a working set of versions into the ordered steps of a
// change history. Versions that are not diffable are dropped, the rest are
// sorted with the pending build last, and each neighbouring pair becomes a
// step, so n diffable versions give n-1 steps.
//
// Fewer than two diffable versions give an empty, non-nil slice. Several
// pending entries keep their input order. versions is not modified.
func BuildHistory(versions []ArtifactVersion) []VersionStep {
	sorted := make([]ArtifactVersion, 0, len(versions))
	for _, v := range versions {
		if IsDiffable(v) {
			sorted = append(sorted, v)
		}
	}
	slices.SortStableFunc(sorted, compareVersions)

	if len(sorted) < 2 {
		return []VersionStep{}
	}

	steps := make([]VersionStep, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		steps = append(steps, VersionStep{From: sorted[i-1], To: sorted[i]})
	}
	return steps
}

func compareVersions(a, b ArtifactVersion) int {
	switch {
	case a.Pending && b.Pending:
		return 0
	case a.Pending:
		return 1
	case b.Pending:
		return -1
	}
	return CompareLabels(a.Version, b.Version)
}

// since drops released versions that sort before floor in the history
// order, so the kept versions stay contiguous. The pending build is always
// kept. An empty floor keeps everything.
func since(versions []ArtifactVersion, floor string) []ArtifactVersion {
	if floor == "" {
		return versions
	}
	kept := make([]ArtifactVersion, 0, len(versions))
	for _, v := range versions {
		if v.Pending || CompareLabels(v.Version, floor) >= 0 {
			kept = append(kept, v)
		}
	}
	return kept
}
