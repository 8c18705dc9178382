package reuse

import (
	"sort"

	"github.com/ppiankov/echotrace/internal/model"
)

// Issue strings emitted by the classifier.
const (
	IssueHighFrequency      = "High frequency reuse"
	IssueCrossIdeological   = "Cross-ideological reuse"
	IssueUnclassifiedCluster = "Unclassified cluster reuse"
)

// Classify applies the tiered reuse rules to every group and returns the
// anomalies, ordered by fingerprint for stable output. It is a pure
// function of the reuse map and the label mapping.
//
// Rules are evaluated in priority order and a group yields at most one
// anomaly:
//  1. at least 2 sources            -> High frequency reuse
//  2. else at least 2 distinct labels -> Cross-ideological reuse
//  3. else all unclassified, >=3 sources -> Unclassified cluster reuse
//
// Note rule 3 is unreachable as ordered: rule 1 already fires for every
// group with >=2 sources, so no 3-source group survives to rule 3. The
// ordering is kept as-is rather than silently reinterpreting what the rule
// was meant to catch; TestClassify_UnclassifiedClusterShadowedByHighFrequency
// pins the behavior.
func Classify(reuseMap model.ReuseMap, labels model.DomainLabels) []model.Anomaly {
	fingerprints := make([]string, 0, len(reuseMap))
	for fp := range reuseMap {
		fingerprints = append(fingerprints, fp)
	}
	sort.Strings(fingerprints)

	var anomalies []model.Anomaly
	for _, fp := range fingerprints {
		if anomaly, ok := classifyGroup(fp, reuseMap[fp], labels); ok {
			anomalies = append(anomalies, anomaly)
		}
	}
	return anomalies
}

func classifyGroup(fingerprint string, group *model.ReuseGroup, labels model.DomainLabels) (model.Anomaly, bool) {
	sources := group.Sources

	distinct := make(map[string]struct{})
	reusedOn := make([]model.ReusedSource, 0, len(sources))
	allUnclassified := true
	for _, src := range sources {
		label := labels.Get(src.Domain)
		distinct[label] = struct{}{}
		if label != model.LabelUnclassified {
			allUnclassified = false
		}
		reusedOn = append(reusedOn, model.ReusedSource{Domain: src.Domain, Label: label})
	}

	anomaly := model.Anomaly{
		ContentHash: fingerprint,
		ReusedOn:    reusedOn,
	}

	switch {
	case len(sources) >= 2:
		anomaly.Issue = IssueHighFrequency
	case len(distinct) >= 2:
		anomaly.Issue = IssueCrossIdeological
	case allUnclassified && len(sources) >= 3:
		anomaly.Issue = IssueUnclassifiedCluster
	default:
		return model.Anomaly{}, false
	}

	return anomaly, true
}
